package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentradar/internal/app/profile"
	"rentradar/internal/app/session"
	"rentradar/internal/domain/listing"
)

// SessionHandler exposes the paywalled result view for clients that do not
// keep the listing set themselves. A query parameter runs a fresh search;
// omitting it re-filters the set already fetched for this user.
type SessionHandler struct {
	Service *session.Service
	Profile *profile.Service
	Logger  *slog.Logger
}

func (h SessionHandler) Results(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session service unavailable"})
		return
	}
	filters := listing.Filters{
		PriceRange: c.Query("price_range"),
		Bedrooms:   c.Query("bedrooms"),
	}

	var (
		view session.View
		err  error
	)
	if query := c.Query("query"); query != "" {
		view, err = h.Service.Search(c.Request.Context(), user.ID, query, filters)
		if err == nil && h.Profile != nil {
			if recErr := h.Profile.RecordSearch(c.Request.Context(), user.ID, query); recErr != nil && h.Logger != nil {
				h.Logger.Warn("recording search failed", "error", recErr, "user_id", user.ID)
			}
		}
	} else {
		view, err = h.Service.SetFilters(c.Request.Context(), user.ID, filters)
	}
	if err != nil {
		// the session layer surfaces the same pipeline errors as /scan
		ScanHandler{Logger: h.Logger}.respondScanError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

var _ SessionHTTP = (*SessionHandler)(nil)
