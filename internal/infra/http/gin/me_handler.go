package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentradar/internal/app/credits"
	"rentradar/internal/app/profile"
	"rentradar/internal/domain/listing"
	domainuser "rentradar/internal/domain/user"
)

type MeHTTP interface {
	SavedListings(c *gin.Context)
	SaveListing(c *gin.Context)
	UnsaveListing(c *gin.Context)
	RecentSearches(c *gin.Context)
	ClearRecentSearches(c *gin.Context)
	Preferences(c *gin.Context)
	UpdatePreferences(c *gin.Context)
	Credits(c *gin.Context)
}

type MeHandler struct {
	Profile        *profile.Service
	CreditsService *credits.Service
	Logger         *slog.Logger
}

func (h MeHandler) SavedListings(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	saved, err := h.Profile.SavedListings(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, "loading saved listings failed", err, user.ID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": saved})
}

func (h MeHandler) SaveListing(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var l listing.Listing
	if err := c.ShouldBindJSON(&l); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing body"})
		return
	}
	if err := h.Profile.SaveListing(c.Request.Context(), user.ID, l); err != nil {
		if errors.Is(err, profile.ErrListingIDRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.fail(c, "saving listing failed", err, user.ID)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h MeHandler) UnsaveListing(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.Profile.UnsaveListing(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		if errors.Is(err, profile.ErrListingIDRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.fail(c, "removing saved listing failed", err, user.ID)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h MeHandler) RecentSearches(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	searches, err := h.Profile.RecentSearches(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, "loading recent searches failed", err, user.ID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"searches": searches})
}

func (h MeHandler) ClearRecentSearches(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.Profile.ClearRecentSearches(c.Request.Context(), user.ID); err != nil {
		h.fail(c, "clearing recent searches failed", err, user.ID)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h MeHandler) Preferences(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	prefs, err := h.Profile.Preferences(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, "loading preferences failed", err, user.ID)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h MeHandler) UpdatePreferences(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var prefs domainuser.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preferences body"})
		return
	}
	if err := h.Profile.UpdatePreferences(c.Request.Context(), user.ID, prefs); err != nil {
		h.fail(c, "updating preferences failed", err, user.ID)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h MeHandler) Credits(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	info, err := h.CreditsService.CreditInfo(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, "loading credits failed", err, user.ID)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h MeHandler) fail(c *gin.Context, msg string, err error, userID string) {
	if h.Logger != nil {
		h.Logger.Error(msg, "error", err, "user_id", userID)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

var _ MeHTTP = (*MeHandler)(nil)
