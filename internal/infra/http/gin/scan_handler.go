package ginserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentradar/internal/app/scan"
	"rentradar/internal/domain/listing"
)

type ScanHandler struct {
	Service *scan.Service
	Logger  *slog.Logger
}

func (h ScanHandler) Scan(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scan service unavailable"})
		return
	}
	result, err := h.Service.Scan(c.Request.Context(), c.Query("query"))
	if err != nil {
		h.respondScanError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ScanHandler) respondScanError(c *gin.Context, err error) {
	var upstream *scan.UpstreamError
	switch {
	case errors.Is(err, scan.ErrNotConfigured):
		if h.Logger != nil {
			h.Logger.Error("scan misconfigured", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":    "Server configuration error",
			"listings": []listing.Listing{},
		})
	case errors.As(err, &upstream):
		if h.Logger != nil {
			h.Logger.Error("upstream provider failed", "provider", upstream.Provider, "status", upstream.Status)
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":    fmt.Sprintf("%s error: %d", upstream.Provider, upstream.Status),
			"listings": []listing.Listing{},
		})
	default:
		if h.Logger != nil {
			h.Logger.Error("scan failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":    "Error al buscar propiedades",
			"listings": []listing.Listing{},
		})
	}
}

var _ ScanHTTP = (*ScanHandler)(nil)
