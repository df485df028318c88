// Package ginserver wires the HTTP surface: routing, CORS, request
// observability and the bearer-session middleware.
package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"rentradar/internal/infra/config"
	"rentradar/internal/infra/obs"
)

type ScanHTTP interface {
	Scan(c *gin.Context)
}

type SessionHTTP interface {
	Results(c *gin.Context)
}

type PaymentHTTP interface {
	CreatePreference(c *gin.Context)
	Webhook(c *gin.Context)
	WebhookStatus(c *gin.Context)
}

type Handlers struct {
	Scan           ScanHTTP
	Session        SessionHTTP
	Payment        PaymentHTTP
	Auth           AuthHTTP
	Me             MeHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Scan != nil {
		api.GET("/scan", h.Scan.Scan)
	}
	if h.Session != nil {
		api.GET("/session/results", h.Session.Results)
	}
	if h.Payment != nil {
		api.POST("/payment/create-preference", h.Payment.CreatePreference)
		api.POST("/payment/webhook", h.Payment.Webhook)
		api.GET("/payment/webhook", h.Payment.WebhookStatus)
	}
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Me != nil {
		meGroup := api.Group("/me")
		meGroup.GET("/saved-listings", h.Me.SavedListings)
		meGroup.POST("/saved-listings", h.Me.SaveListing)
		meGroup.DELETE("/saved-listings/:id", h.Me.UnsaveListing)
		meGroup.GET("/recent-searches", h.Me.RecentSearches)
		meGroup.DELETE("/recent-searches", h.Me.ClearRecentSearches)
		meGroup.GET("/preferences", h.Me.Preferences)
		meGroup.PUT("/preferences", h.Me.UpdatePreferences)
		meGroup.GET("/credits", h.Me.Credits)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
