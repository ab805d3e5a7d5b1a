package handler

import (
	"net/http"

	"animelog/internal/microservices/http-api/middleware"
	"animelog/internal/microservices/http-api/service"
	"animelog/internal/microservices/http-api/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps is everything the router needs. Profiles, Reviews and Notifications
// may be nil when the process runs without a hosted backend; their routes
// are then not mounted.
type Deps struct {
	Resolver      *storage.Resolver
	JWTSecret     []byte
	CORSOrigins   []string
	Logger        *zap.Logger
	Animes        service.AnimeService
	Watchlist     service.WatchlistService
	Preferences   service.PreferenceService
	Rollover      service.RolloverService
	Search        Searcher
	Profiles      service.ProfileService
	Reviews       service.ReviewService
	Notifications service.NotificationService
	// Ready reports backend health for /healthz.
	Ready func() error
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.CORS(d.CORSOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := r.Group("/api/v1")
	if d.Search != nil {
		NewSearchHandler(d.Search).RegisterRoutes(public.Group("/search"))
	}

	api := r.Group("/api/v1")
	api.Use(middleware.Identity(d.JWTSecret, d.Resolver))
	NewAnimeHandler(d.Animes).RegisterRoutes(api)
	NewWatchlistHandler(d.Watchlist).RegisterRoutes(api.Group("/watchlist"))
	NewPreferenceHandler(d.Preferences, d.Rollover).RegisterRoutes(api)

	if d.Profiles != nil && d.Reviews != nil {
		ph := NewProfileHandler(d.Profiles, d.Reviews)
		ph.RegisterPublicRoutes(public)
		ph.RegisterRoutes(api.Group("", middleware.RequireHosted()))
	}
	if d.Notifications != nil {
		nh := NewNotificationHandler(d.Notifications)
		nh.RegisterPublicRoutes(public)
		nh.RegisterRoutes(api.Group("", middleware.RequireHosted()))
	}
	return r
}
