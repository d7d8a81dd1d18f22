package http

import (
	"fmt"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/chirper-server/internal/auth"
	"github.com/vovakirdan/chirper-server/internal/config"
	"github.com/vovakirdan/chirper-server/internal/event"
	"github.com/vovakirdan/chirper-server/internal/feed"
	"github.com/vovakirdan/chirper-server/internal/render"
)

// NewServer builds the HTTP server with all routes registered.
func NewServer(feedSvc *feed.Service, edits *feed.EditState, renderer *render.Renderer, authService *auth.Service, bus *event.Bus, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	apiHandlers := NewAPIHandlers(authService, logger)
	chirpHandlers := NewChirpHandlers(feedSvc, edits, renderer, newRateLimiter(cfg.ChirpsPerMinute), logger)
	wsHandler := NewWSHandler(NewNotifier(bus), logger)

	optionalAuth := OptionalAuthMiddleware(authService)
	requireAuth := AuthMiddleware(authService, logger)
	session := SessionMiddleware()

	// Feed views: identity optional, session keys the edit state.
	router.GET("/", session, optionalAuth, chirpHandlers.Page(cfg.PollInterval))
	router.GET("/static/feed.js", chirpHandlers.FeedScript)
	router.GET("/ws", wsHandler.Handle)
	router.GET("/health", healthHandler)

	api := router.Group("/api")
	{
		api.POST("/register", apiHandlers.Register)
		api.POST("/login", apiHandlers.Login)

		api.GET("/feed", session, optionalAuth, chirpHandlers.FeedFragment)
		api.GET("/chirps", optionalAuth, chirpHandlers.ListChirps)

		api.POST("/chirps", requireAuth, chirpHandlers.CreateChirp)
		api.PUT("/chirps/:id", requireAuth, chirpHandlers.UpdateChirp)
		api.DELETE("/chirps/:id", requireAuth, chirpHandlers.DeleteChirp)

		api.POST("/chirps/:id/edit", session, requireAuth, chirpHandlers.BeginEdit)
		api.POST("/edit/cancel", session, chirpHandlers.CancelEdit)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	fmt.Fprint(c.Writer, "ok")
}
