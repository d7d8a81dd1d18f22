package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/chirper-server/internal/auth"
)

const (
	// ContextKeyUserID is the context key for storing user ID.
	ContextKeyUserID = "user_id"
	// ContextKeyUsername is the context key for storing username.
	ContextKeyUsername = "username"
	// ContextKeySession is the context key for the viewer session ID.
	ContextKeySession = "session_id"

	// sessionCookie identifies a viewer session for edit state.
	sessionCookie = "chirper_session"
	// tokenCookie carries the JWT for browser page loads.
	tokenCookie = "chirper_token"
)

// AuthMiddleware creates a middleware that requires a valid JWT token.
func AuthMiddleware(authService *auth.Service, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			logger.Debug().Msg("missing authorization token")
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing authorization token"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			logger.Debug().Err(err).Msg("invalid token")
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUsername, claims.Username)

		c.Next()
	}
}

// OptionalAuthMiddleware resolves the viewer identity when a token is
// present but lets anonymous requests through. Used for feed views, where
// identity only controls which rows get an actions menu.
func OptionalAuthMiddleware(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if claims, err := authService.ValidateToken(token); err == nil {
				c.Set(ContextKeyUserID, claims.UserID)
				c.Set(ContextKeyUsername, claims.Username)
			}
		}
		c.Next()
	}
}

// SessionMiddleware assigns each viewer a session cookie. The session keys
// per-viewer UI state (the edit target), not authentication.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := c.Cookie(sessionCookie)
		if err != nil || session == "" {
			session = uuid.NewString()
			c.SetCookie(sessionCookie, session, 3600*24*7, "/", "", false, true)
		}
		c.Set(ContextKeySession, session)
		c.Next()
	}
}

// LoggerMiddleware creates a middleware that logs HTTP requests.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}

// extractToken pulls the JWT from the Authorization header or, for browser
// page loads, from the token cookie.
func extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if token, err := c.Cookie(tokenCookie); err == nil {
		return token
	}
	return ""
}

// currentUserID returns the authenticated user ID, or 0 for anonymous.
func currentUserID(c *gin.Context) int64 {
	v, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0
	}
	uid, ok := v.(int64)
	if !ok {
		return 0
	}
	return uid
}

// currentSession returns the viewer session ID, or "" when the session
// middleware did not run.
func currentSession(c *gin.Context) string {
	v, exists := c.Get(ContextKeySession)
	if !exists {
		return ""
	}
	session, _ := v.(string)
	return session
}
