package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/chirper-server/internal/feed"
	"github.com/vovakirdan/chirper-server/internal/render"
)

// ChirpHandlers provides HTTP handlers for the chirp feed.
type ChirpHandlers struct {
	feed     *feed.Service
	edits    *feed.EditState
	renderer *render.Renderer
	limiter  *rateLimiter
	log      *zerolog.Logger
}

// NewChirpHandlers creates a new chirp handlers instance.
func NewChirpHandlers(svc *feed.Service, edits *feed.EditState, renderer *render.Renderer, limiter *rateLimiter, logger *zerolog.Logger) *ChirpHandlers {
	return &ChirpHandlers{
		feed:     svc,
		edits:    edits,
		renderer: renderer,
		limiter:  limiter,
		log:      logger,
	}
}

// ChirpRequest represents the create/update request body.
type ChirpRequest struct {
	Body string `json:"body" binding:"required"`
}

// ListChirps returns the feed as JSON, newest first.
// GET /api/chirps
func (h *ChirpHandlers) ListChirps(c *gin.Context) {
	chirps, err := h.feed.Load(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load feed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, chirpsToResponse(chirps))
}

// CreateChirp persists a new chirp for the authenticated user.
// POST /api/chirps
func (h *ChirpHandlers) CreateChirp(c *gin.Context) {
	uid := currentUserID(c)

	if !h.limiter.allow(uid) {
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many chirps, slow down"})
		return
	}

	var req ChirpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create chirp request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	chirp, err := h.feed.Create(c.Request.Context(), uid, req.Body)
	if err != nil {
		h.respondFeedError(c, err, "failed to create chirp")
		return
	}

	h.log.Info().Int64("chirp_id", chirp.ID).Int64("user_id", uid).Msg("chirp created")
	c.JSON(http.StatusCreated, chirpToResponse(chirp))
}

// UpdateChirp replaces the body of the viewer's own chirp.
// PUT /api/chirps/:id
func (h *ChirpHandlers) UpdateChirp(c *gin.Context) {
	uid := currentUserID(c)

	chirpID, ok := chirpIDParam(c)
	if !ok {
		return
	}

	var req ChirpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid update chirp request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	chirp, err := h.feed.Update(c.Request.Context(), uid, chirpID, req.Body)
	if err != nil {
		h.respondFeedError(c, err, "failed to update chirp")
		return
	}

	h.log.Info().Int64("chirp_id", chirp.ID).Int64("user_id", uid).Msg("chirp updated")
	c.JSON(http.StatusOK, chirpToResponse(chirp))
}

// DeleteChirp removes the viewer's own chirp.
// DELETE /api/chirps/:id
func (h *ChirpHandlers) DeleteChirp(c *gin.Context) {
	uid := currentUserID(c)

	chirpID, ok := chirpIDParam(c)
	if !ok {
		return
	}

	if err := h.feed.Delete(c.Request.Context(), uid, chirpID); err != nil {
		h.respondFeedError(c, err, "failed to delete chirp")
		return
	}

	h.log.Info().Int64("chirp_id", chirpID).Int64("user_id", uid).Msg("chirp deleted")
	c.Status(http.StatusNoContent)
}

// BeginEdit marks a chirp as the viewer session's edit target.
// POST /api/chirps/:id/edit
func (h *ChirpHandlers) BeginEdit(c *gin.Context) {
	uid := currentUserID(c)

	chirpID, ok := chirpIDParam(c)
	if !ok {
		return
	}

	chirp, err := h.feed.Get(c.Request.Context(), chirpID)
	if err != nil {
		h.respondFeedError(c, err, "failed to load chirp for edit")
		return
	}
	if !h.feed.Authorize(uid, chirp) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
		return
	}

	h.edits.BeginEdit(currentSession(c), chirpID)
	c.Status(http.StatusNoContent)
}

// CancelEdit clears the viewer session's edit target.
// POST /api/edit/cancel
func (h *ChirpHandlers) CancelEdit(c *gin.Context) {
	h.edits.CancelEdit(currentSession(c))
	c.Status(http.StatusNoContent)
}

// FeedFragment renders the feed HTML fragment the page poller fetches.
// GET /api/feed
func (h *ChirpHandlers) FeedFragment(c *gin.Context) {
	html, ok := h.renderFeed(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// respondFeedError maps feed domain errors to HTTP statuses.
func (h *ChirpHandlers) respondFeedError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, feed.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	case errors.Is(err, feed.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "chirp not found"})
	case errors.Is(err, feed.ErrEmptyBody), errors.Is(err, feed.ErrBodyTooLong):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		h.log.Error().Err(err).Msg(logMsg)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// renderFeed loads the snapshot and renders it for the current viewer.
func (h *ChirpHandlers) renderFeed(c *gin.Context) (string, bool) {
	chirps, err := h.feed.Load(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load feed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return "", false
	}

	uid := currentUserID(c)
	target := h.edits.Target(currentSession(c))

	html, err := h.renderer.Feed(chirps, target, uid)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to render feed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return "", false
	}
	return string(html), true
}

func chirpIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid chirp id"})
		return 0, false
	}
	return id, true
}
