package http

import (
	"context"
	"errors"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// WSHandler streams refresh hints to connected feed pages. The stream is
// one-way: clients never send anything, they just re-fetch the feed when a
// hint arrives.
type WSHandler struct {
	notifier *Notifier
	log      *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(notifier *Notifier, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{notifier: notifier, log: logger}
}

// Handle upgrades the connection and forwards hints until the client leaves.
// GET /ws
func (h *WSHandler) Handle(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	hints := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(hints)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Surface client disconnects: reads fail once the peer goes away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case hint := <-hints:
			if err := wsjson.Write(ctx, conn, hint); err != nil {
				if !errors.Is(err, context.Canceled) {
					h.log.Warn().Err(err).Msg("write ws hint")
				}
				return
			}
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "closing")
			return
		}
	}
}
