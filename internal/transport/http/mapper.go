package http

import (
	"time"

	"github.com/vovakirdan/chirper-server/internal/store"
)

// ChirpResponse represents a chirp in JSON API responses.
type ChirpResponse struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Author    string `json:"author"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	Edited    bool   `json:"edited"`
}

func chirpToResponse(c *store.Chirp) ChirpResponse {
	return ChirpResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Author:    c.Author,
		Body:      c.Body,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
		Edited:    c.Edited(),
	}
}

func chirpsToResponse(chirps []*store.Chirp) []ChirpResponse {
	out := make([]ChirpResponse, 0, len(chirps))
	for _, c := range chirps {
		out = append(out, chirpToResponse(c))
	}
	return out
}
