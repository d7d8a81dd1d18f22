package http

import (
	"context"
	"database/sql"
	stdhttp "net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/chirper-server/internal/auth"
	"github.com/vovakirdan/chirper-server/internal/config"
	"github.com/vovakirdan/chirper-server/internal/event"
	"github.com/vovakirdan/chirper-server/internal/feed"
	"github.com/vovakirdan/chirper-server/internal/render"
	"github.com/vovakirdan/chirper-server/internal/store"
	"github.com/vovakirdan/chirper-server/internal/store/sqlite"
)

// testServer bundles everything handler tests need.
type testServer struct {
	server *stdhttp.Server
	store  store.Store
	auth   *auth.Service
	bus    *event.Bus
}

// createTestServer assembles a server over an in-memory store.
func createTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewWithSetup(":memory:", func(db *sql.DB) error {
		_, err := db.Exec(sqlite.Schema)
		return err
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	}
	authService := auth.NewService(st, jwtConfig)

	bus := event.NewBus()
	feedSvc := feed.NewService(st, feed.AuthorOnly, bus)
	edits := feed.NewEditState(bus)

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}

	disabledLogger := zerolog.New(nil)

	cfg := &config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		PollInterval:      5 * time.Second,
		ChirpsPerMinute:   0, // no limit in tests unless set explicitly
		JWTSecret:         "test-secret",
	}

	return &testServer{
		server: NewServer(feedSvc, edits, renderer, authService, bus, cfg, &disabledLogger),
		store:  st,
		auth:   authService,
		bus:    bus,
	}
}

// registerUser registers a user and returns their token.
func (ts *testServer) registerUser(t *testing.T, username string) string {
	t.Helper()

	token, err := ts.auth.Register(context.Background(), username, "password123")
	if err != nil {
		t.Fatalf("failed to register %s: %v", username, err)
	}
	return token
}
