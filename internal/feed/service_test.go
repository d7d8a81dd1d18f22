package feed

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/chirper-server/internal/event"
	"github.com/vovakirdan/chirper-server/internal/store"
	"github.com/vovakirdan/chirper-server/internal/store/sqlite"
)

// newTestStore creates an in-memory store with two seeded users:
// alice (id 1) and bob (id 2).
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewWithSetup(":memory:", func(db *sql.DB) error {
		if _, err := db.Exec(sqlite.Schema); err != nil {
			return err
		}
		_, err := db.Exec(`INSERT INTO users (username, password_hash) VALUES ('alice', 'x'), ('bob', 'x')`)
		return err
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return st
}

const (
	aliceID int64 = 1
	bobID   int64 = 2
)

func newTestService(t *testing.T) (*Service, store.Store, *event.Bus) {
	t.Helper()
	st := newTestStore(t)
	bus := event.NewBus()
	return NewService(st, AuthorOnly, bus), st, bus
}

func TestLoadOrdersNewestFirst(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, body := range []string{"first", "second", "third"} {
		if _, err := svc.Create(ctx, aliceID, body); err != nil {
			t.Fatalf("create %q: %v", body, err)
		}
		// created_at has sub-second precision; keep insert order distinct
		time.Sleep(2 * time.Millisecond)
	}

	chirps, err := svc.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(chirps) != 3 {
		t.Fatalf("expected 3 chirps, got %d", len(chirps))
	}
	for i := 1; i < len(chirps); i++ {
		if chirps[i].CreatedAt.After(chirps[i-1].CreatedAt) {
			t.Errorf("feed out of order at index %d: %v after %v", i, chirps[i].CreatedAt, chirps[i-1].CreatedAt)
		}
	}
	if chirps[0].Body != "third" || chirps[2].Body != "first" {
		t.Errorf("unexpected feed order: %q ... %q", chirps[0].Body, chirps[2].Body)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "empty", body: "", wantErr: ErrEmptyBody},
		{name: "whitespace only", body: "   \n\t", wantErr: ErrEmptyBody},
		{name: "too long", body: strings.Repeat("a", MaxBodyRunes+1), wantErr: ErrBodyTooLong},
		{name: "at limit", body: strings.Repeat("a", MaxBodyRunes), wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, aliceID, tt.body)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create(%q) error = %v, want %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestCreatePublishesEvent(t *testing.T) {
	svc, _, bus := newTestService(t)

	var published int64
	bus.Subscribe(event.ChirpCreated, func(id int64) { published = id })

	chirp, err := svc.Create(context.Background(), aliceID, "hello")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if published != chirp.ID {
		t.Errorf("expected chirp.created with id %d, got %d", chirp.ID, published)
	}
}

func TestDeleteByAuthor(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	chirp, err := svc.Create(ctx, aliceID, "to be removed")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, aliceID, chirp.ID); err != nil {
		t.Fatalf("delete by author: %v", err)
	}

	chirps, err := svc.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, c := range chirps {
		if c.ID == chirp.ID {
			t.Errorf("deleted chirp %d still present in feed", chirp.ID)
		}
	}
}

func TestDeleteByNonAuthorForbidden(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	chirp, err := svc.Create(ctx, aliceID, "alice's chirp")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = svc.Delete(ctx, bobID, chirp.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// Store must be unchanged.
	chirps, err := svc.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(chirps) != 1 || chirps[0].ID != chirp.ID {
		t.Errorf("store changed after forbidden delete: %d chirps", len(chirps))
	}
}

func TestDeleteMissingChirp(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Delete(context.Background(), aliceID, 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// Missing-chirp errors wrap the store sentinel, so callers can match
// either the feed or the store error.
func TestNotFoundWrapsStoreSentinel(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Get(ctx, 9999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get: expected store.ErrNotFound in chain, got %v", err)
	}
	if _, err := svc.Update(ctx, aliceID, 9999, "x"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Update: expected store.ErrNotFound in chain, got %v", err)
	}
	if err := svc.Delete(ctx, aliceID, 9999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Delete: expected store.ErrNotFound in chain, got %v", err)
	}
}

func TestUpdateByAuthorMarksEdited(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	chirp, err := svc.Create(ctx, aliceID, "original")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if chirp.Edited() {
		t.Error("fresh chirp reported as edited")
	}

	time.Sleep(2 * time.Millisecond)
	updated, err := svc.Update(ctx, aliceID, chirp.ID, "revised")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Body != "revised" {
		t.Errorf("expected revised body, got %q", updated.Body)
	}
	if !updated.Edited() {
		t.Error("updated chirp not reported as edited")
	}
}

func TestUpdateByNonAuthorForbidden(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	chirp, err := svc.Create(ctx, aliceID, "original")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Update(ctx, bobID, chirp.ID, "hijacked")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	stored, err := st.GetChirp(ctx, chirp.ID)
	if err != nil {
		t.Fatalf("get chirp: %v", err)
	}
	if stored.Body != "original" {
		t.Errorf("body changed after forbidden update: %q", stored.Body)
	}
}

// Scenario from the feed contract: [A(t=1), B(t=2)] loads as [B, A];
// A's author deletes A; a non-author delete of B fails and changes nothing.
func TestFeedScenario(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, aliceID, "A")
	if err != nil {
		t.Fatalf("create A: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	b, err := svc.Create(ctx, bobID, "B")
	if err != nil {
		t.Fatalf("create B: %v", err)
	}

	chirps, err := svc.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(chirps) != 2 || chirps[0].ID != b.ID || chirps[1].ID != a.ID {
		t.Fatalf("expected [B, A], got %v", bodies(chirps))
	}

	if err := svc.Delete(ctx, aliceID, a.ID); err != nil {
		t.Fatalf("author delete A: %v", err)
	}
	chirps, err = svc.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(chirps) != 1 || chirps[0].ID != b.ID {
		t.Fatalf("expected [B], got %v", bodies(chirps))
	}

	if err := svc.Delete(ctx, aliceID, b.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden deleting B as non-author, got %v", err)
	}
	chirps, err = svc.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(chirps) != 1 || chirps[0].ID != b.ID {
		t.Fatalf("expected [B] after forbidden delete, got %v", bodies(chirps))
	}
}

func bodies(chirps []*store.Chirp) []string {
	out := make([]string, 0, len(chirps))
	for _, c := range chirps {
		out = append(out, c.Body)
	}
	return out
}
