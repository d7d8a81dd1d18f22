package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vovakirdan/chirper-server/internal/event"
	"github.com/vovakirdan/chirper-server/internal/store"
)

// MaxBodyRunes is the longest chirp body accepted.
const MaxBodyRunes = 255

var (
	// ErrForbidden is returned when the actor is not allowed to touch the chirp.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned when the chirp does not exist. Returned
	// errors also wrap store.ErrNotFound for callers matching that.
	ErrNotFound = errors.New("chirp not found")
	// ErrEmptyBody is returned when the chirp body is blank.
	ErrEmptyBody = errors.New("chirp body is empty")
	// ErrBodyTooLong is returned when the chirp body exceeds MaxBodyRunes.
	ErrBodyTooLong = fmt.Errorf("chirp body exceeds %d characters", MaxBodyRunes)
)

// Service provides feed operations over the chirp store.
// Authorization is an injected predicate, checked before any mutation.
type Service struct {
	store  store.ChirpStore
	policy Policy
	bus    *event.Bus
}

// NewService creates a feed service.
func NewService(st store.ChirpStore, policy Policy, bus *event.Bus) *Service {
	return &Service{
		store:  st,
		policy: policy,
		bus:    bus,
	}
}

// Get returns a single chirp by ID.
func (s *Service) Get(ctx context.Context, chirpID int64) (*store.Chirp, error) {
	chirp, err := s.store.GetChirp(ctx, chirpID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("get chirp: %w", err)
	}
	return chirp, nil
}

// Authorize reports whether the actor may modify or delete the chirp.
func (s *Service) Authorize(actorID int64, chirp *store.Chirp) bool {
	return s.policy(actorID, chirp)
}

// Load returns the current feed snapshot, newest first.
func (s *Service) Load(ctx context.Context) ([]*store.Chirp, error) {
	chirps, err := s.store.ListChirps(ctx)
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	return chirps, nil
}

// Create validates and persists a new chirp, then publishes chirp.created.
func (s *Service) Create(ctx context.Context, userID int64, body string) (*store.Chirp, error) {
	body, err := validateBody(body)
	if err != nil {
		return nil, err
	}

	chirp, err := s.store.CreateChirp(ctx, userID, body)
	if err != nil {
		return nil, fmt.Errorf("create chirp: %w", err)
	}

	s.bus.Publish(event.ChirpCreated, chirp.ID)
	return chirp, nil
}

// Update replaces a chirp's body after a policy check,
// then publishes chirp.updated.
func (s *Service) Update(ctx context.Context, actorID, chirpID int64, body string) (*store.Chirp, error) {
	body, err := validateBody(body)
	if err != nil {
		return nil, err
	}

	chirp, err := s.store.GetChirp(ctx, chirpID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("get chirp: %w", err)
	}

	if !s.policy(actorID, chirp) {
		return nil, ErrForbidden
	}

	updated, err := s.store.UpdateChirp(ctx, chirpID, body)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("update chirp: %w", err)
	}

	s.bus.Publish(event.ChirpUpdated, updated.ID)
	return updated, nil
}

// Delete removes a chirp after a policy check, then publishes chirp.deleted.
// A policy violation leaves the store untouched.
func (s *Service) Delete(ctx context.Context, actorID, chirpID int64) error {
	chirp, err := s.store.GetChirp(ctx, chirpID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return fmt.Errorf("get chirp: %w", err)
	}

	if !s.policy(actorID, chirp) {
		return ErrForbidden
	}

	if err := s.store.DeleteChirp(ctx, chirpID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return fmt.Errorf("delete chirp: %w", err)
	}

	s.bus.Publish(event.ChirpDeleted, chirpID)
	return nil
}

func validateBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", ErrEmptyBody
	}
	if utf8.RuneCountInString(body) > MaxBodyRunes {
		return "", ErrBodyTooLong
	}
	return body, nil
}
