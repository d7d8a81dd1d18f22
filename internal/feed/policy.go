package feed

import "github.com/vovakirdan/chirper-server/internal/store"

// Policy decides whether an actor may modify or delete a chirp.
type Policy func(actorID int64, chirp *store.Chirp) bool

// AuthorOnly allows only the chirp's author.
func AuthorOnly(actorID int64, chirp *store.Chirp) bool {
	return chirp != nil && chirp.UserID == actorID
}
