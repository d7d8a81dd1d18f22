package feed

import (
	"sync"

	"github.com/vovakirdan/chirper-server/internal/event"
)

// EditState tracks which chirp each viewer session currently has open for
// editing. At most one chirp per session; beginning a new edit replaces any
// prior target. Targets are cleared by chirp.updated and chirp.edit_canceled
// notifications rather than direct calls, so any component that finishes an
// edit clears the state the same way.
type EditState struct {
	mu      sync.Mutex
	targets map[string]int64 // session ID -> chirp ID
	bus     *event.Bus
}

// NewEditState creates an EditState wired to the bus.
func NewEditState(bus *event.Bus) *EditState {
	es := &EditState{
		targets: make(map[string]int64),
		bus:     bus,
	}

	bus.Subscribe(event.ChirpUpdated, es.clearTargeting)
	bus.Subscribe(event.ChirpEditCanceled, es.clearTargeting)
	bus.Subscribe(event.ChirpDeleted, es.clearTargeting)

	return es
}

// BeginEdit marks the chirp as the session's edit target.
func (es *EditState) BeginEdit(session string, chirpID int64) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.targets[session] = chirpID
}

// CancelEdit publishes chirp.edit_canceled for the session's current target,
// which clears it through the bus subscription. A session with no target is
// a no-op.
func (es *EditState) CancelEdit(session string) {
	target := es.Target(session)
	if target == 0 {
		return
	}
	es.bus.Publish(event.ChirpEditCanceled, target)
}

// Target returns the session's edit target, or 0 when none is set.
func (es *EditState) Target(session string) int64 {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.targets[session]
}

// clearTargeting drops the edit target of every session pointing at the
// chirp. The next render of those sessions shows the static row again.
func (es *EditState) clearTargeting(chirpID int64) {
	es.mu.Lock()
	defer es.mu.Unlock()
	for session, target := range es.targets {
		if target == chirpID {
			delete(es.targets, session)
		}
	}
}
