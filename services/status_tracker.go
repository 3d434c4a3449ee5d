package services

import (
	"backend/models"
	"sync"
	"time"
)

// Phases reported through CreationStatus.CurrentPhase.
const (
	PhaseNone         = "none"
	PhaseCreatingRoom = "creating-room"
	PhaseWalls        = "walls"
	PhaseFloors       = "floors"
	PhaseCeilings     = "ceilings"
	PhaseDoors        = "doors"
	PhaseWindows      = "windows"
)

// StatusTracker owns the mutable CreationStatus of one build run. The
// orchestrator writes while the status endpoint reads, so every access goes
// through the RWMutex and observers only ever get copies via Snapshot.
type StatusTracker struct {
	mu     sync.RWMutex
	status models.CreationStatus
}

func NewStatusTracker(totalRooms int) *StatusTracker {
	return &StatusTracker{
		status: models.CreationStatus{
			InProgress:   true,
			TotalRooms:   totalRooms,
			CurrentPhase: PhaseNone,
			Errors:       []models.ErrorRecord{},
		},
	}
}

// Snapshot returns a copy safe to hand to concurrent readers.
func (t *StatusTracker) Snapshot() models.CreationStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	snapshot := t.status
	snapshot.Errors = make([]models.ErrorRecord, len(t.status.Errors))
	copy(snapshot.Errors, t.status.Errors)
	return snapshot
}

func (t *StatusTracker) SetCurrentRoom(room string) {
	t.mu.Lock()
	t.status.CurrentRoom = room
	t.mu.Unlock()
}

func (t *StatusTracker) SetPhase(phase, component string) {
	t.mu.Lock()
	t.status.CurrentPhase = phase
	t.status.CurrentComponent = component
	t.mu.Unlock()
}

func (t *StatusTracker) SetComponent(component string) {
	t.mu.Lock()
	t.status.CurrentComponent = component
	t.mu.Unlock()
}

func (t *StatusTracker) AddError(message, context string) {
	t.mu.Lock()
	t.status.Errors = append(t.status.Errors, models.ErrorRecord{Message: message, Context: context})
	t.mu.Unlock()
}

func (t *StatusTracker) AddErrors(records []models.ErrorRecord) {
	if len(records) == 0 {
		return
	}
	t.mu.Lock()
	t.status.Errors = append(t.status.Errors, records...)
	t.mu.Unlock()
}

// RoomCompleted advances CompletedRooms. It is called exactly once per room
// whether or not that room's creation succeeded.
func (t *StatusTracker) RoomCompleted() {
	t.mu.Lock()
	t.status.CompletedRooms++
	t.mu.Unlock()
}

func (t *StatusTracker) IncrementRooms() {
	t.mu.Lock()
	t.status.Progress.Rooms++
	t.mu.Unlock()
}

func (t *StatusTracker) IncrementWalls() {
	t.mu.Lock()
	t.status.Progress.Walls++
	t.mu.Unlock()
}

func (t *StatusTracker) IncrementFloors() {
	t.mu.Lock()
	t.status.Progress.Floors++
	t.mu.Unlock()
}

func (t *StatusTracker) IncrementCeilings() {
	t.mu.Lock()
	t.status.Progress.Ceilings++
	t.mu.Unlock()
}

func (t *StatusTracker) IncrementDoors() {
	t.mu.Lock()
	t.status.Progress.Doors++
	t.mu.Unlock()
}

func (t *StatusTracker) IncrementWindows() {
	t.mu.Lock()
	t.status.Progress.Windows++
	t.mu.Unlock()
}

// Finish freezes the run: clears the current room/phase and drops
// InProgress. Called via defer so unexpected exits still finalize.
func (t *StatusTracker) Finish() {
	t.mu.Lock()
	t.status.InProgress = false
	t.status.CurrentRoom = ""
	t.status.CurrentPhase = PhaseNone
	t.status.CurrentComponent = ""
	t.mu.Unlock()
}

// Errors returns a copy of the accumulated error records.
func (t *StatusTracker) Errors() []models.ErrorRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	records := make([]models.ErrorRecord, len(t.status.Errors))
	copy(records, t.status.Errors)
	return records
}

// registryEntry pairs a run's tracker with bookkeeping the cleanup cron
// uses.
type registryEntry struct {
	Tracker   *StatusTracker
	RunCode   string
	StartedAt time.Time
}

// BuildRegistry exposes in-flight (and recently finished) runs to the status
// endpoint, keyed by project id. One project has at most one tracked run at
// a time.
type BuildRegistry struct {
	mu   sync.Mutex
	runs map[int]registryEntry
}

func NewBuildRegistry() *BuildRegistry {
	return &BuildRegistry{runs: make(map[int]registryEntry)}
}

func (r *BuildRegistry) Put(projectID int, runCode string, tracker *StatusTracker) {
	r.mu.Lock()
	r.runs[projectID] = registryEntry{Tracker: tracker, RunCode: runCode, StartedAt: time.Now()}
	r.mu.Unlock()
}

func (r *BuildRegistry) Get(projectID int) (*StatusTracker, string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.runs[projectID]
	if !ok {
		return nil, "", false
	}
	return entry.Tracker, entry.RunCode, true
}

// Prune drops finished runs older than the cutoff so the registry does not
// grow without bound.
func (r *BuildRegistry) Prune(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	pruned := 0
	for projectID, entry := range r.runs {
		if entry.StartedAt.Before(cutoff) && !entry.Tracker.Snapshot().InProgress {
			delete(r.runs, projectID)
			pruned++
		}
	}
	return pruned
}
