package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTrackerSnapshotIsACopy(t *testing.T) {
	tracker := NewStatusTracker(3)
	tracker.AddError("boom", "Room: Dormitorio 1")

	snapshot := tracker.Snapshot()
	require.Len(t, snapshot.Errors, 1)

	snapshot.Errors[0].Message = "mutated"
	snapshot.Errors = append(snapshot.Errors, snapshot.Errors[0])

	fresh := tracker.Snapshot()
	require.Len(t, fresh.Errors, 1)
	assert.Equal(t, "boom", fresh.Errors[0].Message)
}

func TestStatusTrackerLifecycle(t *testing.T) {
	tracker := NewStatusTracker(2)

	snapshot := tracker.Snapshot()
	assert.True(t, snapshot.InProgress)
	assert.Equal(t, 2, snapshot.TotalRooms)
	assert.Equal(t, PhaseNone, snapshot.CurrentPhase)
	assert.NotNil(t, snapshot.Errors)

	tracker.SetCurrentRoom("Cocina")
	tracker.SetPhase(PhaseWalls, "Muro M1")
	tracker.IncrementRooms()
	tracker.IncrementWalls()
	tracker.RoomCompleted()

	snapshot = tracker.Snapshot()
	assert.Equal(t, "Cocina", snapshot.CurrentRoom)
	assert.Equal(t, PhaseWalls, snapshot.CurrentPhase)
	assert.Equal(t, "Muro M1", snapshot.CurrentComponent)
	assert.Equal(t, 1, snapshot.CompletedRooms)
	assert.Equal(t, 1, snapshot.Progress.Rooms)
	assert.Equal(t, 1, snapshot.Progress.Walls)

	tracker.Finish()
	snapshot = tracker.Snapshot()
	assert.False(t, snapshot.InProgress)
	assert.Empty(t, snapshot.CurrentRoom)
	assert.Equal(t, PhaseNone, snapshot.CurrentPhase)
	assert.Empty(t, snapshot.CurrentComponent)
	assert.Equal(t, 1, snapshot.CompletedRooms, "finishing must not reset room counters")
}

func TestStatusTrackerRoomCompletedCountsFailedRooms(t *testing.T) {
	tracker := NewStatusTracker(2)

	tracker.AddError("failed to create room Cocina", "Room: Cocina")
	tracker.RoomCompleted()
	tracker.IncrementRooms()
	tracker.RoomCompleted()

	snapshot := tracker.Snapshot()
	assert.Equal(t, 2, snapshot.CompletedRooms)
	assert.Equal(t, 1, snapshot.Progress.Rooms, "only successful creations advance the category counter")
}

func TestBuildRegistryPrune(t *testing.T) {
	registry := NewBuildRegistry()

	finished := NewStatusTracker(1)
	finished.Finish()
	registry.Put(1, "BR11111", finished)

	running := NewStatusTracker(1)
	registry.Put(2, "BR22222", running)

	pruned := registry.Prune(time.Now().Add(time.Minute))
	assert.Equal(t, 1, pruned)

	_, _, ok := registry.Get(1)
	assert.False(t, ok, "finished run past the cutoff must be pruned")

	tracker, runCode, ok := registry.Get(2)
	require.True(t, ok, "in-progress runs survive pruning")
	assert.Equal(t, "BR22222", runCode)
	assert.True(t, tracker.Snapshot().InProgress)
}

func TestBuildRegistryPutReplacesPreviousRun(t *testing.T) {
	registry := NewBuildRegistry()
	registry.Put(1, "BR11111", NewStatusTracker(1))
	registry.Put(1, "BR22222", NewStatusTracker(4))

	tracker, runCode, ok := registry.Get(1)
	require.True(t, ok)
	assert.Equal(t, "BR22222", runCode)
	assert.Equal(t, 4, tracker.Snapshot().TotalRooms)
}
