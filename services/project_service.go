package services

import (
	"backend/models"
	"backend/repository"
	"backend/storage"
	"backend/utils"
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

// DefaultMaterialID is the fallback material substituted when an element's
// material cannot be resolved.
const DefaultMaterialID = 1

// Project lifecycle states reported to the calc backend once a run ends.
const (
	ProjectStatusCompleted  = "completed"
	ProjectStatusWithErrors = "completed_with_errors"
)

// ProjectService drives building-structure build runs. One run walks the
// structure room by room, materializing enclosures and their construction
// details on the calc backend while observers poll the run's status through
// the registry.
type ProjectService struct {
	client   CalcClient
	registry *BuildRegistry
	gormDB   *gorm.DB
	db       *sql.DB
}

// NewProjectService wires the orchestrator. Both database handles are
// optional; without them runs simply are not persisted.
func NewProjectService(client CalcClient, gormDB *gorm.DB, db *sql.DB) *ProjectService {
	return &ProjectService{
		client:   client,
		registry: NewBuildRegistry(),
		gormDB:   gormDB,
		db:       db,
	}
}

// Registry exposes the run registry for the status endpoint and the cleanup
// cron.
func (s *ProjectService) Registry() *BuildRegistry {
	return s.registry
}

// Status returns a snapshot of the tracked run for a project.
func (s *ProjectService) Status(projectID int) (models.CreationStatus, string, bool) {
	tracker, runCode, ok := s.registry.Get(projectID)
	if !ok {
		return models.CreationStatus{}, "", false
	}
	return tracker.Snapshot(), runCode, true
}

// ProjectBuilder is the per-run state: one shared material cache, one
// status tracker, one target project. It is discarded when the run ends.
type ProjectBuilder struct {
	client    CalcClient
	materials *MaterialService
	tracker   *StatusTracker
	projectID int
}

func (s *ProjectService) newBuilder(projectID, totalRooms int) *ProjectBuilder {
	return &ProjectBuilder{
		client:    s.client,
		materials: NewMaterialService(s.client),
		tracker:   NewStatusTracker(totalRooms),
		projectID: projectID,
	}
}

// buildRunDeadline bounds an entire asynchronous build run so an abandoned
// run cannot hold its goroutine forever.
const buildRunDeadline = 45 * time.Minute

// StartBuild registers a run synchronously (so the returned run code is
// immediately pollable) and executes it in the background.
func (s *ProjectService) StartBuild(projectID int, structure models.BuildingStructure, validated bool) string {
	runCode := repository.GenerateRunCode()
	builder := s.newBuilder(projectID, len(structure.Rooms))
	s.registry.Put(projectID, runCode, builder.tracker)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), buildRunDeadline)
		defer cancel()

		result, _ := s.executeRun(ctx, runCode, builder, structure, validated)
		log.Printf("build run %s for project %d finished: success=%t errors=%d",
			runCode, projectID, result.Success, len(result.Errors))
	}()

	return runCode
}

// CreateProject materializes the structure without the pre-flight
// validation gate. Rooms are processed sequentially in input order; a
// failed room is recorded and the loop continues.
func (s *ProjectService) CreateProject(ctx context.Context, projectID int, structure models.BuildingStructure) *models.ProjectResult {
	runCode := repository.GenerateRunCode()
	builder := s.newBuilder(projectID, len(structure.Rooms))
	s.registry.Put(projectID, runCode, builder.tracker)

	result, _ := s.executeRun(ctx, runCode, builder, structure, false)
	return result
}

// CreateProjectWithValidation runs the read-only validation pass across all
// rooms first. Any missing material aborts the whole build before a single
// entity is created; the validation findings are the failure payload. On a
// clean pass the build proceeds reusing every material the validation
// already resolved.
func (s *ProjectService) CreateProjectWithValidation(ctx context.Context, projectID int, structure models.BuildingStructure) (*models.ProjectResult, *models.StructureValidation) {
	runCode := repository.GenerateRunCode()
	builder := s.newBuilder(projectID, len(structure.Rooms))
	s.registry.Put(projectID, runCode, builder.tracker)

	return s.executeRun(ctx, runCode, builder, structure, true)
}

func (s *ProjectService) executeRun(ctx context.Context, runCode string, builder *ProjectBuilder, structure models.BuildingStructure, validated bool) (*models.ProjectResult, *models.StructureValidation) {
	startedAt := time.Now()

	var validation *models.StructureValidation
	if validated {
		v := builder.validateStructure(ctx, structure)
		validation = &v
		if !v.Valid {
			for _, missing := range v.MissingElements {
				builder.tracker.AddError(
					fmt.Sprintf("material %q not found", missing.Material),
					fmt.Sprintf("Room: %s - %s - %s", missing.Room, missing.Category, missing.Name),
				)
			}
			builder.tracker.Finish()

			result := &models.ProjectResult{
				Success:        false,
				CompletedRooms: 0,
				TotalRooms:     len(structure.Rooms),
				Errors:         builder.tracker.Errors(),
			}
			s.persistRun(runCode, builder.projectID, true, startedAt, result)
			return result, validation
		}
	}

	result := builder.run(ctx, structure)
	s.persistRun(runCode, builder.projectID, validated, startedAt, result)
	return result, validation
}

// ValidateStructure exposes the validation pass on its own, for the
// pre-flight endpoint.
func (s *ProjectService) ValidateStructure(ctx context.Context, projectID int, structure models.BuildingStructure) models.StructureValidation {
	builder := s.newBuilder(projectID, len(structure.Rooms))
	defer builder.tracker.Finish()
	return builder.validateStructure(ctx, structure)
}

func (b *ProjectBuilder) run(ctx context.Context, structure models.BuildingStructure) (result *models.ProjectResult) {
	defer func() {
		if r := recover(); r != nil {
			b.tracker.AddError(fmt.Sprintf("unexpected failure: %v", r), "Project")
		}
		b.tracker.Finish()

		snapshot := b.tracker.Snapshot()
		result = &models.ProjectResult{
			Success:        len(snapshot.Errors) == 0,
			CompletedRooms: snapshot.CompletedRooms,
			TotalRooms:     snapshot.TotalRooms,
			Errors:         snapshot.Errors,
		}
	}()

	for _, room := range structure.Rooms {
		b.tracker.SetCurrentRoom(room.Name)
		b.tracker.SetPhase(PhaseCreatingRoom, room.Name)

		enclosureID, err := b.createRoom(ctx, room)
		if err != nil {
			// Room-level fault isolation: record, count the room as
			// processed and move on.
			b.tracker.AddError(err.Error(), "Room: "+room.Name)
			b.tracker.RoomCompleted()
			continue
		}
		b.tracker.IncrementRooms()

		_, detailErrs := b.createRoomDetails(ctx, enclosureID, room.Details, room.Name)
		for i := range detailErrs {
			detailErrs[i].Context = "Room: " + room.Name + " - " + detailErrs[i].Context
		}
		b.tracker.AddErrors(detailErrs)
		b.tracker.RoomCompleted()
	}

	status := ProjectStatusCompleted
	if len(b.tracker.Errors()) > 0 {
		status = ProjectStatusWithErrors
	}
	callCtx, cancel := utils.GetRemoteCallContext(ctx)
	if err := b.client.UpdateProjectStatus(callCtx, b.projectID, status); err != nil {
		b.tracker.AddError(fmt.Sprintf("failed to update project status: %v", err), "Project")
	}
	cancel()

	return nil // the deferred finalizer builds the result
}

func (s *ProjectService) persistRun(runCode string, projectID int, validated bool, startedAt time.Time, result *models.ProjectResult) {
	if s.gormDB == nil {
		return
	}

	finishedAt := time.Now()
	run := models.BuildRun{
		RunCode:        runCode,
		ProjectID:      projectID,
		Success:        result.Success,
		CompletedRooms: result.CompletedRooms,
		TotalRooms:     result.TotalRooms,
		Validated:      validated,
		StartedAt:      startedAt,
		FinishedAt:     &finishedAt,
	}
	if err := run.SetErrors(result.Errors); err != nil {
		log.Printf("failed to marshal run errors for %s: %v", runCode, err)
	}
	if err := storage.SaveBuildRun(s.gormDB, &run); err != nil {
		log.Printf("failed to persist build run %s: %v", runCode, err)
	}

	if s.db != nil {
		for _, record := range result.Errors {
			if err := storage.LogStructureEvent(s.db, runCode, projectID, record.Context, record.Message); err != nil {
				log.Printf("failed to log structure event for %s: %v", runCode, err)
				break
			}
		}
	}
}
