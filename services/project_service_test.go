package services

import (
	"backend/models"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoRoomStructure() models.BuildingStructure {
	return models.BuildingStructure{Rooms: []models.Room{
		{
			Name: "Dormitorio 1",
			Details: models.ConstructionDetails{
				Walls: []models.ConstructionGroup{
					wallGroup("M1",
						models.Element{Name: "Hormigon", Material: "HA400", Thickness: 0.2, Area: floatPtr(10.6)},
						models.Element{Name: "Aislante", Material: "MISSING", Thickness: 0.05, Area: floatPtr(10.6)},
					),
				},
			},
		},
		{
			Name: "Cocina",
			Details: models.ConstructionDetails{
				Walls: []models.ConstructionGroup{
					wallGroup("M1",
						models.Element{Name: "Hormigon", Material: "HA400", Thickness: 0.2, Area: floatPtr(8.2)},
						models.Element{Name: "Aislante", Material: "MISSING", Thickness: 0.05, Area: floatPtr(8.2)},
					),
				},
			},
		},
	}}
}

func TestCreateProjectBuildsEveryRoom(t *testing.T) {
	client := newMockCalcClient()
	client.getMaterialByCodeFn = materialCatalog(models.Material{ID: 34, Code: "HA400"})
	svc := NewProjectService(client, nil, nil)

	result := svc.CreateProject(context.Background(), 7, twoRoomStructure())

	assert.False(t, result.Success)
	assert.Equal(t, 2, result.CompletedRooms)
	assert.Equal(t, 2, result.TotalRooms)
	require.Len(t, result.Errors, 2, "one fallback finding per room")
	for _, record := range result.Errors {
		assert.Contains(t, record.Message, "no usable material")
		assert.Contains(t, record.Context, "Room: ")
	}

	assert.Len(t, client.enclosures, 2)
	assert.Len(t, client.wallMasters, 2)
	assert.Len(t, client.wallLayers, 4)
	assert.Len(t, client.wallAssociations, 2)

	// HA400 is cached after the first room; the unresolved code is retried.
	resolved, missed := 0, 0
	for _, code := range client.materialLookups {
		switch code {
		case "HA400":
			resolved++
		case "MISSING":
			missed++
		}
	}
	assert.Equal(t, 1, resolved)
	assert.Equal(t, 2, missed)

	assert.Equal(t, []string{ProjectStatusWithErrors}, client.statusUpdates)
}

func TestCreateProjectCleanRunReportsCompleted(t *testing.T) {
	client := newMockCalcClient()
	client.getMaterialByCodeFn = materialCatalog(
		models.Material{ID: 34, Code: "HA400"},
		models.Material{ID: 51, Code: "MISSING"},
	)
	svc := NewProjectService(client, nil, nil)

	result := svc.CreateProject(context.Background(), 7, twoRoomStructure())

	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []string{ProjectStatusCompleted}, client.statusUpdates)
}

func TestCreateProjectRoomFailureIsIsolated(t *testing.T) {
	client := newMockCalcClient()
	client.createEnclosureFn = func(req EnclosureCreateRequest) (int, error) {
		if req.Name == "Cocina" {
			return 0, errors.New("backend rejected enclosure")
		}
		return 500, nil
	}
	svc := NewProjectService(client, nil, nil)

	structure := models.BuildingStructure{Rooms: []models.Room{
		{Name: "Sala 1"}, {Name: "Sala 2"}, {Name: "Sala 3"},
	}}
	structure.Rooms[0].Properties.RoomType = "Sala 1"
	structure.Rooms[1].Properties.RoomType = "Cocina"
	structure.Rooms[2].Properties.RoomType = "Sala 3"

	result := svc.CreateProject(context.Background(), 7, structure)

	assert.False(t, result.Success)
	assert.Equal(t, 3, result.CompletedRooms, "a failed room still counts as processed")
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "failed to create room")
	assert.Equal(t, "Room: Sala 2", result.Errors[0].Context)

	status, _, ok := svc.Status(7)
	require.True(t, ok)
	assert.False(t, status.InProgress)
	assert.Equal(t, 2, status.Progress.Rooms, "only successfully created rooms advance the counter")
}

func TestCreateProjectWithValidationGateAborts(t *testing.T) {
	client := newMockCalcClient()
	client.getMaterialByCodeFn = materialCatalog(models.Material{ID: 34, Code: "HA400"})
	svc := NewProjectService(client, nil, nil)

	result, validation := svc.CreateProjectWithValidation(context.Background(), 7, twoRoomStructure())

	require.NotNil(t, validation)
	assert.False(t, validation.Valid)
	require.Len(t, validation.MissingElements, 2)

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.CompletedRooms)
	assert.Equal(t, 2, result.TotalRooms)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, `material "MISSING" not found`, result.Errors[0].Message)
	assert.Equal(t, "Room: Dormitorio 1 - walls - Aislante", result.Errors[0].Context)

	// The gate must abort before a single entity is created.
	assert.Empty(t, client.enclosures)
	assert.Empty(t, client.wallMasters)
	assert.Empty(t, client.wallLayers)
	assert.Empty(t, client.wallAssociations)
	assert.Empty(t, client.statusUpdates)

	status, _, ok := svc.Status(7)
	require.True(t, ok)
	assert.False(t, status.InProgress)
}

func TestCreateProjectWithValidationCleanPassReusesCache(t *testing.T) {
	client := newMockCalcClient()
	client.getMaterialByCodeFn = materialCatalog(
		models.Material{ID: 34, Code: "HA400"},
		models.Material{ID: 51, Code: "MISSING"},
	)
	svc := NewProjectService(client, nil, nil)

	result, validation := svc.CreateProjectWithValidation(context.Background(), 7, twoRoomStructure())

	require.NotNil(t, validation)
	assert.True(t, validation.Valid)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.CompletedRooms)

	assert.Len(t, client.materialLookups, 2, "the build reuses every material the validation already resolved")
	assert.Len(t, client.wallLayers, 4)
}

func TestCreateProjectStatusUpdateFailureIsRecorded(t *testing.T) {
	client := newMockCalcClient()
	client.getMaterialByCodeFn = materialCatalog(
		models.Material{ID: 34, Code: "HA400"},
		models.Material{ID: 51, Code: "MISSING"},
	)
	client.updateProjectStatusFn = func(projectID int, status string) error {
		return errors.New("backend unavailable")
	}
	svc := NewProjectService(client, nil, nil)

	result := svc.CreateProject(context.Background(), 7, twoRoomStructure())

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "failed to update project status")
	assert.Equal(t, "Project", result.Errors[0].Context)
}

func TestCreateProjectRecoversFromPanic(t *testing.T) {
	client := newMockCalcClient()
	client.createEnclosureFn = func(req EnclosureCreateRequest) (int, error) {
		panic("unexpected backend state")
	}
	svc := NewProjectService(client, nil, nil)

	structure := models.BuildingStructure{Rooms: []models.Room{{Name: "Sala"}}}
	result := svc.CreateProject(context.Background(), 7, structure)

	assert.False(t, result.Success)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0].Message, "unexpected failure")

	status, _, ok := svc.Status(7)
	require.True(t, ok)
	assert.False(t, status.InProgress, "the run is finalized even after a panic")
}

func TestStartBuildRegistersRunSynchronously(t *testing.T) {
	client := newMockCalcClient()
	svc := NewProjectService(client, nil, nil)

	structure := models.BuildingStructure{Rooms: []models.Room{{Name: "Sala"}}}
	runCode := svc.StartBuild(7, structure, false)

	assert.NotEmpty(t, runCode)
	status, gotCode, ok := svc.Status(7)
	require.True(t, ok, "the run is pollable before the goroutine makes progress")
	assert.Equal(t, runCode, gotCode)
	assert.Equal(t, 1, status.TotalRooms)
}

func TestValidateStructureEndpointPassIsStandalone(t *testing.T) {
	client := newMockCalcClient()
	svc := NewProjectService(client, nil, nil)

	structure := models.BuildingStructure{Rooms: []models.Room{
		{
			Name: "Sala",
			Details: models.ConstructionDetails{
				Walls: []models.ConstructionGroup{
					wallGroup("M1", models.Element{Name: "Capa", Material: "NOEXISTE"}),
				},
			},
		},
	}}

	validation := svc.ValidateStructure(context.Background(), 7, structure)

	assert.False(t, validation.Valid)
	require.Len(t, validation.MissingElements, 1)
	assert.Empty(t, client.enclosures)

	_, _, ok := svc.Status(7)
	assert.False(t, ok, "the standalone pass does not register a run")
}
