package services

import (
	"backend/models"
	"context"
	"sync"
)

// mockCalcClient records every call it receives. Behavior is overridable per
// test through the function fields; the defaults succeed with synthetic ids
// and empty catalogues.
type mockCalcClient struct {
	mu sync.Mutex

	getEnclosureTypingFn  func(code string) (*models.EnclosureTyping, error)
	createEnclosureFn     func(req EnclosureCreateRequest) (int, error)
	createWallMasterFn    func(req WallMasterRequest) (int, error)
	createWallLayerFn     func(req WallLayerRequest) error
	getMaterialByCodeFn   func(code string) (*models.Material, error)
	associateWallRoomFn   func(req WallRoomAssociation) error
	getFloorDetailsFn     func(projectID int) ([]models.FloorDetail, error)
	associateFloorRoomFn  func(req FloorRoomAssociation) error
	associateDoorRoomFn   func(req DoorRoomAssociation) error
	updateProjectStatusFn func(projectID int, status string) error

	typingLookups     []string
	materialLookups   []string
	enclosures        []EnclosureCreateRequest
	wallMasters       []WallMasterRequest
	wallLayers        []WallLayerRequest
	wallAssociations  []WallRoomAssociation
	floorLookups      []int
	floorAssociations []FloorRoomAssociation
	doorAssociations  []DoorRoomAssociation
	statusUpdates     []string
}

func newMockCalcClient() *mockCalcClient {
	return &mockCalcClient{}
}

func (m *mockCalcClient) GetEnclosureTyping(ctx context.Context, code string) (*models.EnclosureTyping, error) {
	m.mu.Lock()
	m.typingLookups = append(m.typingLookups, code)
	m.mu.Unlock()
	if m.getEnclosureTypingFn != nil {
		return m.getEnclosureTypingFn(code)
	}
	return nil, nil
}

func (m *mockCalcClient) CreateEnclosure(ctx context.Context, req EnclosureCreateRequest) (int, error) {
	m.mu.Lock()
	m.enclosures = append(m.enclosures, req)
	id := 100 + len(m.enclosures)
	m.mu.Unlock()
	if m.createEnclosureFn != nil {
		return m.createEnclosureFn(req)
	}
	return id, nil
}

func (m *mockCalcClient) CreateWallMaster(ctx context.Context, req WallMasterRequest) (int, error) {
	m.mu.Lock()
	m.wallMasters = append(m.wallMasters, req)
	id := 200 + len(m.wallMasters)
	m.mu.Unlock()
	if m.createWallMasterFn != nil {
		return m.createWallMasterFn(req)
	}
	return id, nil
}

func (m *mockCalcClient) CreateWallLayer(ctx context.Context, req WallLayerRequest) error {
	m.mu.Lock()
	m.wallLayers = append(m.wallLayers, req)
	m.mu.Unlock()
	if m.createWallLayerFn != nil {
		return m.createWallLayerFn(req)
	}
	return nil
}

func (m *mockCalcClient) GetMaterialByCode(ctx context.Context, code string) (*models.Material, error) {
	m.mu.Lock()
	m.materialLookups = append(m.materialLookups, code)
	m.mu.Unlock()
	if m.getMaterialByCodeFn != nil {
		return m.getMaterialByCodeFn(code)
	}
	return nil, nil
}

func (m *mockCalcClient) AssociateWallRoom(ctx context.Context, req WallRoomAssociation) error {
	m.mu.Lock()
	m.wallAssociations = append(m.wallAssociations, req)
	m.mu.Unlock()
	if m.associateWallRoomFn != nil {
		return m.associateWallRoomFn(req)
	}
	return nil
}

func (m *mockCalcClient) GetFloorDetails(ctx context.Context, projectID int) ([]models.FloorDetail, error) {
	m.mu.Lock()
	m.floorLookups = append(m.floorLookups, projectID)
	m.mu.Unlock()
	if m.getFloorDetailsFn != nil {
		return m.getFloorDetailsFn(projectID)
	}
	return nil, nil
}

func (m *mockCalcClient) AssociateFloorRoom(ctx context.Context, req FloorRoomAssociation) error {
	m.mu.Lock()
	m.floorAssociations = append(m.floorAssociations, req)
	m.mu.Unlock()
	if m.associateFloorRoomFn != nil {
		return m.associateFloorRoomFn(req)
	}
	return nil
}

func (m *mockCalcClient) AssociateDoorRoom(ctx context.Context, req DoorRoomAssociation) error {
	m.mu.Lock()
	m.doorAssociations = append(m.doorAssociations, req)
	m.mu.Unlock()
	if m.associateDoorRoomFn != nil {
		return m.associateDoorRoomFn(req)
	}
	return nil
}

func (m *mockCalcClient) UpdateProjectStatus(ctx context.Context, projectID int, status string) error {
	m.mu.Lock()
	m.statusUpdates = append(m.statusUpdates, status)
	m.mu.Unlock()
	if m.updateProjectStatusFn != nil {
		return m.updateProjectStatusFn(projectID, status)
	}
	return nil
}

// materialCatalog builds a lookup function backed by a fixed code->material
// table; unlisted codes resolve as not found.
func materialCatalog(materials ...models.Material) func(code string) (*models.Material, error) {
	byCode := make(map[string]models.Material, len(materials))
	for _, material := range materials {
		byCode[material.Code] = material
	}
	return func(code string) (*models.Material, error) {
		material, ok := byCode[code]
		if !ok {
			return nil, nil
		}
		return &material, nil
	}
}

func newTestBuilder(client CalcClient, projectID, totalRooms int) *ProjectBuilder {
	return &ProjectBuilder{
		client:    client,
		materials: NewMaterialService(client),
		tracker:   NewStatusTracker(totalRooms),
		projectID: projectID,
	}
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
