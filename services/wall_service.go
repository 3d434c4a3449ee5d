package services

import (
	"backend/models"
	"backend/utils"
	"fmt"
	"sync"

	"context"
)

const (
	// WallLocationTag is the fixed location label the calc backend expects
	// on wall layer nodes.
	WallLocationTag = "Muro"

	// DefaultWallCharacteristic is always assigned when associating a wall
	// group with a room; the classification is not derived from input.
	DefaultWallCharacteristic = "Exterior"

	// DefaultSurfaceColor is the interior/exterior surface-color descriptor
	// a fresh master wall node is created with.
	DefaultSurfaceColor = "Intermedio"
)

// createWallDetails materializes every wall group of a room: one master
// node per group, one concurrently created layer node per element, then a
// single room association carrying the group's representative area.
func (b *ProjectBuilder) createWallDetails(ctx context.Context, enclosureID int, groups []models.ConstructionGroup) []models.ErrorRecord {
	var errs []models.ErrorRecord

	for _, group := range groups {
		b.tracker.SetComponent("Muro " + group.Code)

		masterID, err := b.createWallMaster(ctx, group.Code)
		if err != nil {
			errs = append(errs, models.ErrorRecord{
				Message: fmt.Sprintf("failed to create wall master node: %v", err),
				Context: fmt.Sprintf("Wall group %s", group.Code),
			})
			continue
		}

		errs = append(errs, b.createWallLayers(ctx, masterID, group)...)

		// One association per group: the group is a wall type applied at
		// different places, the largest instance represents it at room
		// level.
		area := maxElementArea(group.Elements)
		var orientation *float64
		if len(group.Elements) > 0 {
			orientation = group.Elements[0].Orientation
		}

		callCtx, cancel := utils.GetRemoteCallContext(ctx)
		err = b.client.AssociateWallRoom(callCtx, WallRoomAssociation{
			EnclosureID:    enclosureID,
			MasterID:       masterID,
			Characteristic: DefaultWallCharacteristic,
			Azimuth:        utils.FormatAzimuth(orientation),
			Area:           area,
		})
		cancel()
		if err != nil {
			errs = append(errs, models.ErrorRecord{
				Message: fmt.Sprintf("failed to associate wall with room: %v", err),
				Context: fmt.Sprintf("Wall group %s", group.Code),
			})
		}

		b.tracker.IncrementWalls()
	}

	return errs
}

func (b *ProjectBuilder) createWallMaster(ctx context.Context, code string) (int, error) {
	callCtx, cancel := utils.GetRemoteCallContext(ctx)
	defer cancel()

	return b.client.CreateWallMaster(callCtx, WallMasterRequest{
		ProjectID:     b.projectID,
		Code:          code,
		InteriorColor: DefaultSurfaceColor,
		ExteriorColor: DefaultSurfaceColor,
	})
}

// createWallLayers fans out one layer creation per element and waits for
// all of them, whatever their individual outcomes. A failed sibling never
// cancels the others; every attempt's errors are collected.
func (b *ProjectBuilder) createWallLayers(ctx context.Context, masterID int, group models.ConstructionGroup) []models.ErrorRecord {
	results := make([][]models.ErrorRecord, len(group.Elements))

	var wg sync.WaitGroup
	for i, element := range group.Elements {
		wg.Add(1)
		go func(i int, element models.Element) {
			defer wg.Done()
			results[i] = b.createWallLayer(ctx, masterID, group.Code, element)
		}(i, element)
	}
	wg.Wait()

	var errs []models.ErrorRecord
	for _, result := range results {
		errs = append(errs, result...)
	}
	return errs
}

func (b *ProjectBuilder) createWallLayer(ctx context.Context, masterID int, groupCode string, element models.Element) []models.ErrorRecord {
	var errs []models.ErrorRecord

	materialID := DefaultMaterialID
	material, err := b.materials.Resolve(ctx, element.Material)
	switch {
	case err != nil:
		errs = append(errs, models.ErrorRecord{
			Message: fmt.Sprintf("failed to resolve material %q: %v", element.Material, err),
			Context: fmt.Sprintf("Wall group %s - %s", groupCode, element.Name),
		})
	case material == nil:
		errs = append(errs, models.ErrorRecord{
			Message: fmt.Sprintf("no usable material for layer, using default id %d", DefaultMaterialID),
			Context: fmt.Sprintf("Wall group %s - %s", groupCode, element.Name),
		})
	default:
		materialID = material.ID
	}

	callCtx, cancel := utils.GetRemoteCallContext(ctx)
	defer cancel()

	if err := b.client.CreateWallLayer(callCtx, WallLayerRequest{
		MasterID:   masterID,
		Location:   WallLocationTag,
		Name:       element.Name,
		MaterialID: materialID,
		Thickness:  element.Thickness,
	}); err != nil {
		errs = append(errs, models.ErrorRecord{
			Message: fmt.Sprintf("failed to create wall layer: %v", err),
			Context: fmt.Sprintf("Wall group %s - %s", groupCode, element.Name),
		})
	}

	return errs
}

func maxElementArea(elements []models.Element) float64 {
	var max float64
	for _, element := range elements {
		if element.Area != nil && *element.Area > max {
			max = *element.Area
		}
	}
	return max
}
