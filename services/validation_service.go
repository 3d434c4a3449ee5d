package services

import (
	"backend/models"
	"context"
	"strings"
)

// Category labels used in validation findings.
const (
	CategoryWalls    = "walls"
	CategoryFloors   = "floors"
	CategoryCeilings = "ceilings"
	CategoryDoors    = "doors"
	CategoryWindows  = "windows"
)

// validateRoom scans every element of every category and attempts to
// resolve its material. The pass is strictly read-only: successful lookups
// land in the shared cache so the real build reuses them, unresolved codes
// become findings. The "unknown" sentinel is skipped.
func (b *ProjectBuilder) validateRoom(ctx context.Context, room models.Room) models.RoomValidation {
	result := models.RoomValidation{
		Room:            room.Name,
		MissingElements: []models.MissingElement{},
		FoundMaterials:  []models.Material{},
	}

	categories := []struct {
		label  string
		groups []models.ConstructionGroup
	}{
		{CategoryWalls, room.Details.Walls},
		{CategoryFloors, room.Details.Floors},
		{CategoryCeilings, room.Details.Ceilings},
		{CategoryDoors, room.Details.Doors},
		{CategoryWindows, room.Details.Windows},
	}

	for _, category := range categories {
		for _, group := range category.groups {
			for _, element := range group.Elements {
				if element.Material == "" || strings.EqualFold(element.Material, NoMaterialCode) {
					continue
				}

				material, err := b.materials.Resolve(ctx, element.Material)
				if err != nil || material == nil {
					result.MissingElements = append(result.MissingElements, models.MissingElement{
						Room:     room.Name,
						Category: category.label,
						Name:     element.Name,
						Material: element.Material,
					})
					continue
				}
				result.FoundMaterials = append(result.FoundMaterials, *material)
			}
		}
	}

	return result
}

// validateStructure runs the validation pass across all rooms and
// aggregates the findings. No remote write is ever issued here.
func (b *ProjectBuilder) validateStructure(ctx context.Context, structure models.BuildingStructure) models.StructureValidation {
	validation := models.StructureValidation{
		Valid:           true,
		Rooms:           []models.RoomValidation{},
		MissingElements: []models.MissingElement{},
	}

	for _, room := range structure.Rooms {
		roomResult := b.validateRoom(ctx, room)
		validation.Rooms = append(validation.Rooms, roomResult)
		validation.MissingElements = append(validation.MissingElements, roomResult.MissingElements...)
	}

	validation.Valid = len(validation.MissingElements) == 0
	return validation
}
