package services

import (
	"backend/models"
	"backend/utils"
	"context"
	"fmt"
)

// DefaultDoorCharacteristic is used when a door element carries no
// descriptive name.
const DefaultDoorCharacteristic = "Puerta"

// createDoorDetails associates every door element with the room. The door
// references its assigned wall (0 when unassigned) and its area is
// width x height, 0 when either dimension is absent. The counter advances
// on call issuance, not on confirmed success.
func (b *ProjectBuilder) createDoorDetails(ctx context.Context, enclosureID int, groups []models.ConstructionGroup) []models.ErrorRecord {
	var errs []models.ErrorRecord

	for _, group := range groups {
		b.tracker.SetComponent("Puerta " + group.Code)

		for _, element := range group.Elements {
			wallID := 0
			if element.WallID != nil {
				wallID = *element.WallID
			}

			characteristics := element.Name
			if characteristics == "" {
				characteristics = DefaultDoorCharacteristic
			}

			callCtx, cancel := utils.GetRemoteCallContext(ctx)
			err := b.client.AssociateDoorRoom(callCtx, DoorRoomAssociation{
				EnclosureID:     enclosureID,
				WallID:          wallID,
				Characteristics: characteristics,
				Azimuth:         utils.FormatAzimuth(element.Orientation),
				Area:            doorArea(element),
			})
			cancel()
			b.tracker.IncrementDoors()
			if err != nil {
				errs = append(errs, models.ErrorRecord{
					Message: fmt.Sprintf("failed to associate door with room: %v", err),
					Context: fmt.Sprintf("Door group %s - %s", group.Code, element.Name),
				})
			}
		}
	}

	return errs
}

func doorArea(element models.Element) float64 {
	if element.Width == nil || element.Height == nil {
		return 0
	}
	return *element.Width * *element.Height
}
