package services

import (
	"backend/models"
	"backend/utils"
	"context"
	"log"
)

// DefaultWindowCharacteristic mirrors the door default for unnamed window
// elements.
const DefaultWindowCharacteristic = "Ventana"

// createWindowDetails computes the same payload as the door builder but the
// window endpoint is not integrated yet: the payload is logged with a
// simulated marker and the counter still advances.
func (b *ProjectBuilder) createWindowDetails(ctx context.Context, enclosureID int, groups []models.ConstructionGroup) []models.ErrorRecord {
	for _, group := range groups {
		b.tracker.SetComponent("Ventana " + group.Code + " (simulado)")

		for _, element := range group.Elements {
			wallID := 0
			if element.WallID != nil {
				wallID = *element.WallID
			}

			characteristics := element.Name
			if characteristics == "" {
				characteristics = DefaultWindowCharacteristic
			}

			log.Printf("simulated: window association enclosure=%d wall=%d characteristics=%q azimuth=%q area=%.3f",
				enclosureID, wallID, characteristics, utils.FormatAzimuth(element.Orientation), doorArea(element))

			b.tracker.IncrementWindows()
		}
	}

	return nil
}
