package services

import (
	"backend/models"
	"context"
	"fmt"
	"log"
)

// createCeilingDetails resolves ceiling materials exactly like the wall
// builder but does not write to the calc backend yet: the endpoint is not
// integrated, so the payload is logged with a simulated marker and the
// counter still advances. The status label makes the simulation visible to
// observers.
func (b *ProjectBuilder) createCeilingDetails(ctx context.Context, enclosureID int, groups []models.ConstructionGroup) []models.ErrorRecord {
	var errs []models.ErrorRecord

	for _, group := range groups {
		b.tracker.SetComponent("Cielo " + group.Code + " (simulado)")

		for _, element := range group.Elements {
			materialID := DefaultMaterialID
			material, err := b.materials.Resolve(ctx, element.Material)
			switch {
			case err != nil:
				errs = append(errs, models.ErrorRecord{
					Message: fmt.Sprintf("failed to resolve material %q: %v", element.Material, err),
					Context: fmt.Sprintf("Ceiling group %s - %s", group.Code, element.Name),
				})
			case material == nil:
				errs = append(errs, models.ErrorRecord{
					Message: fmt.Sprintf("no usable material for layer, using default id %d", DefaultMaterialID),
					Context: fmt.Sprintf("Ceiling group %s - %s", group.Code, element.Name),
				})
			default:
				materialID = material.ID
			}

			log.Printf("simulated: ceiling layer enclosure=%d group=%s name=%q material_id=%d thickness=%.3f",
				enclosureID, group.Code, element.Name, materialID, element.Thickness)
		}

		b.tracker.IncrementCeilings()
	}

	return errs
}
