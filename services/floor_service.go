package services

import (
	"backend/models"
	"backend/utils"
	"context"
	"fmt"
)

// FloorCatalogReferenceCode is the fixed catalogue code floor elements are
// matched against. TODO: match on per-element metadata once the calc
// backend exposes a floor code per element.
const FloorCatalogReferenceCode = "P01"

// createFloorDetails fetches the project's floor catalogue once, then
// associates every floor element that matches a catalogue entry with the
// room. The catalogue's transmittance payload travels through verbatim.
func (b *ProjectBuilder) createFloorDetails(ctx context.Context, enclosureID int, groups []models.ConstructionGroup) []models.ErrorRecord {
	var errs []models.ErrorRecord

	callCtx, cancel := utils.GetRemoteCallContext(ctx)
	catalogue, err := b.client.GetFloorDetails(callCtx, b.projectID)
	cancel()
	if err != nil {
		// Without the catalogue nothing in this category can be matched.
		return append(errs, models.ErrorRecord{
			Message: fmt.Sprintf("failed to fetch floor catalogue: %v", err),
			Context: "Floors",
		})
	}

	for _, group := range groups {
		b.tracker.SetComponent("Piso " + group.Code)

		for _, element := range group.Elements {
			entry := matchFloorDetail(catalogue)
			if entry == nil {
				errs = append(errs, models.ErrorRecord{
					Message: fmt.Sprintf("no floor catalogue entry for code %q", FloorCatalogReferenceCode),
					Context: fmt.Sprintf("Floor group %s - %s", group.Code, element.Name),
				})
				continue
			}

			area := 0.0
			if element.Area != nil {
				area = *element.Area
			}

			callCtx, cancel := utils.GetRemoteCallContext(ctx)
			err := b.client.AssociateFloorRoom(callCtx, FloorRoomAssociation{
				EnclosureID:    enclosureID,
				FloorID:        entry.ID,
				Characteristic: element.Name,
				Area:           area,
				ValueU:         entry.ValueU,
				Calculations:   entry.Calculations,
			})
			cancel()
			if err != nil {
				errs = append(errs, models.ErrorRecord{
					Message: fmt.Sprintf("failed to associate floor with room: %v", err),
					Context: fmt.Sprintf("Floor group %s - %s", group.Code, element.Name),
				})
				continue
			}

			b.tracker.IncrementFloors()
		}
	}

	return errs
}

func matchFloorDetail(catalogue []models.FloorDetail) *models.FloorDetail {
	for i := range catalogue {
		if catalogue[i].Code == FloorCatalogReferenceCode {
			return &catalogue[i]
		}
	}
	return nil
}
