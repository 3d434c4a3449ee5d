package services

import (
	"backend/models"
	"backend/utils"
	"context"
	"fmt"
	"log"
)

const (
	// DefaultOccupationProfileID is substituted when the enclosure-typing
	// lookup fails; the room is still created.
	DefaultOccupationProfileID = 1

	// DefaultRoomName is the last fallback for an enclosure's display name.
	DefaultRoomName = "Recinto"

	// defaultCO2Sensor is the sensor flag every created enclosure starts
	// with.
	defaultCO2Sensor = false
)

// createRoom resolves the room's occupation profile and creates the
// enclosure on the calc backend, returning the remote enclosure id. A
// typing-lookup failure falls back to the default profile; a create failure
// is fatal to this room only and carries the room's name.
func (b *ProjectBuilder) createRoom(ctx context.Context, room models.Room) (int, error) {
	profileID := DefaultOccupationProfileID
	profileName := ""

	callCtx, cancel := utils.GetRemoteCallContext(ctx)
	typing, err := b.client.GetEnclosureTyping(callCtx, room.Properties.Code)
	cancel()
	if err != nil || typing == nil {
		log.Printf("enclosure typing lookup failed for code %q, using default profile %d: %v",
			room.Properties.Code, DefaultOccupationProfileID, err)
	} else {
		profileID = typing.ID
		profileName = typing.Name
	}

	name := room.Properties.RoomType
	if name == "" {
		name = profileName
	}
	if name == "" {
		name = DefaultRoomName
	}

	callCtx, cancel = utils.GetRemoteCallContext(ctx)
	defer cancel()

	enclosureID, err := b.client.CreateEnclosure(callCtx, EnclosureCreateRequest{
		ProjectID:       b.projectID,
		Name:            name,
		OccupationID:    profileID,
		Height:          room.Properties.AverageHeight,
		CO2SensorActive: defaultCO2Sensor,
		Level:           utils.ParseLevel(room.Properties.Level),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create room %s: %v", room.Name, err)
	}

	return enclosureID, nil
}

// createRoomDetails runs the five category builders for one room in fixed
// order, skipping empty categories and concatenating every builder's
// errors. A non-empty error list means the room is partially complete, not
// failed.
func (b *ProjectBuilder) createRoomDetails(ctx context.Context, enclosureID int, details models.ConstructionDetails, roomName string) (bool, []models.ErrorRecord) {
	var errs []models.ErrorRecord

	if len(details.Walls) > 0 {
		b.tracker.SetPhase(PhaseWalls, "")
		errs = append(errs, b.createWallDetails(ctx, enclosureID, details.Walls)...)
	}
	if len(details.Floors) > 0 {
		b.tracker.SetPhase(PhaseFloors, "")
		errs = append(errs, b.createFloorDetails(ctx, enclosureID, details.Floors)...)
	}
	if len(details.Ceilings) > 0 {
		b.tracker.SetPhase(PhaseCeilings, "")
		errs = append(errs, b.createCeilingDetails(ctx, enclosureID, details.Ceilings)...)
	}
	if len(details.Doors) > 0 {
		b.tracker.SetPhase(PhaseDoors, "")
		errs = append(errs, b.createDoorDetails(ctx, enclosureID, details.Doors)...)
	}
	if len(details.Windows) > 0 {
		b.tracker.SetPhase(PhaseWindows, "")
		errs = append(errs, b.createWindowDetails(ctx, enclosureID, details.Windows)...)
	}

	b.tracker.SetComponent("")
	if len(errs) > 0 {
		log.Printf("room %s finished with %d detail errors", roomName, len(errs))
	}

	return len(errs) == 0, errs
}
