package services

import (
	"backend/models"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDoorDetailsAssociatesEveryElement(t *testing.T) {
	client := newMockCalcClient()
	builder := newTestBuilder(client, 7, 1)

	groups := []models.ConstructionGroup{
		wallGroup("PU1",
			models.Element{
				Name:        "Puerta principal",
				Width:       floatPtr(0.9),
				Height:      floatPtr(2.1),
				WallID:      intPtr(12),
				Orientation: floatPtr(90),
			},
			models.Element{Name: ""},
		),
	}

	errs := builder.createDoorDetails(context.Background(), 101, groups)
	assert.Empty(t, errs)

	require.Len(t, client.doorAssociations, 2)

	first := client.doorAssociations[0]
	assert.Equal(t, 101, first.EnclosureID)
	assert.Equal(t, 12, first.WallID)
	assert.Equal(t, "Puerta principal", first.Characteristics)
	assert.Equal(t, "90° a 112,5°", first.Azimuth)
	assert.InDelta(t, 1.89, first.Area, 1e-9)

	second := client.doorAssociations[1]
	assert.Equal(t, 0, second.WallID, "an unassigned door references wall 0")
	assert.Equal(t, DefaultDoorCharacteristic, second.Characteristics)
	assert.Equal(t, "0° a 22,5°", second.Azimuth, "nil orientation falls into the default sector")
	assert.Equal(t, 0.0, second.Area, "missing dimensions mean zero area")

	assert.Equal(t, 2, builder.tracker.Snapshot().Progress.Doors)
}

func TestCreateDoorDetailsCounterAdvancesOnFailedAssociation(t *testing.T) {
	client := newMockCalcClient()
	client.associateDoorRoomFn = func(req DoorRoomAssociation) error {
		return errors.New("association rejected")
	}
	builder := newTestBuilder(client, 7, 1)

	groups := []models.ConstructionGroup{
		wallGroup("PU1", models.Element{Name: "Puerta"}),
	}

	errs := builder.createDoorDetails(context.Background(), 101, groups)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "failed to associate door with room")
	assert.Equal(t, "Door group PU1 - Puerta", errs[0].Context)
	assert.Equal(t, 1, builder.tracker.Snapshot().Progress.Doors, "the counter tracks issuance, not success")
}

func TestDoorArea(t *testing.T) {
	assert.InDelta(t, 1.89, doorArea(models.Element{Width: floatPtr(0.9), Height: floatPtr(2.1)}), 1e-9)
	assert.Equal(t, 0.0, doorArea(models.Element{Width: floatPtr(0.9)}))
	assert.Equal(t, 0.0, doorArea(models.Element{Height: floatPtr(2.1)}))
	assert.Equal(t, 0.0, doorArea(models.Element{}))
}

func TestCreateCeilingDetailsSimulatedButCounted(t *testing.T) {
	client := newMockCalcClient()
	client.getMaterialByCodeFn = materialCatalog(models.Material{ID: 34, Code: "HA400"})
	builder := newTestBuilder(client, 7, 1)

	groups := []models.ConstructionGroup{
		wallGroup("C1",
			models.Element{Name: "Losa", Material: "HA400", Thickness: 0.15},
			models.Element{Name: "Aislante", Material: "NOEXISTE", Thickness: 0.08},
		),
		wallGroup("C2", models.Element{Name: "Losa", Material: "HA400", Thickness: 0.15}),
	}

	errs := builder.createCeilingDetails(context.Background(), 101, groups)

	require.Len(t, errs, 1, "the unresolved material is recorded even though nothing is written")
	assert.Equal(t, "Ceiling group C1 - Aislante", errs[0].Context)

	assert.Empty(t, client.wallLayers, "ceilings never reach the calc backend")
	assert.Equal(t, 2, builder.tracker.Snapshot().Progress.Ceilings, "the counter advances per group")
}

func TestCreateWindowDetailsSimulatedButCounted(t *testing.T) {
	client := newMockCalcClient()
	builder := newTestBuilder(client, 7, 1)

	groups := []models.ConstructionGroup{
		wallGroup("V1",
			models.Element{Name: "Ventana norte", Width: floatPtr(1.2), Height: floatPtr(1.0)},
			models.Element{Name: "Ventana sur"},
		),
	}

	errs := builder.createWindowDetails(context.Background(), 101, groups)

	assert.Empty(t, errs)
	assert.Empty(t, client.doorAssociations, "windows never reach the calc backend")
	assert.Equal(t, 2, builder.tracker.Snapshot().Progress.Windows, "the counter advances per element")
}
