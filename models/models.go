package models

import (
	"encoding/json"

	_ "github.com/lib/pq"
)

// BuildingStructure is the full in-memory description of a building as
// assembled by the frontend: an ordered list of rooms, each carrying its
// construction details. It is treated as immutable once handed to the
// pipeline.
type BuildingStructure struct {
	Rooms []Room `json:"rooms"`
}

type Room struct {
	ID         int                 `json:"id" example:"1"`
	Name       string              `json:"name" example:"Dormitorio 1"`
	Properties RoomProperties      `json:"properties"`
	Details    ConstructionDetails `json:"construction_details"`
}

type RoomProperties struct {
	Code              string     `json:"code" example:"DOR"`
	RoomType          string     `json:"room_type" example:"Dormitorio"`
	OccupationProfile string     `json:"occupation_profile,omitempty" example:"Residencial"`
	Level             string     `json:"level" example:"00 NIVEL 01"`
	Volume            float64    `json:"volume" example:"32.4"`
	SurfaceArea       float64    `json:"surface_area" example:"12.5"`
	AverageHeight     float64    `json:"average_height" example:"2.6"`
	WallAvgHeight     float64    `json:"wall_avg_height" example:"2.6"`
	Dimensions        Dimensions `json:"dimensions"`
	Position          Position   `json:"position"`
}

type Dimensions struct {
	Width  float64 `json:"width" example:"4.1"`
	Depth  float64 `json:"depth" example:"3.05"`
	Height float64 `json:"height" example:"2.6"`
}

type Position struct {
	X float64 `json:"x" example:"0"`
	Y float64 `json:"y" example:"0"`
	Z float64 `json:"z" example:"0"`
}

// ConstructionDetails holds the five construction categories of a room.
// A room may have zero or more groups per category.
type ConstructionDetails struct {
	Walls    []ConstructionGroup `json:"walls"`
	Floors   []ConstructionGroup `json:"floors"`
	Ceilings []ConstructionGroup `json:"ceilings"`
	Doors    []ConstructionGroup `json:"doors"`
	Windows  []ConstructionGroup `json:"windows"`
}

// ConstructionGroup is one named construction assembly (e.g. a wall type)
// that may be physically instantiated several times in a room. Its elements
// are the material layers, ordered interior to exterior.
type ConstructionGroup struct {
	Code     string    `json:"code" example:"M1"`
	Elements []Element `json:"elements"`
}

// Element is a single physical layer or component. Material is a material
// code reference; the sentinel "unknown" means no material was assigned and
// resolution is skipped. Elements are never mutated after construction.
type Element struct {
	Name        string      `json:"name" example:"Hormigon armado"`
	Material    string      `json:"material,omitempty" example:"HA400"`
	Thickness   float64     `json:"thickness" example:"0.2"`
	Area        *float64    `json:"area,omitempty" example:"10.6"`
	Volume      *float64    `json:"volume,omitempty" example:"2.1"`
	Orientation *float64    `json:"orientation,omitempty" example:"90"`
	Width       *float64    `json:"width,omitempty" example:"0.9"`
	Height      *float64    `json:"height,omitempty" example:"2.1"`
	WallID      *int        `json:"wall_id,omitempty" example:"12"`
	Dimensions  *Dimensions `json:"dimensions,omitempty"`
	Position    *Position   `json:"position,omitempty"`
}

// Material is a resolved thermal-material record from the calc backend.
type Material struct {
	ID           int     `json:"id" example:"34"`
	Code         string  `json:"code" example:"HA400"`
	Name         string  `json:"name" example:"Hormigon armado 400 kg/m3"`
	Conductivity float64 `json:"conductivity" example:"1.63"`
	Density      float64 `json:"density" example:"2400"`
	SpecificHeat float64 `json:"specific_heat" example:"920"`
}

// EnclosureTyping is an occupation-profile catalog entry looked up by room
// code.
type EnclosureTyping struct {
	ID   int    `json:"id" example:"1"`
	Code string `json:"code" example:"DOR"`
	Name string `json:"name" example:"Dormitorio"`
}

// FloorDetail is one entry of a project's floor catalogue. Calculations is
// the calc backend's transmittance payload and is passed through verbatim
// when associating a floor with a room.
type FloorDetail struct {
	ID           int             `json:"id" example:"7"`
	Code         string          `json:"code" example:"P01"`
	Name         string          `json:"name" example:"Radier sobre terreno"`
	ValueU       float64         `json:"value_u" example:"0.58"`
	Calculations json.RawMessage `json:"calculations,omitempty"`
}

// ErrorRecord is one pipeline error: a human-readable message plus the
// room/group/element path it happened at.
type ErrorRecord struct {
	Message string `json:"message" example:"material not found"`
	Context string `json:"context" example:"Room: Dormitorio 1 - Wall group M1"`
}

// CategoryProgress carries the per-category progress counters shown by the
// frontend while a build runs.
type CategoryProgress struct {
	Rooms    int `json:"rooms" example:"2"`
	Walls    int `json:"walls" example:"5"`
	Floors   int `json:"floors" example:"2"`
	Ceilings int `json:"ceilings" example:"2"`
	Doors    int `json:"doors" example:"3"`
	Windows  int `json:"windows" example:"4"`
}

// CreationStatus is the externally observable state of one build run. It is
// created fresh at the start of a run, mutated throughout and frozen
// (InProgress=false) at the end, success or failure.
type CreationStatus struct {
	InProgress       bool             `json:"in_progress" example:"true"`
	CompletedRooms   int              `json:"completed_rooms" example:"1"`
	TotalRooms       int              `json:"total_rooms" example:"3"`
	CurrentRoom      string           `json:"current_room" example:"Dormitorio 1"`
	CurrentPhase     string           `json:"current_phase" example:"walls"`
	CurrentComponent string           `json:"current_component" example:"Muro M1"`
	Progress         CategoryProgress `json:"progress"`
	Errors           []ErrorRecord    `json:"errors"`
}

// ProjectResult is the final aggregate of a build run.
type ProjectResult struct {
	Success        bool          `json:"success" example:"false"`
	CompletedRooms int           `json:"completed_rooms" example:"3"`
	TotalRooms     int           `json:"total_rooms" example:"3"`
	Errors         []ErrorRecord `json:"errors"`
}

// MissingElement identifies an element whose material code could not be
// resolved during the validation pass.
type MissingElement struct {
	Room     string `json:"room" example:"Dormitorio 1"`
	Category string `json:"category" example:"walls"`
	Name     string `json:"name" example:"Aislante"`
	Material string `json:"material" example:"LANA-X"`
}

// RoomValidation is the validation-pass outcome for one room.
type RoomValidation struct {
	Room            string           `json:"room" example:"Dormitorio 1"`
	MissingElements []MissingElement `json:"missing_elements"`
	FoundMaterials  []Material       `json:"found_materials"`
}

// StructureValidation aggregates the validation pass across all rooms.
type StructureValidation struct {
	Valid           bool             `json:"valid" example:"false"`
	Rooms           []RoomValidation `json:"rooms"`
	MissingElements []MissingElement `json:"missing_elements"`
}
