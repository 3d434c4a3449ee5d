package models

import (
	"time"
)

type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid request"`
	Details string `json:"details,omitempty" example:"missing field rooms"`
}

type ValidateSessionResponse struct {
	Valid bool   `json:"valid" example:"true"`
	Email string `json:"email" example:"user@example.com"`
}

// StartBuildResponse is returned when a build run has been accepted.
type StartBuildResponse struct {
	RunCode   string `json:"run_code" example:"BR48291"`
	ProjectID int    `json:"project_id" example:"1"`
	Message   string `json:"message" example:"Structure build started"`
}

// BuildRunResponse is one persisted run as returned by the run-history
// endpoint.
type BuildRunResponse struct {
	RunCode        string        `json:"run_code" example:"BR48291"`
	ProjectID      int           `json:"project_id" example:"1"`
	Success        bool          `json:"success" example:"true"`
	CompletedRooms int           `json:"completed_rooms" example:"3"`
	TotalRooms     int           `json:"total_rooms" example:"3"`
	Errors         []ErrorRecord `json:"errors"`
	StartedAt      time.Time     `json:"started_at" example:"2024-01-15T10:30:00Z"`
	FinishedAt     *time.Time    `json:"finished_at,omitempty" example:"2024-01-15T10:32:10Z"`
}

// ImportStructureResponse is the outcome of an XLSX structure import.
type ImportStructureResponse struct {
	Structure BuildingStructure `json:"structure"`
	Rooms     int               `json:"rooms" example:"4"`
	Warnings  []string          `json:"warnings,omitempty"`
}
