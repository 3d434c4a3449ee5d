package models

import (
	"encoding/json"
	"time"
)

// GORM-compatible models with proper tags

// BuildRun represents the build_runs table with GORM tags. Errors holds the
// run's error records marshaled as JSON.
type BuildRun struct {
	ID             uint       `gorm:"primaryKey;column:id" json:"id"`
	RunCode        string     `gorm:"column:run_code;uniqueIndex;not null" json:"run_code"`
	ProjectID      int        `gorm:"column:project_id;not null;index" json:"project_id"`
	Success        bool       `gorm:"column:success;not null;default:false" json:"success"`
	CompletedRooms int        `gorm:"column:completed_rooms;default:0" json:"completed_rooms"`
	TotalRooms     int        `gorm:"column:total_rooms;default:0" json:"total_rooms"`
	Validated      bool       `gorm:"column:validated;default:false" json:"validated"`
	Errors         *string    `gorm:"column:errors;type:text" json:"-"`
	StartedAt      time.Time  `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt     *time.Time `gorm:"column:finished_at" json:"finished_at,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for BuildRun
func (BuildRun) TableName() string {
	return "build_runs"
}

// SetErrors marshals the run's error records into the Errors column.
func (b *BuildRun) SetErrors(records []ErrorRecord) error {
	if len(records) == 0 {
		b.Errors = nil
		return nil
	}
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	s := string(data)
	b.Errors = &s
	return nil
}

// ErrorRecords unmarshals the Errors column back into records.
func (b *BuildRun) ErrorRecords() []ErrorRecord {
	if b.Errors == nil || *b.Errors == "" {
		return nil
	}
	var records []ErrorRecord
	if err := json.Unmarshal([]byte(*b.Errors), &records); err != nil {
		return nil
	}
	return records
}

// ToResponse converts a persisted run into its API shape.
func (b *BuildRun) ToResponse() BuildRunResponse {
	return BuildRunResponse{
		RunCode:        b.RunCode,
		ProjectID:      b.ProjectID,
		Success:        b.Success,
		CompletedRooms: b.CompletedRooms,
		TotalRooms:     b.TotalRooms,
		Errors:         b.ErrorRecords(),
		StartedAt:      b.StartedAt,
		FinishedAt:     b.FinishedAt,
	}
}
