package entities

import (
	"time"

	"github.com/google/uuid"
)

// GoalStatus represents the state of an annual goal
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusAchieved  GoalStatus = "achieved"
	GoalStatusMissed    GoalStatus = "missed"
	GoalStatusAbandoned GoalStatus = "abandoned"
)

// IsValid checks if the goal status is valid
func (s GoalStatus) IsValid() bool {
	switch s {
	case GoalStatusActive, GoalStatusAchieved, GoalStatusMissed, GoalStatusAbandoned:
		return true
	}
	return false
}

// Goal is a one-year plan goal
type Goal struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	Title          string     `gorm:"type:varchar(500);not null" json:"title"`
	Description    *string    `gorm:"type:text" json:"description,omitempty"`
	OwnerID        *uuid.UUID `gorm:"type:uuid" json:"owner_id,omitempty"`
	Owner          *Profile   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	TargetValue    *float64   `json:"target_value,omitempty"`
	CurrentValue   *float64   `json:"current_value,omitempty"`
	Unit           *string    `gorm:"type:varchar(50)" json:"unit,omitempty"`
	DueDate        *time.Time `gorm:"type:date" json:"due_date,omitempty"`
	Status         GoalStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Year           int        `gorm:"not null" json:"year"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Goal
func (Goal) TableName() string {
	return "goals"
}
