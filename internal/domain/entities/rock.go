package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RockLevel represents where a rock sits in the hierarchy
type RockLevel string

const (
	RockLevelCompany    RockLevel = "company"
	RockLevelPillar     RockLevel = "pillar"
	RockLevelIndividual RockLevel = "individual"
)

var rockLevelRank = map[RockLevel]int{
	RockLevelIndividual: 1,
	RockLevelPillar:     2,
	RockLevelCompany:    3,
}

// IsValid checks if the rock level is valid
func (l RockLevel) IsValid() bool {
	_, ok := rockLevelRank[l]
	return ok
}

// Above reports whether l is strictly higher in the hierarchy than other
func (l RockLevel) Above(other RockLevel) bool {
	return rockLevelRank[l] > rockLevelRank[other]
}

// RockStatus represents the progress state of a rock
type RockStatus string

const (
	RockStatusOnTrack  RockStatus = "on_track"
	RockStatusAtRisk   RockStatus = "at_risk"
	RockStatusOffTrack RockStatus = "off_track"
	RockStatusComplete RockStatus = "complete"
)

// IsValid checks if the rock status is valid
func (s RockStatus) IsValid() bool {
	switch s {
	case RockStatusOnTrack, RockStatusAtRisk, RockStatusOffTrack, RockStatusComplete:
		return true
	}
	return false
}

// NeedsAttention reports whether the status should be called out in reviews
func (s RockStatus) NeedsAttention() bool {
	return s == RockStatusOffTrack || s == RockStatusAtRisk
}

// Rock is a quarterly objective
type Rock struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	Title          string     `gorm:"type:varchar(500);not null" json:"title"`
	Description    *string    `gorm:"type:text" json:"description,omitempty"`
	Level          RockLevel  `gorm:"type:varchar(20);not null;default:'individual'" json:"level"`
	Status         RockStatus `gorm:"type:varchar(20);not null;default:'on_track';index" json:"status"`
	OwnerID        *uuid.UUID `gorm:"type:uuid;index" json:"owner_id,omitempty"`
	Owner          *Profile   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	PillarID       *uuid.UUID `gorm:"type:uuid" json:"pillar_id,omitempty"`
	ParentID       *uuid.UUID `gorm:"type:uuid" json:"parent_id,omitempty"`
	Quarter        string     `gorm:"type:varchar(10);not null" json:"quarter"`
	DueDate        *time.Time `gorm:"type:date" json:"due_date,omitempty"`
	Progress       int        `gorm:"not null;default:0" json:"progress"`
	IsArchived     bool       `gorm:"default:false" json:"is_archived"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Rock
func (Rock) TableName() string {
	return "rocks"
}

// QuarterOf formats t as the quarter key used on rocks, e.g. "2026-Q1"
func QuarterOf(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
}

// IsActive reports whether the rock is part of the current working set
func (r *Rock) IsActive() bool {
	return !r.IsArchived
}

// Snapshot captures the rock for a meeting's rocks_snapshot
func (r *Rock) Snapshot() RockSnapshot {
	return RockSnapshot{
		ID:        r.ID,
		Title:     r.Title,
		Level:     r.Level,
		Status:    r.Status,
		OwnerID:   r.OwnerID,
		OwnerName: r.Owner.DisplayName(),
	}
}

// RockUpdate is a status note posted against a rock
type RockUpdate struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	RockID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"rock_id"`
	Rock      *Rock      `gorm:"foreignKey:RockID" json:"rock,omitempty"`
	AuthorID  uuid.UUID  `gorm:"type:uuid;not null" json:"author_id"`
	Status    RockStatus `gorm:"type:varchar(20);not null" json:"status"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for RockUpdate
func (RockUpdate) TableName() string {
	return "rock_updates"
}
