package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Pillar is a functional business unit grouping teams and rocks
type Pillar struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name           string     `gorm:"type:varchar(255);not null" json:"name"`
	Description    *string    `gorm:"type:text" json:"description,omitempty"`
	LeaderID       *uuid.UUID `gorm:"type:uuid" json:"leader_id,omitempty"`
	Leader         *Profile   `gorm:"foreignKey:LeaderID" json:"leader,omitempty"`
	Color          *string    `gorm:"type:varchar(20)" json:"color,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Pillar
func (Pillar) TableName() string {
	return "pillars"
}

// DataSourceKind names where a metric's values come from
type DataSourceKind string

const (
	DataSourceManual      DataSourceKind = "manual"
	DataSourceHubSpot     DataSourceKind = "hubspot"
	DataSourceSpreadsheet DataSourceKind = "spreadsheet"
	DataSourceAPI         DataSourceKind = "api"
)

// IsValid checks if the data source kind is known
func (k DataSourceKind) IsValid() bool {
	switch k {
	case DataSourceManual, DataSourceHubSpot, DataSourceSpreadsheet, DataSourceAPI:
		return true
	}
	return false
}

// DataSource describes an origin of scorecard values
type DataSource struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID         `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name           string            `gorm:"type:varchar(255);not null" json:"name"`
	Kind           DataSourceKind    `gorm:"column:kind;type:varchar(20);not null;default:'manual'" json:"kind"`
	Config         datatypes.JSONMap `gorm:"type:jsonb;default:'{}'" json:"config"`
	IsActive       bool              `gorm:"default:true;not null" json:"is_active"`
	LastSyncedAt   *time.Time        `json:"last_synced_at,omitempty"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for DataSource
func (DataSource) TableName() string {
	return "data_sources"
}
