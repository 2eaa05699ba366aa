package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Briefing is the daily AI summary generated for one profile
type Briefing struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProfileID      uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_briefings_profile_date" json:"profile_id"`
	OrganizationID uuid.UUID                   `gorm:"type:uuid;not null;index" json:"organization_id"`
	Date           time.Time                   `gorm:"type:date;not null;uniqueIndex:idx_briefings_profile_date" json:"date"`
	Content        string                      `gorm:"type:text;not null" json:"content"`
	Highlights     datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"highlights"`
	Model          string                      `gorm:"type:varchar(100)" json:"model"`
	GeneratedAt    time.Time                   `gorm:"not null" json:"generated_at"`
}

// TableName specifies the table name for Briefing
func (Briefing) TableName() string {
	return "briefings"
}

// BriefingDate truncates t to the calendar day used as the briefing key
func BriefingDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AlertSeverity ranks alerts and anomalies
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// Alert is a notification waiting for a profile to acknowledge it
type Alert struct {
	ID             uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID     `gorm:"type:uuid;not null;index" json:"organization_id"`
	ProfileID      *uuid.UUID    `gorm:"type:uuid;index" json:"profile_id,omitempty"`
	Severity       AlertSeverity `gorm:"type:varchar(20);not null;default:'info'" json:"severity"`
	Title          string        `gorm:"type:varchar(255);not null" json:"title"`
	Message        *string       `gorm:"type:text" json:"message,omitempty"`
	AcknowledgedAt *time.Time    `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for Alert
func (Alert) TableName() string {
	return "alerts"
}

// Anomaly is an unusual movement detected on a metric
type Anomaly struct {
	ID             uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID     `gorm:"type:uuid;not null;index" json:"organization_id"`
	MetricID       *uuid.UUID    `gorm:"type:uuid" json:"metric_id,omitempty"`
	Description    string        `gorm:"type:text;not null" json:"description"`
	Severity       AlertSeverity `gorm:"type:varchar(20);not null;default:'warning'" json:"severity"`
	DetectedAt     time.Time     `gorm:"not null" json:"detected_at"`
	ResolvedAt     *time.Time    `json:"resolved_at,omitempty"`
}

// TableName specifies the table name for Anomaly
func (Anomaly) TableName() string {
	return "anomalies"
}

// Mention records a profile being referenced somewhere in the workspace
type Mention struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	ProfileID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"profile_id"`
	SourceType     string     `gorm:"type:varchar(50);not null" json:"source_type"`
	SourceID       uuid.UUID  `gorm:"type:uuid;not null" json:"source_id"`
	Snippet        string     `gorm:"type:text" json:"snippet"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for Mention
func (Mention) TableName() string {
	return "mentions"
}

// VTO is the organization's Vision/Traction Organizer
type VTO struct {
	OrganizationID   uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"organization_id"`
	CoreValues       datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"core_values"`
	Purpose          *string                     `gorm:"type:text" json:"purpose,omitempty"`
	Niche            *string                     `gorm:"type:text" json:"niche,omitempty"`
	TenYearTarget    *string                     `gorm:"type:text" json:"ten_year_target,omitempty"`
	ThreeYearPicture *string                     `gorm:"type:text" json:"three_year_picture,omitempty"`
	OneYearPlan      *string                     `gorm:"type:text" json:"one_year_plan,omitempty"`
	UpdatedAt        time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for VTO
func (VTO) TableName() string {
	return "vtos"
}
