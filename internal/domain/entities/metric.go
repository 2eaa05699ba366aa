package entities

import (
	"time"

	"github.com/google/uuid"
)

// MetricFrequency is how often a metric is expected to be recorded
type MetricFrequency string

const (
	FrequencyWeekly    MetricFrequency = "weekly"
	FrequencyMonthly   MetricFrequency = "monthly"
	FrequencyQuarterly MetricFrequency = "quarterly"
)

// IsValid checks if the frequency is known
func (f MetricFrequency) IsValid() bool {
	return f == FrequencyWeekly || f == FrequencyMonthly || f == FrequencyQuarterly
}

// Metric is a scorecard KPI
type Metric struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	Description    *string         `gorm:"type:text" json:"description,omitempty"`
	OwnerID        *uuid.UUID      `gorm:"type:uuid" json:"owner_id,omitempty"`
	Owner          *Profile        `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Goal           *float64        `json:"goal,omitempty"`
	Unit           *string         `gorm:"type:varchar(50)" json:"unit,omitempty"`
	Frequency      MetricFrequency `gorm:"type:varchar(20);not null;default:'weekly'" json:"frequency"`
	IsActive       bool            `gorm:"default:true;index" json:"is_active"`
	DataSourceID   *uuid.UUID      `gorm:"type:uuid" json:"data_source_id,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Populated from the latest MetricValue, never stored
	CurrentValue *float64   `gorm:"-" json:"current_value,omitempty"`
	RecordedAt   *time.Time `gorm:"-" json:"recorded_at,omitempty"`
}

// TableName specifies the table name for Metric
func (Metric) TableName() string {
	return "metrics"
}

// AttachLatest sets the derived current value from the most recent recording
func (m *Metric) AttachLatest(v *MetricValue) {
	if v == nil {
		m.CurrentValue = nil
		m.RecordedAt = nil
		return
	}
	value := v.Value
	recorded := v.RecordedAt
	m.CurrentValue = &value
	m.RecordedAt = &recorded
}

// BelowGoal reports whether the current value is strictly under the goal.
// A metric without a goal or without a value is never below goal.
func (m *Metric) BelowGoal() bool {
	return IsBelowGoal(m.CurrentValue, m.Goal)
}

// IsBelowGoal compares a value to a goal, excluding either being unset
func IsBelowGoal(value, goal *float64) bool {
	if value == nil || goal == nil {
		return false
	}
	return *value < *goal
}

// Snapshot captures the metric for a meeting's scorecard_snapshot
func (m *Metric) Snapshot() MetricSnapshot {
	return MetricSnapshot{
		ID:           m.ID,
		Name:         m.Name,
		Goal:         m.Goal,
		Unit:         m.Unit,
		OwnerID:      m.OwnerID,
		OwnerName:    m.Owner.DisplayName(),
		CurrentValue: m.CurrentValue,
		RecordedAt:   m.RecordedAt,
	}
}

// MetricValue is a single recorded data point for a metric
type MetricValue struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MetricID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"metric_id"`
	Value      float64    `gorm:"not null" json:"value"`
	RecordedAt time.Time  `gorm:"not null;index" json:"recorded_at"`
	RecordedBy *uuid.UUID `gorm:"type:uuid" json:"recorded_by,omitempty"`
	Note       *string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for MetricValue
func (MetricValue) TableName() string {
	return "metric_values"
}
