package entities

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MeetingType represents the scope of an L10 meeting
type MeetingType string

const (
	MeetingTypeCompany  MeetingType = "company"
	MeetingTypePillar   MeetingType = "pillar"
	MeetingTypeOneOnOne MeetingType = "one_on_one"
)

// IsValid checks if the meeting type is known
func (t MeetingType) IsValid() bool {
	switch t {
	case MeetingTypeCompany, MeetingTypePillar, MeetingTypeOneOnOne:
		return true
	}
	return false
}

// MeetingStatus represents the lifecycle state of an L10 meeting
type MeetingStatus string

const (
	MeetingStatusScheduled  MeetingStatus = "scheduled"
	MeetingStatusInProgress MeetingStatus = "in_progress"
	MeetingStatusCompleted  MeetingStatus = "completed"
	MeetingStatusCancelled  MeetingStatus = "cancelled"
)

// MetricSnapshot is a scorecard row captured when a meeting starts
type MetricSnapshot struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Goal         *float64   `json:"goal,omitempty"`
	Unit         *string    `json:"unit,omitempty"`
	OwnerID      *uuid.UUID `json:"owner_id,omitempty"`
	OwnerName    string     `json:"owner_name,omitempty"`
	CurrentValue *float64   `json:"current_value,omitempty"`
	RecordedAt   *time.Time `json:"recorded_at,omitempty"`
}

// RockSnapshot is a rock row captured when a meeting starts
type RockSnapshot struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Level     RockLevel  `json:"level"`
	Status    RockStatus `json:"status"`
	OwnerID   *uuid.UUID `json:"owner_id,omitempty"`
	OwnerName string     `json:"owner_name,omitempty"`
}

// Ratings maps attendee profile IDs to their 1-10 meeting rating
type Ratings map[string]int

// Average returns the mean rating rounded to one decimal. ok is false when empty.
func (r Ratings) Average() (avg float64, ok bool) {
	if len(r) == 0 {
		return 0, false
	}
	sum := 0
	for _, v := range r {
		sum += v
	}
	mean := float64(sum) / float64(len(r))
	return math.Round(mean*10) / 10, true
}

// L10Meeting is a Level 10 leadership meeting
type L10Meeting struct {
	ID                uuid.UUID                           `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID    uuid.UUID                           `gorm:"type:uuid;not null;index" json:"organization_id"`
	Title             string                              `gorm:"type:varchar(255);not null" json:"title"`
	MeetingType       MeetingType                         `gorm:"type:varchar(20);not null;default:'company'" json:"meeting_type"`
	PillarID          *uuid.UUID                          `gorm:"type:uuid" json:"pillar_id,omitempty"`
	ScheduledAt       time.Time                           `gorm:"not null;index" json:"scheduled_at"`
	Status            MeetingStatus                       `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	StartedAt         *time.Time                          `json:"started_at,omitempty"`
	EndedAt           *time.Time                          `json:"ended_at,omitempty"`
	DurationMinutes   *int                                `json:"duration_minutes,omitempty"`
	ScorecardSnapshot datatypes.JSONSlice[MetricSnapshot] `gorm:"type:jsonb" json:"scorecard_snapshot,omitempty"`
	RocksSnapshot     datatypes.JSONSlice[RockSnapshot]   `gorm:"type:jsonb" json:"rocks_snapshot,omitempty"`
	Ratings           datatypes.JSONType[Ratings]         `gorm:"type:jsonb" json:"ratings"`
	CascadingMessages *string                             `gorm:"type:text" json:"cascading_messages,omitempty"`
	Notes             *string                             `gorm:"type:text" json:"notes,omitempty"`
	NotesObjectKey    *string                             `gorm:"type:varchar(500)" json:"-"`
	CalendarEventID   *string                             `gorm:"type:varchar(255)" json:"calendar_event_id,omitempty"`
	CreatedBy         uuid.UUID                           `gorm:"type:uuid;not null" json:"created_by"`
	Creator           *Profile                            `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Attendees         []MeetingAttendee                   `gorm:"foreignKey:MeetingID" json:"attendees,omitempty"`
	AgendaItems       []AgendaItem                        `gorm:"foreignKey:MeetingID" json:"agenda_items,omitempty"`
	CreatedAt         time.Time                           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time                           `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for L10Meeting
func (L10Meeting) TableName() string {
	return "l10_meetings"
}

// CanStart reports whether the meeting may transition to in_progress
func (m *L10Meeting) CanStart() bool {
	return m.Status == MeetingStatusScheduled
}

// CanEnd reports whether the meeting may transition to completed
func (m *L10Meeting) CanEnd() bool {
	return m.Status == MeetingStatusInProgress
}

// IsEditable reports whether title and schedule may still change
func (m *L10Meeting) IsEditable() bool {
	return m.Status == MeetingStatusScheduled
}

// DurationUntil returns whole minutes between StartedAt and end, rounded half up
func (m *L10Meeting) DurationUntil(end time.Time) int {
	if m.StartedAt == nil {
		return 0
	}
	return int(math.Round(float64(end.Sub(*m.StartedAt).Milliseconds()) / 60000))
}

// MeetingAttendee links a profile to a meeting
type MeetingAttendee struct {
	MeetingID uuid.UUID `gorm:"type:uuid;primaryKey" json:"meeting_id"`
	ProfileID uuid.UUID `gorm:"type:uuid;primaryKey" json:"profile_id"`
	Profile   *Profile  `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}

// TableName specifies the table name for MeetingAttendee
func (MeetingAttendee) TableName() string {
	return "l10_meeting_attendees"
}

// AgendaSection identifies the part of the L10 agenda an item covers
type AgendaSection string

const (
	SectionSegue     AgendaSection = "segue"
	SectionScorecard AgendaSection = "scorecard"
	SectionRocks     AgendaSection = "rocks"
	SectionHeadlines AgendaSection = "headlines"
	SectionTodos     AgendaSection = "todos"
	SectionIDS       AgendaSection = "ids"
	SectionConclude  AgendaSection = "conclude"
)

// AgendaItem is an ordered step within a meeting
type AgendaItem struct {
	ID              uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MeetingID       uuid.UUID     `gorm:"type:uuid;not null;index" json:"meeting_id"`
	Title           string        `gorm:"type:varchar(255);not null" json:"title"`
	Section         AgendaSection `gorm:"type:varchar(20);not null" json:"section"`
	DurationMinutes int           `gorm:"not null;default:5" json:"duration_minutes"`
	SortOrder       int           `gorm:"not null" json:"sort_order"`
	StartedAt       *time.Time    `json:"started_at,omitempty"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
}

// TableName specifies the table name for AgendaItem
func (AgendaItem) TableName() string {
	return "l10_agenda_items"
}

// DefaultAgenda returns the standard seven-section L10 agenda for a meeting
func DefaultAgenda(meetingID uuid.UUID) []AgendaItem {
	items := []struct {
		title    string
		section  AgendaSection
		duration int
	}{
		{"Segue", SectionSegue, 5},
		{"Scorecard", SectionScorecard, 5},
		{"Rock Review", SectionRocks, 5},
		{"Customer & Employee Headlines", SectionHeadlines, 5},
		{"To-Do List", SectionTodos, 5},
		{"IDS", SectionIDS, 60},
		{"Conclude", SectionConclude, 5},
	}

	agenda := make([]AgendaItem, len(items))
	for i, it := range items {
		agenda[i] = AgendaItem{
			ID:              uuid.New(),
			MeetingID:       meetingID,
			Title:           it.title,
			Section:         it.section,
			DurationMinutes: it.duration,
			SortOrder:       i,
		}
	}
	return agenda
}
