package meeting

import (
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
)

// AgendaResponse is the agenda after an item was completed
type AgendaResponse struct {
	AgendaItems []*entities.AgendaItem `json:"agenda_items"`
}

// MeetingListResponse wraps a meeting list
type MeetingListResponse struct {
	Meetings []*entities.L10Meeting `json:"meetings"`
}
