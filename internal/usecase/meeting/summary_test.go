package meeting

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
)

func ptr[T any](v T) *T { return &v }

func TestBuildSummary(t *testing.T) {
	alice := &entities.Profile{ID: uuid.New(), FullName: "Alice Nguyen"}
	bob := &entities.Profile{ID: uuid.New(), FullName: "Bob Tran"}
	ended := time.Date(2026, 3, 2, 10, 47, 0, 0, time.UTC)

	rockID := uuid.New()
	metricID := uuid.New()
	meeting := &entities.L10Meeting{
		Title: "Weekly Leadership L10",
		Attendees: []entities.MeetingAttendee{
			{ProfileID: alice.ID, Profile: alice},
			{ProfileID: bob.ID, Profile: bob},
		},
		RocksSnapshot: []entities.RockSnapshot{
			{ID: rockID, Title: "Launch v2", Status: entities.RockStatusOnTrack, OwnerName: "Bob Tran"},
		},
		ScorecardSnapshot: []entities.MetricSnapshot{
			{ID: metricID, Name: "Revenue", Goal: ptr(50000.0), Unit: ptr("$"), OwnerName: "Alice Nguyen", CurrentValue: ptr(52000.0)},
		},
	}

	solved := entities.OutcomeSolved
	pushed := entities.OutcomePushed
	todo := &entities.Todo{Title: "Call the vendor", Owner: bob, DueDate: ptr(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))}

	out := BuildSummary(SummaryInput{
		Meeting:  meeting,
		EndedAt:  ended,
		Duration: 47,
		Ratings:  entities.Ratings{alice.ID.String(): 8, bob.ID.String(): 9},
		Issues: []*entities.Issue{
			{Title: "Vendor late", Outcome: ptr(entities.OutcomeTodoCreated), LinkedTodo: todo},
			{Title: "Hiring", Outcome: &solved, DecisionNotes: ptr("Use the agency")},
			{Title: "Office move", Outcome: &pushed},
			{Title: "Legacy data"},
		},
		Todos: []*entities.Todo{
			{Title: "Ship invoice", Status: entities.TodoStatusDone, Owner: alice},
			{Title: "Write plan", Status: entities.TodoStatusOpen},
		},
		Headlines: []*entities.Headline{
			{Kind: entities.HeadlineEmployee, Content: "New hire starts", Author: alice, CreatedAt: ended.Add(-time.Hour)},
			{Kind: entities.HeadlineCustomer, Content: "Big renewal", Author: bob, CreatedAt: ended.Add(-time.Minute)},
		},
		CurrentRocks:  map[uuid.UUID]*entities.Rock{rockID: {ID: rockID, Status: entities.RockStatusOffTrack}},
		CurrentValues: map[uuid.UUID]*entities.MetricValue{metricID: {Value: 41000}},
		Messages:      ptr("Office closed Friday"),
	})

	assert.True(t, strings.HasPrefix(out, "# Weekly Leadership L10\n"))
	assert.Contains(t, out, "**Date:** Monday, March 2, 2026")
	assert.Contains(t, out, "**Duration:** 47 minutes")
	assert.Contains(t, out, "- Alice Nguyen (8/10)")
	assert.Contains(t, out, "**Team Average: 8.5/10**")

	assert.Contains(t, out, "## Issues Discussed (4)")
	assert.Contains(t, out, "- **Hiring**: Use the agency")
	assert.Contains(t, out, "  - To-Do: Call the vendor (Bob Tran, due Mar 9)")
	// missing outcome is listed as pushed
	assert.Contains(t, out, "### Pushed (2)")
	assert.Less(t, strings.Index(out, "### Solved"), strings.Index(out, "### To-Do Created"))

	assert.Contains(t, out, "- [x] Ship invoice (Alice Nguyen)")
	assert.Contains(t, out, "- [ ] Write plan (Unassigned)")

	assert.Less(t, strings.Index(out, "Big renewal"), strings.Index(out, "New hire starts"))
	assert.Contains(t, out, "- **Customer:** Big renewal (Bob Tran)")

	assert.Contains(t, out, "- Launch v2 (Bob Tran): Off track (was On track at start)")
	assert.Contains(t, out, "- Revenue (Alice Nguyen): $41000 vs goal $50000 (was $52000 at start)")
	assert.True(t, strings.HasSuffix(out, "## Cascading Messages\n\nOffice closed Friday\n"))
}

func TestBuildSummary_EmptyMeeting(t *testing.T) {
	out := BuildSummary(SummaryInput{
		Meeting: &entities.L10Meeting{Title: "Quiet week"},
		EndedAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})

	assert.Contains(t, out, "_No attendees recorded._")
	assert.Contains(t, out, "## Issues Discussed (0)")
	assert.Contains(t, out, "_No issues were discussed._")
	assert.NotContains(t, out, "Team Average")
	assert.NotContains(t, out, "## Headlines")
	assert.NotContains(t, out, "Needing Attention")
	assert.NotContains(t, out, "Cascading Messages")
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "12.5", FormatValue(12.5, nil))
	assert.Equal(t, "$100", FormatValue(100, ptr("$")))
	assert.Equal(t, "45%", FormatValue(45, ptr("%")))
	assert.Equal(t, "3 calls", FormatValue(3, ptr("calls")))
}
