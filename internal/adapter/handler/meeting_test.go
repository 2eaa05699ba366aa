package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/l10-platform/internal/usecase/errors"
	meetingUsecase "github.com/johnquangdev/l10-platform/internal/usecase/meeting"
)

type fakeMeetings struct {
	meetingUsecase.Service
	meeting  *entities.L10Meeting
	err      error
	endInput meetingUsecase.EndInput
	resolved meetingUsecase.ResolveIssueInput
}

func (f *fakeMeetings) Get(context.Context, uuid.UUID, uuid.UUID) (*entities.L10Meeting, error) {
	return f.meeting, f.err
}

func (f *fakeMeetings) Start(_ context.Context, orgID, id uuid.UUID) (*entities.L10Meeting, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.meeting.ID = id
	f.meeting.Status = entities.MeetingStatusInProgress
	return f.meeting, nil
}

func (f *fakeMeetings) End(_ context.Context, input meetingUsecase.EndInput) (*entities.L10Meeting, error) {
	f.endInput = input
	if f.err != nil {
		return nil, f.err
	}
	minutes := 47
	f.meeting.Status = entities.MeetingStatusCompleted
	f.meeting.DurationMinutes = &minutes
	return f.meeting, nil
}

func (f *fakeMeetings) ResolveIssue(_ context.Context, input meetingUsecase.ResolveIssueInput) (*meetingUsecase.ResolveIssueOutput, error) {
	f.resolved = input
	outcome := input.Outcome
	return &meetingUsecase.ResolveIssueOutput{
		Issue: &entities.Issue{ID: input.IssueID, Status: entities.IssueStatusResolved, Outcome: &outcome},
	}, nil
}

func meetingPath(id uuid.UUID, suffix string) string {
	return "/api/l10/" + id.String() + suffix
}

func TestStart_RejectsNonScheduledMeeting(t *testing.T) {
	meetings := &fakeMeetings{err: &usecaseErrors.StateError{Action: "start", Status: string(entities.MeetingStatusInProgress)}}
	e := newTestServer(newProfile(entities.AccessMember), services{meetings: meetings})

	rec := do(e, http.MethodPost, meetingPath(uuid.New(), "/start"), "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Cannot start meeting with status: in_progress", body.Error)
	assert.Equal(t, "MEETING_INVALID_STATE", body.Code)
	assert.Equal(t, "in_progress", body.Details["current_status"])
}

func TestStart_Succeeds(t *testing.T) {
	meetings := &fakeMeetings{meeting: &entities.L10Meeting{Title: "Weekly L10", Status: entities.MeetingStatusScheduled}}
	e := newTestServer(newProfile(entities.AccessMember), services{meetings: meetings})
	id := uuid.New()

	rec := do(e, http.MethodPost, meetingPath(id, "/start"), "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got entities.L10Meeting
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, id, got.ID)
	assert.Equal(t, entities.MeetingStatusInProgress, got.Status)
}

func TestStart_ViewerIsForbidden(t *testing.T) {
	e := newTestServer(newProfile(entities.AccessViewer), services{meetings: &fakeMeetings{}})

	rec := do(e, http.MethodPost, meetingPath(uuid.New(), "/start"), "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "FORBIDDEN", body.Code)
	assert.Equal(t, "viewer", body.Details["access_level"])
}

func TestEnd_PassesRatingsAndMessages(t *testing.T) {
	meetings := &fakeMeetings{meeting: &entities.L10Meeting{Status: entities.MeetingStatusInProgress}}
	e := newTestServer(newProfile(entities.AccessMember), services{meetings: meetings})
	a, b := uuid.New().String(), uuid.New().String()

	rec := do(e, http.MethodPost, meetingPath(uuid.New(), "/end"),
		fmt.Sprintf(`{"ratings":{%q:8,%q:9},"cascading_messages":"Hiring freeze lifted"}`, a, b))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]int{a: 8, b: 9}, meetings.endInput.Ratings)
	require.NotNil(t, meetings.endInput.CascadingMessages)
	assert.Equal(t, "Hiring freeze lifted", *meetings.endInput.CascadingMessages)
	assert.Contains(t, rec.Body.String(), `"duration_minutes":47`)
}

func TestEnd_WithoutBody(t *testing.T) {
	meetings := &fakeMeetings{meeting: &entities.L10Meeting{Status: entities.MeetingStatusInProgress}}
	e := newTestServer(newProfile(entities.AccessMember), services{meetings: meetings})

	rec := do(e, http.MethodPost, meetingPath(uuid.New(), "/end"), "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, meetings.endInput.Ratings)
}

func TestEnd_ValidatesRatings(t *testing.T) {
	tests := map[string]string{
		"out of range": fmt.Sprintf(`{"ratings":{%q:11}}`, uuid.New()),
		"bad key":      `{"ratings":{"ada":7}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			meetings := &fakeMeetings{}
			e := newTestServer(newProfile(entities.AccessMember), services{meetings: meetings})

			rec := do(e, http.MethodPost, meetingPath(uuid.New(), "/end"), body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "INVALID_ARGUMENT", decodeError(t, rec).Code)
			assert.Nil(t, meetings.endInput.Ratings)
		})
	}
}

func TestResolveIssue_TodoCreated(t *testing.T) {
	meetings := &fakeMeetings{}
	e := newTestServer(newProfile(entities.AccessMember), services{meetings: meetings})
	owner := uuid.New()
	issueID := uuid.New()

	rec := do(e, http.MethodPost, meetingPath(uuid.New(), "/issues/"+issueID.String()+"/resolve"),
		fmt.Sprintf(`{"outcome":"todo_created","todo_title":"Fix X","todo_owner_id":%q,"todo_due_date":"2026-05-21T00:00:00Z"}`, owner))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, entities.OutcomeTodoCreated, meetings.resolved.Outcome)
	assert.Equal(t, issueID, meetings.resolved.IssueID)
	assert.Equal(t, "Fix X", *meetings.resolved.TodoTitle)
	assert.Equal(t, owner, *meetings.resolved.TodoOwnerID)
	assert.True(t, meetings.resolved.TodoDueDate.Equal(time.Date(2026, 5, 21, 0, 0, 0, 0, time.UTC)))
	assert.Contains(t, rec.Body.String(), `"next_issue_id":null`)
}

func TestResolveIssue_UnknownOutcome(t *testing.T) {
	e := newTestServer(newProfile(entities.AccessMember), services{meetings: &fakeMeetings{}})

	rec := do(e, http.MethodPost, meetingPath(uuid.New(), "/issues/"+uuid.NewString()+"/resolve"), `{"outcome":"deferred"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "issue_outcome", decodeError(t, rec).Details["outcome"])
}

func TestGet_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"not found", usecaseErrors.ErrMeetingNotFound, http.StatusNotFound, "MEETING_NOT_FOUND", "Meeting not found"},
		{"store failure", fmt.Errorf("failed to get meeting: %w", fmt.Errorf("pq: password authentication failed")),
			http.StatusInternalServerError, "INTERNAL", "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(newProfile(entities.AccessViewer), services{meetings: &fakeMeetings{err: tt.err}})

			rec := do(e, http.MethodGet, meetingPath(uuid.New(), ""), "")

			require.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.msg, body.Error)
			assert.NotContains(t, rec.Body.String(), "pq:")
		})
	}
}

func TestGet_InvalidID(t *testing.T) {
	e := newTestServer(newProfile(entities.AccessViewer), services{meetings: &fakeMeetings{}})

	rec := do(e, http.MethodGet, "/api/l10/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "id must be a valid UUID", decodeError(t, rec).Error)
}
