package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	meetingDTO "github.com/johnquangdev/l10-platform/internal/adapter/dto/meeting"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/http/middleware"
	meetingUsecase "github.com/johnquangdev/l10-platform/internal/usecase/meeting"
)

// Meeting handles L10 meeting HTTP requests
type Meeting struct {
	meetings meetingUsecase.Service
	logger   *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(meetings meetingUsecase.Service, logger *zap.Logger) *Meeting {
	return &Meeting{
		meetings: meetings,
		logger:   logger,
	}
}

// List handles GET /api/l10
// @Summary      List meetings
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "scheduled, in_progress, completed or cancelled"
// @Param        type    query     string  false  "company, pillar or one_on_one"
// @Param        limit   query     int     false  "Maximum rows (default 50)"
// @Success      200     {object}  meeting.MeetingListResponse
// @Failure      400     {object}  common.ErrorResponse
// @Failure      401     {object}  common.ErrorResponse
// @Router       /api/l10 [get]
func (h *Meeting) List(c echo.Context) error {
	var req meetingDTO.ListMeetingsRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	filters := repositories.MeetingFilters{Limit: req.Limit}
	if req.Status != "" {
		status := entities.MeetingStatus(req.Status)
		filters.Status = &status
	}
	if req.Type != "" {
		meetingType := entities.MeetingType(req.Type)
		filters.Type = &meetingType
	}

	meetings, err := h.meetings.List(c.Request().Context(), middleware.CurrentOrganizationID(c), filters)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, meetingDTO.MeetingListResponse{Meetings: meetings})
}

// Create handles POST /api/l10
// @Summary      Schedule a meeting
// @Description  Creates a meeting with the standard seven-section agenda and pushes it to the creator's calendar when connected
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      meeting.CreateMeetingRequest  true  "Meeting"
// @Success      201      {object}  entities.L10Meeting
// @Failure      400      {object}  common.ErrorResponse
// @Failure      403      {object}  common.ErrorResponse
// @Router       /api/l10 [post]
func (h *Meeting) Create(c echo.Context) error {
	var req meetingDTO.CreateMeetingRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	m, err := h.meetings.Create(c.Request().Context(), meetingUsecase.CreateInput{
		OrganizationID: middleware.CurrentOrganizationID(c),
		CreatedBy:      middleware.CurrentProfile(c).ID,
		Title:          req.Title,
		MeetingType:    entities.MeetingType(req.MeetingType),
		PillarID:       req.PillarID,
		ScheduledAt:    req.ScheduledAt,
		AttendeeIDs:    req.AttendeeIDs,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusCreated, m)
}

// Get handles GET /api/l10/:id
// @Summary      Get a meeting
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID"
// @Success      200  {object}  entities.L10Meeting
// @Failure      404  {object}  common.ErrorResponse
// @Router       /api/l10/{id} [get]
func (h *Meeting) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	m, err := h.meetings.Get(c.Request().Context(), middleware.CurrentOrganizationID(c), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, m)
}

// Update handles PATCH /api/l10/:id
// @Summary      Reschedule or rename a meeting
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Meeting ID"
// @Param        request  body      meeting.UpdateMeetingRequest  true  "Changes"
// @Success      200      {object}  entities.L10Meeting
// @Failure      400      {object}  common.ErrorResponse
// @Failure      404      {object}  common.ErrorResponse
// @Router       /api/l10/{id} [patch]
func (h *Meeting) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req meetingDTO.UpdateMeetingRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	m, err := h.meetings.Update(c.Request().Context(), meetingUsecase.UpdateInput{
		OrganizationID: middleware.CurrentOrganizationID(c),
		MeetingID:      id,
		Title:          req.Title,
		ScheduledAt:    req.ScheduledAt,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, m)
}

// Cancel handles POST /api/l10/:id/cancel
// @Summary      Cancel a scheduled meeting
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID"
// @Success      200  {object}  entities.L10Meeting
// @Failure      400  {object}  common.ErrorResponse
// @Router       /api/l10/{id}/cancel [post]
func (h *Meeting) Cancel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	m, err := h.meetings.Cancel(c.Request().Context(), middleware.CurrentOrganizationID(c), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, m)
}

// Delete handles DELETE /api/l10/:id
// @Summary      Delete a meeting
// @Tags         Meetings
// @Security     BearerAuth
// @Param        id   path  string  true  "Meeting ID"
// @Success      204
// @Failure      400  {object}  common.ErrorResponse
// @Failure      403  {object}  common.ErrorResponse
// @Router       /api/l10/{id} [delete]
func (h *Meeting) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.meetings.Delete(c.Request().Context(), middleware.CurrentOrganizationID(c), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusNoContent, nil)
}

// Start handles POST /api/l10/:id/start
// @Summary      Start a meeting
// @Description  Snapshots the scorecard and active rocks and moves the meeting to in_progress
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID"
// @Success      200  {object}  entities.L10Meeting
// @Failure      400  {object}  common.ErrorResponse  "Meeting is not scheduled"
// @Failure      404  {object}  common.ErrorResponse
// @Router       /api/l10/{id}/start [post]
func (h *Meeting) Start(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	m, err := h.meetings.Start(c.Request().Context(), middleware.CurrentOrganizationID(c), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, m)
}

// End handles POST /api/l10/:id/end
// @Summary      End a meeting
// @Description  Completes an in-progress meeting, stores ratings and cascading messages and generates the notes
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true   "Meeting ID"
// @Param        request  body      meeting.EndMeetingRequest  false  "Conclude inputs"
// @Success      200      {object}  entities.L10Meeting
// @Failure      400      {object}  common.ErrorResponse  "Meeting is not in progress"
// @Failure      404      {object}  common.ErrorResponse
// @Router       /api/l10/{id}/end [post]
func (h *Meeting) End(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req meetingDTO.EndMeetingRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	m, err := h.meetings.End(c.Request().Context(), meetingUsecase.EndInput{
		OrganizationID:    middleware.CurrentOrganizationID(c),
		MeetingID:         id,
		Ratings:           req.Ratings,
		CascadingMessages: req.CascadingMessages,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, m)
}

// Preview handles GET /api/l10/:id/preview
// @Summary      Pre-meeting prep
// @Description  Queued issues, rocks at risk, metrics below goal and overdue to-dos
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID"
// @Success      200  {object}  meeting.Preview
// @Failure      404  {object}  common.ErrorResponse
// @Router       /api/l10/{id}/preview [get]
func (h *Meeting) Preview(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	preview, err := h.meetings.Preview(c.Request().Context(), middleware.CurrentOrganizationID(c), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, preview)
}

// CompleteAgendaItem handles POST /api/l10/:id/agenda/:itemId/complete
// @Summary      Complete an agenda item
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "Meeting ID"
// @Param        itemId  path      string  true  "Agenda item ID"
// @Success      200     {object}  meeting.AgendaResponse
// @Failure      400     {object}  common.ErrorResponse
// @Failure      404     {object}  common.ErrorResponse
// @Router       /api/l10/{id}/agenda/{itemId}/complete [post]
func (h *Meeting) CompleteAgendaItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	items, err := h.meetings.CompleteAgendaItem(c.Request().Context(), middleware.CurrentOrganizationID(c), id, itemID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, meetingDTO.AgendaResponse{AgendaItems: items})
}

// ResolveIssue handles POST /api/l10/:id/issues/:issueId/resolve
// @Summary      Resolve an issue (IDS)
// @Description  Records solved, todo_created, pushed or killed and returns the next issue to discuss
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Meeting ID"
// @Param        issueId  path      string                       true  "Issue ID"
// @Param        request  body      meeting.ResolveIssueRequest  true  "Outcome"
// @Success      200      {object}  meeting.ResolveIssueOutput
// @Failure      400      {object}  common.ErrorResponse
// @Failure      404      {object}  common.ErrorResponse
// @Router       /api/l10/{id}/issues/{issueId}/resolve [post]
func (h *Meeting) ResolveIssue(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	issueID, err := pathID(c, "issueId")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req meetingDTO.ResolveIssueRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	out, err := h.meetings.ResolveIssue(c.Request().Context(), meetingUsecase.ResolveIssueInput{
		OrganizationID: middleware.CurrentOrganizationID(c),
		MeetingID:      id,
		IssueID:        issueID,
		Outcome:        entities.IssueOutcome(req.Outcome),
		DecisionNotes:  req.DecisionNotes,
		TodoTitle:      req.TodoTitle,
		TodoOwnerID:    req.TodoOwnerID,
		TodoDueDate:    req.TodoDueDate,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, out)
}

// Notes handles GET /api/l10/:id/notes
// @Summary      Meeting notes
// @Description  Markdown notes of a completed meeting and, when archived, a presigned download URL
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID"
// @Success      200  {object}  meeting.Notes
// @Failure      404  {object}  common.ErrorResponse
// @Router       /api/l10/{id}/notes [get]
func (h *Meeting) Notes(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	notes, err := h.meetings.Notes(c.Request().Context(), middleware.CurrentOrganizationID(c), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, notes)
}
