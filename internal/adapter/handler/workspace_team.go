package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	workspaceDTO "github.com/johnquangdev/l10-platform/internal/adapter/dto/workspace"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/http/middleware"
	workspaceUsecase "github.com/johnquangdev/l10-platform/internal/usecase/workspace"
)

// remove runs an org-scoped delete on the :id path parameter
func (h *Workspace) remove(c echo.Context, del func(ctx context.Context, orgID, id uuid.UUID) error) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := del(c.Request().Context(), middleware.CurrentOrganizationID(c), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusNoContent, nil)
}

// ListPillars handles GET /api/pillars
// @Summary      List pillars
// @Tags         Pillars
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  entities.Pillar
// @Router       /api/pillars [get]
func (h *Workspace) ListPillars(c echo.Context) error {
	pillars, err := h.workspace.ListPillars(c.Request().Context(), middleware.CurrentOrganizationID(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, pillars)
}

// GetPillar handles GET /api/pillars/:id
// @Summary      Get a pillar
// @Tags         Pillars
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Pillar ID"
// @Success      200  {object}  entities.Pillar
// @Failure      404  {object}  common.ErrorResponse
// @Router       /api/pillars/{id} [get]
func (h *Workspace) GetPillar(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	pillar, err := h.workspace.GetPillar(c.Request().Context(), middleware.CurrentOrganizationID(c), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, pillar)
}

// CreatePillar handles POST /api/pillars
// @Summary      Create a pillar
// @Tags         Pillars
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      workspace.PillarRequest  true  "Pillar"
// @Success      201      {object}  entities.Pillar
// @Router       /api/pillars [post]
func (h *Workspace) CreatePillar(c echo.Context) error {
	var req workspaceDTO.PillarRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	name := ""
	if req.Name != nil {
		name = *req.Name
	}
	pillar, err := h.workspace.CreatePillar(c.Request().Context(), workspaceUsecase.PillarInput{
		OrganizationID: middleware.CurrentOrganizationID(c),
		Name:           name,
		Description:    req.Description,
		LeaderID:       req.LeaderID,
		Color:          req.Color,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusCreated, pillar)
}

// UpdatePillar handles PATCH /api/pillars/:id
// @Summary      Update a pillar
// @Tags         Pillars
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true  "Pillar ID"
// @Param        request  body      workspace.PillarRequest  true  "Changes"
// @Success      200      {object}  entities.Pillar
// @Router       /api/pillars/{id} [patch]
func (h *Workspace) UpdatePillar(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req workspaceDTO.PillarRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	pillar, err := h.workspace.UpdatePillar(c.Request().Context(), middleware.CurrentOrganizationID(c), id, workspaceUsecase.PillarPatch{
		Name:        req.Name,
		Description: req.Description,
		LeaderID:    req.LeaderID,
		Color:       req.Color,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, pillar)
}

// DeletePillar handles DELETE /api/pillars/:id
func (h *Workspace) DeletePillar(c echo.Context) error {
	return h.remove(c, h.workspace.DeletePillar)
}

// ListDataSources handles GET /api/data-sources
// @Summary      List data sources
// @Tags         DataSources
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  entities.DataSource
// @Router       /api/data-sources [get]
func (h *Workspace) ListDataSources(c echo.Context) error {
	sources, err := h.workspace.ListDataSources(c.Request().Context(), middleware.CurrentOrganizationID(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, sources)
}

// GetDataSource handles GET /api/data-sources/:id
// @Summary      Get a data source
// @Tags         DataSources
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Data source ID"
// @Success      200  {object}  entities.DataSource
// @Failure      404  {object}  common.ErrorResponse
// @Router       /api/data-sources/{id} [get]
func (h *Workspace) GetDataSource(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	source, err := h.workspace.GetDataSource(c.Request().Context(), middleware.CurrentOrganizationID(c), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, source)
}

// CreateDataSource handles POST /api/data-sources
// @Summary      Register a data source
// @Description  Sources are stored for reference only; nothing syncs from them
// @Tags         DataSources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      workspace.CreateDataSourceRequest  true  "Data source"
// @Success      201      {object}  entities.DataSource
// @Router       /api/data-sources [post]
func (h *Workspace) CreateDataSource(c echo.Context) error {
	var req workspaceDTO.CreateDataSourceRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	source, err := h.workspace.CreateDataSource(c.Request().Context(), workspaceUsecase.DataSourceInput{
		OrganizationID: middleware.CurrentOrganizationID(c),
		Name:           req.Name,
		Kind:           entities.DataSourceKind(req.Kind),
		Config:         req.Config,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusCreated, source)
}

// UpdateDataSource handles PATCH /api/data-sources/:id
// @Summary      Update a data source
// @Tags         DataSources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                             true  "Data source ID"
// @Param        request  body      workspace.UpdateDataSourceRequest  true  "Changes"
// @Success      200      {object}  entities.DataSource
// @Router       /api/data-sources/{id} [patch]
func (h *Workspace) UpdateDataSource(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req workspaceDTO.UpdateDataSourceRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	source, err := h.workspace.UpdateDataSource(c.Request().Context(), middleware.CurrentOrganizationID(c), id, workspaceUsecase.DataSourcePatch{
		Name:     req.Name,
		Config:   req.Config,
		IsActive: req.IsActive,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, source)
}

// DeleteDataSource handles DELETE /api/data-sources/:id
func (h *Workspace) DeleteDataSource(c echo.Context) error {
	return h.remove(c, h.workspace.DeleteDataSource)
}

// ListTeam handles GET /api/team-members
// @Summary      List team members
// @Tags         Team
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  entities.Profile
// @Router       /api/team-members [get]
func (h *Workspace) ListTeam(c echo.Context) error {
	members, err := h.workspace.ListTeam(c.Request().Context(), middleware.CurrentOrganizationID(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, members)
}

// InviteMember handles POST /api/team-members
// @Summary      Invite a team member
// @Description  Creates an unclaimed profile that the invitee claims on first sign-in with the same email
// @Tags         Team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      workspace.InviteMemberRequest  true  "Invitation"
// @Success      201      {object}  entities.Profile
// @Failure      403      {object}  common.ErrorResponse  "Admin access required"
// @Failure      409      {object}  common.ErrorResponse  "Email already belongs to a profile"
// @Router       /api/team-members [post]
func (h *Workspace) InviteMember(c echo.Context) error {
	var req workspaceDTO.InviteMemberRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	profile, err := h.workspace.InviteMember(c.Request().Context(), workspaceUsecase.InviteInput{
		OrganizationID: middleware.CurrentOrganizationID(c),
		Email:          req.Email,
		FullName:       req.FullName,
		Title:          req.Title,
		AccessLevel:    entities.AccessLevel(req.AccessLevel),
		PillarID:       req.PillarID,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusCreated, profile)
}

// UpdateMember handles PATCH /api/team-members/:id
// @Summary      Change a member's role
// @Tags         Team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Profile ID"
// @Param        request  body      workspace.UpdateMemberRequest  true  "Changes"
// @Success      200      {object}  entities.Profile
// @Router       /api/team-members/{id} [patch]
func (h *Workspace) UpdateMember(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req workspaceDTO.UpdateMemberRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	input := workspaceUsecase.MemberUpdateInput{
		OrganizationID: middleware.CurrentOrganizationID(c),
		ActorID:        middleware.CurrentProfile(c).ID,
		ProfileID:      id,
		Title:          req.Title,
		PillarID:       req.PillarID,
	}
	if req.AccessLevel != nil {
		level := entities.AccessLevel(*req.AccessLevel)
		input.AccessLevel = &level
	}

	profile, err := h.workspace.UpdateMember(c.Request().Context(), input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, profile)
}

// DeactivateMember handles DELETE /api/team-members/:id
// @Summary      Deactivate a member
// @Tags         Team
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  entities.Profile
// @Router       /api/team-members/{id} [delete]
func (h *Workspace) DeactivateMember(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	profile, err := h.workspace.DeactivateMember(c.Request().Context(), middleware.CurrentOrganizationID(c), middleware.CurrentProfile(c).ID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, profile)
}

// ListIssues handles GET /api/issues
// @Summary      List issues
// @Tags         Issues
// @Produce      json
// @Security     BearerAuth
// @Param        status      query    string  false  "open or resolved"
// @Param        meeting_id  query    string  false  "Queued to meeting"
// @Param        limit       query    int     false  "Maximum rows"
// @Success      200         {array}  entities.Issue
// @Router       /api/issues [get]
func (h *Workspace) ListIssues(c echo.Context) error {
	var req workspaceDTO.ListIssuesRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	filters := repositories.IssueFilters{
		MeetingID: optionalID(req.MeetingID),
		Limit:     req.Limit,
	}
	if req.Status != "" {
		status := entities.IssueStatus(req.Status)
		filters.Status = &status
	}

	issues, err := h.workspace.ListIssues(c.Request().Context(), middleware.CurrentOrganizationID(c), filters)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, issues)
}

// CreateIssue handles POST /api/issues
// @Summary      Raise an issue
// @Tags         Issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      workspace.CreateIssueRequest  true  "Issue"
// @Success      201      {object}  entities.Issue
// @Router       /api/issues [post]
func (h *Workspace) CreateIssue(c echo.Context) error {
	var req workspaceDTO.CreateIssueRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	issue, err := h.workspace.CreateIssue(c.Request().Context(), workspaceUsecase.IssueInput{
		OrganizationID: middleware.CurrentOrganizationID(c),
		RaisedBy:       middleware.CurrentProfile(c).ID,
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		MeetingID:      req.MeetingID,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusCreated, issue)
}

// QueueIssue handles POST /api/issues/:id/queue
// @Summary      Queue an issue for a meeting's IDS
// @Tags         Issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Issue ID"
// @Param        request  body      workspace.QueueIssueRequest  true  "Meeting"
// @Success      200      {object}  entities.Issue
// @Failure      400      {object}  common.ErrorResponse
// @Router       /api/issues/{id}/queue [post]
func (h *Workspace) QueueIssue(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req workspaceDTO.QueueIssueRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	issue, err := h.workspace.QueueIssue(c.Request().Context(), middleware.CurrentOrganizationID(c), id, req.MeetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, issue)
}

// DeleteIssue handles DELETE /api/issues/:id
func (h *Workspace) DeleteIssue(c echo.Context) error {
	return h.remove(c, h.workspace.DeleteIssue)
}

// ListTodos handles GET /api/todos
// @Summary      List to-dos
// @Tags         Todos
// @Produce      json
// @Security     BearerAuth
// @Param        status      query    string  false  "open, done or pushed"
// @Param        owner_id    query    string  false  "Owner profile ID"
// @Param        meeting_id  query    string  false  "Meeting ID"
// @Param        limit       query    int     false  "Maximum rows"
// @Success      200         {array}  entities.Todo
// @Router       /api/todos [get]
func (h *Workspace) ListTodos(c echo.Context) error {
	var req workspaceDTO.ListTodosRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	filters := repositories.TodoFilters{
		OwnerID:   optionalID(req.OwnerID),
		MeetingID: optionalID(req.MeetingID),
		Limit:     req.Limit,
	}
	if req.Status != "" {
		status := entities.TodoStatus(req.Status)
		filters.Status = &status
	}

	todos, err := h.workspace.ListTodos(c.Request().Context(), middleware.CurrentOrganizationID(c), filters)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, todos)
}

// CreateTodo handles POST /api/todos
// @Summary      Create a to-do
// @Tags         Todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      workspace.CreateTodoRequest  true  "To-do"
// @Success      201      {object}  entities.Todo
// @Router       /api/todos [post]
func (h *Workspace) CreateTodo(c echo.Context) error {
	var req workspaceDTO.CreateTodoRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	todo, err := h.workspace.CreateTodo(c.Request().Context(), workspaceUsecase.TodoInput{
		OrganizationID: middleware.CurrentOrganizationID(c),
		Title:          req.Title,
		OwnerID:        req.OwnerID,
		DueDate:        req.DueDate,
		MeetingID:      req.MeetingID,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusCreated, todo)
}

// UpdateTodo handles PATCH /api/todos/:id
// @Summary      Update a to-do
// @Tags         Todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "To-do ID"
// @Param        request  body      workspace.UpdateTodoRequest  true  "Changes"
// @Success      200      {object}  entities.Todo
// @Router       /api/todos/{id} [patch]
func (h *Workspace) UpdateTodo(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req workspaceDTO.UpdateTodoRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	patch := workspaceUsecase.TodoPatch{
		Title:   req.Title,
		OwnerID: req.OwnerID,
		DueDate: req.DueDate,
	}
	if req.Status != nil {
		status := entities.TodoStatus(*req.Status)
		patch.Status = &status
	}

	todo, err := h.workspace.UpdateTodo(c.Request().Context(), middleware.CurrentOrganizationID(c), id, patch)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, todo)
}

// ListHeadlines handles GET /api/headlines
// @Summary      List headlines
// @Tags         Headlines
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  entities.Headline
// @Router       /api/headlines [get]
func (h *Workspace) ListHeadlines(c echo.Context) error {
	opts, err := h.page(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	headlines, err := h.workspace.ListHeadlines(c.Request().Context(), middleware.CurrentOrganizationID(c), opts)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, headlines)
}

// CreateHeadline handles POST /api/headlines
// @Summary      Share a headline
// @Tags         Headlines
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      workspace.CreateHeadlineRequest  true  "Headline"
// @Success      201      {object}  entities.Headline
// @Router       /api/headlines [post]
func (h *Workspace) CreateHeadline(c echo.Context) error {
	var req workspaceDTO.CreateHeadlineRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	headline, err := h.workspace.CreateHeadline(c.Request().Context(), workspaceUsecase.HeadlineInput{
		OrganizationID: middleware.CurrentOrganizationID(c),
		AuthorID:       middleware.CurrentProfile(c).ID,
		Kind:           entities.HeadlineKind(req.Kind),
		Content:        req.Content,
		MeetingID:      req.MeetingID,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusCreated, headline)
}
