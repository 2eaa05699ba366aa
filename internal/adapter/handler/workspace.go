package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/l10-platform/errors"
	workspaceDTO "github.com/johnquangdev/l10-platform/internal/adapter/dto/workspace"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/http/middleware"
	workspaceUsecase "github.com/johnquangdev/l10-platform/internal/usecase/workspace"
)

// Workspace handles the organization's goals, rocks, scorecard, team and tracker records
type Workspace struct {
	workspace workspaceUsecase.Service
	logger    *zap.Logger
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(workspace workspaceUsecase.Service, logger *zap.Logger) *Workspace {
	return &Workspace{
		workspace: workspace,
		logger:    logger,
	}
}

func (h *Workspace) page(c echo.Context) (repositories.ListOptions, error) {
	var req workspaceDTO.PageRequest
	if err := bind(c, &req); err != nil {
		return repositories.ListOptions{}, err
	}
	return repositories.ListOptions{Limit: req.Limit, Offset: req.Offset}, nil
}

// ListGoals handles GET /api/goals
// @Summary      List goals
// @Tags         Goals
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size"
// @Param        offset  query     int  false  "Offset"
// @Success      200     {array}   entities.Goal
// @Router       /api/goals [get]
func (h *Workspace) ListGoals(c echo.Context) error {
	opts, err := h.page(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	goals, err := h.workspace.ListGoals(c.Request().Context(), middleware.CurrentOrganizationID(c), opts)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, goals)
}

// GetGoal handles GET /api/goals/:id
// @Summary      Get a goal
// @Tags         Goals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Goal ID"
// @Success      200  {object}  entities.Goal
// @Failure      404  {object}  common.ErrorResponse
// @Router       /api/goals/{id} [get]
func (h *Workspace) GetGoal(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	goal, err := h.workspace.GetGoal(c.Request().Context(), middleware.CurrentOrganizationID(c), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, goal)
}

// CreateGoal handles POST /api/goals
// @Summary      Create a goal
// @Tags         Goals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      workspace.CreateGoalRequest  true  "Goal"
// @Success      201      {object}  entities.Goal
// @Failure      400      {object}  common.ErrorResponse
// @Failure      403      {object}  common.ErrorResponse
// @Router       /api/goals [post]
func (h *Workspace) CreateGoal(c echo.Context) error {
	var req workspaceDTO.CreateGoalRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	goal, err := h.workspace.CreateGoal(c.Request().Context(), workspaceUsecase.GoalInput{
		OrganizationID: middleware.CurrentOrganizationID(c),
		Title:          req.Title,
		Description:    req.Description,
		OwnerID:        req.OwnerID,
		TargetValue:    req.TargetValue,
		CurrentValue:   req.CurrentValue,
		Unit:           req.Unit,
		DueDate:        req.DueDate,
		Year:           req.Year,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusCreated, goal)
}

// UpdateGoal handles PATCH /api/goals/:id
// @Summary      Update a goal
// @Tags         Goals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Goal ID"
// @Param        request  body      workspace.UpdateGoalRequest  true  "Changes"
// @Success      200      {object}  entities.Goal
// @Failure      400      {object}  common.ErrorResponse
// @Failure      404      {object}  common.ErrorResponse
// @Router       /api/goals/{id} [patch]
func (h *Workspace) UpdateGoal(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req workspaceDTO.UpdateGoalRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	patch := workspaceUsecase.GoalPatch{
		Title:        req.Title,
		Description:  req.Description,
		OwnerID:      req.OwnerID,
		TargetValue:  req.TargetValue,
		CurrentValue: req.CurrentValue,
		Unit:         req.Unit,
		DueDate:      req.DueDate,
		Year:         req.Year,
	}
	if req.Status != nil {
		status := entities.GoalStatus(*req.Status)
		patch.Status = &status
	}

	goal, err := h.workspace.UpdateGoal(c.Request().Context(), middleware.CurrentOrganizationID(c), id, patch)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, goal)
}

// DeleteGoal handles DELETE /api/goals/:id
// @Summary      Delete a goal
// @Tags         Goals
// @Security     BearerAuth
// @Param        id   path  string  true  "Goal ID"
// @Success      204
// @Failure      403  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /api/goals/{id} [delete]
func (h *Workspace) DeleteGoal(c echo.Context) error {
	return h.remove(c, h.workspace.DeleteGoal)
}

// ListRocks handles GET /api/rocks
// @Summary      List rocks
// @Tags         Rocks
// @Produce      json
// @Security     BearerAuth
// @Param        status            query     string  false  "on_track, at_risk, off_track or complete"
// @Param        level             query     string  false  "company, pillar or individual"
// @Param        owner_id          query     string  false  "Owner profile ID"
// @Param        pillar_id         query     string  false  "Pillar ID"
// @Param        quarter           query     string  false  "e.g. 2026-Q2"
// @Param        include_archived  query     bool    false  "Include archived rocks"
// @Success      200               {array}   entities.Rock
// @Router       /api/rocks [get]
func (h *Workspace) ListRocks(c echo.Context) error {
	var req workspaceDTO.ListRocksRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	filters := repositories.RockFilters{
		OwnerID:         optionalID(req.OwnerID),
		PillarID:        optionalID(req.PillarID),
		Quarter:         req.Quarter,
		IncludeArchived: req.IncludeArchived,
	}
	if req.Status != "" {
		filters.Statuses = []entities.RockStatus{entities.RockStatus(req.Status)}
	}
	if req.Level != "" {
		level := entities.RockLevel(req.Level)
		filters.Level = &level
	}

	rocks, err := h.workspace.ListRocks(c.Request().Context(), middleware.CurrentOrganizationID(c), filters)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, rocks)
}

// GetRock handles GET /api/rocks/:id
// @Summary      Get a rock
// @Tags         Rocks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Rock ID"
// @Success      200  {object}  entities.Rock
// @Failure      404  {object}  common.ErrorResponse
// @Router       /api/rocks/{id} [get]
func (h *Workspace) GetRock(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	rock, err := h.workspace.GetRock(c.Request().Context(), middleware.CurrentOrganizationID(c), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, rock)
}

// CreateRock handles POST /api/rocks
// @Summary      Create a rock
// @Description  A parent rock must belong to a strictly higher level (company > pillar > individual)
// @Tags         Rocks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      workspace.CreateRockRequest  true  "Rock"
// @Success      201      {object}  entities.Rock
// @Failure      400      {object}  common.ErrorResponse
// @Router       /api/rocks [post]
func (h *Workspace) CreateRock(c echo.Context) error {
	var req workspaceDTO.CreateRockRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	rock, err := h.workspace.CreateRock(c.Request().Context(), workspaceUsecase.RockInput{
		OrganizationID: middleware.CurrentOrganizationID(c),
		Title:          req.Title,
		Description:    req.Description,
		Level:          entities.RockLevel(req.Level),
		Status:         entities.RockStatus(req.Status),
		OwnerID:        req.OwnerID,
		PillarID:       req.PillarID,
		ParentID:       req.ParentID,
		Quarter:        req.Quarter,
		DueDate:        req.DueDate,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusCreated, rock)
}

// UpdateRock handles PATCH /api/rocks/:id
// @Summary      Update a rock
// @Tags         Rocks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Rock ID"
// @Param        request  body      workspace.UpdateRockRequest  true  "Changes"
// @Success      200      {object}  entities.Rock
// @Failure      400      {object}  common.ErrorResponse
// @Failure      404      {object}  common.ErrorResponse
// @Router       /api/rocks/{id} [patch]
func (h *Workspace) UpdateRock(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req workspaceDTO.UpdateRockRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	patch := workspaceUsecase.RockPatch{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     req.OwnerID,
		PillarID:    req.PillarID,
		ParentID:    req.ParentID,
		Quarter:     req.Quarter,
		DueDate:     req.DueDate,
		Progress:    req.Progress,
		IsArchived:  req.IsArchived,
	}
	if req.Level != nil {
		level := entities.RockLevel(*req.Level)
		patch.Level = &level
	}
	if req.Status != nil {
		status := entities.RockStatus(*req.Status)
		patch.Status = &status
	}

	rock, err := h.workspace.UpdateRock(c.Request().Context(), middleware.CurrentOrganizationID(c), id, patch)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, rock)
}

// DeleteRock handles DELETE /api/rocks/:id
// @Summary      Delete a rock
// @Tags         Rocks
// @Security     BearerAuth
// @Param        id   path  string  true  "Rock ID"
// @Success      204
// @Router       /api/rocks/{id} [delete]
func (h *Workspace) DeleteRock(c echo.Context) error {
	return h.remove(c, h.workspace.DeleteRock)
}

// PostRockUpdate handles POST /api/rocks/:id/updates
// @Summary      Post a rock status update
// @Tags         Rocks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Rock ID"
// @Param        request  body      workspace.RockUpdateRequest  true  "Update"
// @Success      201      {object}  entities.RockUpdate
// @Router       /api/rocks/{id}/updates [post]
func (h *Workspace) PostRockUpdate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req workspaceDTO.RockUpdateRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	update, err := h.workspace.PostRockUpdate(c.Request().Context(), workspaceUsecase.RockUpdateInput{
		OrganizationID: middleware.CurrentOrganizationID(c),
		RockID:         id,
		AuthorID:       middleware.CurrentProfile(c).ID,
		Status:         entities.RockStatus(req.Status),
		Content:        req.Content,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusCreated, update)
}

// ListMetrics handles GET /api/metrics
// @Summary      List scorecard metrics
// @Description  Each metric carries its latest value and a derived below_goal flag
// @Tags         Metrics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  workspace.MetricView
// @Router       /api/metrics [get]
func (h *Workspace) ListMetrics(c echo.Context) error {
	opts, err := h.page(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	list, err := h.workspace.ListMetrics(c.Request().Context(), middleware.CurrentOrganizationID(c), opts)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, list)
}

// GetMetric handles GET /api/metrics/:id
// @Summary      Get a metric
// @Tags         Metrics
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Metric ID"
// @Success      200  {object}  workspace.MetricView
// @Router       /api/metrics/{id} [get]
func (h *Workspace) GetMetric(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	m, err := h.workspace.GetMetric(c.Request().Context(), middleware.CurrentOrganizationID(c), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, m)
}

// CreateMetric handles POST /api/metrics
// @Summary      Create a metric
// @Tags         Metrics
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      workspace.CreateMetricRequest  true  "Metric"
// @Success      201      {object}  entities.Metric
// @Router       /api/metrics [post]
func (h *Workspace) CreateMetric(c echo.Context) error {
	var req workspaceDTO.CreateMetricRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	m, err := h.workspace.CreateMetric(c.Request().Context(), workspaceUsecase.MetricInput{
		OrganizationID: middleware.CurrentOrganizationID(c),
		Name:           req.Name,
		Description:    req.Description,
		OwnerID:        req.OwnerID,
		Goal:           req.Goal,
		Unit:           req.Unit,
		Frequency:      entities.MetricFrequency(req.Frequency),
		DataSourceID:   req.DataSourceID,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusCreated, m)
}

// UpdateMetric handles PATCH /api/metrics/:id
// @Summary      Update a metric
// @Tags         Metrics
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Metric ID"
// @Param        request  body      workspace.UpdateMetricRequest  true  "Changes"
// @Success      200      {object}  entities.Metric
// @Router       /api/metrics/{id} [patch]
func (h *Workspace) UpdateMetric(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req workspaceDTO.UpdateMetricRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	patch := workspaceUsecase.MetricPatch{
		Name:         req.Name,
		Description:  req.Description,
		OwnerID:      req.OwnerID,
		Goal:         req.Goal,
		ClearGoal:    req.ClearGoal,
		Unit:         req.Unit,
		IsActive:     req.IsActive,
		DataSourceID: req.DataSourceID,
	}
	if req.Frequency != nil {
		freq := entities.MetricFrequency(*req.Frequency)
		patch.Frequency = &freq
	}

	m, err := h.workspace.UpdateMetric(c.Request().Context(), middleware.CurrentOrganizationID(c), id, patch)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, m)
}

// DeleteMetric handles DELETE /api/metrics/:id
// @Summary      Delete a metric
// @Tags         Metrics
// @Security     BearerAuth
// @Param        id   path  string  true  "Metric ID"
// @Success      204
// @Router       /api/metrics/{id} [delete]
func (h *Workspace) DeleteMetric(c echo.Context) error {
	return h.remove(c, h.workspace.DeleteMetric)
}

// RecordMetricValue handles POST /api/metrics/:id/values
// @Summary      Record a scorecard value
// @Tags         Metrics
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Metric ID"
// @Param        request  body      workspace.RecordValueRequest  true  "Value"
// @Success      201      {object}  entities.MetricValue
// @Failure      400      {object}  common.ErrorResponse
// @Router       /api/metrics/{id}/values [post]
func (h *Workspace) RecordMetricValue(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req workspaceDTO.RecordValueRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	value, err := h.workspace.RecordMetricValue(c.Request().Context(), workspaceUsecase.MetricValueInput{
		OrganizationID: middleware.CurrentOrganizationID(c),
		MetricID:       id,
		RecordedBy:     middleware.CurrentProfile(c).ID,
		Value:          *req.Value,
		RecordedAt:     req.RecordedAt,
		Note:           req.Note,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusCreated, value)
}

// ListMetricValues handles GET /api/metrics/:id/values
// @Summary      Metric history
// @Tags         Metrics
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Metric ID"
// @Param        limit  query     int     false  "Most recent values to return (default 52)"
// @Success      200    {array}   entities.MetricValue
// @Router       /api/metrics/{id}/values [get]
func (h *Workspace) ListMetricValues(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 1 {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("limit must be a positive integer"))
		}
	}
	values, err := h.workspace.ListMetricValues(c.Request().Context(), middleware.CurrentOrganizationID(c), id, limit)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, values)
}
