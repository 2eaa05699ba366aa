package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/l10-platform/errors"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/http/middleware"
	briefingUsecase "github.com/johnquangdev/l10-platform/internal/usecase/briefing"
)

// Briefing handles the daily briefing endpoint
type Briefing struct {
	briefings briefingUsecase.Service
	logger    *zap.Logger
}

// NewBriefingHandler creates a new briefing handler
func NewBriefingHandler(briefings briefingUsecase.Service, logger *zap.Logger) *Briefing {
	return &Briefing{
		briefings: briefings,
		logger:    logger,
	}
}

// Get handles GET /api/briefing
// @Summary      Today's briefing
// @Description  Returns the cached briefing for today or generates one. Callers without a profile or organization get an explanatory status instead of an error.
// @Tags         Briefing
// @Produce      json
// @Security     BearerAuth
// @Param        regenerate  query     bool  false  "Ignore today's cached briefing"
// @Success      200         {object}  briefing.Result
// @Failure      401         {object}  common.ErrorResponse
// @Router       /api/briefing [get]
func (h *Briefing) Get(c echo.Context) error {
	regenerate := false
	if raw := c.QueryParam("regenerate"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("regenerate must be a boolean"))
		}
		regenerate = v
	}

	result, err := h.briefings.Get(c.Request().Context(), middleware.CurrentProfile(c), regenerate)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, result)
}
