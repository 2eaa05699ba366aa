package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	httpmw "github.com/johnquangdev/l10-platform/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/l10-platform/pkg/config"
	pkgmw "github.com/johnquangdev/l10-platform/pkg/middleware"
)

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// Router holds all handlers
type Router struct {
	cfg          *config.Config
	auth         echo.MiddlewareFunc
	meetings     *Meeting
	briefings    *Briefing
	workspace    *Workspace
	integrations *Integration
	health       map[string]HealthCheck
	logger       *zap.Logger
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	auth echo.MiddlewareFunc,
	meetings *Meeting,
	briefings *Briefing,
	workspace *Workspace,
	integrations *Integration,
	health map[string]HealthCheck,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:          cfg,
		auth:         auth,
		meetings:     meetings,
		briefings:    briefings,
		workspace:    workspace,
		integrations: integrations,
		health:       health,
		logger:       logger,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Verified by signature or signed state, not by bearer token
	e.POST("/api/webhooks/slack/events", rt.integrations.SlackEvents)
	e.GET("/api/integrations/:provider/callback", rt.integrations.Callback)

	api := e.Group("/api", rt.auth)

	// Answers callers that have no profile or organization yet
	api.GET("/briefing", rt.briefings.Get)

	rt.setupMeetingRoutes(api)
	rt.setupWorkspaceRoutes(api)
	rt.setupTrackerRoutes(api)
	rt.setupIntegrationRoutes(api)
}

var (
	member = pkgmw.RequireAccess(entities.AccessMember)
	admin  = pkgmw.RequireAccess(entities.AccessAdmin)
)

// setupMeetingRoutes configures L10 meeting routes
func (rt *Router) setupMeetingRoutes(api *echo.Group) {
	g := api.Group("/l10", httpmw.RequireOrganization())
	h := rt.meetings

	g.GET("", h.List)
	g.POST("", h.Create, member)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update, member)
	g.DELETE("/:id", h.Delete, admin)
	g.POST("/:id/cancel", h.Cancel, member)
	g.POST("/:id/start", h.Start, member)
	g.POST("/:id/end", h.End, member)
	g.GET("/:id/preview", h.Preview)
	g.GET("/:id/notes", h.Notes)
	g.POST("/:id/agenda/:itemId/complete", h.CompleteAgendaItem, member)
	g.POST("/:id/issues/:issueId/resolve", h.ResolveIssue, member)
}

// setupWorkspaceRoutes configures goals, rocks, scorecard, pillars, data sources and team routes
func (rt *Router) setupWorkspaceRoutes(api *echo.Group) {
	h := rt.workspace

	goals := api.Group("/goals", httpmw.RequireOrganization())
	goals.GET("", h.ListGoals)
	goals.POST("", h.CreateGoal, member)
	goals.GET("/:id", h.GetGoal)
	goals.PATCH("/:id", h.UpdateGoal, member)
	goals.DELETE("/:id", h.DeleteGoal, admin)

	rocks := api.Group("/rocks", httpmw.RequireOrganization())
	rocks.GET("", h.ListRocks)
	rocks.POST("", h.CreateRock, member)
	rocks.GET("/:id", h.GetRock)
	rocks.PATCH("/:id", h.UpdateRock, member)
	rocks.DELETE("/:id", h.DeleteRock, admin)
	rocks.POST("/:id/updates", h.PostRockUpdate, member)

	metrics := api.Group("/metrics", httpmw.RequireOrganization())
	metrics.GET("", h.ListMetrics)
	metrics.POST("", h.CreateMetric, member)
	metrics.GET("/:id", h.GetMetric)
	metrics.PATCH("/:id", h.UpdateMetric, member)
	metrics.DELETE("/:id", h.DeleteMetric, admin)
	metrics.GET("/:id/values", h.ListMetricValues)
	metrics.POST("/:id/values", h.RecordMetricValue, member)

	pillars := api.Group("/pillars", httpmw.RequireOrganization())
	pillars.GET("", h.ListPillars)
	pillars.POST("", h.CreatePillar, member)
	pillars.GET("/:id", h.GetPillar)
	pillars.PATCH("/:id", h.UpdatePillar, member)
	pillars.DELETE("/:id", h.DeletePillar, admin)

	sources := api.Group("/data-sources", httpmw.RequireOrganization())
	sources.GET("", h.ListDataSources)
	sources.POST("", h.CreateDataSource, member)
	sources.GET("/:id", h.GetDataSource)
	sources.PATCH("/:id", h.UpdateDataSource, member)
	sources.DELETE("/:id", h.DeleteDataSource, admin)

	team := api.Group("/team-members", httpmw.RequireOrganization())
	team.GET("", h.ListTeam)
	team.POST("", h.InviteMember, admin)
	team.PATCH("/:id", h.UpdateMember, admin)
	team.DELETE("/:id", h.DeactivateMember, admin)
}

// setupTrackerRoutes configures issues, to-dos and headlines
func (rt *Router) setupTrackerRoutes(api *echo.Group) {
	h := rt.workspace

	issues := api.Group("/issues", httpmw.RequireOrganization())
	issues.GET("", h.ListIssues)
	issues.POST("", h.CreateIssue, member)
	issues.POST("/:id/queue", h.QueueIssue, member)
	issues.DELETE("/:id", h.DeleteIssue, admin)

	todos := api.Group("/todos", httpmw.RequireOrganization())
	todos.GET("", h.ListTodos)
	todos.POST("", h.CreateTodo, member)
	todos.PATCH("/:id", h.UpdateTodo, member)

	headlines := api.Group("/headlines", httpmw.RequireOrganization())
	headlines.GET("", h.ListHeadlines)
	headlines.POST("", h.CreateHeadline, member)
}

// setupIntegrationRoutes configures Slack and Google Calendar connections
func (rt *Router) setupIntegrationRoutes(api *echo.Group) {
	g := api.Group("/integrations", httpmw.RequireOrganization())
	h := rt.integrations

	g.GET("", h.List)
	g.GET("/google-calendar/events", h.CalendarEvents)
	g.GET("/:provider/oauth", h.Connect, member)
	g.DELETE("/:provider", h.Disconnect, member)
}

// healthCheck returns health status and pings registered dependencies
func (rt *Router) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(rt.health))
	for name, check := range rt.health {
		if err := check(ctx); err != nil {
			rt.logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			checks[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	return c.JSON(status, map[string]interface{}{
		"status":       overall,
		"environment":  rt.cfg.Server.Environment,
		"dependencies": checks,
	})
}
