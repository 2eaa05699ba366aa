package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts requests by method, route and status code
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "l10_http_requests_total",
		Help: "Total HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	// HTTPDuration tracks request latency per route
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "l10_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// MeetingTransitions counts meeting lifecycle transitions by target status and result
	MeetingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "l10_meeting_transitions_total",
		Help: "Meeting status transitions by target status and result",
	}, []string{"status", "result"})

	// BriefingOutcomes counts briefing requests by how they were served
	BriefingOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "l10_briefing_outcomes_total",
		Help: "Briefings served by outcome (cached, generated, fallback, failed)",
	}, []string{"outcome"})

	// SlackEvents counts inbound Slack events by type and handling result
	SlackEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "l10_slack_events_total",
		Help: "Slack events received by type and result",
	}, []string{"type", "result"})
)

// Transition results
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Briefing outcomes
const (
	BriefingCached    = "cached"
	BriefingGenerated = "generated"
	BriefingFallback  = "fallback"
	BriefingFailed    = "failed"
)
