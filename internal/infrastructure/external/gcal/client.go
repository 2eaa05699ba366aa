package gcal

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Event is the subset of a calendar event the API exposes
type Event struct {
	ID       string    `json:"id"`
	Summary  string    `json:"summary"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	HTMLLink string    `json:"html_link,omitempty"`
}

// NewEvent describes an event to create
type NewEvent struct {
	Summary     string
	Description string
	Start       time.Time
	Duration    time.Duration
	Attendees   []string
}

// Client talks to the Google Calendar API on behalf of a connected account
type Client struct {
	opts []option.ClientOption
}

// NewClient creates a calendar client. Extra options (endpoint, HTTP client) are for tests.
func NewClient(opts ...option.ClientOption) *Client {
	return &Client{opts: opts}
}

func (c *Client) service(ctx context.Context, ts oauth2.TokenSource) (*calendar.Service, error) {
	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, c.opts...)
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return svc, nil
}

// CreateEvent inserts an event and returns its ID
func (c *Client) CreateEvent(ctx context.Context, ts oauth2.TokenSource, calendarID string, in NewEvent) (string, error) {
	svc, err := c.service(ctx, ts)
	if err != nil {
		return "", err
	}

	ev := &calendar.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Start:       &calendar.EventDateTime{DateTime: in.Start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: in.Start.Add(in.Duration).Format(time.RFC3339)},
	}
	for _, email := range in.Attendees {
		ev.Attendees = append(ev.Attendees, &calendar.EventAttendee{Email: email})
	}

	created, err := svc.Events.Insert(calendarID, ev).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert event: %w", err)
	}
	return created.Id, nil
}

// ListUpcoming returns up to max single events starting after from
func (c *Client) ListUpcoming(ctx context.Context, ts oauth2.TokenSource, calendarID string, from time.Time, max int64) ([]Event, error) {
	svc, err := c.service(ctx, ts)
	if err != nil {
		return nil, err
	}

	res, err := svc.Events.List(calendarID).
		TimeMin(from.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(max).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]Event, 0, len(res.Items))
	for _, item := range res.Items {
		events = append(events, Event{
			ID:       item.Id,
			Summary:  item.Summary,
			Start:    parseEventTime(item.Start),
			End:      parseEventTime(item.End),
			HTMLLink: item.HtmlLink,
		})
	}
	return events, nil
}

// parseEventTime reads a timed or all-day event boundary
func parseEventTime(t *calendar.EventDateTime) time.Time {
	if t == nil {
		return time.Time{}
	}
	if t.DateTime != "" {
		if v, err := time.Parse(time.RFC3339, t.DateTime); err == nil {
			return v
		}
	}
	if t.Date != "" {
		if v, err := time.Parse("2006-01-02", t.Date); err == nil {
			return v
		}
	}
	return time.Time{}
}
