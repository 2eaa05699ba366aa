package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/l10-platform/internal/usecase/errors"
	"github.com/johnquangdev/l10-platform/internal/usecase/meeting"
	"github.com/johnquangdev/l10-platform/pkg/metrics"
)

const (
	eventDedupeTTL   = time.Hour
	replyIssuesLimit = 10
)

var mentionPattern = regexp.MustCompile(`<@[A-Z0-9]+>`)

const helpText = "Ask me about:\n" +
	"• `rocks` for this quarter's rocks\n" +
	"• `scorecard` or `metrics` for the latest numbers\n" +
	"• `issues` for the open issues list"

// HandleSlackEvent verifies a delivery, answers url_verification and replies to app mentions.
// Retried deliveries of the same event are acknowledged without a second reply.
func (s *IntegrationService) HandleSlackEvent(ctx context.Context, header http.Header, body []byte) (*EventResult, error) {
	if err := s.providers.Bot.VerifyRequest(header, body); err != nil {
		metrics.SlackEvents.WithLabelValues("unknown", metrics.ResultRejected).Inc()
		return nil, usecaseErrors.ErrSignatureInvalid
	}

	event, err := s.providers.Bot.ParseEvent(body)
	if err != nil {
		return nil, usecaseErrors.Invalid("malformed slack event")
	}

	if event.Type == slackevents.URLVerification {
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			return nil, usecaseErrors.Invalid("malformed url_verification payload")
		}
		metrics.SlackEvents.WithLabelValues(event.Type, metrics.ResultOK).Inc()
		return &EventResult{Challenge: challenge.Challenge, Handled: true}, nil
	}
	if event.Type != slackevents.CallbackEvent {
		return &EventResult{}, nil
	}

	mention, ok := event.InnerEvent.Data.(*slackevents.AppMentionEvent)
	if !ok {
		metrics.SlackEvents.WithLabelValues(event.InnerEvent.Type, "ignored").Inc()
		return &EventResult{}, nil
	}

	key := deliveryKey(event, mention)
	first, err := s.dedupe.SetNX(ctx, key, "1", eventDedupeTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to record slack event: %w", err)
	}
	if !first {
		metrics.SlackEvents.WithLabelValues(event.InnerEvent.Type, "duplicate").Inc()
		return &EventResult{Handled: true}, nil
	}

	if err := s.replyToMention(ctx, event.TeamID, mention); err != nil {
		metrics.SlackEvents.WithLabelValues(event.InnerEvent.Type, metrics.ResultError).Inc()
		// release the claim so Slack's retry gets a reply
		if delErr := s.dedupe.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			s.logger.Warn("Failed to release slack event claim", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}
	metrics.SlackEvents.WithLabelValues(event.InnerEvent.Type, metrics.ResultOK).Inc()
	return &EventResult{Handled: true}, nil
}

// deliveryKey identifies an event across Slack's retried deliveries
func deliveryKey(event slackevents.EventsAPIEvent, mention *slackevents.AppMentionEvent) string {
	if cb, ok := event.Data.(*slackevents.EventsAPICallbackEvent); ok && cb.EventID != "" {
		return "slack:event:" + cb.EventID
	}
	return fmt.Sprintf("slack:event:%s:%s:%s", event.TeamID, mention.Channel, mention.TimeStamp)
}

func (s *IntegrationService) replyToMention(ctx context.Context, teamID string, mention *slackevents.AppMentionEvent) error {
	ws, err := s.repos.Integrations.FindSlackWorkspaceByTeam(ctx, teamID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn("Slack event for unknown team", zap.String("team_id", teamID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get slack workspace: %w", err)
	}
	if !ws.IsActive {
		return nil
	}

	text, err := s.reply(ctx, ws, mention.Text)
	if err != nil {
		return err
	}

	token, err := s.providers.Tokens.Open(ws.BotToken)
	if err != nil {
		return fmt.Errorf("failed to decrypt bot token: %w", err)
	}
	thread := mention.ThreadTimeStamp
	if thread == "" {
		thread = mention.TimeStamp
	}
	return s.providers.Bot.PostMessage(ctx, token, mention.Channel, text, thread)
}

// reply routes a mention by keyword
func (s *IntegrationService) reply(ctx context.Context, ws *entities.SlackWorkspace, text string) (string, error) {
	query := strings.ToLower(strings.TrimSpace(mentionPattern.ReplaceAllString(text, "")))

	switch {
	case strings.Contains(query, "rocks"):
		return s.rocksReply(ctx, ws)
	case strings.Contains(query, "scorecard"), strings.Contains(query, "metrics"):
		return s.scorecardReply(ctx, ws)
	case strings.Contains(query, "issues"):
		return s.issuesReply(ctx, ws)
	case strings.Contains(query, "help"):
		return helpText, nil
	default:
		return "Hi! I'm the L10 assistant for " + ws.TeamName + ".\n" + helpText, nil
	}
}

func (s *IntegrationService) rocksReply(ctx context.Context, ws *entities.SlackWorkspace) (string, error) {
	rocks, err := s.repos.Rocks.ListActive(ctx, ws.OrganizationID)
	if err != nil {
		return "", fmt.Errorf("failed to list rocks: %w", err)
	}
	if len(rocks) == 0 {
		return "No active rocks.", nil
	}

	var b strings.Builder
	b.WriteString("*Rocks*\n")
	for _, r := range rocks {
		fmt.Fprintf(&b, "• %s: %s (%s)\n", r.Title, strings.ReplaceAll(string(r.Status), "_", " "), r.Owner.DisplayName())
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (s *IntegrationService) scorecardReply(ctx context.Context, ws *entities.SlackWorkspace) (string, error) {
	list, err := s.repos.Metrics.ListActive(ctx, ws.OrganizationID)
	if err != nil {
		return "", fmt.Errorf("failed to list metrics: %w", err)
	}
	if len(list) == 0 {
		return "No scorecard metrics yet.", nil
	}

	metricIDs := make([]uuid.UUID, len(list))
	for i, m := range list {
		metricIDs[i] = m.ID
	}
	latest, err := s.repos.Metrics.LatestValues(ctx, metricIDs)
	if err != nil {
		return "", fmt.Errorf("failed to load metric values: %w", err)
	}

	var b strings.Builder
	b.WriteString("*Scorecard*\n")
	for _, m := range list {
		m.AttachLatest(latest[m.ID])
		value := "no data"
		if m.CurrentValue != nil {
			value = meeting.FormatValue(*m.CurrentValue, m.Unit)
		}
		mark := ""
		if m.BelowGoal() {
			mark = " :warning: below goal of " + meeting.FormatValue(*m.Goal, m.Unit)
		}
		fmt.Fprintf(&b, "• %s: %s%s\n", m.Name, value, mark)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (s *IntegrationService) issuesReply(ctx context.Context, ws *entities.SlackWorkspace) (string, error) {
	open := entities.IssueStatusOpen
	issues, err := s.repos.Issues.Find(ctx, ws.OrganizationID, repositories.IssueFilters{Status: &open, Limit: replyIssuesLimit})
	if err != nil {
		return "", fmt.Errorf("failed to list issues: %w", err)
	}
	if len(issues) == 0 {
		return "No open issues. :tada:", nil
	}

	var b strings.Builder
	b.WriteString("*Open issues*\n")
	for i, issue := range issues {
		fmt.Fprintf(&b, "%d. %s\n", i+1, issue.Title)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// AnnounceMeetingCompleted posts a wrap-up to the organization's default Slack channel
func (s *IntegrationService) AnnounceMeetingCompleted(ctx context.Context, m *entities.L10Meeting) error {
	ws, err := s.repos.Integrations.FindSlackWorkspace(ctx, m.OrganizationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get slack workspace: %w", err)
	}
	if !ws.IsActive || ws.DefaultChannelID == nil {
		return nil
	}

	token, err := s.providers.Tokens.Open(ws.BotToken)
	if err != nil {
		return fmt.Errorf("failed to decrypt bot token: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, ":white_check_mark: *%s* is complete", m.Title)
	if m.DurationMinutes != nil {
		fmt.Fprintf(&b, " (%d min)", *m.DurationMinutes)
	}
	b.WriteString(".")
	if line := meeting.AverageLine(m.Ratings.Data()); line != "" {
		b.WriteString("\n" + line)
	}
	if m.CascadingMessages != nil && strings.TrimSpace(*m.CascadingMessages) != "" {
		b.WriteString("\n*Cascading messages:* " + strings.TrimSpace(*m.CascadingMessages))
	}

	return s.providers.Bot.PostMessage(ctx, token, *ws.DefaultChannelID, b.String(), "")
}
