package meeting

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
)

// SummaryInput is everything the end-of-meeting notes are assembled from
type SummaryInput struct {
	Meeting   *entities.L10Meeting
	EndedAt   time.Time
	Duration  int
	Ratings   entities.Ratings
	Issues    []*entities.Issue
	Todos     []*entities.Todo
	Headlines []*entities.Headline
	// Current state of the rocks and metrics captured in the snapshots
	CurrentRocks  map[uuid.UUID]*entities.Rock
	CurrentValues map[uuid.UUID]*entities.MetricValue
	Messages      *string
}

var outcomeOrder = []entities.IssueOutcome{
	entities.OutcomeSolved,
	entities.OutcomeTodoCreated,
	entities.OutcomePushed,
	entities.OutcomeKilled,
}

var outcomeHeadings = map[entities.IssueOutcome]string{
	entities.OutcomeSolved:      "Solved",
	entities.OutcomeTodoCreated: "To-Do Created",
	entities.OutcomePushed:      "Pushed",
	entities.OutcomeKilled:      "Killed",
}

// BuildSummary renders the markdown notes stored on a completed meeting
func BuildSummary(in SummaryInput) string {
	var b strings.Builder
	m := in.Meeting

	fmt.Fprintf(&b, "# %s\n\n", m.Title)
	fmt.Fprintf(&b, "**Date:** %s\n", in.EndedAt.UTC().Format("Monday, January 2, 2006"))
	fmt.Fprintf(&b, "**Duration:** %d minutes\n", in.Duration)

	writeAttendees(&b, m.Attendees, in.Ratings)
	writeIssues(&b, in.Issues)
	writeTodos(&b, in.Todos)
	writeHeadlines(&b, in.Headlines)
	writeRockAttention(&b, m.RocksSnapshot, in.CurrentRocks)
	writeScorecardAttention(&b, m.ScorecardSnapshot, in.CurrentValues)

	if in.Messages != nil && strings.TrimSpace(*in.Messages) != "" {
		b.WriteString("\n## Cascading Messages\n\n")
		b.WriteString(strings.TrimSpace(*in.Messages))
		b.WriteString("\n")
	}

	return b.String()
}

// AverageLine returns "Team Average: x.y/10", or "" without ratings
func AverageLine(r entities.Ratings) string {
	avg, ok := r.Average()
	if !ok {
		return ""
	}
	return fmt.Sprintf("Team Average: %.1f/10", avg)
}

func writeAttendees(b *strings.Builder, attendees []entities.MeetingAttendee, ratings entities.Ratings) {
	b.WriteString("\n## Attendees\n\n")
	if len(attendees) == 0 {
		b.WriteString("_No attendees recorded._\n")
	}
	for _, a := range attendees {
		name := a.Profile.DisplayName()
		if score, ok := ratings[a.ProfileID.String()]; ok {
			fmt.Fprintf(b, "- %s (%d/10)\n", name, score)
			continue
		}
		fmt.Fprintf(b, "- %s\n", name)
	}

	if line := AverageLine(ratings); line != "" {
		fmt.Fprintf(b, "\n**%s**\n", line)
	}
}

func writeIssues(b *strings.Builder, issues []*entities.Issue) {
	fmt.Fprintf(b, "\n## Issues Discussed (%d)\n", len(issues))
	if len(issues) == 0 {
		b.WriteString("\n_No issues were discussed._\n")
		return
	}

	grouped := make(map[entities.IssueOutcome][]*entities.Issue, len(outcomeOrder))
	for _, issue := range issues {
		outcome := entities.DisplayOutcome(issue.Outcome)
		grouped[outcome] = append(grouped[outcome], issue)
	}

	for _, outcome := range outcomeOrder {
		group := grouped[outcome]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(b, "\n### %s (%d)\n\n", outcomeHeadings[outcome], len(group))
		for _, issue := range group {
			fmt.Fprintf(b, "- **%s**", issue.Title)
			if issue.DecisionNotes != nil && *issue.DecisionNotes != "" {
				fmt.Fprintf(b, ": %s", *issue.DecisionNotes)
			}
			b.WriteString("\n")
			if todo := issue.LinkedTodo; todo != nil {
				fmt.Fprintf(b, "  - To-Do: %s (%s%s)\n", todo.Title, todo.Owner.DisplayName(), dueSuffix(todo.DueDate))
			}
		}
	}
}

func writeTodos(b *strings.Builder, todos []*entities.Todo) {
	var done, open, pushed []*entities.Todo
	for _, t := range todos {
		switch t.Status {
		case entities.TodoStatusDone:
			done = append(done, t)
		case entities.TodoStatusPushed:
			pushed = append(pushed, t)
		default:
			open = append(open, t)
		}
	}

	fmt.Fprintf(b, "\n## To-Dos Reviewed (%d)\n", len(todos))
	if len(todos) == 0 {
		b.WriteString("\n_No to-dos to review._\n")
		return
	}

	writeTodoGroup(b, "Done", "[x]", done)
	writeTodoGroup(b, "Not Done", "[ ]", open)
	writeTodoGroup(b, "Pushed", "[>]", pushed)
}

func writeTodoGroup(b *strings.Builder, heading, mark string, todos []*entities.Todo) {
	if len(todos) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s (%d)\n\n", heading, len(todos))
	for _, t := range todos {
		fmt.Fprintf(b, "- %s %s (%s%s)\n", mark, t.Title, t.Owner.DisplayName(), dueSuffix(t.DueDate))
	}
}

func writeHeadlines(b *strings.Builder, headlines []*entities.Headline) {
	if len(headlines) == 0 {
		return
	}

	sorted := make([]*entities.Headline, len(headlines))
	copy(sorted, headlines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	b.WriteString("\n## Headlines\n\n")
	for _, h := range sorted {
		kind := "Employee"
		if h.Kind == entities.HeadlineCustomer {
			kind = "Customer"
		}
		fmt.Fprintf(b, "- **%s:** %s (%s)\n", kind, h.Content, h.Author.DisplayName())
	}
}

func writeRockAttention(b *strings.Builder, snapshot []entities.RockSnapshot, current map[uuid.UUID]*entities.Rock) {
	var lines []string
	for _, snap := range snapshot {
		status := snap.Status
		if rock, ok := current[snap.ID]; ok {
			status = rock.Status
		}
		if !status.NeedsAttention() {
			continue
		}
		line := fmt.Sprintf("- %s (%s): %s", snap.Title, ownerOr(snap.OwnerName), humanize(string(status)))
		if status != snap.Status {
			line += fmt.Sprintf(" (was %s at start)", humanize(string(snap.Status)))
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return
	}
	b.WriteString("\n## Rocks Needing Attention\n\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
}

func writeScorecardAttention(b *strings.Builder, snapshot []entities.MetricSnapshot, current map[uuid.UUID]*entities.MetricValue) {
	var lines []string
	for _, snap := range snapshot {
		value := snap.CurrentValue
		if v, ok := current[snap.ID]; ok && v != nil {
			latest := v.Value
			value = &latest
		}
		if !entities.IsBelowGoal(value, snap.Goal) {
			continue
		}
		line := fmt.Sprintf("- %s (%s): %s vs goal %s",
			snap.Name, ownerOr(snap.OwnerName), FormatValue(*value, snap.Unit), FormatValue(*snap.Goal, snap.Unit))
		if snap.CurrentValue != nil && *snap.CurrentValue != *value {
			line += fmt.Sprintf(" (was %s at start)", FormatValue(*snap.CurrentValue, snap.Unit))
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return
	}
	b.WriteString("\n## Scorecard Needing Attention\n\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
}

func dueSuffix(due *time.Time) string {
	if due == nil {
		return ""
	}
	return ", due " + due.Format("Jan 2")
}

func ownerOr(name string) string {
	if name == "" {
		return "Unassigned"
	}
	return name
}

func humanize(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// FormatValue renders a metric value with its unit
func FormatValue(v float64, unit *string) string {
	out := strconv.FormatFloat(v, 'f', -1, 64)
	if unit == nil {
		return out
	}
	switch *unit {
	case "":
		return out
	case "$":
		return "$" + out
	case "%":
		return out + "%"
	}
	return out + " " + *unit
}
