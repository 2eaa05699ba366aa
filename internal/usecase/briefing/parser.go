package briefing

import (
	"encoding/json"
	"fmt"
	"strings"
)

const systemPrompt = `You are the chief of staff of a company running on EOS.
Write a short daily briefing for the person described in the context.
Lead with what needs attention today: rocks off track, metrics below goal, overdue work, open alerts and the next L10 meeting.
Respond with a JSON object: {"content": "<markdown, at most 200 words>", "highlights": ["<up to 5 one-line items>"]}`

type summary struct {
	Content    string   `json:"content"`
	Highlights []string `json:"highlights"`
}

// parseSummary parses the summarizer reply, tolerating markdown code fences
func parseSummary(raw string) (*summary, error) {
	raw = extractJSON(raw)

	var out summary
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if strings.TrimSpace(out.Content) == "" {
		return nil, fmt.Errorf("missing content in response")
	}
	if out.Highlights == nil {
		out.Highlights = []string{}
	}
	return &out, nil
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	if start := strings.Index(content, "{"); start > 0 {
		content = content[start:]
	}
	return strings.TrimSpace(content)
}
