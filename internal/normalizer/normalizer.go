// Package normalizer turns raw end-of-call-report payloads from the voice
// platform into validated NormalizedCall records. Pure transform: no side
// effects, idempotent on identical input.
package normalizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"wellbeing-insights-go/internal/types"
)

// ValidationError names the missing or malformed field that makes a payload
// unusable. It aborts the call's pipeline before any analysis work begins.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid call report: field %q: %s", e.Field, e.Reason)
}

const reportType = "end-of-call-report"

// rawReport is the upstream wire shape. Unknown and extra fields are ignored
// for forward compatibility with the platform.
type rawReport struct {
	Type string `json:"type"`
	Call struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	} `json:"call"`
	Assistant struct {
		ID string `json:"id"`
	} `json:"assistant"`
	StartedAt       string       `json:"startedAt"`
	EndedAt         string       `json:"endedAt"`
	DurationSeconds *float64     `json:"durationSeconds"`
	Messages        []rawMessage `json:"messages"`
}

type rawMessage struct {
	Role string `json:"role"`
	// The platform has used both keys for the turn text.
	Message string `json:"message"`
	Content string `json:"content"`
}

// Normalize validates a raw call-report payload and produces the minimal
// record the analyzers read. A few unmappable or empty turns are dropped and
// counted, never a hard error; a missing call id always is.
func Normalize(raw []byte) (*types.NormalizedCall, error) {
	var rep rawReport
	if err := json.Unmarshal(raw, &rep); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ValidationError{Field: typeErr.Field, Reason: "unexpected type " + typeErr.Value}
		}
		return nil, &ValidationError{Field: "", Reason: "payload is not a JSON object"}
	}

	if rep.Type != "" && rep.Type != reportType {
		return nil, &ValidationError{Field: "type", Reason: fmt.Sprintf("expected %q, got %q", reportType, rep.Type)}
	}
	if strings.TrimSpace(rep.Call.ID) == "" {
		return nil, &ValidationError{Field: "call.id", Reason: "missing"}
	}

	started, err := parseTimestamp(rep.StartedAt, "startedAt")
	if err != nil {
		return nil, err
	}
	ended, err := parseTimestamp(rep.EndedAt, "endedAt")
	if err != nil {
		return nil, err
	}

	// Duration is derived from the timestamps when both are present and only
	// falls back to the reported field otherwise.
	var duration float64
	switch {
	case !started.IsZero() && !ended.IsZero():
		if ended.Before(started) {
			return nil, &ValidationError{Field: "endedAt", Reason: "earlier than startedAt"}
		}
		duration = ended.Sub(started).Seconds()
	case rep.DurationSeconds != nil:
		if *rep.DurationSeconds < 0 {
			return nil, &ValidationError{Field: "durationSeconds", Reason: "negative"}
		}
		duration = *rep.DurationSeconds
	}

	turns := make([]types.TranscriptTurn, 0, len(rep.Messages))
	dropped := 0
	for _, m := range rep.Messages {
		role, ok := mapRole(m.Role)
		if !ok {
			dropped++
			continue
		}
		content := m.Message
		if content == "" {
			content = m.Content
		}
		content = strings.TrimSpace(content)
		if content == "" {
			dropped++
			continue
		}
		turns = append(turns, types.TranscriptTurn{Role: role, Content: content})
	}

	return &types.NormalizedCall{
		Metadata: types.CallMetadata{
			CallID:          strings.TrimSpace(rep.Call.ID),
			AgentID:         rep.Assistant.ID,
			CallType:        types.ParseCallType(rep.Call.Type),
			StartedAt:       started,
			EndedAt:         ended,
			DurationSeconds: duration,
		},
		Turns:        turns,
		DroppedTurns: dropped,
	}, nil
}

func parseTimestamp(s, field string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Reason: "unparseable timestamp " + s}
	}
	return t, nil
}

// mapRole folds the platform's role vocabulary onto ours. Unambiguous aliases
// are mapped; anything else means the turn is dropped.
func mapRole(role string) (types.Role, bool) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "user", "customer", "human", "caller":
		return types.RoleUser, true
	case "assistant", "bot", "ai", "agent":
		return types.RoleAssistant, true
	case "system":
		return types.RoleSystem, true
	default:
		return "", false
	}
}
