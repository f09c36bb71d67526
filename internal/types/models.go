package types

import (
	"strings"
	"time"
)

// CallType is the kind of call the upstream voice platform reports.
type CallType string

const (
	CallTypeWeb           CallType = "web_call"
	CallTypeInboundPhone  CallType = "inbound_phone_call"
	CallTypeOutboundPhone CallType = "outbound_phone_call"
	CallTypeUnknown       CallType = "unknown"
)

// ParseCallType maps the upstream platform's call type strings to our enum.
// Anything unrecognized is "unknown", not an error.
func ParseCallType(s string) CallType {
	switch strings.TrimSpace(s) {
	case "webCall", "web_call":
		return CallTypeWeb
	case "inboundPhoneCall", "inbound_phone_call":
		return CallTypeInboundPhone
	case "outboundPhoneCall", "outbound_phone_call":
		return CallTypeOutboundPhone
	default:
		return CallTypeUnknown
	}
}

// Role of a transcript turn's speaker.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// CallMetadata describes one completed call. Immutable once constructed.
type CallMetadata struct {
	CallID          string    `json:"call_id"`
	AgentID         string    `json:"agent_id"`
	CallType        CallType  `json:"call_type"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	DurationSeconds float64   `json:"duration_seconds"`
}

// TranscriptTurn is one (role, text) exchange. Order is conversational order.
type TranscriptTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NormalizedCall is the validated, minimal record every analyzer reads.
// The turn sequence may be empty; CallID never is.
type NormalizedCall struct {
	Metadata CallMetadata     `json:"metadata"`
	Turns    []TranscriptTurn `json:"turns"`

	// DroppedTurns counts raw messages discarded during normalization
	// (unmappable role or empty content). Observability only.
	DroppedTurns int `json:"dropped_turns,omitempty"`
}
