package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellbeing-insights-go/internal/types"
)

const validReport = `{
	"type": "end-of-call-report",
	"call": {"id": "019ab9c9-c216-744e-b009-3bc3d210f73a", "type": "webCall"},
	"assistant": {"id": "23e8f9a7-aace-4c28-8a8f-be525dc9fd38"},
	"startedAt": "2025-11-29T06:53:19Z",
	"endedAt": "2025-11-29T06:55:00Z",
	"durationSeconds": 42,
	"messages": [
		{"role": "system", "message": "You are a helpful assistant."},
		{"role": "user", "message": "Hello!"},
		{"role": "assistant", "message": "Hi! How can I help you?"}
	]
}`

func TestNormalizeValidReport(t *testing.T) {
	call, err := Normalize([]byte(validReport))
	require.NoError(t, err)

	assert.Equal(t, "019ab9c9-c216-744e-b009-3bc3d210f73a", call.Metadata.CallID)
	assert.Equal(t, "23e8f9a7-aace-4c28-8a8f-be525dc9fd38", call.Metadata.AgentID)
	assert.Equal(t, types.CallTypeWeb, call.Metadata.CallType)
	// Duration comes from the timestamps, not the reported field.
	assert.Equal(t, 101.0, call.Metadata.DurationSeconds)
	require.Len(t, call.Turns, 3)
	assert.Equal(t, types.RoleSystem, call.Turns[0].Role)
	assert.Equal(t, types.RoleUser, call.Turns[1].Role)
	assert.Equal(t, "Hi! How can I help you?", call.Turns[2].Content)
	assert.Zero(t, call.DroppedTurns)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	first, err := Normalize([]byte(validReport))
	require.NoError(t, err)
	second, err := Normalize([]byte(validReport))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNormalizeMissingCallID(t *testing.T) {
	_, err := Normalize([]byte(`{"type":"end-of-call-report","call":{"type":"webCall"},"messages":[]}`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "call.id", verr.Field)
}

func TestNormalizeBadTimestamp(t *testing.T) {
	_, err := Normalize([]byte(`{"call":{"id":"c1"},"startedAt":"yesterday"}`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "startedAt", verr.Field)
}

func TestNormalizeEndBeforeStart(t *testing.T) {
	_, err := Normalize([]byte(`{"call":{"id":"c1"},"startedAt":"2025-11-29T07:00:00Z","endedAt":"2025-11-29T06:00:00Z"}`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "endedAt", verr.Field)
}

func TestNormalizeMessagesNotAList(t *testing.T) {
	_, err := Normalize([]byte(`{"call":{"id":"c1"},"messages":"hello"}`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Field, "messages")
}

func TestNormalizeWrongMessageType(t *testing.T) {
	_, err := Normalize([]byte(`{"type":"status-update","call":{"id":"c1"}}`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "type", verr.Field)
}

func TestNormalizeDurationFallsBackToReportedField(t *testing.T) {
	call, err := Normalize([]byte(`{"call":{"id":"c1"},"durationSeconds":100.5,"messages":[]}`))
	require.NoError(t, err)
	assert.Equal(t, 100.5, call.Metadata.DurationSeconds)
}

func TestNormalizeDropsUnusableTurns(t *testing.T) {
	call, err := Normalize([]byte(`{
		"call": {"id": "c1"},
		"messages": [
			{"role": "user", "message": "   "},
			{"role": "tool_call", "message": "lookup()"},
			{"role": "bot", "message": "mapped to assistant"},
			{"role": "customer", "content": "mapped to user"}
		]
	}`))
	require.NoError(t, err)
	require.Len(t, call.Turns, 2)
	assert.Equal(t, types.RoleAssistant, call.Turns[0].Role)
	assert.Equal(t, types.RoleUser, call.Turns[1].Role)
	assert.Equal(t, "mapped to user", call.Turns[1].Content)
	assert.Equal(t, 2, call.DroppedTurns)
}

func TestNormalizeEmptyTranscriptIsValid(t *testing.T) {
	call, err := Normalize([]byte(`{"call":{"id":"c1"},"messages":[]}`))
	require.NoError(t, err)
	assert.Empty(t, call.Turns)
}

func TestNormalizeIgnoresUnknownFields(t *testing.T) {
	call, err := Normalize([]byte(`{
		"call": {"id": "c1", "orgId": "extra"},
		"customer": {"number": "+1234567890"},
		"costBreakdown": {"total": 0.42},
		"messages": []
	}`))
	require.NoError(t, err)
	assert.Equal(t, "c1", call.Metadata.CallID)
}
