package dataset

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "calls.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadSampleCalls(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Call ID", "Agent ID", "Call Type", "Started At", "Ended At", "Duration (s)", "Transcript"},
		{"c-100", "a-1", "webCall", "2025-11-29T06:53:19Z", "2025-11-29T06:55:00Z", 101,
			"user: I'm swamped with work\nassistant: Let's talk through it"},
		{"c-101", "a-2", "inboundPhoneCall", "", "", 55, "user: all good today"},
	})

	calls, err := Load(path)
	require.NoError(t, err)
	require.Len(t, calls, 2)

	assert.Equal(t, "c-100", calls[0].CallID)
	assert.Equal(t, "a-1", calls[0].AgentID)
	assert.Equal(t, "webCall", calls[0].CallType)
	assert.Equal(t, 101.0, calls[0].DurationSeconds)
	require.Len(t, calls[0].Transcript, 2)
	assert.Equal(t, SampleTurn{Role: "user", Message: "I'm swamped with work"}, calls[0].Transcript[0])
	assert.Equal(t, SampleTurn{Role: "assistant", Message: "Let's talk through it"}, calls[0].Transcript[1])
}

func TestLoadSkipsBlankRows(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"call id", "agent", "type", "start", "end", "duration", "transcript"},
		{"", "", "", "", "", "", ""},
		{"c-1", "a-1", "webCall", "", "", 10, "user: hi"},
	})
	calls, err := Load(path)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "c-1", calls[0].CallID)
}

func TestReportPayloadShape(t *testing.T) {
	c := SampleCall{
		CallID:          "c-1",
		AgentID:         "a-1",
		CallType:        "webCall",
		DurationSeconds: 42,
		Transcript:      []SampleTurn{{Role: "user", Message: "hello"}},
	}
	payload, err := c.ReportPayload()
	require.NoError(t, err)

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &report))
	assert.Equal(t, "end-of-call-report", report["type"])
	assert.Equal(t, "c-1", report["call"].(map[string]interface{})["id"])
	assert.Equal(t, 42.0, report["durationSeconds"])
	messages := report["messages"].([]interface{})
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].(map[string]interface{})["message"])
}
