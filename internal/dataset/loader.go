// Package dataset loads sample call reports from an xlsx workbook so the full
// pipeline can be exercised offline (cmd/replay). One row per call; the
// transcript cell holds newline-separated "role: text" lines.
package dataset

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

type SampleTurn struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

type SampleCall struct {
	CallID          string
	AgentID         string
	CallType        string
	StartedAt       string
	EndedAt         string
	DurationSeconds float64
	Transcript      []SampleTurn
}

// Load auto-detects columns by header heuristics, so exported sheets with
// slightly different header names still load.
func Load(path string) ([]SampleCall, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	header := rows[0]
	callIDIdx, agentIdx, typeIdx, startIdx, endIdx, durIdx, transcriptIdx := -1, -1, -1, -1, -1, -1, -1
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "call") && strings.Contains(l, "id"):
			if callIDIdx == -1 {
				callIDIdx = i
			}
		case strings.Contains(l, "agent") || strings.Contains(l, "assistant"):
			if agentIdx == -1 {
				agentIdx = i
			}
		case strings.Contains(l, "type"):
			if typeIdx == -1 {
				typeIdx = i
			}
		case strings.Contains(l, "start"):
			startIdx = i
		case strings.Contains(l, "end"):
			endIdx = i
		case strings.Contains(l, "duration"):
			durIdx = i
		case strings.Contains(l, "transcript") || strings.Contains(l, "messages"):
			transcriptIdx = i
		}
	}
	if callIDIdx == -1 || transcriptIdx == -1 {
		return nil, fmt.Errorf("could not locate call id and transcript columns in header %v", header)
	}

	cell := func(r []string, idx int) string {
		if idx >= 0 && idx < len(r) {
			return strings.TrimSpace(r[idx])
		}
		return ""
	}

	var out []SampleCall
	for i, r := range rows {
		if i == 0 {
			continue
		}
		c := SampleCall{
			CallID:     cell(r, callIDIdx),
			AgentID:    cell(r, agentIdx),
			CallType:   cell(r, typeIdx),
			StartedAt:  cell(r, startIdx),
			EndedAt:    cell(r, endIdx),
			Transcript: parseTranscript(cell(r, transcriptIdx)),
		}
		if c.CallID == "" {
			// skip blank rows quietly
			continue
		}
		c.DurationSeconds, _ = strconv.ParseFloat(cell(r, durIdx), 64)
		out = append(out, c)
	}
	return out, nil
}

// parseTranscript splits "role: text" lines. Lines without a role prefix are
// attributed to the user.
func parseTranscript(s string) []SampleTurn {
	var turns []SampleTurn
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		role, text := "user", line
		if idx := strings.Index(line, ":"); idx > 0 && idx < 20 {
			role = strings.ToLower(strings.TrimSpace(line[:idx]))
			text = strings.TrimSpace(line[idx+1:])
		}
		if text == "" {
			continue
		}
		turns = append(turns, SampleTurn{Role: role, Message: text})
	}
	return turns
}

// ReportPayload renders the sample as the end-of-call-report JSON the webhook
// would deliver, so replayed calls take the exact production path.
func (c SampleCall) ReportPayload() ([]byte, error) {
	report := map[string]interface{}{
		"type": "end-of-call-report",
		"call": map[string]string{
			"id":   c.CallID,
			"type": c.CallType,
		},
		"assistant": map[string]string{
			"id": c.AgentID,
		},
		"messages": c.Transcript,
	}
	if c.StartedAt != "" {
		report["startedAt"] = c.StartedAt
	}
	if c.EndedAt != "" {
		report["endedAt"] = c.EndedAt
	}
	if c.DurationSeconds > 0 {
		report["durationSeconds"] = c.DurationSeconds
	}
	return json.Marshal(report)
}
