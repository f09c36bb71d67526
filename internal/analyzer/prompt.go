package analyzer

import (
	"fmt"
	"strings"

	"wellbeing-insights-go/internal/types"
)

// transcriptPrompt renders the turns the way every analyzer sees them:
// "ROLE: text" lines in conversational order, with the call duration appended
// when the variant wants it as context.
func transcriptPrompt(turns []types.TranscriptTurn, withDuration bool, meta types.CallMetadata) string {
	var b strings.Builder
	b.WriteString("CALL TRANSCRIPT:\n")
	for _, t := range turns {
		b.WriteString(strings.ToUpper(string(t.Role)))
		b.WriteString(": ")
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
	if withDuration {
		fmt.Fprintf(&b, "\nCALL DURATION: %.0f seconds\n", meta.DurationSeconds)
	}
	return b.String()
}
