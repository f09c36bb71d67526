package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONBare(t *testing.T) {
	out, err := ExtractJSON(`{"stressed": true}`)
	require.NoError(t, err)
	assert.Equal(t, `{"stressed": true}`, out)
}

func TestExtractJSONFenced(t *testing.T) {
	out, err := ExtractJSON("Here you go:\n```json\n{\"positive\": 1, \"negative\": 2}\n```\n")
	require.NoError(t, err)
	assert.JSONEq(t, `{"positive": 1, "negative": 2}`, out)
}

func TestExtractJSONPlainFence(t *testing.T) {
	out, err := ExtractJSON("```\n{\"severe\": false}\n```")
	require.NoError(t, err)
	assert.JSONEq(t, `{"severe": false}`, out)
}

func TestExtractJSONProseWrapped(t *testing.T) {
	out, err := ExtractJSON(`The answer is {"blockers": []} as requested.`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"blockers": []}`, out)
}

func TestExtractJSONNoObject(t *testing.T) {
	_, err := ExtractJSON("I cannot analyze this transcript.")
	assert.Error(t, err)
}
