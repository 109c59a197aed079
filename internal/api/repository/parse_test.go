package repository

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObjectPlain(t *testing.T) {
	extracted := ExtractJSONObject(`{"summary": "good", "score": 4}`)
	require.True(t, extracted.OK)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(extracted.JSON, &parsed))
	assert.Equal(t, "good", parsed["summary"])
}

func TestExtractJSONObjectFenced(t *testing.T) {
	reply := "```json\n{\"summary\": \"ok\"}\n```"
	extracted := ExtractJSONObject(reply)
	require.True(t, extracted.OK)
	assert.JSONEq(t, `{"summary": "ok"}`, string(extracted.JSON))
}

func TestExtractJSONObjectSurroundedByProse(t *testing.T) {
	reply := `Here is the analysis you asked for: {"score": 3} Let me know if you need more.`
	extracted := ExtractJSONObject(reply)
	require.True(t, extracted.OK)
	assert.JSONEq(t, `{"score": 3}`, string(extracted.JSON))
}

func TestExtractJSONObjectRepairsDefects(t *testing.T) {
	// Trailing comma is a common model defect.
	extracted := ExtractJSONObject(`{"summary": "ok", "score": 4,}`)
	require.True(t, extracted.OK)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(extracted.JSON, &parsed))
	assert.Equal(t, 4.0, parsed["score"])
}

func TestExtractJSONObjectNoObject(t *testing.T) {
	extracted := ExtractJSONObject("sorry, I cannot help with that")
	assert.False(t, extracted.OK)
	assert.Equal(t, "sorry, I cannot help with that", extracted.Raw)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-3, 0, 5))
	assert.Equal(t, 5.0, Clamp(9, 0, 5))
	assert.Equal(t, 3.5, Clamp(3.5, 0, 5))
	assert.Equal(t, -100.0, Clamp(-250, -100, 100))
}
