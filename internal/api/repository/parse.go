package repository

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ExtractedJSON is the outcome of pulling a JSON object out of a free-text
// model reply. Callers inspect OK and decide on defaults themselves instead of
// relying on a thrown-and-caught control path.
type ExtractedJSON struct {
	OK   bool
	JSON json.RawMessage
	Raw  string
}

// ExtractJSONObject finds the first brace-delimited object in a model reply,
// strips markdown fences, and repairs common LLM JSON defects before handing
// the bytes back.
func ExtractJSONObject(reply string) ExtractedJSON {
	cleaned := strings.TrimSpace(reply)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return ExtractedJSON{OK: false, Raw: reply}
	}
	candidate := cleaned[start : end+1]

	if !json.Valid([]byte(candidate)) {
		repaired, err := jsonrepair.JSONRepair(candidate)
		if err != nil {
			return ExtractedJSON{OK: false, Raw: reply}
		}
		candidate = repaired
	}
	if !json.Valid([]byte(candidate)) {
		return ExtractedJSON{OK: false, Raw: reply}
	}

	return ExtractedJSON{OK: true, JSON: json.RawMessage(candidate), Raw: reply}
}

// Clamp bounds v to the inclusive range [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
