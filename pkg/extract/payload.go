package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/mealmind-inc/mealmind-engine/pkg/jsonutil"
	"github.com/mealmind-inc/mealmind-engine/pkg/models"
)

// The persona asks the model to close every loggable answer with a fenced
// JSON payload. When present and well formed it is authoritative and the
// text cascade never runs; when absent or malformed the cascade is the
// fallback.

var fencedJSONPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// payloadItem mirrors the JSON shape the persona requests. Raw messages
// tolerate the numbers-as-strings drift LLMs exhibit.
type payloadItem struct {
	Name     json.RawMessage `json:"name"`
	Calories json.RawMessage `json:"calories"`
	Protein  json.RawMessage `json:"protein"`
	Carbs    json.RawMessage `json:"carbs"`
	Fat      json.RawMessage `json:"fat"`
	Burned   bool            `json:"burned"`
}

type payload struct {
	Items []payloadItem `json:"items"`
}

// fromPayload recovers items from a fenced (or trailing bare) JSON block.
// Returns nil on absence or malformation so the text cascade can run.
func fromPayload(sanitized string) []models.ExtractedItem {
	raw := findPayload(sanitized)
	if raw == "" {
		return nil
	}

	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil
	}

	var items []models.ExtractedItem
	for _, pi := range p.Items {
		name := strings.TrimSpace(jsonutil.FlexibleString(pi.Name))
		calories, ok := jsonutil.FlexibleInt(pi.Calories)
		if name == "" || !ok || calories < 0 {
			// One bad item invalidates the payload; the cascade decides.
			return nil
		}
		item := models.ExtractedItem{
			Name:     cleanName(name, name),
			Calories: calories,
			Burned:   pi.Burned,
		}
		if f, ok := jsonutil.FlexibleFloat(pi.Protein); ok {
			item.Protein = floatPtr(f)
		}
		if f, ok := jsonutil.FlexibleFloat(pi.Carbs); ok {
			item.Carbs = floatPtr(f)
		}
		if f, ok := jsonutil.FlexibleFloat(pi.Fat); ok {
			item.Fat = floatPtr(f)
		}
		items = append(items, item)
	}
	return items
}

// StripPayload removes the machine-readable JSON block from an answer so
// only prose reaches the user. The input is returned unchanged when no
// payload is present.
func StripPayload(answer string) string {
	out := fencedJSONPattern.ReplaceAllString(answer, "")
	out = strings.TrimRight(out, " \t\n")

	lines := strings.Split(out, "\n")
	if len(lines) > 0 {
		last := strings.TrimSpace(lines[len(lines)-1])
		if strings.HasPrefix(last, "{") && strings.HasSuffix(last, "}") && strings.Contains(last, "\"items\"") {
			out = strings.Join(lines[:len(lines)-1], "\n")
			out = strings.TrimRight(out, " \t\n")
		}
	}
	return out
}

// findPayload returns the fenced JSON object if present, otherwise a bare
// JSON object on the final line, otherwise "".
func findPayload(text string) string {
	if m := fencedJSONPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}

	lines := nonEmptyLines(text)
	if len(lines) == 0 {
		return ""
	}
	last := lines[len(lines)-1]
	if strings.HasPrefix(last, "{") && strings.HasSuffix(last, "}") && strings.Contains(last, "\"items\"") {
		return last
	}
	return ""
}
