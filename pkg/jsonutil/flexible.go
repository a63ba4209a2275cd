package jsonutil

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexibleString converts a json.RawMessage to a string, handling cases
// where LLMs return numbers or booleans instead of strings. Returns empty
// string for null/empty.
func FlexibleString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return strVal
	}

	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		if numVal == float64(int64(numVal)) {
			return fmt.Sprintf("%d", int64(numVal))
		}
		return fmt.Sprintf("%g", numVal)
	}

	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		return fmt.Sprintf("%t", boolVal)
	}

	return string(raw)
}

// FlexibleFloat converts a json.RawMessage to a float64, accepting numbers,
// numeric strings ("140", "140 cal"), and null. The second return reports
// whether a value was recovered.
func FlexibleFloat(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		return numVal, true
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		strVal = strings.TrimSpace(strVal)
		// Strip a trailing unit the model sometimes appends ("140 cal", "20g").
		if i := strings.IndexFunc(strVal, func(r rune) bool {
			return !(r >= '0' && r <= '9') && r != '.' && r != '-'
		}); i > 0 {
			strVal = strVal[:i]
		}
		if f, err := strconv.ParseFloat(strVal, 64); err == nil {
			return f, true
		}
	}

	return 0, false
}

// FlexibleInt converts a json.RawMessage to an int via FlexibleFloat,
// rounding to the nearest integer.
func FlexibleInt(raw json.RawMessage) (int, bool) {
	f, ok := FlexibleFloat(raw)
	if !ok {
		return 0, false
	}
	return int(math.Round(f)), true
}
