// Package extract recovers structured food/exercise items from sanitized
// model answers. A machine-readable JSON suffix is preferred when the model
// emitted one; otherwise an ordered cascade of text strategies runs with a
// first-match-wins policy. Finding nothing is not an error.
package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mealmind-inc/mealmind-engine/pkg/models"
)

var (
	// itemLinePattern matches one "<item>: <N> cal" component line.
	itemLinePattern = regexp.MustCompile(`^(.+?):\s*(\d+)\s*cal(?:ories)?\.?\s*$`)

	// totalLinePattern matches the authoritative trailing total with a
	// pipe-delimited macro breakdown, e.g. "360 calories | P: 20g | C: 8g | F: 27g".
	totalLinePattern = regexp.MustCompile(`(?i)^(\d+)\s*calories\s*\|(.+)$`)

	// macroLinePattern matches a long-form macro line, e.g.
	// "Protein: 32g | Carbs: 12g | Fat: 15g".
	macroLinePattern = regexp.MustCompile(`(?i)protein:\s*(\d+(?:\.\d+)?)\s*g|carbs?:\s*(\d+(?:\.\d+)?)\s*g|fat:\s*(\d+(?:\.\d+)?)\s*g`)

	// shortMacroPattern matches "P: 20g", "C: 8g", "F: 27g" segments.
	shortMacroPattern = regexp.MustCompile(`(?i)\b([PCF]):\s*(\d+(?:\.\d+)?)\s*g`)

	// inlinePattern matches "<name> = <N> calories( burned)" and the colon
	// and dash equivalents.
	inlinePattern = regexp.MustCompile(`(?i)^(.+?)\s*[=:–—-]\s*(\d+(?:\.\d+)?)\s*calorie(?:s)?(\s+burned)?\b`)

	// rangePattern matches "<name> = <low>-<high> calories".
	rangePattern = regexp.MustCompile(`(?i)^(.+?)\s*[=:–—-]\s*(\d+)\s*[-–]\s*(\d+)\s*calorie(?:s)?(\s+burned)?\b`)

	// approxPattern matches "<name> = approximately <N> calories".
	approxPattern = regexp.MustCompile(`(?i)^(.+?)\s*[=:–—-]\s*(?:approximately|approx\.?|about|around|roughly|~)\s*(\d+(?:\.\d+)?)\s*calorie(?:s)?(\s+burned)?\b`)

	// servingPrefixPattern strips leading serving-count phrases from names.
	servingPrefixPattern = regexp.MustCompile(`(?i)^(?:\d+(?:\.\d+)?|a|an|one|two|three)?\s*servings?\s+of\s+`)

	// ofClausePattern re-derives a food name from an "of <food>" clause.
	ofClausePattern = regexp.MustCompile(`(?i)\bof\s+(.+?)(?:\s*[=:–—-]|$)`)
)

// Extract parses the sanitized model answer into zero or more items.
// Strategies run in strict priority order and the first one yielding at
// least one item wins. An empty result is a parse miss, not an error.
func Extract(sanitized string) []models.ExtractedItem {
	if items := fromPayload(sanitized); len(items) > 0 {
		return items
	}

	lines := nonEmptyLines(sanitized)
	if len(lines) == 0 {
		return nil
	}

	strategies := []func([]string) []models.ExtractedItem{
		namedServing,
		itemized,
		itemizedWithTotal,
		inline,
		calorieRange,
		approximate,
	}
	for _, strategy := range strategies {
		if items := strategy(lines); len(items) > 0 {
			return items
		}
	}
	return nil
}

// namedServing handles single-serving structured answers: a food-name line,
// a "<serving>: <N> cal" line, and an optional macro line.
func namedServing(lines []string) []models.ExtractedItem {
	if hasTotalLine(lines) {
		return nil
	}
	if len(lines) < 2 || len(lines) > 3 {
		return nil
	}
	if itemLinePattern.MatchString(lines[0]) {
		return nil
	}
	m := itemLinePattern.FindStringSubmatch(lines[1])
	if m == nil {
		return nil
	}

	item := models.ExtractedItem{
		Name:     cleanName(lines[0], lines[0]),
		Calories: atoiClamped(m[2]),
	}
	if len(lines) == 3 {
		if !applyMacroLine(&item, lines[2]) {
			return nil
		}
	}
	return []models.ExtractedItem{item}
}

// itemized handles multi-line answers where each line is "<item>: <N> cal"
// and no pipe-delimited total follows. A single matching line is enriched
// with macros from the following line instead.
func itemized(lines []string) []models.ExtractedItem {
	if hasTotalLine(lines) {
		return nil
	}

	var items []models.ExtractedItem
	matchedAt := -1
	for i, line := range lines {
		m := itemLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		items = append(items, models.ExtractedItem{
			Name:     cleanName(m[1], line),
			Calories: atoiClamped(m[2]),
		})
		matchedAt = i
	}

	if len(items) > 1 {
		return items
	}
	if len(items) == 1 && matchedAt+1 < len(lines) {
		if applyMacroLine(&items[0], lines[matchedAt+1]) {
			return items
		}
	}
	return nil
}

// itemizedWithTotal handles a component breakdown closed by an
// authoritative "<N> calories | P: .. | C: .. | F: .." line. Component
// names join into one composite display name and the total line supplies
// the calorie and macro figures.
func itemizedWithTotal(lines []string) []models.ExtractedItem {
	totalIdx := -1
	var total []string
	for i, line := range lines {
		if m := totalLinePattern.FindStringSubmatch(line); m != nil {
			totalIdx = i
			total = m
			break
		}
	}
	if totalIdx < 1 {
		return nil
	}

	var components []string
	for _, line := range lines[:totalIdx] {
		if m := itemLinePattern.FindStringSubmatch(line); m != nil {
			components = append(components, strings.TrimSpace(m[1]))
		}
	}
	if len(components) == 0 {
		return nil
	}

	item := models.ExtractedItem{
		Name:     compositeName(components),
		Calories: atoiClamped(total[1]),
	}
	applyShortMacros(&item, total[2])
	return []models.ExtractedItem{item}
}

// inline handles the single-line "<name> = <N> calories( burned)" form and
// its colon/dash equivalents.
func inline(lines []string) []models.ExtractedItem {
	for _, line := range lines {
		if rangePattern.MatchString(line) || approxPattern.MatchString(line) {
			continue
		}
		m := inlinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		return []models.ExtractedItem{{
			Name:     cleanName(m[1], line),
			Calories: roundCalories(parseFloat(m[2])),
			Burned:   m[3] != "",
		}}
	}
	return nil
}

// calorieRange handles "<name> = <low>-<high> calories"; the value is the
// arithmetic mean, rounded.
func calorieRange(lines []string) []models.ExtractedItem {
	for _, line := range lines {
		m := rangePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		mean := (parseFloat(m[2]) + parseFloat(m[3])) / 2
		return []models.ExtractedItem{{
			Name:     cleanName(m[1], line),
			Calories: roundCalories(mean),
			Burned:   m[4] != "",
		}}
	}
	return nil
}

// approximate handles "<name> = approximately <N> calories".
func approximate(lines []string) []models.ExtractedItem {
	for _, line := range lines {
		m := approxPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		return []models.ExtractedItem{{
			Name:     cleanName(m[1], line),
			Calories: roundCalories(parseFloat(m[2])),
			Burned:   m[3] != "",
		}}
	}
	return nil
}

// compositeName joins component names into a display name: "A with B" for
// two components, "A, B and C" for three or more.
func compositeName(components []string) string {
	switch len(components) {
	case 1:
		return components[0]
	case 2:
		return components[0] + " with " + components[1]
	default:
		return strings.Join(components[:len(components)-1], ", ") + " and " + components[len(components)-1]
	}
}

// cleanName strips leading serving-count phrases from a parsed name. When
// stripping leaves nothing usable, the name is re-derived from an
// "of <food>" clause in the original line.
func cleanName(name, originalLine string) string {
	cleaned := strings.TrimSpace(servingPrefixPattern.ReplaceAllString(strings.TrimSpace(name), ""))
	if cleaned == "" || strings.EqualFold(cleaned, "serving") || strings.EqualFold(cleaned, "servings") {
		if m := ofClausePattern.FindStringSubmatch(originalLine); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	if cleaned == "" {
		return strings.TrimSpace(name)
	}
	return cleaned
}

// applyMacroLine reads a "Protein: Xg | Carbs: Yg | Fat: Zg" line into the
// item. Returns false if the line carries no macro figures.
func applyMacroLine(item *models.ExtractedItem, line string) bool {
	matches := macroLinePattern.FindAllStringSubmatch(line, -1)
	found := false
	for _, m := range matches {
		switch {
		case m[1] != "":
			item.Protein = floatPtr(parseFloat(m[1]))
			found = true
		case m[2] != "":
			item.Carbs = floatPtr(parseFloat(m[2]))
			found = true
		case m[3] != "":
			item.Fat = floatPtr(parseFloat(m[3]))
			found = true
		}
	}
	return found
}

// applyShortMacros reads "P: 20g | C: 8g | F: 27g" segments into the item.
func applyShortMacros(item *models.ExtractedItem, segment string) {
	for _, m := range shortMacroPattern.FindAllStringSubmatch(segment, -1) {
		val := floatPtr(parseFloat(m[2]))
		switch strings.ToUpper(m[1]) {
		case "P":
			item.Protein = val
		case "C":
			item.Carbs = val
		case "F":
			item.Fat = val
		}
	}
}

func hasTotalLine(lines []string) bool {
	for _, line := range lines {
		if totalLinePattern.MatchString(line) {
			return true
		}
	}
	return false
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// roundCalories rounds to the nearest integer with a floor of 1.
func roundCalories(f float64) int {
	n := int(math.Round(f))
	if n < 1 {
		return 1
	}
	return n
}

func atoiClamped(s string) int {
	return roundCalories(parseFloat(s))
}

// parseFloat parses digit strings captured by the patterns above; the
// patterns guarantee valid input, so parse errors collapse to zero.
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func floatPtr(f float64) *float64 {
	return &f
}
