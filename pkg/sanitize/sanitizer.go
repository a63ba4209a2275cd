// Package sanitize post-processes model answers before they reach the user
// or the structured extractor.
package sanitize

import (
	"regexp"
	"strings"
)

// ConfirmPrompt is the fixed phrase substituted for every banned
// "reply with Y" phrasing.
const ConfirmPrompt = "Tap confirm to log this food."

// realURLPattern matches the literal "[REAL URL: ...]" wrapper the model is
// instructed to emit around grounded links. The bare URL is kept.
var realURLPattern = regexp.MustCompile(`\[REAL URL:\s*([^\]]+)\]`)

// bannedConfirmations is the closed list of surface forms the upstream model
// is instructed never to use but unreliably avoids. Matched
// case-insensitively; each is replaced with ConfirmPrompt.
var bannedConfirmations = []string{
	`reply\s+with\s+the\s+letter\s+['"]?y['"]?\s+to\s+confirm[.!]?`,
	`reply\s+with\s+['"]?y['"]?\s+to\s+confirm[.!]?`,
	`reply\s+['"]?y['"]?\s+to\s+confirm[.!]?`,
	`respond\s+with\s+['"]?y['"]?\s+to\s+confirm[.!]?`,
	`type\s+['"]?y['"]?\s+to\s+confirm[.!]?`,
	`send\s+['"]?y['"]?\s+to\s+confirm[.!]?`,
	`press\s+['"]?y['"]?\s+to\s+confirm[.!]?`,
	`reply\s+['"]?y['"]?\s+to\s+log\s+(?:this|it)[.!]?`,
	`reply\s+['"]?yes['"]?\s+to\s+confirm[.!]?`,
	`confirm\s+with\s+a?\s*['"]?y['"]?[.!]?`,
}

var bannedPatterns = compileBanned()

func compileBanned() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(bannedConfirmations))
	for _, form := range bannedConfirmations {
		patterns = append(patterns, regexp.MustCompile(`(?i)`+form))
	}
	return patterns
}

// Sanitize applies the unconditional text transforms to a model answer:
// URL unwrapping and banned confirmation phrasing replacement. The
// transform is idempotent.
func Sanitize(modelText string) string {
	out := realURLPattern.ReplaceAllString(modelText, "$1")

	for _, p := range bannedPatterns {
		out = p.ReplaceAllString(out, ConfirmPrompt)
	}

	// Replacement can double up when the model already ended with the fixed
	// phrase; collapse repeats so a second pass is a no-op.
	for strings.Contains(out, ConfirmPrompt+" "+ConfirmPrompt) {
		out = strings.ReplaceAll(out, ConfirmPrompt+" "+ConfirmPrompt, ConfirmPrompt)
	}
	for strings.Contains(out, ConfirmPrompt+ConfirmPrompt) {
		out = strings.ReplaceAll(out, ConfirmPrompt+ConfirmPrompt, ConfirmPrompt)
	}

	return out
}
