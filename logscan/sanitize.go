package logscan

import (
	"regexp"
	"strings"

	"github.com/polaris-ci/polaris-cdash/model"
)

// FailureMarker is the text whose presence marks a log as failed.
const FailureMarker = "ERROR"

// ansiEscape matches two-byte escapes (ESC followed by @-Z, \, ], ^ or _)
// and CSI sequences (ESC [ params intermediates final).
var ansiEscape = regexp.MustCompile(`\x1B(?:[@-Z\\-_]|\[[0-?]*[ -/]*[@-~])`)

// StripANSI removes terminal escape sequences from text.
func StripANSI(text string) string {
	return ansiEscape.ReplaceAllString(text, "")
}

// Classify derives the status of a log from its sanitized content. The match
// is an exact, case-sensitive substring search.
func Classify(content string) model.TestStatus {
	if strings.Contains(content, FailureMarker) {
		return model.TestStatusFailed
	}
	return model.TestStatusPassed
}

// normalizeNewlines turns CRLF and lone CR line endings into LF.
func normalizeNewlines(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
