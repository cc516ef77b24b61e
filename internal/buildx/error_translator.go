package buildx

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxHintRunes bounds the length of a hint taken from an ERROR line.
const maxHintRunes = 200

// ErrorTranslator converts buildx failure output to short, actionable hints.
type ErrorTranslator struct{}

// NewErrorTranslator creates a new error translator.
func NewErrorTranslator() *ErrorTranslator {
	return &ErrorTranslator{}
}

var (
	errorLinePattern = regexp.MustCompile(`^(?:#\d+\s+)?(?:\d+(?:\.\d+)?\s+)?ERROR:?\s*(.*)$`)
	stepPrefix       = regexp.MustCompile(`^#\d+\s+(?:\d+(?:\.\d+)?\s+)?`)
)

// Translate returns a hint for the given output tail, or "" when nothing
// recognizable was printed.
func (t *ErrorTranslator) Translate(lines []string) string {
	output := strings.Join(lines, "\n")
	lower := strings.ToLower(output)

	switch {
	case strings.Contains(lower, "cannot connect to the docker daemon"):
		return "Docker daemon is not reachable"
	case strings.Contains(lower, "failed to read dockerfile"),
		strings.Contains(lower, "dockerfile: no such file or directory"):
		return "Dockerfile not found: check --image-path and the OS variant"
	case strings.Contains(lower, "denied: requested access"),
		strings.Contains(lower, "unauthorized: authentication required"),
		strings.Contains(lower, "insufficient_scope"):
		return "Registry rejected the push: check registry credentials"
	case strings.Contains(lower, "exec format error"),
		strings.Contains(lower, "no match for platform"):
		return "Platform not supported by the builder: is binfmt/QEMU configured?"
	case strings.Contains(lower, "no space left on device"):
		return "Builder ran out of disk space"
	}

	return t.lastError(lines)
}

// lastError extracts the last ERROR line, stripped of buildx step prefixes.
func (t *ErrorTranslator) lastError(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if m := errorLinePattern.FindStringSubmatch(line); m != nil {
			return t.cleanError(m[1])
		}
	}
	return ""
}

// cleanError removes buildx step numbering and trims overly long messages.
func (t *ErrorTranslator) cleanError(msg string) string {
	cleaned := strings.TrimSpace(stepPrefix.ReplaceAllString(msg, ""))
	if utf8.RuneCountInString(cleaned) > maxHintRunes {
		cleaned = string([]rune(cleaned)[:maxHintRunes]) + "..."
	}
	return cleaned
}
