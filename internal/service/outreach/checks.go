package outreach

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/gtmsuite/internal/core"
)

var errMissingScores = errors.New(`missing field "scores"`)

// checkChannel reports soft violations of the channel rules.
func checkChannel(res core.OutreachResult, spec ChannelSpec) []string {
	var warnings []string

	if spec.SubjectRequired && strings.TrimSpace(res.Subject) == "" {
		warnings = append(warnings, fmt.Sprintf("%s subject line is missing", spec.Name))
	}
	if n := countWords(res.Body); spec.MaxWords > 0 && n > spec.MaxWords {
		warnings = append(warnings, fmt.Sprintf("body has %d words, %s limit is %d", n, spec.Name, spec.MaxWords))
	}
	if n := countEmojis(res.Body); spec.MaxEmojis > 0 && n > spec.MaxEmojis {
		warnings = append(warnings, fmt.Sprintf("body has %d emojis, %s limit is %d", n, spec.Name, spec.MaxEmojis))
	}
	return warnings
}

func countWords(s string) int {
	return len(strings.Fields(s))
}

func countEmojis(s string) int {
	n := 0
	for _, r := range s {
		if isEmoji(r) {
			n++
		}
	}
	return n
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF:
		return true
	default:
		return false
	}
}
