package steps

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	illegalChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	llmMarker    = regexp.MustCompile(`^llm_\d+_\d+s_`)
)

const maxSanitizedRunes = 50

// ClonedLineFilename builds the "1_cloned/" output filename for a
// dialogue record: illegal filesystem characters replaced, a stray
// upstream "llm_<digits>_<n>s_" marker stripped, truncated to 50 code
// points, and prefixed with the record's sort index.
func ClonedLineFilename(sort int, text string) string {
	sanitized := illegalChars.ReplaceAllString(text, "_")
	sanitized = llmMarker.ReplaceAllString(sanitized, "")
	sanitized = truncateRunes(sanitized, maxSanitizedRunes)
	return fmt.Sprintf("%d_%s.wav", sort, sanitized)
}

// DisambiguateFilename suffixes name (without its .wav extension) with
// recordIndex, used when two dialogue records share a sort value.
func DisambiguateFilename(name string, recordIndex int) string {
	stem := strings.TrimSuffix(name, ".wav")
	return fmt.Sprintf("%s_%d.wav", stem, recordIndex)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
