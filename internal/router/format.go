package router

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageChars is the longest text sent in a single message.
const MaxMessageChars = 4000

var (
	markdownEscaper = strings.NewReplacer("_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`)
	linkTextCleaner = strings.NewReplacer("[", "(", "]", ")")
	linkURLEscaper  = strings.NewReplacer("(", "%28", ")", "%29", " ", "%20")
)

// escape makes user or article text safe outside Markdown entities.
func escape(s string) string {
	return markdownEscaper.Replace(s)
}

// bold wraps s in a bold entity. Escapes are not honored inside entities, so
// the delimiter is dropped from s instead.
func bold(s string) string {
	return "*" + strings.ReplaceAll(s, "*", "") + "*"
}

func link(text, url string) string {
	return "[" + linkTextCleaner.Replace(text) + "](" + linkURLEscaper.Replace(url) + ")"
}

// truncate cuts s to at most limit runes, appending "..." when it cut.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}

// clip cuts s to at most limit runes without a marker.
func clip(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

// SplitMessage breaks text into ordered parts of at most limit runes. A part
// ends at the last line break of its window when one exists in the second half
// of the window; otherwise it is cut at exactly limit runes.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 {
		return []string{text}
	}
	runes := []rune(text)
	var parts []string
	for len(runes) > limit {
		cut, skip := limit, 0
		for i := limit - 1; i >= limit/2; i-- {
			if runes[i] == '\n' {
				cut, skip = i, 1
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut+skip:]
	}
	return append(parts, string(runes))
}

func strPtr(s string) *string { return &s }
