package router

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestSplitMessageShortText(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"hello"}, SplitMessage("hello", 10))
	require.Equal(t, []string{""}, SplitMessage("", 10))
}

func TestSplitMessagePrefersLineBreaks(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("a", 7) + "\n" + strings.Repeat("b", 7)
	parts := SplitMessage(text, 10)
	require.Equal(t, []string{"aaaaaaa", "bbbbbbb"}, parts)
}

func TestSplitMessageHardCut(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("x", 25)
	parts := SplitMessage(text, 10)
	require.Equal(t, []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)}, parts)
}

func TestSplitMessageIgnoresEarlyLineBreak(t *testing.T) {
	t.Parallel()

	text := "ab\n" + strings.Repeat("c", 20)
	parts := SplitMessage(text, 10)
	require.Equal(t, "ab\nccccccc", parts[0])
}

func TestSplitMessageKeepsRunesWhole(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("日本語", 3000)
	parts := SplitMessage(text, MaxMessageChars)
	require.Len(t, parts, 3)
	for _, p := range parts {
		require.True(t, utf8.ValidString(p))
		require.LessOrEqual(t, utf8.RuneCountInString(p), MaxMessageChars)
	}
	require.Equal(t, text, strings.Join(parts, ""))
}

func TestMarkdownHelpers(t *testing.T) {
	t.Parallel()

	require.Equal(t, `snake\_case \*star\* \[x]`, escape("snake_case *star* [x]"))
	require.Equal(t, "*C++ language*", bold("C++ *language*"))
	require.Equal(t, "[Go (lang)](https://en.wikipedia.org/wiki/Go_%28programming%20language%29)",
		link("Go [lang]", "https://en.wikipedia.org/wiki/Go_(programming language)"))
	require.Equal(t, "hél...", truncate("héllo", 3))
	require.Equal(t, "héllo", truncate("héllo", 5))
	require.Equal(t, "hé", clip("héllo", 2))
}
