package exporter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

func sampleRecord() wiki.ArticleRecord {
	rec := wiki.ArticleRecord{
		URL:        "https://en.wikipedia.org/wiki/AT%26T",
		Title:      "AT&T <Corporation>",
		Summary:    "AT&T Inc. is an American company; 1 < 2 > 0 and &lt; stays literal.",
		Content:    "First line\n\n  Second line  \nThird line",
		Categories: []string{"Companies", "Telecommunications"},
		References: 7,
	}
	rec.Infobox.Set("Type", "Public")
	rec.Infobox.Set("Traded as", "NYSE: T & S&P 100")
	rec.Infobox.Set("Founded", "<1983>")
	return rec
}

func styles(doc Document) []Style {
	out := make([]Style, 0, len(doc))
	for _, b := range doc {
		out = append(out, b.Style)
	}
	return out
}

func TestRenderOrdering(t *testing.T) {
	t.Parallel()

	doc := Render(sampleRecord())

	require.Equal(t, []Style{
		StyleTitle,
		StyleField,
		StyleHeading, StyleBody,
		StyleHeading, StyleBody,
		StyleHeading, StyleField, StyleField, StyleField,
		StyleHeading, StyleBody,
		StyleHeading, StyleBody, StyleBody, StyleBody,
	}, styles(doc))
	require.Equal(t, "Summary", doc[2].Text)
	require.Equal(t, "Categories", doc[4].Text)
	require.Equal(t, "Companies, Telecommunications", doc[5].Text)
	require.Equal(t, "Infobox", doc[6].Text)
	require.Equal(t, "References", doc[10].Text)
	require.Equal(t, "Total references: 7", doc[11].Text)
	require.Equal(t, "Content", doc[12].Text)
	require.Equal(t, "Second line", doc[14].Text)
}

func TestRenderEscapesMarkup(t *testing.T) {
	t.Parallel()

	doc := Render(sampleRecord())
	require.Equal(t, "AT&amp;T &lt;Corporation&gt;", doc[0].Text)
	require.Equal(t, "URL", doc[1].Label)
	require.Equal(t, "&lt;1983&gt;", doc[9].Text)
	for _, b := range doc {
		require.NotContains(t, b.Text, "<")
		require.NotContains(t, b.Label, "<")
	}
}

// reopen reads the title, summary and infobox back out of a rendered document.
func reopen(doc Document) (title, summary string, box wiki.Infobox) {
	section := ""
	for _, b := range doc {
		switch {
		case b.Style == StyleTitle:
			title = Unescape(b.Text)
		case b.Style == StyleHeading:
			section = b.Text
		case section == "Summary" && b.Style == StyleBody:
			summary = Unescape(b.Text)
		case section == "Infobox" && b.Style == StyleField:
			box.Set(Unescape(b.Label), Unescape(b.Text))
		}
	}
	return title, summary, box
}

func TestRenderRoundTrip(t *testing.T) {
	t.Parallel()

	rec := sampleRecord()
	title, summary, box := reopen(Render(rec))

	require.Equal(t, rec.Title, title)
	require.Equal(t, rec.Summary, summary)
	require.Equal(t, rec.Infobox.Facts(), box.Facts())
}

func TestRenderCapsCategoriesAndInfobox(t *testing.T) {
	t.Parallel()

	rec := wiki.ArticleRecord{URL: "https://en.wikipedia.org/wiki/X"}
	for i := 0; i < 15; i++ {
		rec.Categories = append(rec.Categories, string(rune('a'+i)))
		rec.Infobox.Set(string(rune('A'+i)), "v")
	}

	doc := Render(rec)
	var fields int
	for _, b := range doc {
		if b.Style == StyleField && b.Label != "URL" {
			fields++
		}
		if b.Style == StyleBody && strings.HasPrefix(b.Text, "a, ") {
			require.Equal(t, "a, b, c, d, e, f, g, h, i, j", b.Text)
		}
	}
	require.Equal(t, maxInfoboxFacts, fields)
}

func TestRenderSparseRecordKeepsReferences(t *testing.T) {
	t.Parallel()

	doc := Render(wiki.ArticleRecord{URL: "https://en.wikipedia.org/wiki/Empty"})
	require.Equal(t, Document{
		{Style: StyleField, Label: "URL", Text: "https://en.wikipedia.org/wiki/Empty"},
		{Style: StyleHeading, Text: "References"},
		{Style: StyleBody, Text: "Total references: 0"},
	}, doc)
}

func contentText(doc Document) string {
	var parts []string
	inContent := false
	for _, b := range doc {
		if b.Style == StyleHeading {
			inContent = b.Text == "Content"
			continue
		}
		if inContent {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func TestRenderContentBoundary(t *testing.T) {
	t.Parallel()

	exact := strings.Repeat("é", MaxContentChars)
	doc := Render(wiki.ArticleRecord{URL: "u", Content: exact})
	require.Equal(t, exact, contentText(doc))
	require.NotContains(t, contentText(doc), "truncated")

	over := exact + "x"
	doc = Render(wiki.ArticleRecord{URL: "u", Content: over})
	got := contentText(doc)
	require.Equal(t, exact+"\n"+strings.TrimSpace(TruncationMarker), got)
	require.NotContains(t, got, "éx")
}

func TestRenderLimitsParagraphs(t *testing.T) {
	t.Parallel()

	lines := make([]string, 80)
	for i := range lines {
		lines[i] = "line"
	}
	doc := Render(wiki.ArticleRecord{URL: "u", Content: strings.Join(lines, "\n")})
	require.Len(t, strings.Split(contentText(doc), "\n"), maxContentParagraphs)
}

func TestEscapeUnescape(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "plain", "a < b & c > d", "&amp; already", "&lt;tag&gt;"} {
		require.Equal(t, s, Unescape(Escape(s)))
	}
}
