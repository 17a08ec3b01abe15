// Package exporter renders article records into styled block documents and
// writes them to PDF files.
package exporter

import (
	"fmt"
	"strings"

	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

// Style tags a block with its typographic role.
type Style string

// Block styles understood by sinks.
const (
	StyleTitle   Style = "title"
	StyleHeading Style = "heading"
	StyleBody    Style = "body"
	// StyleField renders Label in bold followed by Text.
	StyleField Style = "field"
)

// Block is one styled paragraph. Label and Text are markup-escaped.
type Block struct {
	Style Style
	Label string
	Text  string
}

// Document is the ordered list of blocks handed to a Sink.
type Document []Block

const (
	// MaxContentChars bounds the article body rendered into a document.
	MaxContentChars = 5000
	// TruncationMarker is appended when the body exceeds MaxContentChars.
	TruncationMarker = "\n\n... (Content truncated for PDF export)"

	maxContentParagraphs = 50
	maxCategories        = 10
	maxInfoboxFacts      = 10
)

var (
	escaper   = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	unescaper = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")
)

// Escape replaces the characters that carry meaning in paragraph markup.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape reverses Escape.
func Unescape(s string) string {
	return unescaper.Replace(s)
}

// Render lays out rec as title, address, summary, categories, infobox,
// reference count and a capped body, in that order. Sections with nothing to
// show are omitted, except the reference count.
func Render(rec wiki.ArticleRecord) Document {
	var doc Document

	if rec.Title != "" {
		doc = append(doc, Block{Style: StyleTitle, Text: Escape(rec.Title)})
	}
	if rec.URL != "" {
		doc = append(doc, Block{Style: StyleField, Label: "URL", Text: Escape(rec.URL)})
	}
	if rec.Summary != "" {
		doc = append(doc,
			Block{Style: StyleHeading, Text: "Summary"},
			Block{Style: StyleBody, Text: Escape(rec.Summary)},
		)
	}
	if len(rec.Categories) > 0 {
		cats := rec.Categories
		if len(cats) > maxCategories {
			cats = cats[:maxCategories]
		}
		doc = append(doc,
			Block{Style: StyleHeading, Text: "Categories"},
			Block{Style: StyleBody, Text: Escape(strings.Join(cats, ", "))},
		)
	}
	if rec.Infobox.Len() > 0 {
		doc = append(doc, Block{Style: StyleHeading, Text: "Infobox"})
		for i, fact := range rec.Infobox.Facts() {
			if i == maxInfoboxFacts {
				break
			}
			doc = append(doc, Block{Style: StyleField, Label: Escape(fact.Label), Text: Escape(fact.Value)})
		}
	}
	doc = append(doc,
		Block{Style: StyleHeading, Text: "References"},
		Block{Style: StyleBody, Text: fmt.Sprintf("Total references: %d", rec.References)},
	)
	if rec.Content != "" {
		doc = append(doc, Block{Style: StyleHeading, Text: "Content"})
		doc = append(doc, contentBlocks(rec.Content)...)
	}
	return doc
}

func contentBlocks(content string) []Block {
	if runes := []rune(content); len(runes) > MaxContentChars {
		content = string(runes[:MaxContentChars]) + TruncationMarker
	}
	paragraphs := strings.Split(Escape(content), "\n")
	if len(paragraphs) > maxContentParagraphs {
		paragraphs = paragraphs[:maxContentParagraphs]
	}
	blocks := make([]Block, 0, len(paragraphs))
	for _, p := range paragraphs {
		if p = strings.TrimSpace(p); p != "" {
			blocks = append(blocks, Block{Style: StyleBody, Text: p})
		}
	}
	return blocks
}
