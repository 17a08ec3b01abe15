// Package extractor turns parsed article and homepage markup into wiki records.
// Every entry point is a pure read of the document tree: missing markup yields
// empty fields, never an error.
package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

const (
	titleSelector      = "h1.firstHeading"
	contentSelector    = "div.mw-parser-output"
	categorySelector   = "div#mw-normal-catlinks a"
	infoboxSelector    = "table.infobox"
	referenceSelector  = "li[id^='cite_note']"
	structuredSelector = "script[type='application/ld+json']"

	categoryContainerLabel = "Categories"
)

// Extractor holds the logger used to report skipped structured-data blocks.
type Extractor struct {
	logger *zap.Logger
}

// New builds an Extractor.
func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Parse builds a navigable document from a raw page body.
func Parse(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// Homepage summarizes a landing page.
func (e *Extractor) Homepage(doc *goquery.Document) wiki.HomepageRecord {
	rec := wiki.HomepageRecord{
		Title:    collapse(doc.Find("title").First().Text()),
		Links:    []wiki.Link{},
		Images:   []wiki.Image{},
		Headings: []wiki.Heading{},
		Scripts:  []string{},
	}
	if desc, ok := doc.Find("meta[name='description']").First().Attr("content"); ok {
		rec.MetaDescription = desc
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		rec.Links = append(rec.Links, wiki.Link{URL: href, Text: collapse(s.Text())})
	})
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		rec.Images = append(rec.Images, wiki.Image{Src: s.AttrOr("src", ""), Alt: s.AttrOr("alt", "")})
	})
	// grouped by level, then document order within a level
	for level := 1; level <= 6; level++ {
		doc.Find(fmt.Sprintf("h%d", level)).Each(func(_ int, s *goquery.Selection) {
			rec.Headings = append(rec.Headings, wiki.Heading{Level: level, Text: collapse(s.Text())})
		})
	}
	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		rec.Scripts = append(rec.Scripts, s.AttrOr("src", ""))
	})

	e.logger.Debug("extracted homepage",
		zap.Int("links", len(rec.Links)),
		zap.Int("images", len(rec.Images)),
	)
	return rec
}

// Article extracts an article page fetched from address.
func (e *Extractor) Article(doc *goquery.Document, address string) wiki.ArticleRecord {
	rec := wiki.ArticleRecord{
		URL:        address,
		Title:      collapse(doc.Find(titleSelector).First().Text()),
		Categories: []string{},
	}

	content := doc.Find(contentSelector).First()
	if content.Length() > 0 {
		// only a direct child paragraph counts as the summary
		rec.Summary = collapse(content.ChildrenFiltered("p").First().Text())
		rec.Content = blockText(content.Nodes[0])
	}

	doc.Find(categorySelector).Each(func(_ int, s *goquery.Selection) {
		if text := collapse(s.Text()); text != categoryContainerLabel {
			rec.Categories = append(rec.Categories, text)
		}
	})

	doc.Find(infoboxSelector).First().Find("tr").Each(func(_ int, row *goquery.Selection) {
		label := row.Find("th").First()
		value := row.Find("td").First()
		if label.Length() == 0 || value.Length() == 0 {
			return
		}
		rec.Infobox.Set(collapse(label.Text()), collapse(value.Text()))
	})

	rec.References = doc.Find(referenceSelector).Length()

	e.logger.Debug("extracted article",
		zap.String("url", address),
		zap.String("title", rec.Title),
		zap.Int("categories", len(rec.Categories)),
		zap.Int("infobox_facts", rec.Infobox.Len()),
		zap.Int("references", rec.References),
	)
	return rec
}

// StructuredData decodes every embedded JSON-LD block. A block that fails to
// decode is logged and skipped; the others are still returned.
func (e *Extractor) StructuredData(doc *goquery.Document) []wiki.StructuredDataEntry {
	entries := []wiki.StructuredDataEntry{}
	doc.Find(structuredSelector).Each(func(i int, s *goquery.Selection) {
		var entry any
		if err := json.Unmarshal([]byte(s.Text()), &entry); err != nil {
			e.logger.Warn("skipping structured data block",
				zap.Error(&wiki.MalformedDataError{Index: i, Err: err}),
			)
			return
		}
		entries = append(entries, entry)
	})
	return entries
}

// ArticleLinks returns up to limit distinct absolute article addresses linked
// from doc. Namespaced pages (those with a colon in the path) are skipped.
func ArticleLinks(doc *goquery.Document, site wiki.Site, limit int) []string {
	links := []string{}
	if limit <= 0 {
		return links
	}
	seen := make(map[string]struct{})
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if !strings.HasPrefix(href, "/wiki/") || strings.Contains(href, ":") {
			return true
		}
		full := site.ArticleURL(href)
		if _, dup := seen[full]; dup {
			return true
		}
		seen[full] = struct{}{}
		links = append(links, full)
		return len(links) < limit
	})
	return links
}

// collapse trims s and folds internal whitespace runs to a single space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// blockText joins every non-empty text node under root with newlines, skipping
// script and style content. Each node is whitespace-collapsed so a line never
// carries a stray break from the source markup.
func blockText(root *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if text := collapse(n.Data); text != "" {
				parts = append(parts, text)
			}
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(parts, "\n")
}
