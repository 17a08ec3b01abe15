package router

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

const (
	compareCategoryPool = 10
	compareLabelPool    = 10
	compareShown        = 3
	compareValueChars   = 50
	compareSummaryChars = 200
	compareButtonChars  = 15
	compareDivider      = "━━━━━━━━━━━━━━━━━━━━"
)

// Comparison is the pure result of contrasting two articles.
type Comparison struct {
	Left  wiki.ArticleRecord
	Right wiki.ArticleRecord
	// CommonCategories intersects the first ten categories of each side, in
	// the left article's order.
	CommonCategories []string
	// CommonLabels intersects the infobox labels, in the left article's
	// order, keeping at most ten.
	CommonLabels []string
}

// compareArticles contrasts left and right.
func compareArticles(left, right wiki.ArticleRecord) Comparison {
	c := Comparison{Left: left, Right: right}

	rightCats := right.Categories
	if len(rightCats) > compareCategoryPool {
		rightCats = rightCats[:compareCategoryPool]
	}
	leftCats := left.Categories
	if len(leftCats) > compareCategoryPool {
		leftCats = leftCats[:compareCategoryPool]
	}
	for _, cat := range leftCats {
		if slices.Contains(rightCats, cat) && !slices.Contains(c.CommonCategories, cat) {
			c.CommonCategories = append(c.CommonCategories, cat)
		}
	}

	for _, label := range left.Infobox.Labels() {
		if len(c.CommonLabels) == compareLabelPool {
			break
		}
		if _, ok := right.Infobox.Get(label); ok {
			c.CommonLabels = append(c.CommonLabels, label)
		}
	}
	return c
}

// sideError attributes a failure to one side of a comparison.
type sideError struct {
	position string
	topic    string
	err      error
}

func (e *sideError) Error() string {
	return fmt.Sprintf("%s article %q: %v", e.position, e.topic, e.err)
}

func (e *sideError) Unwrap() error { return e.err }

func (r *Router) compare(ctx context.Context, req *request, leftTopic, rightTopic string) string {
	scraper, _ := r.scraperFor(req.UserID)

	var left, right wiki.ArticleRecord
	g, gctx := errgroup.WithContext(ctx)
	fetch := func(position, topic string, out *wiki.ArticleRecord) func() error {
		return func() error {
			address, err := scraper.Resolve(gctx, topic)
			if err == nil {
				*out, err = scraper.Article(gctx, address)
			}
			if err != nil {
				return &sideError{position: position, topic: topic, err: err}
			}
			return nil
		}
	}
	g.Go(fetch("first", leftTopic, &left))
	g.Go(fetch("second", rightTopic, &right))

	if err := g.Wait(); err != nil {
		var side *sideError
		if !errors.As(err, &side) {
			return r.fail(ctx, req, leftTopic, err)
		}
		text, outcome := failureText(side.topic, err)
		r.logFailure(req, side.topic, err)
		r.send(ctx, req, Reply{Text: fmt.Sprintf(msgCompareSideFailed, side.position, bold(side.topic)) + "\n\n" + text})
		return outcome
	}

	r.send(ctx, req, Reply{
		Text:           formatComparison(compareArticles(left, right)),
		DisablePreview: true,
		Keyboard: [][]Button{
			{
				{Label: "📄 PDF " + clip(left.Title, compareButtonChars), Action: Pdf{Query: leftTopic}},
				{Label: "📄 PDF " + clip(right.Title, compareButtonChars), Action: Pdf{Query: rightTopic}},
			},
			{{Label: "🔍 Compare again", SwitchQuery: strPtr("/compare ")}},
		},
	})
	r.sessions.IncrementSearches(req.UserID)
	return outcomeOK
}

func formatComparison(c Comparison) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s\n\n", bold("Comparison: "+c.Left.Title+" vs "+c.Right.Title))

	b.WriteString(compareDivider + "\n")
	writeArticleStats(&b, c.Left)
	b.WriteString("\n")
	writeArticleStats(&b, c.Right)
	b.WriteString(compareDivider + "\n\n")

	if len(c.CommonCategories) > 0 {
		b.WriteString("*🔗 Common categories:*\n")
		for i, cat := range c.CommonCategories {
			if i == compareShown {
				break
			}
			fmt.Fprintf(&b, "• %s\n", escape(cat))
		}
		if extra := len(c.CommonCategories) - compareShown; extra > 0 {
			fmt.Fprintf(&b, "_... and %d more_\n", extra)
		}
		b.WriteString("\n")
	}

	if c.Left.Infobox.Len() > 0 && c.Right.Infobox.Len() > 0 {
		b.WriteString("*📋 Infobox comparison:*\n")
		for i, label := range c.CommonLabels {
			if i == compareShown {
				break
			}
			lv, _ := c.Left.Infobox.Get(label)
			rv, _ := c.Right.Infobox.Get(label)
			fmt.Fprintf(&b, "\n%s\n", bold(label+":"))
			fmt.Fprintf(&b, "  1️⃣ %s\n", escape(truncate(lv, compareValueChars)))
			fmt.Fprintf(&b, "  2️⃣ %s\n", escape(truncate(rv, compareValueChars)))
		}
		b.WriteString("\n")
	}

	b.WriteString("*📄 Summaries:*\n\n")
	fmt.Fprintf(&b, "%s\n%s\n\n", bold(c.Left.Title+":"), escape(truncate(c.Left.Summary, compareSummaryChars)))
	fmt.Fprintf(&b, "%s\n%s\n\n", bold(c.Right.Title+":"), escape(truncate(c.Right.Summary, compareSummaryChars)))

	b.WriteString("*🔗 Read more:*\n")
	b.WriteString(link(c.Left.Title, c.Left.URL) + "\n")
	b.WriteString(link(c.Right.Title, c.Right.URL))
	return b.String()
}

func writeArticleStats(b *strings.Builder, rec wiki.ArticleRecord) {
	fmt.Fprintf(b, "%s\n", bold("📝 "+rec.Title))
	fmt.Fprintf(b, "• Categories: %d\n", len(rec.Categories))
	fmt.Fprintf(b, "• References: %d\n", rec.References)
	fmt.Fprintf(b, "• Length: %d characters\n", utf8.RuneCountInString(rec.Content))
}
