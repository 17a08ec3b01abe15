package router

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

const (
	searchSummaryChars = 500
	randomSummaryChars = 400
	searchCategories   = 5
)

func homeKeyboard() [][]Button {
	return [][]Button{{{Label: "🏠 Back to Home", Action: Start{}}}}
}

func languageFlag(lang wiki.Language) string {
	switch lang {
	case wiki.LanguageEnglish:
		return "🇬🇧"
	case wiki.LanguageIndonesian:
		return "🇮🇩"
	default:
		return ""
	}
}

func (r *Router) start(ctx context.Context, req *request) string {
	r.sessions.Snapshot(req.UserID)
	r.send(ctx, req, Reply{
		Text: fmt.Sprintf(msgWelcome, bold(req.FirstName)),
		Keyboard: [][]Button{
			{{Label: "🔍 Search", SwitchQuery: strPtr("")}, {Label: "❓ Help", Action: Help{}}},
			{{Label: "🌍 Language", Action: LanguageMenu{}}, {Label: "📊 Stats", Action: Stats{}}},
		},
	})
	return outcomeOK
}

func (r *Router) help(ctx context.Context, req *request) string {
	r.send(ctx, req, Reply{Text: msgHelp, Keyboard: homeKeyboard()})
	return outcomeOK
}

func (r *Router) about(ctx context.Context, req *request) string {
	r.send(ctx, req, Reply{Text: msgAbout, DisablePreview: true, Keyboard: homeKeyboard()})
	return outcomeOK
}

func (r *Router) stats(ctx context.Context, req *request) string {
	s := r.sessions.Snapshot(req.UserID)
	lang := strings.TrimSpace(s.Language.Name() + " " + languageFlag(s.Language))
	r.send(ctx, req, Reply{
		Text:     fmt.Sprintf(msgStats, s.Searches, len(s.Bookmarks), lang),
		Keyboard: homeKeyboard(),
	})
	return outcomeOK
}

func (r *Router) languageMenu(ctx context.Context, req *request) string {
	current := r.sessions.Language(req.UserID)
	row := make([]Button, 0, len(wiki.Languages()))
	for _, lang := range wiki.Languages() {
		label := languageFlag(lang) + " " + lang.Name()
		if lang == current {
			label += " ✓"
		}
		row = append(row, Button{Label: label, Action: SetLanguage{Lang: lang}})
	}
	r.send(ctx, req, Reply{
		Text:     fmt.Sprintf(msgLanguageMenu, current.Name()),
		Keyboard: [][]Button{row, {{Label: "🏠 Back", Action: Start{}}}},
	})
	return outcomeOK
}

func (r *Router) setLanguage(ctx context.Context, req *request, lang wiki.Language) string {
	r.sessions.SetLanguage(req.UserID, lang)
	r.answer(ctx, req, fmt.Sprintf(msgLanguageChanged, lang.Name()))
	return r.languageMenu(ctx, req)
}

func (r *Router) search(ctx context.Context, req *request, query string) string {
	scraper, _ := r.scraperFor(req.UserID)
	address, err := scraper.Resolve(ctx, query)
	if err != nil {
		return r.fail(ctx, req, query, err)
	}
	rec, err := scraper.Article(ctx, address)
	if err != nil {
		return r.fail(ctx, req, query, err)
	}
	r.sessions.IncrementSearches(req.UserID)

	categories := rec.Categories
	if len(categories) > searchCategories {
		categories = categories[:searchCategories]
	}
	catText := escape(strings.Join(categories, ", "))
	if extra := len(rec.Categories) - searchCategories; extra > 0 {
		catText += fmt.Sprintf(" (+%d more)", extra)
	}

	text := fmt.Sprintf("✅ %s\n\n📝 *Summary:*\n%s\n\n📊 *Categories:* %s\n📚 *References:* %d\n\n🔗 %s",
		bold(rec.Title),
		escape(truncate(rec.Summary, searchSummaryChars)),
		catText,
		rec.References,
		link("Read on Wikipedia", rec.URL),
	)
	r.send(ctx, req, Reply{
		Text:           text,
		DisablePreview: true,
		Keyboard: [][]Button{
			{{Label: "📄 Export PDF", Action: Pdf{Query: query}}, {Label: "🔖 Bookmark", Action: Bookmark{Query: query}}},
			{{Label: "🔍 Search again", SwitchQuery: strPtr("")}},
		},
	})
	return outcomeOK
}

func (r *Router) pdf(ctx context.Context, req *request, query string) string {
	r.answer(ctx, req, msgPdfToast)
	scraper, lang := r.scraperFor(req.UserID)
	address, err := scraper.Resolve(ctx, query)
	if err != nil {
		return r.fail(ctx, req, query, err)
	}
	rec, err := scraper.Article(ctx, address)
	if err != nil {
		return r.fail(ctx, req, query, err)
	}

	id, err := r.ids.NewID()
	if err != nil {
		return r.fail(ctx, req, query, fmt.Errorf("name export file: %w", err))
	}
	dir := r.tempDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "wikipedia_"+id+".pdf")
	defer r.removeTemp(path)

	if err := r.exporter.Export(ctx, rec, path); err != nil {
		return r.fail(ctx, req, query, err)
	}
	err = r.sender.SendDocument(ctx, DocumentReply{
		ChatID:   req.ChatID,
		Path:     path,
		Filename: documentName(rec.Title, query),
		Caption:  fmt.Sprintf(msgPdfCaption, bold(rec.Title), strings.ToUpper(string(lang))),
	})
	if err != nil {
		return r.fail(ctx, req, query, fmt.Errorf("send document: %w", err))
	}
	r.sessions.IncrementSearches(req.UserID)
	return outcomeOK
}

func (r *Router) removeTemp(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		r.logger.Warn("remove temporary export failed", zap.String("path", path), zap.Error(err))
	}
}

// documentName derives an attachment name from the article title.
func documentName(title, fallback string) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = fallback
	}
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, name)
	return name + ".pdf"
}

func (r *Router) random(ctx context.Context, req *request) string {
	scraper, _ := r.scraperFor(req.UserID)
	rec, err := scraper.Random(ctx)
	if err != nil {
		return r.fail(ctx, req, "random", err)
	}
	text := fmt.Sprintf("🎲 *Random article*\n\n%s\n\n%s\n\n🔗 %s",
		bold(rec.Title),
		escape(truncate(rec.Summary, randomSummaryChars)),
		link("Read more", rec.URL),
	)
	r.send(ctx, req, Reply{
		Text:           text,
		DisablePreview: true,
		Keyboard: [][]Button{{
			{Label: "📄 Export PDF", Action: Pdf{Query: rec.Title}},
			{Label: "🎲 Random again", Action: Random{}},
		}},
	})
	return outcomeOK
}

func (r *Router) bookmark(ctx context.Context, req *request, query string) string {
	status := r.sessions.AddBookmark(req.UserID, query)
	if req.CallbackID != "" {
		if status == wiki.BookmarkAdded {
			r.answer(ctx, req, fmt.Sprintf(msgBookmarkAddedToast, query))
		} else {
			r.answer(ctx, req, msgBookmarkExistsToast)
		}
		return outcomeOK
	}
	if status == wiki.BookmarkAdded {
		r.send(ctx, req, Reply{Text: fmt.Sprintf(msgBookmarkAdded, bold(query))})
	} else {
		r.send(ctx, req, Reply{Text: fmt.Sprintf(msgBookmarkExists, bold(query))})
	}
	return outcomeOK
}

func (r *Router) listBookmarks(ctx context.Context, req *request) string {
	bookmarks := r.sessions.Snapshot(req.UserID).Bookmarks
	if len(bookmarks) == 0 {
		r.send(ctx, req, Reply{Text: msgNoBookmarks})
		return outcomeOK
	}
	var b strings.Builder
	b.WriteString("📚 *Your bookmarks:*\n\n")
	for i, bm := range bookmarks {
		fmt.Fprintf(&b, "%d. %s\n", i+1, escape(bm))
	}
	fmt.Fprintf(&b, "\n_Total: %d articles_", len(bookmarks))
	r.send(ctx, req, Reply{
		Text:     b.String(),
		Keyboard: [][]Button{{{Label: "🗑️ Clear All", Action: ClearBookmarks{}}}},
	})
	return outcomeOK
}

func (r *Router) clearBookmarks(ctx context.Context, req *request) string {
	r.sessions.ClearBookmarks(req.UserID)
	r.answer(ctx, req, msgBookmarksClearToast)
	r.send(ctx, req, Reply{
		Text:     msgBookmarksCleared,
		Keyboard: [][]Button{{{Label: "🏠 Home", Action: Start{}}}},
	})
	return outcomeOK
}
