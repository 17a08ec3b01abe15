package router

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

// Action is one parsed inbound request. The set of variants is closed; the
// router dispatches on the concrete type.
type Action interface {
	// Name is the command name used in logs and metrics.
	Name() string
	isAction()
}

// Start shows the welcome screen.
type Start struct{}

// Help lists the available commands.
type Help struct{}

// About describes the bot.
type About struct{}

// Stats shows the user's session counters.
type Stats struct{}

// LanguageMenu offers the language choices.
type LanguageMenu struct{}

// SetLanguage switches the user's edition.
type SetLanguage struct{ Lang wiki.Language }

// Search looks up an article and summarizes it.
type Search struct{ Query string }

// Pdf exports an article as a PDF document.
type Pdf struct{ Query string }

// Random summarizes a random article.
type Random struct{}

// Compare contrasts two articles. Topics holds the "vs"-separated parts; any
// count other than two is a usage error.
type Compare struct{ Topics []string }

// Bookmark saves a query for later.
type Bookmark struct{ Query string }

// ListBookmarks shows the saved queries.
type ListBookmarks struct{}

// ClearBookmarks removes every saved query.
type ClearBookmarks struct{}

// Unknown is any command the router does not recognize.
type Unknown struct{ Command string }

func (Start) Name() string          { return "start" }
func (Help) Name() string           { return "help" }
func (About) Name() string          { return "about" }
func (Stats) Name() string          { return "stats" }
func (LanguageMenu) Name() string   { return "language" }
func (SetLanguage) Name() string    { return "set_language" }
func (Search) Name() string         { return "search" }
func (Pdf) Name() string            { return "pdf" }
func (Random) Name() string         { return "random" }
func (Compare) Name() string        { return "compare" }
func (Bookmark) Name() string       { return "bookmark" }
func (ListBookmarks) Name() string  { return "bookmarks" }
func (ClearBookmarks) Name() string { return "clear_bookmarks" }
func (Unknown) Name() string        { return "unknown" }

func (Start) isAction()          {}
func (Help) isAction()           {}
func (About) isAction()          {}
func (Stats) isAction()          {}
func (LanguageMenu) isAction()   {}
func (SetLanguage) isAction()    {}
func (Search) isAction()         {}
func (Pdf) isAction()            {}
func (Random) isAction()         {}
func (Compare) isAction()        {}
func (Bookmark) isAction()       {}
func (ListBookmarks) isAction()  {}
func (ClearBookmarks) isAction() {}
func (Unknown) isAction()        {}

var versusPattern = regexp.MustCompile(`(?i)\s+vs\s+`)

// ParseCommand turns a slash command and its argument text into an Action.
// name may carry the leading slash and a trailing @botname.
func ParseCommand(name, args string) Action {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "/"))
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	args = strings.Join(strings.Fields(args), " ")

	switch name {
	case "start":
		return Start{}
	case "help":
		return Help{}
	case "about":
		return About{}
	case "stats":
		return Stats{}
	case "language":
		return LanguageMenu{}
	case "search":
		return Search{Query: args}
	case "pdf":
		return Pdf{Query: args}
	case "random":
		return Random{}
	case "compare":
		return Compare{Topics: splitTopics(args)}
	case "bookmark":
		return Bookmark{Query: args}
	case "bookmarks":
		return ListBookmarks{}
	case "clear_bookmarks":
		return ClearBookmarks{}
	default:
		return Unknown{Command: name}
	}
}

func splitTopics(args string) []string {
	if args == "" || !versusPattern.MatchString(args) {
		return nil
	}
	parts := versusPattern.Split(args, -1)
	topics := make([]string, 0, len(parts))
	for _, p := range parts {
		topics = append(topics, strings.TrimSpace(p))
	}
	return topics
}

// Callback data tags.
const (
	callbackStart          = "start"
	callbackHelp           = "help"
	callbackLanguage       = "language"
	callbackStats          = "stats"
	callbackRandom         = "random"
	callbackClearBookmarks = "clear_bookmarks"
	callbackLangPrefix     = "lang:"
	callbackPdfPrefix      = "pdf:"
	callbackBookmarkPrefix = "bookmark:"
)

// MaxCallbackBytes is the platform limit on button payloads.
const MaxCallbackBytes = 64

// ParseCallback decodes button payload data produced by EncodeCallback.
func ParseCallback(data string) (Action, error) {
	switch data {
	case callbackStart:
		return Start{}, nil
	case callbackHelp:
		return Help{}, nil
	case callbackLanguage:
		return LanguageMenu{}, nil
	case callbackStats:
		return Stats{}, nil
	case callbackRandom:
		return Random{}, nil
	case callbackClearBookmarks:
		return ClearBookmarks{}, nil
	}

	switch {
	case strings.HasPrefix(data, callbackLangPrefix):
		lang, err := wiki.ParseLanguage(strings.TrimPrefix(data, callbackLangPrefix))
		if err != nil {
			return nil, fmt.Errorf("parse callback %q: %w", data, err)
		}
		return SetLanguage{Lang: lang}, nil
	case strings.HasPrefix(data, callbackPdfPrefix):
		return Pdf{Query: strings.TrimSpace(strings.TrimPrefix(data, callbackPdfPrefix))}, nil
	case strings.HasPrefix(data, callbackBookmarkPrefix):
		return Bookmark{Query: strings.TrimSpace(strings.TrimPrefix(data, callbackBookmarkPrefix))}, nil
	}
	return nil, fmt.Errorf("unknown callback %q", data)
}

// EncodeCallback renders a as button payload data. Only actions reachable from
// buttons can be encoded; queries are cut to fit MaxCallbackBytes.
func EncodeCallback(a Action) (string, bool) {
	switch a := a.(type) {
	case Start:
		return callbackStart, true
	case Help:
		return callbackHelp, true
	case LanguageMenu:
		return callbackLanguage, true
	case Stats:
		return callbackStats, true
	case Random:
		return callbackRandom, true
	case ClearBookmarks:
		return callbackClearBookmarks, true
	case SetLanguage:
		return callbackLangPrefix + string(a.Lang), true
	case Pdf:
		return fitCallback(callbackPdfPrefix, a.Query), true
	case Bookmark:
		return fitCallback(callbackBookmarkPrefix, a.Query), true
	default:
		return "", false
	}
}

func fitCallback(prefix, query string) string {
	limit := MaxCallbackBytes - len(prefix)
	for len(query) > limit {
		_, size := utf8.DecodeLastRuneInString(query)
		query = query[:len(query)-size]
	}
	return prefix + query
}
