// Package router turns inbound chat events into scraping operations and
// outbound replies. Each event is handled start to finish by Handle; callers
// run events for different users concurrently.
package router

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/wiki-scraper/internal/metrics"
	"github.com/JakeFAU/wiki-scraper/internal/policy/ratelimit"
	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

// Event is one inbound command or button press.
type Event struct {
	UserID    wiki.UserID
	ChatID    int64
	FirstName string
	Action    Action
	// CallbackID is set when the event came from an inline button.
	CallbackID string
}

// Button is an inline affordance attached to a reply. Exactly one of Action
// and SwitchQuery is set.
type Button struct {
	Label  string
	Action Action
	// SwitchQuery pre-fills the user's input field with the given text.
	SwitchQuery *string
}

// Reply is an outbound text message in legacy Markdown.
type Reply struct {
	ChatID         int64
	Text           string
	DisablePreview bool
	Keyboard       [][]Button
}

// DocumentReply is an outbound file attachment.
type DocumentReply struct {
	ChatID   int64
	Path     string
	Filename string
	Caption  string
}

// Sender delivers replies to the chat platform.
type Sender interface {
	Send(ctx context.Context, reply Reply) error
	SendDocument(ctx context.Context, doc DocumentReply) error
	Answer(ctx context.Context, callbackID, text string) error
}

// Scraper is the per-language bundle the router drives.
type Scraper interface {
	Resolve(ctx context.Context, query string) (string, error)
	Article(ctx context.Context, address string) (wiki.ArticleRecord, error)
	Random(ctx context.Context) (wiki.ArticleRecord, error)
}

// Exporter writes an article record to a file.
type Exporter interface {
	Export(ctx context.Context, rec wiki.ArticleRecord, path string) error
}

// IDGenerator names temporary export files.
type IDGenerator interface {
	NewID() (string, error)
}

// Config wires the router's collaborators.
type Config struct {
	Scrapers map[wiki.Language]Scraper
	Sessions wiki.SessionStore
	Cooldown *ratelimit.Cooldown
	Exporter Exporter
	Sender   Sender
	Clock    wiki.Clock
	IDs      IDGenerator
	// TempDir holds exports until they are delivered. Empty means os.TempDir.
	TempDir string
	Logger  *zap.Logger
}

// Router dispatches events.
type Router struct {
	scrapers map[wiki.Language]Scraper
	sessions wiki.SessionStore
	cooldown *ratelimit.Cooldown
	exporter Exporter
	sender   Sender
	clock    wiki.Clock
	ids      IDGenerator
	tempDir  string
	logger   *zap.Logger
}

// New validates cfg and builds a Router.
func New(cfg Config) (*Router, error) {
	switch {
	case len(cfg.Scrapers) == 0:
		return nil, errors.New("router: at least one scraper is required")
	case cfg.Scrapers[wiki.DefaultLanguage] == nil:
		return nil, fmt.Errorf("router: scraper for default language %q is required", wiki.DefaultLanguage)
	case cfg.Sessions == nil:
		return nil, errors.New("router: session store is required")
	case cfg.Exporter == nil:
		return nil, errors.New("router: exporter is required")
	case cfg.Sender == nil:
		return nil, errors.New("router: sender is required")
	case cfg.Clock == nil:
		return nil, errors.New("router: clock is required")
	case cfg.IDs == nil:
		return nil, errors.New("router: id generator is required")
	}
	if cfg.Cooldown == nil {
		cfg.Cooldown = ratelimit.NewCooldown(nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Router{
		scrapers: cfg.Scrapers,
		sessions: cfg.Sessions,
		cooldown: cfg.Cooldown,
		exporter: cfg.Exporter,
		sender:   cfg.Sender,
		clock:    cfg.Clock,
		ids:      cfg.IDs,
		tempDir:  cfg.TempDir,
		logger:   cfg.Logger,
	}, nil
}

// Command outcomes recorded in metrics.
const (
	outcomeOK          = "ok"
	outcomeUsage       = "usage"
	outcomeRateLimited = "rate_limited"
	outcomeNotFound    = "not_found"
	outcomeNetwork     = "network_error"
	outcomeExport      = "export_error"
	outcomeError       = "error"
	outcomePanic       = "panic"
)

// request carries one event through its handler.
type request struct {
	Event
	answered bool
}

type handlerFunc func(ctx context.Context, req *request) string

// Handle processes ev to completion. It never panics; a failing handler is
// logged and the user receives a generic error message.
func (r *Router) Handle(ctx context.Context, ev Event) {
	if ev.Action == nil {
		ev.Action = Unknown{}
	}
	req := &request{Event: ev}
	name := ev.Action.Name()
	logger := r.logger.With(zap.Int64("user_id", int64(ev.UserID)), zap.String("command", name))
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("command panicked", zap.Any("panic", rec), zap.Stack("stack"))
			metrics.ObserveCommand(name, outcomePanic)
			r.send(ctx, req, Reply{Text: msgGenericError})
		}
		if req.CallbackID != "" && !req.answered {
			r.answer(ctx, req, "")
		}
	}()

	logger.Debug("handling command")
	outcome := r.dispatch(ctx, req)
	metrics.ObserveCommand(name, outcome)
	logger.Info("command handled", zap.String("outcome", outcome), zap.Duration("duration", time.Since(start)))
}

func (r *Router) dispatch(ctx context.Context, req *request) string {
	switch a := req.Action.(type) {
	case Start:
		return r.start(ctx, req)
	case Help:
		return r.help(ctx, req)
	case About:
		return r.about(ctx, req)
	case Stats:
		return r.stats(ctx, req)
	case LanguageMenu:
		return r.languageMenu(ctx, req)
	case SetLanguage:
		return r.setLanguage(ctx, req, a.Lang)
	case Search:
		if a.Query == "" {
			return r.usage(ctx, req, msgSearchUsage)
		}
		return r.withCooldown(ratelimit.ClassSearch, func(ctx context.Context, req *request) string {
			return r.search(ctx, req, a.Query)
		})(ctx, req)
	case Pdf:
		if a.Query == "" {
			return r.usage(ctx, req, msgPdfUsage)
		}
		return r.withCooldown(ratelimit.ClassPDF, func(ctx context.Context, req *request) string {
			return r.pdf(ctx, req, a.Query)
		})(ctx, req)
	case Random:
		return r.withCooldown(ratelimit.ClassRandom, r.random)(ctx, req)
	case Compare:
		switch {
		case len(a.Topics) == 0:
			return r.usage(ctx, req, msgCompareUsage)
		case len(a.Topics) != 2 || a.Topics[0] == "" || a.Topics[1] == "":
			return r.usage(ctx, req, msgCompareTwoTopics)
		}
		return r.withCooldown(ratelimit.ClassCompare, func(ctx context.Context, req *request) string {
			return r.compare(ctx, req, a.Topics[0], a.Topics[1])
		})(ctx, req)
	case Bookmark:
		if a.Query == "" {
			return r.usage(ctx, req, msgBookmarkUsage)
		}
		return r.bookmark(ctx, req, a.Query)
	case ListBookmarks:
		return r.listBookmarks(ctx, req)
	case ClearBookmarks:
		return r.clearBookmarks(ctx, req)
	case Unknown:
		r.send(ctx, req, Reply{Text: msgUnknownCommand})
		return outcomeOK
	default:
		panic(fmt.Sprintf("router: unhandled action %T", a))
	}
}

// withCooldown rejects the command with a wait notice when the user's window
// for class has not elapsed.
func (r *Router) withCooldown(class ratelimit.Class, next handlerFunc) handlerFunc {
	return func(ctx context.Context, req *request) string {
		decision := r.cooldown.Allow(req.UserID, class, r.clock.Now())
		if !decision.Allowed {
			r.logger.Debug("command rate limited",
				zap.Int64("user_id", int64(req.UserID)),
				zap.String("class", string(class)),
				zap.Duration("wait", decision.Wait),
			)
			r.send(ctx, req, Reply{Text: fmt.Sprintf(msgRateLimited, decision.WaitSeconds())})
			return outcomeRateLimited
		}
		return next(ctx, req)
	}
}

func (r *Router) usage(ctx context.Context, req *request, text string) string {
	r.send(ctx, req, Reply{Text: text})
	return outcomeUsage
}

// scraperFor selects the bundle for the user's language.
func (r *Router) scraperFor(user wiki.UserID) (Scraper, wiki.Language) {
	lang := r.sessions.Language(user)
	if s, ok := r.scrapers[lang]; ok {
		return s, lang
	}
	return r.scrapers[wiki.DefaultLanguage], wiki.DefaultLanguage
}

// fail reports err to the user and returns the matching outcome.
func (r *Router) fail(ctx context.Context, req *request, query string, err error) string {
	text, outcome := failureText(query, err)
	r.logFailure(req, query, err)
	r.send(ctx, req, Reply{Text: text})
	return outcome
}

// failureText maps an error class to its user-facing message and outcome.
func failureText(query string, err error) (string, string) {
	switch {
	case errors.Is(err, wiki.ErrNotFound):
		return fmt.Sprintf(msgNotFound, bold(query)), outcomeNotFound
	case errors.Is(err, wiki.ErrNetwork):
		return msgNetworkError, outcomeNetwork
	case errors.Is(err, wiki.ErrExport):
		return msgExportError, outcomeExport
	default:
		return msgGenericError, outcomeError
	}
}

func (r *Router) logFailure(req *request, query string, err error) {
	r.logger.Warn("command failed",
		zap.Int64("user_id", int64(req.UserID)),
		zap.String("command", req.Action.Name()),
		zap.String("query", query),
		zap.Error(err),
	)
}

// send delivers reply, split into parts that fit the transport limit. Only
// the last part keeps the keyboard.
func (r *Router) send(ctx context.Context, req *request, reply Reply) {
	parts := SplitMessage(reply.Text, MaxMessageChars)
	for i, text := range parts {
		part := reply
		part.ChatID = req.ChatID
		part.Text = text
		if i < len(parts)-1 {
			part.Keyboard = nil
		}
		if err := r.sender.Send(ctx, part); err != nil {
			r.logger.Warn("send reply failed", zap.Int64("chat_id", req.ChatID), zap.Error(err))
			return
		}
	}
}

func (r *Router) answer(ctx context.Context, req *request, text string) {
	if req.CallbackID == "" || req.answered {
		return
	}
	req.answered = true
	if err := r.sender.Answer(ctx, req.CallbackID, text); err != nil {
		r.logger.Warn("answer callback failed", zap.String("callback_id", req.CallbackID), zap.Error(err))
	}
}
