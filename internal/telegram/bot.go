// Package telegram connects the command router to the Telegram Bot API. It
// long-polls for updates, turns them into router events and delivers the
// router's replies.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/JakeFAU/wiki-scraper/internal/router"
	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

var _ router.Sender = (*Bot)(nil)

// API is the subset of *tgbotapi.BotAPI the bot uses.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Handler processes one event to completion.
type Handler interface {
	Handle(ctx context.Context, ev router.Event)
}

// Config controls polling.
type Config struct {
	// PollTimeout is the long-poll duration requested from the server.
	PollTimeout time.Duration
	// MaxInFlight bounds concurrently handled events. Zero or less means
	// unbounded.
	MaxInFlight int
}

// Bot is a long-polling Telegram client that implements router.Sender.
type Bot struct {
	api     API
	cfg     Config
	logger  *zap.Logger
	polling atomic.Bool
}

// NewAPI authenticates with token and routes the client library's own logging
// through logger.
func NewAPI(token string, debug bool, logger *zap.Logger) (*tgbotapi.BotAPI, error) {
	if logger != nil {
		if err := tgbotapi.SetLogger(zap.NewStdLog(logger.Named("tgbotapi"))); err != nil {
			return nil, fmt.Errorf("set telegram logger: %w", err)
		}
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	api.Debug = debug
	return api, nil
}

// New builds a Bot on top of api.
func New(api API, cfg Config, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 60 * time.Second
	}
	return &Bot{api: api, cfg: cfg, logger: logger}
}

// Run polls for updates and hands each recognized event to h on its own
// goroutine. It returns once ctx is done or the update stream ends, after
// every in-flight event has finished.
func (b *Bot) Run(ctx context.Context, h Handler) error {
	if h == nil {
		return errors.New("telegram: handler is required")
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(b.cfg.PollTimeout / time.Second)
	updates := b.api.GetUpdatesChan(u)
	b.polling.Store(true)
	defer b.polling.Store(false)

	// In-flight events finish even after shutdown starts.
	handleCtx := context.WithoutCancel(ctx)
	var (
		g     errgroup.Group
		slots *semaphore.Weighted
	)
	if b.cfg.MaxInFlight > 0 {
		slots = semaphore.NewWeighted(int64(b.cfg.MaxInFlight))
	}
	stop := func() error {
		b.api.StopReceivingUpdates()
		b.logger.Info("stopping, waiting for in-flight events")
		return g.Wait()
	}
	b.logger.Info("polling for updates", zap.Duration("poll_timeout", b.cfg.PollTimeout))

	for {
		select {
		case <-ctx.Done():
			return stop()
		case update, ok := <-updates:
			if !ok {
				return g.Wait()
			}
			ev, ok := b.event(update)
			if !ok {
				continue
			}
			if slots != nil {
				// Acquire fails only once ctx is done; the event is dropped.
				if err := slots.Acquire(ctx, 1); err != nil {
					return stop()
				}
			}
			g.Go(func() error {
				if slots != nil {
					defer slots.Release(1)
				}
				h.Handle(handleCtx, ev)
				return nil
			})
		}
	}
}

// Ready reports whether Run is polling for updates.
func (b *Bot) Ready(context.Context) error {
	if !b.polling.Load() {
		return errors.New("not polling for updates")
	}
	return nil
}

// event converts an update into a router event. Plain text messages and
// unreadable button payloads are dropped.
func (b *Bot) event(update tgbotapi.Update) (router.Event, bool) {
	switch {
	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		action, err := router.ParseCallback(cq.Data)
		if err != nil {
			b.logger.Warn("dropping callback", zap.String("data", cq.Data), zap.Error(err))
			if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
				b.logger.Warn("answer callback failed", zap.Error(err))
			}
			return router.Event{}, false
		}
		ev := router.Event{Action: action, CallbackID: cq.ID}
		if cq.From != nil {
			ev.UserID = wiki.UserID(cq.From.ID)
			ev.ChatID = cq.From.ID
			ev.FirstName = cq.From.FirstName
		}
		if cq.Message != nil && cq.Message.Chat != nil {
			ev.ChatID = cq.Message.Chat.ID
		}
		return ev, true

	case update.Message != nil && update.Message.IsCommand():
		msg := update.Message
		ev := router.Event{Action: router.ParseCommand(msg.Command(), msg.CommandArguments())}
		if msg.From != nil {
			ev.UserID = wiki.UserID(msg.From.ID)
			ev.FirstName = msg.From.FirstName
		}
		if msg.Chat != nil {
			ev.ChatID = msg.Chat.ID
		}
		return ev, true
	}
	return router.Event{}, false
}

// Send delivers a text reply. A reply the server cannot parse as Markdown is
// resent as plain text.
func (b *Bot) Send(ctx context.Context, reply router.Reply) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(reply.ChatID, reply.Text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = reply.DisablePreview
	if markup, ok := b.keyboard(reply.Keyboard); ok {
		msg.ReplyMarkup = markup
	}

	_, err := b.api.Send(msg)
	if isParseError(err) {
		b.logger.Warn("markdown rejected, resending as plain text", zap.Int64("chat_id", reply.ChatID), zap.Error(err))
		msg.ParseMode = ""
		_, err = b.api.Send(msg)
	}
	if err != nil {
		return fmt.Errorf("send message to chat %d: %w", reply.ChatID, err)
	}
	return nil
}

// SendDocument uploads the file at doc.Path.
func (b *Bot) SendDocument(ctx context.Context, doc router.DocumentReply) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(doc.Path)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	upload := tgbotapi.NewDocument(doc.ChatID, tgbotapi.FileReader{Name: doc.Filename, Reader: f})
	upload.Caption = doc.Caption
	upload.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(upload); err != nil {
		return fmt.Errorf("send document to chat %d: %w", doc.ChatID, err)
	}
	return nil
}

// Answer acknowledges a button press, optionally with a toast.
func (b *Bot) Answer(ctx context.Context, callbackID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

func (b *Bot) keyboard(rows [][]router.Button) (tgbotapi.InlineKeyboardMarkup, bool) {
	var out [][]tgbotapi.InlineKeyboardButton
	for _, row := range rows {
		var buttons []tgbotapi.InlineKeyboardButton
		for _, btn := range row {
			if btn.SwitchQuery != nil {
				query := *btn.SwitchQuery
				buttons = append(buttons, tgbotapi.InlineKeyboardButton{Text: btn.Label, SwitchInlineQueryCurrentChat: &query})
				continue
			}
			data, ok := router.EncodeCallback(btn.Action)
			if !ok {
				b.logger.Warn("button action has no callback encoding", zap.String("label", btn.Label))
				continue
			}
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(btn.Label, data))
		}
		if len(buttons) > 0 {
			out = append(out, buttons)
		}
	}
	if len(out) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(out...), true
}

func isParseError(err error) bool {
	var apiErr *tgbotapi.Error
	return errors.As(err, &apiErr) && strings.Contains(apiErr.Message, "can't parse entities")
}
