package telegram

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/wiki-scraper/internal/router"
	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

type fakeAPI struct {
	updates chan tgbotapi.Update

	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	uploads  []string
	requests []tgbotapi.Chattable
	sendErrs []error
	stopped  bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{updates: make(chan tgbotapi.Update, 8)}
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	if doc, ok := c.(tgbotapi.DocumentConfig); ok {
		if fr, ok := doc.File.(tgbotapi.FileReader); ok {
			body, err := io.ReadAll(fr.Reader)
			if err != nil {
				return tgbotapi.Message{}, err
			}
			f.uploads = append(f.uploads, fr.Name+":"+string(body))
		}
	}
	if len(f.sendErrs) > 0 {
		err := f.sendErrs[0]
		f.sendErrs = f.sendErrs[1:]
		return tgbotapi.Message{}, err
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type recordingHandler struct {
	events chan router.Event
}

func (h *recordingHandler) Handle(_ context.Context, ev router.Event) {
	h.events <- ev
}

func commandUpdate(text string, userID, chatID int64) tgbotapi.Update {
	cmdLen := len(text)
	for i, r := range text {
		if r == ' ' {
			cmdLen = i
			break
		}
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		From:     &tgbotapi.User{ID: userID, FirstName: "Ada"},
		Chat:     &tgbotapi.Chat{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
	}}
}

func TestEventFromCommand(t *testing.T) {
	t.Parallel()
	b := New(newFakeAPI(), Config{}, zap.NewNop())

	ev, ok := b.event(commandUpdate("/search@WikiBot Go  language", 7, 99))
	require.True(t, ok)
	require.Equal(t, router.Event{
		UserID:    wiki.UserID(7),
		ChatID:    99,
		FirstName: "Ada",
		Action:    router.Search{Query: "Go language"},
	}, ev)
}

func TestEventFromCallback(t *testing.T) {
	t.Parallel()
	b := New(newFakeAPI(), Config{}, zap.NewNop())

	ev, ok := b.event(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-9",
		Data:    "lang:id",
		From:    &tgbotapi.User{ID: 7, FirstName: "Ada"},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: -100}},
	}})
	require.True(t, ok)
	require.Equal(t, router.SetLanguage{Lang: wiki.LanguageIndonesian}, ev.Action)
	require.Equal(t, "cb-9", ev.CallbackID)
	require.Equal(t, int64(-100), ev.ChatID)
	require.Equal(t, wiki.UserID(7), ev.UserID)
}

func TestEventDropsUnusableUpdates(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	b := New(api, Config{}, zap.NewNop())

	_, ok := b.event(tgbotapi.Update{Message: &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 1}}})
	require.False(t, ok)

	_, ok = b.event(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{ID: "cb", Data: "bogus"}})
	require.False(t, ok)
	require.Len(t, api.requests, 1, "unreadable callbacks are still acknowledged")

	_, ok = b.event(tgbotapi.Update{})
	require.False(t, ok)
}

func TestSendBuildsMarkdownMessage(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	b := New(api, Config{}, zap.NewNop())
	switchQuery := "/compare "

	err := b.Send(context.Background(), router.Reply{
		ChatID:         5,
		Text:           "*hi*",
		DisablePreview: true,
		Keyboard: [][]router.Button{
			{{Label: "PDF", Action: router.Pdf{Query: "Go"}}, {Label: "Again", SwitchQuery: &switchQuery}},
			{{Label: "Not a button", Action: router.Search{Query: "x"}}},
		},
	})
	require.NoError(t, err)

	require.Len(t, api.sent, 1)
	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	require.Equal(t, int64(5), msg.ChatID)
	require.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)
	require.True(t, msg.DisableWebPagePreview)

	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	row := markup.InlineKeyboard[0]
	require.Equal(t, "pdf:Go", *row[0].CallbackData)
	require.Equal(t, "/compare ", *row[1].SwitchInlineQueryCurrentChat)
}

func TestSendFallsBackToPlainText(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	api.sendErrs = []error{&tgbotapi.Error{Code: 400, Message: "Bad Request: can't parse entities: unmatched"}}
	b := New(api, Config{}, zap.NewNop())

	require.NoError(t, b.Send(context.Background(), router.Reply{ChatID: 1, Text: "a_b"}))

	require.Len(t, api.sent, 2)
	require.Empty(t, api.sent[1].(tgbotapi.MessageConfig).ParseMode)
	require.Nil(t, api.sent[0].(tgbotapi.MessageConfig).ReplyMarkup)
}

func TestSendReportsOtherErrors(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	api.sendErrs = []error{errors.New("timeout")}
	b := New(api, Config{}, zap.NewNop())

	err := b.Send(context.Background(), router.Reply{ChatID: 1, Text: "x"})
	require.ErrorContains(t, err, "timeout")
	require.Len(t, api.sent, 1)
}

func TestSendDocumentUploadsFile(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	b := New(api, Config{}, zap.NewNop())
	path := filepath.Join(t.TempDir(), "wikipedia_x.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.3"), 0o600))

	err := b.SendDocument(context.Background(), router.DocumentReply{ChatID: 3, Path: path, Filename: "Go.pdf", Caption: "📄 *Go*"})
	require.NoError(t, err)

	require.Equal(t, []string{"Go.pdf:%PDF-1.3"}, api.uploads)
	doc := api.sent[0].(tgbotapi.DocumentConfig)
	require.Equal(t, "📄 *Go*", doc.Caption)
	require.Equal(t, tgbotapi.ModeMarkdown, doc.ParseMode)

	require.Error(t, b.SendDocument(context.Background(), router.DocumentReply{ChatID: 3, Path: filepath.Join(t.TempDir(), "missing.pdf")}))
}

func TestAnswer(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	b := New(api, Config{}, zap.NewNop())

	require.NoError(t, b.Answer(context.Background(), "cb-1", "Saved"))
	cb := api.requests[0].(tgbotapi.CallbackConfig)
	require.Equal(t, "cb-1", cb.CallbackQueryID)
	require.Equal(t, "Saved", cb.Text)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, b.Answer(ctx, "cb-2", ""), context.Canceled)
}

func TestRunDispatchesUntilStreamEnds(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	b := New(api, Config{MaxInFlight: 2}, zap.NewNop())
	h := &recordingHandler{events: make(chan router.Event, 8)}

	api.updates <- commandUpdate("/start", 1, 1)
	api.updates <- tgbotapi.Update{Message: &tgbotapi.Message{Text: "just chatting", Chat: &tgbotapi.Chat{ID: 1}}}
	api.updates <- commandUpdate("/random", 2, 2)
	close(api.updates)

	require.NoError(t, b.Run(context.Background(), h))
	close(h.events)

	var actions []router.Action
	for ev := range h.events {
		actions = append(actions, ev.Action)
	}
	require.ElementsMatch(t, []router.Action{router.Start{}, router.Random{}}, actions)
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	b := New(api, Config{}, zap.NewNop())
	h := &recordingHandler{events: make(chan router.Event, 1)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx, h) }()

	api.updates <- commandUpdate("/help", 1, 1)
	select {
	case ev := <-h.events:
		require.Equal(t, router.Help{}, ev.Action)
		require.NoError(t, b.Ready(ctx))
	case <-time.After(time.Second):
		t.Fatal("event not dispatched")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
		require.Error(t, b.Ready(ctx))
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	require.True(t, api.stopped)
}

type blockingHandler struct {
	started chan router.Event
	release chan struct{}
}

func (h *blockingHandler) Handle(_ context.Context, ev router.Event) {
	h.started <- ev
	<-h.release
}

func TestRunStopsOnCancelWhileSaturated(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	b := New(api, Config{MaxInFlight: 1}, zap.NewNop())
	h := &blockingHandler{started: make(chan router.Event, 2), release: make(chan struct{})}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx, h) }()

	api.updates <- commandUpdate("/help", 1, 1)
	select {
	case <-h.started:
	case <-time.After(time.Second):
		t.Fatal("first event not dispatched")
	}
	// The only slot is busy, so this event waits for capacity.
	api.updates <- commandUpdate("/about", 2, 2)

	cancel()
	require.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return api.stopped
	}, time.Second, 10*time.Millisecond)

	close(h.release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	require.Empty(t, h.started)
}

func TestRunRequiresHandler(t *testing.T) {
	t.Parallel()
	require.Error(t, New(newFakeAPI(), Config{}, nil).Run(context.Background(), nil))
}
