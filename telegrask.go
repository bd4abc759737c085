// Package telegrask is a thin registration layer over github.com/go-telegram/bot.
//
// It lets a bot be assembled from plain callback functions: commands with
// aggregated help text, filtered message handlers, regex handlers and inline
// query handlers. The wrapped framework keeps ownership of update delivery;
// telegrask owns registration, routing and the generated /help command.
//
// Usage:
//
//	b, err := telegrask.New(token)
//	b.Command(telegrask.CommandParams{Commands: []string{"hello"}, Help: "greet"}, hello)
//	b.Run(ctx)
package telegrask

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/telegrask/telegrask/scheduler"
)

// HandlerFunc processes a single update.
type HandlerFunc func(ctx context.Context, b *bot.Bot, upd *models.Update)

// MiddlewareFunc wraps a HandlerFunc. Middleware installed with Use runs
// around every routed update.
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// Bot registers handlers and runs the update loop.
type Bot struct {
	api  *bot.Bot
	log  *slog.Logger
	disp *dispatcher

	router *router
	help   *helpIndex
	store  Store
	sched  *scheduler.Scheduler
	mw     []MiddlewareFunc

	workers     int
	helpEnabled bool
	customHelp  bool

	webhookURL    string
	webhookSecret string
	webhookAddr   string

	running atomic.Bool
}

// Option configures a Bot.
type Option func(*Bot)

// WithLogger sets the logger used for dispatch and lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bot) {
		if l != nil {
			b.log = l
		}
	}
}

// WithWorkers sets the dispatcher worker count (default 8).
func WithWorkers(n int) Option {
	return func(b *Bot) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithHelpDisabled turns off help aggregation and the generated /help and
// /start commands. Commands may then be registered without help text.
func WithHelpDisabled() Option {
	return func(b *Bot) { b.helpEnabled = false }
}

// WithStore attaches a persistence backend reachable from handlers via Store.
func WithStore(s Store) Option {
	return func(b *Bot) {
		if s != nil {
			b.store = s
		}
	}
}

// WithWebhook switches Run from long polling to webhook delivery. The
// webhook endpoint is served at addr behind a gin server.
func WithWebhook(url, secret, addr string) Option {
	return func(b *Bot) {
		b.webhookURL = url
		b.webhookSecret = secret
		b.webhookAddr = addr
	}
}

// New creates a Bot for the given token.
func New(token string, opts ...Option) (*Bot, error) {
	b := &Bot{
		log:         slog.Default(),
		router:      newRouter(),
		help:        newHelpIndex(),
		store:       NewMemoryStore(),
		workers:     8,
		helpEnabled: true,
	}
	for _, o := range opts {
		o(b)
	}
	b.router.log = b.log

	botOpts := []bot.Option{
		bot.WithDefaultHandler(func(ctx context.Context, api *bot.Bot, upd *models.Update) {
			b.dispatch(ctx, upd)
		}),
		bot.WithAllowedUpdates([]string{"message", "inline_query"}),
	}
	if b.webhookSecret != "" {
		botOpts = append(botOpts, bot.WithWebhookSecretToken(b.webhookSecret))
	}

	api, err := bot.New(token, botOpts...)
	if err != nil {
		return nil, Wrap(err, "telegrask: create bot")
	}
	b.api = api
	return b, nil
}

// API exposes the wrapped framework client for direct calls.
func (b *Bot) API() *bot.Bot { return b.api }

// Store returns the attached persistence backend.
func (b *Bot) Store() Store { return b.store }

// Use installs middleware around the routed handler chain. Must be called
// before Run.
func (b *Bot) Use(mw ...MiddlewareFunc) {
	b.mw = append(b.mw, mw...)
}

// Schedule adds a cron-spec background job started and stopped with Run.
// Spec accepts robfig/cron syntax including descriptors like "@every 5m".
func (b *Bot) Schedule(spec string, job scheduler.JobFunc) error {
	if b.sched == nil {
		b.sched = scheduler.New(scheduler.Config{Logger: b.log})
	}
	_, err := b.sched.AddCronJob(spec, job)
	return err
}

func (b *Bot) dispatch(ctx context.Context, upd *models.Update) {
	if d := b.disp; d != nil {
		d.dispatch(ctx, upd)
		return
	}
	// Updates arriving before Run wires the dispatcher are dropped.
	b.log.Debug("update before run, dropped", slog.Int64("update_id", upd.ID))
}

// Run registers the generated help command if needed and blocks serving
// updates until ctx is canceled. Webhook mode is used when WithWebhook was
// given, long polling otherwise.
func (b *Bot) Run(ctx context.Context) error {
	if b.running.Swap(true) {
		return ErrRunning
	}

	if b.helpEnabled && !b.customHelp {
		err := b.addCommand(CommandParams{
			Commands: []string{"help", "start"},
			Help:     "display this message",
		}, b.defaultHelpHandler)
		if err != nil {
			return err
		}
	}

	handler := b.router.route
	for i := len(b.mw) - 1; i >= 0; i-- {
		handler = b.mw[i](handler)
	}
	b.disp = newDispatcher(b.api, b.workers, handler)

	if b.sched != nil {
		b.sched.Start()
		defer b.sched.Stop()
	}

	b.log.Info("bot starting",
		slog.Int("workers", b.workers),
		slog.Bool("webhook", b.webhookURL != ""),
		slog.Bool("help", b.helpEnabled))

	if b.webhookURL != "" {
		return b.runWebhook(ctx)
	}

	go b.api.Start(ctx)
	<-ctx.Done()
	return nil
}

// sendText replies with plain text, logging failures instead of surfacing
// them to handlers.
func (b *Bot) sendText(ctx context.Context, chatID int64, text string, parseMode models.ParseMode) {
	params := &bot.SendMessageParams{ChatID: chatID, Text: text}
	if parseMode != "" {
		params.ParseMode = parseMode
	}
	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := b.api.SendMessage(sendCtx, params); err != nil {
		b.log.Error("send message", slog.Int64("chat_id", chatID), slog.Any("err", err))
	}
}
