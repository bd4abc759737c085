// Command examplebot demonstrates the registration API end to end:
// commands with generated help, filtered and regex message handlers, inline
// queries, persistent chat state, middleware and a scheduled job.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/telegrask/telegrask"
	"github.com/telegrask/telegrask/config"
	"github.com/telegrask/telegrask/filter"
	"github.com/telegrask/telegrask/logger"
	"github.com/telegrask/telegrask/middleware"
	"github.com/telegrask/telegrask/store/pgstore"
	"github.com/telegrask/telegrask/store/sqlitestore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, closeLog := logger.New(logger.Options{
		App:          "examplebot",
		Dev:          cfg.Env == "dev",
		ConsoleLevel: cfg.Log.ConsoleLevel,
		FileLevel:    cfg.Log.FileLevel,
		File:         cfg.Log.File,
	})
	defer closeLog.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := []telegrask.Option{
		telegrask.WithLogger(log),
		telegrask.WithWorkers(cfg.Bot.Workers),
		telegrask.WithStore(st),
	}
	if !cfg.Bot.HelpMessage {
		opts = append(opts, telegrask.WithHelpDisabled())
	}
	if cfg.Telegram.WebhookURL != "" {
		opts = append(opts, telegrask.WithWebhook(cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret, cfg.HTTP.Addr))
	}

	b, err := telegrask.New(cfg.Telegram.Token, opts...)
	if err != nil {
		return err
	}

	if ids := middleware.ParseAllowedIDs(cfg.Bot.AllowedIDs); len(ids) > 0 {
		acl := middleware.NewACL(ids)
		acl.Reply = "access denied"
		b.Use(acl.Middleware)
	}
	rate := middleware.NewRateLimiter(time.Second)
	b.Use(rate.Middleware)

	err = b.Command(telegrask.CommandParams{
		Commands: []string{"echo", "say"},
		Help:     "repeat the given text",
	}, func(ctx context.Context, api *bot.Bot, upd *models.Update) {
		args := telegrask.CommandArgs(upd.Message)
		text := "nothing to echo"
		if len(args) > 0 {
			text = strings.Join(args, " ")
		}
		_, _ = api.SendMessage(ctx, &bot.SendMessageParams{ChatID: upd.Message.Chat.ID, Text: text})
	})
	if err != nil {
		return err
	}

	err = b.Command(telegrask.CommandParams{
		Commands: []string{"count"},
		Help:     "count messages seen in this chat",
	}, func(ctx context.Context, api *bot.Bot, upd *models.Update) {
		n, _ := chatCount(ctx, b.Store(), upd.Message.Chat.ID)
		_, _ = api.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: upd.Message.Chat.ID,
			Text:   fmt.Sprintf("seen %d messages here", n),
		})
	})
	if err != nil {
		return err
	}

	// Counts every non-command text message per chat.
	err = b.Message(filter.And(filter.Text, filter.Not(filter.Command)), func(ctx context.Context, api *bot.Bot, upd *models.Update) {
		chatID := upd.Message.Chat.ID
		n, _ := chatCount(ctx, b.Store(), chatID)
		if err := b.Store().Set(ctx, chatID, "count", strconv.FormatInt(n+1, 10)); err != nil {
			log.Error("store set", slog.Any("err", err))
		}
	})
	if err != nil {
		return err
	}

	if err := b.MessageRegex(`(?i)\bping\b`, func(ctx context.Context, api *bot.Bot, upd *models.Update) {
		_, _ = api.SendMessage(ctx, &bot.SendMessageParams{ChatID: upd.Message.Chat.ID, Text: "pong"})
	}); err != nil {
		return err
	}

	err = b.InlineQuery(func(ctx context.Context, q *telegrask.Query) {
		text := q.Text()
		if text == "" {
			text = "(empty)"
		}
		err := q.Answer(ctx, []models.InlineQueryResult{
			telegrask.Article("echo", "Echo", text),
			telegrask.Article("shout", "Shout", strings.ToUpper(text)),
		})
		if err != nil {
			log.Error("answer inline query", slog.Any("err", err))
		}
	})
	if err != nil {
		return err
	}

	if err := b.Schedule("@every 1h", func(ctx context.Context) error {
		log.Info("hourly heartbeat")
		return nil
	}); err != nil {
		return err
	}

	return b.Run(ctx)
}

func chatCount(ctx context.Context, st telegrask.Store, chatID int64) (int64, error) {
	v, err := st.Get(ctx, chatID, "count")
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(v, 10, 64)
}

func openStore(ctx context.Context, cfg config.Config) (telegrask.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return sqlitestore.Open(cfg.Store.DSN, sqlitestore.DefaultOptions())
	case "postgres":
		return pgstore.Open(ctx, cfg.Store.DSN)
	default:
		return telegrask.NewMemoryStore(), nil
	}
}
