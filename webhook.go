package telegrask

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot"
)

// runWebhook registers the webhook with Telegram and serves the framework's
// webhook handler behind a gin server until ctx is canceled.
func (b *Bot) runWebhook(ctx context.Context) error {
	_, err := b.api.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:         b.webhookURL,
		SecretToken: b.webhookSecret,
	})
	if err != nil {
		return Wrap(err, "telegrask: set webhook")
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.POST("/telegram/webhook", gin.WrapH(b.api.WebhookHandler()))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	srv := &http.Server{Addr: b.webhookAddr, Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			b.log.Error("webhook server", slog.Any("err", err))
		}
	}()
	go b.api.StartWebhook(ctx)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
