package telegram

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Dispatcher interface {
	Handle(upd Update)
}

// Bot owns the webhook registration of one bot token and hands incoming
// updates to the dispatcher, one goroutine per update.
type Bot struct {
	client        *Client
	dispatcher    Dispatcher
	pathSecret    string
	webhookURL    string
	webhookSecret string
	logger        *slog.Logger
}

func tokenSecret(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h[:16])
}

func NewBot(token string, client *Client, dispatcher Dispatcher, webhookBaseURL, webhookSecret string, logger *slog.Logger) *Bot {
	secret := tokenSecret(token)
	return &Bot{
		client:        client,
		dispatcher:    dispatcher,
		pathSecret:    secret,
		webhookURL:    fmt.Sprintf("%s/webhook/bot/%s", webhookBaseURL, secret),
		webhookSecret: webhookSecret,
		logger:        logger.With("component", "bot"),
	}
}

func (b *Bot) Start() error {
	if err := b.client.SetWebhook(b.webhookURL, b.webhookSecret); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	for _, code := range []string{"", "ru"} {
		if err := b.client.SetMyCommands(Commands(TextsFor(code)), code); err != nil {
			b.logger.Warn("couldn't register commands", "language", code, "error", err)
		}
	}
	b.logger.Info("bot started", "webhook", b.webhookURL)
	return nil
}

func (b *Bot) Stop() {
	if err := b.client.DeleteWebhook(); err != nil {
		b.logger.Warn("delete webhook", "error", err)
	}
	b.logger.Info("bot stopped")
}

func (b *Bot) HandleWebhook(c *gin.Context) {
	if c.Param("secret") != b.pathSecret {
		c.Status(http.StatusNotFound)
		return
	}

	if b.webhookSecret != "" {
		headerSecret := c.GetHeader("X-Telegram-Bot-Api-Secret-Token")
		if headerSecret != b.webhookSecret {
			c.Status(http.StatusUnauthorized)
			return
		}
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var upd Update
	if err := json.Unmarshal(body, &upd); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	go b.dispatcher.Handle(upd)

	c.Status(http.StatusOK)
}
