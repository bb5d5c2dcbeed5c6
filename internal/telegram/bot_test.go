package telegram

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type chanDispatcher chan Update

func (d chanDispatcher) Handle(upd Update) { d <- upd }

func TestHandleWebhook(t *testing.T) {
	gin.SetMode(gin.TestMode)
	updates := make(chanDispatcher, 1)
	bot := NewBot("123:abc", NewClient("123:abc"), updates, "https://example.org", "hook-secret",
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := gin.New()
	r.POST("/webhook/bot/:secret", bot.HandleWebhook)

	post := func(path, header, body string) int {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		if header != "" {
			req.Header.Set("X-Telegram-Bot-Api-Secret-Token", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	path := "/webhook/bot/" + tokenSecret("123:abc")
	if code := post("/webhook/bot/wrong", "hook-secret", "{}"); code != http.StatusNotFound {
		t.Fatalf("wrong path secret: status %d", code)
	}
	if code := post(path, "nope", "{}"); code != http.StatusUnauthorized {
		t.Fatalf("wrong header secret: status %d", code)
	}
	if code := post(path, "hook-secret", "{"); code != http.StatusBadRequest {
		t.Fatalf("broken body: status %d", code)
	}
	if code := post(path, "hook-secret", `{"update_id":9,"inline_query":{"id":"q","from":{"id":1,"first_name":"A"},"query":"3"}}`); code != http.StatusOK {
		t.Fatalf("valid update: status %d", code)
	}

	select {
	case upd := <-updates:
		if upd.InlineQuery == nil || upd.InlineQuery.Query != "3" {
			t.Fatalf("dispatched update = %+v", upd)
		}
	case <-time.After(time.Second):
		t.Fatal("update was not dispatched")
	}
}
