package telegram

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientSendMessage(t *testing.T) {
	var gotPath string
	var gotBody SendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"ok":true,"result":{"message_id":77}}`))
	}))
	defer srv.Close()

	c := NewClientWithURL("123:abc", srv.URL)
	id, err := c.SendMessage(-5, 3, "<b>hi</b>", DuelKeyboard("go", "btf:1:2:3"))
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if id != 77 {
		t.Fatalf("message id = %d, want 77", id)
	}
	if gotPath != "/bot123:abc/sendMessage" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotBody.ChatID != -5 || gotBody.ReplyToMessageID != 3 || gotBody.ParseMode != "HTML" {
		t.Fatalf("unexpected request: %+v", gotBody)
	}
	if !strings.Contains(string(gotBody.ReplyMarkup), "btf:1:2:3") {
		t.Fatalf("reply markup = %s", gotBody.ReplyMarkup)
	}
}

func TestClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"Bad Request: message is not modified"}`))
	}))
	defer srv.Close()

	err := NewClientWithURL("t", srv.URL).AnswerCallbackQuery("cb", "", false)
	if err == nil || !strings.Contains(err.Error(), "message is not modified") {
		t.Fatalf("expected API error, got %v", err)
	}
}
