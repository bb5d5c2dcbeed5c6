package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIURL = "https://api.telegram.org"

// Sender is the part of the Bot API the update handler talks to.
type Sender interface {
	SendMessage(chatID int64, replyTo int64, text string, replyMarkup *InlineKeyboardMarkup) (int64, error)
	EditMessageText(chatID, messageID int64, text string, replyMarkup *InlineKeyboardMarkup) error
	EditInlineMessageText(inlineMessageID, text string, replyMarkup *InlineKeyboardMarkup) error
	AnswerCallbackQuery(callbackID, text string, showAlert bool) error
	AnswerInlineQuery(queryID string, results []InlineQueryResultArticle) error
}

type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
}

func NewClient(token string) *Client {
	return NewClientWithURL(token, defaultAPIURL)
}

func NewClientWithURL(token, apiURL string) *Client {
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    fmt.Sprintf("%s/bot%s", apiURL, token),
	}
}

func (c *Client) call(method string, payload interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+"/"+method, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(data, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	if !apiResp.OK {
		return nil, fmt.Errorf("telegram %s: %s", method, apiResp.Description)
	}

	return apiResp.Result, nil
}

func markup(kb *InlineKeyboardMarkup) (json.RawMessage, error) {
	if kb == nil {
		return nil, nil
	}
	return json.Marshal(kb)
}

func (c *Client) SendMessage(chatID int64, replyTo int64, text string, replyMarkup *InlineKeyboardMarkup) (int64, error) {
	rm, err := markup(replyMarkup)
	if err != nil {
		return 0, err
	}
	req := SendMessageRequest{
		ChatID:           chatID,
		Text:             text,
		ParseMode:        "HTML",
		ReplyToMessageID: replyTo,
		ReplyMarkup:      rm,
	}

	result, err := c.call("sendMessage", req)
	if err != nil {
		return 0, err
	}

	var msg MessageResult
	if err := json.Unmarshal(result, &msg); err != nil {
		return 0, fmt.Errorf("unmarshal message: %w", err)
	}
	return msg.MessageID, nil
}

func (c *Client) EditMessageText(chatID, messageID int64, text string, replyMarkup *InlineKeyboardMarkup) error {
	rm, err := markup(replyMarkup)
	if err != nil {
		return err
	}
	_, err = c.call("editMessageText", EditMessageTextRequest{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ParseMode:   "HTML",
		ReplyMarkup: rm,
	})
	return err
}

func (c *Client) EditInlineMessageText(inlineMessageID, text string, replyMarkup *InlineKeyboardMarkup) error {
	rm, err := markup(replyMarkup)
	if err != nil {
		return err
	}
	_, err = c.call("editMessageText", EditMessageTextRequest{
		InlineMessageID: inlineMessageID,
		Text:            text,
		ParseMode:       "HTML",
		ReplyMarkup:     rm,
	})
	return err
}

func (c *Client) AnswerCallbackQuery(callbackID, text string, showAlert bool) error {
	req := AnswerCallbackQueryRequest{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       showAlert,
	}
	_, err := c.call("answerCallbackQuery", req)
	return err
}

// AnswerInlineQuery answers personally; every result embeds the asker's id.
func (c *Client) AnswerInlineQuery(queryID string, results []InlineQueryResultArticle) error {
	_, err := c.call("answerInlineQuery", AnswerInlineQueryRequest{
		InlineQueryID: queryID,
		Results:       results,
		IsPersonal:    true,
	})
	return err
}

func (c *Client) SetWebhook(url, secretToken string) error {
	req := SetWebhookRequest{
		URL:            url,
		SecretToken:    secretToken,
		AllowedUpdates: []string{"message", "callback_query", "inline_query"},
	}
	_, err := c.call("setWebhook", req)
	return err
}

func (c *Client) SetMyCommands(commands []BotCommand, languageCode string) error {
	_, err := c.call("setMyCommands", SetMyCommandsRequest{Commands: commands, LanguageCode: languageCode})
	return err
}

func (c *Client) DeleteWebhook() error {
	_, err := c.call("deleteWebhook", struct{}{})
	return err
}
