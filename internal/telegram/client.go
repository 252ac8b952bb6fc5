// Package telegram is a minimal Telegram Bot API client covering the calls
// the bot needs: sending, editing and deleting messages, answering callback
// queries, and long-polling for updates. It implements chat.Notifier.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/antoniostano/pomobot/internal/chat"
	"github.com/antoniostano/pomobot/internal/policy"
)

const defaultBaseURL = "https://api.telegram.org"

// pollTimeout is the server-side long-poll window for getUpdates, in
// seconds. The HTTP client timeout must stay comfortably above it.
const pollTimeout = 30

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a client for the given bot token. baseURL overrides the
// public API endpoint, used in tests.
func NewClient(token, baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client: &http.Client{
			Timeout: (pollTimeout + 20) * time.Second,
		},
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
}

// APIError is a Bot API rejection. Its code feeds the retry classifier in
// the poller.
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s failed: %d %s", e.Method, e.Code, e.Description)
}

func (e *APIError) StatusCode() int { return e.Code }

// call posts payload to a Bot API method and unmarshals the result into out
// when non-nil.
func (c *Client) call(ctx context.Context, method string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		// Transport errors echo the request URL, which embeds the token.
		// Deliberately not wrapped: the original error text must not
		// escape into logs.
		msg, _ := policy.RedactToken(c.token, err.Error())
		return fmt.Errorf("send %s request: %s", method, msg)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("decode %s response (status %d): %w", method, res.StatusCode, err)
	}
	if !parsed.OK {
		return &APIError{Method: method, Code: parsed.ErrorCode, Description: parsed.Description}
	}
	if out != nil {
		if err := json.Unmarshal(parsed.Result, out); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}

// GetMe returns the bot's own identity.
func (c *Client) GetMe(ctx context.Context) (User, error) {
	var me User
	if err := c.call(ctx, "getMe", struct{}{}, &me); err != nil {
		return User{}, err
	}
	return me, nil
}

// GetUpdates long-polls for updates with ids >= offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	payload := map[string]any{
		"offset":          offset,
		"timeout":         pollTimeout,
		"allowed_updates": []string{"message", "callback_query"},
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// AnswerCallbackQuery acknowledges a button press, showing text as a toast
// when non-empty.
func (c *Client) AnswerCallbackQuery(ctx context.Context, id, text string) error {
	payload := map[string]any{"callback_query_id": id}
	if text != "" {
		payload["text"] = text
	}
	return c.call(ctx, "answerCallbackQuery", payload, nil)
}

// SendMessage implements chat.Notifier.
func (c *Client) SendMessage(ctx context.Context, conv chat.Conversation, text string, kb chat.Keyboard) (chat.Message, error) {
	payload := map[string]any{
		"chat_id": int64(conv.ID),
		"text":    text,
	}
	if markup := toMarkup(kb); markup != nil {
		payload["reply_markup"] = markup
	}
	var sent Message
	if err := c.call(ctx, "sendMessage", payload, &sent); err != nil {
		return chat.Message{}, err
	}
	// Keep the core's conversation flags rather than re-deriving them from
	// the echoed chat payload.
	return chat.Message{ID: chat.MessageID(sent.MessageID), Chat: conv, Text: text}, nil
}

// EditMessageText implements chat.Notifier.
func (c *Client) EditMessageText(ctx context.Context, conv chat.Conversation, id chat.MessageID, text string, kb chat.Keyboard) error {
	payload := map[string]any{
		"chat_id":    int64(conv.ID),
		"message_id": int64(id),
		"text":       text,
	}
	if markup := toMarkup(kb); markup != nil {
		payload["reply_markup"] = markup
	}
	return c.call(ctx, "editMessageText", payload, nil)
}

// DeleteMessage implements chat.Notifier.
func (c *Client) DeleteMessage(ctx context.Context, conv chat.Conversation, id chat.MessageID) error {
	payload := map[string]any{
		"chat_id":    int64(conv.ID),
		"message_id": int64(id),
	}
	return c.call(ctx, "deleteMessage", payload, nil)
}
