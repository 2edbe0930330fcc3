package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Update входящее обновление Telegram Bot API.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message входящее сообщение.
type Message struct {
	Chat Chat   `json:"chat"`
	Text string `json:"text"`
}

// Chat чат, из которого пришло сообщение.
type Chat struct {
	ID int64 `json:"id"`
}

// KeyboardButton кнопка reply-клавиатуры.
type KeyboardButton struct {
	Text string `json:"text"`
}

// ReplyKeyboardMarkup reply-клавиатура под полем ввода.
type ReplyKeyboardMarkup struct {
	Keyboard       [][]KeyboardButton `json:"keyboard"`
	ResizeKeyboard bool               `json:"resize_keyboard"`
}

type sendMessageRequest struct {
	ChatID      int64                `json:"chat_id"`
	Text        string               `json:"text"`
	ReplyMarkup *ReplyKeyboardMarkup `json:"reply_markup,omitempty"`
}

type apiResponse struct {
	Ok          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// TelegramClient клиент Telegram Bot API поверх net/http.
type TelegramClient struct {
	apiURL      string
	pollTimeout time.Duration
	httpClient  *http.Client
}

// NewTelegramClient создаёт клиент бота для заданного токена.
func NewTelegramClient(token string, pollTimeout, clientTimeout time.Duration) *TelegramClient {
	return &TelegramClient{
		apiURL:      "https://api.telegram.org/bot" + token,
		pollTimeout: pollTimeout,
		httpClient:  &http.Client{Timeout: clientTimeout},
	}
}

func (c *TelegramClient) call(ctx context.Context, method string, body any, result any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/"+method, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return err
	}
	if !apiResp.Ok {
		return errors.New("telegram api: " + apiResp.Description)
	}
	if result != nil {
		return json.Unmarshal(apiResp.Result, result)
	}
	return nil
}

// GetUpdates выполняет long poll и возвращает обновления после offset.
func (c *TelegramClient) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	const op = "bot.TelegramClient.GetUpdates"

	body := map[string]any{
		"offset":  offset,
		"timeout": int(c.pollTimeout.Seconds()),
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", body, &updates); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updates, nil
}

// SendMessage отправляет текст в чат, опционально с клавиатурой.
func (c *TelegramClient) SendMessage(ctx context.Context, chatID int64, text string, keyboard *ReplyKeyboardMarkup) error {
	const op = "bot.TelegramClient.SendMessage"

	body := sendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard,
	}
	if err := c.call(ctx, "sendMessage", body, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
