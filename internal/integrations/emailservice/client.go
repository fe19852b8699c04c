package emailservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/TrekBookingService/internal/domain"
)

// Client клиент HTTP API почтового провайдера
type Client struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента почтового провайдера
// Пустой apiKey включает режим без отправки: письма только пишутся в лог
func NewClient(baseURL, apiKey, from string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Send отправляет письмо и возвращает идентификатор провайдера
func (c *Client) Send(ctx context.Context, email domain.Email) (string, error) {
	if c.apiKey == "" {
		c.log.Warn("Email delivery disabled, dropping %s email to %s: %q", email.Kind, email.To, email.Subject)
		return "", nil
	}

	payload, err := json.Marshal(SendRequest{
		From:    c.from,
		To:      []string{email.To},
		Subject: email.Subject,
		Text:    email.Body,
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/emails", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		// Продолжаем обработку
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: status code %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	default:
		return "", fmt.Errorf("%w: status code %d: %s", ErrRejected, resp.StatusCode, readErrorMessage(resp.Body))
	}

	var sent SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sent); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	c.log.Info("Email sent: kind=%s, to=%s, provider_id=%s", email.Kind, email.To, sent.ID)
	return sent.ID, nil
}

// IsPermanent возвращает true для ошибок, после которых повторная отправка бессмысленна
func IsPermanent(err error) bool {
	return errors.Is(err, ErrRejected)
}

func readErrorMessage(body io.Reader) string {
	raw, _ := io.ReadAll(body)

	var errResp ErrorResponse
	if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Message != "" {
		return errResp.Message
	}
	return string(raw)
}
