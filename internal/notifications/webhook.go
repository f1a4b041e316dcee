package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kjannette/trahn-stocks-backend/internal/httputil"
	"github.com/kjannette/trahn-stocks-backend/internal/logging"
)

const defaultBotName = "TrahnStocks"

// Sender posts dashboard events to a Discord or Slack webhook. With no
// webhook configured it only logs.
type Sender struct {
	webhookURL string
	botName    string
	httpClient *http.Client
	retry      httputil.RetryConfig
	log        *zap.Logger
}

func NewSender(webhookURL, botName string, log *zap.Logger) *Sender {
	if botName == "" {
		botName = defaultBotName
	}
	log = logging.OrNop(log)
	log = log.Named("notify")
	return &Sender{
		webhookURL: webhookURL,
		botName:    botName,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   1 * time.Second,
			MaxDelay:    5 * time.Second,
			Logger:      log,
		},
		log: log,
	}
}

// Send delivers msg. Delivery failures are logged and returned; callers
// treat them as non-fatal.
func (s *Sender) Send(ctx context.Context, msg string) error {
	formatted := fmt.Sprintf("[%s] %s", s.botName, msg)
	s.log.Info("notification", zap.String("message", formatted))

	if s.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(s.formatPayload(formatted))
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := httputil.Do(ctx, s.httpClient, s.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		s.log.Error("webhook delivery failed", zap.Error(err))
		return fmt.Errorf("webhook: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		s.log.Error("webhook rejected", zap.Int("status", resp.StatusCode))
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func (s *Sender) formatPayload(msg string) map[string]string {
	if strings.Contains(s.webhookURL, "discord") {
		return map[string]string{
			"content":  msg,
			"username": s.botName,
		}
	}
	return map[string]string{
		"text":     fmt.Sprintf("`%s`", msg),
		"username": s.botName,
	}
}

func (s *Sender) Enabled() bool {
	return s.webhookURL != ""
}
