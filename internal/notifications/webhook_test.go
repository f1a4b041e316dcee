package notifications

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kjannette/trahn-stocks-backend/internal/httputil"
)

func TestSend_NoWebhook(t *testing.T) {
	s := NewSender("", "TestBot", nil)
	if s.Enabled() {
		t.Fatal("should not be enabled with empty URL")
	}
	if err := s.Send(context.Background(), "hello from test"); err != nil {
		t.Fatalf("log-only send should not fail: %v", err)
	}
}

func TestSend_SlackFormat(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSender(srv.URL, "TestBot", nil)
	if !s.Enabled() {
		t.Fatal("should be enabled")
	}

	if err := s.Send(context.Background(), "poll recovered"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if received["username"] != "TestBot" {
		t.Fatalf("username: got %s", received["username"])
	}
	if received["text"] != "`[TestBot] poll recovered`" {
		t.Fatalf("text: got %q", received["text"])
	}
}

func TestSend_DiscordFormat(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	// URL containing "discord" triggers Discord format
	s := NewSender(srv.URL+"/discord/webhook", "TrahnBot", nil)
	if err := s.Send(context.Background(), "STOP-LOSS triggered: account down 5.10%"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if received["content"] == "" {
		t.Fatal("content should not be empty for Discord")
	}
	if received["username"] != "TrahnBot" {
		t.Fatalf("username: got %s", received["username"])
	}
	if _, hasText := received["text"]; hasText {
		t.Fatal("Discord payload should not have 'text' field")
	}
}

func TestSend_WebhookError(t *testing.T) {
	s := NewSender("http://localhost:1/bogus", "TestBot", nil)
	s.retry = httputil.RetryConfig{MaxAttempts: 2, BaseDelay: 10 * time.Millisecond, MaxDelay: 10 * time.Millisecond}
	if err := s.Send(context.Background(), "this will fail gracefully"); err == nil {
		t.Fatal("expected delivery error")
	}
}

func TestSend_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewSender(srv.URL, "TestBot", nil)
	if err := s.Send(context.Background(), "nope"); err == nil {
		t.Fatal("expected error on 403")
	}
}

func TestDefaultBotName(t *testing.T) {
	s := NewSender("", "", nil)
	if s.botName != "TrahnStocks" {
		t.Fatalf("expected default bot name, got %s", s.botName)
	}
}
