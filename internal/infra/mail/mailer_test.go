package mail

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogMailerWritesBody(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	mailer := NewLogMailer(zap.New(core))

	body := "Your confirmation code is 482913. It expires in 10 minutes."
	if err := mailer.Send(context.Background(), "user@example.com", "Sign-in confirmation", body); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if got := fields["body"]; got != body {
		t.Fatalf("expected log to carry the full body, got %v", got)
	}
	if got := fields["to"]; got != "u***@example.com" {
		t.Fatalf("expected masked recipient, got %v", got)
	}
}
