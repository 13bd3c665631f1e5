// Package notify is the user-feedback collaborator: fire-and-forget toasts
// plus a persisted log of simulated confirmation emails.
package notify

import (
	"context"
	"time"

	"unishop/internal/logger"
	"unishop/internal/storage"
)

// Severity classifies a notification for the UI.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notifier delivers a message to the active user. Delivery is best-effort;
// callers never depend on it.
type Notifier interface {
	Notify(message string, severity Severity)
}

// LogNotifier writes notifications to the service log.
type LogNotifier struct{}

func (LogNotifier) Notify(message string, severity Severity) {
	switch severity {
	case SeverityWarning:
		logger.Warnf("notify: %s", message)
	case SeverityError:
		logger.Errorf("notify: %s", message)
	default:
		logger.Infof("notify: %s", message)
	}
}

// Email is one simulated outbound message.
type Email struct {
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Date    time.Time `json:"date"`
}

const emailKey = "sent-emails"

// EmailLog records simulated emails in the storage collaborator. No real
// mail is sent.
type EmailLog struct {
	store storage.Store
}

// NewEmailLog returns a log backed by the given store.
func NewEmailLog(store storage.Store) *EmailLog {
	return &EmailLog{store: store}
}

// Send appends a record to the sent-email log. Missing recipient and
// persistence failures are swallowed: confirmation mail is a courtesy,
// never part of the checkout outcome.
func (l *EmailLog) Send(ctx context.Context, to, subject, body string) bool {
	if to == "" {
		return false
	}
	record := Email{To: to, Subject: subject, Body: body, Date: time.Now().UTC()}

	var sent []Email
	storage.ReadJSON(ctx, l.store, emailKey, &sent)
	sent = append(sent, record)
	if err := storage.WriteJSON(ctx, l.store, emailKey, sent); err != nil {
		logger.Warnf("email log: %v", err)
	}
	logger.Infof("email to %s: %s", to, subject)
	return true
}

// Sent returns every recorded email, oldest first.
func (l *EmailLog) Sent(ctx context.Context) []Email {
	var sent []Email
	storage.ReadJSON(ctx, l.store, emailKey, &sent)
	return sent
}
