package workflow

import (
	"context"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/opwatch/internal/statuscheck"
)

// Notification is a progress event for the user-facing event stream.
type Notification struct {
	EventType string    `json:"eventType"`
	Timestamp time.Time `json:"eventTimestamp"`
	Message   string    `json:"eventMessage"`
	Owner     string    `json:"owner,omitempty"`
	Account   string    `json:"account,omitempty"`
	Cloud     string    `json:"cloud,omitempty"`
	Region    string    `json:"region,omitempty"`
	StackID   int64     `json:"stackId,omitempty"`
	StackName string    `json:"stackName,omitempty"`
	Status    string    `json:"stackStatus,omitempty"`
}

// NotificationSender delivers notifications. Delivery failures never fail
// the observed operation.
type NotificationSender interface {
	Send(ctx context.Context, n Notification) error
}

// LogSender writes notifications to the logger in ctx.
type LogSender struct{}

// Send implements NotificationSender.
func (LogSender) Send(ctx context.Context, n Notification) error {
	logr.FromContextOrDiscard(ctx).Info("notification",
		"eventType", n.EventType,
		"message", n.Message,
		"stack", n.StackName,
		"status", n.Status,
	)
	return nil
}

// TaskNotifier forwards terminal status check events to a NotificationSender.
type TaskNotifier struct {
	Sender    NotificationSender
	EventType string
	Now       func() time.Time
}

// Notify implements statuscheck.Notifier.
func (t TaskNotifier) Notify(ctx context.Context, e statuscheck.Event) {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	msg := e.Message
	if e.Err != nil {
		msg = e.Err.Error()
	}
	send(ctx, t.Sender, Notification{
		EventType: t.EventType,
		Timestamp: now(),
		Message:   msg,
		Status:    e.State.String(),
	})
}

func send(ctx context.Context, sender NotificationSender, n Notification) {
	if sender == nil {
		return
	}
	if err := sender.Send(ctx, n); err != nil {
		logr.FromContextOrDiscard(ctx).Error(err, "failed to send notification", "eventType", n.EventType)
	}
}
