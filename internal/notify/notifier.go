// Package notify delivers reservation lifecycle events to the outbound
// notification system. Delivery is fire-and-forget: failures are logged
// and never surfaced to the operation that produced the event.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

const (
	EventReservationCreated    = "reservation.created"
	EventReservationConfirmed  = "reservation.confirmed"
	EventReservationRejected   = "reservation.rejected"
	EventReservationCancelled  = "reservation.cancelled"
	EventReservationCheckedIn  = "reservation.checked_in"
	EventReservationCheckedOut = "reservation.checked_out"
)

type Event struct {
	Type          string    `json:"type"`
	ReservationID string    `json:"reservation_id"`
	PropertyID    string    `json:"property_id"`
	CustomerID    string    `json:"customer_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Notifier sends an event without blocking the caller. Implementations
// must swallow delivery errors after logging them.
type Notifier interface {
	Send(event Event)
}

// NewNotifier returns a webhook notifier when a URL is configured, and a
// log-only notifier otherwise.
func NewNotifier(webhookURL string, log *zap.Logger) Notifier {
	if webhookURL == "" {
		return &logNotifier{log: log.With(zap.String("notifier", "log"))}
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = 5 * time.Second
	client.Logger = nil

	return &webhookNotifier{
		url:    webhookURL,
		client: client,
		log:    log.With(zap.String("notifier", "webhook")),
	}
}

type webhookNotifier struct {
	url    string
	client *retryablehttp.Client
	log    *zap.Logger
}

func (n *webhookNotifier) Send(event Event) {
	go func() {
		body, err := json.Marshal(event)
		if err != nil {
			n.log.Error("Failed to encode notification", zap.Error(err), zap.String("type", event.Type))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		req, err := retryablehttp.NewRequestWithContext(ctx, "POST", n.url, bytes.NewReader(body))
		if err != nil {
			n.log.Error("Failed to build notification request", zap.Error(err), zap.String("type", event.Type))
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.client.Do(req)
		if err != nil {
			n.log.Warn("Notification delivery failed",
				zap.Error(err),
				zap.String("type", event.Type),
				zap.String("reservation_id", event.ReservationID),
			)
			return
		}
		resp.Body.Close()

		n.log.Info("Notification delivered",
			zap.String("type", event.Type),
			zap.String("reservation_id", event.ReservationID),
			zap.Int("status", resp.StatusCode),
		)
	}()
}

type logNotifier struct {
	log *zap.Logger
}

func (n *logNotifier) Send(event Event) {
	n.log.Info("Notification event",
		zap.String("type", event.Type),
		zap.String("reservation_id", event.ReservationID),
		zap.String("property_id", event.PropertyID),
	)
}
