package service

import (
	"context"
	"log"
)

// Notifier delivers a message to a principal through whatever chat
// transport fronts this service.  Delivery failures (target blocked the
// bot, network hiccup) are the caller's to swallow — a failed
// notification must never affect a ledger mutation.
type Notifier interface {
	Notify(ctx context.Context, principalID int64, message string) error
}

// LogNotifier writes deliveries to the log.  Stands in for a real
// transport in dev and in the server until the chat collaborator is
// attached.
type LogNotifier struct {
	Logger *log.Logger
}

func (n LogNotifier) Notify(_ context.Context, principalID int64, message string) error {
	if n.Logger != nil {
		n.Logger.Printf("notify principal=%d: %s", principalID, message)
	}
	return nil
}
