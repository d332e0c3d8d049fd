package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/charitymap/charitymap-api/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// NoopBus discards events. Used when no NATS URL is configured.
type NoopBus struct{}

func NewNoopBus() *NoopBus { return &NoopBus{} }

func (*NoopBus) Publish(context.Context, string, interface{}) error { return nil }
func (*NoopBus) Close() error                                       { return nil }

// Event subjects
const (
	UserRegistered = "user.registered"
	InviteCreated  = "invite.created"
	EventCreated   = "event.created"
	EventUpdated   = "event.updated"
	EventDeleted   = "event.deleted"
)

// Event payloads
type UserRegisteredEvent struct {
	UserID           int64     `json:"user_id"`
	Email            string    `json:"email"`
	OrganizationName string    `json:"organization_name"`
	RegisteredAt     time.Time `json:"registered_at"`
}

type InviteCreatedEvent struct {
	Email     string    `json:"email"`
	Reused    bool      `json:"reused"`
	CreatedAt time.Time `json:"created_at"`
}

type EventCreatedEvent struct {
	EventID   int64     `json:"event_id"`
	Name      string    `json:"name"`
	Host      string    `json:"host"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

type EventUpdatedEvent struct {
	EventID   int64     `json:"event_id"`
	OwnerID   int64     `json:"owner_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EventDeletedEvent struct {
	EventID   int64     `json:"event_id"`
	OwnerID   int64     `json:"owner_id"`
	DeletedAt time.Time `json:"deleted_at"`
}
