package queue

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"pinboard.app/api/internal/model"
)

type EventType string

const (
	EventTypeRequestSubmitted EventType = "event_request.submitted"
	EventTypeRequestResolved  EventType = "event_request.resolved"
)

// RequestEvent is one lifecycle transition of an event request, emitted after commit.
type RequestEvent struct {
	Type       EventType
	RequestID  int64
	SenderUID  string
	Receiver   string
	PinID      int64
	Status     model.EventRequestStatus
	OccurredAt time.Time
}

// NewRequestEvent snapshots req for the given transition.
func NewRequestEvent(t EventType, req *model.EventRequest, at time.Time) RequestEvent {
	return RequestEvent{
		Type:       t,
		RequestID:  req.ID,
		SenderUID:  req.SenderUID,
		Receiver:   req.ReceiverUID,
		PinID:      req.PinID,
		Status:     req.Status,
		OccurredAt: at.UTC(),
	}
}

type Producer interface {
	Publish(ctx context.Context, evt RequestEvent) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Publish(ctx context.Context, evt RequestEvent) error {
	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: streamFields(evt),
	}).Err(); err != nil {
		return fmt.Errorf("publish request event: %w", err)
	}

	p.logger.DebugContext(ctx, "published request event", "type", evt.Type, "event_request_id", evt.RequestID, "pin_id", evt.PinID)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}

// streamFields flattens evt into XADD values. Ids are sent as decimal strings.
func streamFields(evt RequestEvent) map[string]any {
	return map[string]any{
		"type":         string(evt.Type),
		"request_id":   strconv.FormatInt(evt.RequestID, 10),
		"sender_uid":   evt.SenderUID,
		"receiver_uid": evt.Receiver,
		"pin_id":       strconv.FormatInt(evt.PinID, 10),
		"status":       string(evt.Status),
		"occurred_at":  evt.OccurredAt.Format(time.RFC3339Nano),
	}
}

type noopProducer struct{}

// NewNoopProducer returns a Producer that drops every event. Used when Redis is not configured.
func NewNoopProducer() Producer {
	return noopProducer{}
}

func (noopProducer) Publish(context.Context, RequestEvent) error { return nil }

func (noopProducer) Close() error { return nil }

// Connect parses url and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}
