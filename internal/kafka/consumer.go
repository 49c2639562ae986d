package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/joshi-samarth/AirlineManagementSystem/internal/logger"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// EventHandler processes one decoded booking event.
type EventHandler func(ctx context.Context, event BookingEvent) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventConsumer reads booking events from a consumer group. Offsets are
// committed only after the handler accepts the event.
type EventConsumer struct {
	reader messageReader
}

func NewEventConsumer(brokers []string, groupID, topic string) *EventConsumer {
	return &EventConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *EventConsumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// DecodeEvent parses a message value into a booking event.
func DecodeEvent(msg kafka.Message) (BookingEvent, error) {
	var event BookingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return BookingEvent{}, fmt.Errorf("decode booking event at offset %d: %w", msg.Offset, err)
	}
	if event.Type == "" || event.Reference == "" {
		return BookingEvent{}, fmt.Errorf("booking event at offset %d is missing type or reference", msg.Offset)
	}
	return event, nil
}

// Consume feeds booking events to handler until ctx is cancelled, which is not
// reported as an error. Undecodable messages are logged and committed so one bad
// payload does not stall the group. A handler error stops the loop without
// committing, so the event is redelivered.
func (c *EventConsumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return err
		}

		log := logger.FromContext(ctx).WithFields(logrus.Fields{
			"topic":     msg.Topic,
			"partition": msg.Partition,
			"offset":    msg.Offset,
		})
		event, err := DecodeEvent(msg)
		if err != nil {
			log.WithError(err).Error("skipping booking event")
		} else if err := handler(logger.WithContext(ctx, log.WithField("event_id", event.ID)), event); err != nil {
			return fmt.Errorf("handle %s event %s: %w", event.Type, event.Reference, err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("commit offset %d: %w", msg.Offset, err)
		}
	}
}
