package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	msgs      []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func eventMessage(t *testing.T, offset int64, event BookingEvent) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Offset: offset, Value: value}
}

func TestDecodeEvent(t *testing.T) {
	refund := int64(16000)
	msg := eventMessage(t, 3, BookingEvent{
		Type: EventBookingCancelled, Reference: "BK1", FlightNumber: "6E-201",
		Emails: []string{"a@example.com"}, RefundCents: &refund,
	})
	event, err := DecodeEvent(msg)
	require.NoError(t, err)
	assert.Equal(t, EventBookingCancelled, event.Type)
	assert.Equal(t, "6E-201", event.FlightNumber)
	require.NotNil(t, event.RefundCents)
	assert.Equal(t, refund, *event.RefundCents)

	_, err = DecodeEvent(kafka.Message{Offset: 4, Value: []byte("{not json")})
	assert.ErrorContains(t, err, "offset 4")

	_, err = DecodeEvent(kafka.Message{Value: []byte(`{"type":"booking_confirmed"}`)})
	assert.Error(t, err)
}

func TestEventConsumer_SkipsBadPayloadsAndCommits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := &fakeReader{cancel: cancel, msgs: []kafka.Message{
		eventMessage(t, 0, BookingEvent{Type: EventBookingConfirmed, Reference: "BK1"}),
		{Offset: 1, Value: []byte("garbage")},
		eventMessage(t, 2, BookingEvent{Type: EventBookingCancelled, Reference: "BK1"}),
	}}
	c := &EventConsumer{reader: reader}

	var seen []string
	err := c.Consume(ctx, func(_ context.Context, e BookingEvent) error {
		seen = append(seen, e.Type)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{EventBookingConfirmed, EventBookingCancelled}, seen)
	assert.Equal(t, []int64{0, 1, 2}, reader.committed)
}

func TestEventConsumer_HandlerErrorLeavesOffsetUncommitted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := &fakeReader{cancel: cancel, msgs: []kafka.Message{
		eventMessage(t, 7, BookingEvent{Type: EventBookingConfirmed, Reference: "BK7"}),
	}}
	c := &EventConsumer{reader: reader}

	err := c.Consume(ctx, func(context.Context, BookingEvent) error { return assert.AnError })
	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorContains(t, err, "BK7")
	assert.Empty(t, reader.committed)
}
