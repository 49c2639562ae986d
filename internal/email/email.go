package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/joshi-samarth/AirlineManagementSystem/internal/domain"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/kafka"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/logger"
	"github.com/sirupsen/logrus"
)

type Message struct {
	To      []string
	Subject string
	Body    string
}

// Sender renders booking notifications. Delivery is a log line; no SMTP relay is wired.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Compose(event kafka.BookingEvent) (Message, bool) {
	msg := Message{To: event.Emails}
	total := domain.Money(event.TotalCents)

	switch event.Type {
	case kafka.EventBookingConfirmed:
		msg.Subject = fmt.Sprintf("Booking %s confirmed", event.Reference)
		var b strings.Builder
		fmt.Fprintf(&b, "Your booking %s is confirmed.\n", event.Reference)
		if event.FlightNumber != "" {
			fmt.Fprintf(&b, "Flight: %s\n", event.FlightNumber)
		}
		fmt.Fprintf(&b, "Passengers: %d\n", event.Passengers)
		if len(event.Seats) > 0 {
			fmt.Fprintf(&b, "Seats: %s\n", strings.Join(event.Seats, ", "))
		}
		fmt.Fprintf(&b, "Total paid: %s\n", total)
		msg.Body = b.String()
	case kafka.EventBookingCancelled:
		msg.Subject = fmt.Sprintf("Booking %s cancelled", event.Reference)
		refund := domain.Money(0)
		if event.RefundCents != nil {
			refund = domain.Money(*event.RefundCents)
		}
		msg.Body = fmt.Sprintf("Your booking %s has been cancelled.\nRefund: %s of %s\n", event.Reference, refund, total)
	default:
		return Message{}, false
	}
	return msg, true
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"event_id":          event.ID,
		"type":              event.Type,
		"booking_reference": event.Reference,
	})

	msg, ok := s.Compose(event)
	if !ok {
		log.Debug("no notification for event type")
		return nil
	}
	if len(msg.To) == 0 {
		log.Warn("booking event carries no recipients")
		return nil
	}

	log.WithFields(logrus.Fields{"to": msg.To, "subject": msg.Subject}).Info("notification sent")
	return nil
}
