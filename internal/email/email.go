package email

import (
	"context"
	"log"

	"github.com/akarpov91/flightbook/internal/kafka"
)

// Sender writes booking notifications to the log. A real mail backend
// plugs in behind the same method.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	log.Printf("notify user %d: booking %s %s (flight %d, %d seats, total %s)",
		event.UserID, event.Reference, event.Type, event.FlightID, event.SeatsBooked, event.TotalPrice)
	return nil
}
