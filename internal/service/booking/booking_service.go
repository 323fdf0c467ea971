package booking

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/akarpov91/flightbook/internal/auth"
	"github.com/akarpov91/flightbook/internal/domain"
	"github.com/akarpov91/flightbook/internal/kafka"
	"github.com/akarpov91/flightbook/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, principal auth.Principal, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, principal auth.Principal, id int64) (*domain.Booking, error)
	ListBookings(ctx context.Context, principal auth.Principal) ([]domain.Booking, error)
	UpdateBooking(ctx context.Context, principal auth.Principal, id int64, input UpdateBookingInput) (*domain.Booking, error)
	DeleteBooking(ctx context.Context, principal auth.Principal, id int64) error

	CreatePassenger(ctx context.Context, principal auth.Principal, input PassengerInput) (*domain.Passenger, error)
	GetPassenger(ctx context.Context, id int64) (*domain.Passenger, error)
	ListPassengers(ctx context.Context) ([]domain.Passenger, error)
	UpdatePassenger(ctx context.Context, id int64, input PassengerInput) (*domain.Passenger, error)
	DeletePassenger(ctx context.Context, id int64) error

	CreatePayment(ctx context.Context, principal auth.Principal, input PaymentInput) (*domain.Payment, error)
	GetPayment(ctx context.Context, id int64) (*domain.Payment, error)
	ListPayments(ctx context.Context) ([]domain.Payment, error)
	UpdatePayment(ctx context.Context, id int64, input PaymentInput) (*domain.Payment, error)
	DeletePayment(ctx context.Context, id int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type CreateBookingInput struct {
	FlightID    int64            `json:"flight_id"`
	SeatsBooked int              `json:"seats_booked"`
	Passengers  []PassengerInput `json:"passengers"`
}

type UpdateBookingInput struct {
	Status domain.BookingStatus `json:"status"`
}

type PassengerInput struct {
	BookingID      int64     `json:"booking_id,omitempty"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	PassportNumber string    `json:"passport_number,omitempty"`
	DateOfBirth    time.Time `json:"date_of_birth"`
}

type PaymentInput struct {
	BookingID     int64                `json:"booking_id"`
	Amount        decimal.Decimal      `json:"amount"`
	PaymentMethod string               `json:"payment_method"`
	TransactionID string               `json:"transaction_id"`
	Status        domain.PaymentStatus `json:"status"`
}

type BookingService struct {
	bookings   repository.BookingRepository
	flights    repository.FlightRepository
	passengers repository.PassengerRepository
	payments   repository.PaymentRepository
	producer   Producer
	topic      string
}

type BookingServiceOption func(*BookingService)

// WithProducer enables kafka event publishing; without it the service
// runs storage-only.
func WithProducer(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.topic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	passengers repository.PassengerRepository,
	payments repository.PaymentRepository,
	opts ...BookingServiceOption,
) *BookingService {
	s := &BookingService{
		bookings:   bookings,
		flights:    flights,
		passengers: passengers,
		payments:   payments,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewReference derives the human-shareable booking reference from the
// first segment of a random UUID, uppercased. It is assigned once at
// creation; a collision surfaces as a uniqueness conflict on insert.
func NewReference() string {
	return strings.ToUpper(strings.SplitN(uuid.NewString(), "-", 2)[0])
}

func (s *BookingService) CreateBooking(ctx context.Context, principal auth.Principal, input CreateBookingInput) (*domain.Booking, error) {
	if input.SeatsBooked < 1 {
		return nil, domain.NewValidationError("seats_booked", "must be at least 1")
	}
	for _, p := range input.Passengers {
		if p.FirstName == "" || p.LastName == "" {
			return nil, domain.NewValidationError("passengers", "first_name and last_name are required")
		}
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	if input.SeatsBooked > flight.AvailableSeats {
		return nil, domain.ErrSeatsUnavailable
	}

	booking := &domain.Booking{
		UserID:      principal.UserID,
		FlightID:    flight.ID,
		Reference:   NewReference(),
		TotalPrice:  flight.BasePrice.Mul(decimal.NewFromInt(int64(input.SeatsBooked))),
		SeatsBooked: input.SeatsBooked,
	}
	for _, p := range input.Passengers {
		booking.Passengers = append(booking.Passengers, domain.Passenger{
			FirstName:      p.FirstName,
			LastName:       p.LastName,
			PassportNumber: p.PassportNumber,
			DateOfBirth:    p.DateOfBirth,
		})
	}

	// The repository re-checks availability atomically; the check above
	// only produces a friendlier early failure.
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	booking.Flight = &domain.Flight{ID: flight.ID, FlightNumber: flight.FlightNumber, FlightType: flight.FlightType}
	s.publish(ctx, kafka.EventBookingCreated, booking)
	return booking, nil
}

// GetBooking returns a single booking with its payment attached when
// one exists.
func (s *BookingService) GetBooking(ctx context.Context, principal auth.Principal, id int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(principal, booking); err != nil {
		return nil, err
	}

	payment, err := s.payments.GetByBookingID(ctx, id)
	switch {
	case err == nil:
		booking.Payment = payment
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}
	return booking, nil
}

// ListBookings returns the caller's own bookings; admins see all.
func (s *BookingService) ListBookings(ctx context.Context, principal auth.Principal) ([]domain.Booking, error) {
	if principal.IsAdmin() {
		return s.bookings.List(ctx)
	}
	return s.bookings.ListByUser(ctx, principal.UserID)
}

// UpdateBooking confirms or cancels a booking. Only pending bookings
// may change; cancelling returns the seats to the flight.
func (s *BookingService) UpdateBooking(ctx context.Context, principal auth.Principal, id int64, input UpdateBookingInput) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(principal, current); err != nil {
		return nil, err
	}
	if current.Status != domain.BookingStatusPending {
		return nil, domain.ErrBookingNotPending
	}

	var updated *domain.Booking
	switch input.Status {
	case domain.BookingStatusConfirmed:
		updated, err = s.bookings.Confirm(ctx, id)
	case domain.BookingStatusCancelled:
		updated, err = s.bookings.Cancel(ctx, id)
	default:
		return nil, domain.NewValidationError("status", "must be confirmed or cancelled")
	}
	if err != nil {
		return nil, err
	}

	eventType := kafka.EventBookingConfirmed
	if updated.Status == domain.BookingStatusCancelled {
		eventType = kafka.EventBookingCancelled
	}
	s.publish(ctx, eventType, updated)
	return updated, nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, principal auth.Principal, id int64) error {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(principal, current); err != nil {
		return err
	}
	if current.Status != domain.BookingStatusPending {
		return domain.ErrBookingNotPending
	}

	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, kafka.EventBookingDeleted, current)
	return nil
}

func (s *BookingService) CreatePassenger(ctx context.Context, principal auth.Principal, input PassengerInput) (*domain.Passenger, error) {
	if input.FirstName == "" || input.LastName == "" {
		return nil, domain.NewValidationError("passenger", "first_name and last_name are required")
	}
	booking, err := s.bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(principal, booking); err != nil {
		return nil, err
	}

	passenger := &domain.Passenger{
		BookingID:      input.BookingID,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		PassportNumber: input.PassportNumber,
		DateOfBirth:    input.DateOfBirth,
	}
	if err := s.passengers.Create(ctx, passenger); err != nil {
		return nil, err
	}
	return passenger, nil
}

func (s *BookingService) GetPassenger(ctx context.Context, id int64) (*domain.Passenger, error) {
	return s.passengers.GetByID(ctx, id)
}

func (s *BookingService) ListPassengers(ctx context.Context) ([]domain.Passenger, error) {
	return s.passengers.List(ctx)
}

func (s *BookingService) UpdatePassenger(ctx context.Context, id int64, input PassengerInput) (*domain.Passenger, error) {
	passenger, err := s.passengers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.FirstName != "" {
		passenger.FirstName = input.FirstName
	}
	if input.LastName != "" {
		passenger.LastName = input.LastName
	}
	if input.PassportNumber != "" {
		passenger.PassportNumber = input.PassportNumber
	}
	if !input.DateOfBirth.IsZero() {
		passenger.DateOfBirth = input.DateOfBirth
	}
	if err := s.passengers.Update(ctx, passenger); err != nil {
		return nil, err
	}
	return passenger, nil
}

func (s *BookingService) DeletePassenger(ctx context.Context, id int64) error {
	return s.passengers.Delete(ctx, id)
}

func (s *BookingService) CreatePayment(ctx context.Context, principal auth.Principal, input PaymentInput) (*domain.Payment, error) {
	booking, err := s.bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(principal, booking); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.PaymentStatusPending
	}
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "must be one of pending, completed, failed, refunded")
	}
	amount := input.Amount
	if amount.IsZero() {
		amount = booking.TotalPrice
	}
	if amount.IsNegative() {
		return nil, domain.NewValidationError("amount", "must not be negative")
	}

	payment := &domain.Payment{
		BookingID:     input.BookingID,
		Amount:        amount,
		PaymentMethod: input.PaymentMethod,
		TransactionID: input.TransactionID,
		Status:        status,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *BookingService) GetPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	return s.payments.GetByID(ctx, id)
}

func (s *BookingService) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	return s.payments.List(ctx)
}

func (s *BookingService) UpdatePayment(ctx context.Context, id int64, input PaymentInput) (*domain.Payment, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Status != "" {
		if !input.Status.Valid() {
			return nil, domain.NewValidationError("status", "must be one of pending, completed, failed, refunded")
		}
		payment.Status = input.Status
	}
	if !input.Amount.IsZero() {
		payment.Amount = input.Amount
	}
	if input.PaymentMethod != "" {
		payment.PaymentMethod = input.PaymentMethod
	}
	if input.TransactionID != "" {
		payment.TransactionID = input.TransactionID
	}
	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *BookingService) DeletePayment(ctx context.Context, id int64) error {
	return s.payments.Delete(ctx, id)
}

func (s *BookingService) authorize(principal auth.Principal, booking *domain.Booking) error {
	if principal.IsAdmin() || booking.UserID == principal.UserID {
		return nil
	}
	return domain.ErrForbidden
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		BookingID:   booking.ID,
		Reference:   booking.Reference,
		UserID:      booking.UserID,
		FlightID:    booking.FlightID,
		SeatsBooked: booking.SeatsBooked,
		TotalPrice:  booking.TotalPrice.String(),
		Status:      string(booking.Status),
		OccurredAt:  time.Now().UTC(),
	}
	if booking.Flight != nil {
		event.FlightNumber = booking.Flight.FlightNumber
	}
	if err := s.producer.Publish(ctx, s.topic, booking.Reference, event); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("publish %s for booking %s: %v", eventType, booking.Reference, err)
	}
}

// CompleteDepartedBookings is run by the worker sweep.
func (s *BookingService) CompleteDepartedBookings(ctx context.Context) ([]domain.Booking, error) {
	completed, err := s.bookings.CompleteDeparted(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	for i := range completed {
		s.publish(ctx, kafka.EventBookingCompleted, &completed[i])
	}
	return completed, nil
}

var _ BookingUseCase = (*BookingService)(nil)
