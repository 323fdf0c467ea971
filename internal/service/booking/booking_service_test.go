package booking

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/akarpov91/flightbook/internal/auth"
	"github.com/akarpov91/flightbook/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Confirm(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingRepository) CompleteDeparted(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPassengerRepository struct {
	mock.Mock
}

func (m *MockPassengerRepository) Create(ctx context.Context, passenger *domain.Passenger) error {
	args := m.Called(ctx, passenger)
	return args.Error(0)
}

func (m *MockPassengerRepository) GetByID(ctx context.Context, id int64) (*domain.Passenger, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Passenger), args.Error(1)
}

func (m *MockPassengerRepository) List(ctx context.Context) ([]domain.Passenger, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Passenger), args.Error(1)
}

func (m *MockPassengerRepository) Update(ctx context.Context, passenger *domain.Passenger) error {
	args := m.Called(ctx, passenger)
	return args.Error(0)
}

func (m *MockPassengerRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context) ([]domain.Payment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value any) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func newTestService() (*BookingService, *MockBookingRepository, *MockFlightRepository, *MockPassengerRepository, *MockPaymentRepository, *MockProducer) {
	bookings := &MockBookingRepository{}
	flights := &MockFlightRepository{}
	passengers := &MockPassengerRepository{}
	payments := &MockPaymentRepository{}
	producer := &MockProducer{}
	service := NewBookingService(bookings, flights, passengers, payments, WithProducer(producer, "booking-events"))
	return service, bookings, flights, passengers, payments, producer
}

func customer(id int64) auth.Principal {
	return auth.Principal{UserID: id, Username: "customer", UserType: domain.UserTypeCustomer, Authenticated: true}
}

func admin() auth.Principal {
	return auth.Principal{UserID: 99, Username: "admin", UserType: domain.UserTypeAdmin, Authenticated: true}
}

func TestNewReference_Format(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		ref := NewReference()
		assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{8}$`), ref)
		seen[ref] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestBookingService_CreateBooking_Success(t *testing.T) {
	service, bookings, flights, _, _, producer := newTestService()
	ctx := context.Background()

	flight := &domain.Flight{
		ID:             4,
		FlightNumber:   "FB100",
		BasePrice:      decimal.NewFromFloat(120.50),
		AvailableSeats: 10,
		FlightType:     domain.FlightTypeEconomy,
	}
	flights.On("GetByID", ctx, int64(4)).Return(flight, nil).Once()
	bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Run(func(args mock.Arguments) {
		b := args.Get(1).(*domain.Booking)
		b.ID = 7
		b.Status = domain.BookingStatusPending
	}).Return(nil).Once()
	producer.On("Publish", ctx, "booking-events", mock.Anything, mock.Anything).Return(nil).Once()

	input := CreateBookingInput{
		FlightID:    4,
		SeatsBooked: 2,
		Passengers: []PassengerInput{
			{FirstName: "Ann", LastName: "Lee", DateOfBirth: time.Date(1990, 3, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	booking, err := service.CreateBooking(ctx, customer(5), input)

	assert.NoError(t, err)
	assert.NotNil(t, booking)
	assert.Equal(t, int64(5), booking.UserID)
	assert.Equal(t, domain.BookingStatusPending, booking.Status)
	assert.True(t, booking.TotalPrice.Equal(decimal.NewFromFloat(241.00)))
	assert.Len(t, booking.Reference, 8)
	assert.Equal(t, "FB100", booking.Flight.FlightNumber)

	flights.AssertExpectations(t)
	bookings.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestBookingService_CreateBooking_ValidationErrors(t *testing.T) {
	service, _, _, _, _, _ := newTestService()
	ctx := context.Background()

	testCases := []struct {
		name  string
		input CreateBookingInput
	}{
		{
			name:  "zero seats",
			input: CreateBookingInput{FlightID: 4, SeatsBooked: 0},
		},
		{
			name:  "negative seats",
			input: CreateBookingInput{FlightID: 4, SeatsBooked: -1},
		},
		{
			name: "passenger without name",
			input: CreateBookingInput{
				FlightID:    4,
				SeatsBooked: 1,
				Passengers:  []PassengerInput{{FirstName: "Ann"}},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			booking, err := service.CreateBooking(ctx, customer(5), tc.input)
			assert.Nil(t, booking)
			var vErr *domain.ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestBookingService_CreateBooking_NotEnoughSeats(t *testing.T) {
	service, bookings, flights, _, _, _ := newTestService()
	ctx := context.Background()

	flight := &domain.Flight{ID: 4, BasePrice: decimal.NewFromInt(100), AvailableSeats: 1}
	flights.On("GetByID", ctx, int64(4)).Return(flight, nil).Once()

	booking, err := service.CreateBooking(ctx, customer(5), CreateBookingInput{FlightID: 4, SeatsBooked: 3})

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, domain.ErrSeatsUnavailable)
	bookings.AssertNotCalled(t, "Create")
}

func TestBookingService_CreateBooking_RepositorySeatConflict(t *testing.T) {
	service, bookings, flights, _, _, producer := newTestService()
	ctx := context.Background()

	// The early check passes but a concurrent booking wins the seats
	// inside the transaction.
	flight := &domain.Flight{ID: 4, BasePrice: decimal.NewFromInt(100), AvailableSeats: 2}
	flights.On("GetByID", ctx, int64(4)).Return(flight, nil).Once()
	bookings.On("Create", ctx, mock.Anything).Return(domain.ErrSeatsUnavailable).Once()

	booking, err := service.CreateBooking(ctx, customer(5), CreateBookingInput{FlightID: 4, SeatsBooked: 2})

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, domain.ErrSeatsUnavailable)
	producer.AssertNotCalled(t, "Publish")
}

func TestBookingService_GetBooking_OwnerAndAdmin(t *testing.T) {
	service, bookings, _, _, payments, _ := newTestService()
	ctx := context.Background()

	stored := &domain.Booking{ID: 7, UserID: 5, Status: domain.BookingStatusPending}
	bookings.On("GetByID", ctx, int64(7)).Return(stored, nil)
	payments.On("GetByBookingID", ctx, int64(7)).Return(nil, domain.ErrNotFound)

	got, err := service.GetBooking(ctx, customer(5), 7)
	assert.NoError(t, err)
	assert.Equal(t, stored, got)
	assert.Nil(t, got.Payment)

	got, err = service.GetBooking(ctx, admin(), 7)
	assert.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestBookingService_GetBooking_EmbedsPayment(t *testing.T) {
	service, bookings, _, _, payments, _ := newTestService()
	ctx := context.Background()

	stored := &domain.Booking{ID: 7, UserID: 5, Status: domain.BookingStatusConfirmed}
	paid := &domain.Payment{ID: 3, BookingID: 7, Amount: decimal.NewFromInt(240), Status: domain.PaymentStatusCompleted}
	bookings.On("GetByID", ctx, int64(7)).Return(stored, nil).Once()
	payments.On("GetByBookingID", ctx, int64(7)).Return(paid, nil).Once()

	got, err := service.GetBooking(ctx, customer(5), 7)

	assert.NoError(t, err)
	assert.Equal(t, paid, got.Payment)
	payments.AssertExpectations(t)
}

func TestBookingService_GetBooking_Forbidden(t *testing.T) {
	service, bookings, _, _, _, _ := newTestService()
	ctx := context.Background()

	stored := &domain.Booking{ID: 7, UserID: 5}
	bookings.On("GetByID", ctx, int64(7)).Return(stored, nil).Once()

	got, err := service.GetBooking(ctx, customer(6), 7)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestBookingService_ListBookings_ScopedByRole(t *testing.T) {
	service, bookings, _, _, _, _ := newTestService()
	ctx := context.Background()

	own := []domain.Booking{{ID: 1, UserID: 5}}
	all := []domain.Booking{{ID: 1, UserID: 5}, {ID: 2, UserID: 6}}
	bookings.On("ListByUser", ctx, int64(5)).Return(own, nil).Once()
	bookings.On("List", ctx).Return(all, nil).Once()

	got, err := service.ListBookings(ctx, customer(5))
	assert.NoError(t, err)
	assert.Equal(t, own, got)

	got, err = service.ListBookings(ctx, admin())
	assert.NoError(t, err)
	assert.Equal(t, all, got)

	bookings.AssertExpectations(t)
}

func TestBookingService_UpdateBooking_Confirm(t *testing.T) {
	service, bookings, _, _, _, producer := newTestService()
	ctx := context.Background()

	pending := &domain.Booking{ID: 7, UserID: 5, Status: domain.BookingStatusPending, Reference: "ABCDEF12"}
	confirmed := &domain.Booking{ID: 7, UserID: 5, Status: domain.BookingStatusConfirmed, Reference: "ABCDEF12"}
	bookings.On("GetByID", ctx, int64(7)).Return(pending, nil).Once()
	bookings.On("Confirm", ctx, int64(7)).Return(confirmed, nil).Once()
	producer.On("Publish", ctx, "booking-events", "ABCDEF12", mock.Anything).Return(nil).Once()

	got, err := service.UpdateBooking(ctx, customer(5), 7, UpdateBookingInput{Status: domain.BookingStatusConfirmed})

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, got.Status)
	bookings.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestBookingService_UpdateBooking_Cancel(t *testing.T) {
	service, bookings, _, _, _, producer := newTestService()
	ctx := context.Background()

	pending := &domain.Booking{ID: 7, UserID: 5, Status: domain.BookingStatusPending, Reference: "ABCDEF12"}
	cancelled := &domain.Booking{ID: 7, UserID: 5, Status: domain.BookingStatusCancelled, Reference: "ABCDEF12"}
	bookings.On("GetByID", ctx, int64(7)).Return(pending, nil).Once()
	bookings.On("Cancel", ctx, int64(7)).Return(cancelled, nil).Once()
	producer.On("Publish", ctx, "booking-events", "ABCDEF12", mock.Anything).Return(nil).Once()

	got, err := service.UpdateBooking(ctx, customer(5), 7, UpdateBookingInput{Status: domain.BookingStatusCancelled})

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, got.Status)
	bookings.AssertExpectations(t)
}

func TestBookingService_UpdateBooking_NotPending(t *testing.T) {
	service, bookings, _, _, _, _ := newTestService()
	ctx := context.Background()

	confirmed := &domain.Booking{ID: 7, UserID: 5, Status: domain.BookingStatusConfirmed}
	bookings.On("GetByID", ctx, int64(7)).Return(confirmed, nil).Once()

	got, err := service.UpdateBooking(ctx, customer(5), 7, UpdateBookingInput{Status: domain.BookingStatusCancelled})

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrBookingNotPending)
	bookings.AssertNotCalled(t, "Cancel")
}

func TestBookingService_UpdateBooking_InvalidTarget(t *testing.T) {
	service, bookings, _, _, _, _ := newTestService()
	ctx := context.Background()

	pending := &domain.Booking{ID: 7, UserID: 5, Status: domain.BookingStatusPending}
	bookings.On("GetByID", ctx, int64(7)).Return(pending, nil).Once()

	got, err := service.UpdateBooking(ctx, customer(5), 7, UpdateBookingInput{Status: domain.BookingStatusCompleted})

	assert.Nil(t, got)
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestBookingService_DeleteBooking_PendingOnly(t *testing.T) {
	service, bookings, _, _, _, producer := newTestService()
	ctx := context.Background()

	pending := &domain.Booking{ID: 7, UserID: 5, Status: domain.BookingStatusPending, Reference: "ABCDEF12"}
	bookings.On("GetByID", ctx, int64(7)).Return(pending, nil).Once()
	bookings.On("Delete", ctx, int64(7)).Return(nil).Once()
	producer.On("Publish", ctx, "booking-events", "ABCDEF12", mock.Anything).Return(nil).Once()

	assert.NoError(t, service.DeleteBooking(ctx, customer(5), 7))

	confirmed := &domain.Booking{ID: 8, UserID: 5, Status: domain.BookingStatusConfirmed}
	bookings.On("GetByID", ctx, int64(8)).Return(confirmed, nil).Once()

	err := service.DeleteBooking(ctx, customer(5), 8)
	assert.ErrorIs(t, err, domain.ErrBookingNotPending)

	bookings.AssertExpectations(t)
}

func TestBookingService_CreatePassenger_ChecksBookingOwner(t *testing.T) {
	service, bookings, _, passengers, _, _ := newTestService()
	ctx := context.Background()

	stored := &domain.Booking{ID: 7, UserID: 5}
	bookings.On("GetByID", ctx, int64(7)).Return(stored, nil)
	passengers.On("Create", ctx, mock.AnythingOfType("*domain.Passenger")).Return(nil).Once()

	input := PassengerInput{BookingID: 7, FirstName: "Ann", LastName: "Lee"}
	passenger, err := service.CreatePassenger(ctx, customer(5), input)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), passenger.BookingID)

	passenger, err = service.CreatePassenger(ctx, customer(6), input)
	assert.Nil(t, passenger)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestBookingService_CreatePayment_DefaultsToBookingTotal(t *testing.T) {
	service, bookings, _, _, payments, _ := newTestService()
	ctx := context.Background()

	stored := &domain.Booking{ID: 7, UserID: 5, TotalPrice: decimal.NewFromInt(240)}
	bookings.On("GetByID", ctx, int64(7)).Return(stored, nil).Once()
	payments.On("Create", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil).Once()

	payment, err := service.CreatePayment(ctx, customer(5), PaymentInput{BookingID: 7, PaymentMethod: "card"})

	assert.NoError(t, err)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(240)))
	assert.Equal(t, domain.PaymentStatusPending, payment.Status)
	payments.AssertExpectations(t)
}

func TestBookingService_CreatePayment_InvalidStatus(t *testing.T) {
	service, bookings, _, _, payments, _ := newTestService()
	ctx := context.Background()

	stored := &domain.Booking{ID: 7, UserID: 5}
	bookings.On("GetByID", ctx, int64(7)).Return(stored, nil).Once()

	payment, err := service.CreatePayment(ctx, customer(5), PaymentInput{BookingID: 7, Status: "paid"})

	assert.Nil(t, payment)
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
	payments.AssertNotCalled(t, "Create")
}

func TestBookingService_CompleteDepartedBookings(t *testing.T) {
	service, bookings, _, _, _, producer := newTestService()
	ctx := context.Background()

	completed := []domain.Booking{
		{ID: 1, Reference: "AAAA1111", Status: domain.BookingStatusCompleted},
		{ID: 2, Reference: "BBBB2222", Status: domain.BookingStatusCompleted},
	}
	bookings.On("CompleteDeparted", ctx, mock.AnythingOfType("time.Time")).Return(completed, nil).Once()
	producer.On("Publish", ctx, "booking-events", "AAAA1111", mock.Anything).Return(nil).Once()
	producer.On("Publish", ctx, "booking-events", "BBBB2222", mock.Anything).Return(nil).Once()

	result, err := service.CompleteDepartedBookings(ctx)

	assert.NoError(t, err)
	assert.Equal(t, completed, result)
	producer.AssertExpectations(t)
}

func TestBookingService_CompleteDepartedBookings_Error(t *testing.T) {
	service, bookings, _, _, _, producer := newTestService()
	ctx := context.Background()

	expectedErr := errors.New("database error")
	bookings.On("CompleteDeparted", ctx, mock.AnythingOfType("time.Time")).Return(nil, expectedErr).Once()

	result, err := service.CompleteDepartedBookings(ctx)

	assert.Nil(t, result)
	assert.Equal(t, expectedErr, err)
	producer.AssertNotCalled(t, "Publish")
}

func TestBookingService_Publish_NoProducer(t *testing.T) {
	service := NewBookingService(&MockBookingRepository{}, &MockFlightRepository{}, &MockPassengerRepository{}, &MockPaymentRepository{})

	// Must not panic without a producer wired.
	service.publish(context.Background(), "booking_created", &domain.Booking{Reference: "AAAA1111"})
}
