package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akarpov91/flightbook/internal/auth"
	"github.com/akarpov91/flightbook/internal/domain"
	"github.com/akarpov91/flightbook/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, principal auth.Principal, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, principal, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, principal auth.Principal, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, principal, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context, principal auth.Principal) ([]domain.Booking, error) {
	args := m.Called(ctx, principal)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) UpdateBooking(ctx context.Context, principal auth.Principal, id int64, input booking.UpdateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, principal, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) DeleteBooking(ctx context.Context, principal auth.Principal, id int64) error {
	args := m.Called(ctx, principal, id)
	return args.Error(0)
}

func (m *MockBookingUseCase) CreatePassenger(ctx context.Context, principal auth.Principal, input booking.PassengerInput) (*domain.Passenger, error) {
	args := m.Called(ctx, principal, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Passenger), args.Error(1)
}

func (m *MockBookingUseCase) GetPassenger(ctx context.Context, id int64) (*domain.Passenger, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Passenger), args.Error(1)
}

func (m *MockBookingUseCase) ListPassengers(ctx context.Context) ([]domain.Passenger, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Passenger), args.Error(1)
}

func (m *MockBookingUseCase) UpdatePassenger(ctx context.Context, id int64, input booking.PassengerInput) (*domain.Passenger, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Passenger), args.Error(1)
}

func (m *MockBookingUseCase) DeletePassenger(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingUseCase) CreatePayment(ctx context.Context, principal auth.Principal, input booking.PaymentInput) (*domain.Payment, error) {
	args := m.Called(ctx, principal, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockBookingUseCase) GetPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockBookingUseCase) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockBookingUseCase) UpdatePayment(ctx context.Context, id int64, input booking.PaymentInput) (*domain.Payment, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockBookingUseCase) DeletePayment(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testPrincipal() auth.Principal {
	return auth.Principal{UserID: 5, Username: "ann", UserType: domain.UserTypeCustomer, Authenticated: true}
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(gin.H{
		"flight_id":    4,
		"seats_booked": 2,
		"passengers": []gin.H{
			{"first_name": "Ann", "last_name": "Lee", "date_of_birth": "1990-03-01"},
		},
	})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(principalKey, testPrincipal())

	created := &domain.Booking{
		ID:          7,
		UserID:      5,
		FlightID:    4,
		Reference:   "ABCDEF12",
		Status:      domain.BookingStatusPending,
		TotalPrice:  decimal.NewFromInt(240),
		SeatsBooked: 2,
		Flight:      &domain.Flight{ID: 4, FlightNumber: "FB100", FlightType: domain.FlightTypeEconomy},
	}
	expectedInput := booking.CreateBookingInput{
		FlightID:    4,
		SeatsBooked: 2,
		Passengers: []booking.PassengerInput{
			{FirstName: "Ann", LastName: "Lee", DateOfBirth: time.Date(1990, 3, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	mockService.On("CreateBooking", c.Request.Context(), testPrincipal(), expectedInput).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "ABCDEF12", response.Reference)
	assert.Equal(t, domain.BookingStatusPending, response.Status)
	assert.Equal(t, "FB100", response.Flight.FlightNumber)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_badDate(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(gin.H{
		"flight_id":    4,
		"seats_booked": 1,
		"passengers": []gin.H{
			{"first_name": "Ann", "last_name": "Lee", "date_of_birth": "01/03/1990"},
		},
	})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(principalKey, testPrincipal())

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateBooking")
}

func TestBookingHandler_create_seatsUnavailable(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(gin.H{"flight_id": 4, "seats_booked": 3})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(principalKey, testPrincipal())

	mockService.On("CreateBooking", c.Request.Context(), testPrincipal(), mock.Anything).Return(nil, domain.ErrSeatsUnavailable)

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not enough available seats")
}

func TestBookingHandler_get(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "7"}}
	c.Request = httptest.NewRequest("GET", "/bookings/7", nil)
	c.Set(principalKey, testPrincipal())

	stored := &domain.Booking{ID: 7, UserID: 5, Reference: "ABCDEF12", Status: domain.BookingStatusConfirmed}
	mockService.On("GetBooking", c.Request.Context(), testPrincipal(), int64(7)).Return(stored, nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, response.Status)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_get_forbidden(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "7"}}
	c.Request = httptest.NewRequest("GET", "/bookings/7", nil)
	c.Set(principalKey, testPrincipal())

	mockService.On("GetBooking", c.Request.Context(), testPrincipal(), int64(7)).Return(nil, domain.ErrForbidden)

	handler.get(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBookingHandler_update(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(gin.H{"status": "cancelled"})
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	c.Request = httptest.NewRequest("PUT", "/bookings/7", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(principalKey, testPrincipal())

	cancelled := &domain.Booking{ID: 7, UserID: 5, Status: domain.BookingStatusCancelled}
	mockService.On("UpdateBooking", c.Request.Context(), testPrincipal(), int64(7),
		booking.UpdateBookingInput{Status: domain.BookingStatusCancelled}).Return(cancelled, nil)

	handler.update(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, response.Status)
}

func TestBookingHandler_update_notPending(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(gin.H{"status": "confirmed"})
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	c.Request = httptest.NewRequest("PUT", "/bookings/7", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(principalKey, testPrincipal())

	mockService.On("UpdateBooking", c.Request.Context(), testPrincipal(), int64(7), mock.Anything).
		Return(nil, domain.ErrBookingNotPending)

	handler.update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "only pending bookings")
}

func TestBookingHandler_delete(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "7"}}
	c.Request = httptest.NewRequest("DELETE", "/bookings/7", nil)
	c.Set(principalKey, testPrincipal())

	mockService.On("DeleteBooking", c.Request.Context(), testPrincipal(), int64(7)).Return(nil)

	handler.delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_badID(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	c.Request = httptest.NewRequest("GET", "/bookings/abc", nil)

	handler.get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetBooking")
}
