package api

import (
	"net/http"
	"time"

	"github.com/akarpov91/flightbook/internal/auth"
	"github.com/akarpov91/flightbook/internal/domain"
	"github.com/akarpov91/flightbook/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("", Authorize(auth.ActionList, auth.ResourceBooking), h.list)
	router.POST("", Authorize(auth.ActionCreate, auth.ResourceBooking), h.create)
	router.GET("/:id", Authorize(auth.ActionRetrieve, auth.ResourceBooking), h.get)
	router.PUT("/:id", Authorize(auth.ActionUpdate, auth.ResourceBooking), h.update)
	router.DELETE("/:id", Authorize(auth.ActionDelete, auth.ResourceBooking), h.delete)
}

type passengerPayload struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	PassportNumber string `json:"passport_number"`
	DateOfBirth    string `json:"date_of_birth" binding:"required"`
}

type createBookingRequest struct {
	FlightID    int64              `json:"flight_id" binding:"required"`
	SeatsBooked int                `json:"seats_booked" binding:"required"`
	Passengers  []passengerPayload `json:"passengers"`
}

type updateBookingRequest struct {
	Status domain.BookingStatus `json:"status" binding:"required"`
}

type flightSummary struct {
	FlightNumber string            `json:"flight_number"`
	FlightType   domain.FlightType `json:"flight_type"`
}

type bookingResponse struct {
	ID          int64                `json:"id"`
	UserID      int64                `json:"user_id"`
	FlightID    int64                `json:"flight_id"`
	Reference   string               `json:"booking_reference"`
	Status      domain.BookingStatus `json:"status"`
	TotalPrice  decimal.Decimal      `json:"total_price"`
	SeatsBooked int                  `json:"seats_booked"`
	BookingDate time.Time            `json:"booking_date"`
	Flight      *flightSummary       `json:"flight,omitempty"`
	Passengers  []domain.Passenger   `json:"passengers,omitempty"`
	Payment     *domain.Payment      `json:"payment,omitempty"`
}

func newBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		FlightID:    b.FlightID,
		Reference:   b.Reference,
		Status:      b.Status,
		TotalPrice:  b.TotalPrice,
		SeatsBooked: b.SeatsBooked,
		BookingDate: b.BookingDate,
		Passengers:  b.Passengers,
		Payment:     b.Payment,
	}
	if b.Flight != nil {
		resp.Flight = &flightSummary{FlightNumber: b.Flight.FlightNumber, FlightType: b.Flight.FlightType}
	}
	return resp
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := booking.CreateBookingInput{
		FlightID:    req.FlightID,
		SeatsBooked: req.SeatsBooked,
	}
	for _, p := range req.Passengers {
		dob, err := parseDate(p.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_of_birth must be formatted YYYY-MM-DD"})
			return
		}
		input.Passengers = append(input.Passengers, booking.PassengerInput{
			FirstName:      p.FirstName,
			LastName:       p.LastName,
			PassportNumber: p.PassportNumber,
			DateOfBirth:    dob,
		})
	}

	created, err := h.service.CreateBooking(c.Request.Context(), currentPrincipal(c), input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newBookingResponse(created))
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context(), currentPrincipal(c))
	if err != nil {
		renderError(c, err)
		return
	}
	resp := make([]bookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = newBookingResponse(&bookings[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.service.GetBooking(c.Request.Context(), currentPrincipal(c), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(b))
}

func (h *BookingHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.UpdateBooking(c.Request.Context(), currentPrincipal(c), id, booking.UpdateBookingInput{Status: req.Status})
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(updated))
}

func (h *BookingHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteBooking(c.Request.Context(), currentPrincipal(c), id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}
