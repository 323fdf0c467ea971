package api

import (
	"net/http"

	"github.com/akarpov91/flightbook/internal/auth"
	"github.com/akarpov91/flightbook/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type PassengerHandler struct {
	service booking.BookingUseCase
}

func NewPassengerHandler(service booking.BookingUseCase) *PassengerHandler {
	return &PassengerHandler{service: service}
}

func (h *PassengerHandler) Register(router *gin.RouterGroup) {
	router.GET("", Authorize(auth.ActionList, auth.ResourcePassenger), h.list)
	router.POST("", Authorize(auth.ActionCreate, auth.ResourcePassenger), h.create)
	router.GET("/:id", Authorize(auth.ActionRetrieve, auth.ResourcePassenger), h.get)
	router.PUT("/:id", Authorize(auth.ActionUpdate, auth.ResourcePassenger), h.update)
	router.DELETE("/:id", Authorize(auth.ActionDelete, auth.ResourcePassenger), h.delete)
}

type passengerRequest struct {
	BookingID      int64  `json:"booking_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	PassportNumber string `json:"passport_number"`
	DateOfBirth    string `json:"date_of_birth"`
}

func (h *PassengerHandler) toInput(c *gin.Context, req passengerRequest) (booking.PassengerInput, bool) {
	input := booking.PassengerInput{
		BookingID:      req.BookingID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PassportNumber: req.PassportNumber,
	}
	if req.DateOfBirth != "" {
		dob, err := parseDate(req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_of_birth must be formatted YYYY-MM-DD"})
			return input, false
		}
		input.DateOfBirth = dob
	}
	return input, true
}

func (h *PassengerHandler) list(c *gin.Context) {
	passengers, err := h.service.ListPassengers(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, passengers)
}

func (h *PassengerHandler) create(c *gin.Context) {
	var req passengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, ok := h.toInput(c, req)
	if !ok {
		return
	}

	passenger, err := h.service.CreatePassenger(c.Request.Context(), currentPrincipal(c), input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, passenger)
}

func (h *PassengerHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	passenger, err := h.service.GetPassenger(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, passenger)
}

func (h *PassengerHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req passengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, valid := h.toInput(c, req)
	if !valid {
		return
	}

	passenger, err := h.service.UpdatePassenger(c.Request.Context(), id, input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, passenger)
}

func (h *PassengerHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeletePassenger(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
