package api

import (
	"net/http"

	"github.com/akarpov91/flightbook/internal/auth"
	"github.com/akarpov91/flightbook/internal/domain"
	"github.com/akarpov91/flightbook/internal/repository"
	"github.com/gin-gonic/gin"
)

type AircraftHandler struct {
	repo repository.AircraftRepository
}

type aircraftRequest struct {
	AirlineID          int64  `json:"airline_id" binding:"required"`
	Model              string `json:"model" binding:"required"`
	Capacity           int    `json:"capacity" binding:"required,gt=0"`
	RegistrationNumber string `json:"registration_number" binding:"required"`
}

func NewAircraftHandler(repo repository.AircraftRepository) *AircraftHandler {
	return &AircraftHandler{repo: repo}
}

func (h *AircraftHandler) Register(router *gin.RouterGroup) {
	router.GET("", Authorize(auth.ActionList, auth.ResourceAircraft), h.list)
	router.POST("", Authorize(auth.ActionCreate, auth.ResourceAircraft), h.create)
	router.GET("/:id", Authorize(auth.ActionRetrieve, auth.ResourceAircraft), h.get)
	router.PUT("/:id", Authorize(auth.ActionUpdate, auth.ResourceAircraft), h.update)
	router.DELETE("/:id", Authorize(auth.ActionDelete, auth.ResourceAircraft), h.delete)
}

func (h *AircraftHandler) list(c *gin.Context) {
	aircraft, err := h.repo.List(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, aircraft)
}

func (h *AircraftHandler) create(c *gin.Context) {
	var req aircraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	aircraft := &domain.Aircraft{
		AirlineID:          req.AirlineID,
		Model:              req.Model,
		Capacity:           req.Capacity,
		RegistrationNumber: req.RegistrationNumber,
	}
	if err := h.repo.Create(c.Request.Context(), aircraft); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, aircraft)
}

func (h *AircraftHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	aircraft, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, aircraft)
}

func (h *AircraftHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req aircraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	aircraft := &domain.Aircraft{
		ID:                 id,
		AirlineID:          req.AirlineID,
		Model:              req.Model,
		Capacity:           req.Capacity,
		RegistrationNumber: req.RegistrationNumber,
	}
	if err := h.repo.Update(c.Request.Context(), aircraft); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, aircraft)
}

func (h *AircraftHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
