package api

import (
	"net/http"

	"github.com/akarpov91/flightbook/internal/auth"
	"github.com/akarpov91/flightbook/internal/domain"
	"github.com/akarpov91/flightbook/internal/repository"
	"github.com/gin-gonic/gin"
)

type AirportHandler struct {
	repo repository.AirportRepository
}

type airportRequest struct {
	Code    string `json:"code" binding:"required,len=3"`
	Name    string `json:"name" binding:"required"`
	City    string `json:"city" binding:"required"`
	Country string `json:"country" binding:"required"`
}

func NewAirportHandler(repo repository.AirportRepository) *AirportHandler {
	return &AirportHandler{repo: repo}
}

func (h *AirportHandler) Register(router *gin.RouterGroup) {
	router.GET("", Authorize(auth.ActionList, auth.ResourceAirport), h.list)
	router.POST("", Authorize(auth.ActionCreate, auth.ResourceAirport), h.create)
	router.GET("/:id", Authorize(auth.ActionRetrieve, auth.ResourceAirport), h.get)
	router.PUT("/:id", Authorize(auth.ActionUpdate, auth.ResourceAirport), h.update)
	router.DELETE("/:id", Authorize(auth.ActionDelete, auth.ResourceAirport), h.delete)
}

func (h *AirportHandler) list(c *gin.Context) {
	airports, err := h.repo.List(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, airports)
}

func (h *AirportHandler) create(c *gin.Context) {
	var req airportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	airport := &domain.Airport{Code: req.Code, Name: req.Name, City: req.City, Country: req.Country}
	if err := h.repo.Create(c.Request.Context(), airport); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, airport)
}

func (h *AirportHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	airport, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, airport)
}

func (h *AirportHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req airportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	airport := &domain.Airport{ID: id, Code: req.Code, Name: req.Name, City: req.City, Country: req.Country}
	if err := h.repo.Update(c.Request.Context(), airport); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, airport)
}

func (h *AirportHandler) delete(c *gin.Context) {
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
