package api

import (
	"net/http"

	"github.com/akarpov91/flightbook/internal/auth"
	"github.com/akarpov91/flightbook/internal/domain"
	"github.com/akarpov91/flightbook/internal/repository"
	"github.com/gin-gonic/gin"
)

type AirlineHandler struct {
	repo repository.AirlineRepository
}

type airlineRequest struct {
	Name    string `json:"name" binding:"required"`
	LogoURL string `json:"logo_url"`
}

func NewAirlineHandler(repo repository.AirlineRepository) *AirlineHandler {
	return &AirlineHandler{repo: repo}
}

func (h *AirlineHandler) Register(router *gin.RouterGroup) {
	router.GET("", Authorize(auth.ActionList, auth.ResourceAirline), h.list)
	router.POST("", Authorize(auth.ActionCreate, auth.ResourceAirline), h.create)
	router.GET("/:id", Authorize(auth.ActionRetrieve, auth.ResourceAirline), h.get)
	router.PUT("/:id", Authorize(auth.ActionUpdate, auth.ResourceAirline), h.update)
	router.DELETE("/:id", Authorize(auth.ActionDelete, auth.ResourceAirline), h.delete)
}

func (h *AirlineHandler) list(c *gin.Context) {
	airlines, err := h.repo.List(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, airlines)
}

func (h *AirlineHandler) create(c *gin.Context) {
	var req airlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	airline := &domain.Airline{Name: req.Name, LogoURL: req.LogoURL}
	if err := h.repo.Create(c.Request.Context(), airline); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, airline)
}

func (h *AirlineHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	airline, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, airline)
}

func (h *AirlineHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req airlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	airline := &domain.Airline{ID: id, Name: req.Name, LogoURL: req.LogoURL}
	if err := h.repo.Update(c.Request.Context(), airline); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, airline)
}

func (h *AirlineHandler) delete(c *gin.Context) {
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
