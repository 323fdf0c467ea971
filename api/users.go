package api

import (
	"net/http"
	"strconv"

	"github.com/akarpov91/flightbook/internal/auth"
	"github.com/akarpov91/flightbook/internal/domain"
	authsvc "github.com/akarpov91/flightbook/internal/service/auth"
	"github.com/gin-gonic/gin"
)

// UserHandler exposes admin-only user management; self-service lives
// on /register and /users/profile.
type UserHandler struct {
	service authsvc.AuthUseCase
}

func NewUserHandler(service authsvc.AuthUseCase) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Register(router *gin.RouterGroup) {
	router.GET("", Authorize(auth.ActionList, auth.ResourceUser), h.list)
	router.POST("", Authorize(auth.ActionCreate, auth.ResourceUser), h.create)
	router.GET("/:id", Authorize(auth.ActionRetrieve, auth.ResourceUser), h.get)
	router.PUT("/:id", Authorize(auth.ActionUpdate, auth.ResourceUser), h.update)
	router.DELETE("/:id", Authorize(auth.ActionDelete, auth.ResourceUser), h.delete)
}

func (h *UserHandler) list(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// createUserRequest accepts user_type, unlike public registration:
// only admins reach this endpoint.
type createUserRequest struct {
	Username    string          `json:"username" binding:"required"`
	Email       string          `json:"email"`
	Password    string          `json:"password" binding:"required"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	UserType    domain.UserType `json:"user_type"`
	PhoneNumber string          `json:"phone_number"`
}

func (h *UserHandler) create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Register(c.Request.Context(), authsvc.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		UserType:    req.UserType,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input authsvc.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), id, input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses the :id segment; on failure it writes the 400 itself.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
