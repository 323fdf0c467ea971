package api

import (
	"net/http"

	"github.com/akarpov91/flightbook/internal/domain"
	authsvc "github.com/akarpov91/flightbook/internal/service/auth"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service authsvc.AuthUseCase
}

func NewAuthHandler(service authsvc.AuthUseCase) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(router *gin.Engine) {
	router.POST("/register", h.register)
	router.POST("/token", h.login)
	// Kept as an alias of /token.
	router.POST("/login", h.login)
	router.POST("/token/refresh", h.refresh)
	router.GET("/users/profile", RequireAuth(), h.profile)
	router.PUT("/users/profile", RequireAuth(), h.updateProfile)
}

// registerRequest carries no user_type on purpose: public signup
// always creates customers, staff and admin accounts go through the
// admin-only /users endpoint.
type registerRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email"`
	Password    string `json:"password" binding:"required"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type userSummary struct {
	ID        int64           `json:"id"`
	Username  string          `json:"username"`
	UserType  domain.UserType `json:"user_type"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Email     string          `json:"email"`
}

func summarize(u *domain.User) userSummary {
	return userSummary{
		ID:        u.ID,
		Username:  u.Username,
		UserType:  u.UserType,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

func (h *AuthHandler) register(c *gin.Context) {
	var req registerRequest
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
		UserType:    domain.UserTypeCustomer,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summarize(user))
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access":  result.Tokens.Access,
		"refresh": result.Tokens.Refresh,
		"user":    summarize(result.User),
	})
}

func (h *AuthHandler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	access, err := h.service.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

func (h *AuthHandler) profile(c *gin.Context) {
	user, err := h.service.Profile(c.Request.Context(), currentPrincipal(c).UserID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) updateProfile(c *gin.Context) {
	var input authsvc.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), currentPrincipal(c).UserID, input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
