package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	identityapp "github.com/contactbook/backend/internal/application/identity"
)

// AuthHandler handles authentication API endpoints
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// SignupRequest represents a registration request
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"grace"`
	Email    string `json:"email" binding:"required,email,max=250" example:"grace@example.com"`
	Password string `json:"password" binding:"required,min=8,max=72" example:"s3cretpass"`
}

// LoginRequest represents an authentication request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"grace@example.com"`
	Password string `json:"password" binding:"required" example:"s3cretpass"`
}

// RequestEmailRequest asks for a new confirmation email
type RequestEmailRequest struct {
	Email string `json:"email" binding:"required,email" example:"grace@example.com"`
}

// MessageResponse carries a human-readable status message
type MessageResponse struct {
	Message string `json:"message"`
}

// Signup registers a new account and queues a confirmation email
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindingError(c, err)
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), identityapp.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Login authenticates a confirmed account and issues a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindingError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Refresh rotates a refresh token into a fresh token pair. The refresh token
// is presented as a bearer token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		h.Unauthorized(c, "Missing refresh token")
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tokens)
}

// ConfirmEmail marks the account carried by the token as confirmed
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		h.BadRequest(c, "Missing confirmation token")
		return
	}

	message, err := h.authService.ConfirmEmail(c.Request.Context(), token)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageResponse{Message: message})
}

// RequestEmail queues a new confirmation email. The response does not reveal
// whether the account exists.
func (h *AuthHandler) RequestEmail(c *gin.Context) {
	var req RequestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindingError(c, err)
		return
	}

	message, err := h.authService.RequestConfirmationEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageResponse{Message: message})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
