package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	identityapp "github.com/contactbook/backend/internal/application/identity"
)

// avatar uploads above this size are rejected before hitting the uploader
const maxAvatarSize = 5 << 20

// UserHandler handles account API endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Me returns the authenticated account
func (h *UserHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.userService.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// UpdateAvatar replaces the authenticated account's avatar image
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing avatar file")
		return
	}
	if fileHeader.Size > maxAvatarSize {
		h.BadRequest(c, "Avatar file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Unable to read avatar file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarSize+1))
	if err != nil {
		h.InternalError(c, "Unable to read avatar file")
		return
	}

	user, err := h.userService.UpdateAvatar(c.Request.Context(), userID, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}
