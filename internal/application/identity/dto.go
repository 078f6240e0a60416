package identity

import (
	"time"

	"github.com/contactbook/backend/internal/domain/identity"
	"github.com/contactbook/backend/internal/infrastructure/auth"
)

// SignupInput contains input for registering a new account
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput contains input for authentication
type LoginInput struct {
	Email    string
	Password string
}

// SignupResult is returned after a successful registration
type SignupResult struct {
	User   UserResponse `json:"user"`
	Detail string       `json:"detail"`
}

// LoginResult is returned after a successful authentication
type LoginResult struct {
	User   UserResponse    `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// UserResponse is the account representation returned to callers
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"created_at"`
}

// ToUserResponse converts a domain user to a response
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Confirmed: u.Confirmed,
		CreatedAt: u.CreatedAt,
	}
}
