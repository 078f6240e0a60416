package identity

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/contactbook/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents an account that owns contacts.
// Registration creates it unconfirmed; confirmation, token refresh and avatar
// updates are the only mutations. Users are never deleted by this service.
type User struct {
	shared.BaseEntity
	Username     string
	Email        string
	PasswordHash string
	Avatar       string
	RefreshToken string
	Confirmed    bool
}

// NewUser creates a new unconfirmed user with a hashed password
func NewUser(username, email, password string) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	now := time.Now()
	return &User{
		BaseEntity: shared.BaseEntity{
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     strings.TrimSpace(username),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
	}, nil
}

// VerifyPassword checks the given plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// Confirm marks the user's email as verified. Idempotent.
func (u *User) Confirm() {
	if u.Confirmed {
		return
	}
	u.Confirmed = true
	u.Touch()
}

// SetRefreshToken stores the currently issued refresh token.
// An empty token clears the stored value, invalidating the session.
func (u *User) SetRefreshToken(token string) {
	u.RefreshToken = token
	u.Touch()
}

// SetAvatar updates the user's avatar reference
func (u *User) SetAvatar(url string) error {
	if utf8.RuneCountInString(url) > 255 {
		return shared.NewDomainError("INVALID_AVATAR", "Avatar URL cannot exceed 255 characters")
	}
	u.Avatar = url
	u.Touch()
	return nil
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	length := utf8.RuneCountInString(username)
	if length < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if length > 50 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 50 characters")
	}
	return nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < 6 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}
	// bcrypt operates on bytes and rejects inputs above 72 of them, so the
	// upper bound is a byte count
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 bytes")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if utf8.RuneCountInString(email) > 250 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 250 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
