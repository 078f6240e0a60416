package contact

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/contactbook/backend/internal/domain/shared"
)

// Field length limits, matching the storage schema
const (
	maxNameLength        = 25
	maxDescriptionLength = 150
)

// Contact represents a single address-book entry belonging to one user.
// Email and phone are unique across all contacts, not just per owner; the
// storage layer enforces this with unique indexes.
type Contact struct {
	shared.BaseEntity
	Firstname   string
	Lastname    string
	Email       string
	Phone       string
	Birthday    *time.Time
	Description string
	OwnerID     uint
}

// New creates a new contact owned by ownerID
func New(ownerID uint, firstname, lastname, email, phone string, birthday *time.Time, description string) (*Contact, error) {
	c := &Contact{OwnerID: ownerID}
	if err := c.setFields(firstname, lastname, email, phone, birthday, description); err != nil {
		return nil, err
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	return c, nil
}

// Update overwrites every mutable field. Partial updates are not supported:
// callers must supply all six fields on every update.
func (c *Contact) Update(firstname, lastname, email, phone string, birthday *time.Time, description string) error {
	if err := c.setFields(firstname, lastname, email, phone, birthday, description); err != nil {
		return err
	}
	c.Touch()
	return nil
}

func (c *Contact) setFields(firstname, lastname, email, phone string, birthday *time.Time, description string) error {
	if err := validateName("firstname", firstname); err != nil {
		return err
	}
	if err := validateName("lastname", lastname); err != nil {
		return err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 150 characters")
	}

	c.Firstname = firstname
	c.Lastname = lastname
	c.Email = email
	c.Phone = strings.TrimSpace(phone)
	c.Birthday = birthday
	c.Description = description
	return nil
}

// BirthdayInWindow reports whether the contact's birthday, projected onto the
// current and the next calendar year, falls strictly after now and at or
// before now plus the window. Projecting onto both years is what makes a
// late-December evaluation match an early-January birthday. Contacts without
// a birthday never match.
func (c *Contact) BirthdayInWindow(now time.Time, window time.Duration) bool {
	if c.Birthday == nil {
		return false
	}
	end := now.Add(window)
	for _, year := range []int{now.Year(), now.Year() + 1} {
		projected := time.Date(year, c.Birthday.Month(), c.Birthday.Day(), 0, 0, 0, 0, now.Location())
		if projected.After(now) && !projected.After(end) {
			return true
		}
	}
	return false
}

func validateName(field, value string) error {
	if value == "" {
		return shared.NewDomainError("INVALID_"+strings.ToUpper(field), "The "+field+" cannot be empty")
	}
	// Limits count characters, not bytes, so multibyte names get the
	// same budget as ASCII ones
	if utf8.RuneCountInString(value) > maxNameLength {
		return shared.NewDomainError("INVALID_"+strings.ToUpper(field), "The "+field+" cannot exceed 25 characters")
	}
	return nil
}
