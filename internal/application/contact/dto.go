package contact

import (
	"time"

	"github.com/contactbook/backend/internal/domain/contact"
)

const birthdayLayout = "2006-01-02"

// CreateContactInput contains input for creating a contact
type CreateContactInput struct {
	Firstname   string
	Lastname    string
	Email       string
	Phone       string
	Birthday    *time.Time
	Description string
}

// UpdateContactInput contains input for a full overwrite of a contact
type UpdateContactInput struct {
	Firstname   string
	Lastname    string
	Email       string
	Phone       string
	Birthday    *time.Time
	Description string
}

// SearchInput holds the optional exact-match filters. A nil field disables
// that filter.
type SearchInput struct {
	Firstname *string
	Lastname  *string
	Email     *string
}

// ListInput holds pagination parameters
type ListInput struct {
	Skip  int
	Limit int
}

// ContactResponse is the contact representation returned to callers
type ContactResponse struct {
	ID          uint      `json:"id"`
	Firstname   string    `json:"firstname"`
	Lastname    string    `json:"lastname"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Birthday    *string   `json:"birthday"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToContactResponse converts a domain contact to a response
func ToContactResponse(c *contact.Contact) ContactResponse {
	var birthday *string
	if c.Birthday != nil {
		formatted := c.Birthday.Format(birthdayLayout)
		birthday = &formatted
	}

	return ContactResponse{
		ID:          c.ID,
		Firstname:   c.Firstname,
		Lastname:    c.Lastname,
		Email:       c.Email,
		Phone:       c.Phone,
		Birthday:    birthday,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToContactResponses converts a slice of domain contacts to responses
func ToContactResponses(contacts []contact.Contact) []ContactResponse {
	responses := make([]ContactResponse, len(contacts))
	for i := range contacts {
		responses[i] = ToContactResponse(&contacts[i])
	}
	return responses
}
