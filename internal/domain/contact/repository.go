package contact

import (
	"context"
	"time"
)

// SearchCriteria holds the three exact-match filters for Search.
// A nil field disables that filter; a non-nil empty string matches contacts
// whose corresponding column is genuinely empty.
type SearchCriteria struct {
	Firstname *string
	Lastname  *string
	Email     *string
}

// Repository defines the interface for contact persistence. Every operation
// except Create is scoped by the owning user's ID: a contact that exists but
// belongs to someone else is indistinguishable from one that does not exist.
type Repository interface {
	// List returns up to limit contacts owned by ownerID, skipping the first
	// skip rows, in storage-defined order.
	List(ctx context.Context, ownerID uint, skip, limit int) ([]Contact, error)

	// FindByID finds a contact by ID within the owner's address book
	FindByID(ctx context.Context, ownerID, id uint) (*Contact, error)

	// Create persists a new contact. Returns shared.ErrAlreadyExists-class
	// errors on email or phone collisions.
	Create(ctx context.Context, c *Contact) error

	// Update persists a full overwrite of an existing contact's fields
	Update(ctx context.Context, c *Contact) error

	// Delete removes the contact and returns its pre-deletion snapshot
	Delete(ctx context.Context, ownerID, id uint) (*Contact, error)

	// Search returns the multiset union of exact matches on the enabled
	// criteria. A contact matching more than one criterion appears once per
	// matching criterion.
	Search(ctx context.Context, ownerID uint, criteria SearchCriteria) ([]Contact, error)

	// UpcomingBirthdays returns the owner's contacts whose birthday falls in
	// the (now, now+7d] window, evaluated per BirthdayInWindow.
	UpcomingBirthdays(ctx context.Context, ownerID uint, now time.Time) ([]Contact, error)
}

// BirthdayWindow is the lookahead used by UpcomingBirthdays
const BirthdayWindow = 7 * 24 * time.Hour
