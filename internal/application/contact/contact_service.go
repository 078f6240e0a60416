package contact

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/contactbook/backend/internal/domain/contact"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// ContactService handles contact-related business operations
type ContactService struct {
	contactRepo contact.Repository
	logger      *zap.Logger
	now         func() time.Time
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo contact.Repository, logger *zap.Logger) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns a page of the owner's contacts
func (s *ContactService) List(ctx context.Context, ownerID uint, input ListInput) ([]ContactResponse, error) {
	if input.Skip < 0 {
		input.Skip = 0
	}
	if input.Limit <= 0 {
		input.Limit = defaultListLimit
	}
	if input.Limit > maxListLimit {
		input.Limit = maxListLimit
	}

	contacts, err := s.contactRepo.List(ctx, ownerID, input.Skip, input.Limit)
	if err != nil {
		return nil, err
	}
	return ToContactResponses(contacts), nil
}

// GetByID retrieves one of the owner's contacts by ID
func (s *ContactService) GetByID(ctx context.Context, ownerID, id uint) (*ContactResponse, error) {
	c, err := s.contactRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	response := ToContactResponse(c)
	return &response, nil
}

// Create creates a new contact owned by ownerID
func (s *ContactService) Create(ctx context.Context, ownerID uint, input CreateContactInput) (*ContactResponse, error) {
	c, err := contact.New(ownerID, input.Firstname, input.Lastname, input.Email, input.Phone, input.Birthday, input.Description)
	if err != nil {
		return nil, err
	}

	if err := s.contactRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("Contact created",
		zap.Uint("contact_id", c.ID),
		zap.Uint("owner_id", ownerID),
	)

	response := ToContactResponse(c)
	return &response, nil
}

// Update overwrites all fields of one of the owner's contacts
func (s *ContactService) Update(ctx context.Context, ownerID, id uint, input UpdateContactInput) (*ContactResponse, error) {
	c, err := s.contactRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := c.Update(input.Firstname, input.Lastname, input.Email, input.Phone, input.Birthday, input.Description); err != nil {
		return nil, err
	}

	if err := s.contactRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	response := ToContactResponse(c)
	return &response, nil
}

// Delete removes one of the owner's contacts and returns the deleted contact
func (s *ContactService) Delete(ctx context.Context, ownerID, id uint) (*ContactResponse, error) {
	c, err := s.contactRepo.Delete(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Contact deleted",
		zap.Uint("contact_id", id),
		zap.Uint("owner_id", ownerID),
	)

	response := ToContactResponse(c)
	return &response, nil
}

// Search returns the owner's contacts matching any of the enabled filters.
// A contact matching several filters appears once per match.
func (s *ContactService) Search(ctx context.Context, ownerID uint, input SearchInput) ([]ContactResponse, error) {
	contacts, err := s.contactRepo.Search(ctx, ownerID, contact.SearchCriteria{
		Firstname: input.Firstname,
		Lastname:  input.Lastname,
		Email:     input.Email,
	})
	if err != nil {
		return nil, err
	}
	return ToContactResponses(contacts), nil
}

// UpcomingBirthdays returns the owner's contacts with a birthday in the next
// seven days
func (s *ContactService) UpcomingBirthdays(ctx context.Context, ownerID uint) ([]ContactResponse, error) {
	contacts, err := s.contactRepo.UpcomingBirthdays(ctx, ownerID, s.now())
	if err != nil {
		return nil, err
	}
	return ToContactResponses(contacts), nil
}
