package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/contactbook/backend/internal/domain/contact"
	"github.com/contactbook/backend/internal/domain/shared"
	"github.com/contactbook/backend/internal/infrastructure/persistence/models"
)

// GormContactRepository implements contact.Repository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// List returns up to limit contacts owned by ownerID, skipping the first skip rows
func (r *GormContactRepository) List(ctx context.Context, ownerID uint, skip, limit int) ([]contact.Contact, error) {
	var contactModels []models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("id ASC").
		Offset(skip).
		Limit(limit).
		Find(&contactModels).Error; err != nil {
		return nil, err
	}
	return toDomainContacts(contactModels), nil
}

// FindByID finds a contact by ID within the owner's address book
func (r *GormContactRepository) FindByID(ctx context.Context, ownerID, id uint) (*contact.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", ownerID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create persists a new contact
func (r *GormContactRepository) Create(ctx context.Context, c *contact.Contact) error {
	model := models.ContactModelFromDomain(c)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError("ALREADY_EXISTS", "A contact with this email or phone already exists")
		}
		return err
	}
	// The database assigns the ID on insert
	c.ID = model.ID
	return nil
}

// Update persists a full overwrite of an existing contact's fields
func (r *GormContactRepository) Update(ctx context.Context, c *contact.Contact) error {
	model := models.ContactModelFromDomain(c)
	result := r.db.WithContext(ctx).
		Model(&models.ContactModel{}).
		Where("user_id = ? AND id = ?", c.OwnerID, c.ID).
		Select("Firstname", "Lastname", "Email", "Phone", "Birthday", "Description", "UpdatedAt").
		Updates(model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError("ALREADY_EXISTS", "A contact with this email or phone already exists")
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes the contact and returns its pre-deletion snapshot
func (r *GormContactRepository) Delete(ctx context.Context, ownerID, id uint) (*contact.Contact, error) {
	snapshot, err := r.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Delete(&models.ContactModel{}, "user_id = ? AND id = ?", ownerID, id)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, shared.ErrNotFound
	}
	return snapshot, nil
}

// Search returns the multiset union of exact matches on the enabled criteria.
// Each enabled criterion runs as its own query; a contact matching several
// criteria appears once per match.
func (r *GormContactRepository) Search(ctx context.Context, ownerID uint, criteria contact.SearchCriteria) ([]contact.Contact, error) {
	results := make([]contact.Contact, 0)

	type filter struct {
		column string
		value  *string
	}
	filters := []filter{
		{"firstname", criteria.Firstname},
		{"lastname", criteria.Lastname},
		{"email", criteria.Email},
	}

	for _, f := range filters {
		if f.value == nil {
			continue
		}
		var contactModels []models.ContactModel
		if err := r.db.WithContext(ctx).
			Where("user_id = ? AND "+f.column+" = ?", ownerID, *f.value).
			Order("id ASC").
			Find(&contactModels).Error; err != nil {
			return nil, err
		}
		results = append(results, toDomainContacts(contactModels)...)
	}

	return results, nil
}

// UpcomingBirthdays returns the owner's contacts whose birthday falls within
// the lookahead window. The projection onto the current and next year cannot
// be expressed portably in SQL, so rows with a birthday are filtered here.
func (r *GormContactRepository) UpcomingBirthdays(ctx context.Context, ownerID uint, now time.Time) ([]contact.Contact, error) {
	var contactModels []models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND birthday IS NOT NULL", ownerID).
		Order("id ASC").
		Find(&contactModels).Error; err != nil {
		return nil, err
	}

	results := make([]contact.Contact, 0)
	for _, model := range contactModels {
		c := model.ToDomain()
		if c.BirthdayInWindow(now, contact.BirthdayWindow) {
			results = append(results, *c)
		}
	}
	return results, nil
}

func toDomainContacts(contactModels []models.ContactModel) []contact.Contact {
	contacts := make([]contact.Contact, len(contactModels))
	for i, model := range contactModels {
		contacts[i] = *model.ToDomain()
	}
	return contacts
}

// Ensure GormContactRepository implements contact.Repository
var _ contact.Repository = (*GormContactRepository)(nil)
