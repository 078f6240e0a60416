package models

import (
	"time"

	"github.com/contactbook/backend/internal/domain/contact"
)

// ContactModel is the persistence model for the Contact domain entity.
// Email and phone are unique across all owners.
type ContactModel struct {
	BaseModel
	Firstname   string     `gorm:"type:varchar(25);not null"`
	Lastname    string     `gorm:"type:varchar(25);not null"`
	Email       string     `gorm:"type:varchar(250);not null;uniqueIndex"`
	Phone       string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Birthday    *time.Time `gorm:"type:date"`
	Description string     `gorm:"type:varchar(150)"`
	UserID      uint       `gorm:"not null;index"`
	User        *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact entity.
func (m *ContactModel) ToDomain() *contact.Contact {
	return &contact.Contact{
		BaseEntity:  m.BaseModel.ToDomain(),
		Firstname:   m.Firstname,
		Lastname:    m.Lastname,
		Email:       m.Email,
		Phone:       m.Phone,
		Birthday:    m.Birthday,
		Description: m.Description,
		OwnerID:     m.UserID,
	}
}

// FromDomain populates the persistence model from a domain Contact entity.
func (m *ContactModel) FromDomain(c *contact.Contact) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Firstname = c.Firstname
	m.Lastname = c.Lastname
	m.Email = c.Email
	m.Phone = c.Phone
	m.Birthday = c.Birthday
	m.Description = c.Description
	m.UserID = c.OwnerID
}

// ContactModelFromDomain creates a new persistence model from a domain Contact entity.
func ContactModelFromDomain(c *contact.Contact) *ContactModel {
	m := &ContactModel{}
	m.FromDomain(c)
	return m
}
