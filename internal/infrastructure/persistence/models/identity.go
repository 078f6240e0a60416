package models

import (
	"github.com/contactbook/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	Username     string `gorm:"type:varchar(50);not null"`
	Email        string `gorm:"type:varchar(250);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Avatar       string `gorm:"type:varchar(255)"`
	RefreshToken string `gorm:"type:text"`
	Confirmed    bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Avatar:       m.Avatar,
		RefreshToken: m.RefreshToken,
		Confirmed:    m.Confirmed,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Username = u.Username
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.Avatar = u.Avatar
	m.RefreshToken = u.RefreshToken
	m.Confirmed = u.Confirmed
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
