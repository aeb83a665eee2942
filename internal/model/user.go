package model

import (
	"time"

	"gorm.io/datatypes"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	UUIDBase
	FirstName                string                       `gorm:"size:100;not null" json:"firstName"`
	LastName                 string                       `gorm:"size:100;not null" json:"lastName"`
	Email                    string                       `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password                 string                       `gorm:"size:100;not null" json:"-"`
	Role                     UserRole                     `gorm:"size:20;default:'student'" json:"role"`
	BranchID                 *string                      `gorm:"type:varchar(36);index" json:"branchId,omitempty"`
	Branch                   *Branch                      `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	IDCardImageURL           string                       `gorm:"size:255" json:"idCardImageUrl"`
	IDCardVerificationStatus string                       `gorm:"size:20;default:'pending'" json:"idCardVerificationStatus"`
	FaceDescriptor           datatypes.JSONSlice[float64] `json:"-"`
	LastLoginAt              *time.Time                   `json:"lastLoginAt,omitempty"`
	LastSeenAt               *time.Time                   `json:"lastSeenAt,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
