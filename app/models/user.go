package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account holder. Passwords are stored as bcrypt hashes and
// never serialised.
type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;size:150;not null" json:"email"`
	Password string `gorm:"size:200;not null" json:"-"`
	IsAdmin  bool   `gorm:"default:false" json:"is_admin"`
}

// Order is a write-once purchase snapshot. Products holds an opaque
// serialised copy of the purchased items; it is never reconciled against
// the live catalogue.
type Order struct {
	gorm.Model
	Reference   string  `gorm:"uniqueIndex;size:36;not null" json:"reference"`
	UserID      uint    `gorm:"not null;index" json:"user_id"`
	Products    string  `gorm:"type:text;not null" json:"products"`
	TotalAmount float64 `gorm:"not null" json:"total_amount"`
}

// BeforeCreate assigns the public order reference.
func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.Reference == "" {
		o.Reference = uuid.NewString()
	}
	return nil
}
