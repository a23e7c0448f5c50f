package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/zerodesign/zerodesign-backend/internal/domain/user"
	"gorm.io/gorm"
)

type PasswordResetToken struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	User      *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Token     string     `gorm:"uniqueIndex;not null;column:token" json:"-"`
	ExpiresAt time.Time  `gorm:"not null;column:expires_at" json:"expires_at"`
	Used      bool       `gorm:"not null;default:false;column:used" json:"used"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (PasswordResetToken) TableName() string { return "password_reset_tokens" }

func (t *PasswordResetToken) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Valid reports whether the token can still be redeemed at now.
func (t *PasswordResetToken) Valid(now time.Time) bool {
	return t != nil && !t.Used && now.Before(t.ExpiresAt)
}
