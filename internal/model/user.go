package model

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:128;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	DisplayName  *string   `gorm:"size:128" json:"display_name"`
	AvatarURL    *string   `gorm:"size:512" json:"avatar_url"`
	Bio          *string   `gorm:"type:text" json:"bio"`
	Role         string    `gorm:"size:16;not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UpdateUserParams carries a partial update. Nil fields are left untouched.
type UpdateUserParams struct {
	Username    *string
	Email       *string
	DisplayName *string
	AvatarURL   *string
	Bio         *string
}
