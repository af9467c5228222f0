package models

import (
	"time"

	"github.com/google/uuid"
)

// Domain models matching the schema in db/migrations/<driver>/00001_init.sql

// Account is the identity record a profile hangs off. Emails are stored lower-case.
type Account struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Profile shares its primary key with the owning Account.
type Profile struct {
	ID          uuid.UUID `json:"id" db:"id"`
	DisplayName *string   `json:"display_name,omitempty" db:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Job is one tracked application. CreatedAt is set once and never rewritten.
type Job struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Company     string    `json:"company" db:"company"`
	Position    string    `json:"position" db:"position"`
	Status      Status    `json:"status" db:"status"`
	URL         *string   `json:"url,omitempty" db:"url"`
	Salary      *string   `json:"salary,omitempty" db:"salary"`
	Description *string   `json:"description,omitempty" db:"description"`
	Note        *string   `json:"note,omitempty" db:"note"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
