package model

import (
	"fmt"
	"time"
)

// Organisation is a tenant. Every other record belongs to exactly one.
type Organisation struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// MinPasswordLength is the shortest accepted organisation password.
const MinPasswordLength = 8

// ValidatePassword checks that a password meets the minimum requirements.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// Member is a person belonging to an organisation.
type Member struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Batch          int       `json:"batch"`
	OrganisationID string    `json:"organisation_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// Department groups members inside an organisation.
type Department struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	OrganisationID string    `json:"organisation_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// Event is something items get issued for.
type Event struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Year           int       `json:"year"`
	OrganisationID string    `json:"organisation_id"`
	CreatedAt      time.Time `json:"created_at"`
}
