package contact

import (
	"errors"
	"time"
)

type Contact struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	PhoneNumber string    `json:"phoneNumber"` // canonical E.164
	Email       string    `json:"email"`       // stored lowercase
	BirthDate   time.Time `json:"birthDate"`
	UserID      int64     `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

var (
	ErrNotFound = errors.New("contact not found")

	// the same (owner, email) pair already exists. Uniqueness is per
	// owner, not global.
	ErrDuplicateEmail = errors.New("contact email already added")
)

type CreateContactRequest struct {
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	PhoneNumber string    `json:"phoneNumber"`
	Email       string    `json:"email"`
	BirthDate   time.Time `json:"birthDate"`
}
