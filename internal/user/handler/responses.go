package handler

import (
	"clearusers/internal/user/models"
)

// UserResponse is the HTTP representation of a stored user. Optional fields
// are omitted when empty rather than rendered as nulls.
type UserResponse struct {
	ID          int64       `json:"id"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Email       string      `json:"email"`
	BirthDate   models.Date `json:"birthDate"`
	Address     string      `json:"address,omitempty"`
	PhoneNumber string      `json:"phoneNumber,omitempty"`
}

// FromUser converts a domain user to its HTTP representation.
func FromUser(u models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		BirthDate:   u.BirthDate,
		Address:     u.Address,
		PhoneNumber: u.PhoneNumber,
	}
}
