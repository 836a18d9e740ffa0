// Package models holds the persisted user record and the transient request
// shapes that flow through the service.
package models

import "fmt"

// User is the persisted person record. The identifier is assigned by the
// store on creation and never mutated; email is unique across all users.
// Address and PhoneNumber are optional and empty when absent.
type User struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	BirthDate   Date
	Address     string
	PhoneNumber string
}

// SortableFields lists the user properties a caller may sort by.
var SortableFields = []string{"id", "firstName", "lastName", "email", "birthDate"}

// CreateUserRequest carries the inbound creation payload. Fields are
// pointers so the validation pipeline can distinguish an absent field from
// an empty one; values stay raw strings so every constraint, including the
// birth date format, reports through the same violation path.
type CreateUserRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email"`
	BirthDate   *string `json:"birthDate"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phoneNumber"`
}

// ToUser converts a validated creation request into a new record. It must
// only be called after the validation pipeline has passed.
func (r CreateUserRequest) ToUser() (*User, error) {
	if r.FirstName == nil || r.LastName == nil || r.Email == nil || r.BirthDate == nil {
		return nil, fmt.Errorf("create request is missing required fields")
	}
	birthDate, err := ParseDate(*r.BirthDate)
	if err != nil {
		return nil, err
	}

	u := &User{
		FirstName: *r.FirstName,
		LastName:  *r.LastName,
		Email:     *r.Email,
		BirthDate: birthDate,
	}
	if r.Address != nil {
		u.Address = *r.Address
	}
	if r.PhoneNumber != nil {
		u.PhoneNumber = *r.PhoneNumber
	}
	return u, nil
}

// UpdateUserRequest carries a partial update: any subset of fields may be
// present, and only present fields are applied.
type UpdateUserRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email"`
	BirthDate   *string `json:"birthDate"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phoneNumber"`
}

// ApplyTo merges the request onto an existing record: each present field
// overwrites, each absent field retains its prior value. The identifier is
// never touched. It must only be called after the validation pipeline has
// passed.
func (r UpdateUserRequest) ApplyTo(u *User) error {
	if r.FirstName != nil {
		u.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		u.LastName = *r.LastName
	}
	if r.Email != nil {
		u.Email = *r.Email
	}
	if r.BirthDate != nil {
		birthDate, err := ParseDate(*r.BirthDate)
		if err != nil {
			return err
		}
		u.BirthDate = birthDate
	}
	if r.Address != nil {
		u.Address = *r.Address
	}
	if r.PhoneNumber != nil {
		u.PhoneNumber = *r.PhoneNumber
	}
	return nil
}
