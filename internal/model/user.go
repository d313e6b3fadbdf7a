package model

import (
	"strings"

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/validation"
)

// User is a row of the users table. Email is unique across rows.
type User struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}

type CreateUserPayload struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
}

// Validate rejects blank fields. A whitespace-only value counts as blank,
// the same way UpdateUserPayload treats it as absent.
func (p *CreateUserPayload) Validate() error {
	if err := validation.Validator.Struct(p); err != nil {
		return err
	}

	var blank validation.CustomValidationErrors
	if strings.TrimSpace(p.Name) == "" {
		blank = append(blank, validation.CustomValidationError{Field: "name", Message: "is required"})
	}
	if strings.TrimSpace(p.Email) == "" {
		blank = append(blank, validation.CustomValidationError{Field: "email", Message: "is required"})
	}
	if len(blank) > 0 {
		return blank
	}

	return nil
}

// UpdateUserPayload carries a partial update; empty fields are left as they
// are.
type UpdateUserPayload struct {
	ID    int64  `param:"id" json:"-" validate:"required,min=1"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p *UpdateUserPayload) Validate() error {
	if err := validation.Validator.Struct(p); err != nil {
		return err
	}

	if strings.TrimSpace(p.Name) == "" && strings.TrimSpace(p.Email) == "" {
		return validation.CustomValidationErrors{
			{Field: "name", Message: "name or email is required"},
			{Field: "email", Message: "name or email is required"},
		}
	}

	return nil
}

type DeleteUserPayload struct {
	ID int64 `param:"id" json:"-" validate:"required,min=1"`
}

func (p *DeleteUserPayload) Validate() error {
	return validation.Validator.Struct(p)
}

type UserResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
