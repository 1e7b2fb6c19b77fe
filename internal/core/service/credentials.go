package service

import (
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/profileapp/profile-service/internal/core/domain"
	"github.com/profileapp/profile-service/internal/core/ports"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 25
)

// CredentialValidator checks raw registration input. It holds no mutable
// state and is safe for concurrent use.
type CredentialValidator struct {
	v *validator.Validate
}

func NewCredentialValidator() *CredentialValidator {
	return &CredentialValidator{v: validator.New()}
}

// Validate applies the registration rules in order and reports the first
// violation as a *domain.ValidationError.
func (cv *CredentialValidator) Validate(in ports.RegisterInput) error {
	if missing(in.Name) || missing(in.Username) || missing(in.Email) || missing(in.Password) {
		return invalid("", domain.ErrMissingCredentials, "Missing credentials")
	}

	if _, ok := in.Name.(string); !ok {
		return invalid("name", domain.ErrInvalidType, "Name is not a string")
	}

	username, ok := in.Username.(string)
	if !ok {
		return invalid("username", domain.ErrInvalidType, "Username is not a string")
	}
	if n := utf8.RuneCountInString(username); n < usernameMinLen || n > usernameMaxLen {
		return invalid("username", domain.ErrInvalidLength, "The length of the username should be 3-25 characters long")
	}

	email, ok := in.Email.(string)
	if !ok {
		return invalid("email", domain.ErrInvalidType, "Email is not a string")
	}
	if !cv.IsEmail(email) {
		return invalid("email", domain.ErrInvalidEmail, "Invalid email format")
	}

	password, ok := in.Password.(string)
	if !ok {
		return invalid("password", domain.ErrInvalidType, "Password is not a string")
	}
	if cv.v.Var(password, "alphanum") != nil {
		return invalid("password", domain.ErrInvalidPassword, "Password should contain alphabets and numbers")
	}

	return nil
}

// IsEmail reports whether s has email syntax.
func (cv *CredentialValidator) IsEmail(s string) bool {
	return cv.v.Var(s, "required,email") == nil
}

// missing mirrors a falsy check on loosely typed input: absent, empty
// string, false and zero all count as not provided.
func missing(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	default:
		return false
	}
}

func invalid(field string, kind error, msg string) error {
	return &domain.ValidationError{Field: field, Err: kind, Message: msg}
}
