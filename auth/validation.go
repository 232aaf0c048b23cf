package auth

import (
	"net/mail"
	"strings"
)

const MinPasswordLength = 8

// Validator checks auth forms before they are sent. The rules mirror the
// backend's so a form that passes here is only refused for server-side
// reasons such as a taken username.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateCredentials requires both fields.
func (v *Validator) ValidateCredentials(c Credentials) error {
	if strings.TrimSpace(c.UserOrMail) == "" || c.Password == "" {
		return MissingCredentialsErr
	}
	return nil
}

// ValidateSignup checks required fields, email shape, password length and
// confirmation.
func (v *Validator) ValidateSignup(r SignupRequest) error {
	if strings.TrimSpace(r.Email) == "" || strings.TrimSpace(r.Username) == "" || r.Password == "" {
		return MissingSignupFieldsErr
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return InvalidEmailErr
	}
	if len(r.Password) < MinPasswordLength {
		return PasswordTooShortErr
	}
	if r.Password != r.ConfirmPassword {
		return UserPasswordsDontMatchErr
	}
	return nil
}
