package auth

import "errors"

var (
	MissingCredentialsErr     = errors.New("Username/Email and password are required!")
	MissingSignupFieldsErr    = errors.New("All fields are required!")
	PasswordTooShortErr       = errors.New("Password must be at least 8 characters!")
	UserPasswordsDontMatchErr = errors.New("Passwords do not match!")
	InvalidEmailErr           = errors.New("Invalid email format!")
)
