package auth

import "errors"

var (
	ErrCredentialsRequired = errors.New("Username and password are required")
	ErrUsernameTaken       = errors.New("Username already exists")
	ErrInvalidCredentials  = errors.New("Invalid username or password")
)
