package user

import "errors"

var (
	// ErrUserNotFound signals that the user could not be located.
	ErrUserNotFound = errors.New("user not found")
	// ErrLoginAlreadyExists indicates the login is already registered.
	ErrLoginAlreadyExists = errors.New("login already exists")
)
