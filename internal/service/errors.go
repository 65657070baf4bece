package service

import "errors"

// Domain errors returned by the services. Handlers match them with errors.Is.
var (
	ErrPostNotFound      = errors.New("post not found")
	ErrAuthFailure       = errors.New("login failed")
	ErrDuplicateIdentity = errors.New("user id already taken")
	ErrProfileUpdate     = errors.New("profile update failed")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthenticated   = errors.New("not signed in")
	ErrInvalidToken      = errors.New("invalid token")
)
