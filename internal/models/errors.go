package models

import (
	"errors"
)

var (
	ErrUnknownAction      = errors.New("models: unknown console action")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrUnauthorized       = errors.New("models: operator is not authorized")
)
