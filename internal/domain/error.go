package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrCodeNotFound    = errors.New("code not found")
	ErrCodeExists      = errors.New("code already exists")
	ErrInvalidCode     = errors.New("code must contain only uppercase letters and digits")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrRoleUnknown     = errors.New("role is not configured")
)
