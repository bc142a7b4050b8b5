package services

import "errors"

// Sentinel errors shared across services. Handlers map these onto HTTP
// status codes with errors.Is.
var (
	ErrInvalidAccessCode    = errors.New("invalid access code")
	ErrDuplicateGroupNumber = errors.New("group number already exists")
	ErrDuplicateAccessCode  = errors.New("access code already in use")
	ErrNotFound             = errors.New("record not found")
	ErrHeartbeatUnavailable = errors.New("heartbeat storage unavailable")
)
