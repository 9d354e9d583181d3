package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrNoSubjects         = errors.New("please add subjects first")
	ErrInvalidDate        = errors.New("invalid date, expected YYYY-MM-DD or RFC3339")
	ErrInvalidStatus      = errors.New("invalid task status")
	ErrInvalidDifficulty  = errors.New("difficulty must be one of easy, medium, hard")
)
