package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidUsername    = errors.New("username is required and must be at most 50 characters")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminNotConfigured = errors.New("admin login is not configured")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrInvalidMode        = errors.New("quiz type must be 'revision' or 'mock'")
	ErrEmptySubmission    = errors.New("no answers submitted")
	ErrSubmitInProgress   = errors.New("another submission for this user is in progress")
	ErrInvalidProfile     = errors.New("invalid profile")
)
