package auth

import "climatejobs/internal/pkg/apperr"

var (
	ErrInvalidCredentials = apperr.New(apperr.Unauthenticated, "Invalid email or password")
	ErrEmailAlreadyExists = apperr.New(apperr.Conflict, "An account with this email already exists")
	ErrInvalidRole        = apperr.New(apperr.Invalid, "Invalid user_type. Must be GramPanchayat or CommunityMember")
	ErrUserNotFound       = apperr.New(apperr.NotFound, "User not found")
	ErrTooManyAttempts    = apperr.New(apperr.Forbidden, "Too many failed login attempts, try again later")
	ErrNoFieldsToUpdate   = apperr.New(apperr.Invalid, "No valid fields to update")
)
