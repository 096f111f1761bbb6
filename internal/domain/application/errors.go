package application

import "climatejobs/internal/pkg/apperr"

var (
	ErrApplicationNotFound = apperr.New(apperr.NotFound, "Application not found")
	ErrJobNotOpen          = apperr.New(apperr.Conflict, "This job is no longer accepting applications")
	ErrAlreadyApplied      = apperr.New(apperr.Conflict, "You have already applied for this job")
	ErrAlreadyDecided      = apperr.New(apperr.Conflict, "This application has already been decided")
	ErrNotJobOwner         = apperr.New(apperr.Forbidden, "You can only manage applications for your own jobs")
	ErrInvalidFilter       = apperr.New(apperr.Invalid, "Invalid filter. Must be applied, ongoing or completed")
)
