package job

import "climatejobs/internal/pkg/apperr"

var (
	ErrJobNotFound         = apperr.New(apperr.NotFound, "Job not found")
	ErrNotOwner            = apperr.New(apperr.Forbidden, "You can only manage your own jobs")
	ErrInvalidCategory     = apperr.New(apperr.Invalid, "Invalid category")
	ErrInvalidStatus       = apperr.New(apperr.Invalid, "Invalid status")
	ErrNegativeReward      = apperr.New(apperr.Invalid, "Reward amount must not be negative")
	ErrInvalidTransition   = apperr.New(apperr.Conflict, "Status change is not allowed from the current status")
	ErrStatusChanged       = apperr.New(apperr.Conflict, "Job status changed concurrently, reload and retry")
	ErrNoFieldsToUpdate    = apperr.New(apperr.Invalid, "No valid fields to update")
	ErrIncompleteLocation  = apperr.New(apperr.Invalid, "Both lat and lng are required for location search")
	ErrInvalidRadius       = apperr.New(apperr.Invalid, "Radius must be a positive number of kilometers")
	ErrForceStatusRequired = apperr.New(apperr.Invalid, "Status is required")
)
