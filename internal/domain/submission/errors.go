package submission

import "climatejobs/internal/pkg/apperr"

var (
	ErrSubmissionNotFound = apperr.New(apperr.NotFound, "Submission not found")
	ErrNotAssignee        = apperr.New(apperr.Forbidden, "Only the assigned worker can submit proof for this job")
	ErrJobFinished        = apperr.New(apperr.Conflict, "Job has already been completed")
	ErrNoAccess           = apperr.New(apperr.Forbidden, "You do not have access to this submission")
	ErrNotJobOwner        = apperr.New(apperr.Forbidden, "You can only verify submissions for your own jobs")
	ErrAlreadyVerified    = apperr.New(apperr.Conflict, "Submission has already been verified")
	ErrJobNotInProgress   = apperr.New(apperr.Conflict, "Job is not awaiting verification")
	ErrReasonRequired     = apperr.New(apperr.Invalid, "rejection_reason is required when rejecting")
	ErrPhotoRequired      = apperr.New(apperr.Invalid, "before_photo and after_photo are required")
	ErrPhotoEmpty         = apperr.New(apperr.Invalid, "Photo file is empty")
	ErrPhotoTooLarge      = apperr.New(apperr.TooLarge, "Photo exceeds the 5 MB limit")
	ErrPhotoType          = apperr.New(apperr.Invalid, "Photo must be a JPEG, PNG or WebP image")
)
