package payment

import "climatejobs/internal/pkg/apperr"

var (
	ErrPaymentNotFound = apperr.New(apperr.NotFound, "Payment not found")
	ErrNotJobOwner     = apperr.New(apperr.Forbidden, "You can only approve payments for your own jobs")
	ErrAlreadyPaid     = apperr.New(apperr.Conflict, "Payment has already been released")
	ErrJobNotVerified  = apperr.New(apperr.Conflict, "Job is not awaiting payment")
)
