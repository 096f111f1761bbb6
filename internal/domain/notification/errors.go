package notification

import "climatejobs/internal/pkg/apperr"

var (
	ErrNotificationNotFound = apperr.New(apperr.NotFound, "Notification not found")
	ErrNotRecipient         = apperr.New(apperr.Forbidden, "You can only mark your own notifications as read")
	ErrRecipientNotFound    = apperr.New(apperr.NotFound, "Recipient not found")
)
