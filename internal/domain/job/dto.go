package job

import (
	"time"

	"climatejobs/internal/domain/auth"
)

type CreateRequest struct {
	Title                string     `json:"title" validate:"required,max=255"`
	Description          string     `json:"description" validate:"required"`
	Category             Category   `json:"category" validate:"required"`
	Location             string     `json:"location" validate:"required,max=255"`
	Lat                  *float64   `json:"lat"`
	Lng                  *float64   `json:"lng"`
	RewardAmount         *float64   `json:"reward_amount" validate:"required"`
	Deadline             *time.Time `json:"deadline"`
	ProofRequirements    string     `json:"proof_requirements"`
	VerificationRequired *bool      `json:"verification_required"`
}

// UpdateRequest carries the owner-editable fields. A nil field is left as is.
type UpdateRequest struct {
	Title             *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description       *string    `json:"description" validate:"omitempty,min=1"`
	RewardAmount      *float64   `json:"reward_amount"`
	Deadline          *time.Time `json:"deadline"`
	ProofRequirements *string    `json:"proof_requirements"`
	Status            *Status    `json:"status"`
}

type ForceStatusRequest struct {
	Status Status `json:"status"`
	Reason string `json:"reason" validate:"max=500"`
}

// DiscoverQuery filters open jobs around an optional point.
type DiscoverQuery struct {
	Lat      *float64
	Lng      *float64
	RadiusKM float64
	Category Category
}

// ListItem is a row of the creator's job list.
type ListItem struct {
	Job
	ApplicationCount int64 `json:"application_count"`
}

// Nearby is an open job with its distance from the requester, when both
// sides have coordinates.
type Nearby struct {
	Job
	DistanceKM *float64 `json:"distance_km"`
}

type Detail struct {
	*Job
	Creator      *auth.Summary `json:"creator"`
	AssignedUser *auth.Summary `json:"assigned_user"`
}
