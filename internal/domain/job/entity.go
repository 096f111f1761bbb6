package job

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryTreePlanting      Category = "tree_planting"
	CategoryWasteManagement   Category = "waste_management"
	CategoryWaterConservation Category = "water_conservation"
	CategoryRenewableEnergy   Category = "renewable_energy"
	CategoryAwareness         Category = "awareness"
	CategoryOther             Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryTreePlanting, CategoryWasteManagement, CategoryWaterConservation,
		CategoryRenewableEnergy, CategoryAwareness, CategoryOther:
		return true
	}
	return false
}

// Job is a paid climate-action task posted by a creator.
type Job struct {
	ID                   string     `json:"id" gorm:"type:uuid;primaryKey"`
	Title                string     `json:"title" gorm:"size:255;not null"`
	Description          string     `json:"description" gorm:"type:text"`
	Category             Category   `json:"category" gorm:"type:varchar(32);not null;index"`
	Status               Status     `json:"status" gorm:"type:varchar(20);not null;index"`
	RewardAmount         float64    `json:"reward_amount" gorm:"not null"`
	Location             string     `json:"location" gorm:"size:255"`
	Lat                  *float64   `json:"lat"`
	Lng                  *float64   `json:"lng"`
	Deadline             *time.Time `json:"deadline"`
	ProofRequirements    string     `json:"proof_requirements" gorm:"type:text"`
	VerificationRequired bool       `json:"verification_required" gorm:"not null"`
	CreatedBy            string     `json:"created_by" gorm:"type:uuid;not null;index"`
	AssignedTo           *string    `json:"assigned_to" gorm:"type:uuid;index"`
	VerifiedBy           *string    `json:"verified_by" gorm:"type:uuid"`
	CreatedAt            time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt            time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	CompletedAt          *time.Time `json:"completed_at"`
	VerifiedAt           *time.Time `json:"verified_at"`
}

func (Job) TableName() string {
	return "jobs"
}

func (j *Job) BeforeCreate(_ *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}

func (j *Job) HasCoordinates() bool {
	return j.Lat != nil && j.Lng != nil
}

func (j *Job) IsAssignedTo(userID string) bool {
	return j.AssignedTo != nil && userID != "" && *j.AssignedTo == userID
}
