package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the lifecycle stage of a job application. Only the six values
// below are ever persisted; validation rejects everything else.
type Status string

const (
	StatusApplied            Status = "Applied"
	StatusInterviewScheduled Status = "Interview Scheduled"
	StatusInterviewed        Status = "Interviewed"
	StatusOfferReceived      Status = "Offer Received"
	StatusRejected           Status = "Rejected"
	StatusArchived           Status = "Archived"
)

// AllStatuses lists every valid status. Stats responses zero-fill from this
// slice so all six keys are always present.
var AllStatuses = []Status{
	StatusApplied,
	StatusInterviewScheduled,
	StatusInterviewed,
	StatusOfferReceived,
	StatusRejected,
	StatusArchived,
}

// IsValid reports whether s is one of the enumerated statuses.
func (s Status) IsValid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Application struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updated_at"`

	Title   string `bson:"title" json:"title"`
	Company string `bson:"company" json:"company"`
	Status  Status `bson:"status" json:"status"`

	// UserID is the verified subject of the owning caller. It is stamped
	// server-side on create and never accepted from a request body.
	UserID string `bson:"userId" json:"user_id"`

	AppliedDate time.Time `bson:"appliedDate" json:"applied_date"`
	Notes       string    `bson:"notes,omitempty" json:"notes,omitempty"`
	JobURL      string    `bson:"jobUrl,omitempty" json:"job_url,omitempty"`
	ResumeURL   string    `bson:"resumeUrl,omitempty" json:"resume_url,omitempty"`
}
