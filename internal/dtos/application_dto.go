package dtos

import (
	"strings"
	"time"

	"github.com/justsurfingit/job-application-tracker/internal/models"
)

type ApplicationCreateRequest struct {
	Title   string        `json:"title" validate:"required,max=100"`
	Company string        `json:"company" validate:"required,max=100"`
	Status  models.Status `json:"status" validate:"omitempty,jobstatus"`

	// Optional Fields
	AppliedDate *time.Time `json:"applied_date"`
	Notes       string     `json:"notes" validate:"max=2000"`
	JobURL      string     `json:"job_url" validate:"omitempty,url"`
	ResumeURL   string     `json:"resume_url" validate:"omitempty,url"`

	// UserID is accepted so older clients that still send it keep working,
	// but it is informative only. The verified subject always wins.
	UserID string `json:"user_id"`
}

// Normalize trims whitespace before validation so " " does not pass the
// required check and lengths are measured on the stored value.
func (r *ApplicationCreateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Company = strings.TrimSpace(r.Company)
	r.Notes = strings.TrimSpace(r.Notes)
	r.JobURL = strings.TrimSpace(r.JobURL)
	r.ResumeURL = strings.TrimSpace(r.ResumeURL)
}

// ApplicationUpdateRequest is a partial patch: nil means "leave unchanged".
// ID, owner and the server timestamps are never patchable.
type ApplicationUpdateRequest struct {
	Title       *string        `json:"title" validate:"omitempty,min=1,max=100"`
	Company     *string        `json:"company" validate:"omitempty,min=1,max=100"`
	Status      *models.Status `json:"status" validate:"omitempty,jobstatus"`
	AppliedDate *time.Time     `json:"applied_date"`
	Notes       *string        `json:"notes" validate:"omitempty,max=2000"`
	JobURL      *string        `json:"job_url" validate:"omitempty,url"`
	ResumeURL   *string        `json:"resume_url" validate:"omitempty,url"`

	UserID string `json:"user_id"`
}

func (r *ApplicationUpdateRequest) Normalize() {
	trim := func(s *string) {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	trim(r.Title)
	trim(r.Company)
	trim(r.Notes)
	trim(r.JobURL)
	trim(r.ResumeURL)
}

// StatsResponse keeps the wire shape the dashboard already consumes.
type StatsResponse struct {
	TotalJobs          int64                   `json:"totalJobs"`
	ActiveApplications int64                   `json:"activeApplications"`
	SuccessRate        int                     `json:"successRate"`
	StatusCounts       map[models.Status]int64 `json:"statusCounts"`
	UserID             string                  `json:"userId"`
	Timestamp          time.Time               `json:"timestamp"`
}

type UploadResponse struct {
	URL string `json:"url"`
}
