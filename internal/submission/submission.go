// Package submission parses and validates project submissions received by the
// intake form and turns them into the rows written to the spreadsheet.
package submission

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the format of the submission_date column
const DateLayout = "2006-01-02 15:04:05"

// Columns is the header order of the submissions worksheet
var Columns = []string{"name", "email", "github_url", "linkedin_url", "twitter_url", "submission_date"}

// Input is a validated project submission
type Input struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	GithubURL   string `json:"github_url" validate:"required,http_url"`
	LinkedinURL string `json:"linkedin_url" validate:"required,http_url"`
	TwitterURL  string `json:"twitter_url" validate:"required,http_url"`
}

// Record is a submission stamped with the time it was received
type Record struct {
	Input

	ID             uuid.UUID `json:"-"`
	SubmissionDate string    `json:"submission_date"`
}

// NewRecord stamps an input with its receipt time and a correlation id
func NewRecord(in Input, now time.Time) Record {
	return Record{
		Input:          in,
		ID:             uuid.New(),
		SubmissionDate: now.Format(DateLayout),
	}
}

// Row returns the record's cells in worksheet column order
func (r Record) Row() []any {
	return []any{
		r.Name,
		r.Email,
		r.GithubURL,
		r.LinkedinURL,
		r.TwitterURL,
		r.SubmissionDate,
	}
}
