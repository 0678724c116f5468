package models

import "time"

// Project is a named cost-estimation workspace (a Program of Works).
type Project struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Location         string    `json:"location,omitempty"`
	Category         string    `json:"category,omitempty"`
	IdentificationNo string    `json:"identification_no,omitempty"`
	Duration         string    `json:"duration,omitempty"`
	SourceOfFund     string    `json:"source_of_fund,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewProject holds the caller-supplied fields of a project.
type NewProject struct {
	Title            string `json:"title"`
	Location         string `json:"location,omitempty"`
	Category         string `json:"category,omitempty"`
	IdentificationNo string `json:"identification_no,omitempty"`
	Duration         string `json:"duration,omitempty"`
	SourceOfFund     string `json:"source_of_fund,omitempty"`
}

// ProjectPatch holds the replaceable fields of a project.
type ProjectPatch struct {
	Title            *string `json:"title,omitempty"`
	Location         *string `json:"location,omitempty"`
	Category         *string `json:"category,omitempty"`
	IdentificationNo *string `json:"identification_no,omitempty"`
	Duration         *string `json:"duration,omitempty"`
	SourceOfFund     *string `json:"source_of_fund,omitempty"`
}

// Apply merges the patch into project.
func (p ProjectPatch) Apply(project *Project) {
	if p.Title != nil {
		project.Title = *p.Title
	}
	if p.Location != nil {
		project.Location = *p.Location
	}
	if p.Category != nil {
		project.Category = *p.Category
	}
	if p.IdentificationNo != nil {
		project.IdentificationNo = *p.IdentificationNo
	}
	if p.Duration != nil {
		project.Duration = *p.Duration
	}
	if p.SourceOfFund != nil {
		project.SourceOfFund = *p.SourceOfFund
	}
}
