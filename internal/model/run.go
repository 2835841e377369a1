package model

import "time"

// RunStatus represents the current stage of a pipeline run.
type RunStatus string

const (
	RunStatusQueued      RunStatus = "queued"
	RunStatusDiscovering RunStatus = "discovering"
	RunStatusEnriching   RunStatus = "enriching"
	RunStatusSyncingCRM  RunStatus = "syncing_crm"
	RunStatusEmailing    RunStatus = "emailing"
	RunStatusComplete    RunStatus = "complete"
	RunStatusFailed      RunStatus = "failed"
)

// Job describes a single lead-generation request.
type Job struct {
	CompanyType string `json:"company_type" yaml:"company_type"`
	Region      string `json:"region" yaml:"region"`
	Count       int    `json:"count" yaml:"count"`
}

// Valid reports whether the job carries both required fields.
func (j Job) Valid() bool {
	return j.CompanyType != "" && j.Region != ""
}

// Run represents a persisted pipeline run.
type Run struct {
	ID        string     `json:"id"`
	Job       Job        `json:"job"`
	Status    RunStatus  `json:"status"`
	Report    *RunReport `json:"report,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunReport is the count-based summary aggregated at the end of a run.
type RunReport struct {
	Discovered   int               `json:"discovered"`
	WithContacts int               `json:"with_contacts"`
	LeadsCreated int               `json:"leads_created"`
	EmailsSent   int               `json:"emails_sent"`
	Companies    []EnrichedCompany `json:"companies,omitempty"`
	Errors       []string          `json:"errors,omitempty"`
}
