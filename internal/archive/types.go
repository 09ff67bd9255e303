package archive

import "time"

// SubmissionRecord is the archived form of a submission. Contact details
// are hashed and free text is scrubbed before it leaves the process.
type SubmissionRecord struct {
	Version      string    `json:"version"` // "1.0"
	SubmissionID string    `json:"submission_id"`
	Kind         string    `json:"kind"`
	EmailHash    string    `json:"email_hash"`
	PhoneHash    string    `json:"phone_hash"`
	ArchivedAt   time.Time `json:"archived_at"`
	SubmittedAt  time.Time `json:"submitted_at"`
	Service      string    `json:"service,omitempty"`
	Timeline     string    `json:"timeline,omitempty"`
	Budget       string    `json:"budget,omitempty"`
	Intent       string    `json:"intent,omitempty"`
	CompanyType  string    `json:"company_type,omitempty"`
	Description  string    `json:"description,omitempty"`
	Message      string    `json:"message,omitempty"`
}

// ManifestEntry is a single line in the monthly JSONL manifest file.
type ManifestEntry struct {
	SubmissionID string `json:"submission_id"`
	Kind         string `json:"kind"`
	S3Key        string `json:"s3_key"`
	Service      string `json:"service,omitempty"`
	Intent       string `json:"intent,omitempty"`
	ArchivedAt   string `json:"archived_at"`
}
