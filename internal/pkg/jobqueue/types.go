package jobqueue

import (
	"encoding/json"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeSitePurge     JobType = "site_purge"
	JobTypeOperatorEmail JobType = "operator_email"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// SitePurgeJobPayload contains the payload for site purge jobs
type SitePurgeJobPayload struct {
	AccountID uint   `json:"account_id"`
	PublicID  string `json:"public_id"`
}

// ToMap converts the payload to a map for storage
func (p SitePurgeJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"account_id": p.AccountID,
		"public_id":  p.PublicID,
	}
}

// SitePurgeJobPayloadFromMap creates a payload from a map
func SitePurgeJobPayloadFromMap(data map[string]interface{}) (*SitePurgeJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload SitePurgeJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// OperatorEmailJobPayload contains the payload for operator email jobs
type OperatorEmailJobPayload struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ToMap converts the payload to a map for storage
func (p OperatorEmailJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"subject": p.Subject,
		"body":    p.Body,
	}
}

// OperatorEmailJobPayloadFromMap creates a payload from a map
func OperatorEmailJobPayloadFromMap(data map[string]interface{}) (*OperatorEmailJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload OperatorEmailJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.UpdatedAt = now
	j.ProcessedAt = &now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	j.ErrorMsg = ""
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
	j.ErrorMsg = errorMsg
	j.RetryCount++
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}
