package jobs

import (
	"errors"
	"fmt"
	"time"
)

type JobType string

const (
	TypeReportGeneration JobType = "report_generation"
	TypeDataProcessing   JobType = "data_processing"
	TypeMLTraining       JobType = "ml_training"
)

type JobPriority string

const (
	PriorityHigh   JobPriority = "high"
	PriorityNormal JobPriority = "normal"
	PriorityLow    JobPriority = "low"
)

type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusStarted    JobStatus = "started"
	StatusInProgress JobStatus = "in_progress"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusCancelled  JobStatus = "cancelled"
)

var (
	ErrInvalidType     = errors.New("invalid job type")
	ErrInvalidPriority = errors.New("invalid job priority")
	ErrInvalidStatus   = errors.New("invalid job status")
)

// Parameter keys with a fixed meaning inside Config.Parameters.
const (
	ParamJobKey  = "jobKey"
	ParamPayload = "payload"
	ParamQuery   = "query"
	ParamParams  = "params"
	ParamMethod  = "method"
	ParamURL     = "url"
)

// Job is the record the service keeps for every accepted unit of work.
// Progress is only meaningful while the job is started or in progress.
type Job struct {
	ID                string      `json:"jobId" extensions:"!x-nullable"`
	Type              JobType     `json:"type" extensions:"!x-nullable"`
	Status            JobStatus   `json:"status" extensions:"!x-nullable"`
	Priority          JobPriority `json:"priority" extensions:"!x-nullable"`
	Progress          int         `json:"progress"`
	CreatedAt         time.Time   `json:"createdAt" extensions:"!x-nullable"`
	CompletedAt       *time.Time  `json:"completedAt,omitempty"`
	EstimatedDuration string      `json:"estimatedDuration"`
	ResultURL         string      `json:"resultUrl,omitempty"`
	Error             string      `json:"error,omitempty"`
	Payload           interface{} `json:"payload,omitempty"`
	URL               string      `json:"url,omitempty"`
	Method            string      `json:"method,omitempty"`
	UserID            string      `json:"userId,omitempty"`
}

// Config describes a job creation request as seen by the service.
type Config struct {
	Type       JobType
	Priority   JobPriority
	Parameters map[string]interface{}
	UserID     string
}

func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

func (s JobStatus) Valid() bool {
	switch s {
	case StatusQueued, StatusStarted, StatusInProgress, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

func (t JobType) Valid() bool {
	switch t {
	case TypeReportGeneration, TypeDataProcessing, TypeMLTraining:
		return true
	}
	return false
}

func (p JobPriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

// rank orders priorities for admission, lower runs first.
func (p JobPriority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// EstimatedDuration is a display hint only.
func (t JobType) EstimatedDuration() string {
	switch t {
	case TypeReportGeneration:
		return "2-5 minutes"
	case TypeDataProcessing:
		return "5-15 minutes"
	case TypeMLTraining:
		return "10-30 minutes"
	default:
		return "5 minutes"
	}
}

// Validate fills in the default priority and rejects unknown enum values.
func (cfg *Config) Validate() error {
	if !cfg.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, cfg.Type)
	}
	if cfg.Priority == "" {
		cfg.Priority = PriorityNormal
	}
	if !cfg.Priority.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, cfg.Priority)
	}
	if cfg.Parameters == nil {
		cfg.Parameters = map[string]interface{}{}
	}
	return nil
}

func (cfg *Config) processorKey() string {
	key, _ := cfg.Parameters[ParamJobKey].(string)
	return key
}

func (cfg *Config) stringParam(name string) string {
	value, _ := cfg.Parameters[name].(string)
	return value
}
