package requests

import (
	"github.com/astaxie/beego/validation"
	"github.com/srad/techhub/jobs"
)

type CreateJobRequest struct {
	Type       jobs.JobType           `json:"type" extensions:"!x-nullable"`
	Parameters map[string]interface{} `json:"parameters" extensions:"!x-nullable"`
	Priority   jobs.JobPriority       `json:"priority,omitempty"`
}

// Valid is called by the beego validator after the tag checks.
func (r *CreateJobRequest) Valid(v *validation.Validation) {
	if !r.Type.Valid() {
		_ = v.SetError("type", "must be one of report_generation, data_processing, ml_training")
	}
	if r.Priority != "" && !r.Priority.Valid() {
		_ = v.SetError("priority", "must be one of high, normal, low")
	}
	if r.Parameters == nil {
		_ = v.SetError("parameters", "is required")
	}
}

func (r *CreateJobRequest) Config(userID string) jobs.Config {
	return jobs.Config{
		Type:       r.Type,
		Priority:   r.Priority,
		Parameters: r.Parameters,
		UserID:     userID,
	}
}

type JobsQuery struct {
	Status jobs.JobStatus `form:"status"`
	Limit  int            `form:"limit,default=20" valid:"Range(1,100)"`
	Offset int            `form:"offset,default=0" valid:"Min(0)"`
}

func (q *JobsQuery) Valid(v *validation.Validation) {
	if q.Status != "" && !q.Status.Valid() {
		_ = v.SetError("status", "unknown job status")
	}
}

func (q *JobsQuery) Options() jobs.ListOptions {
	return jobs.ListOptions{Status: q.Status, Limit: q.Limit, Offset: q.Offset}
}
