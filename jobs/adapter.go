package jobs

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Creator accepts new jobs. The Service implements it.
type Creator interface {
	CreateJob(cfg Config) (Job, error)
}

// Accepted is the body a live call receives once its work became a job.
type Accepted struct {
	Success bool   `json:"success" extensions:"!x-nullable"`
	Data    Job    `json:"data" extensions:"!x-nullable"`
	Message string `json:"message" extensions:"!x-nullable"`
}

// Dispatch decides how a deferrable processor runs. Live calls are turned
// into a job and answered with 202 Accepted; calls coming from an execution
// unit run the processor body.
func Dispatch(creator Creator, info ProcessorInfo, fn ProcessorFunc, req *Request, res Response, next Next) {
	if req.FromWorker() {
		fn(req, res, next)
		return
	}

	cfg := Config{
		Type:     info.Metadata.Type,
		Priority: info.Metadata.Priority,
		UserID:   req.UserID,
		Parameters: map[string]interface{}{
			ParamJobKey:  info.Key,
			ParamPayload: req.Body,
			ParamQuery:   req.Query,
			ParamParams:  req.Params,
			ParamMethod:  req.Method,
			ParamURL:     req.URL,
		},
	}
	if cfg.Type == "" {
		cfg.Type = TypeDataProcessing
	}

	job, err := creator.CreateJob(cfg)
	if err != nil {
		next(err)
		return
	}

	res.Status(http.StatusAccepted).JSON(Accepted{
		Success: true,
		Data:    job,
		Message: fmt.Sprintf("Process %s started, use the jobId to follow its progress", info.Method),
	})
}

// newWorkerRequest rebuilds the originating call from the job parameters.
// The request is marked as worker-originated so Dispatch runs the body.
func newWorkerRequest(u *unit) *Request {
	params := u.cfg.Parameters
	return &Request{
		Origin:   OriginWorker,
		Body:     params[ParamPayload],
		Query:    stringMap(params[ParamQuery]),
		Params:   stringMap(params[ParamParams]),
		Method:   u.cfg.stringParam(ParamMethod),
		URL:      u.cfg.stringParam(ParamURL),
		UserID:   u.cfg.UserID,
		JobID:    u.jobID,
		ctx:      u.ctx,
		progress: u.progress,
	}
}

// jobResponse stands in for a transport response inside an execution unit.
// Writing JSON ends the job instead of writing to a socket.
type jobResponse struct {
	unit *unit
	code int
}

func (r *jobResponse) Status(code int) Response {
	r.code = code
	return r
}

func (r *jobResponse) JSON(data interface{}) {
	if r.code >= http.StatusBadRequest {
		r.unit.fail(errorText(data))
		return
	}
	r.unit.complete(resultText(data))
}

func resultText(data interface{}) string {
	switch v := data.(type) {
	case nil:
		return ""
	case string:
		return v
	}
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprint(data)
	}
	return string(b)
}

func errorText(data interface{}) string {
	switch v := data.(type) {
	case string:
		return v
	case error:
		return v.Error()
	case map[string]interface{}:
		if msg, ok := v["error"].(string); ok {
			return msg
		}
	case map[string]string:
		if msg, ok := v["error"]; ok {
			return msg
		}
	}
	return resultText(data)
}

func stringMap(v interface{}) map[string]string {
	out := map[string]string{}
	switch m := v.(type) {
	case map[string]string:
		for k, val := range m {
			out[k] = val
		}
	case map[string]interface{}:
		for k, val := range m {
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}
