package jobs

import (
	"context"
	"encoding/json"
)

// Origin tells a processor where the call it is serving came from.
type Origin int

const (
	// OriginLive is a call made by a transport handler with a client waiting.
	OriginLive Origin = iota
	// OriginWorker is a call made by an execution unit.
	OriginWorker
)

func (o Origin) String() string {
	if o == OriginWorker {
		return "worker"
	}
	return "live"
}

// Request carries the data a processor needs, independent of the transport.
type Request struct {
	Origin Origin
	Body   interface{}
	Query  map[string]string
	Params map[string]string
	Method string
	URL    string
	UserID string
	JobID  string

	ctx      context.Context
	progress func(progress int, message string)
}

// Response is the subset of a transport response a processor may use.
type Response interface {
	Status(code int) Response
	JSON(data interface{})
}

// Next reports an error to whoever invoked the processor. A nil error is
// ignored.
type Next func(err error)

// ProcessorFunc is a processor already bound to its owner instance.
type ProcessorFunc func(req *Request, res Response, next Next)

func NewLiveRequest(ctx context.Context) *Request {
	return &Request{Origin: OriginLive, ctx: ctx, Query: map[string]string{}, Params: map[string]string{}}
}

func (r *Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

func (r *Request) FromWorker() bool {
	return r.Origin == OriginWorker
}

// ReportProgress forwards a progress update to the execution unit. It does
// nothing on live calls.
func (r *Request) ReportProgress(progress int, message string) {
	if r.progress != nil {
		r.progress(progress, message)
	}
}

// BindBody decodes the request body into v.
func (r *Request) BindBody(v interface{}) error {
	if r.Body == nil {
		return nil
	}
	if raw, ok := r.Body.(json.RawMessage); ok {
		return json.Unmarshal(raw, v)
	}
	data, err := json.Marshal(r.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
