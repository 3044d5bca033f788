package jobs

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"

	log "github.com/sirupsen/logrus"
)

// unit is the execution unit of one job. It runs on its own goroutine,
// resolves the processor, runs it through Dispatch with a worker request
// and reports back exclusively through messages.
type unit struct {
	jobID   string
	cfg     Config
	manager *Manager
	ctx     context.Context
	out     chan<- Message
	stopped <-chan struct{}

	mu       sync.Mutex
	finished bool
}

func (u *unit) run() {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("[Worker] Job %s processor panicked: %v\n%s", u.jobID, r, debug.Stack())
			u.fail(fmt.Sprintf("processor panicked: %v", r))
		}
	}()

	key := u.cfg.processorKey()
	if key == "" {
		u.fail("missing jobKey in job parameters")
		return
	}

	info, instance, err := u.manager.Resolve(key)
	if err != nil {
		log.Errorf("[Worker] Job %s cannot resolve %s: %s", u.jobID, key, err)
		u.fail(err.Error())
		return
	}

	u.progress(10, fmt.Sprintf("Starting %s of %s", info.Method, info.Owner))
	u.progress(20, fmt.Sprintf("Executing %s of %s", info.Method, info.Owner))

	bound := func(req *Request, res Response, next Next) {
		info.Processor(instance, req, res, next)
	}
	next := func(err error) {
		if err != nil {
			u.fail(err.Error())
		}
	}

	Dispatch(nil, info, bound, newWorkerRequest(u), &jobResponse{unit: u, code: http.StatusOK}, next)
}

func (u *unit) progress(progress int, message string) {
	u.mu.Lock()
	done := u.finished
	u.mu.Unlock()
	if done {
		return
	}
	u.send(Message{JobID: u.jobID, Type: MessageProgress, Progress: progress, Message: message})
}

func (u *unit) complete(resultURL string) {
	if !u.finish() {
		log.Warnf("[Worker] Job %s already finished, dropping completion", u.jobID)
		return
	}
	u.send(Message{JobID: u.jobID, Type: MessageCompleted, ResultURL: resultURL})
}

func (u *unit) fail(errMsg string) {
	if !u.finish() {
		log.Warnf("[Worker] Job %s already finished, dropping error: %s", u.jobID, errMsg)
		return
	}
	u.send(Message{JobID: u.jobID, Type: MessageFailed, Error: errMsg})
}

// finish marks the unit as terminal and reports whether this call did it.
func (u *unit) finish() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.finished {
		return false
	}
	u.finished = true
	return true
}

// send stops delivering once the unit has been cancelled.
func (u *unit) send(msg Message) {
	select {
	case <-u.ctx.Done():
		return
	default:
	}
	select {
	case u.out <- msg:
	case <-u.ctx.Done():
	}
}

// exit is delivered even after cancellation so the service can release the
// unit's slot, but never after the service stopped.
func (u *unit) exit() {
	select {
	case u.out <- Message{JobID: u.jobID, Type: messageExit}:
	case <-u.stopped:
	}
}
