package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type ListOptions struct {
	Status JobStatus
	Limit  int
	Offset int
}

type ListResult struct {
	Jobs  []Job
	Total int
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithMaxConcurrent bounds the number of running execution units. Excess
// jobs stay queued and are admitted by priority. Zero means unbounded.
// A cancelled job keeps its slot until its processor returns.
func WithMaxConcurrent(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.admission = newAdmission(n)
		}
	}
}

// WithResultBase sets the prefix of the result URL given to jobs whose
// processor completed without returning one.
func WithResultBase(base string) Option {
	return func(s *Service) { s.resultBase = base }
}

func WithMessageBuffer(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.messages = make(chan Message, n)
		}
	}
}

// Service creates jobs, runs each one in its own execution unit and keeps
// the job store in sync with the messages those units send back.
type Service struct {
	manager    *Manager
	store      *Store
	notifier   Notifier
	messages   chan Message
	admission  *admission
	resultBase string

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	active  map[string]context.CancelFunc
	running bool
	loopWg  sync.WaitGroup
}

func NewService(manager *Manager, opts ...Option) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		manager:    manager,
		store:      NewStore(),
		notifier:   NopNotifier{},
		messages:   make(chan Message, 256),
		resultBase: "/api/v1/jobs/",
		ctx:        ctx,
		cancel:     cancel,
		active:     make(map[string]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Manager() *Manager { return s.manager }

// Start launches the message loop. Calling it twice is harmless, and a
// stopped service can be started again.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	if s.ctx.Err() != nil {
		s.ctx, s.cancel = context.WithCancel(context.Background())
	}
	s.running = true
	s.loopWg.Add(1)
	go s.processMessages(s.ctx)
	log.Infoln("[JobService] Started")
}

// Stop cancels all execution units and waits for the message loop. Units
// whose processor ignores its context may outlive the call.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	for id, cancel := range s.active {
		cancel()
		delete(s.active, id)
	}
	stop := s.cancel
	s.mu.Unlock()

	stop()
	s.loopWg.Wait()
	log.Infoln("[JobService] Stopped")
}

// CreateJob stores a queued job and schedules its execution. The returned
// record is a snapshot taken before any processor code runs. Only
// malformed configurations return an error.
func (s *Service) CreateJob(cfg Config) (Job, error) {
	if err := cfg.Validate(); err != nil {
		return Job{}, err
	}

	job := Job{
		ID:                uuid.NewString(),
		Type:              cfg.Type,
		Status:            StatusQueued,
		Priority:          cfg.Priority,
		CreatedAt:         time.Now(),
		EstimatedDuration: cfg.Type.EstimatedDuration(),
		Payload:           cfg.Parameters[ParamPayload],
		URL:               cfg.stringParam(ParamURL),
		Method:            cfg.stringParam(ParamMethod),
		UserID:            cfg.UserID,
	}

	s.store.Add(job)
	log.Infof("[JobService] Job created %s (type: %s, priority: %s, user: %s)", job.ID, job.Type, job.Priority, job.UserID)
	s.notifier.JobCreated(job)

	s.schedule(job.ID, cfg)

	return job, nil
}

func (s *Service) GetJob(id string) (Job, bool) {
	return s.store.Get(id)
}

// CancelJob marks a non-terminal job as cancelled and asks its unit to
// stop. It does not wait for the unit. A job still waiting for admission
// leaves the queue.
func (s *Service) CancelJob(id string) bool {
	_, ok := s.store.Update(id, func(job *Job) bool {
		if job.Status.IsTerminal() {
			return false
		}
		job.Status = StatusCancelled
		return true
	})
	if !ok {
		return false
	}

	s.mu.Lock()
	if cancel, found := s.active[id]; found {
		cancel()
	} else if s.admission != nil {
		s.admission.remove(id)
	}
	s.mu.Unlock()

	log.Infof("[JobService] Job cancelled %s", id)
	s.notifier.JobCancelled(id)

	return true
}

func (s *Service) ListJobs(opts ListOptions) ListResult {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	filtered := s.store.List(opts.Status)
	total := len(filtered)

	if offset >= total {
		return ListResult{Jobs: []Job{}, Total: total}
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return ListResult{Jobs: filtered[offset:end], Total: total}
}

// CleanupOldJobs removes terminal jobs created more than maxAge ago.
func (s *Service) CleanupOldJobs(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	n := s.store.DeleteWhere(func(job Job) bool {
		return job.Status.IsTerminal() && job.CreatedAt.Before(cutoff)
	})
	if n > 0 {
		log.Infof("[JobService] Removed %d jobs older than %s", n, maxAge)
	}
	return n
}

// Running returns the number of execution units that have not exited yet
// and the number of jobs waiting for admission.
func (s *Service) Running() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	waiting := 0
	if s.admission != nil {
		waiting = s.admission.pending()
	}
	return len(s.active), waiting
}

func (s *Service) schedule(id string, cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.admission == nil {
		s.launchLocked(id, cfg)
		return
	}
	s.admission.push(id, cfg)
	s.admitLocked()
}

func (s *Service) admitLocked() {
	if s.admission == nil {
		return
	}
	for {
		next, ok := s.admission.next(len(s.active))
		if !ok {
			return
		}
		if job, found := s.store.Get(next.id); !found || job.Status != StatusQueued {
			continue
		}
		s.launchLocked(next.id, next.cfg)
	}
}

// launchLocked starts the execution unit of a job on a new goroutine, so
// the caller returns before the processor runs.
func (s *Service) launchLocked(id string, cfg Config) {
	ctx, cancel := context.WithCancel(s.ctx)
	stopped := s.ctx.Done()
	s.active[id] = cancel
	go func() {
		u := &unit{
			jobID:   id,
			cfg:     cfg,
			manager: s.manager,
			ctx:     ctx,
			out:     s.messages,
			stopped: stopped,
		}
		defer u.exit()

		_, started := s.store.Update(id, func(job *Job) bool {
			if job.Status != StatusQueued {
				return false
			}
			job.Status = StatusStarted
			return true
		})
		if !started {
			return
		}

		log.Infof("[JobService] Job started %s", id)
		u.run()
	}()
}

// processMessages is the single consumer of unit messages. Every write to
// a job coming from its unit happens here.
func (s *Service) processMessages(ctx context.Context) {
	defer s.loopWg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.messages:
			s.handle(msg)
		}
	}
}

func (s *Service) handle(msg Message) {
	switch msg.Type {
	case MessageProgress:
		job, ok := s.store.Update(msg.JobID, func(job *Job) bool {
			if job.Status.IsTerminal() {
				return false
			}
			if p := clampProgress(msg.Progress); p > job.Progress {
				job.Progress = p
			}
			job.Status = StatusInProgress
			return true
		})
		if !ok {
			return
		}
		log.Infof("[JobService] Job progress %s: %d%% %s", msg.JobID, job.Progress, msg.Message)
		s.notifier.JobProgress(msg.JobID, job.Progress, msg.Message)

	case MessageCompleted:
		resultURL := msg.ResultURL
		if resultURL == "" {
			resultURL = s.resultBase + msg.JobID
		}
		if !s.finish(msg.JobID, StatusCompleted, resultURL, "") {
			return
		}
		log.Infof("[JobService] Job completed %s: %s", msg.JobID, resultURL)
		s.notifier.JobCompleted(msg.JobID, resultURL)

	case MessageFailed:
		s.fail(msg.JobID, msg.Error)

	case messageExit:
		s.mu.Lock()
		if cancel, found := s.active[msg.JobID]; found {
			cancel()
			delete(s.active, msg.JobID)
		}
		s.admitLocked()
		s.mu.Unlock()

		s.fail(msg.JobID, "execution unit exited without reporting a result")

	default:
		log.Warnf("[JobService] Unknown message type %q for job %s", msg.Type, msg.JobID)
	}
}

func (s *Service) fail(id, errMsg string) {
	if errMsg == "" {
		errMsg = "unknown error"
	}
	if !s.finish(id, StatusFailed, "", errMsg) {
		return
	}
	log.Errorf("[JobService] Job failed %s: %s", id, errMsg)
	s.notifier.JobFailed(id, errMsg)
}

func (s *Service) finish(id string, status JobStatus, resultURL, errMsg string) bool {
	_, ok := s.store.Update(id, func(job *Job) bool {
		if job.Status.IsTerminal() {
			return false
		}
		now := time.Now()
		job.Status = status
		job.CompletedAt = &now
		job.ResultURL = resultURL
		job.Error = errMsg
		if status == StatusCompleted {
			job.Progress = 100
		}
		return true
	})
	return ok
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
