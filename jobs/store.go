package jobs

import (
	"sort"
	"sync"
)

// Store is the in-memory table of jobs keyed by id. Reads return copies so
// callers never observe a record while it is being written.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*entry
	seq  uint64
}

type entry struct {
	job Job
	seq uint64
}

func NewStore() *Store {
	return &Store{jobs: make(map[string]*entry)}
}

func (s *Store) Add(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.jobs[job.ID] = &entry{job: job, seq: s.seq}
}

func (s *Store) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return e.job, true
}

// Update applies fn to the stored job under the write lock. fn returns
// whether it changed anything; the result is the job after the call and
// whether the change was applied.
func (s *Store) Update(id string, fn func(job *Job) bool) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	if !fn(&e.job) {
		return e.job, false
	}
	return e.job, true
}

// List returns the jobs with the given status, all jobs for an empty
// status, newest first.
func (s *Store) List(status JobStatus) []Job {
	s.mu.RLock()
	entries := make([]entry, 0, len(s.jobs))
	for _, e := range s.jobs {
		if status == "" || e.job.Status == status {
			entries = append(entries, *e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.job.CreatedAt.Equal(b.job.CreatedAt) {
			return a.job.CreatedAt.After(b.job.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]Job, len(entries))
	for i, e := range entries {
		out[i] = e.job
	}
	return out
}

func (s *Store) DeleteWhere(pred func(job Job) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.jobs {
		if pred(e.job) {
			delete(s.jobs, id)
			n++
		}
	}
	return n
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
