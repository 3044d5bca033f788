package network

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/srad/techhub/jobs"
)

type published struct {
	channel string
	payload []byte
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []published
	attempts int
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attempts++
	cmd := redis.NewIntCmd(ctx, "publish", channel, message)
	if p.err != nil {
		cmd.SetErr(p.err)
		return cmd
	}
	payload, _ := message.([]byte)
	p.messages = append(p.messages, published{channel: channel, payload: payload})
	cmd.SetVal(1)
	return cmd
}

// waitAttempts polls until the publisher saw n calls and returns what it
// published.
func (p *fakePublisher) waitAttempts(t *testing.T, n int) []published {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		p.mu.Lock()
		attempts := p.attempts
		messages := append([]published(nil), p.messages...)
		p.mu.Unlock()
		if attempts >= n {
			return messages
		}
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d publish calls, got %d", n, attempts)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// hangingPublisher blocks like an unresponsive redis server.
type hangingPublisher struct{}

func (hangingPublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "publish", channel, message)
	<-ctx.Done()
	cmd.SetErr(ctx.Err())
	return cmd
}

func listen(t *testing.T, n *RedisNotifier) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go n.Listen(ctx)
}

func TestRedisNotifierPublishesPerJobChannel(t *testing.T) {
	pub := &fakePublisher{}
	n := NewRedisNotifier(pub, "techhub")
	listen(t, n)

	n.JobCreated(jobs.Job{ID: "a", Status: jobs.StatusQueued})
	n.JobProgress("a", 40, "working")
	n.JobCompleted("a", "/api/v1/jobs/a")

	messages := pub.waitAttempts(t, 3)
	if len(messages) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(messages))
	}
	for _, m := range messages {
		if m.channel != "techhub:a" {
			t.Errorf("Wrong channel: %s", m.channel)
		}
	}

	var event SocketEvent
	if err := json.Unmarshal(messages[2].payload, &event); err != nil {
		t.Fatalf("Payload is not json: %v", err)
	}
	if event.Name != JobCompletedEvent || event.JobID != "a" {
		t.Errorf("Wrong event: %+v", event)
	}
}

func TestRedisNotifierDefaultPrefix(t *testing.T) {
	n := NewRedisNotifier(&fakePublisher{}, "")
	if n.Channel("x") != "jobs:x" {
		t.Errorf("Wrong default channel: %s", n.Channel("x"))
	}
}

func TestRedisNotifierSurvivesPublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection refused")}
	n := NewRedisNotifier(pub, "p")
	listen(t, n)

	n.JobFailed("a", "boom")
	n.JobCancelled("a")
	n.JobCreated(jobs.Job{ID: "b"})

	if messages := pub.waitAttempts(t, 3); len(messages) != 0 {
		t.Errorf("Nothing should be published: %d", len(messages))
	}
}

func TestRedisNotifierDropsWhenQueueFull(t *testing.T) {
	n := NewRedisNotifier(&fakePublisher{}, "p")

	done := make(chan struct{})
	go func() {
		for i := 0; i < redisQueueSize+10; i++ {
			n.JobCancelled("a")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Notifier blocked on a full queue")
	}
}

func TestHangingRedisDoesNotDelayJobs(t *testing.T) {
	n := NewRedisNotifier(hangingPublisher{}, "")
	listen(t, n)

	s := jobs.NewService(jobs.NewManager(), jobs.WithNotifier(Fanout{NewHub(), n}))
	s.Start()
	defer s.Stop()

	start := time.Now()
	var ids []string
	for i := 0; i < 5; i++ {
		job, err := s.CreateJob(jobs.Config{Type: jobs.TypeDataProcessing})
		if err != nil {
			t.Fatalf("CreateJob failed: %v", err)
		}
		ids = append(ids, job.ID)
	}
	if elapsed := time.Since(start); elapsed > publishTimeout/4 {
		t.Errorf("CreateJob blocked on redis: %s", elapsed)
	}

	// Without a processor key the jobs fail in their units. State updates
	// must not wait for redis either.
	deadline := time.Now().Add(publishTimeout / 2)
	for _, id := range ids {
		for {
			job, _ := s.GetJob(id)
			if job.Status == jobs.StatusFailed {
				break
			}
			if time.Now().After(deadline) {
				t.Fatalf("Job %s stuck in %s", id, job.Status)
			}
			time.Sleep(5 * time.Millisecond)
		}
	}
}

type recordingNotifier struct {
	jobs.NopNotifier
	events []string
}

func (r *recordingNotifier) JobCreated(job jobs.Job) { r.events = append(r.events, "created:"+job.ID) }
func (r *recordingNotifier) JobCancelled(jobID string) { r.events = append(r.events, "cancelled:"+jobID) }
func (r *recordingNotifier) JobFailed(jobID, err string) { r.events = append(r.events, "failed:"+jobID) }

func TestFanout(t *testing.T) {
	a, b := &recordingNotifier{}, &recordingNotifier{}
	f := Fanout{a, b}

	f.JobCreated(jobs.Job{ID: "1"})
	f.JobProgress("1", 10, "")
	f.JobFailed("1", "x")
	f.JobCancelled("2")

	for _, r := range []*recordingNotifier{a, b} {
		if len(r.events) != 3 || r.events[0] != "created:1" || r.events[2] != "cancelled:2" {
			t.Errorf("Wrong events: %v", r.events)
		}
	}
}
