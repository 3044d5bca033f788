package network

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/srad/techhub/jobs"
)

const (
	publishTimeout = 2 * time.Second
	redisQueueSize = 1000
)

// Publisher is the part of a redis client the notifier needs.
// *redis.Client satisfies it.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisNotifier publishes every job event as JSON on the channel
// "<prefix>:<jobId>", so processes outside this one can follow jobs.
// Events are queued and only published while Listen runs.
type RedisNotifier struct {
	client Publisher
	prefix string
	events chan SocketEvent
}

func NewRedisNotifier(client Publisher, prefix string) *RedisNotifier {
	if prefix == "" {
		prefix = "jobs"
	}
	return &RedisNotifier{
		client: client,
		prefix: prefix,
		events: make(chan SocketEvent, redisQueueSize),
	}
}

// DialRedis connects to addr and verifies the connection.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (n *RedisNotifier) Channel(jobID string) string {
	return n.prefix + ":" + jobID
}

// Listen publishes queued events until ctx is done.
func (n *RedisNotifier) Listen(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-n.events:
			n.publish(ctx, event)
		}
	}
}

// enqueue never blocks the job service. Events are dropped when the queue
// is full.
func (n *RedisNotifier) enqueue(event SocketEvent) {
	select {
	case n.events <- event:
	default:
		log.Warnf("[RedisNotifier] Event queue full, dropping %s for job %s", event.Name, event.JobID)
	}
}

func (n *RedisNotifier) publish(ctx context.Context, event SocketEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Errorf("[RedisNotifier] Error encoding %s: %s", event.Name, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := n.client.Publish(ctx, n.Channel(event.JobID), data).Err(); err != nil {
		log.Errorf("[RedisNotifier] Error publishing %s for job %s: %s", event.Name, event.JobID, err)
	}
}

func (n *RedisNotifier) JobCreated(job jobs.Job) {
	n.enqueue(SocketEvent{Name: JobCreateEvent, JobID: job.ID, Data: job})
}

func (n *RedisNotifier) JobProgress(jobID string, progress int, message string) {
	n.enqueue(SocketEvent{Name: JobProgressEvent, JobID: jobID, Data: ProgressData{Progress: progress, Message: message}})
}

func (n *RedisNotifier) JobCompleted(jobID, resultURL string) {
	n.enqueue(SocketEvent{Name: JobCompletedEvent, JobID: jobID, Data: ResultData{ResultURL: resultURL}})
}

func (n *RedisNotifier) JobFailed(jobID, errMsg string) {
	n.enqueue(SocketEvent{Name: JobFailedEvent, JobID: jobID, Data: ResultData{Error: errMsg}})
}

func (n *RedisNotifier) JobCancelled(jobID string) {
	n.enqueue(SocketEvent{Name: JobCancelledEvent, JobID: jobID})
}

// Fanout forwards every event to each notifier in order.
type Fanout []jobs.Notifier

func (f Fanout) JobCreated(job jobs.Job) {
	for _, n := range f {
		n.JobCreated(job)
	}
}

func (f Fanout) JobProgress(jobID string, progress int, message string) {
	for _, n := range f {
		n.JobProgress(jobID, progress, message)
	}
}

func (f Fanout) JobCompleted(jobID, resultURL string) {
	for _, n := range f {
		n.JobCompleted(jobID, resultURL)
	}
}

func (f Fanout) JobFailed(jobID, errMsg string) {
	for _, n := range f {
		n.JobFailed(jobID, errMsg)
	}
}

func (f Fanout) JobCancelled(jobID string) {
	for _, n := range f {
		n.JobCancelled(jobID)
	}
}
