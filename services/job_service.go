package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/srad/techhub/conf"
	"github.com/srad/techhub/jobs"
	"github.com/srad/techhub/network"
)

var ErrJobsNotRunning = errors.New("job processing is not running")

type JobConfig struct {
	MaxConcurrent   int
	ResultBase      string
	Retention       time.Duration
	CleanupInterval time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDb       int
	RedisPrefix   string
}

func JobConfigFrom(cfg *conf.Cfg) JobConfig {
	return JobConfig{
		MaxConcurrent:   cfg.JobMaxConcurrent,
		ResultBase:      cfg.JobResultBase,
		Retention:       cfg.JobRetention,
		CleanupInterval: cfg.JobCleanup,
		RedisAddr:       cfg.RedisAddr,
		RedisPassword:   cfg.RedisPassword,
		RedisDb:         cfg.RedisDb,
		RedisPrefix:     cfg.RedisPrefix,
	}
}

var (
	mu                  sync.RWMutex
	ctxJobs, cancelJobs = context.WithCancel(context.Background())
	jobService          *jobs.Service
	socketHub           *network.Hub
	redisClient         *redis.Client
)

// StartJobProcessing installs the owners, wires the notification sinks and
// starts the job service together with the periodic cleanup.
func StartJobProcessing(cfg JobConfig, owners ...jobs.Owner) *jobs.Service {
	mu.Lock()
	defer mu.Unlock()

	if jobService != nil {
		return jobService
	}

	manager := jobs.NewManager()
	manager.Install(owners...)

	ctxJobs, cancelJobs = context.WithCancel(context.Background())

	socketHub = network.NewHub()
	go socketHub.Listen(ctxJobs)
	notifiers := network.Fanout{socketHub}

	if cfg.RedisAddr != "" {
		client, err := network.DialRedis(ctxJobs, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDb)
		if err != nil {
			log.Errorf("[StartJobProcessing] Redis notifications disabled: %s", err)
		} else {
			redisClient = client
			redisNotifier := network.NewRedisNotifier(client, cfg.RedisPrefix)
			go redisNotifier.Listen(ctxJobs)
			notifiers = append(notifiers, redisNotifier)
			log.Infof("[StartJobProcessing] Publishing job events to redis %s", cfg.RedisAddr)
		}
	}

	opts := []jobs.Option{jobs.WithNotifier(notifiers), jobs.WithMaxConcurrent(cfg.MaxConcurrent)}
	if cfg.ResultBase != "" {
		opts = append(opts, jobs.WithResultBase(cfg.ResultBase))
	}

	jobService = jobs.NewService(manager, opts...)
	jobService.Start()

	if cfg.Retention > 0 && cfg.CleanupInterval > 0 {
		go cleanupJobs(ctxJobs, jobService, cfg.Retention, cfg.CleanupInterval)
	}

	return jobService
}

func StopJobProcessing() {
	mu.Lock()
	defer mu.Unlock()

	if jobService == nil {
		return
	}

	cancelJobs()
	jobService.Stop()
	jobService = nil
	socketHub = nil

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Errorf("[StopJobProcessing] Error closing redis: %s", err)
		}
		redisClient = nil
	}
}

// JobService returns the running job service or ErrJobsNotRunning.
func JobService() (*jobs.Service, error) {
	mu.RLock()
	defer mu.RUnlock()
	if jobService == nil {
		return nil, ErrJobsNotRunning
	}
	return jobService, nil
}

func SocketHub() *network.Hub {
	mu.RLock()
	defer mu.RUnlock()
	return socketHub
}

func IsJobProcessing() bool {
	_, err := JobService()
	return err == nil
}
