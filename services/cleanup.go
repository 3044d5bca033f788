package services

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/srad/techhub/jobs"
)

// cleanupJobs removes finished jobs older than retention every interval.
func cleanupJobs(ctx context.Context, service *jobs.Service, retention, interval time.Duration) {
	log.Infof("[cleanupJobs] Removing finished jobs older than %s every %s", retention, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Infoln("[cleanupJobs] Stopped")
			return
		case <-ticker.C:
			service.CleanupOldJobs(retention)
		}
	}
}
