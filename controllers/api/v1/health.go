package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/srad/techhub/app"
	"github.com/srad/techhub/conf"
	"github.com/srad/techhub/database"
	"github.com/srad/techhub/helpers"
	"github.com/srad/techhub/models/responses"
	"github.com/srad/techhub/services"
)

const serviceName = "TechHub Backend"

// Health godoc
// @Summary     Liveness check
// @Description Reports that the process is up
// @Tags        health
// @Produce     json
// @Success     200 {object} responses.HealthResponse
// @Router      /health [get]
func Health(version, commit string) gin.HandlerFunc {
	return func(c *gin.Context) {
		appG := app.Gin{C: c}
		appG.Response(http.StatusOK, responses.HealthResponse{
			Success:   true,
			Status:    "healthy",
			Timestamp: time.Now(),
			Service:   serviceName,
			Version:   version,
			Commit:    commit,
		})
	}
}

func databaseReady() bool {
	if database.DB == nil {
		return false
	}
	sqlDB, err := database.DB.DB()
	if err != nil {
		return false
	}
	return sqlDB.Ping() == nil
}

// Ready godoc
// @Summary     Readiness check
// @Description Reports whether the database and job processing are available
// @Tags        health
// @Produce     json
// @Success     200 {object} responses.ReadinessResponse
// @Failure     503 {object} responses.ReadinessResponse
// @Router      /health/ready [get]
func Ready(c *gin.Context) {
	appG := app.Gin{C: c}

	res := responses.ReadinessResponse{
		Timestamp: time.Now(),
		Database:  databaseReady(),
	}

	if service, err := services.JobService(); err == nil {
		res.Jobs = true
		res.ActiveJobs, res.WaitingJobs = service.Running()
	}

	if disk, err := helpers.DiskUsage(conf.AppCfg.DataDisk); err != nil {
		log.Warnf("[Ready] Error reading disk usage of '%s': %s", conf.AppCfg.DataDisk, err)
	} else {
		res.DiskFree = disk.AvailBytes
		res.DiskUsedPct = disk.UsedPct
	}

	res.Success = res.Database && res.Jobs
	if !res.Success {
		res.Status = "not ready"
		appG.Response(http.StatusServiceUnavailable, res)
		return
	}

	res.Status = "ready"
	appG.Response(http.StatusOK, res)
}
