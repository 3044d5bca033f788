package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srad/techhub/app"
	"github.com/srad/techhub/jobs"
	"github.com/srad/techhub/middlewares"
	"github.com/srad/techhub/models/requests"
	"github.com/srad/techhub/models/responses"
	"github.com/srad/techhub/services"
)

func jobService(appG app.Gin) (*jobs.Service, bool) {
	service, err := services.JobService()
	if err != nil {
		appG.Error(http.StatusServiceUnavailable, err)
		return nil, false
	}
	return service, true
}

// CreateJob godoc
// @Summary     Create a job
// @Description Queue a job. The job runs asynchronously, poll it by id or subscribe to it over the websocket.
// @Tags        jobs
// @Param       CreateJobRequest body requests.CreateJobRequest true "Job type, parameters and priority"
// @Accept      json
// @Produce     json
// @Success     202 {object} jobs.Job
// @Failure     400 {string} string "Error message"
// @Failure     503 {string} string "Error message"
// @Router      /jobs [post]
func CreateJob(c *gin.Context) {
	appG := app.Gin{C: c}

	var body requests.CreateJobRequest
	if code, err := app.BindAndValid(c, &body); err != nil {
		appG.Error(code, err)
		return
	}

	service, ok := jobService(appG)
	if !ok {
		return
	}

	job, err := service.CreateJob(body.Config(middlewares.UserID(c)))
	if err != nil {
		appG.Error(http.StatusBadRequest, err)
		return
	}

	appG.Response(http.StatusAccepted, job)
}

// GetJob godoc
// @Summary     Get a job
// @Description Current state of a job
// @Tags        jobs
// @Param       jobId path string true "Job id"
// @Accept      json
// @Produce     json
// @Success     200 {object} jobs.Job
// @Failure     404 {string} string "Error message"
// @Router      /jobs/{jobId} [get]
func GetJob(c *gin.Context) {
	appG := app.Gin{C: c}

	service, ok := jobService(appG)
	if !ok {
		return
	}

	id := c.Param("jobId")
	job, found := service.GetJob(id)
	if !found {
		appG.Error(http.StatusNotFound, fmt.Errorf("job %s not found", id))
		return
	}

	appG.Response(http.StatusOK, job)
}

// CancelJob godoc
// @Summary     Cancel a job
// @Description Cancel a job that has not finished yet
// @Tags        jobs
// @Param       jobId path string true "Job id"
// @Accept      json
// @Produce     json
// @Success     204
// @Failure     404 {string} string "Error message"
// @Router      /jobs/{jobId} [delete]
func CancelJob(c *gin.Context) {
	appG := app.Gin{C: c}

	service, ok := jobService(appG)
	if !ok {
		return
	}

	if !service.CancelJob(c.Param("jobId")) {
		appG.Error(http.StatusNotFound, errors.New("job not found or already finished"))
		return
	}

	appG.NoContent(http.StatusNoContent)
}

// ListJobs godoc
// @Summary     List jobs
// @Description Jobs ordered from newest to oldest
// @Tags        jobs
// @Param       status query string false "Filter by status"
// @Param       limit  query int    false "Page size (1-100)" default(20)
// @Param       offset query int    false "Number of jobs to skip" default(0)
// @Accept      json
// @Produce     json
// @Success     200 {object} responses.JobsResponse
// @Failure     400 {string} string "Error message"
// @Router      /jobs [get]
func ListJobs(c *gin.Context) {
	appG := app.Gin{C: c}

	var query requests.JobsQuery
	if code, err := app.BindAndValid(c, &query); err != nil {
		appG.Error(code, err)
		return
	}

	service, ok := jobService(appG)
	if !ok {
		return
	}

	result := service.ListJobs(query.Options())
	appG.Response(http.StatusOK, responses.NewJobsResponse(result, query.Limit, query.Offset))
}

// GetProcessors godoc
// @Summary     List registered processors
// @Description Registered processors and their count per job type
// @Tags        jobs
// @Accept      json
// @Produce     json
// @Success     200 {object} responses.ProcessorsResponse
// @Router      /jobs/processors [get]
func GetProcessors(c *gin.Context) {
	appG := app.Gin{C: c}

	service, ok := jobService(appG)
	if !ok {
		return
	}

	registry := service.Manager().Processors()
	appG.Response(http.StatusOK, responses.ProcessorsResponse{
		Stats:      registry.Stats(),
		Processors: registry.List(),
	})
}
