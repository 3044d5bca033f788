package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srad/techhub/app"
	"github.com/srad/techhub/services"
)

// SocketHandler godoc
// @Summary     Job event stream
// @Description WebSocket. Send {"name":"subscribe","data":"<jobId>"} to follow a job, "*" follows all jobs.
// @Tags        jobs
// @Success     101
// @Failure     503 {string} string "Error message"
// @Router      /ws [get]
func SocketHandler(c *gin.Context) {
	hub := services.SocketHub()
	if hub == nil {
		appG := app.Gin{C: c}
		appG.Error(http.StatusServiceUnavailable, services.ErrJobsNotRunning)
		return
	}
	hub.WsHandler(c)
}
