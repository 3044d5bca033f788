package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srad/techhub/app"
	"github.com/srad/techhub/jobs"
	"github.com/srad/techhub/middlewares"
	"github.com/srad/techhub/services"
)

// ginResponse lets a processor answer a live request.
type ginResponse struct {
	c    *gin.Context
	code int
}

func (r *ginResponse) Status(code int) jobs.Response {
	r.code = code
	return r
}

func (r *ginResponse) JSON(data interface{}) {
	r.c.JSON(r.code, data)
}

func liveRequest(c *gin.Context) (*jobs.Request, error) {
	req := jobs.NewLiveRequest(c.Request.Context())
	req.Method = c.Request.Method
	req.URL = c.Request.URL.String()
	req.UserID = middlewares.UserID(c)

	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			req.Query[key] = values[0]
		}
	}
	for _, param := range c.Params {
		req.Params[param.Key] = param.Value
	}

	raw, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		var body interface{}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		req.Body = body
	}

	return req, nil
}

// Deferrable serves the processor registered under key. A live call is
// accepted as a job and answered with 202.
func Deferrable(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		appG := app.Gin{C: c}

		service, err := services.JobService()
		if err != nil {
			appG.Error(http.StatusServiceUnavailable, err)
			return
		}

		info, instance, err := service.Manager().Resolve(key)
		if err != nil {
			appG.Error(http.StatusInternalServerError, err)
			return
		}

		req, err := liveRequest(c)
		if err != nil {
			appG.Error(http.StatusBadRequest, err)
			return
		}

		bound := func(req *jobs.Request, res jobs.Response, next jobs.Next) {
			info.Processor(instance, req, res, next)
		}
		next := func(err error) {
			if err == nil {
				return
			}
			if errors.Is(err, jobs.ErrInvalidType) || errors.Is(err, jobs.ErrInvalidPriority) {
				appG.Error(http.StatusBadRequest, err)
				return
			}
			appG.Error(http.StatusInternalServerError, err)
		}

		jobs.Dispatch(service, info, bound, req, &ginResponse{c: c, code: http.StatusOK}, next)
	}
}
