package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/astaxie/beego/validation"
	"github.com/srad/techhub/app"
	"github.com/srad/techhub/jobs"
)

// DefaultStep is the simulated duration of one unit of work.
const DefaultStep = 500 * time.Millisecond

// Owners returns every controller that contributes processors.
func Owners(step time.Duration) []jobs.Owner {
	return []jobs.Owner{
		&ReportController{Step: step},
		&DataController{Step: step},
		&TrainingController{Step: step},
	}
}

// simulate reports progress from 20 to 90 percent over the given number of
// steps. It stops early when the job is cancelled.
func simulate(req *jobs.Request, step time.Duration, steps int, what string) error {
	ctx := req.Context()
	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(step):
		}
		req.ReportProgress(20+i*70/steps, fmt.Sprintf("%s %d/%d", what, i, steps))
	}
	return nil
}

func validate(form interface{}) error {
	valid := validation.Validation{}
	ok, err := valid.Valid(form)
	if err != nil {
		return err
	}
	if !ok {
		return app.MarkErrors(valid.Errors)
	}
	return nil
}

type ReportRequest struct {
	ReportType string `json:"reportType" valid:"Required"`
	From       string `json:"from"`
	To         string `json:"to"`
}

type ReportController struct {
	Step time.Duration
}

func (rc *ReportController) OwnerName() string { return "ReportController" }

func (rc *ReportController) RegisterProcessors(m *jobs.Manager) {
	jobs.Bind(m, rc.OwnerName(), "GenerateReport", (*ReportController).GenerateReport,
		jobs.Metadata{Type: jobs.TypeReportGeneration, Priority: jobs.PriorityHigh})
}

// GenerateReport godoc
// @Summary     Generate a report
// @Description Accepted as a report_generation job, the result url points to the report.
// @Tags        processors
// @Param       ReportRequest body v1.ReportRequest true "Report parameters"
// @Accept      json
// @Produce     json
// @Success     202 {object} jobs.Accepted
// @Failure     400 {string} string "Error message"
// @Router      /reports [post]
func (rc *ReportController) GenerateReport(req *jobs.Request, res jobs.Response, next jobs.Next) {
	var body ReportRequest
	if err := req.BindBody(&body); err != nil {
		next(err)
		return
	}
	if err := validate(&body); err != nil {
		next(err)
		return
	}

	if err := simulate(req, rc.Step, 4, "Compiling "+body.ReportType+" report"); err != nil {
		next(err)
		return
	}

	res.Status(http.StatusCreated).JSON("/api/v1/reports/" + req.JobID)
}

type DataRequest struct {
	Dataset string `json:"dataset" valid:"Required"`
	Records int    `json:"records" valid:"Min(0)"`
}

type DataResult struct {
	Dataset   string `json:"dataset"`
	Processed int    `json:"processed"`
}

type DataController struct {
	Step time.Duration
}

func (dc *DataController) OwnerName() string { return "DataController" }

func (dc *DataController) RegisterProcessors(m *jobs.Manager) {
	jobs.Bind(m, dc.OwnerName(), "ProcessData", (*DataController).ProcessData,
		jobs.Metadata{Type: jobs.TypeDataProcessing, Priority: jobs.PriorityNormal})
}

// ProcessData godoc
// @Summary     Process a dataset
// @Description Accepted as a data_processing job, the result holds the processed record count.
// @Tags        processors
// @Param       DataRequest body v1.DataRequest true "Dataset to process"
// @Accept      json
// @Produce     json
// @Success     202 {object} jobs.Accepted
// @Failure     400 {string} string "Error message"
// @Router      /data/process [post]
func (dc *DataController) ProcessData(req *jobs.Request, res jobs.Response, next jobs.Next) {
	var body DataRequest
	if err := req.BindBody(&body); err != nil {
		next(err)
		return
	}
	if err := validate(&body); err != nil {
		next(err)
		return
	}

	if err := simulate(req, dc.Step, 5, "Processing "+body.Dataset); err != nil {
		next(err)
		return
	}

	res.JSON(DataResult{Dataset: body.Dataset, Processed: body.Records})
}

type TrainingRequest struct {
	Model  string `json:"model" valid:"Required"`
	Epochs int    `json:"epochs" valid:"Range(1,100)"`
}

type TrainingResult struct {
	Model    string  `json:"model"`
	Epochs   int     `json:"epochs"`
	Accuracy float64 `json:"accuracy"`
}

type TrainingController struct {
	Step time.Duration
}

func (tc *TrainingController) OwnerName() string { return "TrainingController" }

func (tc *TrainingController) RegisterProcessors(m *jobs.Manager) {
	jobs.Bind(m, tc.OwnerName(), "TrainModel", (*TrainingController).TrainModel,
		jobs.Metadata{Type: jobs.TypeMLTraining, Priority: jobs.PriorityLow})
}

// TrainModel godoc
// @Summary     Train a model
// @Description Accepted as an ml_training job, one progress update per epoch.
// @Tags        processors
// @Param       TrainingRequest body v1.TrainingRequest true "Model and epochs"
// @Accept      json
// @Produce     json
// @Success     202 {object} jobs.Accepted
// @Failure     400 {string} string "Error message"
// @Router      /ml/train [post]
func (tc *TrainingController) TrainModel(req *jobs.Request, res jobs.Response, next jobs.Next) {
	var body TrainingRequest
	if err := req.BindBody(&body); err != nil {
		next(err)
		return
	}
	if err := validate(&body); err != nil {
		next(err)
		return
	}

	if err := simulate(req, tc.Step, body.Epochs, "Training "+body.Model+" epoch"); err != nil {
		next(err)
		return
	}

	accuracy := 1 - 1/float64(body.Epochs+1)
	res.JSON(TrainingResult{Model: body.Model, Epochs: body.Epochs, Accuracy: accuracy})
}
