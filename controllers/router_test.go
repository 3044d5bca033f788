package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	v1 "github.com/srad/techhub/controllers/api/v1"
	"github.com/srad/techhub/jobs"
	"github.com/srad/techhub/models/responses"
	"github.com/srad/techhub/services"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	services.StartJobProcessing(services.JobConfig{}, v1.Owners(time.Millisecond)...)
	t.Cleanup(services.StopJobProcessing)

	return Setup("test", "abc")
}

func do(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Error decoding response %q: %v", w.Body.String(), err)
	}
}

func waitForJob(t *testing.T, router http.Handler, id string) jobs.Job {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		w := do(router, http.MethodGet, "/api/v1/jobs/"+id, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Error getting job: %d %s", w.Code, w.Body.String())
		}
		var job jobs.Job
		decode(t, w, &job)
		if job.Status.IsTerminal() {
			return job
		}
		if time.Now().After(deadline) {
			t.Fatalf("Job %s did not finish: %+v", id, job)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCreateAndGetJob(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodPost, "/api/v1/jobs", map[string]interface{}{
		"type":       "data_processing",
		"parameters": map[string]interface{}{"jobKey": "DataController.ProcessData", "payload": map[string]interface{}{"dataset": "sales", "records": 12}},
	})
	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d %s", w.Code, w.Body.String())
	}

	var created jobs.Job
	decode(t, w, &created)
	if created.Status != jobs.StatusQueued || created.Priority != jobs.PriorityNormal {
		t.Errorf("Wrong initial job: %+v", created)
	}

	job := waitForJob(t, router, created.ID)
	if job.Status != jobs.StatusCompleted {
		t.Fatalf("Expected completed, got %s (%s)", job.Status, job.Error)
	}
	if job.ResultURL != `{"dataset":"sales","processed":12}` {
		t.Errorf("Wrong result: %s", job.ResultURL)
	}
}

func TestCreateJobValidation(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"unknown type", map[string]interface{}{"type": "video", "parameters": map[string]interface{}{}}},
		{"unknown priority", map[string]interface{}{"type": "ml_training", "priority": "urgent", "parameters": map[string]interface{}{}}},
		{"missing parameters", map[string]interface{}{"type": "ml_training"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(router, http.MethodPost, "/api/v1/jobs", tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestUnknownJob(t *testing.T) {
	router := setupRouter(t)

	if w := do(router, http.MethodGet, "/api/v1/jobs/nope", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
	if w := do(router, http.MethodDelete, "/api/v1/jobs/nope", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestCancelJobRoute(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodPost, "/api/v1/jobs", map[string]interface{}{
		"type":       "ml_training",
		"parameters": map[string]interface{}{"jobKey": "Missing.Processor"},
	})
	var failed jobs.Job
	decode(t, w, &failed)
	waitForJob(t, router, failed.ID)

	if w := do(router, http.MethodDelete, "/api/v1/jobs/"+failed.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("Finished job must not be cancellable: %d", w.Code)
	}

	service, err := services.JobService()
	if err != nil {
		t.Fatalf("Job service not running: %v", err)
	}
	// A long training keeps the job running until it is cancelled.
	running, _ := service.CreateJob(jobs.Config{
		Type:       jobs.TypeMLTraining,
		Parameters: map[string]interface{}{jobs.ParamJobKey: "TrainingController.TrainModel", jobs.ParamPayload: map[string]interface{}{"model": "m", "epochs": 100}},
	})

	if w := do(router, http.MethodDelete, "/api/v1/jobs/"+running.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d %s", w.Code, w.Body.String())
	}
	job, _ := service.GetJob(running.ID)
	if job.Status != jobs.StatusCancelled {
		t.Errorf("Expected cancelled, got %s", job.Status)
	}
}

func TestListJobsRoute(t *testing.T) {
	router := setupRouter(t)

	for i := 0; i < 3; i++ {
		w := do(router, http.MethodPost, "/api/v1/jobs", map[string]interface{}{
			"type":       "report_generation",
			"parameters": map[string]interface{}{},
		})
		if w.Code != http.StatusAccepted {
			t.Fatalf("Error creating job: %d", w.Code)
		}
	}

	w := do(router, http.MethodGet, "/api/v1/jobs?limit=2&offset=0", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d %s", w.Code, w.Body.String())
	}
	var page responses.JobsResponse
	decode(t, w, &page)
	if !page.Success || len(page.Data) != 2 || page.Pagination.Total != 3 || !page.Pagination.HasMore {
		t.Errorf("Wrong page: %+v", page)
	}

	w = do(router, http.MethodGet, "/api/v1/jobs?status=queued&limit=5", nil)
	decode(t, w, &page)
	for _, job := range page.Data {
		if job.Status != jobs.StatusQueued {
			t.Errorf("Status filter leaked %s", job.Status)
		}
	}

	for _, query := range []string{"limit=0", "limit=101", "offset=-1", "status=sleeping"} {
		if w := do(router, http.MethodGet, "/api/v1/jobs?"+query, nil); w.Code != http.StatusBadRequest {
			t.Errorf("Query %s should be rejected, got %d", query, w.Code)
		}
	}
}

func TestDeferrableRoutes(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodPost, "/api/v1/reports", map[string]interface{}{"reportType": "sales"})
	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d %s", w.Code, w.Body.String())
	}

	var accepted jobs.Accepted
	decode(t, w, &accepted)
	if !accepted.Success || accepted.Data.Type != jobs.TypeReportGeneration || accepted.Data.Priority != jobs.PriorityHigh {
		t.Fatalf("Wrong accepted body: %+v", accepted)
	}
	if accepted.Data.URL != "/api/v1/reports" || accepted.Data.Method != http.MethodPost {
		t.Errorf("Origin call not recorded: %+v", accepted.Data)
	}

	job := waitForJob(t, router, accepted.Data.ID)
	if job.Status != jobs.StatusCompleted || job.ResultURL != "/api/v1/reports/"+job.ID {
		t.Errorf("Wrong report job: %+v", job)
	}

	// Validation happens inside the job.
	w = do(router, http.MethodPost, "/api/v1/ml/train", map[string]interface{}{"model": "m"})
	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d", w.Code)
	}
	decode(t, w, &accepted)
	job = waitForJob(t, router, accepted.Data.ID)
	if job.Status != jobs.StatusFailed || job.Error == "" {
		t.Errorf("Invalid training request should fail: %+v", job)
	}
}

func TestProcessorsRoute(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodGet, "/api/v1/jobs/processors", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body struct {
		Stats      jobs.Stats `json:"stats"`
		Processors []struct {
			Key string `json:"key"`
		} `json:"processors"`
	}
	decode(t, w, &body)
	if body.Stats.Total != 3 || len(body.Processors) != 3 {
		t.Errorf("Expected 3 processors: %+v", body)
	}
	if body.Processors[0].Key != "DataController.ProcessData" {
		t.Errorf("Processors not sorted: %+v", body.Processors)
	}
}

func TestHealthRoutes(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var health responses.HealthResponse
	decode(t, w, &health)
	if health.Status != "healthy" || health.Version != "test" {
		t.Errorf("Wrong health body: %+v", health)
	}

	// No database in this package's tests.
	w = do(router, http.MethodGet, "/api/health/ready", nil)
	var ready responses.ReadinessResponse
	decode(t, w, &ready)
	if w.Code != http.StatusServiceUnavailable || ready.Database || !ready.Jobs {
		t.Errorf("Wrong readiness: %d %+v", w.Code, ready)
	}
}

func TestRoutesWithoutJobProcessing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := Setup("test", "abc")

	if w := do(router, http.MethodGet, "/api/v1/jobs/abc", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", w.Code)
	}
	if w := do(router, http.MethodPost, "/api/v1/reports", map[string]interface{}{}); w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", w.Code)
	}
}
