package responses

import "time"

type HealthResponse struct {
	Success   bool      `json:"success" extensions:"!x-nullable"`
	Status    string    `json:"status" extensions:"!x-nullable"`
	Timestamp time.Time `json:"timestamp" extensions:"!x-nullable"`
	Service   string    `json:"service" extensions:"!x-nullable"`
	Version   string    `json:"version" extensions:"!x-nullable"`
	Commit    string    `json:"commit,omitempty"`
}

type ReadinessResponse struct {
	Success     bool      `json:"success" extensions:"!x-nullable"`
	Status      string    `json:"status" extensions:"!x-nullable"`
	Timestamp   time.Time `json:"timestamp" extensions:"!x-nullable"`
	Database    bool      `json:"database" extensions:"!x-nullable"`
	Jobs        bool      `json:"jobs" extensions:"!x-nullable"`
	ActiveJobs  int       `json:"activeJobs" extensions:"!x-nullable"`
	WaitingJobs int       `json:"waitingJobs" extensions:"!x-nullable"`
	DiskFree    uint64    `json:"diskFreeBytes" extensions:"!x-nullable"`
	DiskUsedPct float64   `json:"diskUsedPct" extensions:"!x-nullable"`
}
