package responses

import "github.com/srad/techhub/jobs"

type Pagination struct {
	Total   int  `json:"total" extensions:"!x-nullable"`
	Limit   int  `json:"limit" extensions:"!x-nullable"`
	Offset  int  `json:"offset" extensions:"!x-nullable"`
	HasMore bool `json:"hasMore" extensions:"!x-nullable"`
}

type JobsResponse struct {
	Success    bool       `json:"success" extensions:"!x-nullable"`
	Data       []jobs.Job `json:"data" extensions:"!x-nullable"`
	Pagination Pagination `json:"pagination" extensions:"!x-nullable"`
}

func NewJobsResponse(result jobs.ListResult, limit, offset int) JobsResponse {
	return JobsResponse{
		Success: true,
		Data:    result.Jobs,
		Pagination: Pagination{
			Total:   result.Total,
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(result.Jobs) < result.Total,
		},
	}
}

type ProcessorsResponse struct {
	Stats      jobs.Stats           `json:"stats" extensions:"!x-nullable"`
	Processors []jobs.ProcessorInfo `json:"processors" extensions:"!x-nullable"`
}
