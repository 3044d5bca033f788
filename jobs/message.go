package jobs

// MessageType is the kind of message an execution unit sends back.
type MessageType string

const (
	MessageProgress  MessageType = MessageType(StatusInProgress)
	MessageCompleted MessageType = MessageType(StatusCompleted)
	MessageFailed    MessageType = MessageType(StatusFailed)
	// messageExit is sent once the unit's goroutine has returned.
	messageExit MessageType = "exit"
)

type Message struct {
	JobID     string      `json:"jobId"`
	Type      MessageType `json:"type"`
	Progress  int         `json:"progress,omitempty"`
	Message   string      `json:"message,omitempty"`
	ResultURL string      `json:"resultUrl,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// Notifier receives job events keyed by job id. Delivery is best effort.
type Notifier interface {
	JobCreated(job Job)
	JobProgress(jobID string, progress int, message string)
	JobCompleted(jobID, resultURL string)
	JobFailed(jobID, errMsg string)
	JobCancelled(jobID string)
}

// NopNotifier discards every event.
type NopNotifier struct{}

func (NopNotifier) JobCreated(Job)                  {}
func (NopNotifier) JobProgress(string, int, string) {}
func (NopNotifier) JobCompleted(string, string)     {}
func (NopNotifier) JobFailed(string, string)        {}
func (NopNotifier) JobCancelled(string)             {}
