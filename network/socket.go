package network

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/srad/techhub/jobs"
)

type SocketEventName string

const (
	JobCreateEvent    SocketEventName = "job:create"
	JobProgressEvent  SocketEventName = "job:progress"
	JobCompletedEvent SocketEventName = "job:completed"
	JobFailedEvent    SocketEventName = "job:failed"
	JobCancelledEvent SocketEventName = "job:cancelled"

	HeartbeatEvent  SocketEventName = "heartbeat"
	SubscribedEvent SocketEventName = "subscribed"

	subscribeCommand   SocketEventName = "subscribe"
	unsubscribeCommand SocketEventName = "unsubscribe"
)

// AllJobs subscribes a client to the events of every job.
const AllJobs = "*"

const (
	heartbeatInterval = 10 * time.Second
	writeWait         = 5 * time.Second
)

type SocketEvent struct {
	Name  SocketEventName `json:"name"`
	JobID string          `json:"jobId,omitempty"`
	Data  interface{}     `json:"data"`
}

type ProgressData struct {
	Progress int    `json:"progress"`
	Message  string `json:"message,omitempty"`
}

type ResultData struct {
	ResultURL string `json:"resultUrl,omitempty"`
	Error     string `json:"error,omitempty"`
}

type wsConnection struct {
	ws *websocket.Conn
	mu sync.Mutex

	subMu sync.RWMutex
	subs  map[string]struct{}
}

func (p *wsConnection) send(v interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return p.ws.WriteJSON(v)
}

func (p *wsConnection) subscribe(jobID string) {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	p.subs[jobID] = struct{}{}
}

func (p *wsConnection) unsubscribe(jobID string) {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	delete(p.subs, jobID)
}

// wants reports whether the client receives events of jobID. Events
// without a job id go to everyone.
func (p *wsConnection) wants(jobID string) bool {
	if jobID == "" {
		return true
	}
	p.subMu.RLock()
	defer p.subMu.RUnlock()
	_, one := p.subs[jobID]
	_, all := p.subs[AllJobs]
	return one || all
}

// Hub delivers job events to WebSocket clients subscribed to those jobs.
// It implements jobs.Notifier.
type Hub struct {
	events   chan SocketEvent
	upGrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*wsConnection]struct{}
}

func NewHub() *Hub {
	return &Hub{
		// Queue size.
		events: make(chan SocketEvent, 1000),
		upGrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool {
			return true
		}},
		clients: make(map[*wsConnection]struct{}),
	}
}

// Publish queues an event without blocking the caller. Events are dropped
// when the queue is full.
func (h *Hub) Publish(event SocketEvent) {
	select {
	case h.events <- event:
	default:
		log.Warnf("[Hub] Event queue full, dropping %s for job %s", event.Name, event.JobID)
	}
}

// Listen delivers queued events and sends the heartbeat until ctx is done.
func (h *Hub) Listen(ctx context.Context) {
	log.Infoln("[Hub] Starting websocket heartbeat ...")
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-ticker.C:
			h.broadCast(SocketEvent{Name: HeartbeatEvent, Data: int(heartbeatInterval.Seconds())})
		case event := <-h.events:
			h.broadCast(event)
		}
	}
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadCast(event SocketEvent) {
	h.mu.RLock()
	targets := make([]*wsConnection, 0, len(h.clients))
	for c := range h.clients {
		if c.wants(event.JobID) {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.send(event); err != nil {
			log.Errorf("[Hub] Error sending %s: %s", event.Name, err)
			h.remove(c)
		}
	}
}

func (h *Hub) add(c *wsConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) remove(c *wsConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		_ = c.ws.Close()
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.ws.Close()
		delete(h.clients, c)
	}
}

// WsHandler upgrades the request and serves subscription commands until the
// client goes away.
func (h *Hub) WsHandler(c *gin.Context) {
	ws, err := h.upGrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorf("[WsHandler] Error upgrading connection: %s", err)
		return
	}

	conn := &wsConnection{ws: ws, subs: make(map[string]struct{})}
	h.add(conn)
	defer h.remove(conn)

	for {
		msg := &SocketEvent{}
		if err := ws.ReadJSON(msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Errorf("[WsHandler] Error reading message: %s", err)
			}
			return
		}

		jobID, _ := msg.Data.(string)
		if jobID == "" {
			continue
		}

		switch msg.Name {
		case subscribeCommand:
			conn.subscribe(jobID)
			log.Debugf("[WsHandler] Client subscribed to %s", jobID)
			if err := conn.send(SocketEvent{Name: SubscribedEvent, JobID: jobID, Data: jobID}); err != nil {
				return
			}
		case unsubscribeCommand:
			conn.unsubscribe(jobID)
			log.Debugf("[WsHandler] Client unsubscribed from %s", jobID)
		default:
			log.Debugf("[WsHandler] Ignoring message %s", msg.Name)
		}
	}
}

func (h *Hub) JobCreated(job jobs.Job) {
	h.Publish(SocketEvent{Name: JobCreateEvent, JobID: job.ID, Data: job})
}

func (h *Hub) JobProgress(jobID string, progress int, message string) {
	h.Publish(SocketEvent{Name: JobProgressEvent, JobID: jobID, Data: ProgressData{Progress: progress, Message: message}})
}

func (h *Hub) JobCompleted(jobID, resultURL string) {
	h.Publish(SocketEvent{Name: JobCompletedEvent, JobID: jobID, Data: ResultData{ResultURL: resultURL}})
}

func (h *Hub) JobFailed(jobID, errMsg string) {
	h.Publish(SocketEvent{Name: JobFailedEvent, JobID: jobID, Data: ResultData{Error: errMsg}})
}

func (h *Hub) JobCancelled(jobID string) {
	h.Publish(SocketEvent{Name: JobCancelledEvent, JobID: jobID})
}
