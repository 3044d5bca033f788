package network

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Listen(ctx)

	r := gin.New()
	r.GET("/ws", hub.WsHandler)
	server := httptest.NewServer(r)

	t.Cleanup(func() {
		cancel()
		server.Close()
	})

	return hub, "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Error connecting: %v", err)
	}
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func subscribe(t *testing.T, ws *websocket.Conn, jobID string) {
	t.Helper()
	if err := ws.WriteJSON(SocketEvent{Name: subscribeCommand, Data: jobID}); err != nil {
		t.Fatalf("Error subscribing: %v", err)
	}
	ack := read(t, ws)
	if ack.Name != SubscribedEvent || ack.JobID != jobID {
		t.Fatalf("Expected subscription ack, got %+v", ack)
	}
}

func read(t *testing.T, ws *websocket.Conn) SocketEvent {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event SocketEvent
	if err := ws.ReadJSON(&event); err != nil {
		t.Fatalf("Error reading event: %v", err)
	}
	return event
}

func TestSubscriberReceivesJobEvents(t *testing.T) {
	hub, url := startHub(t)
	ws := dial(t, url)
	subscribe(t, ws, "job-1")

	hub.JobProgress("job-2", 30, "other job")
	hub.JobProgress("job-1", 50, "halfway")
	hub.JobCompleted("job-1", "r1")

	event := read(t, ws)
	if event.Name != JobProgressEvent || event.JobID != "job-1" {
		t.Fatalf("Wrong event: %+v", event)
	}
	data, ok := event.Data.(map[string]interface{})
	if !ok || data["progress"] != float64(50) {
		t.Errorf("Wrong progress payload: %v", event.Data)
	}

	event = read(t, ws)
	if event.Name != JobCompletedEvent || event.JobID != "job-1" {
		t.Fatalf("Wrong event: %+v", event)
	}
}

func TestWildcardAndUnsubscribe(t *testing.T) {
	hub, url := startHub(t)
	ws := dial(t, url)
	subscribe(t, ws, AllJobs)

	hub.JobFailed("job-9", "boom")
	event := read(t, ws)
	if event.Name != JobFailedEvent || event.JobID != "job-9" {
		t.Fatalf("Wrong event: %+v", event)
	}

	if err := ws.WriteJSON(SocketEvent{Name: unsubscribeCommand, Data: AllJobs}); err != nil {
		t.Fatalf("Error unsubscribing: %v", err)
	}
	// The ack orders the unsubscribe before the next publish.
	subscribe(t, ws, "job-3")

	hub.JobCancelled("job-9")
	hub.JobCancelled("job-3")
	event = read(t, ws)
	if event.JobID != "job-3" || event.Name != JobCancelledEvent {
		t.Errorf("Unsubscribed event leaked: %+v", event)
	}
}

func TestClientRemovedOnClose(t *testing.T) {
	hub, url := startHub(t)
	ws := dial(t, url)
	subscribe(t, ws, "job-1")

	if hub.Clients() != 1 {
		t.Fatalf("Expected one client, got %d", hub.Clients())
	}

	_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = ws.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("Client not removed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
