package monitoring

import (
	"encoding/json"
	"testing"
	"time"
)

func newRegisteredClient(t *testing.T, h *WebSocketHub) *Client {
	t.Helper()

	client := &Client{
		send:          make(chan []byte, 8),
		clientID:      "test-client",
		subscriptions: make(map[string]bool),
	}
	// register无缓冲，发送返回即注册完成
	h.register <- client
	return client
}

func awaitMessage(t *testing.T, client *Client) Message {
	t.Helper()

	select {
	case raw := <-client.send:
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("failed to unmarshal message: %v", err)
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
	return Message{}
}

func TestMonitorCounters(t *testing.T) {
	m := NewMonitor()
	m.Start()
	defer m.Stop()

	m.RecordPrediction(5.5)
	m.RecordPrediction(6.1)
	m.RecordBatch(3, 2, 2.0/3.0)

	stats := m.Stats()
	if stats.PredictionsServed != 2 {
		t.Fatalf("expected 2 predictions served, got %d", stats.PredictionsServed)
	}
	if stats.BatchesServed != 1 {
		t.Fatalf("expected 1 batch served, got %d", stats.BatchesServed)
	}
	if stats.RowsProcessed != 3 {
		t.Fatalf("expected 3 rows processed, got %d", stats.RowsProcessed)
	}
	if stats.UptimeSeconds < 0 {
		t.Fatalf("uptime must be non-negative, got %v", stats.UptimeSeconds)
	}
}

func TestMonitorStopIdempotent(t *testing.T) {
	m := NewMonitor()
	m.Start()

	m.Stop()
	m.Stop() // 第二次不能panic
}

func TestHubBroadcast(t *testing.T) {
	h := NewWebSocketHub()
	go h.Start()
	defer h.Stop()

	client := newRegisteredClient(t, h)
	if h.ClientCount() != 1 {
		t.Fatalf("expected 1 client, got %d", h.ClientCount())
	}

	h.Broadcast([]byte(`{"type":"system_status","timestamp":"2026-01-01T00:00:00Z","data":{}}`))

	select {
	case got := <-client.send:
		if len(got) == 0 {
			t.Fatal("expected non-empty message")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
}

func TestMonitorBroadcastsPredictionEvent(t *testing.T) {
	m := NewMonitor()
	m.Start()
	defer m.Stop()

	client := newRegisteredClient(t, m.Hub())

	m.RecordPrediction(5.5)

	msg := awaitMessage(t, client)
	if msg.Type != PredictionEvent {
		t.Fatalf("expected %q event, got %q", PredictionEvent, msg.Type)
	}

	var payload struct {
		Prediction float64 `json:"prediction"`
	}
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}
	if payload.Prediction != 5.5 {
		t.Fatalf("expected prediction 5.5, got %v", payload.Prediction)
	}
}

func TestMonitorBroadcastsBatchEvent(t *testing.T) {
	m := NewMonitor()
	m.Start()
	defer m.Stop()

	client := newRegisteredClient(t, m.Hub())

	m.RecordBatch(3, 2, 2.0/3.0)

	msg := awaitMessage(t, client)
	if msg.Type != BatchEvent {
		t.Fatalf("expected %q event, got %q", BatchEvent, msg.Type)
	}

	var payload struct {
		RowCount     int     `json:"row_count"`
		SuccessCount int     `json:"success_count"`
		SuccessRate  float64 `json:"success_rate"`
	}
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}
	if payload.RowCount != 3 || payload.SuccessCount != 2 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}
