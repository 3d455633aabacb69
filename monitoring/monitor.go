package monitoring

import (
	"encoding/json"
	"sync"
	"time"
)

// Stats 服务运行统计
type Stats struct {
	ConnectedClients  int       `json:"connected_clients"`
	PredictionsServed int64     `json:"predictions_served"`
	BatchesServed     int64     `json:"batches_served"`
	RowsProcessed     int64     `json:"rows_processed"`
	StartTime         time.Time `json:"start_time"`
	UptimeSeconds     float64   `json:"uptime_seconds"`
}

// Monitor 聚合预测事件并推送给WebSocket订阅者
type Monitor struct {
	hub *WebSocketHub

	mu                sync.Mutex
	predictionsServed int64
	batchesServed     int64
	rowsProcessed     int64
	startTime         time.Time

	stopHeartbeat chan struct{}
	once          sync.Once
}

func NewMonitor() *Monitor {
	return &Monitor{
		hub:           NewWebSocketHub(),
		startTime:     time.Now(),
		stopHeartbeat: make(chan struct{}),
	}
}

// Start 启动中心和心跳
func (m *Monitor) Start() {
	go m.hub.Start()
	go m.heartbeatLoop()
}

// Stop 停止监控器
func (m *Monitor) Stop() {
	m.once.Do(func() {
		close(m.stopHeartbeat)
		m.hub.Stop()
	})
}

// Hub 暴露WebSocket中心供HTTP层注册路由
func (m *Monitor) Hub() *WebSocketHub {
	return m.hub
}

// RecordPrediction 记录一次单条预测并广播
func (m *Monitor) RecordPrediction(score float64) {
	m.mu.Lock()
	m.predictionsServed++
	m.mu.Unlock()

	m.publish(PredictionEvent, map[string]interface{}{
		"prediction": score,
	})
}

// RecordBatch 记录一次批量预测并广播
func (m *Monitor) RecordBatch(rowCount, successCount int, successRate float64) {
	m.mu.Lock()
	m.batchesServed++
	m.rowsProcessed += int64(rowCount)
	m.mu.Unlock()

	m.publish(BatchEvent, map[string]interface{}{
		"row_count":     rowCount,
		"success_count": successCount,
		"success_rate":  successRate,
	})
}

// Stats 当前统计快照
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{
		ConnectedClients:  m.hub.ClientCount(),
		PredictionsServed: m.predictionsServed,
		BatchesServed:     m.batchesServed,
		RowsProcessed:     m.rowsProcessed,
		StartTime:         m.startTime,
		UptimeSeconds:     time.Since(m.startTime).Seconds(),
	}
}

func (m *Monitor) publish(msgType MessageType, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	message, err := json.Marshal(Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Data:      payload,
	})
	if err != nil {
		return
	}
	m.hub.Broadcast(message)
}

func (m *Monitor) heartbeatLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.publish(Heartbeat, m.Stats())
		case <-m.stopHeartbeat:
			return
		}
	}
}
