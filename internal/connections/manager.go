package connections

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// TimeoutConfig holds the various timeout settings for WebSocket connections
type TimeoutConfig struct {
	PongWait   time.Duration
	PingPeriod time.Duration
	WriteWait  time.Duration
}

// DefaultTimeouts provides sensible default timeout values
var DefaultTimeouts = TimeoutConfig{
	PongWait:   30 * time.Second,
	PingPeriod: 27 * time.Second, // (PongWait * 9) / 10
	WriteWait:  10 * time.Second,
}

// Manager tracks open WebSocket connections and the thread each one talks on
type Manager struct {
	connections sync.Map // *websocket.Conn -> thread ID, "" until the first question
	timeouts    TimeoutConfig
}

// NewManager creates a new connection manager with the specified timeouts
func NewManager(timeouts TimeoutConfig) *Manager {
	return &Manager{
		timeouts: timeouts,
	}
}

// AddConnection registers a new WebSocket connection
func (m *Manager) AddConnection(conn *websocket.Conn) {
	m.connections.Store(conn, "")
}

// RemoveConnection removes a WebSocket connection
func (m *Manager) RemoveConnection(conn *websocket.Conn) {
	m.connections.Delete(conn)
}

// BindThread records the thread a connection converses on
func (m *Manager) BindThread(conn *websocket.Conn, threadID string) {
	if _, exists := m.connections.Load(conn); exists {
		m.connections.Store(conn, threadID)
	}
}

// ThreadFor returns the thread bound to conn, if any
func (m *Manager) ThreadFor(conn *websocket.Conn) (string, bool) {
	value, exists := m.connections.Load(conn)
	if !exists {
		return "", false
	}
	threadID := value.(string)
	return threadID, threadID != ""
}

// GetConnectionCount returns the current number of active connections
func (m *Manager) GetConnectionCount() int {
	count := 0
	m.connections.Range(func(key, value interface{}) bool {
		count++
		return true
	})
	return count
}

// HasConnection checks if a specific connection exists
func (m *Manager) HasConnection(conn *websocket.Conn) bool {
	_, exists := m.connections.Load(conn)
	return exists
}

// GetTimeouts returns the timeout configuration, fixed at construction
func (m *Manager) GetTimeouts() TimeoutConfig {
	return m.timeouts
}
