package utils

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// Notification is a transient, non-blocking message pushed to a connected
// client. Booking-persistence failures after a successful payment travel this
// channel so they are never mistaken for payment failures.
type Notification struct {
	Event   string `json:"event"`
	OrderID string `json:"order_id,omitempty"`
	Message string `json:"message"`
}

// Notifier manages active WebSocket connections and delivers notifications.
type Notifier struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]*websocket.Conn
}

// DefaultNotifier is the package-level notifier instance.
var DefaultNotifier = NewNotifier()

func NewNotifier() *Notifier {
	return &Notifier{
		conns: make(map[uuid.UUID]*websocket.Conn),
	}
}

// Register registers a websocket connection for a user.
func (n *Notifier) Register(userID uuid.UUID, conn *websocket.Conn) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.conns[userID] = conn
	log.Printf("event=ws_register user=%s total_connections=%d", userID.String(), len(n.conns))
}

// Unregister removes the websocket connection for a user.
func (n *Notifier) Unregister(userID uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if conn, ok := n.conns[userID]; ok {
		_ = conn.Close()
		delete(n.conns, userID)
	}
	log.Printf("event=ws_unregister user=%s total_connections=%d", userID.String(), len(n.conns))
}

// Notify sends a notification to the user's websocket connection. Delivery is
// best-effort; a missing connection is not an error worth propagating to the
// payment flow.
func (n *Notifier) Notify(userID uuid.UUID, note Notification) error {
	n.mu.RLock()
	conn, ok := n.conns[userID]
	n.mu.RUnlock()
	if !ok || conn == nil {
		log.Printf("event=notify_skip user=%s reason=no_connection", userID.String())
		return ErrNoConnection
	}

	msg, err := json.Marshal(note)
	if err != nil {
		return err
	}

	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		log.Printf("event=notify_error_write user=%s error=%v", userID.String(), err)
		return err
	}

	return nil
}

// ErrNoConnection is returned when there is no websocket connection for the user.
var ErrNoConnection = &NoConnError{}

type NoConnError struct{}

func (e *NoConnError) Error() string { return "no websocket connection for user" }
