package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
	"github.com/gorilla/websocket"
)

// Event types
const (
	EventReservationCreated = "reservation_created"
	EventReservationUpdated = "reservation_updated"
	EventReservationStatus  = "reservation_status"
	EventTableCreated       = "table_created"
	EventTableSeated        = "table_seated"
	EventTableFinished      = "table_finished"
	EventDashboardUpdate    = "dashboard_update"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many messages a dashboard may fall behind before it
	// is dropped.
	sendBuffer = 16
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	conn      *websocket.Conn
	role      string
	send      chan []byte
	closeOnce sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// Hub holds the connected dashboards. Each connection is tagged with the
// role of the staff member who opened it ("guest" without auth) and has
// its own writer, so a slow dashboard never holds up a broadcast.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

func (h *Hub) Register(conn *websocket.Conn, role string) {
	c := &client{conn: conn, role: role, send: make(chan []byte, sendBuffer)}
	h.mutex.Lock()
	if old, ok := h.clients[conn]; ok {
		old.close()
	}
	h.clients[conn] = c
	h.mutex.Unlock()

	go h.writePump(c)
}

// Unregister drops conn. Its writer closes the connection once the queued
// messages are flushed. Safe to call twice.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	c, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mutex.Unlock()
	if ok {
		c.close()
	}
}

func (h *Hub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast queues msg for every client. Clients whose queue is full are
// disconnected.
func (h *Hub) Broadcast(msg Message) {
	if h == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("Error marshaling %s message: %v", msg.Event, err)
		}
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, c := range h.clients {
		select {
		case c.send <- data:
		default:
			if utils.ErrorLogger != nil {
				utils.ErrorLogger.Printf("Dropping %s client that fell %d messages behind", c.role, sendBuffer)
			}
			delete(h.clients, conn)
			c.close()
		}
	}
	if utils.InfoLogger != nil {
		utils.InfoLogger.Debugf("Broadcast %s to %d clients", msg.Event, len(h.clients))
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			if utils.ErrorLogger != nil {
				utils.ErrorLogger.Printf("Dropping %s client after failed write: %v", c.role, err)
			}
			h.remove(c)
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mutex.Lock()
	if h.clients[c.conn] == c {
		delete(h.clients, c.conn)
	}
	h.mutex.Unlock()
	c.close()
}
