package realtime

import (
	"net/http"
	"sync"
	"time"

	"agenda-service/pkg/constants"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	TypeEventCreated  = "event.created"
	TypeEventUpdated  = "event.updated"
	TypeEventDeleted  = "event.deleted"
	TypeEventMoved    = "event.moved"
	TypeAgendaChanged = "agenda.changed"
	TypeAgendaDeleted = "agenda.deleted"
	TypeImported      = "agenda.imported"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
)

// Message tells a client that something it may be displaying changed.
type Message struct {
	Type     string `json:"type"`
	AgendaID string `json:"agenda_id,omitempty"`
	EventID  string `json:"event_id,omitempty"`
}

type Publisher interface {
	Publish(userID string, msg Message)
}

// Nop discards every message.
type Nop struct{}

func (Nop) Publish(string, Message) {}

type client struct {
	userID string
	conn   *websocket.Conn
	send   chan Message
}

// Hub fans change messages out to every open connection of a user.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]map[*client]struct{}
	logger   *zap.SugaredLogger
	upgrader websocket.Upgrader
}

func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *Hub) Publish(userID string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for cl := range h.clients[userID] {
		select {
		case cl.send <- msg:
		default:
			h.logger.Debugw("websocket client lagging, message dropped", "user_id", userID, "type", msg.Type)
		}
	}
}

// Connections returns how many sockets userID currently holds open.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) register(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[cl.userID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[cl.userID] = set
	}
	set[cl] = struct{}{}
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[cl.userID]
	if _, ok := set[cl]; !ok {
		return
	}
	delete(set, cl)
	if len(set) == 0 {
		delete(h.clients, cl.userID)
	}
	close(cl.send)
}

// ServeWS upgrades an authenticated request and blocks until the peer leaves.
func (h *Hub) ServeWS(c *gin.Context) {
	userID := c.GetString(constants.UserIDKey)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnw("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	cl := &client{userID: userID, conn: conn, send: make(chan Message, sendBuffer)}
	h.register(cl)

	go h.writePump(cl)
	h.readPump(cl)
}

func (h *Hub) readPump(cl *client) {
	defer func() {
		h.unregister(cl)
		_ = cl.conn.Close()
	}()

	cl.conn.SetReadLimit(512)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debugw("websocket closed", "user_id", cl.userID, "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
