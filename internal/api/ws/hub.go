package ws

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/GriffinCanCode/deskshell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

var (
	// ErrBufferFull is returned when a view is too slow to take a frame
	ErrBufferFull = errors.New("view send buffer full")
	// ErrHubClosed is returned when a view connects after Close
	ErrHubClosed = errors.New("event hub closed")
)

// Options configures the hub
type Options struct {
	// AllowedOrigins lists browser origins allowed to connect. Requests
	// without an Origin header are always accepted.
	AllowedOrigins []string
}

// clientMessage is sent by a view
type clientMessage struct {
	Type string `json:"type"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans frames out to every connected view
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client // Protected by mu
	closed  bool               // Protected by mu

	upgrader websocket.Upgrader
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewHub creates a hub
func NewHub(opts Options, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}

	allowed := make(map[string]struct{}, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		allowed[o] = struct{}{}
	}

	h := &Hub{
		clients: make(map[string]*client),
		logger:  logger,
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
	}
	return h
}

// WithMetrics adds metrics tracking to the hub
func (h *Hub) WithMetrics(metrics *monitoring.Metrics) *Hub {
	h.metrics = metrics
	return h
}

// Count returns the number of connected views
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Emit queues frame for every connected view. With no views connected the
// frame is dropped and Emit succeeds.
func (h *Hub) Emit(frame types.Frame) error {
	data, err := sonic.Marshal(frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	var errs []error
	for _, c := range h.clients {
		var sendErr error
		select {
		case c.send <- data:
		default:
			sendErr = fmt.Errorf("%w: %s", ErrBufferFull, c.id)
			errs = append(errs, sendErr)
		}
		if h.metrics != nil {
			h.metrics.RecordViewFrame(frame.Event, sendErr)
		}
	}
	return errors.Join(errs...)
}

// HandleConnection upgrades the request and serves the view until it disconnects
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	if err := h.register(cl); err != nil {
		h.logger.Debug("Rejecting view", zap.String("client", cl.id), zap.Error(err))
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}

	go h.writePump(cl)
	h.readPump(cl)
}

// Close disconnects every view. Views connecting afterwards are refused.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	dropped := len(h.clients)
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
	h.mu.Unlock()

	if h.metrics != nil {
		for i := 0; i < dropped; i++ {
			h.metrics.DecViewConnections()
		}
	}
	if dropped > 0 {
		h.logger.Info("Disconnected views", zap.Int("count", dropped))
	}
}

func (h *Hub) register(c *client) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHubClosed
	}
	h.clients[c.id] = c
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.IncViewConnections()
	}
	h.logger.Info("View connected", zap.String("client", c.id))
	return nil
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	if ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()

	if ok {
		if h.metrics != nil {
			h.metrics.DecViewConnections()
		}
		h.logger.Info("View disconnected", zap.String("client", c.id))
	}
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("WebSocket read error", zap.String("client", c.id), zap.Error(err))
			}
			return
		}

		var msg clientMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			h.logger.Debug("Ignoring malformed view message", zap.String("client", c.id))
			continue
		}

		switch msg.Type {
		case "ping":
			h.reply(c, types.Frame{Event: "pong"})
		default:
			h.logger.Debug("Ignoring unknown view message", zap.String("type", msg.Type))
		}
	}
}

func (h *Hub) reply(c *client, frame types.Frame) {
	data, err := sonic.Marshal(frame)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (h *Hub) writePump(c *client) {
	defer logging.CrashHook(h.logger)

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
