package spectator

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	sendBuffer   = 8
	writeTimeout = 5 * time.Second
	readTimeout  = 60 * time.Second
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub broadcasts rendered frames to websocket spectators. The feed is
// read-only: anything a client sends is discarded. Clients whose send
// buffer is full are disconnected rather than slowing the publisher.
type Hub struct {
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte

	srv *http.Server
	ln  net.Listener
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Len returns the number of connected spectators.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish queues frame for every spectator. Implements render.FrameSink.
func (h *Hub) Publish(frame string) {
	msg := []byte(frame)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = msg
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.dropLocked(c)
			h.log.Warn("spectator too slow, dropped", zap.Int("remaining", len(h.clients)))
		}
	}
}

func (h *Hub) dropLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	h.dropLocked(c)
	h.mu.Unlock()
}

// Handler upgrades the request and streams frames until the client goes
// away. New clients get the latest frame immediately.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Debug("spectator upgrade failed", zap.Error(err))
			return
		}
		c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

		h.mu.Lock()
		h.clients[c] = struct{}{}
		if h.last != nil {
			c.send <- h.last
		}
		h.mu.Unlock()
		h.log.Info("spectator joined", zap.String("remote", r.RemoteAddr))

		go h.readLoop(c)
		h.writeLoop(c)
		h.log.Info("spectator left", zap.String("remote", r.RemoteAddr))
	}
}

func (h *Hub) readLoop(c *client) {
	defer h.drop(c)
	c.conn.SetReadLimit(512)
	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		if _, _, err := c.conn.NextReader(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.drop(c)
			// drain until the channel is closed by drop
			for range c.send {
			}
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
		time.Now().Add(time.Second))
}

// Serve listens on addr and serves the feed at /ws until Shutdown.
func (h *Hub) Serve(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.Handler())

	h.mu.Lock()
	h.ln = ln
	h.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	srv := h.srv
	h.mu.Unlock()

	h.log.Info("spectator feed listening", zap.String("addr", ln.Addr().String()))
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.log.Error("spectator server", zap.Error(err))
		}
	}()
	return nil
}

// Addr returns the bound address once Serve succeeded.
func (h *Hub) Addr() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ln == nil {
		return ""
	}
	return h.ln.Addr().String()
}

// Shutdown disconnects every spectator and stops the server.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	for c := range h.clients {
		h.dropLocked(c)
	}
	srv := h.srv
	h.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
