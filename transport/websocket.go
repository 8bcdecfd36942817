package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/weftlabs/mcpcore/protocol"
)

// WebSocket serves one JSON-RPC stream per connection. Each connection is
// assigned a subscriber ID so targeted notifications reach only the
// connections they address.
type WebSocket struct {
	addr     string
	upgrader websocket.Upgrader
	server   *http.Server

	readTimeout  time.Duration
	writeTimeout time.Duration
	onDisconnect func(subscriberID string)

	mu      sync.RWMutex
	clients map[string]*wsClient
}

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// WebSocketOption configures a WebSocket transport.
type WebSocketOption func(*WebSocket)

// WithWebSocketReadTimeout sets the read timeout for WebSocket messages.
func WithWebSocketReadTimeout(d time.Duration) WebSocketOption {
	return func(ws *WebSocket) {
		ws.readTimeout = d
	}
}

// WithWebSocketWriteTimeout sets the write timeout for WebSocket messages.
func WithWebSocketWriteTimeout(d time.Duration) WebSocketOption {
	return func(ws *WebSocket) {
		ws.writeTimeout = d
	}
}

// WithWebSocketCheckOrigin sets the origin check for WebSocket upgrades.
func WithWebSocketCheckOrigin(fn func(r *http.Request) bool) WebSocketOption {
	return func(ws *WebSocket) {
		ws.upgrader.CheckOrigin = fn
	}
}

// WithDisconnectHook registers a callback invoked with the connection's
// subscriber ID when it closes. Wire this to the server's subscription
// cleanup so dead connections stop accumulating subscriptions.
func WithDisconnectHook(fn func(subscriberID string)) WebSocketOption {
	return func(ws *WebSocket) {
		ws.onDisconnect = fn
	}
}

// NewWebSocket creates a WebSocket transport listening on addr.
func NewWebSocket(addr string, opts ...WebSocketOption) *WebSocket {
	ws := &WebSocket{
		addr: addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		readTimeout:  60 * time.Second,
		writeTimeout: 10 * time.Second,
		clients:      make(map[string]*wsClient),
	}
	for _, opt := range opts {
		opt(ws)
	}
	return ws
}

// Addr returns the transport address.
func (ws *WebSocket) Addr() string {
	return ws.addr
}

// Serve starts the WebSocket server.
func (ws *WebSocket) Serve(ctx context.Context, handler Handler) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		ws.handleConnection(ctx, w, r, handler)
	})

	ws.server = &http.Server{
		Addr:        ws.addr,
		Handler:     mux,
		ReadTimeout: ws.readTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := ws.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		ws.closeAllClients()
		return ws.server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

// Deliver sends a notification to every connection addressed by targets.
func (ws *WebSocket) Deliver(method string, params any, targets []string) {
	notif := protocol.NewNotification(method, params)

	ws.mu.RLock()
	defer ws.mu.RUnlock()
	for id, client := range ws.clients {
		if targeted(targets, id) {
			_ = client.writeJSON(notif)
		}
	}
}

func (ws *WebSocket) handleConnection(ctx context.Context, w http.ResponseWriter, r *http.Request, handler Handler) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	subscriberID := uuid.NewString()
	client := &wsClient{conn: conn}

	ws.mu.Lock()
	ws.clients[subscriberID] = client
	ws.mu.Unlock()

	defer func() {
		ws.mu.Lock()
		delete(ws.clients, subscriberID)
		ws.mu.Unlock()
		_ = conn.Close()
		if ws.onDisconnect != nil {
			ws.onDisconnect(subscriberID)
		}
	}()

	connCtx := protocol.ContextWithSubscriber(ctx, subscriberID)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if ws.readTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(ws.readTimeout))
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var req protocol.Request
		if err := json.Unmarshal(message, &req); err != nil {
			_ = client.writeJSON(protocol.NewErrorResponse(nil, protocol.NewParseError(err.Error())))
			continue
		}

		resp, err := handler.HandleRequest(connCtx, &req)
		if out := respond(&req, resp, err); out != nil {
			_ = client.writeJSON(out)
		}
	}
}

func (ws *WebSocket) closeAllClients() {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	for _, client := range ws.clients {
		client.close()
	}
}

func (c *wsClient) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *wsClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = c.conn.Close()
}
