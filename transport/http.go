package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tmaxmax/go-sse"

	"github.com/weftlabs/mcpcore/protocol"
)

// HTTP accepts JSON-RPC over POST and pushes server notifications over a
// Server-Sent Events stream. A client opens the stream first, receives its
// session endpoint, and sends requests there; the session ID doubles as the
// subscriber ID for targeted notifications.
type HTTP struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	corsConfig      *CORSConfig
	onDisconnect    func(subscriberID string)

	shutdown *ShutdownManager

	mu         sync.RWMutex
	listenAddr string
	server     *http.Server
	sessions   map[string]*sseSession
}

// sseSession serializes writes to one event stream. The underlying session
// is not safe for concurrent use.
type sseSession struct {
	sess *sse.Session
	mu   sync.Mutex
}

func (s *sseSession) send(eventType, data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := sse.Message{Type: sse.Type(eventType)}
	msg.AppendData(data)
	if err := s.sess.Send(&msg); err != nil {
		return err
	}
	return s.sess.Flush()
}

// HTTPOption configures the HTTP transport.
type HTTPOption func(*HTTP)

// WithReadTimeout sets the read timeout for HTTP requests.
func WithReadTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		h.readTimeout = d
	}
}

// WithWriteTimeout sets the write timeout for HTTP responses.
// This does not apply to the event stream, which stays open.
func WithWriteTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		h.writeTimeout = d
	}
}

// WithShutdownTimeout bounds how long Serve waits for in-flight requests
// after ctx is cancelled.
func WithShutdownTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		h.shutdownTimeout = d
	}
}

// WithHTTPDisconnectHook registers a callback invoked with the session's
// subscriber ID when its event stream closes.
func WithHTTPDisconnectHook(fn func(subscriberID string)) HTTPOption {
	return func(h *HTTP) {
		h.onDisconnect = fn
	}
}

// NewHTTP creates an HTTP transport listening on addr.
func NewHTTP(addr string, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		addr:            addr,
		readTimeout:     30 * time.Second,
		shutdownTimeout: 5 * time.Second,
		sessions:        make(map[string]*sseSession),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.shutdown = NewShutdownManager(ShutdownConfig{Timeout: h.shutdownTimeout})
	return h
}

// Addr returns the configured address.
func (h *HTTP) Addr() string {
	return h.addr
}

// ListenAddr returns the actual address the server is listening on.
func (h *HTTP) ListenAddr() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.listenAddr
}

// Serve starts the HTTP server and handles requests until ctx is cancelled.
func (h *HTTP) Serve(ctx context.Context, handler Handler) error {
	listener, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	h.mu.Lock()
	h.listenAddr = listener.Addr().String()
	h.server = &http.Server{
		Handler:     h.createHandler(handler),
		ReadTimeout: h.readTimeout,
	}
	h.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		if err := h.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()
		// Drain in-flight RPCs before closing listeners so responses
		// already being computed still go out.
		if err := h.shutdown.Shutdown(shutdownCtx); err != nil {
			_ = h.server.Close()
			return err
		}
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Deliver pushes a notification to every event stream addressed by targets.
func (h *HTTP) Deliver(method string, params any, targets []string) {
	data, err := encodeNotification(method, params)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, session := range h.sessions {
		if targeted(targets, id) {
			_ = session.send("message", string(data))
		}
	}
}

func (h *HTTP) createHandler(handler Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/mcp/sse", func(w http.ResponseWriter, r *http.Request) {
		h.handleSSE(w, r)
	})

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		h.handleRPC(w, r, handler)
	})

	if h.corsConfig != nil {
		return CORSHandler(*h.corsConfig, mux)
	}
	return mux
}

// handleRPC handles JSON-RPC requests over HTTP POST. A sessionID query
// parameter binds the request to an event stream's subscriber identity.
func (h *HTTP) handleRPC(w http.ResponseWriter, r *http.Request, handler Handler) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if !h.shutdown.TrackRequest() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	defer h.shutdown.CompleteRequest()

	w.Header().Set("Content-Type", "application/json")

	var req protocol.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp := protocol.NewErrorResponse(nil, protocol.NewParseError("invalid JSON"))
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	ctx := r.Context()
	if sessionID := r.URL.Query().Get("sessionID"); sessionID != "" {
		ctx = protocol.ContextWithSubscriber(ctx, sessionID)
	}

	resp, err := handler.HandleRequest(ctx, &req)
	if out := respond(&req, resp, err); out != nil {
		_ = json.NewEncoder(w).Encode(out)
	} else {
		w.WriteHeader(http.StatusAccepted)
	}
}

// handleSSE upgrades the connection to an event stream and keeps it open
// until the client disconnects. The first event names the session's request
// endpoint.
func (h *HTTP) handleSSE(w http.ResponseWriter, r *http.Request) {
	sess, err := sse.Upgrade(w, r)
	if err != nil {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	sessionID := uuid.NewString()
	session := &sseSession{sess: sess}

	h.mu.Lock()
	h.sessions[sessionID] = session
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.sessions, sessionID)
		h.mu.Unlock()
		if h.onDisconnect != nil {
			h.onDisconnect(sessionID)
		}
	}()

	if err := session.send("endpoint", "/mcp?sessionID="+sessionID); err != nil {
		return
	}

	<-r.Context().Done()
}
