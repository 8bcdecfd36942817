package server

import (
	"sync"

	"github.com/weftlabs/mcpcore/protocol"
)

// DeliveryFunc delivers a server-originated notification. A nil target set
// means broadcast to every connected client; otherwise delivery is limited
// to the listed subscriber IDs. Transports register exactly one delivery
// function; delivery is best-effort and at-most-once per target.
type DeliveryFunc func(method string, params any, targets []string)

// Router fans server-originated notifications out to connected targets. It
// performs no buffering or retry: each notify call invokes the delivery
// function synchronously at most once.
type Router struct {
	mu      sync.RWMutex
	deliver DeliveryFunc
	ledger  *Ledger
}

// NewRouter creates a router backed by the given subscription ledger.
func NewRouter(ledger *Ledger) *Router {
	return &Router{ledger: ledger}
}

// SetDelivery installs the delivery function. Passing nil silences the
// router.
func (r *Router) SetDelivery(fn DeliveryFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliver = fn
}

func (r *Router) delivery() DeliveryFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.deliver
}

// Notify broadcasts a notification to all connected targets.
func (r *Router) Notify(method string, params any) {
	if deliver := r.delivery(); deliver != nil {
		deliver(method, params, nil)
	}
}

// NotifyTargeted delivers a notification to the given targets only. An
// empty target set is a no-op.
func (r *Router) NotifyTargeted(method string, params any, targets []string) {
	if len(targets) == 0 {
		return
	}
	if deliver := r.delivery(); deliver != nil {
		deliver(method, params, targets)
	}
}

// NotifyResourceUpdated tells the subscribers of a URI that its content
// changed. Nothing is delivered when the URI has no subscribers.
func (r *Router) NotifyResourceUpdated(uri string) {
	targets := r.ledger.Subscribers(uri)
	r.NotifyTargeted(protocol.MethodResourceUpdated, map[string]any{"uri": uri}, targets)
}

// NotifyResourceListChanged broadcasts that the set of resources changed.
func (r *Router) NotifyResourceListChanged() {
	r.Notify(protocol.MethodResourceListChanged, nil)
}

// NotifyToolListChanged broadcasts that the set of tools changed.
func (r *Router) NotifyToolListChanged() {
	r.Notify(protocol.MethodToolListChanged, nil)
}

// NotifyProgress reports progress for a long-running operation. When a
// target is given, delivery is limited to that subscriber; otherwise the
// update is broadcast.
func (r *Router) NotifyProgress(token string, progress float64, total *float64, target string) {
	params := map[string]any{
		"progressToken": token,
		"progress":      progress,
	}
	if total != nil {
		params["total"] = *total
	}

	if target != "" {
		r.NotifyTargeted(protocol.MethodProgress, params, []string{target})
		return
	}
	r.Notify(protocol.MethodProgress, params)
}
