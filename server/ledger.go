package server

import (
	"sort"
	"sync"
)

// Ledger tracks which subscribers want updates for which resource URIs.
// Subscribe and Unsubscribe are idempotent, and a URI's entry is removed
// entirely once its last subscriber leaves, so the ledger never holds
// empty sets.
type Ledger struct {
	mu            sync.RWMutex
	subscriptions map[string]map[string]struct{} // URI -> set of subscriber IDs
}

// NewLedger creates an empty subscription ledger.
func NewLedger() *Ledger {
	return &Ledger{
		subscriptions: make(map[string]map[string]struct{}),
	}
}

// Subscribe records a subscriber's interest in a resource URI.
func (l *Ledger) Subscribe(uri, subscriberID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.subscriptions[uri] == nil {
		l.subscriptions[uri] = make(map[string]struct{})
	}
	l.subscriptions[uri][subscriberID] = struct{}{}
}

// Unsubscribe removes a subscriber's interest in a resource URI.
// Unsubscribing a non-member is a no-op.
func (l *Ledger) Unsubscribe(uri, subscriberID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if subs, ok := l.subscriptions[uri]; ok {
		delete(subs, subscriberID)
		if len(subs) == 0 {
			delete(l.subscriptions, uri)
		}
	}
}

// UnsubscribeAll removes every subscription held by a subscriber, typically
// on connection teardown.
func (l *Ledger) UnsubscribeAll(subscriberID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for uri, subs := range l.subscriptions {
		delete(subs, subscriberID)
		if len(subs) == 0 {
			delete(l.subscriptions, uri)
		}
	}
}

// Subscribers returns the subscriber IDs for a URI, sorted for
// deterministic delivery order. The result may be empty but never nil-vs-
// present ambiguous: an unknown URI yields an empty slice.
func (l *Ledger) Subscribers(uri string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	subs := l.subscriptions[uri]
	result := make([]string, 0, len(subs))
	for id := range subs {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}

// HasSubscribers reports whether any subscriber is registered for the URI.
func (l *Ledger) HasSubscribers(uri string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.subscriptions[uri]) > 0
}

// IsSubscribed reports whether the subscriber is registered for the URI.
func (l *Ledger) IsSubscribed(uri, subscriberID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if subs, ok := l.subscriptions[uri]; ok {
		_, subscribed := subs[subscriberID]
		return subscribed
	}
	return false
}

// Count returns the total number of (URI, subscriber) pairs.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	count := 0
	for _, subs := range l.subscriptions {
		count += len(subs)
	}
	return count
}
