package testutil

import (
	"sync"
)

// Delivery is one captured server notification.
type Delivery struct {
	Method  string
	Params  any
	Targets []string
}

// NotificationRecorder captures outbound notifications in place of a
// transport. Wire it with srv.SetDelivery(rec.Deliver).
type NotificationRecorder struct {
	mu         sync.Mutex
	deliveries []Delivery
}

// NewNotificationRecorder creates an empty recorder.
func NewNotificationRecorder() *NotificationRecorder {
	return &NotificationRecorder{}
}

// Deliver records a notification. It satisfies server.DeliveryFunc.
func (r *NotificationRecorder) Deliver(method string, params any, targets []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var copied []string
	if targets != nil {
		copied = append([]string(nil), targets...)
	}
	r.deliveries = append(r.deliveries, Delivery{
		Method:  method,
		Params:  params,
		Targets: copied,
	})
}

// Deliveries returns a copy of everything recorded so far.
func (r *NotificationRecorder) Deliveries() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Delivery(nil), r.deliveries...)
}

// ByMethod returns the recorded deliveries for one notification method.
func (r *NotificationRecorder) ByMethod(method string) []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Delivery
	for _, d := range r.deliveries {
		if d.Method == method {
			out = append(out, d)
		}
	}
	return out
}

// Reset discards all recorded deliveries.
func (r *NotificationRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = nil
}
