package server

import (
	"encoding/json"
)

// Info contains server metadata exposed to clients during initialization.
type Info struct {
	Name    string
	Version string
}

// ClientNotificationFunc observes client-originated notifications such as
// notifications/initialized and notifications/cancelled. The hook is
// advisory: the core does not interrupt in-flight handlers on cancellation.
type ClientNotificationFunc func(method string, params json.RawMessage)

// ActivityFunc observes tool invocations as they are recorded.
type ActivityFunc func(ActivityEntry)

// Option configures a Server.
type Option func(*Server)

// WithDelivery installs the notification delivery function at construction
// time. Transports typically install theirs later via SetDelivery.
func WithDelivery(fn DeliveryFunc) Option {
	return func(s *Server) {
		s.router.SetDelivery(fn)
	}
}

// WithActivityCallback registers an observer for tool invocations.
func WithActivityCallback(fn ActivityFunc) Option {
	return func(s *Server) {
		s.onActivity = fn
	}
}

// WithClientNotificationCallback registers an observer for client-originated
// notifications.
func WithClientNotificationCallback(fn ClientNotificationFunc) Option {
	return func(s *Server) {
		s.onClientNotification = fn
	}
}

// WithActivityCap overrides the bound on retained activity entries.
func WithActivityCap(limit int) Option {
	return func(s *Server) {
		s.activity = NewActivityLog(limit)
	}
}

// Server owns one protocol core: a capability registry, a subscription
// ledger, a notification router, and an activity log. Servers are
// independent; no state is shared between instances.
type Server struct {
	info     Info
	registry *Registry
	ledger   *Ledger
	router   *Router
	activity *ActivityLog

	onActivity           ActivityFunc
	onClientNotification ClientNotificationFunc
}

// New creates a server with the given identity and options.
func New(info Info, opts ...Option) *Server {
	ledger := NewLedger()
	s := &Server{
		info:     info,
		registry: NewRegistry(),
		ledger:   ledger,
		router:   NewRouter(ledger),
		activity: NewActivityLog(DefaultActivityCap),
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Info returns the server identity.
func (s *Server) Info() Info {
	return s.info
}

// Registry returns the capability registry.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Ledger returns the subscription ledger.
func (s *Server) Ledger() *Ledger {
	return s.ledger
}

// Router returns the notification router.
func (s *Server) Router() *Router {
	return s.router
}

// Activity returns the activity log.
func (s *Server) Activity() *ActivityLog {
	return s.activity
}

// SetDelivery installs the transport's notification delivery function.
func (s *Server) SetDelivery(fn DeliveryFunc) {
	s.router.SetDelivery(fn)
}

// Dispatcher returns a dispatcher bound to this server. Transports call its
// HandleRequest for every inbound message.
func (s *Server) Dispatcher() *Dispatcher {
	return &Dispatcher{srv: s}
}

// Tool starts building a tool with the given name.
func (s *Server) Tool(name string) *ToolBuilder {
	return &ToolBuilder{
		tool:   &Tool{name: name},
		server: s,
	}
}

// Resource starts building a resource at the given concrete URI.
func (s *Server) Resource(uri string) *ResourceBuilder {
	return &ResourceBuilder{
		resource: &Resource{uri: uri},
		server:   s,
	}
}

// ResourceTemplate starts building a resource template for the given
// RFC 6570 pattern.
func (s *Server) ResourceTemplate(pattern string) *TemplateBuilder {
	return &TemplateBuilder{
		template: &ResourceTemplate{pattern: pattern},
		server:   s,
	}
}

// NotifyResourceUpdated pushes an update notification to the subscribers of
// a resource URI.
func (s *Server) NotifyResourceUpdated(uri string) {
	s.router.NotifyResourceUpdated(uri)
}

// NotifyResourceListChanged broadcasts that the set of resources changed.
func (s *Server) NotifyResourceListChanged() {
	s.router.NotifyResourceListChanged()
}

// NotifyToolListChanged broadcasts that the set of tools changed.
func (s *Server) NotifyToolListChanged() {
	s.router.NotifyToolListChanged()
}

// recordActivity appends to the log and feeds the observer callback.
func (s *Server) recordActivity(tool string, success bool, err error) {
	entry := s.activity.Record(tool, success, err)
	if s.onActivity != nil {
		s.onActivity(entry)
	}
}
