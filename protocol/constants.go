package protocol

// MCPVersion is the protocol revision advertised during initialization.
const MCPVersion = "2024-11-05"

// Request methods handled by the dispatcher.
const (
	MethodInitialize             = "initialize"
	MethodToolsList              = "tools/list"
	MethodToolsCall              = "tools/call"
	MethodResourcesList          = "resources/list"
	MethodResourcesTemplatesList = "resources/templates/list"
	MethodResourcesRead          = "resources/read"
	MethodResourcesSubscribe     = "resources/subscribe"
	MethodResourcesUnsubscribe   = "resources/unsubscribe"
	MethodPing                   = "ping"
)

// Client-originated notification methods. These are advisory: the dispatcher
// forwards them to an optional callback and returns an empty result.
const (
	MethodInitialized      = "notifications/initialized"
	MethodCancelled        = "notifications/cancelled"
	MethodRootsListChanged = "notifications/roots/list_changed"
)

// Server-originated notification methods.
const (
	MethodResourceUpdated     = "notifications/resources/updated"
	MethodResourceListChanged = "notifications/resources/list_changed"
	MethodToolListChanged     = "notifications/tools/list_changed"
	MethodProgress            = "notifications/progress"
)
