// Package protocol defines the JSON-RPC 2.0 envelope and the MCP error
// taxonomy shared by the dispatcher, the transports, and the middleware.
//
// Requests, responses, and notifications are carried as typed structs with
// json.RawMessage payloads so that transports can frame messages without
// knowing their contents. Errors are represented by *Error, which carries a
// JSON-RPC error code and implements the standard error interface; use
// errors.As to recover a typed protocol error from a handler failure and
// errors.Is to compare by code.
//
// Error codes follow the JSON-RPC 2.0 convention: the reserved range
// -32700..-32600 for envelope failures, -32601..-32603 for dispatch
// failures, and server-defined codes below -32000 for MCP-specific
// conditions such as a missing resource. Tool handlers may return their own
// codes below -32000.
package protocol
