package protocol

import "context"

// DefaultSubscriberID is the subscriber identity used when a transport does
// not distinguish connections, such as stdio.
const DefaultSubscriberID = "default"

// subscriberKey is the context key for the subscriber identifier.
type subscriberKey struct{}

// ContextWithSubscriber returns a context carrying the subscriber identifier
// for the current connection. Transports attach this before handing a request
// to the dispatcher so that resources/subscribe can target notifications.
func ContextWithSubscriber(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, subscriberKey{}, id)
}

// SubscriberFromContext returns the subscriber identifier from the context,
// falling back to DefaultSubscriberID when the transport did not set one.
func SubscriberFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(subscriberKey{}).(string); ok && id != "" {
		return id
	}
	return DefaultSubscriberID
}

// requestMetaKey is the context key for request metadata.
type requestMetaKey struct{}

// RequestMeta holds transport-level metadata associated with a request,
// typically HTTP headers.
type RequestMeta map[string]string

// ContextWithRequestMeta returns a new context with the request metadata attached.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext returns the request metadata from the context, or
// nil if none is present.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if meta, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return meta
	}
	return nil
}
