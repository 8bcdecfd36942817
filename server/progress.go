package server

import (
	"context"
	"encoding/json"
)

// ProgressToken identifies a long-running request for progress reporting.
type ProgressToken string

// ProgressReporter lets tool handlers report progress for long-running
// operations. Updates are routed to the caller's connection when the
// transport distinguishes connections, and broadcast otherwise.
type ProgressReporter interface {
	// Report sends a progress update. Progress should increase with each call.
	Report(progress float64, total *float64)
	// Token returns the progress token, or empty when none was requested.
	Token() ProgressToken
}

type progressReporter struct {
	token  ProgressToken
	router *Router
	target string
}

func (p *progressReporter) Token() ProgressToken {
	return p.token
}

func (p *progressReporter) Report(progress float64, total *float64) {
	if p.token == "" {
		return
	}
	p.router.NotifyProgress(string(p.token), progress, total, p.target)
}

// progressContextKey is the context key for the progress reporter.
type progressContextKey struct{}

// ContextWithProgress returns a context with the progress reporter attached.
func ContextWithProgress(ctx context.Context, reporter ProgressReporter) context.Context {
	return context.WithValue(ctx, progressContextKey{}, reporter)
}

// ProgressFromContext returns the progress reporter from context, or a
// no-op reporter if the request carried no progress token.
func ProgressFromContext(ctx context.Context) ProgressReporter {
	if reporter, ok := ctx.Value(progressContextKey{}).(ProgressReporter); ok {
		return reporter
	}
	return noopProgressReporter{}
}

type noopProgressReporter struct{}

func (noopProgressReporter) Report(_ float64, _ *float64) {}
func (noopProgressReporter) Token() ProgressToken         { return "" }

// extractProgressToken pulls the progress token out of a request's _meta.
func extractProgressToken(params json.RawMessage) ProgressToken {
	if params == nil {
		return ""
	}

	var meta struct {
		Meta struct {
			ProgressToken string `json:"progressToken"`
		} `json:"_meta"`
	}
	if err := json.Unmarshal(params, &meta); err != nil {
		return ""
	}
	return ProgressToken(meta.Meta.ProgressToken)
}
