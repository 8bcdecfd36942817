package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/weftlabs/mcpcore/protocol"
)

// Stdio speaks line-delimited JSON-RPC over stdin/stdout. A stdio process
// serves exactly one client, so all notifications addressed to the default
// subscriber are written to stdout.
type Stdio struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	mu sync.Mutex
}

// StdioOption configures a Stdio transport.
type StdioOption func(*Stdio)

// WithStdin sets a custom stdin reader.
func WithStdin(r io.Reader) StdioOption {
	return func(s *Stdio) {
		s.in = r
	}
}

// WithStdout sets a custom stdout writer.
func WithStdout(w io.Writer) StdioOption {
	return func(s *Stdio) {
		s.out = w
	}
}

// WithStderr sets a custom stderr writer.
func WithStderr(w io.Writer) StdioOption {
	return func(s *Stdio) {
		s.errOut = w
	}
}

// NewStdio creates a stdio transport bound to the process streams.
func NewStdio(opts ...StdioOption) *Stdio {
	s := &Stdio{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the transport address.
func (s *Stdio) Addr() string {
	return "stdio"
}

// Serve reads requests line by line until EOF or ctx is cancelled.
func (s *Stdio) Serve(ctx context.Context, handler Handler) error {
	scanner := bufio.NewScanner(s.in)

	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			scanErr <- err
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-scanErr:
			return err
		case line, ok := <-lines:
			if !ok {
				return nil // EOF
			}
			s.handleLine(ctx, handler, line)
		}
	}
}

// Deliver writes a notification to stdout. The single client holds the
// default subscriber ID; a targeted delivery that does not address it is
// dropped.
func (s *Stdio) Deliver(method string, params any, targets []string) {
	if !targeted(targets, protocol.DefaultSubscriberID) {
		return
	}
	data, err := encodeNotification(method, params)
	if err != nil {
		return
	}
	s.writeLine(data)
}

func (s *Stdio) handleLine(ctx context.Context, handler Handler, line string) {
	var req protocol.Request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		s.writeResponse(protocol.NewErrorResponse(nil, protocol.NewParseError(err.Error())))
		return
	}

	resp, err := handler.HandleRequest(ctx, &req)
	if out := respond(&req, resp, err); out != nil {
		s.writeResponse(out)
	}
}

func (s *Stdio) writeResponse(resp *protocol.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	s.writeLine(data)
}

func (s *Stdio) writeLine(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.out.Write(data)
	_, _ = s.out.Write([]byte("\n"))
}
