package mcpcore_test

import (
	"context"
	"fmt"

	"github.com/weftlabs/mcpcore"
	"github.com/weftlabs/mcpcore/uritemplate"
)

// Example demonstrates building a server with a typed tool, a static
// resource, and a templated resource.
func Example() {
	srv := mcpcore.NewServer(mcpcore.ServerInfo{
		Name:    "example-server",
		Version: "1.0.0",
	})

	type SearchInput struct {
		Query string `json:"query" jsonschema:"required"`
		Limit int    `json:"limit" jsonschema:"maximum=100"`
	}

	srv.Tool("search").
		Description("Search for documents").
		TypedHandler(func(ctx context.Context, input SearchInput) ([]string, error) {
			return []string{"result1", "result2"}, nil
		})

	srv.Resource("config://app").
		Name("Configuration").
		MimeType("application/json").
		Text(`{"debug": false}`)

	srv.ResourceTemplate("users://{id}").
		Name("User").
		MimeType("application/json").
		Reader(func(ctx context.Context, uri string, params uritemplate.Values) (any, error) {
			return fmt.Sprintf(`{"id": %q}`, params.Get("id")), nil
		})

	content, err := srv.Registry().ReadResource(context.Background(), "users://42")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(content.Text)
	// Output: {"id": "42"}
}

// ExampleServer_NotifyResourceUpdated shows subscription-scoped change
// notifications.
func ExampleServer_NotifyResourceUpdated() {
	srv := mcpcore.NewServer(mcpcore.ServerInfo{
		Name:    "watcher",
		Version: "1.0.0",
	})

	srv.SetDelivery(func(method string, params any, targets []string) {
		fmt.Printf("%s -> %v\n", method, targets)
	})

	srv.Ledger().Subscribe("file:///tmp/a.txt", "conn-1")
	srv.NotifyResourceUpdated("file:///tmp/a.txt")

	// No subscribers for this one, so nothing is delivered.
	srv.NotifyResourceUpdated("file:///tmp/b.txt")

	// Output: notifications/resources/updated -> [conn-1]
}
