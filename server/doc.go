// Package server implements the MCP protocol core: the capability registry,
// the request dispatcher, the subscription ledger, the notification router,
// and the activity log.
//
// A Server owns one instance of each component; servers are fully
// independent of each other and hold no global state. Transports drive a
// Server through its Dispatcher:
//
//	srv := server.New(server.Info{Name: "demo", Version: "1.0.0"})
//
//	srv.Tool("add").
//	    Description("Add two numbers").
//	    InputSchema(&schema.Object{
//	        Properties: map[string]schema.Schema{
//	            "a": &schema.Number{},
//	            "b": &schema.Number{},
//	        },
//	        Required: []string{"a", "b"},
//	    }).
//	    Handler(func(ctx context.Context, args map[string]any) (server.ToolResult, error) {
//	        sum := args["a"].(float64) + args["b"].(float64)
//	        return server.PlainText(fmt.Sprintf(`{"sum":%v}`, sum)), nil
//	    })
//
//	d := srv.Dispatcher()
//	resp, err := d.HandleRequest(ctx, req)
//
// Server-initiated pushes go the other way: application code calls the
// notify methods on the Server, which consult the subscription ledger and
// hand delivery to the callback the active transport registered.
package server
