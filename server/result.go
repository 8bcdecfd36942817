package server

// ContentItem is one element of a tool result's content list.
type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// TextItem creates a text content item.
func TextItem(text string) ContentItem {
	return ContentItem{Type: "text", Text: text}
}

// ToolResult is the closed set of shapes a tool handler may return. The
// dispatcher normalizes each variant into the wire-level content array:
// PlainText wraps into a single text item, ContentList is used as the
// content list directly, and FullResult passes through unchanged, keeping
// its isError flag.
type ToolResult interface {
	toolResult()
}

// PlainText is a bare string result.
type PlainText string

func (PlainText) toolResult() {}

// ContentList is a result that is already a list of content items.
type ContentList []ContentItem

func (ContentList) toolResult() {}

// FullResult is a complete tool result, including the error flag used to
// signal a tool-level failure that is not a protocol error.
type FullResult struct {
	Content []ContentItem `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

func (FullResult) toolResult() {}
