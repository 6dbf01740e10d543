package chatstream

import "encoding/json"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// PartType discriminates the part union. Tool parts carry the tool name in
// the type, e.g. "tool-runQuery", matching the HTTP contract consumed by the
// analyst UI.
type PartType string

const PartTypeText PartType = "text"

const toolPartPrefix = "tool-"

// ToolPartType returns the part type for an invocation of the named tool.
func ToolPartType(toolName string) PartType {
	return PartType(toolPartPrefix + toolName)
}

// IsTool reports whether the part type describes a tool invocation.
func (t PartType) IsTool() bool {
	return len(t) > len(toolPartPrefix) && t[:len(toolPartPrefix)] == toolPartPrefix
}

// ToolState is the lifecycle of one tool invocation as observed by clients.
// Transitions are strictly forward: input-streaming, input-available, then
// exactly one of output-available or output-error.
type ToolState string

const (
	ToolStateInputStreaming  ToolState = "input-streaming"
	ToolStateInputAvailable  ToolState = "input-available"
	ToolStateOutputAvailable ToolState = "output-available"
	ToolStateOutputError     ToolState = "output-error"
)

// Terminal reports whether no further transitions are allowed.
func (s ToolState) Terminal() bool {
	return s == ToolStateOutputAvailable || s == ToolStateOutputError
}

// Part is one atomic unit of message content: either a text span or a tool
// invocation record. Exactly one variant is populated, selected by Type.
type Part struct {
	Type PartType `json:"type"`

	// Text part.
	Text string `json:"text,omitempty"`

	// Tool part.
	ToolCallID string          `json:"toolCallId,omitempty"`
	ToolName   string          `json:"toolName,omitempty"`
	State      ToolState       `json:"state,omitempty"`
	Input      json.RawMessage `json:"input,omitempty"`
	Output     json.RawMessage `json:"output,omitempty"`
	ErrorText  string          `json:"errorText,omitempty"`
}

// Message is an ordered sequence of parts produced by one role. Assistant
// messages are built incrementally while streaming and sealed by the
// end-message frame.
type Message struct {
	ID    string `json:"id"`
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
}

// Text concatenates the text parts of the message in order.
func (m *Message) Text() string {
	var out string
	for _, p := range m.Parts {
		if p.Type == PartTypeText {
			out += p.Text
		}
	}
	return out
}
