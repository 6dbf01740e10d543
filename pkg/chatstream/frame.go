package chatstream

import "encoding/json"

// FrameType names one unit of the wire stream.
type FrameType string

const (
	FrameBeginMessage      FrameType = "begin-message"
	FrameTextDelta         FrameType = "text-delta"
	FrameToolInputDelta    FrameType = "tool-input-delta"
	FrameToolInputComplete FrameType = "tool-input-complete"
	FrameToolOutput        FrameType = "tool-output"
	FrameEndMessage        FrameType = "end-message"
)

// Frame carries one incremental update to a message. Frames for different
// tool call IDs may interleave with each other and with text deltas; frames
// for the same ID are strictly ordered.
type Frame struct {
	Type FrameType `json:"type"`

	// begin-message / text-delta / end-message.
	MessageID string `json:"messageId,omitempty"`
	Role      Role   `json:"role,omitempty"`
	Delta     string `json:"delta,omitempty"`

	// tool-input-delta / tool-input-complete / tool-output.
	ToolCallID     string          `json:"toolCallId,omitempty"`
	ToolName       string          `json:"toolName,omitempty"`
	InputTextDelta string          `json:"inputTextDelta,omitempty"`
	Input          json.RawMessage `json:"input,omitempty"`
	Output         json.RawMessage `json:"output,omitempty"`
	ErrorText      string          `json:"errorText,omitempty"`
}

// BeginMessage starts an assistant (or other role) message on the stream.
func BeginMessage(messageID string, role Role) Frame {
	return Frame{Type: FrameBeginMessage, MessageID: messageID, Role: role}
}

// TextDelta appends a chunk of answer text to the current message.
func TextDelta(messageID, delta string) Frame {
	return Frame{Type: FrameTextDelta, MessageID: messageID, Delta: delta}
}

// ToolInputDelta streams a chunk of the tool call arguments as the model
// emits them.
func ToolInputDelta(toolCallID, toolName, delta string) Frame {
	return Frame{Type: FrameToolInputDelta, ToolCallID: toolCallID, ToolName: toolName, InputTextDelta: delta}
}

// ToolInputComplete marks the tool input as fully decoded.
func ToolInputComplete(toolCallID, toolName string, input json.RawMessage) Frame {
	return Frame{Type: FrameToolInputComplete, ToolCallID: toolCallID, ToolName: toolName, Input: input}
}

// ToolOutput delivers the terminal result of a tool invocation. A non-empty
// errorText marks an invocation fault (output-error); otherwise output holds
// the tool's payload, which may itself describe a business-level error.
func ToolOutput(toolCallID string, output json.RawMessage, errorText string) Frame {
	return Frame{Type: FrameToolOutput, ToolCallID: toolCallID, Output: output, ErrorText: errorText}
}

// EndMessage seals the message.
func EndMessage(messageID string) Frame {
	return Frame{Type: FrameEndMessage, MessageID: messageID}
}
