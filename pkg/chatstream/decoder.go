package chatstream

import (
	"errors"
	"fmt"
	"strings"
)

// Decoder folds an ordered frame sequence into a Message. It enforces the
// per-part state machine: tool parts move input-streaming, input-available,
// then one terminal state, and never move again. A stream cut before
// end-message leaves parts in their last non-terminal state so the caller
// can render them as in progress rather than failed.
var (
	ErrNoMessage        = errors.New("chatstream: frame received before begin-message")
	ErrMessageSealed    = errors.New("chatstream: frame received after end-message")
	ErrDuplicateBegin   = errors.New("chatstream: duplicate begin-message")
	ErrUnknownToolCall  = errors.New("chatstream: frame references unknown tool call")
	ErrStateRegression  = errors.New("chatstream: tool part state regression")
	ErrUnknownFrameType = errors.New("chatstream: unknown frame type")
)

type Decoder struct {
	msg    *Message
	sealed bool

	partIdx  map[string]int
	partials map[string]*strings.Builder
}

// NewDecoder returns a decoder ready for a begin-message frame.
func NewDecoder() *Decoder {
	return &Decoder{
		partIdx:  make(map[string]int),
		partials: make(map[string]*strings.Builder),
	}
}

// Message returns the message reconstructed so far. It is nil before the
// first begin-message frame.
func (d *Decoder) Message() *Message { return d.msg }

// Sealed reports whether end-message has been observed.
func (d *Decoder) Sealed() bool { return d.sealed }

// PartialInput returns the argument text streamed so far for a tool call
// whose input is not yet complete. UIs use it to render in-flight SQL.
func (d *Decoder) PartialInput(toolCallID string) string {
	if buf, ok := d.partials[toolCallID]; ok {
		return buf.String()
	}
	return ""
}

// Apply folds one frame into the message.
func (d *Decoder) Apply(frame Frame) error {
	if d.sealed {
		return ErrMessageSealed
	}

	switch frame.Type {
	case FrameBeginMessage:
		if d.msg != nil {
			return ErrDuplicateBegin
		}
		d.msg = &Message{ID: frame.MessageID, Role: frame.Role}
		return nil

	case FrameTextDelta:
		if d.msg == nil {
			return ErrNoMessage
		}
		d.appendText(frame.Delta)
		return nil

	case FrameToolInputDelta:
		if d.msg == nil {
			return ErrNoMessage
		}
		part, err := d.toolPart(frame.ToolCallID, frame.ToolName)
		if err != nil {
			return err
		}
		if part.State != ToolStateInputStreaming {
			return fmt.Errorf("%w: input delta for %s in state %s", ErrStateRegression, frame.ToolCallID, part.State)
		}
		d.partials[frame.ToolCallID].WriteString(frame.InputTextDelta)
		return nil

	case FrameToolInputComplete:
		if d.msg == nil {
			return ErrNoMessage
		}
		part, err := d.toolPart(frame.ToolCallID, frame.ToolName)
		if err != nil {
			return err
		}
		if part.State != ToolStateInputStreaming {
			return fmt.Errorf("%w: input complete for %s in state %s", ErrStateRegression, frame.ToolCallID, part.State)
		}
		part.State = ToolStateInputAvailable
		part.Input = frame.Input
		delete(d.partials, frame.ToolCallID)
		return nil

	case FrameToolOutput:
		if d.msg == nil {
			return ErrNoMessage
		}
		idx, ok := d.partIdx[frame.ToolCallID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownToolCall, frame.ToolCallID)
		}
		part := &d.msg.Parts[idx]
		if part.State != ToolStateInputAvailable {
			return fmt.Errorf("%w: output for %s in state %s", ErrStateRegression, frame.ToolCallID, part.State)
		}
		if frame.ErrorText != "" {
			part.State = ToolStateOutputError
			part.ErrorText = frame.ErrorText
		} else {
			part.State = ToolStateOutputAvailable
			part.Output = frame.Output
		}
		return nil

	case FrameEndMessage:
		if d.msg == nil {
			return ErrNoMessage
		}
		d.sealed = true
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownFrameType, frame.Type)
	}
}

// appendText extends the trailing text part, or opens a new one when the
// previous part was a tool invocation. This preserves the interleaving the
// model produced.
func (d *Decoder) appendText(delta string) {
	if n := len(d.msg.Parts); n > 0 && d.msg.Parts[n-1].Type == PartTypeText {
		d.msg.Parts[n-1].Text += delta
		return
	}
	d.msg.Parts = append(d.msg.Parts, Part{Type: PartTypeText, Text: delta})
}

// toolPart returns the part for the call, creating it in input-streaming
// state on first sight. A fast tool may collapse straight to
// tool-input-complete without any delta frames; creation handles both paths.
func (d *Decoder) toolPart(toolCallID, toolName string) (*Part, error) {
	if idx, ok := d.partIdx[toolCallID]; ok {
		return &d.msg.Parts[idx], nil
	}
	d.msg.Parts = append(d.msg.Parts, Part{
		Type:       ToolPartType(toolName),
		ToolCallID: toolCallID,
		ToolName:   toolName,
		State:      ToolStateInputStreaming,
	})
	d.partIdx[toolCallID] = len(d.msg.Parts) - 1
	d.partials[toolCallID] = &strings.Builder{}
	return &d.msg.Parts[len(d.msg.Parts)-1], nil
}

// Decode replays a complete frame log into a message. Replaying the same log
// again yields an identical message.
func Decode(frames []Frame) (*Message, error) {
	d := NewDecoder()
	for _, frame := range frames {
		if err := d.Apply(frame); err != nil {
			return nil, err
		}
	}
	if d.msg == nil {
		return nil, ErrNoMessage
	}
	return d.msg, nil
}
