package agent

import (
	"strings"

	"metrofleet/analyst-api/internal/domain/llm"
)

// streamEvents carries the live callbacks the accumulator fires while
// folding deltas. Either field may be nil.
type streamEvents struct {
	onTextDelta      func(delta string)
	onToolInputDelta func(callID, toolName, delta string)
}

// partialCall is one tool call under assembly from streamed fragments.
type partialCall struct {
	id        string
	typ       string
	name      string
	arguments strings.Builder
}

// accumulator folds streaming chat completion deltas into the final
// assistant message. Tool call fragments are attributed by their delta
// index when present, falling back to the call ID.
type accumulator struct {
	text   strings.Builder
	order  []int
	calls  map[int]*partialCall
	byID   map[string]int
	finish string
	events streamEvents
}

func newAccumulator(events streamEvents) *accumulator {
	return &accumulator{
		calls:  make(map[int]*partialCall),
		byID:   make(map[string]int),
		events: events,
	}
}

// apply folds one streaming chunk. Only the first choice is consumed; the
// loop never requests multiple completions.
func (a *accumulator) apply(delta *llm.ChatCompletionDelta) {
	if delta == nil || len(delta.Choices) == 0 {
		return
	}
	choice := delta.Choices[0]

	if content, ok := choice.Delta.Content.(string); ok && content != "" {
		a.text.WriteString(content)
		if a.events.onTextDelta != nil {
			a.events.onTextDelta(content)
		}
	}

	for _, tc := range choice.Delta.ToolCalls {
		a.applyToolCall(tc)
	}

	if choice.FinishReason != "" {
		a.finish = choice.FinishReason
	}
}

func (a *accumulator) applyToolCall(tc llm.ToolCall) {
	key, ok := a.keyFor(tc)
	if !ok {
		key = len(a.order)
	}

	call, exists := a.calls[key]
	if !exists {
		call = &partialCall{}
		a.calls[key] = call
		a.order = append(a.order, key)
	}

	if tc.ID != "" {
		call.id = tc.ID
		a.byID[tc.ID] = key
	}
	if tc.Type != "" {
		call.typ = tc.Type
	}
	if tc.Function.Name != "" {
		call.name = tc.Function.Name
	}
	if tc.Function.Arguments != "" {
		call.arguments.WriteString(tc.Function.Arguments)
		if a.events.onToolInputDelta != nil {
			a.events.onToolInputDelta(call.id, call.name, tc.Function.Arguments)
		}
	}
}

func (a *accumulator) keyFor(tc llm.ToolCall) (int, bool) {
	if tc.Index != nil {
		return *tc.Index, true
	}
	if tc.ID != "" {
		if key, ok := a.byID[tc.ID]; ok {
			return key, true
		}
	}
	return 0, false
}

// message materializes the accumulated assistant message.
func (a *accumulator) message() llm.ChatMessage {
	msg := llm.ChatMessage{Role: "assistant"}
	if a.text.Len() > 0 {
		msg.Content = a.text.String()
	}
	for _, key := range a.order {
		call := a.calls[key]
		typ := call.typ
		if typ == "" {
			typ = "function"
		}
		msg.ToolCalls = append(msg.ToolCalls, llm.ToolCall{
			ID:   call.id,
			Type: typ,
			Function: llm.ToolFunction{
				Name:      call.name,
				Arguments: call.arguments.String(),
			},
		})
	}
	return msg
}

func (a *accumulator) finalText() string {
	return a.text.String()
}
