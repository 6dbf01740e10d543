package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"metrofleet/analyst-api/internal/domain/llm"
	"metrofleet/analyst-api/internal/domain/query"
)

// Call encapsulates one tool invocation requested by the model.
type Call struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Outcome is the terminal state of one invocation. ErrorText marks an
// invocation fault (schema-invalid input, unexpected panic): the
// output-error case. Otherwise Result carries the declared payload, which
// may itself be a business-level {error}. A guard rejection or store
// failure is output-available with an error payload, not a fault.
type Outcome struct {
	Result    *query.Result
	ErrorText string
}

// Failed reports whether the invocation itself faulted.
func (o Outcome) Failed() bool {
	return o.ErrorText != ""
}

// Payload renders the outcome as the JSON fed back to the model and onto
// the wire.
func (o Outcome) Payload() json.RawMessage {
	if o.Failed() {
		data, _ := json.Marshal(map[string]string{"error": o.ErrorText})
		return data
	}
	data, err := json.Marshal(o.Result)
	if err != nil {
		fallback, _ := json.Marshal(map[string]string{"error": fmt.Sprintf("encode tool result: %v", err)})
		return fallback
	}
	return data
}

// Binding exposes one invocable capability with a declared input schema and
// output contract. Implementations own per-invocation error capture: Invoke
// never panics past the boundary and never returns a Go error.
type Binding interface {
	Name() string
	Definition() llm.ToolDefinition
	Invoke(ctx context.Context, arguments json.RawMessage) Outcome
}

// Registry holds the bindings offered to the model for a turn.
type Registry struct {
	order    []string
	bindings map[string]Binding
}

// NewRegistry indexes the given bindings by name, preserving order.
func NewRegistry(bindings ...Binding) *Registry {
	r := &Registry{bindings: make(map[string]Binding, len(bindings))}
	for _, b := range bindings {
		if _, exists := r.bindings[b.Name()]; exists {
			continue
		}
		r.bindings[b.Name()] = b
		r.order = append(r.order, b.Name())
	}
	return r
}

// Definitions lists the tool declarations passed to the model.
func (r *Registry) Definitions() []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.bindings[name].Definition())
	}
	return defs
}

// Invoke dispatches a call to its binding. An unknown tool name is an
// invocation fault, not a transport error.
func (r *Registry) Invoke(ctx context.Context, call Call) Outcome {
	binding, ok := r.bindings[call.Name]
	if !ok {
		return Outcome{ErrorText: fmt.Sprintf("unknown tool: %s", call.Name)}
	}
	return binding.Invoke(ctx, call.Arguments)
}

// ParseToolCall converts a model-provided tool call into the domain Call.
func ParseToolCall(call llm.ToolCall) Call {
	return Call{
		ID:        call.ID,
		Name:      call.Function.Name,
		Arguments: json.RawMessage(call.Function.Arguments),
	}
}
