// Package agent runs the bounded reasoning loop between the model and the
// tool registry.
package agent

import (
	"time"

	"metrofleet/analyst-api/internal/domain/llm"
	"metrofleet/analyst-api/internal/domain/tool"
)

// Default loop bounds, overridable per turn through Params.
const (
	DefaultMaxSteps    = 5
	DefaultTurnTimeout = 30 * time.Second
)

// StopReason explains why a turn ended. Only StopCompleted means the model
// produced a natural final answer; the others are forced stops, which are
// still clean turn results, never errors.
type StopReason string

const (
	StopCompleted StopReason = "completed"
	StopMaxSteps  StopReason = "max-steps"
	StopDeadline  StopReason = "deadline"
	StopCancelled StopReason = "cancelled"
)

// Observer receives turn progress as it happens. All callbacks are invoked
// from a single goroutine in event order; implementations need no locking.
// Events for one tool call always arrive as input deltas, then the call,
// then its outcome.
type Observer interface {
	OnTextDelta(delta string)
	OnToolInputDelta(callID, toolName, delta string)
	OnToolCall(call tool.Call)
	OnToolOutcome(callID string, outcome tool.Outcome)
}

// Params configures one turn of the loop.
type Params struct {
	Model    string
	Messages []llm.ChatMessage
	Tools    *tool.Registry
	MaxSteps int
	Timeout  time.Duration
	Observer Observer
}

// Execution records one completed tool invocation within a turn.
type Execution struct {
	Step    int
	Call    tool.Call
	Outcome tool.Outcome
}

// TurnResult is the final state of a turn. Messages holds the full
// transcript including assistant and tool messages appended by the loop.
type TurnResult struct {
	Messages   []llm.ChatMessage
	FinalText  string
	StopReason StopReason
	Steps      int
	Executions []Execution
}
