package agent

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"metrofleet/analyst-api/internal/domain/llm"
	"metrofleet/analyst-api/internal/domain/tool"
)

// Loop drives the model through bounded reason/act steps. Each step streams
// one completion; tool calls within a step run concurrently, and the turn
// ends on a natural answer, the step cap, the turn deadline, or caller
// cancellation.
type Loop struct {
	provider llm.Provider
	log      zerolog.Logger
}

// NewLoop builds the loop around a model provider.
func NewLoop(provider llm.Provider, log zerolog.Logger) *Loop {
	return &Loop{
		provider: provider,
		log:      log.With().Str("component", "agent-loop").Logger(),
	}
}

// Run executes one turn. A forced stop (deadline, cancellation, step cap)
// is a clean TurnResult, not an error; errors are reserved for provider
// failures outside the caller's control knobs.
func (l *Loop) Run(ctx context.Context, params Params) (*TurnResult, error) {
	maxSteps := params.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = DefaultTurnTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	messages := append([]llm.ChatMessage(nil), params.Messages...)
	result := &TurnResult{StopReason: StopMaxSteps}

	for step := 1; step <= maxSteps; step++ {
		if reason, stopped := forcedStop(ctx); stopped {
			result.StopReason = reason
			break
		}
		result.Steps = step

		msg, text, err := l.streamStep(ctx, params, messages)
		if err != nil {
			if reason, stopped := forcedStop(ctx); stopped {
				l.log.Info().Str("stop_reason", string(reason)).Int("step", step).Msg("turn stopped mid-stream")
				result.StopReason = reason
				break
			}
			return nil, err
		}

		messages = append(messages, msg)

		if len(msg.ToolCalls) == 0 {
			result.FinalText = text
			result.StopReason = StopCompleted
			break
		}

		calls := make([]tool.Call, 0, len(msg.ToolCalls))
		for _, tc := range msg.ToolCalls {
			call := tool.ParseToolCall(tc)
			calls = append(calls, call)
			if params.Observer != nil {
				params.Observer.OnToolCall(call)
			}
		}

		outcomes := l.fanOut(ctx, params.Tools, calls)

		// Tool messages are appended in call order so the transcript stays
		// deterministic regardless of completion order.
		for i, call := range calls {
			outcome := outcomes[i]
			callID := call.ID
			messages = append(messages, llm.ChatMessage{
				Role:       "tool",
				Content:    string(outcome.Payload()),
				ToolCallID: &callID,
			})
			result.Executions = append(result.Executions, Execution{Step: step, Call: call, Outcome: outcome})
			if params.Observer != nil {
				params.Observer.OnToolOutcome(call.ID, outcome)
			}
		}

		if reason, stopped := forcedStop(ctx); stopped {
			result.StopReason = reason
			break
		}
	}

	result.Messages = messages
	l.log.Info().
		Str("stop_reason", string(result.StopReason)).
		Int("steps", result.Steps).
		Int("tool_calls", len(result.Executions)).
		Msg("turn finished")
	return result, nil
}

// streamStep streams one completion, forwarding text and tool input deltas
// to the observer as they arrive.
func (l *Loop) streamStep(ctx context.Context, params Params, messages []llm.ChatMessage) (llm.ChatMessage, string, error) {
	req := llm.ChatCompletionRequest{
		Model:    params.Model,
		Messages: messages,
		Stream:   true,
	}
	if params.Tools != nil {
		req.Tools = params.Tools.Definitions()
	}

	stream, err := l.provider.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return llm.ChatMessage{}, "", err
	}
	defer stream.Close()

	events := streamEvents{}
	if params.Observer != nil {
		events.onTextDelta = params.Observer.OnTextDelta
		events.onToolInputDelta = params.Observer.OnToolInputDelta
	}
	acc := newAccumulator(events)

	for {
		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return llm.ChatMessage{}, "", err
		}
		acc.apply(delta)
	}

	return acc.message(), acc.finalText(), nil
}

// fanOut invokes sibling tool calls concurrently. Bindings own their error
// capture, so every slot is filled; results keep the call order.
func (l *Loop) fanOut(ctx context.Context, registry *tool.Registry, calls []tool.Call) []tool.Outcome {
	outcomes := make([]tool.Outcome, len(calls))
	if registry == nil {
		for i, call := range calls {
			outcomes[i] = tool.Outcome{ErrorText: "unknown tool: " + call.Name}
		}
		return outcomes
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		i, call := i, call
		g.Go(func() error {
			outcomes[i] = registry.Invoke(gctx, call)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func forcedStop(ctx context.Context) (StopReason, bool) {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return StopDeadline, true
	case context.Canceled:
		return StopCancelled, true
	}
	return "", false
}
