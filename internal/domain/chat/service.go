// Package chat exposes the analyst conversation as a domain service.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"metrofleet/analyst-api/internal/domain/agent"
	"metrofleet/analyst-api/internal/domain/llm"
	"metrofleet/analyst-api/internal/domain/tool"
	"metrofleet/analyst-api/pkg/chatstream"
)

// SystemPrompt frames every turn. The table list matches the runQuery tool
// description so the model sees one consistent schema.
const SystemPrompt = `You are an expert Data Analyst for MetroFleet.
- You have access to a Postgres database with NYC taxi trip data.
- Always query the database before answering data questions.
- Tables: dbt_dev.fct_trips, dbt_dev.dm_daily_revenue
- Be concise and professional.`

// TurnParams carries one chat turn: the full client-side transcript plus an
// observer for live progress.
type TurnParams struct {
	Messages []chatstream.Message
	Observer agent.Observer
}

// Service runs analyst chat turns.
type Service interface {
	StreamTurn(ctx context.Context, params TurnParams) (*agent.TurnResult, error)
}

// ServiceImpl provides the domain implementation.
type ServiceImpl struct {
	loop     *agent.Loop
	tools    *tool.Registry
	model    string
	maxSteps int
	timeout  time.Duration
	log      zerolog.Logger
}

// NewService wires dependencies.
func NewService(loop *agent.Loop, tools *tool.Registry, model string, maxSteps int, timeout time.Duration, log zerolog.Logger) *ServiceImpl {
	return &ServiceImpl{
		loop:     loop,
		tools:    tools,
		model:    model,
		maxSteps: maxSteps,
		timeout:  timeout,
		log:      log.With().Str("component", "chat-service").Logger(),
	}
}

// StreamTurn converts the transcript, prepends the system prompt and runs
// the loop. The turn result is returned even on a forced stop.
func (s *ServiceImpl) StreamTurn(ctx context.Context, params TurnParams) (*agent.TurnResult, error) {
	if len(params.Messages) == 0 {
		return nil, fmt.Errorf("empty message history")
	}

	messages, err := toModelMessages(params.Messages)
	if err != nil {
		return nil, err
	}

	result, err := s.loop.Run(ctx, agent.Params{
		Model:    s.model,
		Messages: messages,
		Tools:    s.tools,
		MaxSteps: s.maxSteps,
		Timeout:  s.timeout,
		Observer: params.Observer,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("turn failed")
		return nil, err
	}
	return result, nil
}

// toModelMessages flattens the part-structured transcript into the chat
// completion shape. Completed tool parts are replayed as an assistant tool
// call plus its tool result message so the model keeps the evidence trail.
func toModelMessages(history []chatstream.Message) ([]llm.ChatMessage, error) {
	messages := []llm.ChatMessage{{Role: "system", Content: SystemPrompt}}

	for _, msg := range history {
		switch msg.Role {
		case chatstream.RoleUser:
			messages = append(messages, llm.ChatMessage{Role: "user", Content: msg.Text()})
		case chatstream.RoleAssistant:
			assistant := llm.ChatMessage{Role: "assistant"}
			if text := msg.Text(); text != "" {
				assistant.Content = text
			}
			var toolResults []llm.ChatMessage
			for _, part := range msg.Parts {
				if !part.Type.IsTool() || !part.State.Terminal() {
					continue
				}
				assistant.ToolCalls = append(assistant.ToolCalls, llm.ToolCall{
					ID:   part.ToolCallID,
					Type: "function",
					Function: llm.ToolFunction{
						Name:      part.ToolName,
						Arguments: string(part.Input),
					},
				})
				callID := part.ToolCallID
				toolResults = append(toolResults, llm.ChatMessage{
					Role:       "tool",
					Content:    toolResultContent(part),
					ToolCallID: &callID,
				})
			}
			if assistant.Content != nil || len(assistant.ToolCalls) > 0 {
				messages = append(messages, assistant)
			}
			messages = append(messages, toolResults...)
		case chatstream.RoleSystem:
			// The server owns the system prompt; client-provided system
			// messages are dropped.
		default:
			return nil, fmt.Errorf("unsupported message role %q", msg.Role)
		}
	}
	return messages, nil
}

func toolResultContent(part chatstream.Part) string {
	if part.State == chatstream.ToolStateOutputError {
		return fmt.Sprintf(`{"error":%q}`, part.ErrorText)
	}
	return string(part.Output)
}
