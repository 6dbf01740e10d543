package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/rs/zerolog"

	"metrofleet/analyst-api/internal/domain/llm"
	"metrofleet/analyst-api/internal/domain/query"
)

// RunQueryName is the single capability offered to the model.
const RunQueryName = "runQuery"

// runQueryDescription is a prompt-level contract: the table list tells the
// model what it may query, enforcement happens in the guard.
const runQueryDescription = `Execute a read-only SQL query on the NYC Taxi database.
Tables:
- dbt_dev.fct_trips (pickup_datetime, total_amount, trip_distance, precip_mm, temp_c, is_holiday, holiday_name)
- dbt_dev.dm_daily_revenue (revenue_date, pickup_borough, total_trips, total_revenue, avg_ticket_size)`

// QueryInput is the declared input schema of runQuery.
type QueryInput struct {
	Query string `json:"query" jsonschema:"description=The SQL query to execute. Must be READ-ONLY."`
}

// RunQueryBinding wires the read-only guard and the result shaper behind the
// runQuery declaration.
type RunQueryBinding struct {
	shaper     *query.Shaper
	definition llm.ToolDefinition
	log        zerolog.Logger
}

// NewRunQueryBinding builds the binding, reflecting the input schema from
// QueryInput.
func NewRunQueryBinding(shaper *query.Shaper, log zerolog.Logger) *RunQueryBinding {
	return &RunQueryBinding{
		shaper: shaper,
		definition: llm.ToolDefinition{
			Type: "function",
			Function: llm.ToolFunctionSchema{
				Name:        RunQueryName,
				Description: runQueryDescription,
				Parameters:  inputSchema(&QueryInput{}),
			},
		},
		log: log.With().Str("component", "runquery-binding").Logger(),
	}
}

// Name implements Binding.
func (b *RunQueryBinding) Name() string { return RunQueryName }

// Definition implements Binding.
func (b *RunQueryBinding) Definition() llm.ToolDefinition { return b.definition }

// Invoke validates the input, applies the guard, then executes. The guard
// check runs before any I/O; its rejection is a normal business outcome
// (an {error} payload), not an invocation fault. Only schema-invalid input
// or an escaped panic produce an invocation fault.
func (b *RunQueryBinding) Invoke(ctx context.Context, arguments json.RawMessage) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Msg("tool invocation panicked")
			outcome = Outcome{ErrorText: fmt.Sprintf("tool invocation failed: %v", r)}
		}
	}()

	input, err := decodeQueryInput(arguments)
	if err != nil {
		return Outcome{ErrorText: fmt.Sprintf("invalid tool input: %v", err)}
	}

	if !query.IsReadOnly(input.Query) {
		b.log.Warn().Str("query", input.Query).Msg("query rejected by read-only guard")
		return Outcome{Result: &query.Result{Error: query.GuardRejectionMessage}}
	}

	result := b.shaper.Execute(ctx, input.Query)
	return Outcome{Result: &result}
}

// decodeQueryInput enforces the declared schema: the query field must be
// present and must be a string.
func decodeQueryInput(arguments json.RawMessage) (*QueryInput, error) {
	if len(arguments) == 0 {
		return nil, fmt.Errorf("missing arguments")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(arguments, &fields); err != nil {
		return nil, fmt.Errorf("arguments are not a JSON object: %w", err)
	}

	raw, ok := fields["query"]
	if !ok {
		return nil, fmt.Errorf("required field %q is missing", "query")
	}

	var input QueryInput
	if err := json.Unmarshal(raw, &input.Query); err != nil {
		return nil, fmt.Errorf("field %q must be a string: %w", "query", err)
	}
	return &input, nil
}

// inputSchema reflects a Go struct into the JSON Schema map the model
// gateway expects.
func inputSchema(v any) map[string]interface{} {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		ExpandedStruct:            true,
	}
	schema := reflector.Reflect(v)

	data, err := schema.MarshalJSON()
	if err != nil {
		return map[string]interface{}{"type": "object"}
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]interface{}{"type": "object"}
	}
	delete(out, "$schema")
	return out
}
