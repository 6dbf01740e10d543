package chatstream_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metrofleet/analyst-api/pkg/chatstream"
)

func queryInput(sql string) json.RawMessage {
	data, _ := json.Marshal(map[string]string{"query": sql})
	return data
}

func TestDecoder_TextOnlyMessage(t *testing.T) {
	frames := []chatstream.Frame{
		chatstream.BeginMessage("msg_1", chatstream.RoleAssistant),
		chatstream.TextDelta("msg_1", "Hello"),
		chatstream.TextDelta("msg_1", ", analyst."),
		chatstream.EndMessage("msg_1"),
	}

	msg, err := chatstream.Decode(frames)
	require.NoError(t, err)
	require.Len(t, msg.Parts, 1)
	assert.Equal(t, chatstream.PartTypeText, msg.Parts[0].Type)
	assert.Equal(t, "Hello, analyst.", msg.Text())
}

func TestDecoder_ToolLifecycle(t *testing.T) {
	input := queryInput("SELECT 1")
	output := json.RawMessage(`{"columns":["n"],"data":[{"n":1}]}`)

	frames := []chatstream.Frame{
		chatstream.BeginMessage("msg_1", chatstream.RoleAssistant),
		chatstream.ToolInputDelta("call_1", "runQuery", `{"query":`),
		chatstream.ToolInputDelta("call_1", "runQuery", `"SELECT 1"}`),
		chatstream.ToolInputComplete("call_1", "runQuery", input),
		chatstream.ToolOutput("call_1", output, ""),
		chatstream.TextDelta("msg_1", "One row."),
		chatstream.EndMessage("msg_1"),
	}

	msg, err := chatstream.Decode(frames)
	require.NoError(t, err)
	require.Len(t, msg.Parts, 2)

	part := msg.Parts[0]
	assert.Equal(t, chatstream.ToolPartType("runQuery"), part.Type)
	assert.True(t, part.Type.IsTool())
	assert.Equal(t, chatstream.ToolStateOutputAvailable, part.State)
	assert.JSONEq(t, string(input), string(part.Input))
	assert.JSONEq(t, string(output), string(part.Output))

	assert.Equal(t, "One row.", msg.Parts[1].Text)
}

func TestDecoder_CollapsedInputWithoutDeltas(t *testing.T) {
	// A fast call may emit tool-input-complete with no preceding deltas.
	frames := []chatstream.Frame{
		chatstream.BeginMessage("msg_1", chatstream.RoleAssistant),
		chatstream.ToolInputComplete("call_1", "runQuery", queryInput("SELECT 1")),
		chatstream.ToolOutput("call_1", json.RawMessage(`{"data":[]}`), ""),
		chatstream.EndMessage("msg_1"),
	}

	msg, err := chatstream.Decode(frames)
	require.NoError(t, err)
	require.Len(t, msg.Parts, 1)
	assert.Equal(t, chatstream.ToolStateOutputAvailable, msg.Parts[0].State)
}

func TestDecoder_OutputErrorIsTerminal(t *testing.T) {
	d := chatstream.NewDecoder()
	require.NoError(t, d.Apply(chatstream.BeginMessage("msg_1", chatstream.RoleAssistant)))
	require.NoError(t, d.Apply(chatstream.ToolInputComplete("call_1", "runQuery", queryInput("SELECT 1"))))
	require.NoError(t, d.Apply(chatstream.ToolOutput("call_1", nil, "invalid tool input: missing arguments")))

	part := d.Message().Parts[0]
	assert.Equal(t, chatstream.ToolStateOutputError, part.State)
	assert.Equal(t, "invalid tool input: missing arguments", part.ErrorText)
	assert.Empty(t, part.Output)

	// No transition out of a terminal state.
	err := d.Apply(chatstream.ToolOutput("call_1", json.RawMessage(`{}`), ""))
	assert.ErrorIs(t, err, chatstream.ErrStateRegression)
}

func TestDecoder_StateOrderingViolations(t *testing.T) {
	tests := []struct {
		name    string
		frames  []chatstream.Frame
		wantErr error
	}{
		{
			name:    "frame before begin",
			frames:  []chatstream.Frame{chatstream.TextDelta("msg_1", "hi")},
			wantErr: chatstream.ErrNoMessage,
		},
		{
			name: "duplicate begin",
			frames: []chatstream.Frame{
				chatstream.BeginMessage("msg_1", chatstream.RoleAssistant),
				chatstream.BeginMessage("msg_1", chatstream.RoleAssistant),
			},
			wantErr: chatstream.ErrDuplicateBegin,
		},
		{
			name: "frame after end",
			frames: []chatstream.Frame{
				chatstream.BeginMessage("msg_1", chatstream.RoleAssistant),
				chatstream.EndMessage("msg_1"),
				chatstream.TextDelta("msg_1", "late"),
			},
			wantErr: chatstream.ErrMessageSealed,
		},
		{
			name: "output without input",
			frames: []chatstream.Frame{
				chatstream.BeginMessage("msg_1", chatstream.RoleAssistant),
				chatstream.ToolOutput("call_1", json.RawMessage(`{}`), ""),
			},
			wantErr: chatstream.ErrUnknownToolCall,
		},
		{
			name: "input delta after input complete",
			frames: []chatstream.Frame{
				chatstream.BeginMessage("msg_1", chatstream.RoleAssistant),
				chatstream.ToolInputComplete("call_1", "runQuery", queryInput("SELECT 1")),
				chatstream.ToolInputDelta("call_1", "runQuery", "more"),
			},
			wantErr: chatstream.ErrStateRegression,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := chatstream.Decode(tt.frames)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecoder_InterleavedToolCalls(t *testing.T) {
	// Frames for different call IDs interleave; per-ID order still holds.
	frames := []chatstream.Frame{
		chatstream.BeginMessage("msg_1", chatstream.RoleAssistant),
		chatstream.ToolInputDelta("call_a", "runQuery", `{"query":"SELECT a"}`),
		chatstream.ToolInputDelta("call_b", "runQuery", `{"query":"SELECT b"}`),
		chatstream.ToolInputComplete("call_b", "runQuery", queryInput("SELECT b")),
		chatstream.ToolInputComplete("call_a", "runQuery", queryInput("SELECT a")),
		chatstream.ToolOutput("call_a", json.RawMessage(`{"data":[]}`), ""),
		chatstream.ToolOutput("call_b", json.RawMessage(`{"data":[]}`), ""),
		chatstream.EndMessage("msg_1"),
	}

	msg, err := chatstream.Decode(frames)
	require.NoError(t, err)
	require.Len(t, msg.Parts, 2)
	for _, part := range msg.Parts {
		assert.Equal(t, chatstream.ToolStateOutputAvailable, part.State)
	}
}

func TestDecoder_TruncatedStreamKeepsPartialState(t *testing.T) {
	d := chatstream.NewDecoder()
	require.NoError(t, d.Apply(chatstream.BeginMessage("msg_1", chatstream.RoleAssistant)))
	require.NoError(t, d.Apply(chatstream.ToolInputDelta("call_1", "runQuery", `{"query":"SELECT`)))

	require.False(t, d.Sealed())
	part := d.Message().Parts[0]
	assert.Equal(t, chatstream.ToolStateInputStreaming, part.State)
	assert.Equal(t, `{"query":"SELECT`, d.PartialInput("call_1"))
}

func TestDecoder_ReplayIsIdempotent(t *testing.T) {
	frames := []chatstream.Frame{
		chatstream.BeginMessage("msg_1", chatstream.RoleAssistant),
		chatstream.TextDelta("msg_1", "Revenue was "),
		chatstream.ToolInputComplete("call_1", "runQuery", queryInput("SELECT sum(total_amount) FROM dbt_dev.fct_trips")),
		chatstream.ToolOutput("call_1", json.RawMessage(`{"data":[{"sum":12.5}]}`), ""),
		chatstream.TextDelta("msg_1", "$12.50."),
		chatstream.EndMessage("msg_1"),
	}

	first, err := chatstream.Decode(frames)
	require.NoError(t, err)
	second, err := chatstream.Decode(frames)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncoderScannerRoundTrip(t *testing.T) {
	frames := []chatstream.Frame{
		chatstream.BeginMessage("msg_1", chatstream.RoleAssistant),
		chatstream.TextDelta("msg_1", "Checking the warehouse."),
		chatstream.ToolInputDelta("call_1", "runQuery", `{"query":"SELECT 1"}`),
		chatstream.ToolInputComplete("call_1", "runQuery", queryInput("SELECT 1")),
		chatstream.ToolOutput("call_1", json.RawMessage(`{"columns":["n"],"data":[{"n":1}]}`), ""),
		chatstream.EndMessage("msg_1"),
	}

	var buf bytes.Buffer
	encoder := chatstream.NewEncoderWriter(&buf, nil)
	for _, frame := range frames {
		require.NoError(t, encoder.Write(frame))
	}

	scanner := chatstream.NewScanner(&buf)
	var decoded []chatstream.Frame
	for {
		frame, err := scanner.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		decoded = append(decoded, *frame)
	}
	require.Len(t, decoded, len(frames))

	msg, err := chatstream.Decode(decoded)
	require.NoError(t, err)
	assert.Equal(t, "Checking the warehouse.", msg.Text())
	require.Len(t, msg.Parts, 2)
	assert.Equal(t, chatstream.ToolStateOutputAvailable, msg.Parts[1].State)
}
