package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"metrofleet/analyst-api/internal/domain/agent"
	"metrofleet/analyst-api/internal/domain/chat"
	"metrofleet/analyst-api/internal/domain/query"
	"metrofleet/analyst-api/internal/domain/tool"
	"metrofleet/analyst-api/pkg/chatstream"
)

type mockChatService struct {
	StreamTurnFunc func(ctx context.Context, params chat.TurnParams) (*agent.TurnResult, error)
}

func (m *mockChatService) StreamTurn(ctx context.Context, params chat.TurnParams) (*agent.TurnResult, error) {
	return m.StreamTurnFunc(ctx, params)
}

func chatRouter(service chat.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewChatHandler(service, zerolog.Nop())
	router.POST("/v1/chat", handler.Stream)
	return router
}

func postChat(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func scanFrames(t *testing.T, body io.Reader) []chatstream.Frame {
	t.Helper()
	scanner := chatstream.NewScanner(body)
	var frames []chatstream.Frame
	for {
		frame, err := scanner.Next()
		if errors.Is(err, io.EOF) {
			return frames
		}
		if err != nil {
			t.Fatalf("scan frame: %v", err)
		}
		frames = append(frames, *frame)
	}
}

func TestChatHandler_BadRequest(t *testing.T) {
	service := &mockChatService{
		StreamTurnFunc: func(ctx context.Context, params chat.TurnParams) (*agent.TurnResult, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	router := chatRouter(service)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing messages", `{}`},
		{"empty messages", `{"messages":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := postChat(t, router, tt.body)
			if recorder.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", recorder.Code)
			}
		})
	}
}

func TestChatHandler_StreamsTurnAsFrames(t *testing.T) {
	service := &mockChatService{
		StreamTurnFunc: func(ctx context.Context, params chat.TurnParams) (*agent.TurnResult, error) {
			obs := params.Observer
			obs.OnToolInputDelta("call_1", "runQuery", `{"query":"SELECT 1"}`)
			obs.OnToolCall(tool.Call{
				ID:        "call_1",
				Name:      "runQuery",
				Arguments: json.RawMessage(`{"query":"SELECT 1"}`),
			})
			obs.OnToolOutcome("call_1", tool.Outcome{
				Result: &query.Result{Columns: []string{"n"}, Data: []query.Row{{"n": 1}}},
			})
			obs.OnTextDelta("One row.")
			return &agent.TurnResult{StopReason: agent.StopCompleted, Steps: 2, FinalText: "One row."}, nil
		},
	}
	router := chatRouter(service)

	recorder := postChat(t, router, `{"messages":[{"id":"msg_u","role":"user","parts":[{"type":"text","text":"run it"}]}]}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("Content-Type = %q", ct)
	}

	frames := scanFrames(t, recorder.Body)
	var types []string
	for _, frame := range frames {
		types = append(types, string(frame.Type))
	}
	want := []string{
		"begin-message",
		"tool-input-delta",
		"tool-input-complete",
		"tool-output",
		"text-delta",
		"end-message",
	}
	if strings.Join(types, ",") != strings.Join(want, ",") {
		t.Fatalf("frame types = %v, want %v", types, want)
	}

	// The frame stream replays into a well-formed message.
	msg, err := chatstream.Decode(frames)
	if err != nil {
		t.Fatalf("decode frames: %v", err)
	}
	if msg.Text() != "One row." {
		t.Errorf("Text() = %q", msg.Text())
	}
	if len(msg.Parts) != 2 {
		t.Fatalf("Parts = %d, want 2", len(msg.Parts))
	}
	if msg.Parts[0].State != chatstream.ToolStateOutputAvailable {
		t.Errorf("tool state = %q", msg.Parts[0].State)
	}
}

func TestChatHandler_InvocationFaultBecomesOutputError(t *testing.T) {
	service := &mockChatService{
		StreamTurnFunc: func(ctx context.Context, params chat.TurnParams) (*agent.TurnResult, error) {
			obs := params.Observer
			obs.OnToolCall(tool.Call{ID: "call_1", Name: "runQuery", Arguments: json.RawMessage(`{}`)})
			obs.OnToolOutcome("call_1", tool.Outcome{ErrorText: "invalid tool input: missing arguments"})
			return &agent.TurnResult{StopReason: agent.StopCompleted, Steps: 1}, nil
		},
	}
	router := chatRouter(service)

	recorder := postChat(t, router, `{"messages":[{"id":"msg_u","role":"user","parts":[{"type":"text","text":"run it"}]}]}`)
	msg, err := chatstream.Decode(scanFrames(t, recorder.Body))
	if err != nil {
		t.Fatalf("decode frames: %v", err)
	}
	if len(msg.Parts) != 1 {
		t.Fatalf("Parts = %d, want 1", len(msg.Parts))
	}
	part := msg.Parts[0]
	if part.State != chatstream.ToolStateOutputError {
		t.Errorf("state = %q, want output-error", part.State)
	}
	if part.ErrorText != "invalid tool input: missing arguments" {
		t.Errorf("ErrorText = %q", part.ErrorText)
	}
}

func TestChatHandler_ServiceErrorSealsMessage(t *testing.T) {
	service := &mockChatService{
		StreamTurnFunc: func(ctx context.Context, params chat.TurnParams) (*agent.TurnResult, error) {
			return nil, errors.New("gateway unavailable")
		},
	}
	router := chatRouter(service)

	recorder := postChat(t, router, `{"messages":[{"id":"msg_u","role":"user","parts":[{"type":"text","text":"hi"}]}]}`)
	// The stream is already open when the turn fails; the client still gets
	// a sealed, empty message rather than a broken stream.
	frames := scanFrames(t, recorder.Body)
	if len(frames) != 2 {
		t.Fatalf("frames = %d, want begin + end", len(frames))
	}
	if frames[0].Type != chatstream.FrameBeginMessage || frames[1].Type != chatstream.FrameEndMessage {
		t.Errorf("frame types = %q, %q", frames[0].Type, frames[1].Type)
	}
}
