package handlers

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"metrofleet/analyst-api/internal/domain/agent"
	"metrofleet/analyst-api/internal/domain/tool"
	"metrofleet/analyst-api/internal/infrastructure/metrics"
	"metrofleet/analyst-api/pkg/chatstream"
)

// streamObserver translates agent progress into wire frames. Encoder writes
// are already serialized; the local mutex only guards the per-call timing
// table used for tool metrics.
type streamObserver struct {
	encoder   *chatstream.Encoder
	messageID string
	log       zerolog.Logger

	mu    sync.Mutex
	calls map[string]callTiming
}

type callTiming struct {
	toolName  string
	startedAt time.Time
}

func newStreamObserver(encoder *chatstream.Encoder, messageID string, log zerolog.Logger) *streamObserver {
	return &streamObserver{
		encoder:   encoder,
		messageID: messageID,
		log:       log,
		calls:     make(map[string]callTiming),
	}
}

// Ensure interface compliance.
var _ agent.Observer = (*streamObserver)(nil)

// Begin opens the assistant message on the wire.
func (o *streamObserver) Begin() {
	o.write(chatstream.BeginMessage(o.messageID, chatstream.RoleAssistant))
}

// End seals the message.
func (o *streamObserver) End() {
	o.write(chatstream.EndMessage(o.messageID))
}

func (o *streamObserver) OnTextDelta(delta string) {
	o.write(chatstream.TextDelta(o.messageID, delta))
}

func (o *streamObserver) OnToolInputDelta(callID, toolName, delta string) {
	o.write(chatstream.ToolInputDelta(callID, toolName, delta))
}

func (o *streamObserver) OnToolCall(call tool.Call) {
	o.mu.Lock()
	o.calls[call.ID] = callTiming{toolName: call.Name, startedAt: time.Now()}
	o.mu.Unlock()
	o.write(chatstream.ToolInputComplete(call.ID, call.Name, call.Arguments))
}

func (o *streamObserver) OnToolOutcome(callID string, outcome tool.Outcome) {
	o.mu.Lock()
	timing, ok := o.calls[callID]
	delete(o.calls, callID)
	o.mu.Unlock()

	duration := 0.0
	if ok {
		duration = time.Since(timing.startedAt).Seconds()
	}

	if outcome.Failed() {
		metrics.RecordToolCall(timing.toolName, "error", duration)
		o.write(chatstream.ToolOutput(callID, nil, outcome.ErrorText))
		return
	}
	metrics.RecordToolCall(timing.toolName, "ok", duration)
	o.write(chatstream.ToolOutput(callID, outcome.Payload(), ""))
}

func (o *streamObserver) write(frame chatstream.Frame) {
	if err := o.encoder.Write(frame); err != nil {
		o.log.Warn().Err(err).Str("frame", string(frame.Type)).Msg("write frame")
	}
}
