package chatstream

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// Scanner reads frames back off an SSE stream. It is the transport half of
// the client: pair it with a Decoder to rebuild the message.
type Scanner struct {
	reader *bufio.Reader
}

// NewScanner wraps the response body of a chat request.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{reader: bufio.NewReader(r)}
}

// Next returns the next frame, or io.EOF when the stream ends. Comment lines
// and malformed data lines are skipped.
func (s *Scanner) Next() (*Frame, error) {
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, err
		}

		line = strings.TrimSpace(line)

		// Skip blanks, comments, and the event name line; the frame type
		// is repeated inside the data payload.
		if line == "" || strings.HasPrefix(line, ":") || strings.HasPrefix(line, "event:") {
			continue
		}

		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")

		var frame Frame
		if err := json.Unmarshal([]byte(data), &frame); err != nil {
			continue
		}
		return &frame, nil
	}
}
