package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// MaxMessageSize bounds a single stdio-framed line (spec §6 "framed JSON
// messages over stdio"). Grounded on the teacher's transport.go, which
// uses the same 1MB scanner buffer for newline-delimited JSON.
const MaxMessageSize = 1024 * 1024

func (s *Server) readMessage() (*Message, error) {
	if s.scanner == nil {
		s.scanner = bufio.NewScanner(s.stdin)
		s.scanner.Buffer(make([]byte, 0, 64*1024), MaxMessageSize)
	}

	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}

	line := s.scanner.Bytes()
	var msg Message
	if err := json.Unmarshal(line, &msg); err != nil {
		return nil, fmt.Errorf("parsing message: %w", err)
	}
	return &msg, nil
}

func (s *Server) writeMessage(msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}
	_, err = fmt.Fprintf(s.stdout, "%s\n", data)
	return err
}

func (s *Server) writeError(id interface{}, code int, message string) error {
	return s.writeMessage(NewErrorMessage(id, code, message, nil))
}

func (s *Server) writeResult(id interface{}, result interface{}) error {
	return s.writeMessage(NewResultMessage(id, result))
}
