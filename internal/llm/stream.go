package llm

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Stream reads content deltas from a server-sent-events completion body.
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	model   string
	done    bool
}

func newStream(body io.ReadCloser, model string) *Stream {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Stream{body: body, scanner: sc, model: model}
}

// Model is the model that produced this stream (the backup after a fallback).
func (s *Stream) Model() string { return s.model }

// Next returns the next non-empty delta, or io.EOF once the stream ends.
func (s *Stream) Next() (string, error) {
	if s.done {
		return "", io.EOF
	}
	for s.scanner.Scan() {
		line := s.scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue // comments (": OPENROUTER PROCESSING"), event names, blank separators
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}
		if data == "[DONE]" {
			s.done = true
			return "", io.EOF
		}
		var chunk Response
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue
		}
		if chunk.Error != nil {
			s.done = true
			return "", payloadError(s.model, chunk.Error)
		}
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta != nil && chunk.Choices[0].Delta.Content != "" {
			return chunk.Choices[0].Delta.Content, nil
		}
	}
	s.done = true
	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("stream error: %w", err)
	}
	return "", io.EOF
}

func (s *Stream) Close() error { return s.body.Close() }

// Collect drains the stream into one string and closes it.
func Collect(s *Stream) (string, error) {
	defer s.Close()
	var b strings.Builder
	for {
		delta, err := s.Next()
		if err == io.EOF {
			return b.String(), nil
		}
		if err != nil {
			return b.String(), err
		}
		b.WriteString(delta)
	}
}
