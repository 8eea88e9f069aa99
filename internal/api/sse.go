package api

import (
	"bufio"
	"io"
	"strings"
)

// Event is a single message parsed from a server-sent event stream.
type Event struct {
	// Type is the value of the "event:" field, empty for the default
	// message type.
	Type string

	// Data is the payload assembled from the "data:" lines of the
	// message. Multiple data lines are joined with newlines.
	Data string
}

// EventScanner reads server-sent events from an io.Reader. Messages are
// delimited by blank lines; comment lines and unknown fields are skipped.
type EventScanner struct {
	reader  *bufio.Reader
	current Event
	err     error
}

// NewEventScanner wraps reader in a scanner over SSE messages.
func NewEventScanner(reader io.Reader) *EventScanner {
	return &EventScanner{reader: bufio.NewReaderSize(reader, 32*1024)}
}

// Next advances to the next message. It returns false at end of stream or
// on a read error; call Err afterwards to distinguish the two.
func (s *EventScanner) Next() bool {
	s.current = Event{}

	var dataLines []string
	var eventType string

	for {
		line, err := s.reader.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				if len(dataLines) > 0 {
					s.current = Event{Type: eventType, Data: strings.Join(dataLines, "\n")}
					s.err = io.EOF
					return true
				}
				return false
			}
			s.err = err
			return false
		}

		line = strings.TrimRight(line, "\r\n")

		// Blank line terminates a message.
		if line == "" {
			if len(dataLines) > 0 {
				s.current = Event{Type: eventType, Data: strings.Join(dataLines, "\n")}
				return true
			}
			eventType = ""
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, hasColon := strings.Cut(line, ":")
		if !hasColon {
			field = line
			value = ""
		} else {
			value = strings.TrimPrefix(value, " ")
		}

		switch field {
		case "data":
			dataLines = append(dataLines, value)
		case "event":
			eventType = value
		default:
			// "id", "retry" and unknown fields are not needed here.
		}
	}
}

// Event returns the most recently parsed message. Valid only after Next
// returned true.
func (s *EventScanner) Event() Event {
	return s.current
}

// Err returns the first read error, or nil when the stream ended cleanly.
func (s *EventScanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}
