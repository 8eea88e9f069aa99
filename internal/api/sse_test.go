package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventScannerBasic(t *testing.T) {
	input := "data: {\"event\":\"resource_created\"}\n\n" +
		"data: {\"event\":\"resource_approved\"}\n\n"
	s := NewEventScanner(strings.NewReader(input))

	require.True(t, s.Next())
	assert.Equal(t, `{"event":"resource_created"}`, s.Event().Data)
	assert.Empty(t, s.Event().Type)

	require.True(t, s.Next())
	assert.Equal(t, `{"event":"resource_approved"}`, s.Event().Data)

	assert.False(t, s.Next())
	assert.NoError(t, s.Err())
}

func TestEventScannerEventField(t *testing.T) {
	input := "event: change\ndata: payload\n\n"
	s := NewEventScanner(strings.NewReader(input))

	require.True(t, s.Next())
	assert.Equal(t, "change", s.Event().Type)
	assert.Equal(t, "payload", s.Event().Data)
}

func TestEventScannerMultilineData(t *testing.T) {
	input := "data: line one\ndata: line two\n\n"
	s := NewEventScanner(strings.NewReader(input))

	require.True(t, s.Next())
	assert.Equal(t, "line one\nline two", s.Event().Data)
}

func TestEventScannerSkipsCommentsAndUnknownFields(t *testing.T) {
	input := ": ping\nretry: 5000\nid: 42\ndata: payload\n\n"
	s := NewEventScanner(strings.NewReader(input))

	require.True(t, s.Next())
	assert.Equal(t, "payload", s.Event().Data)
	assert.False(t, s.Next())
}

func TestEventScannerHeartbeatOnlyBlocks(t *testing.T) {
	input := ": ping\n\n: ping\n\ndata: payload\n\n"
	s := NewEventScanner(strings.NewReader(input))

	require.True(t, s.Next(), "comment-only blocks are skipped, not emitted")
	assert.Equal(t, "payload", s.Event().Data)
	assert.False(t, s.Next())
}

func TestEventScannerCRLF(t *testing.T) {
	input := "data: payload\r\n\r\n"
	s := NewEventScanner(strings.NewReader(input))

	require.True(t, s.Next())
	assert.Equal(t, "payload", s.Event().Data)
}

func TestEventScannerNoColonValue(t *testing.T) {
	input := "data:compact\n\n"
	s := NewEventScanner(strings.NewReader(input))

	require.True(t, s.Next())
	assert.Equal(t, "compact", s.Event().Data)
}

func TestEventScannerFinalEventWithoutTrailingBlank(t *testing.T) {
	input := "data: payload"
	s := NewEventScanner(strings.NewReader(input))

	require.True(t, s.Next())
	assert.Equal(t, "payload", s.Event().Data)
	assert.False(t, s.Next())
	assert.NoError(t, s.Err())
}

func TestEventScannerEmptyStream(t *testing.T) {
	s := NewEventScanner(strings.NewReader(""))
	assert.False(t, s.Next())
	assert.NoError(t, s.Err())
}
