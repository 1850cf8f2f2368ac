package status

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestReadEvents_ParsesFramesInOrder(t *testing.T) {
	stream := strings.Join([]string{
		": keepalive comment",
		"event: status",
		"data: {\"type\":\"SYSTEM_STATUS_UPDATE\"}",
		"",
		"data: line one",
		"data: line two",
		"",
		"data: dangling frame without terminator",
	}, "\n")

	var got []event
	err := readEvents(strings.NewReader(stream), func(ev event) {
		got = append(got, ev)
	})
	if !errors.Is(err, io.EOF) {
		t.Fatalf("readEvents error = %v, want io.EOF", err)
	}

	if len(got) != 2 {
		t.Fatalf("parsed %d events, want 2 (incomplete trailing frame discarded)", len(got))
	}
	if got[0].name != "status" || got[0].data != `{"type":"SYSTEM_STATUS_UPDATE"}` {
		t.Fatalf("event[0] = %#v, want named status frame", got[0])
	}
	if got[1].data != "line one\nline two" {
		t.Fatalf("event[1].data = %q, want joined data lines", got[1].data)
	}
}

func TestReadEvents_EmptyStreamEmitsNothing(t *testing.T) {
	var got []event
	err := readEvents(strings.NewReader(""), func(ev event) {
		got = append(got, ev)
	})
	if !errors.Is(err, io.EOF) {
		t.Fatalf("readEvents error = %v, want io.EOF", err)
	}
	if len(got) != 0 {
		t.Fatalf("parsed %d events, want 0", len(got))
	}
}
