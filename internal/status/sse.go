package status

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// event is one frame of the text/event-stream channel: the optional
// "event:" field and the concatenated "data:" lines.
type event struct {
	name string
	data string
}

// readEvents parses server-sent-event framing from r and invokes handle for
// each complete frame, in arrival order. Comment lines (":") are keepalive
// noise and skipped; an incomplete trailing frame is discarded. The status
// stream is expected to stay open, so even a clean end of stream returns a
// non-nil error.
func readEvents(r io.Reader, handle func(event)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var name string
	var data []string

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if name != "" || len(data) > 0 {
				handle(event{name: name, data: strings.Join(data, "\n")})
			}
			name = ""
			data = nil
		case strings.HasPrefix(line, ":"):
			// keepalive comment
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read status stream: %w", err)
	}
	return io.EOF
}
