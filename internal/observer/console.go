package observer

import (
	"io"
	"strings"
	"sync"
)

// Console serialises every write to the terminal: frames, reports and
// notifications go through one lock so lines never interleave.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Println writes s followed by a newline.
func (c *Console) Println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	io.WriteString(c.w, s)
	io.WriteString(c.w, "\n")
}

// Publish writes a rendered frame as-is, adding a trailing newline only when
// missing.
func (c *Console) Publish(frame string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	io.WriteString(c.w, frame)
	if !strings.HasSuffix(frame, "\n") {
		io.WriteString(c.w, "\n")
	}
}
