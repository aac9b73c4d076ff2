package progrock

import (
	"fmt"
	"io"
	"sync"

	"github.com/vito/progrock"
)

// ConsoleWriter consumes tape updates and renders them as chronological
// lines, one per vertex transition. It is the progress display for
// non-interactive runs: command output already reaches the log stream
// through the runner, so only the lifecycle lines are rendered here.
type ConsoleWriter struct {
	mu      sync.Mutex
	w       io.Writer
	started map[string]bool
	settled map[string]bool
}

// NewConsoleWriter creates a ConsoleWriter rendering to w.
func NewConsoleWriter(w io.Writer) *ConsoleWriter {
	return &ConsoleWriter{
		w:       w,
		started: make(map[string]bool),
		settled: make(map[string]bool),
	}
}

// WriteStatus renders the vertex transitions carried by the update.
// Recorders resend the full vertex state on every transition, so each
// start and each settlement is printed exactly once.
func (c *ConsoleWriter) WriteStatus(update *progrock.StatusUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, v := range update.Vertexes {
		if !c.started[v.Id] {
			c.started[v.Id] = true
			_, _ = fmt.Fprintf(c.w, "=> %s\n", v.Name)
		}
		if c.settled[v.Id] {
			continue
		}
		switch {
		case v.Cached:
			c.settled[v.Id] = true
			_, _ = fmt.Fprintf(c.w, "=> %s SKIPPED\n", v.Name)
		case v.Completed != nil && v.Error != nil:
			c.settled[v.Id] = true
			_, _ = fmt.Fprintf(c.w, "=> %s FAILED: %s\n", v.Name, v.GetError())
		case v.Completed != nil:
			c.settled[v.Id] = true
			_, _ = fmt.Fprintf(c.w, "=> %s DONE\n", v.Name)
		}
	}
	return nil
}

// Close is a no-op; every transition is flushed as it is written.
func (c *ConsoleWriter) Close() error {
	return nil
}
