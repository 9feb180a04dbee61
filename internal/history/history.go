// Package history keeps the bounded buffer of chat lines shown in the
// message panel. Oldest lines are evicted first once capacity is reached.
package history

// History is a fixed-capacity FIFO of display lines. It is owned by the UI
// model and is not safe for concurrent use.
type History struct {
	capacity int
	lines    []string
}

// New creates a history holding at most capacity lines.
func New(capacity int) *History {
	return &History{
		capacity: capacity,
		lines:    make([]string, 0, capacity),
	}
}

// Push appends a line, evicting the oldest one if the buffer is full.
func (h *History) Push(line string) {
	if len(h.lines) == h.capacity {
		copy(h.lines, h.lines[1:])
		h.lines = h.lines[:h.capacity-1]
	}
	h.lines = append(h.lines, line)
}

// Lines returns the buffered lines, oldest first. The returned slice is the
// internal buffer; callers must not mutate it.
func (h *History) Lines() []string {
	return h.lines
}

// Len reports the number of buffered lines.
func (h *History) Len() int {
	return len(h.lines)
}

// Cap reports the configured capacity.
func (h *History) Cap() int {
	return h.capacity
}
