// Package reveal discloses an already-fetched result list a page at a time.
package reveal

import "sync"

// DefaultStep is the page size used by the discovery session.
const DefaultStep = 5

// Window tracks how much of a list is shown. The limit never drops below one
// page, while Visible is clamped to the list length, so an empty or short list
// still reports a full page as its limit.
type Window struct {
	mu     sync.Mutex
	step   int
	limit  int
	length int
}

// New creates a window with the given page size (DefaultStep when <= 0).
func New(step int) *Window {
	if step <= 0 {
		step = DefaultStep
	}
	return &Window{step: step, limit: step}
}

// Reset re-initialises the window to the first page over a new list of the
// given length.
func (w *Window) Reset(length int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if length < 0 {
		length = 0
	}
	w.length = length
	w.limit = w.step
}

// Expand reveals one more page, clamped to the list length.
func (w *Window) Expand() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	next := w.limit + w.step
	if next > w.length {
		next = w.length
	}
	if next < w.step {
		next = w.step
	}
	w.limit = next
	return w.visibleLocked()
}

// Collapse returns to the first page, not to zero.
func (w *Window) Collapse() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.limit = w.step
	return w.visibleLocked()
}

// Visible is the number of items currently shown.
func (w *Window) Visible() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visibleLocked()
}

// Limit is the page-aligned disclosure limit before clamping.
func (w *Window) Limit() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.limit
}

// Step is the page size.
func (w *Window) Step() int { return w.step }

// Len is the length of the underlying list.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.length
}

// HasMore reports whether Expand would reveal anything.
func (w *Window) HasMore() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visibleLocked() < w.length
}

// CanCollapse reports whether more than the first page is shown.
func (w *Window) CanCollapse() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.limit > w.step
}

func (w *Window) visibleLocked() int {
	if w.limit > w.length {
		return w.length
	}
	return w.limit
}
