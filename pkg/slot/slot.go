// Package slot guards one logical asynchronous operation so that only the most
// recently begun request may change its state.
package slot

import (
	"sync"

	"github.com/google/uuid"

	perr "tableflip.dev/devo/pkg/errors"
)

// Status is the single state value of a slot. Loading and error are distinct
// values, never flags that could both be set.
type Status int

const (
	// Idle means no request has been made or the slot was cleared.
	Idle Status = iota
	// Loading means a request is in flight.
	Loading
	// Success means the current request completed with a value.
	Success
	// Error means the current request failed.
	Error
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// Token identifies one begun request. The zero Token never matches.
type Token string

// None is the absent token.
const None Token = ""

// Snapshot is a consistent copy of a slot's state.
type Snapshot[T any] struct {
	Name   string
	Status Status
	Value  T
	Err    error
}

// Message is the inline error text, empty unless Status is Error.
func (s Snapshot[T]) Message() string {
	if s.Status != Error {
		return ""
	}
	return perr.Message(s.Err)
}

// Slot tracks the in-flight token, status, last value and last error of one
// operation. The zero value is not usable; call New.
type Slot[T any] struct {
	name string

	mu     sync.Mutex
	token  Token
	status Status
	value  T
	err    error
}

// New creates an idle slot. name is used in logs and error ops.
func New[T any](name string) *Slot[T] {
	return &Slot[T]{name: name}
}

// Name returns the logical operation name.
func (s *Slot[T]) Name() string { return s.name }

// Begin mints a new token, voiding every earlier one, and moves to Loading.
// The previous value is kept so renderers can show it under a placeholder.
func (s *Slot[T]) Begin() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beginLocked()
}

// TryBegin is Begin for UI triggers: it refuses with a Busy error while a
// request is already loading.
func (s *Slot[T]) TryBegin() (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == Loading {
		return None, perr.WithOp(perr.Busyf("%s is already loading", s.name), s.name)
	}
	return s.beginLocked(), nil
}

func (s *Slot[T]) beginLocked() Token {
	s.token = Token(uuid.NewString())
	s.status = Loading
	s.err = nil
	return s.token
}

// Complete applies the outcome of the request identified by tok. It reports
// false and changes nothing when tok is not the current token.
func (s *Slot[T]) Complete(tok Token, value T, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok == None || tok != s.token {
		return false
	}
	s.token = None
	if err != nil {
		var zero T
		s.value = zero
		s.err = err
		s.status = Error
		return true
	}
	s.value = value
	s.err = nil
	s.status = Success
	return true
}

// Current reports whether tok is still the slot's in-flight token.
func (s *Slot[T]) Current(tok Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tok != None && tok == s.token
}

// Resolve voids outstanding tokens and stores value as a success without a
// request, for values served from a cache.
func (s *Slot[T]) Resolve(value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = None
	s.value = value
	s.err = nil
	s.status = Success
}

// Clear voids outstanding tokens and returns the slot to Idle with a zero
// value. Responses to requests begun before Clear are ignored.
func (s *Slot[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.token = None
	s.value = zero
	s.err = nil
	s.status = Idle
}

// Status returns the current status.
func (s *Slot[T]) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Snapshot returns a copy of the slot state.
func (s *Slot[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot[T]{
		Name:   s.name,
		Status: s.status,
		Value:  s.value,
		Err:    s.err,
	}
}
