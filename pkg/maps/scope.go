package maps

import (
	"errors"
	"sync"
)

// Scope provides the map instance to the markers beneath a map container.
//
// The container owns the map's lifetime: it calls Attach once the engine map
// exists and Detach when it goes away. Controllers constructed with the scope
// observe Attach and create their markers as soon as a map is available.
// A scope may stay empty indefinitely; that is not an error.
type Scope struct {
	mu        sync.Mutex
	m         Map
	listeners []*scopeListener
}

type scopeListener struct {
	fn       func(Map) error
	canceled bool
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{}
}

// Map returns the attached map, or nil.
func (s *Scope) Map() Map {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m
}

// Attach makes m available and notifies listeners in subscription order.
// Every listener runs even if an earlier one fails; failures are returned
// joined. Listeners report their own failures.
func (s *Scope) Attach(m Map) error {
	s.mu.Lock()
	s.m = m
	listeners := make([]*scopeListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	if m == nil {
		return nil
	}

	var errs []error
	for _, l := range listeners {
		s.mu.Lock()
		canceled := l.canceled
		s.mu.Unlock()
		if canceled {
			continue
		}
		if err := l.fn(m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Detach clears the map. Markers already created keep their handles and
// remove them from the map they were created on when unmounted.
func (s *Scope) Detach() {
	s.mu.Lock()
	s.m = nil
	s.mu.Unlock()
}

// AddListener registers fn to be called on every Attach. The returned
// function unregisters it and is safe to call more than once.
func (s *Scope) AddListener(fn func(Map) error) func() {
	if fn == nil {
		return func() {}
	}
	l := &scopeListener{fn: fn}
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if l.canceled {
			return
		}
		l.canceled = true
		for i, other := range s.listeners {
			if other == l {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				break
			}
		}
	}
}

// ListenerCount returns the number of registered listeners.
func (s *Scope) ListenerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}
