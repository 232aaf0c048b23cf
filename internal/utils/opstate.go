package utils

import "sync"

// OpState tracks the loading flag and last error of a service's operations.
// Concurrent operations are not serialised: whichever finishes last decides
// the final error.
type OpState struct {
	mu      sync.RWMutex
	loading bool
	err     error
}

// Begin marks an operation as running and clears the previous error. The
// returned func clears the loading flag and is meant to be deferred.
func (s *OpState) Begin() (done func()) {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}
}

// Fail records err and returns it.
func (s *OpState) Fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	return err
}

func (s *OpState) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err is the error of the most recent failed operation, nil after a success.
func (s *OpState) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}
