package output

import (
	"strings"
	"sync"
)

// Session tracks the patterns written across a whole run, which the teach
// file format depends on. A single Session must be shared by everything
// writing the same pair of data and teach files.
type Session struct {
	mut sync.Mutex

	// total is the number of patterns recorded so far.
	total int

	// first holds the input units of the very first pattern, which are
	// written to the teach file only once the run is complete.
	first []string
}

// NewSession returns a session with no patterns recorded.
func NewSession() *Session {
	return &Session{}
}

// record registers one more pattern with the given input units and calls
// fn with that pattern's zero-based index while holding the session lock,
// so that the writes for each pattern happen in index order.
func (s *Session) record(units []string, fn func(idx int) error) error {
	s.mut.Lock()
	defer s.mut.Unlock()

	idx := s.total
	if idx == 0 {
		s.first = append([]string(nil), units...)
	}
	s.total++
	return fn(idx)
}

// TotalPatterns returns the number of patterns recorded so far.
func (s *Session) TotalPatterns() int {
	s.mut.Lock()
	defer s.mut.Unlock()
	return s.total
}

// FirstSegment returns the comma-joined input units of the first pattern.
func (s *Session) FirstSegment() string {
	s.mut.Lock()
	defer s.mut.Unlock()
	return strings.Join(s.first, ",")
}
