package service

// submission tracks the single outstanding request of a flow. It is not
// safe for concurrent use; flows guard it with their own mutex.
//
// generation is bumped on every navigation, close and reset. A response is
// applied only if the generation it was sent under is still current.
type submission struct {
	busy       bool
	generation uint64
}

func (s *submission) start() (uint64, error) {
	if s.busy {
		return 0, ErrSubmissionInProgress
	}
	s.busy = true
	return s.generation, nil
}

// finish releases the busy flag and reports whether gen is still current.
// A stale finish leaves the flag to the newer state.
func (s *submission) finish(gen uint64) bool {
	if gen != s.generation {
		return false
	}
	s.busy = false
	return true
}

func (s *submission) current(gen uint64) bool {
	return gen == s.generation
}

func (s *submission) invalidate() {
	s.generation++
	s.busy = false
}
