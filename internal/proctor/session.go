// Package proctor tracks focus-loss violations during an attempt and forces a
// submission once the candidate exceeds the allowed number of warnings.
package proctor

import (
	"maps"
	"sync"
)

type State int

const (
	StateActive State = iota
	StateWarned
	StateTerminated
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateWarned:
		return "warned"
	case StateTerminated:
		return "terminated"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

const (
	DefaultMaxWarnings = 3
	TerminationReason  = "excessive tab switching"
)

// Submission is the frozen answer set handed to the SubmitFunc.
type Submission struct {
	Answers           map[string]string
	TabSwitchCount    int
	TerminationReason *string
	Forced            bool
}

// SubmitFunc delivers a submission. It is called without the session lock
// held; the caller must report the outcome through Session.Resolve.
type SubmitFunc func(Submission)

type Option func(*Session)

func WithMaxWarnings(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxWarnings = n
		}
	}
}

type Session struct {
	mu          sync.Mutex
	state       State
	prev        State
	violations  int
	answers     map[string]string
	inFlight    bool
	pending     *Submission
	maxWarnings int
	submit      SubmitFunc
}

func NewSession(submit SubmitFunc, opts ...Option) *Session {
	s := &Session{
		state:       StateActive,
		answers:     make(map[string]string),
		maxWarnings: DefaultMaxWarnings,
		submit:      submit,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Violations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.violations
}

func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

func (s *Session) MaxWarnings() int {
	return s.maxWarnings
}

// Answer records a selection. It reports false once answers are frozen.
func (s *Session) Answer(questionID, optionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.interactive() || s.inFlight {
		return false
	}
	if optionID == "" {
		delete(s.answers, questionID)
	} else {
		s.answers[questionID] = optionID
	}
	return true
}

// FocusLost registers one violation and returns the resulting state. The
// violation past the warning limit terminates the session and forces a submit.
// Events arriving while a submit is in flight or after the session ended are
// ignored.
func (s *Session) FocusLost() State {
	s.mu.Lock()
	if !s.interactive() || s.inFlight {
		state := s.state
		s.mu.Unlock()
		return state
	}

	s.violations++
	if s.violations <= s.maxWarnings {
		s.state = StateWarned
		s.mu.Unlock()
		return StateWarned
	}

	reason := TerminationReason
	sub := s.freeze(true, &reason)
	s.prev = s.state
	s.state = StateTerminated
	s.inFlight = true
	s.pending = &sub
	s.mu.Unlock()

	s.submit(sub)
	return StateTerminated
}

// Submit sends the answers manually. After a failed forced submit it re-sends
// the frozen submission. It reports false when the event was ignored.
func (s *Session) Submit() bool {
	s.mu.Lock()
	if s.inFlight || s.state == StateSubmitted {
		s.mu.Unlock()
		return false
	}

	var sub Submission
	if s.state == StateTerminated {
		if s.pending == nil {
			s.mu.Unlock()
			return false
		}
		sub = *s.pending
	} else {
		sub = s.freeze(false, nil)
		s.prev = s.state
		s.state = StateSubmitted
		s.pending = &sub
	}
	s.inFlight = true
	s.mu.Unlock()

	s.submit(sub)
	return true
}

// Resolve reports the outcome of the last submit. On failure a manual submit
// returns the session to its previous interactive state, while a terminated
// session stays terminated and keeps its frozen answers for a retry.
func (s *Session) Resolve(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inFlight {
		return
	}
	s.inFlight = false
	if err == nil {
		s.pending = nil
		return
	}
	if s.state == StateSubmitted {
		s.state = s.prev
		s.pending = nil
	}
}

func (s *Session) interactive() bool {
	return s.state == StateActive || s.state == StateWarned
}

func (s *Session) freeze(forced bool, reason *string) Submission {
	return Submission{
		Answers:           maps.Clone(s.answers),
		TabSwitchCount:    s.violations,
		TerminationReason: reason,
		Forced:            forced,
	}
}
