package interact

import "time"

// DefaultSessionLength is the round timer.
const DefaultSessionLength = 25 * time.Second

// Session holds the round's counters. Remaining and Score are always derived
// from the counters, never stored.
type Session struct {
	Length time.Duration

	started time.Time
	spawned int
	clicked int
	escaped int
	ended   bool
}

func NewSession(length time.Duration) *Session {
	if length <= 0 {
		length = DefaultSessionLength
	}
	return &Session{Length: length}
}

// Start begins the round at now and zeroes the counters.
func (s *Session) Start(now time.Time) {
	s.started = now
	s.spawned, s.clicked, s.escaped = 0, 0, 0
	s.ended = false
}

func (s *Session) Started() bool { return !s.started.IsZero() }

func (s *Session) RecordSpawn()  { s.spawned++ }
func (s *Session) RecordClick()  { s.clicked++ }
func (s *Session) RecordEscape() { s.escaped++ }

func (s *Session) Spawned() int { return s.spawned }
func (s *Session) Clicked() int { return s.clicked }

// Escaped counts objects that drifted out without being clicked.
func (s *Session) Escaped() int { return s.escaped }

// Remaining is every spawned object that was not clicked.
func (s *Session) Remaining() int { return s.spawned - s.clicked }

func (s *Session) Score() int { return s.clicked - s.Remaining() }

// TimeLeft never goes below zero. Before Start it reports the full length.
func (s *Session) TimeLeft(now time.Time) time.Duration {
	if !s.Started() {
		return s.Length
	}
	if s.ended {
		return 0
	}
	left := s.Length - now.Sub(s.started)
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether a live round has run out of time at now.
func (s *Session) Expired(now time.Time) bool {
	return s.Started() && !s.ended && s.TimeLeft(now) == 0
}

func (s *Session) End()        { s.ended = true }
func (s *Session) Ended() bool { return s.ended }
