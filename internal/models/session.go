package models

import (
	"time"

	"github.com/google/uuid"
)

// Session tracks the progress of one daily or practice round
type Session struct {
	ID       string `json:"id"`
	Mode     Mode   `json:"mode"`
	DateKey  string `json:"date_key"`  // YYYY-MM-DD of the day the session belongs to
	PoolSlot int    `json:"pool_slot"` // catalog index the target was drawn from

	Target  *ItemRecord   `json:"target"`
	Guesses []GuessResult `json:"guesses"`

	Won      bool `json:"won"`
	GaveUp   bool `json:"gave_up"`
	HintUsed bool `json:"hint_used"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewSession creates an in-progress session for the given target
func NewSession(mode Mode, dateKey string, slot int, target *ItemRecord, now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Mode:      mode,
		DateKey:   dateKey,
		PoolSlot:  slot,
		Target:    target,
		Guesses:   []GuessResult{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Status returns the session state
func (s *Session) Status() Status {
	switch {
	case s.Won:
		return StatusWon
	case s.GaveUp:
		return StatusGaveUp
	default:
		return StatusInProgress
	}
}

// IsTerminal reports whether the session no longer accepts guesses
func (s *Session) IsTerminal() bool {
	return s.Won || s.GaveUp
}

// Record appends a guess result, marking the session won on a correct guess
func (s *Session) Record(result GuessResult, now time.Time) error {
	if s.IsTerminal() {
		return ErrTerminalSession
	}

	s.Guesses = append(s.Guesses, result)
	s.UpdatedAt = now
	if result.Correct {
		s.Won = true
		s.CompletedAt = &now
	}
	return nil
}

// GiveUp ends the session without a win
func (s *Session) GiveUp(now time.Time) error {
	if s.IsTerminal() {
		return ErrTerminalSession
	}

	s.GaveUp = true
	s.UpdatedAt = now
	s.CompletedAt = &now
	return nil
}

// UseHint marks the hint as used. It returns false when nothing changed,
// either because the hint was already used or the session is finished.
func (s *Session) UseHint(now time.Time) bool {
	if s.HintUsed || s.IsTerminal() {
		return false
	}

	s.HintUsed = true
	s.UpdatedAt = now
	return true
}

// HasGuessed reports whether the record id was already guessed
func (s *Session) HasGuessed(id int) bool {
	for _, g := range s.Guesses {
		if g.Guess != nil && g.Guess.ID == id {
			return true
		}
	}
	return false
}

// Clone returns a deep enough copy for callers that must not mutate the session
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Guesses = append([]GuessResult(nil), s.Guesses...)
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// ArchivedSession is a finished or abandoned daily session kept for stats
type ArchivedSession struct {
	ID        uint64 `boltholdKey:"ID"`
	SessionID string
	DateKey   string `boltholdIndex:"DateKey"`
	TargetID  int
	Title     string
	Guesses   int
	Won       bool
	GaveUp    bool
	HintUsed  bool

	ArchivedAt time.Time
}
