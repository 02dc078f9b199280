// Package repository is the only code that talks to the database through GORM.
//
// It turns rows into the scoring package's Game snapshot and writes score and Wolf entries
// back. Handlers never see a *gorm.DB; they get these stores through small interfaces, so
// they can be tested against in-memory fakes.
package repository

import "errors"

// Sentinel errors. Wrapped with fmt.Errorf("...: %w") where extra context helps; callers
// check them with errors.Is.
var (
	ErrRoundNotFound    = errors.New("round not found")
	ErrPlayerNotInRound = errors.New("player is not in this round")
	ErrInvalidHole      = errors.New("hole number must be between 1 and 18")
	ErrInvalidScore     = errors.New("gross must be positive and putts cannot be negative")
	ErrHoleStarted      = errors.New("hole already has scores; the wolf decision is locked")
	ErrInvalidDecision  = errors.New("wolf decision is not valid for this group")
)
