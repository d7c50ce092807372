package models

import "errors"

var (
	// ErrProviderUnavailable is returned when a search or detail fetch failed
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrNotFound is returned when the provider has no record for an id
	ErrNotFound = errors.New("record not found")
	// ErrInvalidRecord is returned when a fetched record misses required fields
	ErrInvalidRecord = errors.New("invalid record")
	// ErrTerminalSession is returned when acting on a won or abandoned session
	ErrTerminalSession = errors.New("session is already finished")
	// ErrCorruptSnapshot is returned when a persisted session cannot be decoded
	ErrCorruptSnapshot = errors.New("corrupt session snapshot")
	// ErrPracticeLocked is returned when practice is requested before the daily game is done
	ErrPracticeLocked = errors.New("practice mode is locked until the daily game is finished")
	// ErrStaleSession is returned when the session changed while a guess was being fetched
	ErrStaleSession = errors.New("session changed during guess")
	// ErrDuplicateGuess is returned when the same record is guessed twice in a session
	ErrDuplicateGuess = errors.New("record already guessed")
	// ErrNoSession is returned when no session exists for the requested mode
	ErrNoSession = errors.New("no active session")
)
