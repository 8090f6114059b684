package game

import "errors"

// Precondition failures. Every one of them leaves the engine unchanged.
var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrCannotCheck       = errors.New("cannot check, must call")
	ErrRaiseCapReached   = errors.New("raise cap reached")
	ErrRaiseTooSmall     = errors.New("raise too small")
	ErrNotEnoughChips    = errors.New("not enough chips")
	ErrInvalidAction     = errors.New("invalid action")
	ErrHandNotInProgress = errors.New("no hand in progress")
)

// Setup failures.
var (
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrDuplicatePlayer  = errors.New("player already seated")
	ErrTableFull        = errors.New("table is full")
	ErrInvalidChips     = errors.New("chips must not be negative")
	ErrHandInProgress   = errors.New("hand in progress")
)
