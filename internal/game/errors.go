package game

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidState       = errors.New("invalid state for action")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrAlreadyExists      = errors.New("already exists")
	ErrRateLimited        = errors.New("rate limited")
)

var (
	ErrRoomNotFound   = fmt.Errorf("room %w", ErrNotFound)
	ErrPlayerNotFound = fmt.Errorf("player %w", ErrNotFound)
	ErrRoomExists     = fmt.Errorf("room %w", ErrAlreadyExists)
	ErrPlayerExists   = fmt.Errorf("player %w", ErrAlreadyExists)

	ErrNotHost           = fmt.Errorf("not host: %w", ErrUnauthorized)
	ErrNotDrawer         = fmt.Errorf("not drawer: %w", ErrUnauthorized)
	ErrDrawerCannotGuess = fmt.Errorf("drawer cannot guess: %w", ErrUnauthorized)

	ErrAlreadyGuessed   = fmt.Errorf("already guessed: %w", ErrInvalidState)
	ErrTeamModeDisabled = fmt.Errorf("team mode disabled: %w", ErrInvalidState)
	ErrTeamsLocked      = fmt.Errorf("teams locked: %w", ErrInvalidState)
	ErrGameInProgress   = fmt.Errorf("game in progress: %w", ErrInvalidState)
	ErrRevealsWord      = fmt.Errorf("message reveals the word: %w", ErrInvalidState)

	ErrNotEnoughPlayers = fmt.Errorf("not enough players: %w", ErrPreconditionFailed)
	ErrTeamsNotReady    = fmt.Errorf("teams not ready: %w", ErrPreconditionFailed)
	ErrSpectatorTaken   = fmt.Errorf("spectator slot taken: %w", ErrPreconditionFailed)
	ErrInvalidTeam      = fmt.Errorf("invalid team: %w", ErrPreconditionFailed)
	ErrInvalidMode      = fmt.Errorf("invalid selection mode: %w", ErrPreconditionFailed)
	ErrWordNotOffered   = fmt.Errorf("word not offered: %w", ErrPreconditionFailed)
	ErrEmptyMessage     = fmt.Errorf("empty message: %w", ErrPreconditionFailed)
	ErrUnknownAction    = fmt.Errorf("unknown action: %w", ErrPreconditionFailed)
)

// Code maps an error to the snake_case code sent to clients.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrPreconditionFailed):
		return "precondition_failed"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	default:
		return "internal"
	}
}
