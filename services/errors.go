package services

import "errors"

// Shared errors used across services and the HTTP mapping.
var (
	// Not-found family
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrTeamNotFound        = errors.New("competition team not found")

	// Precondition violations (checked before any write)
	ErrInsufficientTeams     = errors.New("at least 2 confirmed teams are required")
	ErrFixturesAlreadyExist  = errors.New("fixtures have already been generated for this competition")
	ErrMatchAlreadyCompleted = errors.New("match result has already been recorded")
	ErrMatchMissingTeams     = errors.New("match has no team assigned on one or both sides")
	ErrNegativeScore         = errors.New("scores must not be negative")
)
