package leaderboardservice

import "errors"

// ErrCompetitionNotFound is returned when stats are requested for an unknown competition.
var ErrCompetitionNotFound = errors.New("competition not found")
