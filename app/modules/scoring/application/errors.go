package scoringservice

import (
	"errors"

	"github.com/Black-And-White-Club/fitcomp/pkg/dberrors"
)

// ErrConcurrentModification is returned when a reconciliation lost a race
// twice in a row.
var ErrConcurrentModification = dberrors.ErrConcurrentModification

// ErrWorkoutOutsideCompetition is returned when an award targets a workout
// that cannot score in the award's competition.
var ErrWorkoutOutsideCompetition = errors.New("workout is not part of the competition")
