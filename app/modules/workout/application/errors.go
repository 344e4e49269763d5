package workoutservice

import "errors"

// ErrNotOwner is returned when a workout is mutated by someone other than its owner.
var ErrNotOwner = errors.New("workout belongs to another user")
