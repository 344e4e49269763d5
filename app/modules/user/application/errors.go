package userservice

import "errors"

var (
	ErrInvalidUsername    = errors.New("username must be 3 to 32 characters")
	ErrInvalidScalingKcal = errors.New("kcal scaling must be between 0.5 and 2")
)
