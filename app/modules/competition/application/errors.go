package competitionservice

import (
	"errors"
	"fmt"
)

// ErrPermissionDenied is returned when the actor may not perform the mutation.
var ErrPermissionDenied = errors.New("permission denied")

var (
	ErrNotOwner       = fmt.Errorf("%w: only the competition owner may do this", ErrPermissionDenied)
	ErrNotParticipant = fmt.Errorf("%w: user is not a participant", ErrPermissionDenied)
	ErrTeamsDisabled  = fmt.Errorf("%w: teams are disabled for this competition", ErrPermissionDenied)
	ErrInvalidName    = errors.New("name is required")
)
