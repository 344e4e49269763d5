package competitiondomain

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidCompetition = errors.New("invalid competition")

// JoinCodeLength is the number of characters in a join code.
const JoinCodeLength = 6

const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Competition is a dated contest owned by one user. StartDate and EndDate are
// inclusive calendar dates stored as midnight UTC.
type Competition struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Name           string
	StartDate      time.Time
	EndDate        time.Time
	HasTeams       bool
	JoinCode       string
	DefaultGoalCap decimal.NullDecimal
}

// Validate checks the fields a caller supplies.
func (c Competition) Validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidCompetition)
	case c.StartDate.IsZero() || c.EndDate.IsZero():
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidCompetition)
	case c.EndDate.Before(c.StartDate):
		return fmt.Errorf("%w: end date is before start date", ErrInvalidCompetition)
	case c.DefaultGoalCap.Valid && c.DefaultGoalCap.Decimal.IsNegative():
		return fmt.Errorf("%w: default goal cap cannot be negative", ErrInvalidCompetition)
	}
	return nil
}

// ContainsDate reports whether the calendar date d (midnight UTC) falls within
// the competition, both ends included.
func (c Competition) ContainsDate(d time.Time) bool {
	return !d.Before(c.StartDate) && !d.After(c.EndDate)
}

// Window returns the instants bounding the competition in loc: the start of
// the first day and the start of the day after the last one.
func (c Competition) Window(loc *time.Location) (from, to time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	sy, sm, sd := c.StartDate.Date()
	ey, em, ed := c.EndDate.Date()
	return time.Date(sy, sm, sd, 0, 0, 0, 0, loc), time.Date(ey, em, ed+1, 0, 0, 0, 0, loc)
}

// NewJoinCode returns a random join code. Ambiguous characters (0, O, 1, I)
// are never produced.
func NewJoinCode() (string, error) {
	buf := make([]byte, JoinCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate join code: %w", err)
	}
	for i, b := range buf {
		buf[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
	}
	return string(buf), nil
}

// NormalizeJoinCode makes user input comparable to stored codes.
func NormalizeJoinCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Team groups competition members. A user is in at most one team per competition.
type Team struct {
	ID            uuid.UUID
	CompetitionID uuid.UUID
	Name          string
}

// Award is a manually granted point source, outside of goal matching.
type Award struct {
	ID            uuid.UUID
	CompetitionID uuid.UUID
	Name          string
}
