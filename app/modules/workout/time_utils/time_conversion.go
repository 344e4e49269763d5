package workouttime

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Black-And-White-Club/fitcomp/pkg/clock"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var (
	// ErrEmptyInput is returned for blank start times.
	ErrEmptyInput = errors.New("start time is empty")
	// ErrFutureStart is returned when the parsed start lies ahead of now.
	ErrFutureStart = errors.New("workout start must not be in the future")
)

var compactClock = regexp.MustCompile(`\b(\d{1,2})(\d{2})(am|pm)\b`)

// StartParser turns operator input such as "yesterday 7am" into a workout
// start instant in the scoring time zone.
type StartParser struct {
	loc   *time.Location
	clock clock.Clock
	w     *when.Parser
}

// NewStartParser builds a parser. A nil location means UTC and a nil clock
// reads the system clock.
func NewStartParser(loc *time.Location, c clock.Clock) *StartParser {
	if loc == nil {
		loc = time.UTC
	}
	if c == nil {
		c = clock.Real{}
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &StartParser{loc: loc, clock: c, w: w}
}

// Parse accepts RFC 3339 timestamps, "2006-01-02 15:04" local times and
// natural language relative to now.
func (p *StartParser) Parse(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, ErrEmptyInput
	}

	now := p.clock.Now().In(p.loc)
	parsed, err := p.parse(input, now)
	if err != nil {
		return time.Time{}, err
	}

	parsed = parsed.Truncate(time.Minute)
	if parsed.After(now) {
		return time.Time{}, fmt.Errorf("%w (parsed: %s, now: %s)", ErrFutureStart, parsed.Format(time.RFC3339), now.Format(time.RFC3339))
	}
	return parsed, nil
}

func (p *StartParser) parse(input string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t.In(p.loc), nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", input, p.loc); err == nil {
		return t, nil
	}

	// "932am" reads as "9:32 am".
	normalized := compactClock.ReplaceAllString(strings.ToLower(input), "$1:$2 $3")

	r, err := p.w.Parse(normalized, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse start %q: %w", input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("could not recognize start time: %s", input)
	}
	return r.Time.In(p.loc), nil
}
