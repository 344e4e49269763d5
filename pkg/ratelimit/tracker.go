package ratelimit

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/fitcomp/pkg/clock"
)

// ErrRateLimitExceeded is returned by LogRequest once a window is exhausted.
var ErrRateLimitExceeded = errors.New("provider rate limit exceeded")

const window = 15 * time.Minute

// Limits are the provider quotas per 15-minute slot and per UTC day.
type Limits struct {
	Per15Min int `yaml:"per_15min"`
	PerDay   int `yaml:"per_day"`
}

// DefaultLimits mirrors the documented quota of the activity provider.
var DefaultLimits = Limits{Per15Min: 100, PerDay: 1000}

// Usage is a snapshot of the current window counters.
type Usage struct {
	Requests15Min int `json:"requests_15min"`
	RequestsToday int `json:"requests_today"`
	Limit15Min    int `json:"limit_15min"`
	LimitDay      int `json:"limit_day"`
}

// Tracker counts outbound requests against one provider's quota.
// Windows are aligned to UTC 15-minute slots and UTC calendar days.
type Tracker struct {
	mu     sync.Mutex
	clock  clock.Clock
	limits Limits

	slot     time.Time
	day      time.Time
	count15  int
	countDay int
}

// NewTracker builds a tracker. A nil clock reads the system clock.
func NewTracker(limits Limits, c clock.Clock) *Tracker {
	if c == nil {
		c = clock.Real{}
	}
	if limits.Per15Min <= 0 {
		limits.Per15Min = DefaultLimits.Per15Min
	}
	if limits.PerDay <= 0 {
		limits.PerDay = DefaultLimits.PerDay
	}
	now := c.Now().UTC()
	return &Tracker{
		clock:  c,
		limits: limits,
		slot:   now.Truncate(window),
		day:    truncateDay(now),
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// rollLocked resets counters whose window has passed. Caller holds mu.
func (t *Tracker) rollLocked() {
	now := t.clock.Now().UTC()
	if slot := now.Truncate(window); !slot.Equal(t.slot) {
		t.slot = slot
		t.count15 = 0
	}
	if day := truncateDay(now); !day.Equal(t.day) {
		t.day = day
		t.countDay = 0
	}
}

// LogRequest records one provider response. Every call counts towards the
// daily window. A 429 saturates the 15-minute window. A request made while
// either window is already full is reported as exceeded.
func (t *Tracker) LogRequest(status int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollLocked()
	t.countDay++

	if status == http.StatusTooManyRequests {
		t.count15 = t.limits.Per15Min
		return ErrRateLimitExceeded
	}
	if t.count15 >= t.limits.Per15Min || t.countDay >= t.limits.PerDay {
		return ErrRateLimitExceeded
	}
	t.count15++
	return nil
}

// Usage returns the counters after rolling expired windows.
func (t *Tracker) Usage() Usage {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollLocked()
	return Usage{
		Requests15Min: t.count15,
		RequestsToday: t.countDay,
		Limit15Min:    t.limits.Per15Min,
		LimitDay:      t.limits.PerDay,
	}
}

// OKWorkoutRequests reports whether bulk workout fetches may proceed:
// at most 80% of the daily and 66% of the 15-minute quota used.
func (t *Tracker) OKWorkoutRequests() bool {
	u := t.Usage()
	return float64(u.RequestsToday) <= float64(u.LimitDay)*0.8 &&
		float64(u.Requests15Min) <= float64(u.Limit15Min)*0.66
}

// OKLinkageRequests reports whether account-linking calls may proceed.
func (t *Tracker) OKLinkageRequests() bool {
	u := t.Usage()
	return u.RequestsToday <= u.LimitDay && u.Requests15Min <= u.Limit15Min
}

// Registry hands out one tracker per provider name.
type Registry struct {
	mu       sync.Mutex
	clock    clock.Clock
	limits   Limits
	trackers map[string]*Tracker
}

// NewRegistry builds a registry whose trackers share limits and clock.
func NewRegistry(limits Limits, c clock.Clock) *Registry {
	return &Registry{clock: c, limits: limits, trackers: make(map[string]*Tracker)}
}

// Tracker returns the tracker for provider, creating it on first use.
func (r *Registry) Tracker(provider string) *Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trackers[provider]
	if !ok {
		t = NewTracker(r.limits, r.clock)
		r.trackers[provider] = t
	}
	return t
}
