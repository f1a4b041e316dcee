// Package market classifies trading sessions and resolves the effective
// last price from a raw provider quote.
package market

import (
	"fmt"
	"time"

	"github.com/kjannette/trahn-stocks-backend/internal/apperr"
)

// DefaultTimezone is the financial center whose civil time drives sessions.
const DefaultTimezone = "America/New_York"

type Session string

const (
	SessionClosed     Session = "closed"
	SessionPremarket  Session = "premarket"
	SessionRegular    Session = "regular"
	SessionPostmarket Session = "postmarket"
)

// Classify maps an instant to a session using the wall clock in loc.
// Boundaries: 04:00 premarket, 09:30 regular, 16:00 postmarket, 20:00 closed.
func Classify(now time.Time, loc *time.Location) Session {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	h, m := local.Hour(), local.Minute()

	switch wd := local.Weekday(); {
	case wd == time.Saturday || wd == time.Sunday:
		return SessionClosed
	case h < 4:
		return SessionClosed
	case h < 9 || (h == 9 && m < 30):
		return SessionPremarket
	case h < 16:
		return SessionRegular
	case h < 20:
		return SessionPostmarket
	}
	return SessionClosed
}

// LoadLocation resolves a timezone name, wrapping failures as invalid input.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("market timezone %q: %w", name, apperr.ErrInvalidInput)
	}
	return loc, nil
}

// Classifier binds a location and clock so callers can ask for the current
// session without touching the wall clock directly.
type Classifier struct {
	Location *time.Location
	Now      func() time.Time
}

func NewClassifier(loc *time.Location) *Classifier {
	return &Classifier{Location: loc, Now: time.Now}
}

func (c *Classifier) Current() Session {
	return Classify(c.now(), c.Zone())
}

// Time returns the classifier's current instant in the market location.
func (c *Classifier) Time() time.Time {
	return c.now().In(c.Zone())
}

// Zone is the market location, UTC when none was set.
func (c *Classifier) Zone() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c *Classifier) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
