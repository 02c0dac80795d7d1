package model

import (
	"errors"
	"fmt"
	"time"
)

// MinScheduleLead is the minimum distance between now and a schedule time.
const MinScheduleLead = time.Minute

var ErrScheduleTooSoon = errors.New("scheduled time is too soon")

// MinScheduleTime returns the earliest time a message may be scheduled for.
func MinScheduleTime(now time.Time) time.Time {
	return now.Add(MinScheduleLead)
}

// CheckScheduleTime rejects schedule times closer to now than lead.
func CheckScheduleTime(at, now time.Time, lead time.Duration) error {
	if at.Before(now.Add(lead)) {
		return fmt.Errorf("%w: must be at least %s in the future", ErrScheduleTooSoon, lead)
	}
	return nil
}
