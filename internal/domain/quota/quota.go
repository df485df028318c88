// Package quota models the per-day reveal counter behind the freemium
// paywall. The counter pairs a count with the calendar day it belongs to and
// silently resets when read on a later day.
package quota

import (
	"context"
	"time"
)

// FreeDailyLimit is the number of listings a user may reveal per day without
// spending credits.
const FreeDailyLimit = 10

// DayFormat keys counters by calendar day in the counter's own location.
const DayFormat = "2006-01-02"

// DailyCounter tracks listings revealed on one calendar day.
type DailyCounter struct {
	Count int    `json:"count" bson:"count"`
	Date  string `json:"date" bson:"date"`
}

// Normalize returns the counter valid for now: unchanged when the stored
// date is today, reset to zero otherwise.
func (c DailyCounter) Normalize(now time.Time) DailyCounter {
	today := now.Format(DayFormat)
	if c.Date == today {
		return c
	}
	return DailyCounter{Count: 0, Date: today}
}

// Remaining reports how many reveals are left under limit. Never negative.
func (c DailyCounter) Remaining(limit int) int {
	left := limit - c.Count
	if left < 0 {
		return 0
	}
	return left
}

// Consume advances the counter by n reveals.
func (c DailyCounter) Consume(n int, now time.Time) DailyCounter {
	norm := c.Normalize(now)
	if n > 0 {
		norm.Count += n
	}
	return norm
}

// Store persists one counter per user. A missing counter reads as zero for
// today.
type Store interface {
	Get(ctx context.Context, userID string, now time.Time) (DailyCounter, error)
	Put(ctx context.Context, userID string, counter DailyCounter) error
}
