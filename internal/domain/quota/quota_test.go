package quota

import (
	"testing"
	"time"
)

func TestNormalizeResetsOnNewDay(t *testing.T) {
	yesterday := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	today := yesterday.Add(2 * time.Hour)

	c := DailyCounter{Count: 7, Date: yesterday.Format(DayFormat)}
	norm := c.Normalize(today)
	if norm.Count != 0 {
		t.Errorf("expected reset to 0, got %d", norm.Count)
	}
	if norm.Date != today.Format(DayFormat) {
		t.Errorf("expected date %s, got %s", today.Format(DayFormat), norm.Date)
	}
}

func TestNormalizeKeepsSameDay(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := DailyCounter{Count: 4, Date: now.Format(DayFormat)}
	if got := c.Normalize(now); got.Count != 4 {
		t.Errorf("same-day normalize changed count: %d", got.Count)
	}
}

func TestRemaining(t *testing.T) {
	c := DailyCounter{Count: 7}
	if got := c.Remaining(FreeDailyLimit); got != 3 {
		t.Errorf("Remaining = %d; want 3", got)
	}
	c.Count = 12
	if got := c.Remaining(FreeDailyLimit); got != 0 {
		t.Errorf("Remaining past limit = %d; want 0", got)
	}
}

func TestConsume(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := DailyCounter{Count: 7, Date: now.Format(DayFormat)}
	c = c.Consume(3, now)
	if c.Count != 10 {
		t.Errorf("Consume = %d; want 10", c.Count)
	}
	c = c.Consume(-1, now)
	if c.Count != 10 {
		t.Errorf("negative consume changed count: %d", c.Count)
	}
}
