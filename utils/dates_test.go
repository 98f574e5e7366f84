package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	base := time.Date(2026, 8, 1, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysBetween(base, base.Add(5*time.Hour)))
	assert.Equal(t, 1, DaysBetween(base, base.AddDate(0, 0, 1)))
	assert.Equal(t, 10, DaysBetween(base, base.AddDate(0, 0, 10)))
	assert.Equal(t, -3, DaysBetween(base, base.AddDate(0, 0, -3)))

	// Calendar days, not 24h periods: 11pm to 1am the next day is one day.
	late := time.Date(2026, 8, 1, 23, 0, 0, 0, time.UTC)
	early := time.Date(2026, 8, 2, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysBetween(late, early))
}

func TestDayKey(t *testing.T) {
	assert.Equal(t, "2026-08-30", DayKey(time.Date(2026, 8, 30, 18, 45, 0, 0, time.UTC)))
}
