package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRentalDaysRoundsUp(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		end  time.Time
		days int
	}{
		{"one exact day", start.Add(24 * time.Hour), 1},
		{"three exact days", start.AddDate(0, 0, 3), 3},
		{"one hour", start.Add(time.Hour), 1},
		{"a day and a minute", start.Add(24*time.Hour + time.Minute), 2},
		{"across month end", time.Date(2024, 4, 2, 12, 0, 0, 0, time.UTC), 33},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.days, RentalDays(start, tc.end))
		})
	}
}

func TestRentalCost(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	assert.InDelta(t, 120.0, RentalCost(start, start.AddDate(0, 0, 3), 40), 1e-9)
	assert.InDelta(t, 99.0, RentalCost(start, start.Add(25*time.Hour), 49.5), 1e-9)
}

func TestRentalTransitions(t *testing.T) {
	cases := []struct {
		from, to RentalStatus
		ok       bool
	}{
		{RentalPending, RentalApproved, true},
		{RentalPending, RentalCancelled, true},
		{RentalPending, RentalCompleted, false},
		{RentalApproved, RentalCompleted, true},
		{RentalActive, RentalCompleted, true},
		{RentalActive, RentalCancelled, true},
		{RentalActive, RentalApproved, false},
		{RentalCompleted, RentalCancelled, false},
		{RentalCancelled, RentalActive, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
	assert.True(t, RentalActive.Holding())
	assert.True(t, RentalApproved.Holding())
	assert.False(t, RentalPending.Holding())
}
