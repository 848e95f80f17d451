package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddRatingKeepsRunningMean(t *testing.T) {
	cases := []struct {
		name    string
		average float64
		count   int
		rating  int
		want    float64
	}{
		{"first rating", 0, 0, 4, 4},
		{"second rating", 4, 1, 5, 4.5},
		{"pulls mean down", 4.5, 2, 1, 10.0 / 3},
		{"many ratings", 3.2, 10, 5, (3.2*10 + 5) / 11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Car{RatingsAverage: tc.average, RatingsQuantity: tc.count}
			c.AddRating(tc.rating)
			assert.InDelta(t, tc.want, c.RatingsAverage, 1e-9)
			assert.Equal(t, tc.count+1, c.RatingsQuantity)
		})
	}
}

func TestCarDefaultsAndValidation(t *testing.T) {
	c := Car{Brand: "Fiat", Model: "Egea", Year: 2022, PricePerDay: 40}
	c.ApplyDefaults()
	assert.NoError(t, c.Validate())
	assert.Equal(t, 5, c.Seats)
	assert.Equal(t, "Economy", c.Category)
	assert.Equal(t, CarActive, c.Status)
	assert.Equal(t, "Fiat Egea", c.Title())

	c.IsAvailable = true
	assert.True(t, c.Rentable())
	c.Status = CarRemoved
	assert.False(t, c.Rentable())
	assert.Error(t, c.Validate())

	assert.Error(t, (&Car{Brand: "Fiat", Model: "Egea", Year: 2022}).Validate())
}
