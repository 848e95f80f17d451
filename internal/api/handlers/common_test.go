package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/rentacar-backend/internal/apperr"
)

func TestParseDate(t *testing.T) {
	d, err := parseDate("startDate", "2026-05-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDate("startDate", "2026-05-01T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC), d)
	assert.Equal(t, time.UTC, d.Location())

	_, err = parseDate("endDate", "05/01/2026")
	assert.ErrorIs(t, err, apperr.ErrInvalidDates)
	assert.Contains(t, err.Error(), "endDate")
}
