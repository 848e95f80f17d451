package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/rentacar-backend/internal/apperr"
)

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("rent car: %w", apperr.ErrNotAvailable.WithMsg("taken"))

	assert.True(t, errors.Is(err, apperr.ErrNotAvailable))
	assert.False(t, errors.Is(err, apperr.ErrDuplicateReview))
}

func TestTxFailedKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperr.TxFailed(cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, apperr.ErrTransactionFailed)
	assert.Equal(t, http.StatusInternalServerError, err.Kind.Status())
	assert.Nil(t, apperr.ErrTransactionFailed.Err, "sentinel must not be mutated")
}

func TestFrom(t *testing.T) {
	require.Nil(t, apperr.From(nil))

	ae := apperr.From(fmt.Errorf("wrapped: %w", apperr.ErrInvalidRating))
	assert.Equal(t, apperr.CodeInvalidRating, ae.Code)
	assert.Equal(t, apperr.KindValidation, ae.Kind)

	foreign := apperr.From(errors.New("boom"))
	assert.Equal(t, apperr.KindInternal, foreign.Kind)
	assert.Equal(t, "internal error", foreign.Msg)
}

func TestKindStatus(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.KindValidation:        http.StatusBadRequest,
		apperr.KindUnauthorized:      http.StatusUnauthorized,
		apperr.KindForbidden:         http.StatusForbidden,
		apperr.KindNotFound:          http.StatusNotFound,
		apperr.KindConflict:          http.StatusConflict,
		apperr.KindTransactionFailed: http.StatusInternalServerError,
		apperr.KindInternal:          http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.Status(), kind.String())
	}
}
