package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	tierlimitdomain "github.com/Achorval/Voouch-Api-sub001/internal/tierlimit/domain"
	"github.com/Achorval/Voouch-Api-sub001/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"validation", tierlimitdomain.ErrInvalidDailyLimit, http.StatusBadRequest, "validation_error"},
		{"wrapped not found", fmt.Errorf("get: %w", tierlimitdomain.ErrNotFound), http.StatusNotFound, "not_found"},
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound, "not_found"},
		{"conflict", apperror.Wrap(tierlimitdomain.ErrLevelExists, errors.New("duplicate")), http.StatusConflict, "conflict"},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{"unavailable", ErrServiceUnavailable, http.StatusServiceUnavailable, "service_unavailable"},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.kind, payload.Type)
		})
	}
}

func TestMapErrorValidationField(t *testing.T) {
	_, payload := mapError(tierlimitdomain.ErrInvalidMaximumBalance)
	if assert.Len(t, payload.Errors, 1) {
		assert.Equal(t, "maximum_balance", payload.Errors[0].Field)
		assert.Equal(t, "invalid_maximum_balance", payload.Errors[0].Code)
	}
}

func TestClassifyErrorForLog(t *testing.T) {
	kind, code := classifyErrorForLog(invalidRequestError())
	assert.Equal(t, "validation_error", kind)
	assert.Equal(t, "invalid_request", code)

	kind, code = classifyErrorForLog(tierlimitdomain.ErrNotFound)
	assert.Equal(t, "not_found", kind)
	assert.Equal(t, "tier_limit_not_found", code)

	kind, code = classifyErrorForLog(nil)
	assert.Empty(t, kind)
	assert.Empty(t, code)
}

func TestParseOptionalTime(t *testing.T) {
	start, err := parseOptionalTime("2024-05-01", false)
	assert.NoError(t, err)
	assert.Equal(t, "2024-05-01T00:00:00Z", start.Format("2006-01-02T15:04:05Z07:00"))

	end, err := parseOptionalTime("2024-05-01", true)
	assert.NoError(t, err)
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Second())

	exact, err := parseOptionalTime("2024-05-01T10:30:00+01:00", false)
	assert.NoError(t, err)
	assert.Equal(t, 9, exact.Hour())

	none, err := parseOptionalTime(" ", true)
	assert.NoError(t, err)
	assert.Nil(t, none)

	_, err = parseOptionalTime("01/05/2024", false)
	assert.Error(t, err)
}
