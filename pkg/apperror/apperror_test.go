package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	errMissing := NotFound("ticket_not_found")

	assert.Equal(t, KindNotFound, KindOf(errMissing))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("get ticket: %w", errMissing)))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestWrapKeepsSentinelIdentity(t *testing.T) {
	errDup := Conflict("tier_level_exists")
	cause := errors.New("UNIQUE constraint failed: tier_limits.level")

	wrapped := Wrap(errDup, cause)

	assert.ErrorIs(t, wrapped, errDup)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.Equal(t, "tier_level_exists", CodeOf(wrapped))
}

func TestField(t *testing.T) {
	assert.Equal(t, "fee_value", Validation("invalid_fee_value").Field())
	assert.Equal(t, "", Validation("tier_limit_not_monotonic").Field())
}
