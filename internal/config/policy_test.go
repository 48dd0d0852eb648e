package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefaultPolicyIsValid(t *testing.T) {
	require.NoError(t, ValidatePolicy(DefaultPolicy()))
}

func TestValidatePolicyRejectsBadValues(t *testing.T) {
	p := DefaultPolicy()
	p.Fees.MaxPercentage = "1.5"
	assert.Error(t, ValidatePolicy(p))

	p = DefaultPolicy()
	p.Tickets.NumberLength = 2
	assert.Error(t, ValidatePolicy(p))

	p = DefaultPolicy()
	p.Pagination.MaxLimit = 5
	assert.Error(t, ValidatePolicy(p))
}

func TestNewPolicyHolderReadsFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yml")
	content := []byte(`policy:
  tiers:
    enforceMonotonic: false
  tickets:
    numberPrefix: SUP
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	holder, err := NewPolicyHolder(Config{PolicyConfigPath: path}, zap.NewNop())
	require.NoError(t, err)

	policy := holder.Get()
	assert.False(t, policy.Tiers.EnforceMonotonic)
	assert.Equal(t, "SUP", policy.Tickets.NumberPrefix)
	assert.Equal(t, 8, policy.Tickets.NumberLength)
	assert.Equal(t, "1", policy.Fees.MaxPercentage)
}

func TestNilHolderFallsBackToDefaults(t *testing.T) {
	var holder *PolicyHolder
	assert.Equal(t, DefaultPolicy(), holder.Get())
}
