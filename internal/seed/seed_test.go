package seed

import (
	"testing"

	catalogdomain "github.com/Achorval/Voouch-Api-sub001/internal/catalog/domain"
	tierlimitdomain "github.com/Achorval/Voouch-Api-sub001/internal/tierlimit/domain"
	"github.com/Achorval/Voouch-Api-sub001/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDefaultsIsIdempotent(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&tierlimitdomain.TierLimit{}, &catalogdomain.Category{}))

	require.NoError(t, EnsureDefaults(conn, nil, nil))
	require.NoError(t, EnsureDefaults(conn, nil, nil))

	var tiers []tierlimitdomain.TierLimit
	require.NoError(t, conn.Order("level asc").Find(&tiers).Error)
	require.Len(t, tiers, len(defaultTiers))
	for i := 1; i < len(tiers); i++ {
		assert.False(t, tiers[i].DailyLimit.LessThan(tiers[i-1].DailyLimit))
		assert.False(t, tiers[i].MaximumBalance.LessThan(tiers[i-1].MaximumBalance))
	}

	var categories []catalogdomain.Category
	require.NoError(t, conn.Find(&categories).Error)
	assert.Len(t, categories, len(defaultCategories))

	var cable catalogdomain.Category
	require.NoError(t, conn.Where("slug = ?", "cable-tv").Take(&cable).Error)
	assert.Equal(t, "Cable TV", cable.Name)
}
