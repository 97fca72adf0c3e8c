package ordernumber_test

import (
	"strings"
	"testing"

	"empi/internal/adapters/out/ordernumber"
	"empi/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflakeGenerator_UniqueAndPrefixed(t *testing.T) {
	g, err := ordernumber.NewSnowflakeGenerator(7)
	require.NoError(t, err)

	seen := make(map[order.Number]struct{}, 1000)
	for range 1000 {
		n := g.Next()
		require.NoError(t, n.Validate())
		assert.True(t, strings.HasPrefix(n.String(), order.NumberPrefix))
		assert.Equal(t, strings.ToUpper(n.String()), n.String())
		_, dup := seen[n]
		require.False(t, dup, "duplicate number %s", n)
		seen[n] = struct{}{}
	}
}

func TestNewSnowflakeGenerator_NodeOutOfRange(t *testing.T) {
	_, err := ordernumber.NewSnowflakeGenerator(4096)
	require.Error(t, err)
}
