package vat_test

import (
	"testing"
	"time"

	"empi/internal/core/domain/model/vat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lagos = time.FixedZone("WAT", 60*60)

func TestWindowFor(t *testing.T) {
	t.Run("should run from the 22nd of the previous month to the 22nd", func(t *testing.T) {
		w := vat.WindowFor(vat.Key{Year: 2025, Month: time.March}, lagos)

		assert.Equal(t, time.Date(2025, time.February, 22, 0, 0, 0, 0, lagos), w.Start)
		assert.Equal(t, time.Date(2025, time.March, 22, 0, 0, 0, 0, lagos), w.End)
	})

	t.Run("should wrap January into the previous year", func(t *testing.T) {
		w := vat.WindowFor(vat.Key{Year: 2025, Month: time.January}, lagos)

		assert.Equal(t, time.Date(2024, time.December, 22, 0, 0, 0, 0, lagos), w.Start)
	})

	t.Run("should include the 21st and exclude the 22nd", func(t *testing.T) {
		w := vat.WindowFor(vat.Key{Year: 2025, Month: time.March}, lagos)

		assert.True(t, w.Contains(time.Date(2025, time.March, 21, 23, 59, 59, 0, lagos)))
		assert.False(t, w.Contains(time.Date(2025, time.March, 22, 0, 0, 0, 0, lagos)))
		assert.True(t, w.Contains(time.Date(2025, time.February, 22, 0, 0, 0, 0, lagos)))
	})

	t.Run("should evaluate instants in the accounting zone", func(t *testing.T) {
		w := vat.WindowFor(vat.Key{Year: 2025, Month: time.March}, lagos)

		// 23:30 UTC on the 21st is 00:30 on the 22nd in Lagos.
		assert.False(t, w.Contains(time.Date(2025, time.March, 21, 23, 30, 0, 0, time.UTC)))
	})

	t.Run("adjacent windows should tile without gaps", func(t *testing.T) {
		k := vat.Key{Year: 2024, Month: time.November}
		for range 14 {
			assert.Equal(t, vat.WindowFor(k, lagos).End, vat.WindowFor(k.Next(), lagos).Start, k.String())
			k = k.Next()
		}
	})
}

func TestKeyAt(t *testing.T) {
	tests := []struct {
		at   time.Time
		want vat.Key
	}{
		{time.Date(2025, time.March, 1, 0, 0, 0, 0, lagos), vat.Key{Year: 2025, Month: time.March}},
		{time.Date(2025, time.March, 21, 23, 59, 0, 0, lagos), vat.Key{Year: 2025, Month: time.March}},
		{time.Date(2025, time.March, 22, 0, 0, 0, 0, lagos), vat.Key{Year: 2025, Month: time.April}},
		{time.Date(2025, time.December, 25, 0, 0, 0, 0, lagos), vat.Key{Year: 2026, Month: time.January}},
	}

	for _, tt := range tests {
		t.Run(tt.at.String(), func(t *testing.T) {
			k := vat.KeyAt(tt.at, lagos)

			assert.Equal(t, tt.want, k)
			assert.True(t, vat.WindowFor(k, lagos).Contains(tt.at))
		})
	}
}

func TestNewKey(t *testing.T) {
	_, err := vat.NewKey(2025, 13)
	require.Error(t, err)

	k, err := vat.NewKey(2025, time.June)
	require.NoError(t, err)
	assert.Equal(t, "2025-06", k.String())
	assert.True(t, k.Previous().Before(k))
}
