package order_test

import (
	"testing"
	"time"

	"empi/internal/core/domain/model/order"
	"empi/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimer(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		days    int
		hours   int
		wantErr bool
	}{
		{name: "days only", days: 2},
		{name: "hours only", hours: 5},
		{name: "days and hours", days: 1, hours: 12},
		{name: "ceiling", days: order.MaxTimerDays},
		{name: "ceiling with hours past the day limit", days: order.MaxTimerDays, hours: 30},
		{name: "zero duration", wantErr: true},
		{name: "negative days", days: -1, hours: 30, wantErr: true},
		{name: "negative hours", days: 1, hours: -1, wantErr: true},
		{name: "over ceiling", days: order.MaxTimerDays + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timer, err := order.NewTimer(tt.days, tt.hours, start)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errs.IsValidation(err))
				return
			}
			require.NoError(t, err)
			expected := start.Add(time.Duration(tt.days*24+tt.hours) * time.Hour)
			assert.Equal(t, expected, timer.Deadline())
			assert.Equal(t, start, timer.StartedAt())
		})
	}
}

func TestTimer_IsOverdue(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	timer, err := order.NewTimer(0, 4, start)
	require.NoError(t, err)

	assert.False(t, timer.IsOverdue(start.Add(4*time.Hour)))
	assert.True(t, timer.IsOverdue(start.Add(4*time.Hour+time.Second)))
}

func TestRestoreTimer(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	_, err := order.RestoreTimer(start, start.Add(-time.Hour), 1, 0, nil)
	require.Error(t, err)

	timer, err := order.RestoreTimer(start, start.Add(24*time.Hour), 1, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, timer.Duration())
	assert.Nil(t, timer.NotifiedAt())

	early := start.Add(time.Hour)
	_, err = order.RestoreTimer(start, start.Add(24*time.Hour), 1, 0, &early)
	require.Error(t, err)

	late := start.Add(25 * time.Hour)
	timer, err = order.RestoreTimer(start, start.Add(24*time.Hour), 1, 0, &late)
	require.NoError(t, err)
	require.NotNil(t, timer.NotifiedAt())
	assert.True(t, timer.NotifiedAt().Equal(late))
}
