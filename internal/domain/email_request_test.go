package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeScheduledAt(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 30, 45, 123456789, time.UTC)

	t.Run("nil means now", func(t *testing.T) {
		got, err := NormalizeScheduledAt(nil, now)
		require.NoError(t, err)
		assert.Equal(t, now.Truncate(time.Second), got)
		assert.Equal(t, time.UTC, got.Location())
	})

	t.Run("empty string means now", func(t *testing.T) {
		empty := ""
		got, err := NormalizeScheduledAt(&empty, now)
		require.NoError(t, err)
		assert.Equal(t, now.Truncate(time.Second), got)
	})

	t.Run("valid value is parsed as local time and converted to UTC", func(t *testing.T) {
		input := "2023-10-12 15:30:45"
		got, err := NormalizeScheduledAt(&input, now)
		require.NoError(t, err)

		local, err := time.ParseInLocation(ScheduledAtLayout, input, time.Local)
		require.NoError(t, err)
		assert.Equal(t, local.UTC(), got)

		// When the server runs outside UTC the stored instant differs
		// from the naive input.
		_, offset := local.Zone()
		if offset != 0 {
			assert.NotEqual(t, input, got.Format(ScheduledAtLayout))
		} else {
			assert.Equal(t, input, got.Format(ScheduledAtLayout))
		}
	})

	t.Run("far future value keeps second precision", func(t *testing.T) {
		input := "2099-12-31 23:59:59"
		got, err := NormalizeScheduledAt(&input, now)
		require.NoError(t, err)
		assert.Equal(t, 59, got.Second())
		assert.True(t, got.After(now))
	})

	t.Run("garbage fails", func(t *testing.T) {
		input := "invalid_date_string"
		_, err := NormalizeScheduledAt(&input, now)
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})

	t.Run("missing seconds fails", func(t *testing.T) {
		input := "2023-10-12 15:30"
		_, err := NormalizeScheduledAt(&input, now)
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})
}

func TestEmailStatusLabel(t *testing.T) {
	assert.Equal(t, "Created", EmailStatusCreated.Label())
	assert.Equal(t, "Processed", EmailStatusProcessed.Label())
	assert.Equal(t, "Sent", EmailStatusSent.Label())
	assert.Equal(t, "Failed", EmailStatusFailed.Label())
	assert.Equal(t, "Stopped", EmailStatusStopped.Label())
	assert.Equal(t, "Unknown", EmailStatus(99).Label())
}
