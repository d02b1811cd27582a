package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToServiceUTC(t *testing.T) {
	// 2026-03-10 09:30 in Jakarta (UTC+7) is 02:30 UTC
	in := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	got, err := ToServiceUTC(in, "Asia/Jakarta")
	assert.NoError(t, err)
	assert.Equal(t, "2026-03-10T02:30:00Z", got)
}

func TestToServiceUTC_BadZone(t *testing.T) {
	_, err := ToServiceUTC(time.Now(), "Nowhere/Atlantis")
	assert.Error(t, err)
}

func TestFromServiceUTC_RoundTrip(t *testing.T) {
	got, err := FromServiceUTC("2026-03-10T02:30:00Z", "Asia/Jakarta")
	assert.NoError(t, err)
	assert.Equal(t, 9, got.Hour())
	assert.Equal(t, 30, got.Minute())
}
