package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeProviderUTC(t *testing.T) {
	tp := &TimeProvider{}
	require.NoError(t, tp.SetTimezone("UTC"))

	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-15 10:30", tp.Format(ts, "2006-01-02 15:04"))
	assert.Equal(t, "2024-01-15 10:30", tp.FormatUnix(ts.Unix(), "2006-01-02 15:04"))
}

func TestTimeProviderNamedZone(t *testing.T) {
	tp := &TimeProvider{}
	require.NoError(t, tp.SetTimezone("Asia/Shanghai"))

	// 10:30 UTC is 18:30 in Shanghai (UTC+8, no DST)
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "18:30", tp.Format(ts, "15:04"))
}

func TestTimeProviderInvalidZone(t *testing.T) {
	tp := &TimeProvider{}
	assert.Error(t, tp.SetTimezone("Not/AZone"))
}

func TestGetTimeProviderDefaultsToLocal(t *testing.T) {
	tp := GetTimeProvider()
	require.NotNil(t, tp)
	assert.NotZero(t, tp.Now())
}
