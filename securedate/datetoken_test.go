package securedate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDateToken(t *testing.T) {
	instant := time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, DateToken("20240315"), NewDateToken(instant, time.UTC))
	assert.Equal(t, DateToken("20240316"), NewDateToken(instant, time.FixedZone("UTC+2", 2*3600)))
	assert.Equal(t, DateToken("20240315"), NewDateToken(instant, time.FixedZone("UTC-8", -8*3600)))
}

func TestParseDateToken(t *testing.T) {
	parsed, err := ParseDateToken("20240229", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), parsed)

	for _, bad := range []string{"", "2024031", "202403155", "2024-03-", "20240230", "2024031a", "+2024031"} {
		_, err := ParseDateToken(bad, time.UTC)
		assert.Error(t, err, bad)
	}
}

func TestCandidateWindow(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, []DateToken{"20240301", "20240229", "20240302"}, CandidateWindow(now, time.UTC, 1))
	assert.Equal(t, []DateToken{"20240301"}, CandidateWindow(now, time.UTC, 0))
	assert.Equal(t,
		[]DateToken{"20240301", "20240229", "20240302", "20240228", "20240303"},
		CandidateWindow(now, time.UTC, 2))
}

func TestCandidateWindowYearBoundary(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 5, 0, 0, time.UTC)
	assert.Equal(t, []DateToken{"20250101", "20241231", "20250102"}, CandidateWindow(now, time.UTC, 1))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)
	b := time.Date(2025, 1, 1, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysBetween(a, b))
	assert.Equal(t, -1, DaysBetween(b, a))

	assert.Equal(t, 0, DaysBetween(
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC)))

	assert.Equal(t, 2, DaysBetween(
		time.Date(2024, 2, 28, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)))

	assert.Equal(t, 366, DaysBetween(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}
