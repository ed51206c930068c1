package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_USDateTime(t *testing.T) {
	got := ParseDate("3/14/2024 2:30 PM")

	require.NotNil(t, got.Date)
	assert.Equal(t, time.Date(2024, 3, 14, 14, 30, 0, 0, time.UTC), *got.Date)
	assert.Equal(t, "3/14/2024 2:30 PM", got.Raw)
}

func TestParseDate_USDateOnly(t *testing.T) {
	got := ParseDate("3/14/2024")

	require.NotNil(t, got.Date)
	assert.Equal(t, 2024, got.Date.Year())
	assert.Equal(t, time.March, got.Date.Month())
	assert.Equal(t, 14, got.Date.Day())
}

func TestParseDate_ZeroPadded(t *testing.T) {
	got := ParseDate("03/04/2024")

	require.NotNil(t, got.Date)
	assert.Equal(t, time.March, got.Date.Month())
	assert.Equal(t, 4, got.Date.Day())
}

func TestParseDate_ISO(t *testing.T) {
	got := ParseDate("2024-03-14")

	require.NotNil(t, got.Date)
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), *got.Date)
}

func TestParseDate_ISODateTime(t *testing.T) {
	got := ParseDate("2024-03-14 09:15:00")

	require.NotNil(t, got.Date)
	assert.Equal(t, 9, got.Date.Hour())
}

func TestParseDate_RFC3339(t *testing.T) {
	got := ParseDate("2024-03-14T09:15:00Z")

	require.NotNil(t, got.Date)
	assert.Equal(t, time.Date(2024, 3, 14, 9, 15, 0, 0, time.UTC), *got.Date)
}

func TestParseDate_LenientISO(t *testing.T) {
	got := ParseDate("2024-3-4")

	require.NotNil(t, got.Date)
	assert.Equal(t, time.March, got.Date.Month())
	assert.Equal(t, 4, got.Date.Day())
}

func TestParseDate_Empty(t *testing.T) {
	got := ParseDate("")

	assert.Nil(t, got.Date)
	assert.Empty(t, got.Raw)
}

func TestParseDate_Whitespace(t *testing.T) {
	got := ParseDate("   ")

	assert.Nil(t, got.Date)
	assert.Empty(t, got.Raw)
}

func TestParseDate_Garbage(t *testing.T) {
	for _, raw := range []string{"N/A", "pending", "TBD", "yes", "Phone Screen"} {
		got := ParseDate(raw)
		assert.Nil(t, got.Date, "input %q must not parse", raw)
		assert.Equal(t, raw, got.Raw, "raw value must survive for %q", raw)
	}
}

func TestParseDate_ImplausibleYear(t *testing.T) {
	got := ParseDate("1/2/0006")

	assert.Nil(t, got.Date)
	assert.Equal(t, "1/2/0006", got.Raw)
}

func TestParseDate_TrimsInput(t *testing.T) {
	got := ParseDate("  3/14/2024  ")

	require.NotNil(t, got.Date)
	assert.Equal(t, "3/14/2024", got.Raw)
}
