package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"30m", 30 * time.Minute},
		{"2h", 2 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"1d", 24 * time.Hour},
	}
	for _, c := range cases {
		got, err := ParseDuration(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}

	for _, in := range []string{"", "xd", "1.5d", "soon"} {
		_, err := ParseDuration(in)
		assert.Error(t, err, in)
	}
}

func TestParseMuteDuration(t *testing.T) {
	for _, in := range []string{"forever", "Permanent", " perm "} {
		d, forever, err := ParseMuteDuration(in)
		require.NoError(t, err, in)
		assert.True(t, forever, in)
		assert.Zero(t, d, in)
	}

	d, forever, err := ParseMuteDuration("45m")
	require.NoError(t, err)
	assert.False(t, forever)
	assert.Equal(t, 45*time.Minute, d)

	_, _, err = ParseMuteDuration("-5m")
	assert.Error(t, err, "negative durations are rejected")
	_, _, err = ParseMuteDuration("whenever")
	assert.Error(t, err)
}

func TestIsSnowflake(t *testing.T) {
	assert.True(t, IsSnowflake("123456789012345678"))
	assert.True(t, IsSnowflake("100000000000000"))

	assert.False(t, IsSnowflake("12345"))
	assert.False(t, IsSnowflake("1234567890123456789012"))
	assert.False(t, IsSnowflake("12345678901234567x"))
	assert.False(t, IsSnowflake(""))
}
