package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration extends time.ParseDuration to support days (d).
func ParseDuration(s string) (time.Duration, error) {
	if strings.HasSuffix(s, "d") {
		daysStr := strings.TrimSuffix(s, "d")
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, fmt.Errorf("invalid day value: %s", daysStr)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

// ParseMuteDuration parses a mute length. "forever" and "permanent"
// yield a permanent mute; everything else goes through ParseDuration.
func ParseMuteDuration(s string) (time.Duration, bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forever", "permanent", "perm":
		return 0, true, nil
	}
	d, err := ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, false, err
	}
	if d <= 0 {
		return 0, false, fmt.Errorf("duration must be positive: %s", s)
	}
	return d, false, nil
}

// IsSnowflake reports whether s looks like a Discord snowflake id.
func IsSnowflake(s string) bool {
	if len(s) < 15 || len(s) > 21 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
