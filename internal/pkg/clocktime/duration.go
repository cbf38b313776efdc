package clocktime

import "time"

// Minutes converts a whole-minute count into a time.Duration.
func Minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

// RoundMinutes converts d to whole minutes, rounding half away from zero so
// that 29s rounds down and 30s rounds up.
func RoundMinutes(d time.Duration) int {
	if d < 0 {
		return -RoundMinutes(-d)
	}
	return int((d + 30*time.Second) / time.Minute)
}
