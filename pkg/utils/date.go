package utils

import "time"

// TodayUTCDate returns today's date as a YYYY-MM-DD string in UTC. Daily usage
// counters are keyed by this value.
func TodayUTCDate() string {
	return time.Now().UTC().Format("2006-01-02")
}
