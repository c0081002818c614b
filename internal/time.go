package internal

import "time"

// time.Since reads the monotonic clock reading carried by startTime.
var startTime = time.Now()

// NowNano returns the monotonic time in nanoseconds since process start.
// Values are only comparable within the same process.
func NowNano() int64 {
	return time.Since(startTime).Nanoseconds()
}
