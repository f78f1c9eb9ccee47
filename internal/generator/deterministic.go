package generator

import (
	"time"
)

// ResolveSeed returns seed unchanged, or a time-based seed when seed is 0
func ResolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	if s := time.Now().UnixNano(); s != 0 {
		return s
	}
	return 1
}
