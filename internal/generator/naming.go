package generator

import "fmt"

// MegaThreshold is the row count at which output switches to the mega naming convention
const MegaThreshold = 1_000_000

// IsMega reports whether rows is large enough for the mega naming convention
func IsMega(rows, threshold int64) bool {
	return rows >= threshold
}

// FileName returns the conventional output name for a row count:
// mega_sample_<k>k.csv at or above threshold, sample_<k>k.csv below it.
func FileName(rows, threshold int64) string {
	if IsMega(rows, threshold) {
		return fmt.Sprintf("mega_sample_%dk.csv", rows/1000)
	}
	return fmt.Sprintf("sample_%dk.csv", rows/1000)
}
