package catalog

import (
	"fmt"
	"math"
)

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatSize renders a byte count with base-1024 units up to GB.
// Bytes are shown without decimals, larger units with one decimal place.
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}

	exp := 0
	for exp < len(sizeUnits)-1 && bytes >= int64(1)<<(10*(exp+1)) {
		exp++
	}
	if exp == 0 {
		return fmt.Sprintf("%d B", bytes)
	}

	scaled := float64(bytes) / float64(int64(1)<<(10*exp))
	// Half-up rounding at one decimal.
	scaled = math.Floor(scaled*10+0.5) / 10
	return fmt.Sprintf("%.1f %s", scaled, sizeUnits[exp])
}
