package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration renders the time of one product. Small operands
// multiply in nanoseconds, so the unit follows the magnitude: "850ns",
// "12.4µs", "3.2ms", "1.25s", then the rounded time.Duration form past a
// minute.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.1fµs", float64(d.Nanoseconds())/1e3)
	case d < time.Second:
		return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1e3)
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

// FormatThroughput renders a limb-products-per-second rate for an an x bn
// multiplication taking d, for example "1.84 Glimb²/s".
func FormatThroughput(an, bn int, d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	rate := float64(an) * float64(bn) / d.Seconds()
	units := []string{"", "K", "M", "G", "T"}
	i := 0
	for rate >= 1000 && i < len(units)-1 {
		rate /= 1000
		i++
	}
	return fmt.Sprintf("%.2f %slimb²/s", rate, units[i])
}
