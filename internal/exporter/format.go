package exporter

import (
	"strconv"

	"qmtcli/pkg/contracts/domain"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	// 13.4 must appear as 13.40
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatTime renders a bar timestamp in the market time zone
func formatTime(bar domain.Bar, layout domain.BarLayout) string {
	return bar.Time.Format(layout.DateFormat())
}
