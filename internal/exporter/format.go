package exporter

import (
	"strconv"
	"time"

	"energycli/internal/config"
)

// formatKWH formats a kwh value for CSV output using the shortest exact
// representation, so 10.5 stays 10.5 and 10 stays 10 when read back.
func formatKWH(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatTimestamp formats a reading timestamp for CSV output
func formatTimestamp(t time.Time) string {
	return t.Format(config.CSVTimestampFormat)
}
