package domain

import "fmt"

// InsufficientDataError reports a series shorter than the warm-up window an
// indicator or simulation requires. The run that detected it produces no
// partial output.
type InsufficientDataError struct {
	Op   string // what needed the data, e.g. "sma(50)"
	Need int
	Got  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: need >= %d bars, got %d", e.Op, e.Need, e.Got)
}

// EmptySeriesError reports a statistic evaluated over literally empty input.
// Degenerate-but-nonempty inputs (a single bar, zero trades) have defined
// neutral results and do not raise it.
type EmptySeriesError struct {
	Op string
}

func (e *EmptySeriesError) Error() string {
	return fmt.Sprintf("%s: empty series", e.Op)
}

// InvalidConfigurationError reports an out-of-range or inconsistent
// configuration value, detected before any work is done.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}
