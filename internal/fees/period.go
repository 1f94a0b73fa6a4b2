package fees

import (
	"errors"
	"fmt"
	"strings"
)

// Period selects the aggregation granularity.
type Period string

const (
	Days   Period = "Days"
	Months Period = "Months"
)

// ErrInvalidPeriod is returned for any period other than Days or Months.
var ErrInvalidPeriod = errors.New("invalid period")

// Periods lists the selectable periods in display order.
var Periods = []Period{Days, Months}

// ParsePeriod accepts "days", "day", "months" or "month" in any case.
// Empty input selects Days.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "days", "day":
		return Days, nil
	case "months", "month":
		return Months, nil
	}
	return "", fmt.Errorf("%w %q: want Days or Months", ErrInvalidPeriod, s)
}

func (p Period) String() string { return string(p) }

// Valid reports whether p is one of Periods.
func (p Period) Valid() bool { return p == Days || p == Months }
