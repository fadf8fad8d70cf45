package importer

import (
	"errors"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned for text that is not a number.
	ErrInvalidAmount = errors.New("not a number")

	// ErrFractionalAmount is returned for amounts with a non-zero fraction.
	ErrFractionalAmount = errors.New("must be a whole number")

	// ErrAmountOutOfRange is returned for amounts that do not fit in int64.
	ErrAmountOutOfRange = errors.New("amount out of range")
)

var (
	maxAmount = decimal.NewFromInt(math.MaxInt64)
	minAmount = decimal.NewFromInt(math.MinInt64)
)

// groupedThousands matches "1.234.567" style grouping.
var groupedThousands = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)

// ParseAmount reads a whole-unit amount written the Indonesian way.
//
// ACCEPTED FORMS:
//   - "50000", "50.000", "Rp 50.000", "Rp50.000,00"
//   - "2", "2,0"
//   - "1234.0" (plain decimal point as written by spreadsheets)
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "rp") {
		s = strings.TrimSpace(s[2:])
		s = strings.TrimPrefix(s, ".")
	}
	s = strings.ReplaceAll(s, " ", "")

	switch {
	case strings.Contains(s, ","):
		// Dots group thousands, the comma starts the fraction.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case groupedThousands.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if !d.IsInteger() {
		return 0, ErrFractionalAmount
	}
	if d.GreaterThan(maxAmount) || d.LessThan(minAmount) {
		return 0, ErrAmountOutOfRange
	}
	return d.IntPart(), nil
}
