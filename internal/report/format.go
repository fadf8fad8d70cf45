package report

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder stands in for an unset customer field.
const Placeholder = "-"

// BlankName is printed on the customer signature line when no name is set.
const BlankName = "_______________"

// CurrencyPrefix precedes every formatted amount.
const CurrencyPrefix = "Rp"

// ISODateLayout is the date layout used in export file names.
const ISODateLayout = "2006-01-02"

var printer = message.NewPrinter(language.Indonesian)

var weekdays = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

var months = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// FormatNumber groups n the Indonesian way: 1234567 -> "1.234.567".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatRupiah formats a whole-unit amount: 100000 -> "Rp 100.000".
func FormatRupiah(n int64) string {
	return CurrencyPrefix + " " + FormatNumber(n)
}

// FormatLongDate formats t as a long Indonesian date, e.g.
// "Senin, 19 Oktober 2026".
func FormatLongDate(t time.Time) string {
	return fmt.Sprintf("%s, %d %s %d", weekdays[t.Weekday()], t.Day(), months[t.Month()-1], t.Year())
}

// ISODate formats t as YYYY-MM-DD in t's own location.
func ISODate(t time.Time) string {
	return t.Format(ISODateLayout)
}

// OrPlaceholder returns s, or Placeholder when s is empty.
func OrPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
