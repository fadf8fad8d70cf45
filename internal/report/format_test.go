package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/pln-usage-report/internal/report"
)

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "Rp 0"},
		{999, "Rp 999"},
		{1000, "Rp 1.000"},
		{100000, "Rp 100.000"},
		{1234567, "Rp 1.234.567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, report.FormatRupiah(tt.in))
	}
}

func TestFormatLongDate(t *testing.T) {
	assert.Equal(t, "Senin, 19 Oktober 2026", report.FormatLongDate(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Minggu, 1 Desember 2024", report.FormatLongDate(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)))
}

func TestISODate(t *testing.T) {
	assert.Equal(t, "2026-10-19", report.ISODate(time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC)))
}

func TestOrPlaceholder(t *testing.T) {
	assert.Equal(t, "-", report.OrPlaceholder(""))
	assert.Equal(t, "x", report.OrPlaceholder("x"))
}
