package spreadsheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/replenish/pkg/domain/entities"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"02/01/06",
	"2/1/06",
	"2006/01/02",
}

// ParseDate reads a date cell. Numbers are Excel serial dates; text is tried
// against the day-first layouts the warehouse exports use.
func ParseDate(raw string) entities.Date {
	s := strings.TrimSpace(raw)
	d := entities.Date{Raw: s}
	if s == "" {
		return d
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial > 0 {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				d.Time = t
			}
		}
		return d
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return d
		}
	}
	return d
}

// ParseDecimal reads a numeric cell, tolerating currency signs and
// thousands separators. Blank or unreadable cells yield zero and false.
func ParseDecimal(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseYear reads a year cell such as "2025" or "2025.0", 0 when unreadable
func ParseYear(raw string) int {
	d, ok := ParseDecimal(raw)
	if !ok {
		return 0
	}
	year := int(d.IntPart())
	if year < 1900 || year > 9999 {
		return 0
	}
	return year
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func trimHeaders(row []string) []string {
	headers := make([]string, len(row))
	for i, h := range row {
		headers[i] = strings.TrimSpace(h)
	}
	return headers
}
