package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Excel serial day numbers outside this range are not treated as dates
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465 // 9999-12-31
)

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
	"2/1/2006",
	"2/1/2006 15:04",
	"02-01-2006",
}

// NormalizeDate converts a spreadsheet date to YYYY-MM-DD. It accepts ISO
// dates and datetimes, Brazilian dd/mm/yyyy forms and Excel serial numbers.
// Anything else yields "".
func NormalizeDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if math.IsNaN(serial) || serial < minExcelSerial || serial > maxExcelSerial {
			return ""
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return ""
		}
		return t.Format(time.DateOnly)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return ""
}

// NormalizeCEP keeps only the digits of a postal code.
func NormalizeCEP(value string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)
}

// NormalizeStatus lowercases and trims a status label.
func NormalizeStatus(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// titleCaser formats seller names. A Caser keeps state, so each parse gets its own.
func titleCaser() cases.Caser {
	return cases.Title(language.BrazilianPortuguese)
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// normalizeOrderID strips the ".0" excelize leaves on integral numeric cells.
func normalizeOrderID(s string) string {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && strings.ContainsAny(s, ".eE") {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return s
}

// parseDays reads an integer day count, tolerating "3.0" and "3 dias". It
// returns 0 when no number is present.
func parseDays(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
		return int(math.Round(f))
	}
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && s[end] == '-') {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
