// Package thailocale formats months and dates the way the inspection
// reports are read in the field: Thai month names and Buddhist-era years.
// Everything is a pure function of its arguments; there is no process-wide
// locale state.
package thailocale

import (
	"fmt"
	"time"
)

var monthNames = [12]string{
	"มกราคม",
	"กุมภาพันธ์",
	"มีนาคม",
	"เมษายน",
	"พฤษภาคม",
	"มิถุนายน",
	"กรกฎาคม",
	"สิงหาคม",
	"กันยายน",
	"ตุลาคม",
	"พฤศจิกายน",
	"ธันวาคม",
}

var shortMonthNames = [12]string{
	"ม.ค.",
	"ก.พ.",
	"มี.ค.",
	"เม.ย.",
	"พ.ค.",
	"มิ.ย.",
	"ก.ค.",
	"ส.ค.",
	"ก.ย.",
	"ต.ค.",
	"พ.ย.",
	"ธ.ค.",
}

// MonthName returns the full Thai name for month 1-12, or "" out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// ShortMonthName returns the abbreviated Thai name for month 1-12, or "" out of range.
func ShortMonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return shortMonthNames[month-1]
}

// BuddhistYear converts a Gregorian year to the Buddhist era.
func BuddhistYear(year int) int {
	return year + 543
}

// FormatDate renders t as "14 กุมภาพันธ์ 2569".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), MonthName(int(t.Month())), BuddhistYear(t.Year()))
}

// IsFutureMonth reports whether (month, year) is after the month containing now.
func IsFutureMonth(month, year int, now time.Time) bool {
	if year > now.Year() {
		return true
	}
	return year == now.Year() && month > int(now.Month())
}

// IsPastMonth reports whether (month, year) is before the month containing now.
func IsPastMonth(month, year int, now time.Time) bool {
	if year < now.Year() {
		return true
	}
	return year == now.Year() && month < int(now.Month())
}
