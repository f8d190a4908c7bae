package rules

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rcliao/taskrules/internal/domain"
)

const (
	// noLmpWeeks is used when a pregnancy report carries no usable
	// last_menstrual_period.
	noLmpWeeks = 4

	// maxDateMillis bounds the timestamps reports can carry. Dates beyond
	// it in either direction are invalid.
	maxDateMillis int64 = 8_640_000_000_000_000

	// Calendar years containing the valid range. Years outside them would
	// overflow UnixMilli.
	minDateYear = -271821
	maxDateYear = 275760
)

var invalidDate = time.UnixMilli(maxDateMillis + 1)

// InvalidDate returns a date that IsDateValid rejects.
func InvalidDate() time.Time {
	return invalidDate
}

// IsDateValid reports whether date lies inside the timestamp range reports
// use. Callers assembling dates from partial input check this before use.
func IsDateValid(date time.Time) bool {
	if year := date.Year(); year < minDateYear || year > maxDateYear {
		return false
	}
	ms := date.UnixMilli()
	return ms >= -maxDateMillis && ms <= maxDateMillis
}

// AddDate shifts date by the given number of calendar days and truncates the
// result to local midnight. A zero date means now. Invalid
// dates are returned unchanged.
func (u *Utils) AddDate(date time.Time, days int) time.Time {
	return u.shiftDays(date, float64(days))
}

func (u *Utils) shiftDays(date time.Time, days float64) time.Time {
	if date.IsZero() {
		date = u.now()
	}
	if !IsDateValid(date) {
		return date
	}
	if math.IsNaN(days) || math.IsInf(days, 0) {
		return invalidDate
	}
	// No shift this large can land inside the valid range, and larger ones
	// would overflow the day of month.
	if math.Abs(days)*float64(MillisPerDay) > 2*float64(maxDateMillis) {
		return invalidDate
	}

	// The fractional part is applied to the day of month before truncating,
	// so 30 + -17.5 lands on the 12th.
	date = date.In(time.Local)
	day := math.Trunc(float64(date.Day()) + days)
	result := time.Date(date.Year(), date.Month(), int(day), 0, 0, 0, 0, time.Local)
	if !IsDateValid(result) {
		return invalidDate
	}
	return result
}

// GetLmpDate estimates the start of the last menstrual period from a
// pregnancy report: last_menstrual_period weeks before the reported date,
// defaulting to four weeks.
func (u *Utils) GetLmpDate(report *domain.Report) time.Time {
	if report == nil {
		return invalidDate
	}

	weeks := float64(noLmpWeeks)
	if lmp := GetField(report, "last_menstrual_period"); lmp.Truthy() {
		weeks = numeric(lmp)
	}
	return u.shiftDays(time.UnixMilli(report.ReportedDate), weeks*-7)
}

// numeric converts the value the way form arithmetic does: numbers as is,
// numeric strings parsed, booleans as 0 or 1, null as 0. Everything else is
// NaN.
func numeric(v domain.Value) float64 {
	if v.Kind() == domain.KindNull {
		return 0
	}
	if n, ok := v.AsNumber(); ok {
		return n
	}
	if s, ok := v.AsString(); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	}
	if b, ok := v.AsBool(); ok {
		if b {
			return 1
		}
		return 0
	}
	return math.NaN()
}
