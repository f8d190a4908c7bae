package rules

import (
	"github.com/rcliao/taskrules/internal/domain"
)

// GetField returns the value at a period separated path rooted at the
// report's fields, e.g. "dob" or "screening.test_result". Any missing
// segment yields a missing Value.
func GetField(report *domain.Report, path string) domain.Value {
	if report == nil {
		return domain.Missing()
	}
	return report.Fields.Lookup(path)
}

// FieldsMatch reports whether every path in the filter holds exactly the
// expected value. An empty filter matches any report.
func FieldsMatch(report *domain.Report, filter domain.FieldFilter) bool {
	for path, expected := range filter {
		if !GetField(report, path).Equal(domain.ValueOf(expected)) {
			return false
		}
	}
	return true
}
