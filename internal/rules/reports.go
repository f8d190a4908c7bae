package rules

import (
	"github.com/rcliao/taskrules/internal/domain"
)

// GetMostRecentReport returns the latest non-deleted report of the given
// form. When fields is non-nil only reports carrying a field bag that
// matches it are considered. Reports sharing the latest date resolve to the
// first one in input order. Returns nil when nothing matches.
func GetMostRecentReport(reports []*domain.Report, form string, fields domain.FieldFilter) *domain.Report {
	var result *domain.Report
	for _, report := range reports {
		if report == nil || report.Form != form || report.Deleted {
			continue
		}
		if result != nil && report.ReportedDate <= result.ReportedDate {
			continue
		}
		if fields != nil && (report.Fields == nil || !FieldsMatch(report, fields)) {
			continue
		}
		result = report
	}
	return result
}

func GetMostRecentTimestamp(reports []*domain.Report, form string, fields domain.FieldFilter) (int64, bool) {
	report := GetMostRecentReport(reports, form, fields)
	if report == nil {
		return 0, false
	}
	return report.ReportedDate, true
}

// IsFirstReportNewer compares reported dates. ok is false when first is nil
// or undated; an undated or nil second report is always older.
func IsFirstReportNewer(first, second *domain.Report) (newer bool, ok bool) {
	if first == nil || first.ReportedDate == 0 {
		return false, false
	}
	if second == nil || second.ReportedDate == 0 {
		return true, true
	}
	return first.ReportedDate > second.ReportedDate, true
}
