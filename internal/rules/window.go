package rules

import (
	"time"

	"github.com/rcliao/taskrules/internal/domain"
)

const followUpCountField = "follow_up_count"

// IsFormSubmittedInWindow reports whether any report of the form was
// submitted between start and end, both inclusive, in epoch milliseconds.
// A non-zero count additionally requires the report's follow_up_count to be
// greater than count.
//
// Deleted reports count here, unlike in GetMostRecentReport.
func IsFormSubmittedInWindow(reports []*domain.Report, form string, start, end int64, count int) bool {
	for _, report := range reports {
		if report == nil || report.Form != form {
			continue
		}
		if report.ReportedDate < start || report.ReportedDate > end {
			continue
		}
		if count == 0 || followUpsExceed(report, count) {
			return true
		}
	}
	return false
}

// followUpsExceed compares numerically, so a follow_up_count stored as the
// string "3" counts as 3.
func followUpsExceed(report *domain.Report, count int) bool {
	v := GetField(report, followUpCountField)
	if v.IsMissing() {
		return false
	}
	return numeric(v) > float64(count)
}

// DefaultResolvedIf is the resolution check for a task: the resolving form
// must have been submitted between the start of the task window and the end
// of its last day. For a task triggered by a report, the window also never
// opens before the millisecond after that report.
func (u *Utils) DefaultResolvedIf(contact *domain.Contact, report *domain.Report, event domain.Event, dueDate time.Time, resolvingForm string) bool {
	if contact == nil {
		return false
	}
	start, end := u.TaskWindow(report, event, dueDate)
	return IsFormSubmittedInWindow(contact.Reports, resolvingForm, start, end, 0)
}

// TaskWindow returns the [start, end] window DefaultResolvedIf evaluates, in
// epoch milliseconds.
func (u *Utils) TaskWindow(report *domain.Report, event domain.Event, dueDate time.Time) (start, end int64) {
	start = u.AddDate(dueDate, -event.Start).UnixMilli()
	if report != nil && report.ReportedDate+1 > start {
		start = report.ReportedDate + 1
	}
	end = u.AddDate(dueDate, event.End+1).UnixMilli()
	return start, end
}
