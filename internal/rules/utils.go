// Package rules answers questions about a contact's report history for task
// definitions: which report is the most recent match, whether a form was
// submitted inside a task window, and whether a task is resolved.
//
// Every function is a pure projection of its arguments. Utils holds only the
// read-only settings it was constructed with and is safe for concurrent use.
package rules

import (
	"time"

	"github.com/rcliao/taskrules/internal/domain"
)

// MillisPerDay is the number of milliseconds in one day.
const MillisPerDay int64 = 24 * 60 * 60 * 1000

type Utils struct {
	schedules []domain.Schedule
	now       func() time.Time
}

type Option func(*Utils)

// WithClock replaces the clock used when AddDate is called without a date.
func WithClock(now func() time.Time) Option {
	return func(u *Utils) {
		u.now = now
	}
}

func New(settings *domain.Settings, opts ...Option) *Utils {
	u := &Utils{now: time.Now}
	if settings != nil {
		u.schedules = append([]domain.Schedule(nil), settings.Tasks.Schedules...)
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *Utils) Now() time.Time {
	return u.now()
}
