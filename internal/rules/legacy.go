package rules

import (
	"github.com/rcliao/taskrules/internal/domain"
)

// Legacy is the surface kept for task definitions written against the
// old tasks.json format. Both methods are frozen.
type Legacy interface {
	IsTimely() bool
	GetSchedule(name string) *domain.Schedule
}

var _ Legacy = (*Utils)(nil)

// IsTimely always returns true. Task display filtering moved to the rules
// engine; definitions should emit every task.
func (u *Utils) IsTimely() bool {
	return true
}

// GetSchedule returns the first configured schedule with the given name.
// TODO: remove once tasks.json schedules are no longer supported.
func (u *Utils) GetSchedule(name string) *domain.Schedule {
	for i := range u.schedules {
		if u.schedules[i].Name == name {
			schedule := u.schedules[i]
			return &schedule
		}
	}
	return nil
}
