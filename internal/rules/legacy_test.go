package rules

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/taskrules/internal/domain"
)

func TestUtils_IsTimely(t *testing.T) {
	assert.True(t, New(nil).IsTimely())
}

func TestUtils_GetSchedule(t *testing.T) {
	settings := &domain.Settings{Tasks: domain.TaskSettings{Schedules: []domain.Schedule{
		{Name: "anc", Description: "first"},
		{Name: "pnc"},
		{Name: "anc", Description: "second"},
	}}}
	utils := New(settings)

	schedule := utils.GetSchedule("anc")
	require.NotNil(t, schedule)
	assert.Equal(t, "first", schedule.Description)

	assert.NotNil(t, utils.GetSchedule("pnc"))
	assert.Nil(t, utils.GetSchedule("imm"))
}

func TestUtils_GetScheduleWithoutSettings(t *testing.T) {
	assert.Nil(t, New(nil).GetSchedule("anc"))
	assert.Nil(t, New(&domain.Settings{}).GetSchedule("anc"))
}

func TestUtils_SettingsAreCopied(t *testing.T) {
	settings := &domain.Settings{Tasks: domain.TaskSettings{Schedules: []domain.Schedule{{Name: "anc"}}}}
	utils := New(settings)

	settings.Tasks.Schedules[0].Name = "changed"
	utils.GetSchedule("anc").Name = "mutated"

	assert.NotNil(t, utils.GetSchedule("anc"))
}

func TestUtils_ConcurrentUse(t *testing.T) {
	utils := New(&domain.Settings{Tasks: domain.TaskSettings{Schedules: []domain.Schedule{{Name: "anc"}}}})
	contact := taskContact("H", "P", "D")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NotNil(t, utils.GetSchedule("anc"))
			assert.NotNil(t, GetMostRecentReport(contact.Reports, "D", nil))
			assert.True(t, IsFormSubmittedInWindow(contact.Reports, "D", 1, 3, 0))
		}()
	}
	wg.Wait()
}
