package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/taskrules/internal/domain"
)

func screeningReports() []*domain.Report {
	return []*domain.Report{
		{ID: "1", Form: "H", ReportedDate: 1},
		{ID: "2", Form: "V", ReportedDate: 2, Fields: domain.Fields{
			"dob":       "2000-01-01",
			"screening": map[string]any{"malaria": false},
		}},
		{ID: "3", Form: "V", ReportedDate: 3},
	}
}

func TestGetMostRecentReport(t *testing.T) {
	t.Run("returns nil on no reports", func(t *testing.T) {
		assert.Nil(t, GetMostRecentReport(nil, "V", nil))
		assert.Nil(t, GetMostRecentReport([]*domain.Report{}, "V", nil))
	})

	t.Run("returns nil on no matching report", func(t *testing.T) {
		reports := []*domain.Report{{Form: "H", ReportedDate: 1}}
		assert.Nil(t, GetMostRecentReport(reports, "V", nil))
	})

	t.Run("returns report when only one match", func(t *testing.T) {
		reports := []*domain.Report{
			{ID: "1", Form: "H", ReportedDate: 1},
			{ID: "2", Form: "V", ReportedDate: 2},
		}
		actual := GetMostRecentReport(reports, "V", nil)
		require.NotNil(t, actual)
		assert.Equal(t, "2", actual.ID)
	})

	t.Run("returns most recent matching report", func(t *testing.T) {
		actual := GetMostRecentReport(screeningReports(), "V", nil)
		require.NotNil(t, actual)
		assert.Equal(t, "3", actual.ID)
	})

	t.Run("most recent regardless of input order", func(t *testing.T) {
		reports := []*domain.Report{
			{ID: "3", Form: "V", ReportedDate: 3},
			{ID: "1", Form: "V", ReportedDate: 1},
			{ID: "2", Form: "V", ReportedDate: 2},
		}
		actual := GetMostRecentReport(reports, "V", nil)
		require.NotNil(t, actual)
		assert.Equal(t, "3", actual.ID)
	})

	t.Run("ignores deleted reports", func(t *testing.T) {
		reports := []*domain.Report{
			{ID: "1", Form: "H", ReportedDate: 1},
			{ID: "2", Form: "V", ReportedDate: 2, Deleted: true},
		}
		assert.Nil(t, GetMostRecentReport(reports, "V", nil))
	})

	t.Run("deleted newer report does not hide older one", func(t *testing.T) {
		reports := []*domain.Report{
			{ID: "1", Form: "V", ReportedDate: 1},
			{ID: "2", Form: "V", ReportedDate: 2, Deleted: true},
		}
		actual := GetMostRecentReport(reports, "V", nil)
		require.NotNil(t, actual)
		assert.Equal(t, "1", actual.ID)
	})

	t.Run("first report wins a tie", func(t *testing.T) {
		reports := []*domain.Report{
			{ID: "1", Form: "V", ReportedDate: 1},
			{ID: "2", Form: "V", ReportedDate: 5},
			{ID: "3", Form: "V", ReportedDate: 5},
		}
		actual := GetMostRecentReport(reports, "V", nil)
		require.NotNil(t, actual)
		assert.Equal(t, "2", actual.ID)
	})

	t.Run("returns report matching field", func(t *testing.T) {
		actual := GetMostRecentReport(screeningReports(), "V", domain.FieldFilter{"screening.malaria": false})
		require.NotNil(t, actual)
		assert.Equal(t, "2", actual.ID)
	})

	t.Run("returns report matching multiple fields", func(t *testing.T) {
		actual := GetMostRecentReport(screeningReports(), "V", domain.FieldFilter{
			"screening.malaria": false,
			"dob":               "2000-01-01",
		})
		require.NotNil(t, actual)
		assert.Equal(t, "2", actual.ID)
	})

	t.Run("returns nil if one of multiple fields does not match", func(t *testing.T) {
		actual := GetMostRecentReport(screeningReports(), "V", domain.FieldFilter{
			"screening.malaria": false,
			"dob":               "2000-01-02",
		})
		assert.Nil(t, actual)
	})

	t.Run("returns nil if no matching fields", func(t *testing.T) {
		assert.Nil(t, GetMostRecentReport(screeningReports(), "V", domain.FieldFilter{"dob": "2000-01-02"}))
	})

	t.Run("empty filter still requires a field bag", func(t *testing.T) {
		actual := GetMostRecentReport(screeningReports(), "V", domain.FieldFilter{})
		require.NotNil(t, actual)
		assert.Equal(t, "2", actual.ID)
	})

	t.Run("skips nil entries", func(t *testing.T) {
		reports := []*domain.Report{nil, {ID: "1", Form: "V", ReportedDate: 1}, nil}
		actual := GetMostRecentReport(reports, "V", nil)
		require.NotNil(t, actual)
		assert.Equal(t, "1", actual.ID)
	})
}

func TestGetMostRecentTimestamp(t *testing.T) {
	ts, ok := GetMostRecentTimestamp(screeningReports(), "V", nil)
	assert.True(t, ok)
	assert.Equal(t, int64(3), ts)

	ts, ok = GetMostRecentTimestamp(screeningReports(), "V", domain.FieldFilter{"screening.malaria": false})
	assert.True(t, ok)
	assert.Equal(t, int64(2), ts)

	_, ok = GetMostRecentTimestamp(screeningReports(), "X", nil)
	assert.False(t, ok)
}

func TestIsFirstReportNewer(t *testing.T) {
	older := &domain.Report{ReportedDate: 1}
	newer := &domain.Report{ReportedDate: 2}

	result, ok := IsFirstReportNewer(newer, older)
	assert.True(t, ok)
	assert.True(t, result)

	result, ok = IsFirstReportNewer(older, newer)
	assert.True(t, ok)
	assert.False(t, result)

	result, ok = IsFirstReportNewer(older, older)
	assert.True(t, ok)
	assert.False(t, result)

	result, ok = IsFirstReportNewer(older, nil)
	assert.True(t, ok)
	assert.True(t, result)

	result, ok = IsFirstReportNewer(older, &domain.Report{})
	assert.True(t, ok)
	assert.True(t, result)

	_, ok = IsFirstReportNewer(nil, older)
	assert.False(t, ok)

	_, ok = IsFirstReportNewer(&domain.Report{}, older)
	assert.False(t, ok)
}
