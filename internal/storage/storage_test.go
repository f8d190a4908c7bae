package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/taskrules/internal/domain"
)

type contactStorage interface {
	CreateContact(contact *domain.Contact) error
	GetContact(id string) (*domain.Contact, error)
	ListContacts(filter domain.ContactFilter) ([]*domain.Contact, error)
	AddReport(contactID string, report *domain.Report) error
	GetReport(contactID, reportID string) (*domain.Report, error)
	DeleteReport(contactID, reportID string) error
}

func storages(t *testing.T) map[string]contactStorage {
	t.Helper()

	fileStorage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	sqliteStorage, err := OpenSQLite(filepath.Join(t.TempDir(), "contacts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStorage.Close() })

	return map[string]contactStorage{
		"memory": NewMemoryStorage(),
		"file":   fileStorage,
		"sqlite": sqliteStorage,
	}
}

func TestStorage_ContactOperations(t *testing.T) {
	for name, storage := range storages(t) {
		t.Run(name, func(t *testing.T) {
			contact := domain.NewContact("Eric")
			contact.Reports = append(contact.Reports,
				&domain.Report{Form: "H", ReportedDate: 1},
				&domain.Report{ID: "p1", Form: "P", ReportedDate: 2, Fields: domain.Fields{
					"screening": map[string]any{"malaria": false},
				}},
			)

			// Test contact creation
			err := storage.CreateContact(contact)
			assert.NoError(t, err)

			// Test duplicate creation fails
			err = storage.CreateContact(contact)
			assert.ErrorIs(t, err, domain.ErrContactExists)

			// Test contact retrieval
			retrieved, err := storage.GetContact(contact.ID)
			require.NoError(t, err)
			assert.Equal(t, "Eric", retrieved.Name)
			require.Len(t, retrieved.Reports, 2)
			assert.NotEmpty(t, retrieved.Reports[0].ID)
			assert.Equal(t, contact.ID, retrieved.Reports[0].ContactID)
			assert.Nil(t, retrieved.Reports[0].Fields)
			assert.Equal(t, "p1", retrieved.Reports[1].ID)
			assert.True(t, retrieved.Reports[1].Fields.Lookup("screening.malaria").Equal(domain.ValueOf(false)))

			// Test missing contact
			_, err = storage.GetContact("missing")
			assert.ErrorIs(t, err, domain.ErrContactNotFound)
		})
	}
}

func TestStorage_ReportOperations(t *testing.T) {
	for name, storage := range storages(t) {
		t.Run(name, func(t *testing.T) {
			contact := domain.NewContact("Eric")
			require.NoError(t, storage.CreateContact(contact))

			report := domain.NewReport(contact.ID, "V", 5, domain.Fields{"follow_up_count": 2})
			assert.NoError(t, storage.AddReport(contact.ID, report))
			assert.ErrorIs(t, storage.AddReport(contact.ID, report), domain.ErrReportExists)
			assert.ErrorIs(t, storage.AddReport("missing", domain.NewReport("missing", "V", 1, nil)), domain.ErrContactNotFound)

			retrieved, err := storage.GetReport(contact.ID, report.ID)
			require.NoError(t, err)
			assert.Equal(t, "V", retrieved.Form)
			assert.Equal(t, int64(5), retrieved.ReportedDate)
			assert.False(t, retrieved.Deleted)

			_, err = storage.GetReport(contact.ID, "missing")
			assert.ErrorIs(t, err, domain.ErrReportNotFound)

			// Deleting keeps the report in the history
			require.NoError(t, storage.DeleteReport(contact.ID, report.ID))
			retrieved, err = storage.GetReport(contact.ID, report.ID)
			require.NoError(t, err)
			assert.True(t, retrieved.Deleted)

			assert.ErrorIs(t, storage.DeleteReport(contact.ID, "missing"), domain.ErrReportNotFound)
			assert.ErrorIs(t, storage.DeleteReport("missing", report.ID), domain.ErrContactNotFound)
		})
	}
}

func TestStorage_PreservesReportOrder(t *testing.T) {
	for name, storage := range storages(t) {
		t.Run(name, func(t *testing.T) {
			contact := domain.NewContact("Eric")
			require.NoError(t, storage.CreateContact(contact))

			for _, id := range []string{"c", "a", "b"} {
				require.NoError(t, storage.AddReport(contact.ID, &domain.Report{ID: id, Form: "V", ReportedDate: 7}))
			}

			retrieved, err := storage.GetContact(contact.ID)
			require.NoError(t, err)

			var ids []string
			for _, report := range retrieved.Reports {
				ids = append(ids, report.ID)
			}
			assert.Equal(t, []string{"c", "a", "b"}, ids)
		})
	}
}

func TestStorage_ContactFiltering(t *testing.T) {
	for name, storage := range storages(t) {
		t.Run(name, func(t *testing.T) {
			pregnant := &domain.Contact{ID: "c1", Reports: []*domain.Report{{Form: "P", ReportedDate: 1}}}
			visited := &domain.Contact{ID: "c2", Reports: []*domain.Report{{Form: "V", ReportedDate: 1}}}
			empty := &domain.Contact{ID: "c3"}
			for _, c := range []*domain.Contact{visited, empty, pregnant} {
				require.NoError(t, storage.CreateContact(c))
			}

			all, err := storage.ListContacts(domain.ContactFilter{})
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "c1", all[0].ID)
			assert.Equal(t, "c3", all[2].ID)

			form := "P"
			filtered, err := storage.ListContacts(domain.ContactFilter{Form: &form})
			require.NoError(t, err)
			require.Len(t, filtered, 1)
			assert.Equal(t, "c1", filtered[0].ID)
		})
	}
}

func TestMemoryStorage_ReturnsCopies(t *testing.T) {
	storage := NewMemoryStorage()
	contact := domain.NewContact("Eric")
	contact.Reports = append(contact.Reports, &domain.Report{ID: "r1", Form: "V", ReportedDate: 1})
	require.NoError(t, storage.CreateContact(contact))

	// Mutating the caller's copy must not reach the store
	contact.Reports[0].Deleted = true

	retrieved, err := storage.GetContact(contact.ID)
	require.NoError(t, err)
	retrieved.Reports[0].Form = "H"

	again, err := storage.GetContact(contact.ID)
	require.NoError(t, err)
	assert.False(t, again.Reports[0].Deleted)
	assert.Equal(t, "V", again.Reports[0].Form)
}

func TestFileStorage_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := NewFileStorage(dir)
	require.NoError(t, err)
	contact := domain.NewContact("Eric")
	require.NoError(t, first.CreateContact(contact))
	require.NoError(t, first.AddReport(contact.ID, domain.NewReport(contact.ID, "V", 3, nil)))

	second, err := NewFileStorage(dir)
	require.NoError(t, err)
	retrieved, err := second.GetContact(contact.ID)
	require.NoError(t, err)
	assert.Len(t, retrieved.Reports, 1)

	_, err = second.GetContact("../escape")
	assert.ErrorIs(t, err, domain.ErrContactNotFound)
}
