package storage

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/rcliao/taskrules/internal/domain"
)

type MemoryStorage struct {
	mu       sync.RWMutex
	contacts map[string]*domain.Contact
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		contacts: make(map[string]*domain.Contact),
	}
}

// Contact Repository Implementation
func (ms *MemoryStorage) CreateContact(contact *domain.Contact) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	prepareContact(contact)
	if _, exists := ms.contacts[contact.ID]; exists {
		return fmt.Errorf("contact %s: %w", contact.ID, domain.ErrContactExists)
	}

	ms.contacts[contact.ID] = contact.Clone()
	return nil
}

func (ms *MemoryStorage) GetContact(id string) (*domain.Contact, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	contact, exists := ms.contacts[id]
	if !exists {
		return nil, fmt.Errorf("contact %s: %w", id, domain.ErrContactNotFound)
	}

	return contact.Clone(), nil
}

func (ms *MemoryStorage) ListContacts(filter domain.ContactFilter) ([]*domain.Contact, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var result []*domain.Contact
	for _, contact := range ms.contacts {
		if !filter.Matches(contact) {
			continue
		}
		result = append(result, contact.Clone())
	}

	sortContacts(result)
	return result, nil
}

// Report Repository Implementation
func (ms *MemoryStorage) AddReport(contactID string, report *domain.Report) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	contact, exists := ms.contacts[contactID]
	if !exists {
		return fmt.Errorf("contact %s: %w", contactID, domain.ErrContactNotFound)
	}

	prepareReport(contactID, report)
	if contact.FindReport(report.ID) != nil {
		return fmt.Errorf("report %s: %w", report.ID, domain.ErrReportExists)
	}

	contact.Reports = append(contact.Reports, report.Clone())
	return nil
}

func (ms *MemoryStorage) GetReport(contactID, reportID string) (*domain.Report, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	contact, exists := ms.contacts[contactID]
	if !exists {
		return nil, fmt.Errorf("contact %s: %w", contactID, domain.ErrContactNotFound)
	}

	report := contact.FindReport(reportID)
	if report == nil {
		return nil, fmt.Errorf("report %s: %w", reportID, domain.ErrReportNotFound)
	}

	return report.Clone(), nil
}

// DeleteReport marks the report deleted. Deleted reports stay in the
// contact's history.
func (ms *MemoryStorage) DeleteReport(contactID, reportID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	contact, exists := ms.contacts[contactID]
	if !exists {
		return fmt.Errorf("contact %s: %w", contactID, domain.ErrContactNotFound)
	}

	report := contact.FindReport(reportID)
	if report == nil {
		return fmt.Errorf("report %s: %w", reportID, domain.ErrReportNotFound)
	}

	report.Deleted = true
	return nil
}

// prepareContact assigns IDs to a contact and its reports where missing.
func prepareContact(contact *domain.Contact) {
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	if contact.Reports == nil {
		contact.Reports = make([]*domain.Report, 0)
	}
	for _, report := range contact.Reports {
		if report != nil {
			prepareReport(contact.ID, report)
		}
	}
}

func prepareReport(contactID string, report *domain.Report) {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	report.ContactID = contactID
}

func sortContacts(contacts []*domain.Contact) {
	sort.Slice(contacts, func(i, j int) bool {
		return contacts[i].ID < contacts[j].ID
	})
}
