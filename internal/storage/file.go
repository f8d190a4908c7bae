package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rcliao/taskrules/internal/domain"
)

// FileStorage keeps one JSON document per contact under
// <basePath>/.taskrules/contacts.
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
}

func NewFileStorage(basePath string) (*FileStorage, error) {
	fs := &FileStorage{
		basePath: basePath,
	}

	err := fs.initialize()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	return fs, nil
}

func (fs *FileStorage) initialize() error {
	return os.MkdirAll(fs.contactsDir(), 0755)
}

func (fs *FileStorage) contactsDir() string {
	return filepath.Join(fs.basePath, ".taskrules", "contacts")
}

func (fs *FileStorage) contactPath(id string) string {
	return filepath.Join(fs.contactsDir(), id+".json")
}

func (fs *FileStorage) saveJSON(path string, data interface{}) error {
	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		file.Close()
		os.Remove(tempPath)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	return os.Rename(tempPath, path)
}

func (fs *FileStorage) loadJSON(path string, target interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(target)
}

func (fs *FileStorage) loadContact(id string) (*domain.Contact, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("contact %s: %w", id, domain.ErrContactNotFound)
	}

	var contact domain.Contact
	err := fs.loadJSON(fs.contactPath(id), &contact)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("contact %s: %w", id, domain.ErrContactNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load contact %s: %w", id, err)
	}
	return &contact, nil
}

func (fs *FileStorage) saveContact(contact *domain.Contact) error {
	if err := fs.saveJSON(fs.contactPath(contact.ID), contact); err != nil {
		return fmt.Errorf("save contact %s: %w", contact.ID, err)
	}
	return nil
}

// Contact Repository Implementation
func (fs *FileStorage) CreateContact(contact *domain.Contact) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	prepareContact(contact)
	if strings.ContainsAny(contact.ID, `/\`) {
		return fmt.Errorf("invalid contact ID %q", contact.ID)
	}
	if _, err := os.Stat(fs.contactPath(contact.ID)); err == nil {
		return fmt.Errorf("contact %s: %w", contact.ID, domain.ErrContactExists)
	}

	return fs.saveContact(contact)
}

func (fs *FileStorage) GetContact(id string) (*domain.Contact, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return fs.loadContact(id)
}

func (fs *FileStorage) ListContacts(filter domain.ContactFilter) ([]*domain.Contact, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	entries, err := os.ReadDir(fs.contactsDir())
	if err != nil {
		return nil, err
	}

	var result []*domain.Contact
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		contact, err := fs.loadContact(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			return nil, err
		}
		if !filter.Matches(contact) {
			continue
		}
		result = append(result, contact)
	}

	sortContacts(result)
	return result, nil
}

// Report Repository Implementation
func (fs *FileStorage) AddReport(contactID string, report *domain.Report) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	contact, err := fs.loadContact(contactID)
	if err != nil {
		return err
	}

	prepareReport(contactID, report)
	if contact.FindReport(report.ID) != nil {
		return fmt.Errorf("report %s: %w", report.ID, domain.ErrReportExists)
	}

	contact.Reports = append(contact.Reports, report)
	return fs.saveContact(contact)
}

func (fs *FileStorage) GetReport(contactID, reportID string) (*domain.Report, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	contact, err := fs.loadContact(contactID)
	if err != nil {
		return nil, err
	}

	report := contact.FindReport(reportID)
	if report == nil {
		return nil, fmt.Errorf("report %s: %w", reportID, domain.ErrReportNotFound)
	}
	return report, nil
}

func (fs *FileStorage) DeleteReport(contactID, reportID string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	contact, err := fs.loadContact(contactID)
	if err != nil {
		return err
	}

	report := contact.FindReport(reportID)
	if report == nil {
		return fmt.Errorf("report %s: %w", reportID, domain.ErrReportNotFound)
	}

	report.Deleted = true
	return fs.saveContact(contact)
}
