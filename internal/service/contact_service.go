package service

import (
	"github.com/rcliao/taskrules/internal/domain"
)

type ContactService struct {
	storage ContactStorage
}

type ContactStorage interface {
	CreateContact(contact *domain.Contact) error
	GetContact(id string) (*domain.Contact, error)
	ListContacts(filter domain.ContactFilter) ([]*domain.Contact, error)
	AddReport(contactID string, report *domain.Report) error
	GetReport(contactID, reportID string) (*domain.Report, error)
	DeleteReport(contactID, reportID string) error
}

func NewContactService(storage ContactStorage) *ContactService {
	return &ContactService{
		storage: storage,
	}
}

func (s *ContactService) Create(contact *domain.Contact) error {
	return s.storage.CreateContact(contact)
}

func (s *ContactService) Get(id string) (*domain.Contact, error) {
	return s.storage.GetContact(id)
}

func (s *ContactService) List(filter domain.ContactFilter) ([]*domain.Contact, error) {
	return s.storage.ListContacts(filter)
}

func (s *ContactService) AddReport(contactID string, report *domain.Report) error {
	return s.storage.AddReport(contactID, report)
}

func (s *ContactService) GetReport(contactID, reportID string) (*domain.Report, error) {
	return s.storage.GetReport(contactID, reportID)
}

func (s *ContactService) DeleteReport(contactID, reportID string) error {
	return s.storage.DeleteReport(contactID, reportID)
}
