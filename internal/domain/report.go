package domain

import (
	"github.com/google/uuid"
)

// Report is a single submitted form tied to a contact.
type Report struct {
	ID           string `json:"_id" yaml:"_id"`
	ContactID    string `json:"contactId,omitempty" yaml:"contactId,omitempty"`
	Form         string `json:"form" yaml:"form"`
	ReportedDate int64  `json:"reported_date" yaml:"reported_date"`
	Deleted      bool   `json:"deleted,omitempty" yaml:"deleted,omitempty"`
	Fields       Fields `json:"fields" yaml:"fields"`
}

func NewReport(contactID, form string, reportedDate int64, fields Fields) *Report {
	return &Report{
		ID:           uuid.New().String(),
		ContactID:    contactID,
		Form:         form,
		ReportedDate: reportedDate,
		Fields:       fields,
	}
}

// Clone returns a copy of the report whose field bag can be modified
// without affecting the original.
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Fields = r.Fields.Clone()
	return &clone
}

// FieldFilter maps dotted field paths to the scalar each path must hold.
type FieldFilter map[string]any

type Contact struct {
	ID      string    `json:"_id" yaml:"_id"`
	Name    string    `json:"name,omitempty" yaml:"name,omitempty"`
	Reports []*Report `json:"reports" yaml:"reports"`
}

func NewContact(name string) *Contact {
	return &Contact{
		ID:      uuid.New().String(),
		Name:    name,
		Reports: make([]*Report, 0),
	}
}

func (c *Contact) Clone() *Contact {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Reports = make([]*Report, 0, len(c.Reports))
	for _, report := range c.Reports {
		clone.Reports = append(clone.Reports, report.Clone())
	}
	return &clone
}

// FindReport returns the contact's report with the given ID, or nil.
func (c *Contact) FindReport(id string) *Report {
	if c == nil {
		return nil
	}
	for _, report := range c.Reports {
		if report != nil && report.ID == id {
			return report
		}
	}
	return nil
}

type ContactFilter struct {
	// Form keeps contacts with at least one report of this form.
	Form *string
}

func (f ContactFilter) Matches(contact *Contact) bool {
	if f.Form == nil {
		return true
	}
	for _, report := range contact.Reports {
		if report != nil && report.Form == *f.Form {
			return true
		}
	}
	return false
}
