package service

import (
	"fmt"
	"log"
	"time"

	"github.com/rcliao/taskrules/internal/domain"
	"github.com/rcliao/taskrules/internal/rules"
)

// ResolutionService evaluates the task rules against stored contacts.
type ResolutionService struct {
	contacts *ContactService
	utils    *rules.Utils
}

func NewResolutionService(contacts *ContactService, utils *rules.Utils) *ResolutionService {
	return &ResolutionService{
		contacts: contacts,
		utils:    utils,
	}
}

type EventStatus struct {
	Event    domain.Event `json:"event"`
	DueDate  time.Time    `json:"dueDate"`
	Start    time.Time    `json:"windowStart"`
	End      time.Time    `json:"windowEnd"`
	Resolved bool         `json:"resolved"`
}

type ScheduleStatus struct {
	ContactID string         `json:"contactId"`
	ReportID  string         `json:"reportId,omitempty"`
	Schedule  string         `json:"schedule"`
	BaseDate  time.Time      `json:"baseDate"`
	Events    []*EventStatus `json:"events"`
}

// loadTask fetches the contact and, when reportID is set, the report that
// triggered the task.
func (s *ResolutionService) loadTask(contactID, reportID string) (*domain.Contact, *domain.Report, error) {
	contact, err := s.contacts.Get(contactID)
	if err != nil {
		return nil, nil, err
	}
	if reportID == "" {
		return contact, nil, nil
	}

	report := contact.FindReport(reportID)
	if report == nil {
		return nil, nil, fmt.Errorf("report %s of contact %s: %w", reportID, contactID, domain.ErrReportNotFound)
	}
	return contact, report, nil
}

// IsResolved reports whether the task described by event and dueDate has
// been resolved by a submission of form. An empty reportID denotes a task
// raised for the contact itself rather than for one of its reports.
func (s *ResolutionService) IsResolved(contactID, reportID string, event domain.Event, dueDate time.Time, form string) (bool, error) {
	status, err := s.TaskStatus(contactID, reportID, event, dueDate, form)
	if err != nil {
		return false, err
	}
	return status.Resolved, nil
}

// TaskStatus is IsResolved with the evaluated window attached.
func (s *ResolutionService) TaskStatus(contactID, reportID string, event domain.Event, dueDate time.Time, form string) (*EventStatus, error) {
	contact, report, err := s.loadTask(contactID, reportID)
	if err != nil {
		return nil, err
	}

	start, end := s.utils.TaskWindow(report, event, dueDate)
	resolved := s.utils.DefaultResolvedIf(contact, report, event, dueDate, form)
	log.Printf("ResolutionService: contact %s form %s resolved=%t", contactID, form, resolved)
	return &EventStatus{
		Event:    event,
		DueDate:  dueDate,
		Start:    time.UnixMilli(start),
		End:      time.UnixMilli(end),
		Resolved: resolved,
	}, nil
}

func (s *ResolutionService) MostRecent(contactID, form string, filter domain.FieldFilter) (*domain.Report, error) {
	contact, err := s.contacts.Get(contactID)
	if err != nil {
		return nil, err
	}
	return rules.GetMostRecentReport(contact.Reports, form, filter), nil
}

func (s *ResolutionService) SubmittedInWindow(contactID, form string, start, end time.Time, count int) (bool, error) {
	contact, err := s.contacts.Get(contactID)
	if err != nil {
		return false, err
	}
	return rules.IsFormSubmittedInWindow(contact.Reports, form, start.UnixMilli(), end.UnixMilli(), count), nil
}

// LmpDate estimates the last menstrual period from one of the contact's
// pregnancy reports.
func (s *ResolutionService) LmpDate(contactID, reportID string) (time.Time, error) {
	_, report, err := s.loadTask(contactID, reportID)
	if err != nil {
		return time.Time{}, err
	}
	if report == nil {
		return time.Time{}, fmt.Errorf("a pregnancy report is required")
	}

	lmp := s.utils.GetLmpDate(report)
	if !rules.IsDateValid(lmp) {
		return time.Time{}, fmt.Errorf("report %s has an unusable last_menstrual_period", reportID)
	}
	return lmp, nil
}

// ScheduleStatus evaluates every event of a legacy schedule. Each event is
// due event.Days after baseDate; a zero baseDate falls back to the
// triggering report's date. Events without a resolving form are never
// resolved.
func (s *ResolutionService) ScheduleStatus(contactID, reportID, scheduleName string, baseDate time.Time) (*ScheduleStatus, error) {
	schedule := s.utils.GetSchedule(scheduleName)
	if schedule == nil {
		return nil, fmt.Errorf("schedule %q not configured", scheduleName)
	}

	contact, report, err := s.loadTask(contactID, reportID)
	if err != nil {
		return nil, err
	}
	if baseDate.IsZero() && report != nil {
		baseDate = time.UnixMilli(report.ReportedDate)
	}
	if baseDate.IsZero() {
		return nil, fmt.Errorf("a base date or triggering report is required")
	}

	status := &ScheduleStatus{
		ContactID: contactID,
		ReportID:  reportID,
		Schedule:  schedule.Name,
		BaseDate:  baseDate,
		Events:    make([]*EventStatus, 0, len(schedule.Events)),
	}
	for _, event := range schedule.Events {
		dueDate := s.utils.AddDate(baseDate, event.Days)
		start, end := s.utils.TaskWindow(report, event, dueDate)

		eventStatus := &EventStatus{
			Event:   event,
			DueDate: dueDate,
			Start:   time.UnixMilli(start),
			End:     time.UnixMilli(end),
		}
		if event.ResolvingForm == "" {
			log.Printf("ResolutionService: schedule %s event %s has no resolving form", schedule.Name, event.ID)
		} else {
			eventStatus.Resolved = s.utils.DefaultResolvedIf(contact, report, event, dueDate, event.ResolvingForm)
		}
		status.Events = append(status.Events, eventStatus)
	}

	return status, nil
}
