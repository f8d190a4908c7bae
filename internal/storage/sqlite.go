package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/rcliao/taskrules/internal/domain"
)

//go:embed schema.sql
var schemaFS embed.FS

// SQLiteStorage stores contacts in a SQLite database. Report fields are kept
// as JSON documents; report order is insertion order.
type SQLiteStorage struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := applySchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStorage{db: db}, nil
}

func applySchema(ctx context.Context, db *sql.DB) error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	if _, err := db.ExecContext(ctx, string(schemaSQL)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) CreateContact(contact *domain.Contact) error {
	return s.CreateContactContext(context.Background(), contact)
}

func (s *SQLiteStorage) CreateContactContext(ctx context.Context, contact *domain.Contact) error {
	prepareContact(contact)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM contacts WHERE id = ?", contact.ID).Scan(&exists)
	if err == nil {
		return fmt.Errorf("contact %s: %w", contact.ID, domain.ErrContactExists)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check contact %s: %w", contact.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO contacts (id, name) VALUES (?, ?)", contact.ID, contact.Name); err != nil {
		return fmt.Errorf("insert contact %s: %w", contact.ID, err)
	}
	for _, report := range contact.Reports {
		if report == nil {
			continue
		}
		if err := insertReport(ctx, tx, report); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStorage) GetContact(id string) (*domain.Contact, error) {
	return s.GetContactContext(context.Background(), id)
}

func (s *SQLiteStorage) GetContactContext(ctx context.Context, id string) (*domain.Contact, error) {
	contact := &domain.Contact{ID: id}
	err := s.db.QueryRowContext(ctx, "SELECT name FROM contacts WHERE id = ?", id).Scan(&contact.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("contact %s: %w", id, domain.ErrContactNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get contact %s: %w", id, err)
	}

	reports, err := s.listReports(ctx, id)
	if err != nil {
		return nil, err
	}
	contact.Reports = reports
	return contact, nil
}

func (s *SQLiteStorage) ListContacts(filter domain.ContactFilter) ([]*domain.Contact, error) {
	return s.ListContactsContext(context.Background(), filter)
}

func (s *SQLiteStorage) ListContactsContext(ctx context.Context, filter domain.ContactFilter) ([]*domain.Contact, error) {
	query := "SELECT id FROM contacts ORDER BY id"
	var args []any
	if filter.Form != nil {
		query = "SELECT DISTINCT contact_id FROM reports WHERE form = ? ORDER BY contact_id"
		args = append(args, *filter.Form)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	result := make([]*domain.Contact, 0, len(ids))
	for _, id := range ids {
		contact, err := s.GetContactContext(ctx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, contact)
	}
	return result, nil
}

func (s *SQLiteStorage) AddReport(contactID string, report *domain.Report) error {
	return s.AddReportContext(context.Background(), contactID, report)
}

func (s *SQLiteStorage) AddReportContext(ctx context.Context, contactID string, report *domain.Report) error {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM contacts WHERE id = ?", contactID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("contact %s: %w", contactID, domain.ErrContactNotFound)
	}
	if err != nil {
		return fmt.Errorf("check contact %s: %w", contactID, err)
	}

	prepareReport(contactID, report)
	err = s.db.QueryRowContext(ctx, "SELECT 1 FROM reports WHERE contact_id = ? AND id = ?", contactID, report.ID).Scan(&exists)
	if err == nil {
		return fmt.Errorf("report %s: %w", report.ID, domain.ErrReportExists)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check report %s: %w", report.ID, err)
	}

	return insertReport(ctx, s.db, report)
}

func (s *SQLiteStorage) GetReport(contactID, reportID string) (*domain.Report, error) {
	return s.GetReportContext(context.Background(), contactID, reportID)
}

func (s *SQLiteStorage) GetReportContext(ctx context.Context, contactID, reportID string) (*domain.Report, error) {
	if _, err := s.GetContactContext(ctx, contactID); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT id, contact_id, form, reported_date, deleted, fields
		FROM reports WHERE contact_id = ? AND id = ?`, contactID, reportID)
	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", reportID, domain.ErrReportNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", reportID, err)
	}
	return report, nil
}

func (s *SQLiteStorage) DeleteReport(contactID, reportID string) error {
	return s.DeleteReportContext(context.Background(), contactID, reportID)
}

func (s *SQLiteStorage) DeleteReportContext(ctx context.Context, contactID, reportID string) error {
	if _, err := s.GetContactContext(ctx, contactID); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, "UPDATE reports SET deleted = 1 WHERE contact_id = ? AND id = ?", contactID, reportID)
	if err != nil {
		return fmt.Errorf("delete report %s: %w", reportID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("report %s: %w", reportID, domain.ErrReportNotFound)
	}
	return nil
}

func (s *SQLiteStorage) listReports(ctx context.Context, contactID string) ([]*domain.Report, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, contact_id, form, reported_date, deleted, fields
		FROM reports WHERE contact_id = ? ORDER BY seq`, contactID)
	if err != nil {
		return nil, fmt.Errorf("list reports for %s: %w", contactID, err)
	}
	defer rows.Close()

	reports := make([]*domain.Report, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type scanner interface {
	Scan(dest ...any) error
}

func insertReport(ctx context.Context, db execer, report *domain.Report) error {
	var fields sql.NullString
	if report.Fields != nil {
		data, err := json.Marshal(report.Fields)
		if err != nil {
			return fmt.Errorf("encode fields of report %s: %w", report.ID, err)
		}
		fields = sql.NullString{String: string(data), Valid: true}
	}

	_, err := db.ExecContext(ctx, `INSERT INTO reports (id, contact_id, form, reported_date, deleted, fields)
		VALUES (?, ?, ?, ?, ?, ?)`,
		report.ID, report.ContactID, report.Form, report.ReportedDate, report.Deleted, fields)
	if err != nil {
		return fmt.Errorf("insert report %s: %w", report.ID, err)
	}
	return nil
}

func scanReport(row scanner) (*domain.Report, error) {
	var (
		report domain.Report
		fields sql.NullString
	)
	if err := row.Scan(&report.ID, &report.ContactID, &report.Form, &report.ReportedDate, &report.Deleted, &fields); err != nil {
		return nil, err
	}
	if fields.Valid {
		if err := json.Unmarshal([]byte(fields.String), &report.Fields); err != nil {
			return nil, fmt.Errorf("decode fields of report %s: %w", report.ID, err)
		}
	}
	return &report, nil
}
