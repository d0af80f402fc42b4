package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MikeSquared-Agency/incidentlog/internal/incident"
)

// StudentNames returns the distinct non-empty student names on record.
func (s *Store) StudentNames(ctx context.Context) ([]string, error) {
	query, args, err := s.sb.Select("DISTINCT student_name").
		From(incidentsTable).
		Where(sq.NotEq{"student_name": ""}).
		OrderBy("student_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query student names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan student name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ReporterContacts returns each distinct reporter name/email pair, ordered by
// the most recent incident that used it so later entries supersede earlier
// ones.
func (s *Store) ReporterContacts(ctx context.Context) ([]incident.Contact, error) {
	query, args, err := s.sb.Select("reporter_name", "reporter_email").
		From(incidentsTable).
		Where(sq.NotEq{"reporter_name": ""}).
		GroupBy("reporter_name", "reporter_email").
		OrderBy("MAX(id)").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reporter contacts: %w", err)
	}
	defer rows.Close()

	contacts := []incident.Contact{}
	for rows.Next() {
		var c incident.Contact
		if err := rows.Scan(&c.Name, &c.Email); err != nil {
			return nil, fmt.Errorf("scan reporter contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}
