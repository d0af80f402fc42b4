package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MikeSquared-Agency/incidentlog/internal/incident"
)

const (
	incidentsTable = "incidents"

	// DefaultRecentLimit is how many incidents the dashboard shows.
	DefaultRecentLimit = 5
)

var incidentColumns = []string{
	"id", "title", "description", "category", "location", "reporter_name",
	"reporter_email", "student_name", "date_time", "status", "created_at",
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	Category string
	Student  string
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIncident(row rowScanner) (incident.Incident, error) {
	var inc incident.Incident
	err := row.Scan(
		&inc.ID, &inc.Title, &inc.Description, &inc.Category, &inc.Location,
		&inc.ReporterName, &inc.ReporterEmail, &inc.StudentName, &inc.DateTime,
		&inc.Status, &inc.CreatedAt,
	)
	return inc, err
}

func (s *Store) selectIncidents() sq.SelectBuilder {
	return s.sb.Select(incidentColumns...).From(incidentsTable)
}

// Create validates in, stores it and returns the stored row.
func (s *Store) Create(ctx context.Context, in incident.Input) (incident.Incident, error) {
	if err := in.Normalize(); err != nil {
		return incident.Incident{}, err
	}

	query, args, err := s.sb.Insert(incidentsTable).
		Columns("title", "description", "category", "location", "reporter_name",
			"reporter_email", "student_name", "date_time", "status", "created_at").
		Values(in.Title, in.Description, in.Category, in.Location, in.ReporterName,
			in.ReporterEmail, in.StudentName, in.DateTime, in.Status, s.now().UTC()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return incident.Incident{}, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return incident.Incident{}, fmt.Errorf("insert incident: %w", err)
	}
	return s.Get(ctx, id)
}

// Get returns the incident with id or incident.ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (incident.Incident, error) {
	query, args, err := s.selectIncidents().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return incident.Incident{}, fmt.Errorf("build select: %w", err)
	}

	inc, err := scanIncident(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return incident.Incident{}, fmt.Errorf("incident %d: %w", id, incident.ErrNotFound)
	}
	if err != nil {
		return incident.Incident{}, fmt.Errorf("get incident: %w", err)
	}
	return inc, nil
}

// List returns incidents newest first by their recorded date/time.
func (s *Store) List(ctx context.Context, f ListFilter) ([]incident.Incident, error) {
	q := s.selectIncidents().OrderBy("date_time DESC", "id DESC")
	if f.Category != "" {
		q = q.Where(sq.Eq{"category": f.Category})
	}
	if f.Student != "" {
		q = q.Where(sq.Eq{"student_name": f.Student})
	}
	return s.query(ctx, q)
}

// Recent returns the last limit incidents by creation time.
func (s *Store) Recent(ctx context.Context, limit int) ([]incident.Incident, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.query(ctx, s.selectIncidents().OrderBy("created_at DESC", "id DESC").Limit(uint64(limit)))
}

func (s *Store) query(ctx context.Context, q sq.SelectBuilder) ([]incident.Incident, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query incidents: %w", err)
	}
	defer rows.Close()

	out := []incident.Incident{}
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

// Update replaces the writable fields of incident id.
func (s *Store) Update(ctx context.Context, id int64, in incident.Input) (incident.Incident, error) {
	if err := in.Normalize(); err != nil {
		return incident.Incident{}, err
	}

	query, args, err := s.sb.Update(incidentsTable).
		SetMap(map[string]any{
			"title":          in.Title,
			"description":    in.Description,
			"category":       in.Category,
			"location":       in.Location,
			"reporter_name":  in.ReporterName,
			"reporter_email": in.ReporterEmail,
			"student_name":   in.StudentName,
			"date_time":      in.DateTime,
			"status":         in.Status,
		}).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return incident.Incident{}, fmt.Errorf("build update: %w", err)
	}

	if err := s.exec(ctx, query, args, id); err != nil {
		return incident.Incident{}, fmt.Errorf("update incident: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes incident id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	query, args, err := s.sb.Delete(incidentsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if err := s.exec(ctx, query, args, id); err != nil {
		return fmt.Errorf("delete incident: %w", err)
	}
	return nil
}

// exec runs a statement that must touch the row with id.
func (s *Store) exec(ctx context.Context, query string, args []any, id int64) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("incident %d: %w", id, incident.ErrNotFound)
	}
	return nil
}

// Stats counts incidents per status and per category.
func (s *Store) Stats(ctx context.Context) (incident.Stats, error) {
	query, args, err := s.sb.Select("status", "category", "COUNT(*)").
		From(incidentsTable).
		GroupBy("status", "category").
		ToSql()
	if err != nil {
		return incident.Stats{}, fmt.Errorf("build stats: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return incident.Stats{}, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	stats := incident.Stats{ByCategory: make(map[string]int, len(incident.Categories))}
	for _, c := range incident.Categories {
		stats.ByCategory[c] = 0
	}
	for rows.Next() {
		var status, category string
		var n int
		if err := rows.Scan(&status, &category, &n); err != nil {
			return incident.Stats{}, fmt.Errorf("scan stats: %w", err)
		}
		stats.Total += n
		stats.ByCategory[category] += n
		switch status {
		case incident.StatusOpen:
			stats.Open += n
		case incident.StatusInvestigating:
			stats.Investigating += n
		case incident.StatusResolved:
			stats.Resolved += n
		}
	}
	return stats, rows.Err()
}
