package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/incidentlog/internal/incident"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "incidents.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func mustCreate(t *testing.T, s *Store, in incident.Input) incident.Incident {
	t.Helper()
	inc, err := s.Create(context.Background(), in)
	require.NoError(t, err)
	return inc
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "whatever")
	require.Error(t, err)
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incidents.db")
	ctx := context.Background()

	s, err := Open(ctx, DriverSQLite, path)
	require.NoError(t, err)
	_, err = s.Create(ctx, incident.Input{StudentName: "Maria Lopez"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, DriverSQLite, path)
	require.NoError(t, err)
	defer s.Close()

	list, err := s.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "a.db?_pragma=busy_timeout(5000)", sqliteDSN("a.db"))
	assert.Equal(t, "a.db?mode=rwc&_pragma=busy_timeout(5000)", sqliteDSN("a.db?mode=rwc"))
	assert.Equal(t, "a.db?_pragma=busy_timeout(100)", sqliteDSN("a.db?_pragma=busy_timeout(100)"))
}

func TestCreate_FillsDefaults(t *testing.T) {
	s := newTestStore(t)

	inc := mustCreate(t, s, incident.Input{
		Title:         "Student disruptive during lesson",
		Description:   "Interrupted the teacher",
		Location:      "Room 201",
		ReporterName:  "Mrs. Johnson",
		ReporterEmail: "johnson@school.edu",
		StudentName:   "Alex Rodriguez",
		DateTime:      "2024-01-15T10:30:00",
	})

	assert.NotZero(t, inc.ID)
	assert.Equal(t, incident.CategoryNote, inc.Category)
	assert.Equal(t, incident.StatusOpen, inc.Status)
	assert.Equal(t, "Alex Rodriguez", inc.StudentName)
	assert.Equal(t, "2024-01-15T10:30:00", inc.DateTime)
	assert.Equal(t, time.Date(2024, 1, 15, 8, 1, 0, 0, time.UTC), inc.CreatedAt.UTC())
}

func TestCreate_RejectsUnknownValues(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, incident.Input{Category: "bullying"})
	assert.ErrorIs(t, err, incident.ErrValidation)

	_, err = s.Create(ctx, incident.Input{Status: "closed"})
	assert.ErrorIs(t, err, incident.ErrValidation)
}

func TestGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created := mustCreate(t, s, incident.Input{StudentName: "Sarah Chen", Category: incident.CategoryHelpingPeers})

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Sarah Chen", got.StudentName)
	assert.Equal(t, incident.CategoryHelpingPeers, got.Category)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))

	_, err = s.Get(ctx, created.ID+100)
	assert.ErrorIs(t, err, incident.ErrNotFound)
}

func TestList_OrderAndFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, s, incident.Input{StudentName: "Alex Rodriguez", Category: incident.CategoryDisruptive, DateTime: "2024-01-13T09:15:00"})
	mustCreate(t, s, incident.Input{StudentName: "Sarah Chen", Category: incident.CategoryHelpingPeers, DateTime: "2024-01-15T10:30:00"})
	mustCreate(t, s, incident.Input{StudentName: "Alex Rodriguez", Category: incident.CategoryOffTask, DateTime: "2024-01-14T14:20:00"})

	all, err := s.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-01-15T10:30:00", all[0].DateTime)
	assert.Equal(t, "2024-01-14T14:20:00", all[1].DateTime)
	assert.Equal(t, "2024-01-13T09:15:00", all[2].DateTime)

	alex, err := s.List(ctx, ListFilter{Student: "Alex Rodriguez"})
	require.NoError(t, err)
	assert.Len(t, alex, 2)

	offTask, err := s.List(ctx, ListFilter{Student: "Alex Rodriguez", Category: incident.CategoryOffTask})
	require.NoError(t, err)
	require.Len(t, offTask, 1)
	assert.Equal(t, "2024-01-14T14:20:00", offTask[0].DateTime)
}

func TestList_EmptyIsNotNil(t *testing.T) {
	s := newTestStore(t)

	list, err := s.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created := mustCreate(t, s, incident.Input{StudentName: "Alex", Category: incident.CategoryDisruptive})

	updated, err := s.Update(ctx, created.ID, incident.Input{
		StudentName: "Alex Rodriguez",
		Category:    incident.CategoryDefiance,
		Status:      incident.StatusResolved,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Alex Rodriguez", updated.StudentName)
	assert.Equal(t, incident.CategoryDefiance, updated.Category)
	assert.Equal(t, incident.StatusResolved, updated.Status)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	_, err = s.Update(ctx, created.ID+100, incident.Input{})
	assert.ErrorIs(t, err, incident.ErrNotFound)

	_, err = s.Update(ctx, created.ID, incident.Input{Category: "unknown"})
	assert.ErrorIs(t, err, incident.ErrValidation)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created := mustCreate(t, s, incident.Input{StudentName: "Alex"})

	require.NoError(t, s.Delete(ctx, created.ID))

	_, err := s.Get(ctx, created.ID)
	assert.ErrorIs(t, err, incident.ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, created.ID), incident.ErrNotFound)
}

func TestRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 7; i++ {
		ids = append(ids, mustCreate(t, s, incident.Input{StudentName: "Student"}).ID)
	}

	recent, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, DefaultRecentLimit)
	assert.Equal(t, ids[6], recent[0].ID)
	assert.Equal(t, ids[2], recent[4].ID)

	two, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, s, incident.Input{Category: incident.CategoryDisruptive})
	mustCreate(t, s, incident.Input{Category: incident.CategoryDisruptive, Status: incident.StatusInvestigating})
	mustCreate(t, s, incident.Input{Category: incident.CategoryLeadership, Status: incident.StatusResolved})
	mustCreate(t, s, incident.Input{})

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Open)
	assert.Equal(t, 1, stats.Investigating)
	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 2, stats.ByCategory[incident.CategoryDisruptive])
	assert.Equal(t, 1, stats.ByCategory[incident.CategoryLeadership])
	assert.Equal(t, 1, stats.ByCategory[incident.CategoryNote])
	assert.Equal(t, 0, stats.ByCategory[incident.CategoryOffTask])
	assert.Len(t, stats.ByCategory, len(incident.Categories))
}

func TestStudentNames(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, s, incident.Input{StudentName: "Sarah Chen"})
	mustCreate(t, s, incident.Input{StudentName: "Alex Rodriguez"})
	mustCreate(t, s, incident.Input{StudentName: "Sarah Chen"})
	mustCreate(t, s, incident.Input{})

	names, err := s.StudentNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alex Rodriguez", "Sarah Chen"}, names)
}

func TestReporterContacts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, s, incident.Input{ReporterName: "Mr. Davis", ReporterEmail: "davis@school.edu"})
	mustCreate(t, s, incident.Input{ReporterName: "Mrs. Johnson", ReporterEmail: "johnson@school.edu"})
	mustCreate(t, s, incident.Input{ReporterName: "Mr. Davis", ReporterEmail: "mdavis@school.edu"})
	mustCreate(t, s, incident.Input{ReporterName: "Mrs. Johnson", ReporterEmail: "johnson@school.edu"})
	mustCreate(t, s, incident.Input{ReporterEmail: "orphan@school.edu"})

	contacts, err := s.ReporterContacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []incident.Contact{
		{Name: "Mr. Davis", Email: "davis@school.edu"},
		{Name: "Mr. Davis", Email: "mdavis@school.edu"},
		{Name: "Mrs. Johnson", Email: "johnson@school.edu"},
	}, contacts)
}
