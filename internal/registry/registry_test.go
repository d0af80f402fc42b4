package registry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/incidentlog/internal/incident"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSource struct {
	mu          sync.Mutex
	students    []string
	contacts    []incident.Contact
	studentErr  error
	reporterErr error
	calls       int
}

func (f *fakeSource) StudentNames(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.students, f.studentErr
}

func (f *fakeSource) ReporterContacts(context.Context) ([]incident.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.contacts, f.reporterErr
}

// manualScheduler records the job so tests can fire ticks by hand.
type manualScheduler struct {
	period  time.Duration
	job     func()
	stopped bool
}

func (m *manualScheduler) Every(period time.Duration, fn func()) (func(), error) {
	m.period = period
	m.job = fn
	return func() { m.stopped = true }, nil
}

func (m *manualScheduler) tick() { m.job() }

func TestNew_StartsEmpty(t *testing.T) {
	r := New(&fakeSource{}, discardLogger())

	assert.Empty(t, r.Students())
	assert.Empty(t, r.Reporters())
	_, ok := r.EmailFor("anyone")
	assert.False(t, ok)
	assert.True(t, r.Snapshot().LoadedAt().IsZero())
}

func TestRefresh_LoadsAndNormalizes(t *testing.T) {
	src := &fakeSource{
		students: []string{" Alex Rodriguez ", "Sarah Chen", "", "Alex Rodriguez", "  "},
		contacts: []incident.Contact{
			{Name: "Mrs. Johnson ", Email: " johnson@school.edu"},
			{Name: "Mr. Davis", Email: ""},
			{Name: "", Email: "orphan@school.edu"},
			{Name: "Mrs. Johnson", Email: "johnson@school.edu"},
		},
	}
	r := New(src, discardLogger())

	require.NoError(t, r.Refresh(context.Background()))

	assert.Equal(t, []string{"Alex Rodriguez", "Sarah Chen"}, r.Students())
	assert.Equal(t, []string{"Mrs. Johnson", "Mr. Davis"}, r.Reporters())

	email, ok := r.EmailFor("Mrs. Johnson")
	assert.True(t, ok)
	assert.Equal(t, "johnson@school.edu", email)

	_, ok = r.EmailFor("Mr. Davis")
	assert.False(t, ok, "reporter without email has no mapping")

	_, ok = r.EmailFor("mrs. johnson")
	assert.False(t, ok, "email lookup is case-sensitive")

	email, ok = r.EmailFor("  Mrs. Johnson ")
	assert.True(t, ok, "lookup trims the name")
	assert.Equal(t, "johnson@school.edu", email)
}

func TestRefresh_LastEmailWins(t *testing.T) {
	src := &fakeSource{contacts: []incident.Contact{
		{Name: "Ms. Wilson", Email: "old@school.edu"},
		{Name: "Ms. Wilson", Email: "wilson@school.edu"},
	}}
	r := New(src, discardLogger())
	require.NoError(t, r.Refresh(context.Background()))

	email, _ := r.EmailFor("Ms. Wilson")
	assert.Equal(t, "wilson@school.edu", email)
	assert.Equal(t, []string{"Ms. Wilson"}, r.Reporters())
}

func TestRefresh_FailureKeepsPreviousSnapshot(t *testing.T) {
	src := &fakeSource{
		students: []string{"Alex Rodriguez"},
		contacts: []incident.Contact{{Name: "Mrs. Johnson", Email: "johnson@school.edu"}},
	}
	r := New(src, discardLogger())
	require.NoError(t, r.Refresh(context.Background()))
	before := r.Snapshot()

	src.students = []string{"Someone Else"}
	src.reporterErr = errors.New("database is locked")

	err := r.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load reporters")

	assert.Same(t, before, r.Snapshot(), "snapshot must not be partially replaced")
	assert.Equal(t, []string{"Alex Rodriguez"}, r.Students())

	src.studentErr = errors.New("no such table")
	require.Error(t, r.Refresh(context.Background()))
	assert.Same(t, before, r.Snapshot())
}

func TestSnapshot_AccessorsReturnCopies(t *testing.T) {
	r := New(&fakeSource{students: []string{"Alex Rodriguez"}}, discardLogger())
	require.NoError(t, r.Refresh(context.Background()))

	got := r.Students()
	got[0] = "mutated"

	assert.Equal(t, []string{"Alex Rodriguez"}, r.Students())
}

func TestStart_RefreshesEagerlyThenOnTick(t *testing.T) {
	src := &fakeSource{students: []string{"Alex Rodriguez"}}
	r := New(src, discardLogger())
	sched := &manualScheduler{}

	stop, err := r.Start(context.Background(), sched, time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls, "eager refresh at startup")
	assert.Equal(t, time.Minute, sched.period)
	assert.Equal(t, []string{"Alex Rodriguez"}, r.Students())

	src.students = []string{"Alex Rodriguez", "Sarah Chen"}
	sched.tick()
	assert.Equal(t, 2, src.calls)
	assert.Equal(t, []string{"Alex Rodriguez", "Sarah Chen"}, r.Students())

	stop()
	assert.True(t, sched.stopped)
}

func TestStart_DefaultPeriod(t *testing.T) {
	sched := &manualScheduler{}
	_, err := New(&fakeSource{}, discardLogger()).Start(context.Background(), sched, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultRefreshInterval, sched.period)
}

func TestStart_SkipsTickAfterCancel(t *testing.T) {
	src := &fakeSource{}
	r := New(src, discardLogger())
	sched := &manualScheduler{}
	ctx, cancel := context.WithCancel(context.Background())

	_, err := r.Start(ctx, sched, time.Minute)
	require.NoError(t, err)
	cancel()
	sched.tick()

	assert.Equal(t, 1, src.calls)
}

func TestRefresh_ConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	src := &fakeSource{
		students: []string{"Alex Rodriguez"},
		contacts: []incident.Contact{{Name: "Mrs. Johnson", Email: "johnson@school.edu"}},
	}
	r := New(src, discardLogger())
	require.NoError(t, r.Refresh(context.Background()))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				snap := r.Snapshot()
				students, reporters := snap.Len()
				// Every snapshot the source can produce holds one of each.
				assert.Equal(t, 1, students)
				assert.Equal(t, 1, reporters)
			}
		}()
	}
	for i := 0; i < 50; i++ {
		require.NoError(t, r.Refresh(context.Background()))
	}
	wg.Wait()
}

func TestCronScheduler_RejectsSubSecondPeriod(t *testing.T) {
	s := NewCronScheduler()
	_, err := s.Every(100*time.Millisecond, func() {})
	assert.Error(t, err)

	stop, err := s.Every(time.Minute, func() {})
	require.NoError(t, err)
	stop()
}
