package registry

import (
	"slices"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/incidentlog/internal/incident"
)

// Snapshot is an immutable view of the known students and reporters.
type Snapshot struct {
	students  []string
	reporters []string
	emails    map[string]string
	loadedAt  time.Time
}

// NewSnapshot builds a snapshot from raw rows. Names are trimmed, blanks
// dropped and duplicates removed keeping first-seen order. For reporters
// listed more than once the last non-empty email wins.
func NewSnapshot(students []string, contacts []incident.Contact, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		students: dedupe(students),
		emails:   make(map[string]string),
		loadedAt: loadedAt,
	}

	names := make([]string, 0, len(contacts))
	for _, c := range contacts {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		names = append(names, name)
		if email := strings.TrimSpace(c.Email); email != "" {
			s.emails[name] = email
		}
	}
	s.reporters = dedupe(names)
	return s
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Students returns the known student names in stored order.
func (s *Snapshot) Students() []string { return slices.Clone(s.students) }

// Reporters returns the known reporter names in stored order.
func (s *Snapshot) Reporters() []string { return slices.Clone(s.reporters) }

// EmailFor looks up the stored email for an exact, trimmed reporter name.
func (s *Snapshot) EmailFor(name string) (string, bool) {
	email, ok := s.emails[strings.TrimSpace(name)]
	return email, ok
}

// LoadedAt is when the snapshot was read from its source. Zero for the
// initial empty snapshot.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Len returns the number of students and reporters held.
func (s *Snapshot) Len() (students, reporters int) {
	return len(s.students), len(s.reporters)
}
