// Package seed holds the sample incidents used to populate a fresh database.
package seed

import (
	"context"
	"fmt"

	"github.com/MikeSquared-Agency/incidentlog/internal/incident"
)

// Creator stores one incident. *store.Store satisfies it.
type Creator interface {
	Create(ctx context.Context, in incident.Input) (incident.Incident, error)
}

// Incidents returns the sample data set.
func Incidents() []incident.Input {
	return []incident.Input{
		{
			Title:         "Student disruptive during lesson",
			Description:   "Student repeatedly interrupted the teacher during math lesson",
			Category:      incident.CategoryDisruptive,
			Location:      "Room 201",
			ReporterName:  "Mrs. Johnson",
			ReporterEmail: "johnson@school.edu",
			StudentName:   "Alex Rodriguez",
			DateTime:      "2024-01-15T10:30:00",
		},
		{
			Title:         "Student helping classmate with assignment",
			Description:   "Student voluntarily helped struggling classmate understand the science project",
			Category:      incident.CategoryHelpingPeers,
			Location:      "Room 105",
			ReporterName:  "Mr. Davis",
			ReporterEmail: "davis@school.edu",
			StudentName:   "Sarah Chen",
			DateTime:      "2024-01-14T14:20:00",
		},
		{
			Title:         "Student refusing to follow directions",
			Description:   "Student refused to put away phone when asked multiple times",
			Category:      incident.CategoryDefiance,
			Location:      "Room 302",
			ReporterName:  "Ms. Wilson",
			ReporterEmail: "wilson@school.edu",
			StudentName:   "Alex Rodriguez",
			DateTime:      "2024-01-13T09:15:00",
		},
		{
			Title:         "Student demonstrating leadership",
			Description:   "Student organized group activity and helped coordinate team efforts",
			Category:      incident.CategoryLeadership,
			Location:      "Room 105",
			ReporterName:  "Mr. Davis",
			ReporterEmail: "davis@school.edu",
			StudentName:   "Sarah Chen",
			DateTime:      "2024-01-12T11:00:00",
		},
		{
			Title:         "Student off-task during independent work",
			Description:   "Student was playing games on phone instead of completing assigned work",
			Category:      incident.CategoryOffTask,
			Location:      "Room 201",
			ReporterName:  "Mrs. Johnson",
			ReporterEmail: "johnson@school.edu",
			StudentName:   "Michael Thompson",
			DateTime:      "2024-01-11T13:45:00",
		},
	}
}

// Load inserts every sample incident and returns the stored rows. It stops
// at the first failure.
func Load(ctx context.Context, c Creator) ([]incident.Incident, error) {
	samples := Incidents()
	out := make([]incident.Incident, 0, len(samples))
	for i, in := range samples {
		inc, err := c.Create(ctx, in)
		if err != nil {
			return out, fmt.Errorf("insert sample %d: %w", i+1, err)
		}
		out = append(out, inc)
	}
	return out, nil
}
