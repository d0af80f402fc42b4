package parser

import (
	"strings"

	"github.com/MikeSquared-Agency/incidentlog/internal/incident"
)

// Fallback extracts a draft from transcript with keyword and pattern rules
// only. It is the guaranteed path: it never fails and every field of the
// returned draft is set, even for empty input.
func (p *Parser) Fallback(transcript string) (d incident.Draft) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("fallback extraction panicked", "panic", r, "transcript_len", len(transcript))
			d = incident.Draft{
				Category:    incident.CategoryNote,
				Description: transcript,
				DateTime:    p.timestamp(),
			}
		}
	}()

	snap := p.entities.Snapshot()
	lower := strings.ToLower(transcript)

	student := ExtractStudent(snap, transcript)
	location := ExtractLocation(transcript)
	reporter, email := ExtractReporter(snap, transcript)
	category := Classify(lower)

	return incident.Draft{
		StudentName:   student,
		Category:      category,
		Location:      location,
		ReporterName:  reporter,
		ReporterEmail: email,
		Description:   Describe(student, category, location, transcript),
		DateTime:      p.timestamp(),
	}
}
