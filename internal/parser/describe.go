package parser

import (
	"strings"

	"github.com/MikeSquared-Agency/incidentlog/internal/incident"
)

var behaviorPhrases = map[string]string{
	incident.CategoryDisruptive:    "was disruptive",
	incident.CategoryOffTask:       "was off task",
	incident.CategoryDefiance:      "was defiant",
	incident.CategoryDisrespectful: "used disrespectful language",
	incident.CategoryPeerConflict:  "had a conflict with peers",
	incident.CategoryParticipation: "participated well",
	incident.CategoryOnTask:        "was on task",
	incident.CategoryHelpingPeers:  "helped peers",
	incident.CategoryLeadership:    "demonstrated leadership",
}

// Describe composes a readable description from the extracted fields with
// the transcript appended as evidence, e.g.
// "Alex Rodriguez was disruptive in Room 201 - <transcript>.".
// When no part can be assembled the transcript is returned unchanged.
func Describe(student, category, location, transcript string) string {
	var parts []string
	if student != "" {
		parts = append(parts, student)
	}
	if category != incident.CategoryNote {
		phrase, ok := behaviorPhrases[category]
		if !ok {
			phrase = "had an incident"
		}
		parts = append(parts, phrase)
	}
	if location != "" {
		parts = append(parts, "in "+location)
	}
	if strings.TrimSpace(transcript) != "" {
		parts = append(parts, "- "+transcript)
	}

	desc := strings.Join(parts, " ") + "."
	if desc == "." {
		return transcript
	}
	return desc
}
