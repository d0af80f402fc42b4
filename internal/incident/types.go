package incident

import "time"

// Category labels. The set is closed; Note is the fallback when nothing matches.
const (
	CategoryDisruptive    = "disruptive-behavior"
	CategoryOffTask       = "off-task"
	CategoryDefiance      = "defiance-non-compliance"
	CategoryDisrespectful = "disrespectful-language"
	CategoryPeerConflict  = "peer-conflict"
	CategoryParticipation = "respectful-participation"
	CategoryOnTask        = "on-task-engagement"
	CategoryHelpingPeers  = "helping-peers"
	CategoryLeadership    = "leadership-initiative"
	CategoryNote          = "note"
)

// Categories lists every valid category in display order.
var Categories = []string{
	CategoryDisruptive,
	CategoryOffTask,
	CategoryDefiance,
	CategoryDisrespectful,
	CategoryPeerConflict,
	CategoryParticipation,
	CategoryOnTask,
	CategoryHelpingPeers,
	CategoryLeadership,
	CategoryNote,
}

// IsCategory reports whether c is one of Categories.
func IsCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Review status of a stored incident.
const (
	StatusOpen          = "open"
	StatusInvestigating = "investigating"
	StatusResolved      = "resolved"
)

// IsStatus reports whether s is a known status.
func IsStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInvestigating, StatusResolved:
		return true
	}
	return false
}

// Draft is the structured record produced from a free-text transcript.
// Field names are consumed verbatim by the persistence layer, so none of
// them may be omitted from JSON.
type Draft struct {
	StudentName   string `json:"studentName"`
	Category      string `json:"category"`
	Location      string `json:"location"`
	ReporterName  string `json:"reporterName"`
	ReporterEmail string `json:"reporterEmail"`
	Description   string `json:"description"`
	DateTime      string `json:"dateTime"`
}

// Incident is a stored incident record.
type Incident struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Location      string    `json:"location"`
	ReporterName  string    `json:"reporterName"`
	ReporterEmail string    `json:"reporterEmail"`
	StudentName   string    `json:"studentName"`
	DateTime      string    `json:"dateTime"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Input carries the writable fields of an incident for create and update.
type Input struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Location      string `json:"location"`
	ReporterName  string `json:"reporterName"`
	ReporterEmail string `json:"reporterEmail"`
	StudentName   string `json:"studentName"`
	DateTime      string `json:"dateTime"`
	Status        string `json:"status"`
}

// Normalize fills defaults and validates the input in place.
func (in *Input) Normalize() error {
	if in.Category == "" {
		in.Category = CategoryNote
	}
	if !IsCategory(in.Category) {
		return Validationf("unknown category %q", in.Category)
	}
	if in.Status == "" {
		in.Status = StatusOpen
	}
	if !IsStatus(in.Status) {
		return Validationf("unknown status %q", in.Status)
	}
	return nil
}

// Stats is the dashboard aggregate over all incidents.
type Stats struct {
	Total         int            `json:"total"`
	Open          int            `json:"open"`
	Investigating int            `json:"investigating"`
	Resolved      int            `json:"resolved"`
	ByCategory    map[string]int `json:"byCategory"`
}

// Contact is a reporter name with the email last recorded for it.
type Contact struct {
	Name  string `json:"reporterName"`
	Email string `json:"reporterEmail"`
}
