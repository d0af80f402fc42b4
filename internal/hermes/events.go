package hermes

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/incidentlog/internal/incident"
)

const (
	SubjectCreated = "incidents.created"
	SubjectUpdated = "incidents.updated"
	SubjectDeleted = "incidents.deleted"
	SubjectParsed  = "incidents.parsed"
)

// IncidentEvent is the payload published for every incident mutation and
// transcript parse.
type IncidentEvent struct {
	EventID     string    `json:"event_id"`
	IncidentID  int64     `json:"incident_id,omitempty"`
	Category    string    `json:"category,omitempty"`
	StudentName string    `json:"student_name,omitempty"`
	Source      string    `json:"source,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher is satisfied by *Client.
type Publisher interface {
	Publish(subject string, data any) error
}

// NopPublisher drops every event. It is used when NATS is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(string, any) error { return nil }

// Events publishes incident events. Failures are logged and never returned,
// so a broker outage cannot fail an API request.
type Events struct {
	pub    Publisher
	logger *slog.Logger
	now    func() time.Time
}

func NewEvents(pub Publisher, logger *slog.Logger) *Events {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &Events{pub: pub, logger: logger, now: time.Now}
}

func (e *Events) Created(inc incident.Incident) {
	e.publish(SubjectCreated, e.fromIncident(inc))
}

func (e *Events) Updated(inc incident.Incident) {
	e.publish(SubjectUpdated, e.fromIncident(inc))
}

func (e *Events) Deleted(id int64) {
	ev := e.event()
	ev.IncidentID = id
	e.publish(SubjectDeleted, ev)
}

// Parsed records which extraction path produced d.
func (e *Events) Parsed(d incident.Draft, source string) {
	ev := e.event()
	ev.Category = d.Category
	ev.StudentName = d.StudentName
	ev.Source = source
	e.publish(SubjectParsed, ev)
}

func (e *Events) event() IncidentEvent {
	return IncidentEvent{EventID: uuid.New().String(), Timestamp: e.now().UTC()}
}

func (e *Events) fromIncident(inc incident.Incident) IncidentEvent {
	ev := e.event()
	ev.IncidentID = inc.ID
	ev.Category = inc.Category
	ev.StudentName = inc.StudentName
	return ev
}

func (e *Events) publish(subject string, ev IncidentEvent) {
	if err := e.pub.Publish(subject, ev); err != nil {
		e.logger.Warn("publish incident event", "subject", subject, "event_id", ev.EventID, "error", err)
	}
}
