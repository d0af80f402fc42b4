package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/incidentlog/internal/incident"
	"github.com/MikeSquared-Agency/incidentlog/internal/registry"
)

const (
	defaultTimeout = 20 * time.Second

	// timestampLayout is ISO-8601 in UTC with millisecond precision.
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Generator produces free text from a prompt, typically via a hosted model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Entities gives read access to the current registry snapshot.
type Entities interface {
	Snapshot() *registry.Snapshot
}

// Source says which path produced a draft.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

type Parser struct {
	entities Entities
	gen      Generator
	logger   *slog.Logger
	now      func() time.Time
	timeout  time.Duration
}

type Option func(*Parser)

// WithGenerator enables the model path. Without one every call falls back.
func WithGenerator(g Generator) Option {
	return func(p *Parser) { p.gen = g }
}

// WithClock overrides the time source used to stamp drafts.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// WithTimeout bounds each generator call. Default: 20s.
func WithTimeout(d time.Duration) Option {
	return func(p *Parser) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func New(entities Entities, logger *slog.Logger, opts ...Option) *Parser {
	p := &Parser{
		entities: entities,
		logger:   logger,
		now:      time.Now,
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) timestamp() string {
	return p.now().UTC().Format(timestampLayout)
}

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// Parse turns a transcript into a draft. It asks the generator first and
// falls back to rule-based extraction when there is no generator, the call
// fails, or the response holds no usable JSON object.
func (p *Parser) Parse(ctx context.Context, transcript string) (incident.Draft, Source) {
	if p.gen == nil {
		return p.Fallback(transcript), SourceFallback
	}

	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.gen.Generate(cctx, fmt.Sprintf(extractionPrompt, transcript))
	if err != nil {
		p.logger.Warn("generator call failed, using fallback", "error", err)
		return p.Fallback(transcript), SourceFallback
	}

	d, err := p.decode(raw, transcript)
	if err != nil {
		p.logger.Warn("generator response unusable, using fallback", "error", err, "raw_len", len(raw))
		return p.Fallback(transcript), SourceFallback
	}
	return d, SourceModel
}

// decode pulls the outermost JSON object out of raw and maps it onto a
// draft. Values that are not strings (a list of students, say) are
// flattened rather than rejected.
func (p *Parser) decode(raw, transcript string) (incident.Draft, error) {
	span := jsonObject.FindString(raw)
	if span == "" {
		return incident.Draft{}, fmt.Errorf("no JSON object in response")
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(span), &fields); err != nil {
		return incident.Draft{}, fmt.Errorf("parse response: %w", err)
	}

	d := incident.Draft{
		StudentName:   flatten(fields["studentName"]),
		Category:      strings.ToLower(flatten(fields["category"])),
		Location:      flatten(fields["location"]),
		ReporterName:  flatten(fields["reporterName"]),
		ReporterEmail: flatten(fields["reporterEmail"]),
		Description:   flatten(fields["description"]),
		DateTime:      p.timestamp(),
	}

	if !incident.IsCategory(d.Category) {
		d.Category = Classify(strings.ToLower(transcript))
	}
	if d.ReporterEmail == "" && d.ReporterName != "" {
		if email, ok := p.entities.Snapshot().EmailFor(d.ReporterName); ok {
			d.ReporterEmail = email
		}
	}
	if d.Description == "" {
		d.Description = transcript
	}
	return d, nil
}

func flatten(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := flatten(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
