package parser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/incidentlog/internal/incident"
)

type fakeGenerator struct {
	response string
	err      error
	prompt   string
	block    bool
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.response, f.err
}

func TestParse_NoGeneratorUsesFallback(t *testing.T) {
	p := newTestParser(entities(nil))

	d, src := p.Parse(context.Background(), "Student Maria Lopez was disruptive")

	assert.Equal(t, SourceFallback, src)
	assert.Equal(t, "Maria Lopez", d.StudentName)
}

func TestParse_ModelResponse(t *testing.T) {
	gen := &fakeGenerator{response: `Sure! Here is the JSON:
{"studentName": "Alex Rodriguez", "category": "Off-Task", "location": "Room 201",
 "reporterName": "Mrs. Johnson", "reporterEmail": "", "description": "Alex was on his phone",
 "dateTime": "1999-01-01T00:00:00Z"}
Hope that helps.`}
	e := entities(nil, incident.Contact{Name: "Mrs. Johnson", Email: "johnson@school.edu"})
	p := newTestParser(e, WithGenerator(gen))

	d, src := p.Parse(context.Background(), "Alex was on his phone in Room 201")

	require.Equal(t, SourceModel, src)
	assert.Equal(t, incident.Draft{
		StudentName:   "Alex Rodriguez",
		Category:      incident.CategoryOffTask,
		Location:      "Room 201",
		ReporterName:  "Mrs. Johnson",
		ReporterEmail: "johnson@school.edu",
		Description:   "Alex was on his phone",
		DateTime:      fixedStamp,
	}, d)
	assert.Contains(t, gen.prompt, `Text: """Alex was on his phone in Room 201"""`)
}

func TestParse_ModelValuesAreFlattened(t *testing.T) {
	gen := &fakeGenerator{response: `{"studentName": ["Ben", "Sam"], "category": "peer-conflict", "location": null, "reporterName": 42}`}
	p := newTestParser(entities(nil), WithGenerator(gen))

	d, src := p.Parse(context.Background(), "Ben and Sam were arguing")

	require.Equal(t, SourceModel, src)
	assert.Equal(t, "Ben, Sam", d.StudentName)
	assert.Equal(t, "", d.Location)
	assert.Equal(t, "42", d.ReporterName)
	assert.Equal(t, "Ben and Sam were arguing", d.Description, "empty model description falls back to transcript")
}

func TestParse_UnknownModelCategoryIsReclassified(t *testing.T) {
	gen := &fakeGenerator{response: `{"studentName": "Ben", "category": "mischief"}`}
	p := newTestParser(entities(nil), WithGenerator(gen))

	d, src := p.Parse(context.Background(), "Ben was throwing paper")

	assert.Equal(t, SourceModel, src)
	assert.Equal(t, incident.CategoryDisruptive, d.Category)
}

func TestParse_FallbackTriggers(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"call error", &fakeGenerator{err: errors.New("api error 503")}},
		{"no JSON object", &fakeGenerator{response: "I cannot help with that."}},
		{"invalid JSON", &fakeGenerator{response: "{studentName: Maria}"}},
		{"JSON array only", &fakeGenerator{response: `["Maria Lopez"]`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser(entities(nil), WithGenerator(tt.gen))

			d, src := p.Parse(context.Background(), "Student Maria Lopez was disruptive")

			assert.Equal(t, SourceFallback, src)
			assert.Equal(t, "Maria Lopez", d.StudentName)
			assert.Equal(t, incident.CategoryDisruptive, d.Category)
			assert.Equal(t, fixedStamp, d.DateTime)
		})
	}
}

func TestParse_TimeoutFallsBack(t *testing.T) {
	gen := &fakeGenerator{block: true}
	p := newTestParser(entities(nil), WithGenerator(gen), WithTimeout(10*time.Millisecond))

	start := time.Now()
	_, src := p.Parse(context.Background(), "Student Maria Lopez was disruptive")

	assert.Equal(t, SourceFallback, src)
	assert.Less(t, time.Since(start), 5*time.Second)
}
