package template_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/vigil/pkg/template"
)

type dict map[string]map[string]string

func (d dict) Lookup(section, key string) (string, bool) {
	v, ok := d[section][key]
	return v, ok
}

func renderContext() *template.Context {
	rc := template.NewContext(dict{"general": {"name": "Franz"}})
	rc.Now = func() time.Time {
		return time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)
	}
	return rc
}

func render(t *testing.T, tmpl string, rc *template.Context) string {
	t.Helper()
	out, err := template.Render(context.Background(), tmpl, rc)
	require.NoError(t, err)
	return out
}

func TestRender_FullTemplate(t *testing.T) {
	out := render(t, "Hello {% custom:name %}, today is {% date %}", renderContext())
	assert.Equal(t, "Hello Franz, today is 2025-01-15", out)
}

func TestRender_LiteralOnly(t *testing.T) {
	out := render(t, "just plain text", renderContext())
	assert.Equal(t, "just plain text", out)
}

func TestRender_EmptyTemplate(t *testing.T) {
	out := render(t, "", renderContext())
	assert.Empty(t, out)
}

func TestRender_MissingResultRendersEmpty(t *testing.T) {
	out := render(t, "Result: {% result %}", renderContext())
	assert.Equal(t, "Result: ", out)
}

func TestRender_ForRange(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{"repeated literal", "{% for i in (1..3) %}item {% endfor %}", "item item item "},
		{"index values", "{% for i in (1..3) %}{% i %}{% endfor %}", "123"},
		{"single element", "{% for i in (3..3) %}{% i %} {% endfor %}", "3 "},
		{"negative bounds", "{% for i in (-2..0) %}{% i %} {% endfor %}", "-2 -1 0 "},
		{"start beyond end renders nothing", "{% for i in (3..1) %}x{% endfor %}", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.tmpl, renderContext()))
		})
	}
}

func TestRender_NestedLoopsRowMajor(t *testing.T) {
	tmpl := "{% for i in (1..2) %}{% for j in (1..2) %}({% i %},{% j %}) {% endfor %}{% endfor %}"
	assert.Equal(t, "(1,1) (1,2) (2,1) (2,2) ", render(t, tmpl, renderContext()))
}

func TestRender_NestedLoopsSameVariable(t *testing.T) {
	// The inner loop shadows i inside its own frame; the outer frame keeps
	// its binding because each block renders against its own clone.
	tmpl := "{% for i in (1..2) %}{% for i in (8..9) %}{% i %}{% endfor %}-{% i %} {% endfor %}"
	assert.Equal(t, "89-1 89-2 ", render(t, tmpl, renderContext()))
}

func TestRender_LoopVarDoesNotLeakAfterLoop(t *testing.T) {
	rc := renderContext()
	_, err := template.Render(context.Background(), "{% for i in (1..2) %}{% i %}{% endfor %}{% i %}", rc)
	assert.ErrorIs(t, err, template.ErrUnknownTag)
	assert.Empty(t, rc.LoopVars)
}

func TestRender_ForMemories(t *testing.T) {
	rc := renderContext()
	rc.Memories = []template.MemoryEntry{
		{Date: "2025-01-02", DateTime: "2025-01-02 08:00", Result: "rainy"},
		{Date: "2025-01-01", DateTime: "2025-01-01 08:00", Result: "sunny"},
	}

	t.Run("fields in original order", func(t *testing.T) {
		out := render(t, "{% for i in memories limit:3 %}Date: {% i.date %}\n{% endfor %}", rc)
		assert.Equal(t, "Date: 2025-01-02\nDate: 2025-01-01\n", out)
	})

	t.Run("limit caps iteration", func(t *testing.T) {
		out := render(t, "{% for i in memories limit:1 %}{% i.result %} {% endfor %}", rc)
		assert.Equal(t, "rainy ", out)
	})

	t.Run("limit beyond available takes all", func(t *testing.T) {
		out := render(t, "{% for i in memories limit:10 %}{% i.result %} {% endfor %}", rc)
		assert.Equal(t, "rainy sunny ", out)
	})

	t.Run("no limit takes all", func(t *testing.T) {
		out := render(t, "{% for i in memories %}{% i.result %} {% endfor %}", rc)
		assert.Equal(t, "rainy sunny ", out)
	})
}

func TestRender_EmptyMemoriesCollection(t *testing.T) {
	out := render(t, "{% for i in memories %}{% i.result %} {% endfor %}", renderContext())
	assert.Empty(t, out)
}

func TestRender_MemoryTag(t *testing.T) {
	rc := renderContext()
	rc.Memories = []template.MemoryEntry{
		{Result: "newest"},
		{Result: "older"},
	}

	assert.Equal(t, "newest", render(t, "{% memory %}", rc))
	assert.Equal(t, "newest", render(t, "{% memory minus=1 %}", rc))
	assert.Equal(t, "older", render(t, "{% memory minus=2 %}", rc))

	_, err := template.Render(context.Background(), "{% memory minus=99 %}", rc)
	assert.ErrorIs(t, err, template.ErrMemoryOffsetOutOfRange)
}

func TestRender_LoopVarDurationInterpolation(t *testing.T) {
	// Each iteration shifts the date back by i days.
	tmpl := `{% for i in (1..2) %}{% date minus=i"d" %} {% endfor %}`
	assert.Equal(t, "2025-01-14 2025-01-13 ", render(t, tmpl, renderContext()))
}

func TestRender_UnterminatedForLoop(t *testing.T) {
	_, err := template.Render(context.Background(), "{% for i in (1..3) %}hello", renderContext())
	assert.ErrorIs(t, err, template.ErrUnterminatedForLoop)
}

func TestRender_UnexpectedEndFor(t *testing.T) {
	_, err := template.Render(context.Background(), "{% endfor %}", renderContext())
	assert.ErrorIs(t, err, template.ErrUnexpectedEndFor)
}

func TestRender_UnknownCollection(t *testing.T) {
	_, err := template.Render(context.Background(), "{% for i in foobar %}{% endfor %}", renderContext())
	require.ErrorIs(t, err, template.ErrUnknownCollection)
	assert.Contains(t, err.Error(), "foobar")
}

func TestRender_UnknownTagAbortsDiscardingOutput(t *testing.T) {
	out, err := template.Render(context.Background(), "some text {% bogus %}", renderContext())
	assert.ErrorIs(t, err, template.ErrUnknownTag)
	assert.Empty(t, out)
}

func TestRender_PipeAppliedToResolvedValue(t *testing.T) {
	rc := renderContext()
	rc.Result = "long report"

	out := render(t, "{% result | summary %}", rc)
	assert.Equal(t, "Summary of: long report", out)
}

func TestRender_PipeInsideLoop(t *testing.T) {
	rc := renderContext()
	rc.Memories = []template.MemoryEntry{{Result: "a"}, {Result: "b"}}

	out := render(t, "{% for m in memories %}{% m.result | summary %}\n{% endfor %}", rc)
	assert.Equal(t, "Summary of: a\nSummary of: b\n", out)
}

func TestRender_UnknownPipe(t *testing.T) {
	rc := renderContext()
	rc.Result = "x"

	_, err := template.Render(context.Background(), "{% result | nonexistent %}", rc)
	assert.ErrorIs(t, err, template.ErrUnknownPipe)
}

func TestRender_CustomPipeRegistry(t *testing.T) {
	rc := renderContext()
	rc.Result = "shout"
	rc.Pipes = template.NewPipeRegistry()
	rc.Pipes.Register("upper", func(_ context.Context, input string) (string, error) {
		return "SHOUT", nil
	})

	out := render(t, "{% result | upper %}", rc)
	assert.Equal(t, "SHOUT", out)
}

func TestRender_PipeErrorAbortsRender(t *testing.T) {
	rc := renderContext()
	rc.Result = "x"
	rc.Pipes = template.NewPipeRegistry()
	failure := errors.New("agent unavailable")
	rc.Pipes.Register("flaky", func(_ context.Context, _ string) (string, error) {
		return "", failure
	})

	out, err := template.Render(context.Background(), "before {% result | flaky %} after", rc)
	assert.ErrorIs(t, err, failure)
	assert.Empty(t, out)
}
