package microioc_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limitzero/microioc"
)

func registerDebugGraph(t *testing.T, c *microioc.Container) {
	t.Helper()

	r := c.Registrations().Constructor(NewSMTPMailService)
	microioc.Register[Logger, *FileLogger](r).WithLifeCycle(microioc.Singleton)
	microioc.Register[ErrorHandler, *DefaultErrorHandler](r)
	microioc.Register[MailService, *SMTPMailService](r)
	require.NoError(t, r.Err())
}

func TestGraph_Empty(t *testing.T) {
	t.Parallel()

	c := microioc.New()

	assert.Empty(t, c.Graph().Bindings)
	assert.Equal(t, "(empty container)\n", c.SprintGraph())
}

func TestGraph(t *testing.T) {
	t.Parallel()

	c := microioc.New()
	registerDebugGraph(t, c)
	microioc.MustResolve[Logger](c)

	info := c.Graph()
	require.Len(t, info.Bindings, 3)

	byKey := make(map[string]microioc.BindingInfo)
	for _, b := range info.Bindings {
		byKey[escapeForTest(b.Key)] = b
	}

	mail, ok := byKey["MailService -> SMTPMailService"]
	require.True(t, ok, "keys: %v", c.Keys())
	assert.Len(t, mail.Dependencies, 2)
	assert.False(t, mail.Instantiated)

	logger := byKey["Logger -> FileLogger"]
	assert.Equal(t, "singleton", logger.LifeCycle)
	assert.True(t, logger.Instantiated)
	assert.Len(t, logger.Dependents, 1)
}

func TestFprintGraph(t *testing.T) {
	t.Parallel()

	c := microioc.New()
	registerDebugGraph(t, c)

	var buf bytes.Buffer
	c.FprintGraph(&buf)

	var headers, deps int
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		switch {
		case strings.HasPrefix(line, "○ "):
			headers++
			assert.Contains(t, line, " => ", line)
		case strings.HasPrefix(line, "    ← "):
			deps++
		default:
			t.Errorf("unexpected line %q", line)
		}
	}
	assert.Equal(t, 3, headers)
	assert.Equal(t, 2, deps)
	assert.Contains(t, buf.String(), "○ microioc_test.Logger => microioc_test.FileLogger [singleton]\n")
}

func TestFprintGraph_FactoriesPropertiesAndMissing(t *testing.T) {
	t.Parallel()

	c := microioc.New()
	r := c.Registrations().Constructor(NewSMTPMailService)
	microioc.Register[Logger, *FileLogger](r)
	microioc.WithProperty[*FileLogger](r, "LogFileLocation", "/var/log/app.log")
	microioc.RegisterFactory(r, "pooled", func(microioc.Resolver) (*Connection, error) { return &Connection{}, nil }).
		WithLifeCycle(microioc.Singleton)
	microioc.Register[MailService, *SMTPMailService](r)
	require.NoError(t, r.Err())

	info := c.Graph()
	require.Len(t, info.Bindings, 3)

	logger := info.Bindings[0]
	assert.True(t, strings.HasSuffix(logger.Contract, "microioc_test.Logger"), logger.Contract)
	assert.True(t, strings.HasSuffix(logger.Component, "microioc_test.FileLogger"), logger.Component)
	assert.Equal(t, []string{"LogFileLocation"}, logger.Properties)

	pooled := info.Bindings[1]
	assert.True(t, pooled.Factory)
	assert.Empty(t, pooled.Contract)
	assert.Equal(t, "pooled", pooled.Name)
	require.Len(t, info.Missing, 1)
	assert.True(t, strings.HasSuffix(info.Missing[0], "microioc_test.ErrorHandler"), info.Missing[0])

	out := c.SprintGraph()
	assert.Contains(t, out, "○ microioc_test.Connection [singleton factory #pooled]\n")
	assert.Contains(t, out, "    = LogFileLocation\n")
	assert.Contains(t, out, "✗ microioc_test.ErrorHandler (unbound)\n")

	dot := c.SprintGraphDOT()
	assert.Contains(t, dot, `[label="microioc_test.Connection\nsingleton factory #pooled", shape=component];`)
	assert.Contains(t, dot, "shape=plaintext, fontcolor=red")
}

func TestSprintGraphDOT(t *testing.T) {
	t.Parallel()

	c := microioc.New()
	registerDebugGraph(t, c)
	microioc.MustResolve[Logger](c)

	dot := c.SprintGraphDOT()

	assert.True(t, strings.HasPrefix(dot, "digraph bindings {"))
	assert.True(t, strings.HasSuffix(dot, "}\n"))
	assert.Contains(t, dot, `[label="microioc_test.MailService", shape=ellipse, style=dashed];`)
	assert.Contains(t, dot, `[label="microioc_test.SMTPMailService\ntransient"];`)
	assert.Contains(t, dot, `[label="microioc_test.FileLogger\nsingleton", style=filled, fillcolor=lightblue];`)
	assert.Equal(t, 3, strings.Count(dot, "[style=dashed, arrowhead=onormal];"))
	assert.Equal(t, 5, strings.Count(dot, `" -> "`))
	assert.NotContains(t, dot, "factory")
}

// escapeForTest reduces a binding key to bare type names.
func escapeForTest(key string) string {
	parts := strings.Split(key, " -> ")
	for i, part := range parts {
		part = strings.TrimPrefix(part, "*")
		if idx := strings.LastIndex(part, "."); idx != -1 {
			part = part[idx+1:]
		}
		parts[i] = part
	}
	return strings.Join(parts, " -> ")
}
