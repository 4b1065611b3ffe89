package microioc_test

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limitzero/microioc"
)

type hookRecorder struct {
	mu         sync.Mutex
	resolved   []string
	failed     []string
	registered []string
	disposed   map[string]error
}

func (h *hookRecorder) options() []microioc.Option {
	h.disposed = make(map[string]error)
	return []microioc.Option{
		microioc.WithResolveObserver(func(key string, _ time.Duration, err error) {
			h.mu.Lock()
			defer h.mu.Unlock()
			if err != nil {
				h.failed = append(h.failed, key)
				return
			}
			h.resolved = append(h.resolved, key)
		}),
		microioc.WithRegisterObserver(func(key string) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.registered = append(h.registered, key)
		}),
		microioc.WithDisposeObserver(func(key string, err error) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.disposed[key] = err
		}),
	}
}

func TestObservers(t *testing.T) {
	t.Parallel()

	rec := &hookRecorder{}
	c := microioc.New(rec.options()...)

	r := c.Registrations()
	microioc.Register[Logger, *FileLogger](r)
	microioc.RegisterType[*File](r).WithLifeCycle(microioc.Singleton)
	microioc.Register[Logger, *FileLogger](r)
	require.NoError(t, r.Err())

	require.Len(t, rec.registered, 2)
	assert.Contains(t, rec.registered[0], "FileLogger")
	assert.Contains(t, rec.registered[1], "File")

	_, err := microioc.Resolve[Logger](c)
	require.NoError(t, err)
	_, err = microioc.Resolve[*File](c)
	require.NoError(t, err)
	_, err = microioc.Resolve[MailService](c)
	require.Error(t, err)

	assert.Len(t, rec.resolved, 2)
	require.Len(t, rec.failed, 1)
	assert.Contains(t, rec.failed[0], "MailService")

	c.Dispose()

	require.Len(t, rec.disposed, 1)
	for key, err := range rec.disposed {
		assert.Contains(t, key, "File")
		assert.EqualError(t, err, "already closed")
	}
}

func TestWithLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := microioc.New(microioc.WithLogger(logger))
	require.NoError(t, microioc.RegisterType[*File](c.Registrations()).WithLifeCycle(microioc.Singleton).Err())
	microioc.MustResolve[*File](c)
	c.Dispose()

	out := buf.String()
	assert.True(t, strings.Contains(out, "registered binding"), out)
	assert.True(t, strings.Contains(out, "failed to dispose instance"), out)
}

func TestWithLogger_Nil(t *testing.T) {
	t.Parallel()

	c := microioc.New(microioc.WithLogger(nil))
	require.NoError(t, microioc.Register[Logger, *FileLogger](c.Registrations()).Err())

	_, err := microioc.Resolve[Logger](c)
	assert.NoError(t, err)
}
