package microioc_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limitzero/microioc"
)

type loggingInstaller struct{}

func (*loggingInstaller) Configure(c *microioc.Container) error {
	return microioc.Register[Logger, *FileLogger](c.Registrations()).
		WithLifeCycle(microioc.Singleton).
		Err()
}

type mailInstaller struct{}

func (*mailInstaller) Configure(c *microioc.Container) error {
	r := c.Registrations()
	microioc.Register[ErrorHandler, *DefaultErrorHandler](r)
	microioc.RegisterFunc[MailService](r, NewSMTPMailService)
	return r.Err()
}

func TestRegisterFromInstallers(t *testing.T) {
	t.Parallel()

	c := microioc.New()
	err := c.RegisterFromInstallers(&loggingInstaller{}, nil, &mailInstaller{})
	require.NoError(t, err)

	mail := microioc.MustResolve[MailService](c).(*SMTPMailService)
	assert.Same(t, microioc.MustResolve[Logger](c), mail.logger)
}

func TestRegisterFromInstallers_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	ran := false

	c := microioc.New()
	err := c.RegisterFromInstallers(
		microioc.InstallerFunc(func(*microioc.Container) error { return boom }),
		microioc.InstallerFunc(func(*microioc.Container) error {
			ran = true
			return nil
		}),
	)

	assert.ErrorIs(t, err, boom)
	assert.False(t, ran)
}

func TestRegisterFromInstaller_Generic(t *testing.T) {
	t.Parallel()

	c := microioc.New()
	require.NoError(t, microioc.RegisterFromInstaller[loggingInstaller](c))

	_, err := microioc.Resolve[Logger](c)
	assert.NoError(t, err)
}

func TestRegisterFromInstallers_AfterDispose(t *testing.T) {
	t.Parallel()

	c := microioc.New()
	c.Dispose()

	err := c.RegisterFromInstallers(&loggingInstaller{})
	assert.True(t, microioc.IsObjectDisposed(err))
}

func TestModule_Order(t *testing.T) {
	t.Parallel()

	var order []string
	record := func(name string) microioc.Installer {
		return microioc.InstallerFunc(func(*microioc.Container) error {
			order = append(order, name)
			return nil
		})
	}

	infra := microioc.NewModule("infra").Install(record("infra"))
	app := microioc.NewModule("app").
		Install(record("app")).
		Register(func(r *microioc.Registration) {
			order = append(order, "app-step")
			microioc.Register[Logger, *FileLogger](r)
		}).
		Include(infra)

	c := microioc.New()
	require.NoError(t, c.RegisterFromInstallers(app))

	assert.Equal(t, []string{"infra", "app-step", "app"}, order)
	assert.Equal(t, "app", app.Name())
	assert.Equal(t, 1, c.Size())
}

func TestModule_Failure(t *testing.T) {
	t.Parallel()

	inner := microioc.NewModule("inner").Register(func(r *microioc.Registration) {
		microioc.Register[MailService, *FileLogger](r)
	})
	outer := microioc.NewModule("outer").Include(inner)

	c := microioc.New()
	err := c.RegisterFromInstallers(outer)
	require.Error(t, err)

	var merr *microioc.Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, microioc.ErrCodeModuleApplyFailed, merr.Code)
	assert.Equal(t, "outer", merr.Service)
	assert.True(t, microioc.IsInvalidBinding(err))
}
