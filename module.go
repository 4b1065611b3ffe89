package microioc

// Installer groups registrations, typically one per application area.
type Installer interface {
	Configure(c *Container) error
}

type InstallerFunc func(c *Container) error

func (f InstallerFunc) Configure(c *Container) error {
	return f(c)
}

// RegisterFromInstallers runs installers in order and stops at the first
// failure.
func (c *Container) RegisterFromInstallers(installers ...Installer) error {
	for _, installer := range installers {
		if c.disposing.Load() {
			return errObjectDisposed()
		}
		if installer == nil {
			continue
		}
		if err := installer.Configure(c); err != nil {
			return err
		}
	}
	return nil
}

// RegisterFromInstaller runs a freshly allocated T.
//
//	microioc.RegisterFromInstaller[MailInstaller](c)
func RegisterFromInstaller[T any, PT interface {
	*T
	Installer
}](c *Container) error {
	var installer T
	return c.RegisterFromInstallers(PT(&installer))
}

// Module is a named, composable Installer. Included modules run first, then
// registration steps, then installers, each in the order they were added.
type Module struct {
	name       string
	steps      []func(r *Registration)
	installers []Installer
	submodules []*Module
}

func NewModule(name string) *Module {
	return &Module{
		name: name,
	}
}

func (m *Module) Name() string {
	return m.name
}

func (m *Module) Include(submodule *Module) *Module {
	m.submodules = append(m.submodules, submodule)
	return m
}

// Register adds a registration step. The step gets its own builder; a
// builder error fails the module.
func (m *Module) Register(step func(r *Registration)) *Module {
	m.steps = append(m.steps, step)
	return m
}

func (m *Module) Install(installers ...Installer) *Module {
	m.installers = append(m.installers, installers...)
	return m
}

func (m *Module) Configure(c *Container) error {
	if err := m.apply(c); err != nil {
		return errModuleApplyFailed(m.name, err)
	}
	return nil
}

func (m *Module) apply(c *Container) error {
	for _, sub := range m.submodules {
		if err := sub.Configure(c); err != nil {
			return err
		}
	}

	for _, step := range m.steps {
		r := c.Registrations()
		step(r)
		if err := r.Err(); err != nil {
			return err
		}
	}

	return c.RegisterFromInstallers(m.installers...)
}

func errModuleApplyFailed(moduleName string, cause error) *Error {
	return newError(
		ErrCodeModuleApplyFailed,
		"failed to apply module "+moduleName,
		cause,
	).WithService(moduleName)
}
