package microioc

import (
	"log/slog"
	reflectPkg "reflect"
	"strings"
	"sync/atomic"

	"github.com/limitzero/microioc/internal/graph"
	"github.com/limitzero/microioc/internal/kernel"
	"github.com/limitzero/microioc/internal/lifecycle"
	"github.com/limitzero/microioc/internal/reflect"
)

// Container owns one resolution kernel and everything registered in it.
// All resolution methods fail with ErrCodeObjectDisposed once Dispose has run.
type Container struct {
	kernel   *kernel.Kernel
	catalog  *reflect.Catalog
	config   *containerConfig

	disposing atomic.Bool
	disposed  atomic.Bool
}

type containerConfig struct {
	logger     *slog.Logger
	onResolve  []ResolveHook
	onRegister []RegisterHook
	onDispose  []DisposeHook
}

func New(opts ...Option) *Container {
	cfg := &containerConfig{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	c := &Container{
		catalog: reflect.NewCatalog(),
		config:  cfg,
	}

	kcfg := &kernel.Config{
		Logger:        cfg.logger,
		Types:         c.catalog,
		Self:          c,
		SelfInterface: reflect.TypeOf[Resolver](),
	}
	for _, hook := range cfg.onResolve {
		kcfg.OnResolve = append(kcfg.OnResolve, kernel.ResolveHook(hook))
	}
	for _, hook := range cfg.onRegister {
		kcfg.OnRegister = append(kcfg.OnRegister, kernel.RegisterHook(hook))
	}
	for _, hook := range cfg.onDispose {
		kcfg.OnDispose = append(kcfg.OnDispose, kernel.DisposeHook(hook))
	}

	c.kernel = kernel.New(kcfg)
	return c
}

func (c *Container) Resolve(t reflectPkg.Type) (any, error) {
	if c.disposed.Load() {
		return nil, errObjectDisposed()
	}
	return c.kernel.Resolve(t)
}

func (c *Container) ResolveKey(key string) (any, error) {
	if c.disposed.Load() {
		return nil, errObjectDisposed()
	}
	return c.kernel.ResolveKey(key)
}

// ResolveAll builds every binding whose contract or concrete type is
// assignable to t. Bindings that fail to build are left out.
func (c *Container) ResolveAll(t reflectPkg.Type) ([]any, error) {
	if c.disposed.Load() {
		return nil, errObjectDisposed()
	}
	return c.kernel.ResolveAll(t), nil
}

// Dispose releases every owned instance. Only the first call has an effect.
// The container keeps resolving until the release is over, so factories that
// resolve through it can still be released.
func (c *Container) Dispose() {
	if !c.disposing.CompareAndSwap(false, true) {
		return
	}
	c.kernel.Dispose()
	c.disposed.Store(true)
}

func (c *Container) Disposed() bool {
	return c.disposed.Load()
}

func (c *Container) Size() int {
	return c.kernel.Size()
}

// Keys returns the labels of all live bindings in registration order.
func (c *Container) Keys() []string {
	nodes := c.kernel.Nodes()
	keys := make([]string, 0, len(nodes))
	for _, n := range nodes {
		keys = append(keys, n.Label())
	}
	return keys
}

// Validate checks, without constructing anything, that every constructor
// parameter can be satisfied and that no bindings depend on each other in a
// cycle.
func (c *Container) Validate() error {
	if c.disposed.Load() {
		return errObjectDisposed()
	}

	g, _ := c.dependencyGraph()

	if missing := g.Missing(); len(missing) > 0 {
		return newError(
			ErrCodeValidationFailed,
			"no registration for: "+strings.Join(missing, ", "),
			nil,
		)
	}

	if paths := g.CyclePaths(); len(paths) > 0 {
		return newError(ErrCodeValidationFailed, "container validation failed", errCyclicDependency(paths[0]))
	}

	return nil
}

// Warmup builds every singleton binding, dependencies first.
func (c *Container) Warmup() error {
	if c.disposed.Load() {
		return errObjectDisposed()
	}

	g, nodes := c.dependencyGraph()

	order, err := g.TopologicalSort()
	if err != nil {
		if paths := g.CyclePaths(); len(paths) > 0 {
			return errCyclicDependency(paths[0])
		}
		return newError(ErrCodeCyclicDependency, "cyclic dependency detected", err)
	}

	for _, label := range order {
		node, ok := nodes[label]
		if !ok || node.LifeCycle() != lifecycle.Singleton {
			continue
		}
		if _, err := c.kernel.ResolveNode(node); err != nil {
			return err
		}
	}
	return nil
}

// dependencyGraph maps every binding to the bindings its constructor needs.
// Parameters nothing is registered for appear under their type name.
func (c *Container) dependencyGraph() (*graph.Graph, map[string]*kernel.Node) {
	g := graph.New()
	nodes := make(map[string]*kernel.Node)

	for _, n := range c.kernel.Nodes() {
		label := n.Label()
		nodes[label] = n

		var deps []string
		for _, t := range c.kernel.Dependencies(n) {
			if target := c.kernel.Lookup(t); target != nil {
				deps = append(deps, target.Label())
			} else {
				deps = append(deps, reflect.Name(t))
			}
		}
		g.AddNode(label, deps)
	}

	return g, nodes
}
