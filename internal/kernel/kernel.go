package kernel

import (
	"log/slog"
	reflectPkg "reflect"
	"sync/atomic"
	"time"

	"github.com/limitzero/microioc/internal/reflect"
)

type ResolveHook func(key string, duration time.Duration, err error)

type RegisterHook func(key string)

type DisposeHook func(key string, err error)

type Config struct {
	Logger *slog.Logger
	Types  reflect.Service

	// Self is handed to constructor parameters that ask for the container.
	// SelfInterface is the container abstraction such parameters must satisfy.
	Self          any
	SelfInterface reflectPkg.Type

	OnResolve  []ResolveHook
	OnRegister []RegisterHook
	OnDispose  []DisposeHook
}

// Kernel is the resolution engine. It exclusively owns the registry and every
// node in it.
type Kernel struct {
	registry *Registry
	types    reflect.Service
	logger   *slog.Logger

	self      any
	selfType  reflectPkg.Type
	selfIface reflectPkg.Type

	onResolve  []ResolveHook
	onRegister []RegisterHook
	onDispose  []DisposeHook

	// disposing is set when Dispose starts, disposed when it has finished.
	disposing atomic.Bool
	disposed  atomic.Bool
}

func New(cfg *Config) *Kernel {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	types := cfg.Types
	if types == nil {
		types = reflect.NewCatalog()
	}

	k := &Kernel{
		registry:   NewRegistry(),
		types:      types,
		logger:     logger,
		self:       cfg.Self,
		selfIface:  cfg.SelfInterface,
		onResolve:  cfg.OnResolve,
		onRegister: cfg.OnRegister,
		onDispose:  cfg.OnDispose,
	}
	if cfg.Self != nil {
		k.selfType = reflectPkg.TypeOf(cfg.Self)
	}
	return k
}

func (k *Kernel) Types() reflect.Service {
	return k.types
}

// CreateNode stores node unless an identical binding exists. It returns the
// node held by the registry.
func (k *Kernel) CreateNode(node *Node) (*Node, bool) {
	if k.disposing.Load() {
		return nil, false
	}

	stored, inserted := k.registry.Insert(node)
	if inserted {
		k.logger.Debug("registered binding", "binding", stored.Label())
		for _, hook := range k.onRegister {
			hook(stored.Label())
		}
	}
	return stored, inserted
}

func (k *Kernel) Has(id Identity) bool {
	return k.registry.Has(id)
}

func (k *Kernel) Last() *Node {
	if k.disposed.Load() {
		return nil
	}
	return k.registry.Last()
}

func (k *Kernel) FindLast(match func(*Node) bool) *Node {
	if k.disposed.Load() {
		return nil
	}
	return k.registry.FindLast(match)
}

func (k *Kernel) Nodes() []*Node {
	if k.disposed.Load() {
		return nil
	}
	return k.registry.Snapshot()
}

func (k *Kernel) Size() int {
	return k.registry.Size()
}

func (k *Kernel) Disposed() bool {
	return k.disposed.Load()
}

// Lookup finds the binding that satisfies t: interfaces match on contract,
// everything else on concrete type. The first registration wins.
func (k *Kernel) Lookup(t reflectPkg.Type) *Node {
	if t == nil || k.disposed.Load() {
		return nil
	}
	if k.types.IsInterface(t) {
		return k.registry.ByContract(t)
	}
	return k.registry.ByComponent(t)
}

// IsSelf reports whether a parameter of type t is satisfied by the container.
func (k *Kernel) IsSelf(t reflectPkg.Type) bool {
	if k.selfType == nil || t == nil {
		return false
	}
	if t == k.selfType {
		return true
	}
	return k.selfIface != nil &&
		t.Kind() == reflectPkg.Interface &&
		t.Implements(k.selfIface) &&
		k.selfType.Implements(t)
}

// Dependencies returns the parameter types of the constructor that would be
// used to build node, leaving out container parameters. Factory bindings have
// none.
func (k *Kernel) Dependencies(node *Node) []reflectPkg.Type {
	if node.HasFactorySupport || node.Component == nil {
		return nil
	}

	ctor := reflect.Greediest(k.types.Constructors(node.Component))
	if ctor == nil {
		return nil
	}

	deps := make([]reflectPkg.Type, 0, len(ctor.Params))
	for _, p := range ctor.Params {
		if !k.IsSelf(p) {
			deps = append(deps, p)
		}
	}
	return deps
}

func (k *Kernel) callResolveHooks(key string, duration time.Duration, err error) {
	for _, hook := range k.onResolve {
		hook(key, duration, err)
	}
}
