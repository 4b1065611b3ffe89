package kernel

import (
	reflectPkg "reflect"
	"sync"
	"sync/atomic"

	"github.com/limitzero/microioc/internal/lifecycle"
	"github.com/limitzero/microioc/internal/reflect"
)

// Identity is the registry key of a binding. Two nodes with equal identities
// are the same binding.
type Identity struct {
	Contract  reflectPkg.Type
	Component reflectPkg.Type
	Key       string
}

type PropertyAssignment struct {
	Name  string
	Value any
}

// ActivationFunc builds the instance of a factory binding. r resolves further
// dependencies on behalf of the binding.
type ActivationFunc func(r *Resolution) (any, error)

// Node is one registered binding. The cached singleton instance is owned by
// the node and released by Dispose.
type Node struct {
	Contract          reflectPkg.Type
	Component         reflectPkg.Type
	Key               string
	HasFactorySupport bool

	// buildMu serializes singleton construction; mu guards the fields below.
	buildMu    sync.Mutex
	mu         sync.Mutex
	lifeCycle  lifecycle.LifeCycle
	instance   any
	cached     bool
	activate   ActivationFunc
	properties []PropertyAssignment
	disposed   atomic.Bool
}

func NewNode(contract, component reflectPkg.Type, key string) *Node {
	return &Node{
		Contract:  contract,
		Component: component,
		Key:       key,
	}
}

func (n *Node) Identity() Identity {
	return Identity{Contract: n.Contract, Component: n.Component, Key: n.Key}
}

// Label is the human readable name used in logs, errors and graphs.
func (n *Node) Label() string {
	var label string
	switch {
	case n.Contract != nil && n.Component != nil:
		label = reflect.Name(n.Contract) + " -> " + reflect.Name(n.Component)
	case n.Contract != nil:
		label = reflect.Name(n.Contract)
	case n.Component != nil:
		label = reflect.Name(n.Component)
	default:
		label = "<unnamed>"
	}
	if n.Key != "" {
		label += "#" + n.Key
	}
	return label
}

func (n *Node) LifeCycle() lifecycle.LifeCycle {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lifeCycle
}

func (n *Node) SetLifeCycle(lc lifecycle.LifeCycle) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lifeCycle = lc
}

func (n *Node) Activate(fn ActivationFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.disposed.Load() {
		return
	}
	n.activate = fn
	n.HasFactorySupport = fn != nil
}

// AddProperty appends an assignment unless an identical one is present.
func (n *Node) AddProperty(name string, value any) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.disposed.Load() {
		return
	}
	for _, p := range n.properties {
		if p.Name == name && reflectPkg.DeepEqual(p.Value, value) {
			return
		}
	}
	n.properties = append(n.properties, PropertyAssignment{Name: name, Value: value})
}

func (n *Node) Properties() []PropertyAssignment {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]PropertyAssignment, len(n.properties))
	copy(out, n.properties)
	return out
}

// Instance returns the cached singleton instance, if any.
func (n *Node) Instance() (any, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.instance, n.cached
}

func (n *Node) Disposed() bool {
	return n.disposed.Load()
}

// GetInstance is the accessor of factory bindings: it runs the activation,
// caching the result when the node is a singleton.
func (n *Node) GetInstance(r *Resolution) (any, error) {
	n.mu.Lock()
	activate := n.activate
	lc := n.lifeCycle
	n.mu.Unlock()

	if n.disposed.Load() || activate == nil {
		return nil, nil
	}
	if lc == lifecycle.Singleton {
		return n.singleton(func() (any, error) {
			return activate(r)
		})
	}
	return activate(r)
}

// singleton runs build at most once for the node's lifetime. buildMu is held
// across build so concurrent first use constructs a single instance.
func (n *Node) singleton(build func() (any, error)) (any, error) {
	n.buildMu.Lock()
	defer n.buildMu.Unlock()

	if n.disposed.Load() {
		return nil, nil
	}
	if instance, ok := n.Instance(); ok {
		return instance, nil
	}

	instance, err := build()
	if err != nil {
		return nil, err
	}

	n.mu.Lock()
	n.instance = instance
	n.cached = true
	n.mu.Unlock()
	return instance, nil
}

// Dispose drops the cached instance and retires the node. Releasing the
// instance itself is the kernel's job.
func (n *Node) Dispose() {
	n.disposed.Store(true)

	n.mu.Lock()
	defer n.mu.Unlock()

	n.instance = nil
	n.cached = false
	n.activate = nil
}
