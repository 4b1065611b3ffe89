package kernel

import (
	reflectPkg "reflect"
	"sync"
)

// Registry is the binding store: a set of nodes keyed by identity that also
// remembers insertion order.
type Registry struct {
	mu    sync.RWMutex
	nodes []*Node
	index map[Identity]*Node
}

func NewRegistry() *Registry {
	return &Registry{
		index: make(map[Identity]*Node),
	}
}

// Insert adds node unless a node with the same identity exists, in which case
// the existing node is returned and inserted is false.
func (r *Registry) Insert(node *Node) (stored *Node, inserted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := node.Identity()
	if existing, ok := r.index[id]; ok {
		return existing, false
	}

	r.index[id] = node
	r.nodes = append(r.nodes, node)
	return node, true
}

func (r *Registry) Has(id Identity) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.index[id]
	return ok
}

func (r *Registry) FindFirst(match func(*Node) bool) *Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, node := range r.nodes {
		if !node.Disposed() && match(node) {
			return node
		}
	}
	return nil
}

func (r *Registry) FindLast(match func(*Node) bool) *Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.nodes) - 1; i >= 0; i-- {
		if node := r.nodes[i]; !node.Disposed() && match(node) {
			return node
		}
	}
	return nil
}

func (r *Registry) ByContract(t reflectPkg.Type) *Node {
	return r.FindFirst(func(n *Node) bool { return n.Contract != nil && n.Contract == t })
}

func (r *Registry) ByComponent(t reflectPkg.Type) *Node {
	return r.FindFirst(func(n *Node) bool { return n.Component != nil && n.Component == t })
}

func (r *Registry) ByKey(key string) *Node {
	return r.FindFirst(func(n *Node) bool { return n.Key == key })
}

// Last returns the most recently inserted node.
func (r *Registry) Last() *Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[len(r.nodes)-1]
}

// Snapshot returns the nodes in insertion order.
func (r *Registry) Snapshot() []*Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Node, len(r.nodes))
	copy(out, r.nodes)
	return out
}

func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.nodes)
}
