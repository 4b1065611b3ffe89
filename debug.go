package microioc

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/limitzero/microioc/internal/kernel"
	"github.com/limitzero/microioc/internal/reflect"
)

type GraphInfo struct {
	Bindings []BindingInfo
	// Missing lists dependencies no binding satisfies.
	Missing []string
}

// BindingInfo describes one registration. Contract is empty when the binding
// was registered under a single type, as factories and instances are.
type BindingInfo struct {
	Key          string
	Contract     string
	Component    string
	Name         string
	LifeCycle    string
	Factory      bool
	Properties   []string
	Dependencies []string
	Dependents   []string
	Instantiated bool
}

// Graph describes the live bindings in registration order.
func (c *Container) Graph() GraphInfo {
	g, _ := c.dependencyGraph()
	nodes := c.kernel.Nodes()

	bindings := make([]BindingInfo, 0, len(nodes))
	for _, n := range nodes {
		label := n.Label()
		_, instantiated := n.Instance()

		bindings = append(
			bindings, BindingInfo{
				Key:          label,
				Contract:     contractName(n),
				Component:    componentName(n),
				Name:         n.Key,
				LifeCycle:    n.LifeCycle().String(),
				Factory:      n.HasFactorySupport,
				Properties:   propertyNames(n),
				Dependencies: g.Dependencies(label),
				Dependents:   g.Dependents(label),
				Instantiated: instantiated,
			},
		)
	}

	return GraphInfo{Bindings: bindings, Missing: g.Missing()}
}

func contractName(n *kernel.Node) string {
	if n.Contract == nil || n.Component == nil || n.Contract == n.Component {
		return ""
	}
	return reflect.Name(n.Contract)
}

func componentName(n *kernel.Node) string {
	if n.Component == nil {
		return reflect.Name(n.Contract)
	}
	return reflect.Name(n.Component)
}

func propertyNames(n *kernel.Node) []string {
	props := n.Properties()
	if len(props) == 0 {
		return nil
	}
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
	}
	return names
}

// tags renders the bracketed suffix, e.g. "[singleton factory #audit]".
func (b BindingInfo) tags() string {
	tags := []string{b.LifeCycle}
	if b.Factory {
		tags = append(tags, "factory")
	}
	if b.Name != "" {
		tags = append(tags, "#"+b.Name)
	}
	return "[" + strings.Join(tags, " ") + "]"
}

func (c *Container) PrintGraph() {
	c.FprintGraph(os.Stdout)
}

// FprintGraph writes one header line per binding, contract first, followed
// by indented lines for injected properties (=) and dependencies (←).
//
//	● app.Logger => app.FileLogger [singleton]
//	○ app.MailService => app.SMTPMailService [transient]
//	    ← app.Logger -> app.FileLogger
func (c *Container) FprintGraph(w io.Writer) {
	info := c.Graph()

	if len(info.Bindings) == 0 {
		_, _ = fmt.Fprintln(w, "(empty container)")
		return
	}

	for _, b := range info.Bindings {
		status := "○"
		if b.Instantiated {
			status = "●"
		}

		binding := escapeLabel(b.Component)
		if b.Contract != "" {
			binding = escapeLabel(b.Contract) + " => " + binding
		}
		_, _ = fmt.Fprintf(w, "%s %s %s\n", status, binding, b.tags())

		for _, p := range b.Properties {
			_, _ = fmt.Fprintf(w, "    = %s\n", p)
		}
		for _, dep := range b.Dependencies {
			_, _ = fmt.Fprintf(w, "    ← %s\n", escapeLabel(dep))
		}
	}

	for _, m := range info.Missing {
		_, _ = fmt.Fprintf(w, "✗ %s (unbound)\n", m)
	}
}

func (c *Container) SprintGraph() string {
	var sb strings.Builder
	c.FprintGraph(&sb)
	return sb.String()
}

func (c *Container) PrintGraphDOT() {
	c.FprintGraphDOT(os.Stdout)
}

// FprintGraphDOT writes the bindings in Graphviz DOT. Contracts are dashed
// ellipses pointing at the components bound to them. Factory bindings use
// the component shape, built singletons are filled, and unbound
// dependencies are drawn in red.
func (c *Container) FprintGraphDOT(w io.Writer) {
	info := c.Graph()

	_, _ = fmt.Fprintln(w, "digraph bindings {")
	_, _ = fmt.Fprintln(w, "  rankdir=LR;")
	_, _ = fmt.Fprintln(w, "  node [shape=box];")

	contracts := make(map[string]bool)
	for _, b := range info.Bindings {
		if b.Contract != "" && !contracts[b.Contract] {
			contracts[b.Contract] = true
			_, _ = fmt.Fprintf(
				w, "  %q [label=%q, shape=ellipse, style=dashed];\n",
				"contract:"+b.Contract, escapeLabel(b.Contract),
			)
		}
	}

	for _, b := range info.Bindings {
		attrs := ""
		if b.Factory {
			attrs += ", shape=component"
		}
		if b.Instantiated {
			attrs += ", style=filled, fillcolor=lightblue"
		}
		label := escapeLabel(b.Component) + `\n` + strings.Trim(b.tags(), "[]")
		_, _ = fmt.Fprintf(w, "  %q [label=\"%s\"%s];\n", b.Key, dotEscape(label), attrs)
	}

	for _, m := range info.Missing {
		_, _ = fmt.Fprintf(w, "  %q [label=%q, shape=plaintext, fontcolor=red];\n", m, escapeLabel(m))
	}

	_, _ = fmt.Fprintln(w)

	for _, b := range info.Bindings {
		if b.Contract != "" {
			_, _ = fmt.Fprintf(w, "  %q -> %q [style=dashed, arrowhead=onormal];\n", "contract:"+b.Contract, b.Key)
		}
		for _, dep := range b.Dependencies {
			_, _ = fmt.Fprintf(w, "  %q -> %q;\n", b.Key, dep)
		}
	}

	_, _ = fmt.Fprintln(w, "}")
}

func (c *Container) SprintGraphDOT() string {
	var sb strings.Builder
	c.FprintGraphDOT(&sb)
	return sb.String()
}

// escapeLabel shortens package paths: "*github.com/x/app.Logger" -> "app.Logger".
func escapeLabel(s string) string {
	parts := strings.Split(s, " -> ")
	for i, part := range parts {
		part = strings.ReplaceAll(part, "*", "")
		if idx := strings.LastIndex(part, "/"); idx != -1 {
			part = part[idx+1:]
		}
		parts[i] = part
	}
	return strings.Join(parts, " -> ")
}

// dotEscape quotes s for a DOT string while keeping \n line breaks.
func dotEscape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
