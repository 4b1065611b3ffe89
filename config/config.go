// Package config reads container component definitions from YAML.
//
//	components:
//	  - id: audit
//	    contract: logger
//	    service: file-logger
//	    lifecycle: singleton
//	    parameters:
//	      - name: LogFileLocation
//	        value: ${LOG_DIR:-/var/log}/audit.log
//
// Type names refer to types registered or declared in the container the
// section is applied to. Environment references are expanded in parameter
// values only, after the document has been parsed; write $$ for a literal $.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/limitzero/microioc"
	"github.com/limitzero/microioc/internal/errs"
)

// Section is a parsed component list. It satisfies microioc.ConfigSection
// and microioc.Installer.
type Section struct {
	components []microioc.Component
}

var (
	_ microioc.ConfigSection = (*Section)(nil)
	_ microioc.Installer     = (*Section)(nil)
)

func (s *Section) Components() []microioc.Component {
	out := make([]microioc.Component, len(s.components))
	copy(out, s.components)
	return out
}

// Configure applies the section to c.
func (s *Section) Configure(c *microioc.Container) error {
	return c.Configure(s)
}

type document struct {
	Components []componentDoc `yaml:"components"`
}

type componentDoc struct {
	ID         string         `yaml:"id"`
	Contract   string         `yaml:"contract"`
	Service    string         `yaml:"service"`
	LifeCycle  string         `yaml:"lifecycle"`
	Parameters []parameterDoc `yaml:"parameters"`
}

// parameterDoc carries an optional type for values YAML cannot express
// exactly, such as durations or sized integers.
type parameterDoc struct {
	Name  string    `yaml:"name"`
	Type  string    `yaml:"type"`
	Value yaml.Node `yaml:"value"`
}

func LoadFile(path string, opts ...Option) (*Section, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.New(errs.CodeInvalidConfiguration, "failed to read configuration file "+path, err)
	}
	return Parse(data, opts...)
}

func Parse(data []byte, opts ...Option) (*Section, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var env *environment
	if o.expand {
		var err error
		if env, err = newEnvironment(o); err != nil {
			return nil, err
		}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errs.New(errs.CodeInvalidConfiguration, "malformed configuration document", err)
	}

	var doc document
	if root.Kind != 0 {
		if err := root.Decode(&doc); err != nil {
			return nil, errs.New(errs.CodeInvalidConfiguration, "malformed configuration document", err)
		}
	}

	section := &Section{components: make([]microioc.Component, 0, len(doc.Components))}
	ids := make(map[string]bool, len(doc.Components))

	for i, cd := range doc.Components {
		if cd.ID != "" {
			if ids[cd.ID] {
				return nil, errs.New(errs.CodeInvalidConfiguration, "duplicate component id", nil).WithService(cd.ID)
			}
			ids[cd.ID] = true
		}

		comp := microioc.Component{
			ID:        cd.ID,
			Contract:  cd.Contract,
			Service:   cd.Service,
			LifeCycle: cd.LifeCycle,
		}
		for _, pd := range cd.Parameters {
			if env != nil {
				env.expandNode(&pd.Value)
			}
			value, err := decodeValue(pd)
			if err != nil {
				return nil, errs.New(
					errs.CodeInvalidConfiguration,
					fmt.Sprintf("component %d: parameter %q", i, pd.Name),
					err,
				).WithService(cd.ID)
			}
			comp.Parameters = append(comp.Parameters, microioc.Parameter{Name: pd.Name, Value: value})
		}

		section.components = append(section.components, comp)
	}

	o.logger.Debug("parsed configuration", "components", len(section.components))
	return section, nil
}

func decodeValue(pd parameterDoc) (any, error) {
	if pd.Name == "" {
		return nil, fmt.Errorf("parameter has no name")
	}

	node := &pd.Value
	if node.Kind == 0 {
		return nil, fmt.Errorf("parameter has no value")
	}

	switch pd.Type {
	case "":
		var v any
		err := node.Decode(&v)
		return v, err
	case "string":
		return decodeAs[string](node)
	case "int":
		return decodeAs[int](node)
	case "int64":
		return decodeAs[int64](node)
	case "uint":
		return decodeAs[uint](node)
	case "float64":
		return decodeAs[float64](node)
	case "bool":
		return decodeAs[bool](node)
	case "duration":
		s, err := decodeAs[string](node)
		if err != nil {
			return nil, err
		}
		return time.ParseDuration(s)
	case "[]string":
		return decodeAs[[]string](node)
	case "map[string]string":
		return decodeAs[map[string]string](node)
	default:
		return nil, fmt.Errorf("unsupported parameter type %q", pd.Type)
	}
}

func decodeAs[T any](node *yaml.Node) (T, error) {
	var v T
	err := node.Decode(&v)
	return v, err
}
