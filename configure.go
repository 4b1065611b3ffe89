package microioc

import (
	"fmt"
	reflectPkg "reflect"
)

// ConfigSection is a source of declarative component definitions, such as
// the YAML documents read by the config package.
type ConfigSection interface {
	Components() []Component
}

// Component describes one binding. Contract and Service name types known to
// the container: declared names, or the qualified or short name of any type
// that was registered or declared. ID becomes the binding key.
type Component struct {
	ID         string
	Contract   string
	Service    string
	LifeCycle  string
	Parameters []Parameter
}

// Parameter assigns Value to the exported field Name of the built component.
type Parameter struct {
	Name  string
	Value any
}

// Configure registers every component of section. Unknown type names and
// lifecycles are reported before anything is registered.
func (c *Container) Configure(section ConfigSection) error {
	if c.disposing.Load() {
		return errObjectDisposed()
	}
	if section == nil {
		return newError(ErrCodeInvalidConfiguration, "no configuration section", nil)
	}

	components := section.Components()
	if len(components) == 0 {
		return newError(
			ErrCodeInvalidConfiguration,
			"there are no components defined to configure the container",
			nil,
		)
	}

	type planned struct {
		component Component
		contract  reflectPkg.Type
		service   reflectPkg.Type
		lifeCycle LifeCycle
		hasLC     bool
	}

	plan := make([]planned, 0, len(components))
	for _, comp := range components {
		p := planned{component: comp}

		if comp.Service == "" {
			return newError(ErrCodeInvalidConfiguration, "component has no service type", nil).WithService(comp.ID)
		}

		var err *Error
		if p.service, err = c.lookupType(comp.Service); err != nil {
			return err
		}
		if comp.Contract != "" {
			if p.contract, err = c.lookupType(comp.Contract); err != nil {
				return err
			}
		}

		if comp.LifeCycle != "" {
			lc, ok := ParseLifeCycle(comp.LifeCycle)
			if !ok {
				return newError(
					ErrCodeInvalidConfiguration,
					fmt.Sprintf("unknown lifecycle %q", comp.LifeCycle),
					nil,
				).WithService(comp.ID)
			}
			p.lifeCycle, p.hasLC = lc, true
		}

		plan = append(plan, p)
	}

	for _, p := range plan {
		r := c.Registrations().Register(p.contract, p.service, p.component.ID)
		for _, param := range p.component.Parameters {
			r.WithPropertyValue(p.service, param.Name, param.Value)
		}
		if p.hasLC {
			r.WithLifeCycle(p.lifeCycle)
		}
		if err := r.Err(); err != nil {
			return err
		}
	}

	return nil
}

func (c *Container) lookupType(name string) (reflectPkg.Type, *Error) {
	t, ok := c.catalog.Lookup(name)
	if !ok {
		return nil, errInvalidBinding(name, "unknown type name "+name)
	}
	return t, nil
}
