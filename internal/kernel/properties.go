package kernel

import (
	"fmt"
	reflectPkg "reflect"

	"github.com/limitzero/microioc/internal/errs"
	"github.com/limitzero/microioc/internal/reflect"
)

// applyProperties assigns the node's configured property values to instance.
// A value must have exactly the declared field type.
func (k *Kernel) applyProperties(node *Node, instance any) error {
	props := node.Properties()
	if len(props) == 0 || reflect.IsNil(instance) {
		return nil
	}

	target := reflectPkg.ValueOf(instance)
	component := reflect.Name(target.Type())

	if target.Kind() != reflectPkg.Ptr || target.Elem().Kind() != reflectPkg.Struct {
		return errs.Newf(
			errs.CodeInvalidOperation,
			"cannot set properties on %s: instance is not a pointer to a struct",
			component,
		).WithService(component)
	}

	for _, p := range props {
		if err := k.setProperty(target, component, p); err != nil {
			return err
		}
	}
	return nil
}

func (k *Kernel) setProperty(target reflectPkg.Value, component string, p PropertyAssignment) error {
	prop, ok := k.types.Property(target.Type(), p.Name)
	if !ok {
		return errs.Newf(errs.CodePropertyNotFound, "%s has no settable property %q", component, p.Name).
			WithService(component)
	}

	valueType := reflectPkg.TypeOf(p.Value)
	if valueType != prop.Type {
		return errs.New(
			errs.CodePropertyTypeMismatch,
			fmt.Sprintf(
				"property %q of %s: value %v (%s) does not match declared type %s",
				p.Name, component, p.Value, typeName(valueType), reflect.Name(prop.Type),
			),
			nil,
		).WithService(component)
	}

	field, err := target.Elem().FieldByIndexErr(prop.Index)
	if err != nil {
		return errs.New(errs.CodePropertyNotFound, "property "+p.Name+" is not reachable", err).
			WithService(component)
	}
	if !field.CanSet() {
		return errs.Newf(errs.CodePropertyNotFound, "property %q of %s cannot be set", p.Name, component).
			WithService(component)
	}

	field.Set(reflectPkg.ValueOf(p.Value))
	return nil
}

func typeName(t reflectPkg.Type) string {
	if t == nil {
		return "nil"
	}
	return reflect.Name(t)
}
