package microioc

import (
	reflectPkg "reflect"

	"github.com/limitzero/microioc/internal/reflect"
)

// RegisterFunc declares ctor as a constructor and binds the type it returns to
// I. When I is the returned type itself the binding has no contract.
//
//	func NewMailService(h ErrorHandler, l Logger) *MailService
//	microioc.RegisterFunc[MailSender](c.Registrations(), NewMailService)
func RegisterFunc[I any](r *Registration, ctor any) *Registration {
	if !r.ready() {
		return r
	}

	r.Constructor(ctor)
	if r.err != nil {
		return r
	}

	out := reflectPkg.TypeOf(ctor).Out(0)
	contract := TypeOf[I]()
	switch {
	case contract == out:
		return r.Register(nil, out, "")
	case contract.Kind() != reflectPkg.Interface:
		return r.fail(errInvalidBinding(reflect.Name(out), "RegisterFunc needs an interface or the constructor's own result type"))
	default:
		return r.Register(contract, out, "")
	}
}
