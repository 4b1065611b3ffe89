// Package microioc is a small reflection-based inversion of control container.
//
// Bindings map an interface contract, a concrete type or a string key to a way
// of building an instance. Resolving a binding builds its concrete type with
// the constructor that takes the most parameters, resolving each parameter
// from the container first, then assigns any configured property values.
//
// # Quick Start
//
//	c := microioc.New()
//	defer c.Dispose()
//
//	r := c.Registrations().
//	    Constructor(NewMailService).
//	    Register(microioc.TypeOf[Logger](), microioc.TypeOf[*FileLogger](), "").
//	    WithPropertyValue(microioc.TypeOf[*FileLogger](), "LogFileLocation", "/tmp").
//	    WithLifeCycle(microioc.Singleton).
//	    Register(microioc.TypeOf[MailSender](), microioc.TypeOf[*MailService](), "")
//	if err := r.Err(); err != nil {
//	    log.Fatal(err)
//	}
//
//	mail, err := microioc.Resolve[MailSender](c)
//
// # Constructors
//
// A type without declared constructors is built as its zero value (a new
// allocation for pointer types). Declare constructors with Constructor or
// RegisterFunc; they must look like func(deps...) T or func(deps...) (T, error).
// A parameter of type *Container, or of an interface the container satisfies
// such as Resolver, receives the container itself.
//
// # Lifecycles
//
// Transient bindings build a new instance on every resolution. Singleton
// bindings build once and hand out the same instance until Dispose.
//
// # Factories and Instances
//
//	microioc.RegisterFactory[*sql.DB](c.Registrations(), "", func(r microioc.Resolver) (*sql.DB, error) {
//	    return sql.Open("postgres", dsn)
//	})
//	microioc.RegisterInstance[Clock](c.Registrations(), "", systemClock{})
//
// # Properties
//
// WithPropertyValue assigns an exported field after construction. The value
// must have exactly the field's type, otherwise resolution fails with
// ErrCodePropertyTypeMismatch.
//
// # Multiple Bindings
//
//	handlers, err := microioc.ResolveAll[Handler[Ping]](c)
//
// RegisterManyToOpenType registers every type of a list that implements some
// instantiation of a generic interface.
//
// # Installers and Modules
//
// Group registrations in an Installer or a named Module and apply them with
// RegisterFromInstallers. Declarative YAML configuration lives in the config
// subpackage and is applied with Configure.
//
// # Disposal
//
// Dispose releases every owned instance that implements Disposable or
// io.Closer. Failures are logged and never stop the remaining releases.
// After Dispose every resolution fails with ErrCodeObjectDisposed.
//
// # Debug Visualization
//
//	c.PrintGraph()           // ASCII to stdout
//	c.PrintGraphDOT()        // Graphviz DOT to stdout
//	info := c.Graph()        // Structured GraphInfo
//
// # Metrics Observers
//
// WithResolveObserver, WithRegisterObserver and WithDisposeObserver receive
// container events. The metrics subpackage turns them into Prometheus
// collectors.
package microioc
