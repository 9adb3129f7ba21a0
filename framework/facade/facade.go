// Package facade forwards method calls to services resolved from a container,
// the way a static facade proxies to the instance behind its accessor.
//
//	type Log struct{}
//
//	func (Log) FacadeAccessor() string { return "log" }
//
//	facade.Forward(nil, Log{}, "Info", "booted")
package facade

import (
	"fmt"

	"github.com/km-arc/go-simpla/framework/container"
)

// Accessor is implemented by facades; it names the service key they proxy.
type Accessor interface {
	FacadeAccessor() string
}

// Proxy forwards calls to whatever is bound under Accessor in Container. A nil
// Container means the process-wide container.
type Proxy struct {
	Accessor  string
	Container *container.Container
}

// New returns a proxy for accessor bound to c.
func New(c *container.Container, accessor string) Proxy {
	return Proxy{Accessor: accessor, Container: c}
}

// Of returns a proxy for the key a reports.
func Of(c *container.Container, a Accessor) Proxy {
	return New(c, a.FacadeAccessor())
}

// Root resolves the service behind the proxy. An unbound accessor is an error
// matching container.ErrNotFound.
func (p Proxy) Root() (any, error) {
	c := p.Container
	if c == nil {
		c = container.Instance(nil)
	}
	service, err := c.Lookup(p.Accessor)
	if err != nil {
		return nil, fmt.Errorf("facade [%s]: %w", p.Accessor, err)
	}
	return service, nil
}

// Call invokes method on the root service with args spread positionally.
//
//	out, err := facade.New(c, "greeter").Call("Greet", "world")
func (p Proxy) Call(method string, args ...any) (any, error) {
	service, err := p.Root()
	if err != nil {
		return nil, err
	}
	out, err := container.Invoke(service, method, args...)
	if err != nil {
		return nil, fmt.Errorf("facade [%s]: %w", p.Accessor, err)
	}
	return out, nil
}

// Forward calls method on the service proxied by a.
func Forward(c *container.Container, a Accessor, method string, args ...any) (any, error) {
	return Of(c, a).Call(method, args...)
}
