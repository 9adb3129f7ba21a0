package container

import "sync"

var (
	instanceOnce sync.Once
	instance     *Container
)

// Instance returns the process-wide container, creating it over base on the
// first call. Later calls ignore their arguments and return the same
// container.
//
// Library code should take a *Container explicitly; Instance exists for the
// application boundary and for facades.
func Instance(base *Store, opts ...Option) *Container {
	instanceOnce.Do(func() {
		instance = newContainer(base, opts...)
	})
	return instance
}
