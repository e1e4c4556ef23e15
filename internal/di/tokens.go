package di

import (
	"fmt"
	"sync"
)

// Token is a typed handle to a registered service. Modules declare tokens in
// their di package and other modules resolve through them, so cross-context
// lookups stay type-safe.
type Token[T any] struct {
	name string
}

// NewToken creates a token with a unique name.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the registration name of the token.
func (t Token[T]) Name() string {
	return t.name
}

// lazy defers service construction until first resolution and caches the
// result for subsequent lookups.
type lazy[T any] struct {
	once    sync.Once
	factory func(ServiceRegistry) T
	value   T
}

func (l *lazy[T]) resolve(r ServiceRegistry) T {
	l.once.Do(func() {
		l.value = l.factory(r)
	})
	return l.value
}

// RegisterToken registers a factory for the token. The factory runs at most
// once, on first GetToken.
func RegisterToken[T any](c Container, t Token[T], factory func(ServiceRegistry) T) {
	c.Register(t.name, &lazy[T]{factory: factory})
}

// GetToken resolves the service behind the token. It panics on a missing or
// mistyped registration; wiring bugs should fail loudly at startup.
func GetToken[T any](r ServiceRegistry, t Token[T]) T {
	svc := r.Get(t.name)
	if svc == nil {
		panic(fmt.Sprintf("di: service %q not registered", t.name))
	}
	l, ok := svc.(*lazy[T])
	if !ok {
		panic(fmt.Sprintf("di: service %q registered with mismatched type", t.name))
	}
	return l.resolve(r)
}
