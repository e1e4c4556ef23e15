// Package di provides a minimal string-keyed service container used to wire
// bounded-context modules together at startup.
package di

import (
	"sync"
)

// ServiceRegistry is the read-only view handed to consumers after startup.
type ServiceRegistry interface {
	// Get returns the service registered under name, or nil when absent.
	Get(name string) any
}

// Container is the mutable registry modules populate during registration.
type Container interface {
	ServiceRegistry
	// Register stores svc under name, replacing any previous registration.
	Register(name string, svc any)
}

type container struct {
	mu       sync.RWMutex
	services map[string]any
}

// NewContainer creates an empty service container.
func NewContainer() Container {
	return &container{services: make(map[string]any)}
}

func (c *container) Register(name string, svc any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[name] = svc
}

func (c *container) Get(name string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.services[name]
}

