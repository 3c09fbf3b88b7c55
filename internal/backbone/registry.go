package backbone

import (
	"fmt"
	"sort"

	"github.com/ferrite-ml/ferrite/internal/config"
	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// Factory constructs a backbone from configuration.
type Factory[B tensor.Backend] func(cfg *config.Config, backend B) (Backbone[B], error)

// Registry maps backbone names to factories. It is an explicit value
// owned by the composition root, not process-wide state; callers
// create one, register their factories, and pass it where needed.
type Registry[B tensor.Backend] struct {
	factories map[string]Factory[B]
}

// NewRegistry creates an empty registry.
func NewRegistry[B tensor.Backend]() *Registry[B] {
	return &Registry[B]{factories: make(map[string]Factory[B])}
}

// Register adds a named factory. Registering a name twice is an error.
func (r *Registry[B]) Register(name string, factory Factory[B]) error {
	if name == "" {
		return fmt.Errorf("backbone registry: name must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("backbone registry: factory for %q must not be nil", name)
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("backbone registry: %q is already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Build constructs the backbone registered under name.
func (r *Registry[B]) Build(name string, cfg *config.Config, backend B) (Backbone[B], error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("backbone registry: unknown backbone %q (registered: %v)", name, r.Names())
	}
	return factory(cfg, backend)
}

// Names returns the registered names in sorted order.
func (r *Registry[B]) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
