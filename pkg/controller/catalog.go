package controller

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Built-in controllers. Values are datasheet typicals.
var (
	LM3478 = &Controller{
		Name:       "LM3478",
		Topologies: []Topology{Boost},
		VRef:       float(1.26),
		VSense:     float(156e-3),
		RatioVSl:   float(0.49),
		VSl:        float(92e-3),
		FswRange:   &FreqRange{Min: 100e3, Max: 1e6},
	}

	LT8300 = &Controller{
		Name:       "LT8300",
		Topologies: []Topology{Flyback},
		IRfb:       float(100e-6),
		ISwMax:     float(260e-3),
		ISwMin:     float(52e-3),
		TOffMin:    float(350e-9),
		TOnMin:     float(160e-9),
	}

	LM5156 = &Controller{
		Name:       "LM5156",
		Topologies: []Topology{Boost, Flyback},
		VRef:       float(1.0),
		VSense:     float(100e-3),
		FswRange:   &FreqRange{Min: 100e3, Max: 2.2e6},
	}
)

// Registry is a case-insensitive, name-keyed set of controllers. It stores
// and returns copies, so records obtained from it can be modified freely.
type Registry struct {
	mu          sync.RWMutex
	controllers map[string]*Controller
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{controllers: make(map[string]*Controller)}
}

// Builtin returns a registry holding LM3478, LT8300 and LM5156.
func Builtin() *Registry {
	r := NewRegistry()
	for _, c := range []*Controller{LM3478, LT8300, LM5156} {
		r.controllers[key(c.Name)] = c.Clone()
	}
	return r
}

func key(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Add registers c. Names are unique regardless of case.
func (r *Registry) Add(c *Controller) error {
	if c == nil || strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("controller: cannot register unnamed controller")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(c.Name)
	if _, exists := r.controllers[k]; exists {
		return fmt.Errorf("controller: %s already registered", c.Name)
	}
	r.controllers[k] = c.Clone()
	return nil
}

// Replace registers c, overriding any controller with the same name.
func (r *Registry) Replace(c *Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controllers[key(c.Name)] = c.Clone()
}

// Lookup returns a copy of the controller registered under name.
func (r *Registry) Lookup(name string) (*Controller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.controllers[key(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownController, name)
	}
	return c.Clone(), nil
}

// Names returns the registered controller names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.controllers))
	for _, c := range r.controllers {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// All returns the registered controllers ordered by name.
func (r *Registry) All() []*Controller {
	names := r.Names()
	out := make([]*Controller, 0, len(names))
	for _, n := range names {
		if c, err := r.Lookup(n); err == nil {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of registered controllers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.controllers)
}
