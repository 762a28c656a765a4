package variable

import (
	"fmt"
	"sync"

	"github.com/binp-dev/ferrite-go/raw"
)

// Registry collects every *Any registered at process startup, keyed by
// name, for app.Start to drain into application code's typed handles.
// Grounded on orig variable/registry.rs's lazy_static Mutex<HashMap>; unlike
// the teacher's eventloop.registry (weak pointers + ring-buffer scavenging,
// for a long-lived registry of promises that come and go), this registry is
// populated once at init and drained once at startup, so no GC/scavenging
// story is needed -- a plain mutex-guarded map suffices.
type Registry struct {
	mu      sync.Mutex
	vars    map[string]*Any
	drained bool
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{vars: make(map[string]*Any)}
}

// Add registers a raw.Variable under its host-assigned name. It panics if
// the name is already registered (orig: add_variable's `assert!(...is_none())`),
// since a duplicate host variable name indicates a bug in the host, not a
// recoverable application error. It also panics once the registry has been
// drained: registration belongs to host initialization, before Drain.
func (r *Registry) Add(rv *raw.Variable, log *Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := rv.Name()
	if r.drained {
		panic(fmt.Sprintf("variable: variable %q added after the registry was drained", name))
	}
	if _, exists := r.vars[name]; exists {
		panic(fmt.Sprintf("variable: duplicate variable name %q", name))
	}
	r.vars[name] = newAny(rv, log)
}

// Drain removes and returns every currently-registered variable, leaving the
// registry empty. It may be called only once: a second call panics, as a
// registry access after the drain is a protocol violation.
func (r *Registry) Drain() map[string]*Any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.drained {
		panic("variable: registry drained twice")
	}
	r.drained = true
	out := r.vars
	r.vars = make(map[string]*Any)
	return out
}

// Len reports how many variables are currently registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.vars)
}
