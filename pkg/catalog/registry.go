package catalog

import (
	"github.com/cloudglass-tools/cloudglass/capi"
	"github.com/serum-errors/go-serum"
)

// Descriptor is the metadata envelope around one loaded command:
// resolved name, aliases, parsed option specs (declaration order preserved),
// and the executable command itself.  Descriptors are created during
// loading and never mutated afterward.
type Descriptor struct {
	Name    string
	Aliases []string
	Options []capi.OptionSpec
	Command capi.Command
}

// Registry is the set of loaded command descriptors for one invocation.
// It is populated by the Loader and read-only afterward; no locking is
// needed because loading completes fully before any other phase begins.
type Registry struct {
	list  []*Descriptor
	index map[string]*Descriptor
}

func NewRegistry() *Registry {
	return &Registry{index: map[string]*Descriptor{}}
}

// Add registers a descriptor under its canonical name and every alias.
//
// Errors:
//
//    - cloudglass-error-searching-catalog -- when a name or alias is already taken
func (r *Registry) Add(d *Descriptor) error {
	names := append([]string{d.Name}, d.Aliases...)
	for _, n := range names {
		if _, taken := r.index[n]; taken {
			return serum.Error(capi.CodeSearchingCatalog,
				serum.WithMessageTemplate("duplicate command name {{name|q}} in catalog"),
				serum.WithDetail("name", n),
			)
		}
	}
	r.list = append(r.list, d)
	for _, n := range names {
		r.index[n] = d
	}
	return nil
}

// Get resolves a canonical name or alias to its descriptor.
func (r *Registry) Get(name string) (*Descriptor, bool) {
	d, ok := r.index[name]
	return d, ok
}

// All returns every registered descriptor, in registration order.
func (r *Registry) All() []*Descriptor {
	out := make([]*Descriptor, len(r.list))
	copy(out, r.list)
	return out
}

// Names returns every canonical command name, in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.list))
	for _, d := range r.list {
		names = append(names, d.Name)
	}
	return names
}

func (r *Registry) Len() int { return len(r.list) }
