package component

import (
	"fmt"
	"slices"
	"strings"
)

// Factory creates a feature for node. It returns nil when the feature does
// not apply to that node (for example a bit field type other than its own).
type Factory func(node *Node) Feature

type entry struct {
	layer   Layer
	id      string
	factory Factory
}

// Registry is the ordered list of known features. Registration order is the
// order features are attached to every node of a layer.
type Registry struct {
	entries []entry
	ids     map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{ids: map[string]struct{}{}}
}

// FeatureID joins a layer and a feature name.
func FeatureID(layer Layer, name string) string {
	return string(layer) + "." + name
}

// Register adds a feature factory under "<layer>.<name>".
func (r *Registry) Register(layer Layer, name string, f Factory) error {
	id := FeatureID(layer, name)
	if _, dup := r.ids[id]; dup {
		return fmt.Errorf("feature %s registered twice", id)
	}
	r.ids[id] = struct{}{}
	r.entries = append(r.entries, entry{layer: layer, id: id, factory: f})
	return nil
}

// MustRegister is Register for package-level setup.
func (r *Registry) MustRegister(layer Layer, name string, f Factory) {
	if err := r.Register(layer, name, f); err != nil {
		panic(err)
	}
}

// IDs lists registered feature ids in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.id
	}
	return out
}

// Attach creates every enabled feature of node's layer and adds it to node.
func (r *Registry) Attach(node *Node, enabled EnabledSet) {
	for _, e := range r.entries {
		if e.layer != node.Layer || !enabled.Has(e.id) {
			continue
		}
		if f := e.factory(node); f != nil {
			node.AddFeature(f)
		}
	}
}

// Validate reports enabled ids that are not registered.
func (r *Registry) Validate(enabled EnabledSet) error {
	var unknown []string
	for _, id := range enabled.IDs() {
		if !r.Known(id) {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unknown features: %s", strings.Join(unknown, ", "))
	}
	return nil
}

// Known reports whether id names a registered feature or a prefix of one.
func (r *Registry) Known(id string) bool {
	_, ok := r.ids[id]
	return ok || r.hasPrefix(id)
}

// AnyEnabled reports whether enabled selects at least one registered feature.
func (r *Registry) AnyEnabled(enabled EnabledSet) bool {
	return slices.ContainsFunc(r.entries, func(e entry) bool { return enabled.Has(e.id) })
}

func (r *Registry) hasPrefix(id string) bool {
	return slices.ContainsFunc(r.entries, func(e entry) bool {
		return strings.HasPrefix(e.id, id+".")
	})
}

// EnabledSet is an immutable set of feature ids. An id also enables every
// id nested under it: "bit_field.type" enables "bit_field.type.rw". The
// zero value enables everything.
type EnabledSet struct {
	ids map[string]struct{}
}

// All enables every registered feature.
func All() EnabledSet { return EnabledSet{} }

// Enable builds a set from ids.
func Enable(ids ...string) EnabledSet {
	s := EnabledSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Has reports whether id, or one of its parents, is enabled.
func (s EnabledSet) Has(id string) bool {
	if s.ids == nil {
		return true
	}
	for {
		if _, ok := s.ids[id]; ok {
			return true
		}
		i := strings.LastIndexByte(id, '.')
		if i < 0 {
			return false
		}
		id = id[:i]
	}
}

// IDs returns the enabled ids sorted; nil for the enable-all set.
func (s EnabledSet) IDs() []string {
	if s.ids == nil {
		return nil
	}
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
