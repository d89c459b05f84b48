// Package presets provides persistence for named sets of axis formulas.
package presets

import (
	"fmt"
	"sort"

	"github.com/zephyrtronium/formula"
)

// Preset is a named formula for each axis.
type Preset struct {
	Name    string
	X, Y, Z string
}

// Validate compiles each axis formula and returns the first parse error.
func (p Preset) Validate() error {
	for _, v := range [...]struct{ axis, src string }{{"x", p.X}, {"y", p.Y}, {"z", p.Z}} {
		if err := formula.Compile(v.src).Err(); err != nil {
			return fmt.Errorf("preset %s: %s formula %q: %w", p.Name, v.axis, v.src, err)
		}
	}
	return nil
}

// Store is the interface for preset persistence.
type Store interface {
	// Get retrieves a preset by name. Returns nil if not found.
	Get(name string) (*Preset, error)
	// Put stores a preset by name, overwriting if it exists.
	Put(p Preset) error
	// Delete removes a preset by name.
	Delete(name string) error
	// List returns the names of all stored presets in sorted order.
	List() ([]string, error)
	// Close releases resources.
	Close() error
}

// Builtins are the presets that are always available.
var Builtins = map[string]Preset{
	"default": {Name: "default", X: "x", Y: "sin(x - time) * 10", Z: "z"},
	"reset":   {Name: "reset", X: "x", Y: "y", Z: "z"},
}

// Lookup finds a preset in s, falling back to the builtins. s may be nil.
func Lookup(s Store, name string) (Preset, error) {
	if s != nil {
		p, err := s.Get(name)
		if err != nil {
			return Preset{}, err
		}
		if p != nil {
			return *p, nil
		}
	}
	if p, ok := Builtins[name]; ok {
		return p, nil
	}
	return Preset{}, fmt.Errorf("no preset named %q", name)
}

// Names lists the stored presets and the builtins together, sorted and
// without duplicates.
func Names(s Store) ([]string, error) {
	seen := make(map[string]bool, len(Builtins))
	for name := range Builtins {
		seen[name] = true
	}
	if s != nil {
		names, err := s.List()
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			seen[name] = true
		}
	}
	r := make([]string, 0, len(seen))
	for name := range seen {
		r = append(r, name)
	}
	sort.Strings(r)
	return r, nil
}
