package catalog

import (
	"fmt"
	"sync/atomic"

	"github.com/pspoerri/tileforge/internal/tms"
)

// Catalog is a read-only snapshot of the process-wide configuration:
// layers, styles, pyramids, and TileMatrixSets keyed by identifier, per §3.
type Catalog struct {
	Layers   map[string]*Layer
	Styles   map[string]*StyleDef
	Pyramids map[string]*Pyramid
	TMSs     map[string]*tms.TileMatrixSet
}

// NewCatalog builds an empty catalog snapshot ready to be populated and
// installed via Store.Swap.
func NewCatalog() *Catalog {
	return &Catalog{
		Layers:   map[string]*Layer{},
		Styles:   map[string]*StyleDef{},
		Pyramids: map[string]*Pyramid{},
		TMSs:     map[string]*tms.TileMatrixSet{},
	}
}

// Validate runs Layer.Validate over every layer in the snapshot.
func (c *Catalog) Validate() error {
	for id, l := range c.Layers {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("catalog: layer %q: %w", id, err)
		}
	}
	return nil
}

// Store holds the currently-serving Catalog behind an atomic pointer, per
// the reload model of §5: readers never observe a partially-populated
// snapshot; a reload swaps the pointer under a lock held only for the swap,
// never across I/O.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore creates a Store serving an empty catalog until the first Swap.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(NewCatalog())
	return s
}

// Current returns the presently-serving snapshot. Safe to call from any
// goroutine without locking.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Swap installs next as the current snapshot, after validating it. This is
// the entire "Reloading" state of §4.11's per-reload state machine: no
// request ever observes a half-built Catalog.
func (s *Store) Swap(next *Catalog) error {
	if err := next.Validate(); err != nil {
		return err
	}
	s.current.Store(next)
	return nil
}
