package geocode

import "github.com/tracelink/tracelink/internal/geo"

// Entry is the last resolved position and name for one member id.
type Entry struct {
	Point geo.Point
	Name  string
}

// Cache holds place-name entries keyed by member id. Entries exist only for
// ids currently in the view model; the session evicts on peer removal.
// Owned by the session loop, so no locking.
type Cache struct {
	entries map[string]Entry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}

// NeedsLookup reports whether a lookup should be issued for id at p: true
// when no entry exists yet, or when p is beyond the movement threshold from
// the cached position. Repeated identical coordinates never re-trigger.
func (c *Cache) NeedsLookup(id string, p geo.Point) bool {
	e, ok := c.entries[id]
	if !ok {
		return true
	}
	return geo.Moved(e.Point, p)
}

// Store records a completed lookup. A failed lookup still refreshes the
// position (so the same spot is not retried) but keeps the previously
// resolved name rather than clearing it.
func (c *Cache) Store(id string, p geo.Point, name string) {
	if name == "" {
		name = c.entries[id].Name
	}
	c.entries[id] = Entry{Point: p, Name: name}
}

// Name returns the cached place name for id, or "" if none resolved yet.
func (c *Cache) Name(id string) string {
	return c.entries[id].Name
}

func (c *Cache) Evict(id string) {
	delete(c.entries, id)
}
