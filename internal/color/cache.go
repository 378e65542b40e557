package color

import (
	gocache "github.com/patrickmn/go-cache"
)

// Swatch bundles a color with its precomputed hex and CSS representations.
type Swatch struct {
	Color OKLCH
	Hex   string
	CSS   string
}

// NewSwatch computes the derived representations of c.
func NewSwatch(c OKLCH) Swatch {
	return Swatch{Color: c, Hex: c.Hex(), CSS: c.CSS()}
}

// Cache memoizes swatches keyed by the exact value of the source color.
// A Cache is owned by its caller and is safe for concurrent use; a nil *Cache
// computes every swatch directly.
type Cache struct {
	store *gocache.Cache
}

// NewCache creates an empty swatch cache. Entries never expire.
func NewCache() *Cache {
	return &Cache{store: gocache.New(gocache.NoExpiration, 0)}
}

// Swatch returns the memoized swatch for c, computing it on first use.
func (c *Cache) Swatch(col OKLCH) Swatch {
	if c == nil || c.store == nil {
		return NewSwatch(col)
	}

	key := col.Key()
	if cached, ok := c.store.Get(key); ok {
		if sw, ok := cached.(Swatch); ok {
			return sw
		}
	}

	sw := NewSwatch(col)
	c.store.Set(key, sw, gocache.NoExpiration)
	return sw
}

// Len reports the number of memoized swatches.
func (c *Cache) Len() int {
	if c == nil || c.store == nil {
		return 0
	}
	return c.store.ItemCount()
}
