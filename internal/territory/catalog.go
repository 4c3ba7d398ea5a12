// internal/territory/catalog.go
//
// Catalog is the process-lifetime snapshot of all territories.
// It is built once and never mutated, so it is shared without locking.

package territory

import (
	"context"
	"fmt"
)

// Catalog indexes territories by code and remembers provider order.
type Catalog struct {
	list   []Territory
	byCode map[string]int
}

// Load fetches every record from src once and builds a Catalog.
// All failures wrap ErrDataSource.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	recs, err := src.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch: %w", ErrDataSource, err)
	}
	return NewCatalog(recs)
}

// NewCatalog normalizes recs into a Catalog. Duplicate codes are rejected.
func NewCatalog(recs []Record) (*Catalog, error) {
	c := &Catalog{
		list:   make([]Territory, 0, len(recs)),
		byCode: make(map[string]int, len(recs)),
	}
	for i, r := range recs {
		t, err := Normalize(r)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrDataSource, i, err)
		}
		if _, dup := c.byCode[t.Code]; dup {
			return nil, fmt.Errorf("%w: record %d: duplicate code %q", ErrDataSource, i, t.Code)
		}
		c.byCode[t.Code] = len(c.list)
		c.list = append(c.list, t)
	}
	return c, nil
}

// Lookup returns the territory with the given code.
func (c *Catalog) Lookup(code string) (Territory, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return Territory{}, false
	}
	return c.list[i], true
}

// Names returns every territory name in provider order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.list))
	for i, t := range c.list {
		out[i] = t.Name
	}
	return out
}

// Eligible returns the territories with at least minBorders borders.
func (c *Catalog) Eligible(minBorders int) []Territory {
	var out []Territory
	for _, t := range c.list {
		if len(t.Borders) >= minBorders {
			out = append(out, t)
		}
	}
	return out
}

// Len reports the number of territories.
func (c *Catalog) Len() int { return len(c.list) }

// Dangling counts border references that resolve to no territory.
func (c *Catalog) Dangling() int {
	n := 0
	for _, t := range c.list {
		for _, b := range t.Borders {
			if _, ok := c.byCode[b]; !ok {
				n++
			}
		}
	}
	return n
}
