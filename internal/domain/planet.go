package domain

import "strings"

// Planet is a body with a known surface gravity relative to Earth.
type Planet struct {
	Name    string  // lowercase lookup key, e.g. "moon"
	Factor  float64 // dimensionless multiplier applied to an Earth weight
	Display string  // human-readable name, e.g. "The Moon"
	Quick   bool    // part of the offline estimator set
}

// Catalog is an ordered, read-only set of planets keyed by lowercase name.
type Catalog struct {
	planets []Planet
	index   map[string]int
}

// NewCatalog builds a catalogue from planets in the given order. Names are
// lowercased; a later duplicate replaces an earlier entry. Callers that need
// duplicate detection validate before calling (see catalog.Parse).
func NewCatalog(planets []Planet) Catalog {
	c := Catalog{
		planets: make([]Planet, 0, len(planets)),
		index:   make(map[string]int, len(planets)),
	}
	for _, p := range planets {
		p.Name = strings.ToLower(p.Name)
		if p.Display == "" {
			p.Display = titleCase(p.Name)
		}
		if i, ok := c.index[p.Name]; ok {
			c.planets[i] = p
			continue
		}
		c.index[p.Name] = len(c.planets)
		c.planets = append(c.planets, p)
	}
	return c
}

// Lookup finds a planet by name, ignoring case.
func (c Catalog) Lookup(name string) (Planet, bool) {
	i, ok := c.index[strings.ToLower(name)]
	if !ok {
		return Planet{}, false
	}
	return c.planets[i], true
}

// Planets returns a copy of the catalogue in declaration order.
func (c Catalog) Planets() []Planet {
	out := make([]Planet, len(c.planets))
	copy(out, c.planets)
	return out
}

// Quick returns the subset used by the offline estimator.
func (c Catalog) Quick() []Planet {
	var out []Planet
	for _, p := range c.planets {
		if p.Quick {
			out = append(out, p)
		}
	}
	return out
}

// Len reports the number of planets.
func (c Catalog) Len() int { return len(c.planets) }

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
