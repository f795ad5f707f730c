// Package catalog loads the planet gravity catalogue from YAML.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/couchcryptid/planet-weight-cgi/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed planets.yaml
var defaultYAML []byte

type document struct {
	Planets []entry `yaml:"planets"`
}

type entry struct {
	Name    string  `yaml:"name"`
	Factor  float64 `yaml:"factor"`
	Display string  `yaml:"display"`
	Quick   bool    `yaml:"quick"`
}

// Default returns the embedded ten-planet catalogue.
func Default() domain.Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded planet catalogue: %v", err))
	}
	return c
}

// Load reads a catalogue file from disk.
func Load(path string) (domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("read planet catalogue: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalogue.
func Parse(data []byte) (domain.Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.Catalog{}, fmt.Errorf("parse planet catalogue: %w", err)
	}
	if len(doc.Planets) == 0 {
		return domain.Catalog{}, errors.New("planet catalogue is empty")
	}

	seen := make(map[string]bool, len(doc.Planets))
	planets := make([]domain.Planet, 0, len(doc.Planets))
	for i, e := range doc.Planets {
		name := strings.ToLower(strings.TrimSpace(e.Name))
		if name == "" {
			return domain.Catalog{}, fmt.Errorf("planet %d: name is required", i)
		}
		if seen[name] {
			return domain.Catalog{}, fmt.Errorf("planet %q: duplicate name", name)
		}
		if e.Factor <= 0 {
			return domain.Catalog{}, fmt.Errorf("planet %q: factor must be positive", name)
		}
		seen[name] = true
		planets = append(planets, domain.Planet{
			Name:    name,
			Factor:  e.Factor,
			Display: e.Display,
			Quick:   e.Quick,
		})
	}

	return domain.NewCatalog(planets), nil
}
