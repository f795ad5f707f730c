package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_TenPlanets(t *testing.T) {
	c := Default()
	require.Equal(t, 10, c.Len())

	factors := map[string]float64{}
	for _, p := range c.Planets() {
		factors[p.Name] = p.Factor
	}
	want := map[string]float64{
		"mercury": 0.38, "venus": 0.91, "earth": 1.0,
		"mars": 0.38, "jupiter": 2.34, "saturn": 1.06,
		"uranus": 0.92, "neptune": 1.14, "pluto": 0.06, "moon": 0.16,
	}
	if diff := cmp.Diff(want, factors); diff != "" {
		t.Fatalf("factors mismatch (-want +got):\n%s", diff)
	}
}

func TestDefault_QuickSet(t *testing.T) {
	var names, displays []string
	for _, p := range Default().Quick() {
		names = append(names, p.Name)
		displays = append(displays, p.Display)
	}
	assert.Equal(t, []string{"mars", "jupiter", "moon"}, names)
	assert.Equal(t, []string{"Mars", "Jupiter", "The Moon"}, displays)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "planets: []", "empty"},
		{"missing name", "planets:\n  - factor: 1", "name is required"},
		{"duplicate", "planets:\n  - {name: mars, factor: 0.38}\n  - {name: MARS, factor: 0.4}", "duplicate"},
		{"zero factor", "planets:\n  - {name: mars, factor: 0}", "factor must be positive"},
		{"bad yaml", "planets: [", "parse planet catalogue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("planets:\n  - {name: Ceres, factor: 0.03, quick: true}\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)

	p, ok := c.Lookup("ceres")
	require.True(t, ok)
	assert.Equal(t, 0.03, p.Factor)
	assert.True(t, p.Quick)
	assert.Equal(t, "Ceres", p.Display)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read planet catalogue")
}
