package domain

import (
	"math"
	"strconv"
	"strings"
)

// Template placeholders substituted into the result page.
const (
	PlaceholderFinalWeight = "{{FINAL_WEIGHT}}"
	PlaceholderPlanetName  = "{{PLANET_NAME}}"
	PlaceholderEarthWeight = "{{EARTH_WEIGHT}}"
)

// Conversion is the outcome of a single weight conversion.
type Conversion struct {
	EarthWeight float64
	Planet      string // lowercase catalogue key
	Factor      float64
	FinalWeight float64
}

// DisplayPlanet returns the planet name as shown on the result page.
func (c Conversion) DisplayPlanet() string {
	return strings.ToUpper(c.Planet)
}

// Convert validates raw request values and converts an Earth weight to the
// weight on the named planet. Checks run in this order: missing parameters,
// unknown planet, then an unusable weight.
func Convert(catalog Catalog, weight, planet string) (Conversion, error) {
	if weight == "" || planet == "" {
		return Conversion{}, ErrMissingParameters
	}

	p, ok := catalog.Lookup(planet)
	if !ok {
		return Conversion{}, ErrInvalidPlanet
	}

	w, err := strconv.ParseFloat(strings.TrimSpace(weight), 64)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return Conversion{}, ErrInvalidWeight
	}

	final := w * p.Factor
	if math.IsInf(final, 0) {
		return Conversion{}, ErrInvalidWeight
	}

	return Conversion{
		EarthWeight: w,
		Planet:      p.Name,
		Factor:      p.Factor,
		FinalWeight: Round(final, 3),
	}, nil
}

// Round rounds v half away from zero to the given number of decimal places.
// The scaled value is pre-rounded to 15 significant digits so that binary
// representation error next to a tie does not decide the result.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	scale := math.Pow10(places)
	// Past 2^53/scale every float64 is already exact at this precision.
	if math.Abs(v) >= (1<<53)/scale {
		return v
	}
	scaled := v * scale
	if pre, err := strconv.ParseFloat(strconv.FormatFloat(scaled, 'g', 15, 64), 64); err == nil {
		scaled = pre
	}
	return math.Round(scaled) / scale
}

// FormatWeight renders a weight with exactly three decimals, "." as the
// decimal separator and no digit grouping.
func FormatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// FillTemplate substitutes every placeholder occurrence in tpl.
func FillTemplate(tpl string, c Conversion) string {
	r := strings.NewReplacer(
		PlaceholderFinalWeight, FormatWeight(c.FinalWeight),
		PlaceholderPlanetName, c.DisplayPlanet(),
		PlaceholderEarthWeight, FormatWeight(c.EarthWeight),
	)
	return r.Replace(tpl)
}
