package domain

import (
	"errors"
	"regexp"
	"strconv"
)

// leadingFloatRe matches the numeric prefix a browser's parseFloat accepts,
// e.g. "  72.5kg" -> "72.5" and "-Infinity!" -> "-Infinity".
var leadingFloatRe = regexp.MustCompile(`^[\t\n\v\f\r \x{00a0}\x{feff}]*([+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?))`)

// EstimateResult is the offline estimator's answer for a quick planet.
type EstimateResult struct {
	Weight      float64
	Planet      Planet
	FinalWeight float64 // unrounded; formatted to two decimals for display
}

// Estimate computes a quick weight estimate without contacting the server.
// Only planets flagged Quick in the catalogue are accepted. The weight is read
// leniently: leading whitespace is skipped and trailing text after the number
// is ignored.
func Estimate(catalog Catalog, input, planet string) (EstimateResult, error) {
	w, ok := parseLeadingFloat(input)
	if !ok {
		return EstimateResult{}, ErrInvalidWeight
	}

	p, found := catalog.Lookup(planet)
	if !found || !p.Quick {
		return EstimateResult{}, ErrInvalidPlanet
	}

	return EstimateResult{
		Weight:      w,
		Planet:      p,
		FinalWeight: w * p.Factor,
	}, nil
}

func parseLeadingFloat(s string) (float64, bool) {
	m := leadingFloatRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		// Out-of-range exponents still parse to ±Inf with ErrRange.
		if errors.Is(err, strconv.ErrRange) {
			return v, true
		}
		return 0, false
	}
	return v, true
}
