package render

import (
	"errors"
	"html"
	"math"
	"math/big"
	"strconv"
	"strings"
	"sync"

	"github.com/couchcryptid/planet-weight-cgi/internal/domain"
	"github.com/microcosm-cc/bluemonday"
)

const (
	msgInvalidWeight = "Please enter a valid weight."
	msgInvalidPlanet = "Please choose a planet."
)

// EstimateFragment renders the estimator answer for the result container.
func EstimateFragment(res domain.EstimateResult, err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidWeight):
		return errorSpan(msgInvalidWeight)
	case errors.Is(err, domain.ErrInvalidPlanet):
		return errorSpan(msgInvalidPlanet)
	case err != nil:
		return errorSpan(err.Error())
	}

	return "<strong>Result:</strong> A " + formatNumber(res.Weight) +
		"kg object weighs <strong>" + toFixed2(res.FinalWeight) +
		"kg</strong> on " + html.EscapeString(res.Planet.Display) + "."
}

func errorSpan(msg string) string {
	return "<span style='color:red'>" + html.EscapeString(msg) + "</span>"
}

var (
	ugcOnce   sync.Once
	ugcPolicy *bluemonday.Policy
)

// Sanitize strips scripts, event handlers and other active content from a
// server-authored fragment before it is placed in a container.
func Sanitize(s string) string {
	ugcOnce.Do(func() { ugcPolicy = bluemonday.UGCPolicy() })
	return ugcPolicy.Sanitize(s)
}

// formatNumber prints v the way a browser prints a number in a template
// literal: shortest round-trip digits, exponent form outside [1e-6, 1e21).
func formatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	case v == 0:
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		exp = strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + exp
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// toFixed2 rounds v to two decimals with ties away from zero on the exact
// binary value, as Number.prototype.toFixed(2) does.
func toFixed2(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) || math.Abs(v) >= 1e21 {
		return formatNumber(v)
	}

	neg := v < 0
	x := new(big.Float).SetPrec(256).SetFloat64(math.Abs(v))
	x.Mul(x, big.NewFloat(100))
	x.Add(x, big.NewFloat(0.5))
	n, _ := x.Int(nil)

	digits := n.String()
	if len(digits) < 3 {
		digits = strings.Repeat("0", 3-len(digits)) + digits
	}
	out := digits[:len(digits)-2] + "." + digits[len(digits)-2:]
	if neg {
		out = "-" + out
	}
	return out
}
