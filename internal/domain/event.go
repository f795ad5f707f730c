package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ConversionEvent records a successful conversion for downstream consumers.
type ConversionEvent struct {
	ID          string    `json:"id"`
	Planet      string    `json:"planet"`
	Factor      float64   `json:"factor"`
	EarthWeight float64   `json:"earth_weight"`
	FinalWeight float64   `json:"final_weight"`
	Method      string    `json:"method"`
	ComputedAt  time.Time `json:"computed_at"`
}

// NewConversionEvent stamps a conversion with the package clock.
func NewConversionEvent(c Conversion, method string) ConversionEvent {
	now := clock.Now().UTC()
	return ConversionEvent{
		ID:          generateID(c.Planet, c.EarthWeight, now),
		Planet:      c.Planet,
		Factor:      c.Factor,
		EarthWeight: c.EarthWeight,
		FinalWeight: c.FinalWeight,
		Method:      method,
		ComputedAt:  now,
	}
}

// generateID hashes the conversion inputs and timestamp. The same request at
// the same instant yields the same ID, which lets consumers drop redeliveries.
func generateID(planet string, weight float64, at time.Time) string {
	input := fmt.Sprintf("%s|%g|%d", planet, weight, at.UnixNano())
	hash := sha256.Sum256([]byte(input))
	return planet + "-" + hex.EncodeToString(hash[:8])
}
