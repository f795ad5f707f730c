// Package domain models weight conversion between Earth and other bodies of
// the solar system.
//
// # Gravity Factors
//
// A gravity factor is the ratio of a body's surface gravity to Earth's. It is
// applied as a linear multiplier to an Earth weight:
//
//	final = round(earth_weight * factor, 3)
//
// The factors come from a [Catalog]. The default catalogue (see package
// catalog) lists ten bodies. Three of them (mars, jupiter, moon) are flagged
// "quick" and make up the offline estimator set.
//
// # Name Matching
//
// Planet names are matched case-insensitively: "MARS", "Mars" and "mars"
// resolve to the same entry. The canonical key is lowercase. The result page
// shows it uppercased.
//
// # Rounding
//
// Final weights are rounded half away from zero to three decimals. The scaled
// value is first pre-rounded to 15 significant digits, so representation error
// near a tie does not flip the result (1.0005 rounds to 1.001, not 1.000). All
// weights on the result page are printed with exactly three decimals, a "."
// separator and no digit grouping. See [FormatWeight].
//
// # Failures
//
// Conversion failures are [*Failure] values. Their Message is shown verbatim to
// the client in the "Error: <message>" body of a CGI error response.
package domain
