// Package ircore simulates scenario cubes of interest-rate term structures
// for counterparty credit risk, potential future exposure and XVA
// computations, and validates those cubes against arbitrage-free and
// interpolation-stability properties.
//
// The central data contract is the zero-rate cube: a dense tensor indexed
// by path, time and pillar, produced by either the Ultimate Base Curve
// process (a multi-pillar shifted exponential Vasicek model) or the
// Hull-White one-factor benchmark generator. A suite of validators then
// consumes such cubes to quantify arbitrage-free violations, dynamic
// consistency wedges, interpolation-scheme sensitivity, forward-curve
// roughness and pillar-density stress.
package ircore
