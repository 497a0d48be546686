package calculators

import "math"

// UnitSystem selects how dimensional inputs are interpreted.
type UnitSystem string

const (
	Metric   UnitSystem = "metric"
	Imperial UnitSystem = "imperial"
)

func parseUnitSystem(s string, def UnitSystem) UnitSystem {
	switch UnitSystem(s) {
	case Metric, Imperial:
		return UnitSystem(s)
	}
	return def
}

const (
	feetToMeters      = 0.3048
	inchesToMeters    = 0.0254
	metersToFeet      = 3.28084
	sqMetersToSqFeet  = 10.7639
	sqFeetToSqMeters  = 0.092903
	cuMetersToCuFeet  = 35.3147
	cuFeetToCuMeters  = 0.0283168
	cuYardsToCuMeters = 0.764555
	kgToLb            = 2.20462
	lbToKg            = 0.453592
	lbPerFt3ToKgPerM3 = 16.0185
)

// div returns a/b, or zero when b is zero so results never carry NaN or Inf.
func div(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	r := a / b
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// ceilCount rounds a material count up. A tiny tolerance keeps float noise
// such as 100.00000000001 from costing an extra unit. Counts too large for
// an int saturate at math.MaxInt.
func ceilCount(x float64) int {
	if math.IsNaN(x) || x <= 0 {
		return 0
	}
	c := math.Ceil(x - 1e-9)
	if c >= math.MaxInt {
		return math.MaxInt
	}
	return int(c)
}

func withWastage(v, percent float64) float64 {
	return v * (1 + percent/100)
}
