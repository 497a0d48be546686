package calculators

import (
	"math"
	"sort"
)

// rebarKgPerMeter is the nominal unit weight of deformed bars by diameter (mm).
var rebarKgPerMeter = map[int]float64{
	6:  0.222,
	8:  0.395,
	10: 0.617,
	12: 0.888,
	16: 1.579,
	20: 2.466,
	25: 3.854,
	32: 6.313,
}

// RebarDiameters returns the tabulated bar sizes in ascending order.
func RebarDiameters() []int {
	out := make([]int, 0, len(rebarKgPerMeter))
	for d := range rebarKgPerMeter {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

type SteelWeightInput struct {
	DiameterMM float64 `json:"diameter_mm"`
	LengthM    float64 `json:"length_m"`
	Bars       float64 `json:"bars"`
	PricePerKg float64 `json:"price_per_kg"`
}

type SteelWeightResult struct {
	KgPerMeter float64 `json:"kg_per_meter"`
	// TableKgPerMeter is the standard table value when the diameter is a
	// stock size, zero otherwise.
	TableKgPerMeter float64 `json:"table_kg_per_meter"`
	TotalLengthM    float64 `json:"total_length_m"`
	TotalWeightKg   float64 `json:"total_weight_kg"`
	TotalCost       float64 `json:"total_cost"`
}

// SteelWeight uses the site rule D²/162 kg per meter.
func SteelWeight(in SteelWeightInput) SteelWeightResult {
	perMeter := in.DiameterMM * in.DiameterMM / 162
	length := in.LengthM * in.Bars
	weight := perMeter * length

	res := SteelWeightResult{
		KgPerMeter:    perMeter,
		TotalLengthM:  length,
		TotalWeightKg: weight,
		TotalCost:     weight * in.PricePerKg,
	}
	if in.DiameterMM > 0 && in.DiameterMM < 100 && in.DiameterMM == math.Trunc(in.DiameterMM) {
		res.TableKgPerMeter = rebarKgPerMeter[int(in.DiameterMM)]
	}
	return res
}
