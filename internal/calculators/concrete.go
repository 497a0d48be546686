package calculators

import "math"

// MixGrade is a nominal concrete mix such as M20.
type MixGrade string

type mixRatio struct {
	Cement, Sand, Aggregate float64
	WaterCement             float64
}

var mixRatios = map[MixGrade]mixRatio{
	"M5":   {1, 5, 10, 0.6},
	"M7.5": {1, 4, 8, 0.6},
	"M10":  {1, 3, 6, 0.55},
	"M15":  {1, 2, 4, 0.55},
	"M20":  {1, 1.5, 3, 0.5},
	"M25":  {1, 1, 2, 0.5},
	"M30":  {1, 1, 1.5, 0.45},
}

var mixGradeOrder = []MixGrade{"M5", "M7.5", "M10", "M15", "M20", "M25", "M30"}

// MixGrades lists the supported nominal mixes, weakest first.
func MixGrades() []MixGrade {
	return append([]MixGrade(nil), mixGradeOrder...)
}

const (
	cementDensityKgM3 = 1440.0
	cementBagKg       = 50.0
)

type CementInput struct {
	Units UnitSystem `json:"unit_system"`
	Grade MixGrade   `json:"grade"`
	// Volume in m³ is used when set; otherwise Length × Width × Thickness.
	// Imperial dimensions are feet for length/width and inches for thickness.
	Volume               float64 `json:"volume"`
	Length               float64 `json:"length"`
	Width                float64 `json:"width"`
	Thickness            float64 `json:"thickness"`
	WastagePercent       float64 `json:"wastage_percent"`
	DryVolumeMultiplier  float64 `json:"dry_volume_multiplier"`
	WaterCementRatio     float64 `json:"water_cement_ratio"`
	CementCostPerBag     float64 `json:"cement_cost_per_bag"`
	SandCostPerUnit      float64 `json:"sand_cost_per_unit"`
	AggregateCostPerUnit float64 `json:"aggregate_cost_per_unit"`
}

type CementResult struct {
	TotalVolume     float64 `json:"total_volume_m3"`
	DryVolume       float64 `json:"dry_volume_m3"`
	CementKg        float64 `json:"cement_kg"`
	CementBags      float64 `json:"cement_bags"`
	SandVolume      float64 `json:"sand_volume_m3"`
	AggregateVolume float64 `json:"aggregate_volume_m3"`
	WaterLiters     float64 `json:"water_liters"`
	TotalCost       float64 `json:"total_cost"`
}

// Cement splits the dry volume of a mix into cement, sand and aggregate.
// Unknown grades use M20. The dry multiplier defaults to 1.54 and the
// water/cement ratio defaults to the grade's own ratio.
func Cement(in CementInput) CementResult {
	ratio, ok := mixRatios[in.Grade]
	if !ok {
		ratio = mixRatios["M20"]
	}

	volume := in.Volume
	if volume == 0 {
		if in.Units == Imperial {
			volume = in.Length * in.Width * sqFeetToSqMeters * in.Thickness * inchesToMeters
		} else {
			volume = in.Length * in.Width * in.Thickness
		}
	}
	volume = withWastage(volume, in.WastagePercent)

	dryMultiplier := in.DryVolumeMultiplier
	if dryMultiplier == 0 {
		dryMultiplier = 1.54
	}
	dry := volume * dryMultiplier

	parts := ratio.Cement + ratio.Sand + ratio.Aggregate
	cementVol := dry * ratio.Cement / parts
	sandVol := dry * ratio.Sand / parts
	aggVol := dry * ratio.Aggregate / parts

	wc := in.WaterCementRatio
	if wc == 0 {
		wc = ratio.WaterCement
	}

	cementKg := cementVol * cementDensityKgM3
	bags := cementKg / cementBagKg

	return CementResult{
		TotalVolume:     volume,
		DryVolume:       dry,
		CementKg:        cementKg,
		CementBags:      bags,
		SandVolume:      sandVol,
		AggregateVolume: aggVol,
		WaterLiters:     cementKg * wc,
		TotalCost:       bags*in.CementCostPerBag + sandVol*in.SandCostPerUnit + aggVol*in.AggregateCostPerUnit,
	}
}

// lengthToFeet accepts ft, m, in, yd and cm; anything else is taken as feet.
func lengthToFeet(v float64, unit string) float64 {
	switch unit {
	case "m":
		return v * metersToFeet
	case "in":
		return v / 12
	case "yd":
		return v * 3
	case "cm":
		return v / 30.48
	}
	return v
}

func weightToPounds(v float64, unit string) float64 {
	if unit == "kg" {
		return v * kgToLb
	}
	return v
}

type SlabInput struct {
	Length       float64 `json:"length"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	LengthUnit   string  `json:"length_unit"`
	Quantity     float64 `json:"quantity"`
	Density      float64 `json:"density"`
	DensityUnit  string  `json:"density_unit"`
	BagSize      float64 `json:"bag_size"`
	BagUnit      string  `json:"bag_unit"`
	WastePercent float64 `json:"waste_percent"`
	CostPerBag   float64 `json:"cost_per_bag"`
}

type SlabResult struct {
	VolumePerSlabCubicFt float64 `json:"volume_per_slab_ft3"`
	TotalVolumeCubicFt   float64 `json:"total_volume_ft3"`
	TotalVolumeYards     float64 `json:"total_volume_yd3"`
	TotalVolumeMeters    float64 `json:"total_volume_m3"`
	TotalWeightLb        float64 `json:"total_weight_lb"`
	BagsWithoutWaste     float64 `json:"bags_without_waste"`
	BagsNeeded           int     `json:"bags_needed"`
	TotalCost            float64 `json:"total_cost"`
	CostPerSlab          float64 `json:"cost_per_slab"`
	AreaPerSlab          float64 `json:"area_per_slab_ft2"`
	TotalArea            float64 `json:"total_area_ft2"`
	CostPerSqFt          float64 `json:"cost_per_ft2"`
	CostPerCubicYd       float64 `json:"cost_per_yd3"`
}

// Slab sizes premixed concrete bags for one or more rectangular slabs.
// Density is lb/ft³ unless DensityUnit is "kg"; bag size likewise.
func Slab(in SlabInput) SlabResult {
	l := lengthToFeet(in.Length, in.LengthUnit)
	w := lengthToFeet(in.Width, in.LengthUnit)
	h := lengthToFeet(in.Height, in.LengthUnit)

	perSlab := l * w * h
	total := perSlab * in.Quantity
	yards := total / 27

	weight := total * weightToPounds(in.Density, in.DensityUnit)
	bagLb := weightToPounds(in.BagSize, in.BagUnit)
	raw := div(weight, bagLb)
	bags := ceilCount(withWastage(raw, in.WastePercent))
	cost := float64(bags) * in.CostPerBag

	area := l * w
	totalArea := area * in.Quantity

	return SlabResult{
		VolumePerSlabCubicFt: perSlab,
		TotalVolumeCubicFt:   total,
		TotalVolumeYards:     yards,
		TotalVolumeMeters:    total * cuFeetToCuMeters,
		TotalWeightLb:        weight,
		BagsWithoutWaste:     raw,
		BagsNeeded:           bags,
		TotalCost:            cost,
		CostPerSlab:          div(cost, in.Quantity),
		AreaPerSlab:          area,
		TotalArea:            totalArea,
		CostPerSqFt:          div(cost, totalArea),
		CostPerCubicYd:       div(cost, yards),
	}
}

type ColumnInput struct {
	Units UnitSystem `json:"unit_system"`
	// Shape is "circular" or "rectangular".
	Shape string `json:"shape"`
	// Metric dimensions are meters; imperial diameter/width/depth are
	// inches and height is feet.
	Diameter       float64 `json:"diameter"`
	Width          float64 `json:"width"`
	Depth          float64 `json:"depth"`
	Height         float64 `json:"height"`
	Quantity       float64 `json:"quantity"`
	Density        float64 `json:"density"`
	MixCement      float64 `json:"mix_cement"`
	MixSand        float64 `json:"mix_sand"`
	MixAggregate   float64 `json:"mix_aggregate"`
	BagWeight      float64 `json:"bag_weight"`
	WastagePercent float64 `json:"wastage_percent"`
	CostPerBag     float64 `json:"cost_per_bag"`
}

type ColumnResult struct {
	VolumePerColumn float64 `json:"volume_per_column"`
	TotalVolume     float64 `json:"total_volume"`
	TotalWeight     float64 `json:"total_weight"`
	CementVolume    float64 `json:"cement_volume"`
	SandVolume      float64 `json:"sand_volume"`
	AggregateVolume float64 `json:"aggregate_volume"`
	BagsNeeded      int     `json:"bags_needed"`
	TotalCost       float64 `json:"total_cost"`
}

// Column computes concrete for circular or rectangular columns. Outputs
// are m³/kg for metric input and ft³/lb for imperial input.
func Column(in ColumnInput) ColumnResult {
	height := in.Height
	if in.Units == Imperial {
		height *= feetToMeters
	}

	var section float64
	if in.Shape == "circular" {
		d := in.Diameter
		if in.Units == Imperial {
			d *= inchesToMeters
		}
		r := d / 2
		section = math.Pi * r * r
	} else {
		w, dp := in.Width, in.Depth
		if in.Units == Imperial {
			w *= inchesToMeters
			dp *= inchesToMeters
		}
		section = w * dp
	}

	perColumn := section * height
	total := perColumn * in.Quantity

	density := in.Density
	if in.Units == Imperial {
		density *= lbPerFt3ToKgPerM3
	}
	weight := total * density

	parts := in.MixCement + in.MixSand + in.MixAggregate
	cementVol := total * div(in.MixCement, parts)
	sandVol := total * div(in.MixSand, parts)
	aggVol := total * div(in.MixAggregate, parts)

	bagKg := in.BagWeight
	if in.Units == Imperial {
		bagKg *= lbToKg
	}
	bags := ceilCount(withWastage(div(weight, bagKg), in.WastagePercent))

	res := ColumnResult{
		VolumePerColumn: perColumn,
		TotalVolume:     total,
		TotalWeight:     weight,
		CementVolume:    cementVol,
		SandVolume:      sandVol,
		AggregateVolume: aggVol,
		BagsNeeded:      bags,
		TotalCost:       float64(bags) * in.CostPerBag,
	}
	if in.Units == Imperial {
		res.VolumePerColumn *= cuMetersToCuFeet
		res.TotalVolume *= cuMetersToCuFeet
		res.TotalWeight *= kgToLb
		res.CementVolume *= cuMetersToCuFeet
		res.SandVolume *= cuMetersToCuFeet
		res.AggregateVolume *= cuMetersToCuFeet
	}
	return res
}

type DrivewayInput struct {
	Units UnitSystem `json:"unit_system"`
	// Length and width are meters or feet; depths and rebar spacing are
	// centimeters or inches.
	Length        float64 `json:"length"`
	Width         float64 `json:"width"`
	ConcreteDepth float64 `json:"concrete_depth"`
	GravelDepth   float64 `json:"gravel_depth"`
	Advanced      bool    `json:"advanced"`
	RebarSpacing  float64 `json:"rebar_spacing"`
	RebarLength   float64 `json:"rebar_length"`
	ConcretePrice float64 `json:"concrete_price"`
	GravelPrice   float64 `json:"gravel_price"`
	RebarPrice    float64 `json:"rebar_price"`
	FormworkPrice float64 `json:"formwork_price"`
}

type DrivewayResult struct {
	ConcreteVolume   float64 `json:"concrete_volume_m3"`
	GravelVolume     float64 `json:"gravel_volume_m3"`
	RebarTotalLength float64 `json:"rebar_total_length_m"`
	RebarPieces      int     `json:"rebar_pieces"`
	FormworkLength   float64 `json:"formwork_length_m"`
	ConcreteCost     float64 `json:"concrete_cost"`
	GravelCost       float64 `json:"gravel_cost"`
	RebarCost        float64 `json:"rebar_cost"`
	FormworkCost     float64 `json:"formwork_cost"`
	TotalCost        float64 `json:"total_cost"`
}

// Driveway computes concrete and sub-base gravel for a driveway slab. In
// advanced mode it adds a rebar grid (default 30 cm spacing, 6 m bars)
// and perimeter formwork.
func Driveway(in DrivewayInput) DrivewayResult {
	toLen := func(v float64) float64 {
		if in.Units == Imperial {
			return v * feetToMeters
		}
		return v
	}
	toDepth := func(v float64) float64 {
		if in.Units == Imperial {
			return v * inchesToMeters
		}
		return v / 100
	}

	l, w := toLen(in.Length), toLen(in.Width)
	res := DrivewayResult{
		ConcreteVolume: l * w * toDepth(in.ConcreteDepth),
		GravelVolume:   l * w * toDepth(in.GravelDepth),
	}

	if in.Advanced {
		spacingRaw := in.RebarSpacing
		if spacingRaw == 0 {
			spacingRaw = 30
		}
		barRaw := in.RebarLength
		if barRaw == 0 {
			barRaw = 6
		}
		spacing, bar := toDepth(spacingRaw), toLen(barRaw)

		res.RebarTotalLength = (div(l, spacing) + div(w, spacing)) * 2 * math.Max(l, w)
		res.RebarPieces = ceilCount(div(res.RebarTotalLength, bar))
		res.FormworkLength = 2 * (l + w)
		res.RebarCost = res.RebarTotalLength * in.RebarPrice
		res.FormworkCost = res.FormworkLength * in.FormworkPrice
	}

	res.ConcreteCost = res.ConcreteVolume * in.ConcretePrice
	res.GravelCost = res.GravelVolume * in.GravelPrice
	res.TotalCost = res.ConcreteCost + res.GravelCost + res.RebarCost + res.FormworkCost
	return res
}

type StairsInput struct {
	Units UnitSystem `json:"unit_system"`
	// Metric dimensions are meters; imperial dimensions are inches.
	Steps          float64 `json:"steps"`
	RiserRise      float64 `json:"riser_rise"`
	TreadRun       float64 `json:"tread_run"`
	NosingDepth    float64 `json:"nosing_depth"`
	ThroatDepth    float64 `json:"throat_depth"`
	StairWidth     float64 `json:"stair_width"`
	AngledRisers   bool    `json:"angled_risers"`
	WastagePercent float64 `json:"wastage_percent"`
	CostPerUnit    float64 `json:"cost_per_unit"`
}

type StairsResult struct {
	StepArea            float64 `json:"step_area"`
	CarriageAreaPerStep float64 `json:"carriage_area_per_step"`
	RawVolume           float64 `json:"raw_volume"`
	FinalVolume         float64 `json:"final_volume"`
	TotalRise           float64 `json:"total_rise"`
	TotalRun            float64 `json:"total_run"`
	TotalCost           float64 `json:"total_cost"`
}

// Stairs estimates concrete for a cast-in-place flight: each step is a
// triangle plus the carriage slab under it. Results are metric (m², m³, m)
// or imperial (ft², ft³, ft) to match the input.
func Stairs(in StairsInput) StairsResult {
	r, t, nosing, throat, width := in.RiserRise, in.TreadRun, in.NosingDepth, in.ThroatDepth, in.StairWidth
	if in.Units == Imperial {
		r *= inchesToMeters
		t *= inchesToMeters
		nosing *= inchesToMeters
		throat *= inchesToMeters
		width *= inchesToMeters
	}

	stepArea := 0.5 * t * r
	if in.AngledRisers {
		stepArea = 0.5 * (t + nosing) * r
	}
	carriage := math.Hypot(t, r) * throat
	raw := in.Steps * (stepArea + carriage) * width
	final := withWastage(raw, in.WastagePercent)

	totalRun := 0.0
	if in.Steps > 1 {
		totalRun = t * (in.Steps - 1)
	}

	res := StairsResult{
		StepArea:            stepArea,
		CarriageAreaPerStep: carriage,
		RawVolume:           raw,
		FinalVolume:         final,
		TotalRise:           r * in.Steps,
		TotalRun:            totalRun,
		TotalCost:           final * in.CostPerUnit,
	}
	if in.Units == Imperial {
		res.StepArea *= sqMetersToSqFeet
		res.CarriageAreaPerStep *= sqMetersToSqFeet
		res.RawVolume *= cuMetersToCuFeet
		res.FinalVolume *= cuMetersToCuFeet
		res.TotalRise *= metersToFeet
		res.TotalRun *= metersToFeet
	}
	return res
}

// ConcreteType is a named density class.
type ConcreteType string

var concreteDensities = map[ConcreteType]struct{ KgM3, LbFt3 float64 }{
	"asphalt":            {2243, 140.03},
	"gravel":             {2404, 150.01},
	"portland":           {2300, 143.58},
	"portland-limestone": {2371, 148.02},
	"reinforced":         {2500, 156.07},
}

type TypeWeightInput struct {
	Units UnitSystem   `json:"unit_system"`
	Type  ConcreteType `json:"type"`
	// CustomDensity overrides the type table (kg/m³ or lb/ft³).
	CustomDensity float64 `json:"custom_density"`
	Volume        float64 `json:"volume"`
	// VolumeUnit is m3, ft3 or yd3.
	VolumeUnit string `json:"volume_unit"`
}

type TypeWeightResult struct {
	Density         float64 `json:"density"`
	WeightKg        float64 `json:"weight_kg"`
	WeightLb        float64 `json:"weight_lb"`
	WeightMetricTon float64 `json:"weight_metric_ton"`
	WeightShortTon  float64 `json:"weight_short_ton"`
	VolumeM3        float64 `json:"volume_m3"`
	VolumeYd3       float64 `json:"volume_yd3"`
}

// TypeWeight weighs a volume of concrete of a given type. Unknown types
// use portland cement concrete.
func TypeWeight(in TypeWeightInput) TypeWeightResult {
	d, ok := concreteDensities[in.Type]
	if !ok {
		d = concreteDensities["portland"]
	}

	var m3 float64
	switch in.VolumeUnit {
	case "ft3":
		m3 = in.Volume * cuFeetToCuMeters
	case "yd3":
		m3 = in.Volume * cuYardsToCuMeters
	default:
		m3 = in.Volume
	}

	res := TypeWeightResult{VolumeM3: m3, VolumeYd3: m3 / cuYardsToCuMeters}
	if in.Units == Imperial {
		density := d.LbFt3
		if in.CustomDensity > 0 {
			density = in.CustomDensity
		}
		ft3 := in.Volume
		switch in.VolumeUnit {
		case "m3", "":
			ft3 = in.Volume * cuMetersToCuFeet
		case "yd3":
			ft3 = in.Volume * 27
		}
		res.Density = density
		res.WeightLb = ft3 * density
		res.WeightKg = res.WeightLb * lbToKg
	} else {
		density := d.KgM3
		if in.CustomDensity > 0 {
			density = in.CustomDensity
		}
		res.Density = density
		res.WeightKg = m3 * density
		res.WeightLb = res.WeightKg * kgToLb
	}
	res.WeightMetricTon = res.WeightKg / 1000
	res.WeightShortTon = res.WeightLb / 2000
	return res
}

type HoleVolumeInput struct {
	Units UnitSystem `json:"unit_system"`
	// Diameter and Depth are meters or feet.
	Diameter float64 `json:"diameter"`
	Depth    float64 `json:"depth"`
	Holes    float64 `json:"holes"`
	// BagYield is the volume one premix bag fills, m³ or ft³.
	BagYield       float64 `json:"bag_yield"`
	WastagePercent float64 `json:"wastage_percent"`
}

type HoleVolumeResult struct {
	VolumePerHole float64 `json:"volume_per_hole"`
	TotalVolume   float64 `json:"total_volume"`
	BagsNeeded    int     `json:"bags_needed"`
}

// HoleVolume sizes concrete for cylindrical post holes.
func HoleVolume(in HoleVolumeInput) HoleVolumeResult {
	r := in.Diameter / 2
	per := math.Pi * r * r * in.Depth
	total := withWastage(per*in.Holes, in.WastagePercent)

	yield := in.BagYield
	if yield == 0 {
		// 80 lb premix bag
		yield = 0.6
		if in.Units != Imperial {
			yield = 0.6 * cuFeetToCuMeters
		}
	}

	return HoleVolumeResult{
		VolumePerHole: per,
		TotalVolume:   total,
		BagsNeeded:    ceilCount(div(total, yield)),
	}
}

type CementBagsInput struct {
	// Mode is "weight", "bags" or "volume" and names which value is given.
	Mode      string  `json:"mode"`
	Value     float64 `json:"value"`
	BagWeight float64 `json:"bag_weight_kg"`
	Density   float64 `json:"density_kg_m3"`
}

type CementBagsResult struct {
	WeightKg float64 `json:"weight_kg"`
	Bags     float64 `json:"bags"`
	VolumeM3 float64 `json:"volume_m3"`
}

// CementBags converts between cement weight, bag count and loose volume.
// Defaults are 50 kg bags at 1440 kg/m³.
func CementBags(in CementBagsInput) CementBagsResult {
	bag := in.BagWeight
	if bag == 0 {
		bag = cementBagKg
	}
	density := in.Density
	if density == 0 {
		density = cementDensityKgM3
	}

	var kg float64
	switch in.Mode {
	case "bags":
		kg = in.Value * bag
	case "volume":
		kg = in.Value * density
	default:
		kg = in.Value
	}
	return CementBagsResult{WeightKg: kg, Bags: div(kg, bag), VolumeM3: div(kg, density)}
}
