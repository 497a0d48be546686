package calculators

type GroutInput struct {
	Units UnitSystem `json:"unit_system"`
	// Area dimensions are meters or feet. Metric tile, gap and depth are
	// meters; imperial ones are inches.
	AreaLength float64 `json:"area_length"`
	AreaWidth  float64 `json:"area_width"`
	TileLength float64 `json:"tile_length"`
	TileWidth  float64 `json:"tile_width"`
	GapWidth   float64 `json:"gap_width"`
	GapDepth   float64 `json:"gap_depth"`
	// IncludeMaterial enables weight and bag estimates.
	IncludeMaterial    bool    `json:"include_material"`
	Density            float64 `json:"density"`
	BagSize            float64 `json:"bag_size"`
	DryMaterialPercent float64 `json:"dry_material_percent"`
}

type GroutResult struct {
	Valid       bool    `json:"valid"`
	SurfaceArea float64 `json:"surface_area"`
	GroutArea   float64 `json:"grout_area"`
	// GroutVolume is liters for metric input and ft³ for imperial input.
	GroutVolume float64 `json:"grout_volume"`
	VolumeUnit  string  `json:"volume_unit"`
	GroutWeight float64 `json:"grout_weight"`
	BagsNeeded  int     `json:"bags_needed"`
}

// Grout estimates joint filler from the tile-to-module ratio
// R = (l+g)(w+g)/(lw); the grout covers A - A/R. Non-positive dimensions
// (or a negative gap) yield an all-zero, invalid result.
func Grout(in GroutInput) GroutResult {
	if in.AreaLength <= 0 || in.AreaWidth <= 0 || in.TileLength <= 0 || in.TileWidth <= 0 || in.GapWidth < 0 || in.GapDepth <= 0 {
		return GroutResult{}
	}

	l, w, g, d := in.TileLength, in.TileWidth, in.GapWidth, in.GapDepth
	if in.Units == Imperial {
		l /= 12
		w /= 12
		g /= 12
		d /= 12
	}

	surface := in.AreaLength * in.AreaWidth
	ratio := ((l + g) * (w + g)) / (l * w)
	groutArea := surface - surface/ratio
	volume := groutArea * d

	res := GroutResult{
		Valid:       true,
		SurfaceArea: surface,
		GroutArea:   groutArea,
		GroutVolume: volume,
		VolumeUnit:  "cubic feet",
	}
	if in.Units != Imperial {
		res.GroutVolume = volume * 1000
		res.VolumeUnit = "liters"
	}

	if in.IncludeMaterial {
		density := in.Density
		if density == 0 {
			density = 1600
			if in.Units == Imperial {
				density = 100
			}
		}
		bag := in.BagSize
		if bag == 0 {
			bag = 10
		}
		dry := in.DryMaterialPercent
		if dry == 0 {
			dry = 50
		}
		res.GroutWeight = volume * density
		res.BagsNeeded = ceilCount(div(res.GroutWeight, bag*dry/100))
	}
	return res
}

// thinsetPreset is the typical trowel bed for a tile size, in mm and inches.
type thinsetPreset struct{ MM, Inch float64 }

var thinsetPresets = map[string]thinsetPreset{
	"2x2":   {2.0, 0.079},
	"4x4":   {2.4, 0.094},
	"6x6":   {3.0, 0.118},
	"8x8":   {3.5, 0.138},
	"12x12": {5.0, 0.197},
	"16x16": {6.0, 0.236},
	"large": {7.0, 0.276},
}

type ThinsetInput struct {
	Units      UnitSystem `json:"unit_system"`
	AreaLength float64    `json:"area_length"`
	AreaWidth  float64    `json:"area_width"`
	// TileSize selects a preset bed thickness; "custom" uses
	// CustomThickness (mm or inches).
	TileSize           string  `json:"tile_size"`
	CustomThickness    float64 `json:"custom_thickness"`
	WastagePercent     float64 `json:"wastage_percent"`
	Density            float64 `json:"density"`
	DryMaterialPercent float64 `json:"dry_material_percent"`
	BagWeight          float64 `json:"bag_weight"`
	CostPerBag         float64 `json:"cost_per_bag"`
}

type ThinsetResult struct {
	Valid        bool    `json:"valid"`
	Area         float64 `json:"area"`
	Thickness    float64 `json:"thickness"`
	Volume       float64 `json:"volume"`
	VolumeWasted float64 `json:"volume_with_wastage"`
	Weight       float64 `json:"weight"`
	DryThinset   float64 `json:"dry_thinset"`
	BagsNeeded   int     `json:"bags_needed"`
	TotalCost    float64 `json:"total_cost"`
}

// Thinset sizes tile adhesive. Metric areas are m² with mm beds; imperial
// areas are ft² with inch beds.
func Thinset(in ThinsetInput) ThinsetResult {
	thickness := in.CustomThickness
	if in.TileSize != "custom" {
		p, ok := thinsetPresets[in.TileSize]
		if !ok {
			p = thinsetPresets["12x12"]
		}
		thickness = p.MM
		if in.Units == Imperial {
			thickness = p.Inch
		}
	}

	if in.AreaLength <= 0 || in.AreaWidth <= 0 || thickness <= 0 {
		return ThinsetResult{}
	}

	area := in.AreaLength * in.AreaWidth
	volume := area * thickness / 1000
	if in.Units == Imperial {
		volume = area * thickness / 12
	}

	density := in.Density
	if density == 0 {
		density = 1600
	}
	dryPercent := in.DryMaterialPercent
	if dryPercent == 0 {
		dryPercent = 50
	}
	bagWeight := in.BagWeight
	if bagWeight == 0 {
		bagWeight = 50
	}

	wasted := withWastage(volume, in.WastagePercent)
	weight := wasted * density
	dry := weight * dryPercent / 100
	bags := ceilCount(dry / bagWeight)

	return ThinsetResult{
		Valid:        true,
		Area:         area,
		Thickness:    thickness,
		Volume:       volume,
		VolumeWasted: wasted,
		Weight:       weight,
		DryThinset:   dry,
		BagsNeeded:   bags,
		TotalCost:    float64(bags) * in.CostPerBag,
	}
}
