package calculators

import (
	"fmt"
	"math"
)

// toFeet converts in, ft, yd, m and cm. Unknown units are feet.
func toFeet(v float64, unit string) float64 {
	switch unit {
	case "in":
		return v / 12
	case "yd":
		return v * 3
	case "m":
		return v * metersToFeet
	case "cm":
		return v * 0.0328084
	}
	return v
}

// ft3Per is how many of each volume unit one cubic foot holds.
var ft3Per = map[string]float64{
	"yd3": 1.0 / 27,
	"ft3": 1,
	"in3": 1728,
	"m3":  cuFeetToCuMeters,
	"cm3": 28316.8,
}

// Shape names a solid for the volume calculator.
type Shape string

const (
	ShapeRectangular    Shape = "rectangular"
	ShapeCube           Shape = "cube"
	ShapeCylinder       Shape = "cylinder"
	ShapeHollowCuboid   Shape = "hollow-cuboid"
	ShapeHollowCylinder Shape = "hollow-cylinder"
	ShapeHemisphere     Shape = "hemisphere"
	ShapeCone           Shape = "cone"
	ShapePyramid        Shape = "pyramid"
	ShapeOther          Shape = "other"
)

type ShapeVolumeInput struct {
	Shape      Shape  `json:"shape"`
	LengthUnit string `json:"length_unit"`
	// VolumeUnit is yd3 (default), ft3, in3, m3 or cm3.
	VolumeUnit string `json:"volume_unit"`

	Length   float64 `json:"length"`
	Width    float64 `json:"width"`
	Depth    float64 `json:"depth"`
	Side     float64 `json:"side"`
	Radius   float64 `json:"radius"`
	Diameter float64 `json:"diameter"`
	Height   float64 `json:"height"`

	OuterLength float64 `json:"outer_length"`
	OuterWidth  float64 `json:"outer_width"`
	OuterHeight float64 `json:"outer_height"`
	InnerLength float64 `json:"inner_length"`
	InnerWidth  float64 `json:"inner_width"`
	InnerHeight float64 `json:"inner_height"`
	OuterRadius float64 `json:"outer_radius"`
	InnerRadius float64 `json:"inner_radius"`

	// BaseSide is the side of a square pyramid base.
	BaseSide float64 `json:"base_side"`
	// CustomVolume is read in VolumeUnit for ShapeOther.
	CustomVolume float64 `json:"custom_volume"`
	PricePerUnit float64 `json:"price_per_unit"`
}

type ShapeVolumeResult struct {
	Volume     float64 `json:"volume"`
	VolumeUnit string  `json:"volume_unit"`
	CubicFeet  float64 `json:"cubic_feet"`
	TotalPrice float64 `json:"total_price"`
}

// ShapeVolume computes the volume of common solids and prices it per
// output unit.
func ShapeVolume(in ShapeVolumeInput) (ShapeVolumeResult, error) {
	unit := in.VolumeUnit
	if unit == "" {
		unit = "yd3"
	}
	per, ok := ft3Per[unit]
	if !ok {
		return ShapeVolumeResult{}, fmt.Errorf("unknown volume unit %q", in.VolumeUnit)
	}
	ft := func(v float64) float64 { return toFeet(v, in.LengthUnit) }

	var cuft float64
	switch in.Shape {
	case ShapeRectangular, "":
		cuft = ft(in.Length) * ft(in.Width) * ft(in.Depth)
	case ShapeCube:
		s := ft(in.Side)
		cuft = s * s * s
	case ShapeCylinder:
		r := ft(in.Radius)
		if r == 0 {
			r = ft(in.Diameter / 2)
		}
		cuft = math.Pi * r * r * ft(in.Height)
	case ShapeHollowCuboid:
		outer := ft(in.OuterLength) * ft(in.OuterWidth) * ft(in.OuterHeight)
		inner := ft(in.InnerLength) * ft(in.InnerWidth) * ft(in.InnerHeight)
		cuft = outer - inner
	case ShapeHollowCylinder:
		R, r := ft(in.OuterRadius), ft(in.InnerRadius)
		cuft = math.Pi * ft(in.Height) * (R*R - r*r)
	case ShapeHemisphere:
		r := ft(in.Radius)
		cuft = 2.0 / 3.0 * math.Pi * r * r * r
	case ShapeCone:
		r := ft(in.Radius)
		cuft = math.Pi * r * r * ft(in.Height) / 3
	case ShapePyramid:
		b := ft(in.BaseSide)
		cuft = b * b * ft(in.Height) / 3
	case ShapeOther:
		cuft = in.CustomVolume / per
	default:
		return ShapeVolumeResult{}, fmt.Errorf("unknown shape %q", in.Shape)
	}
	if cuft < 0 {
		cuft = 0
	}

	vol := cuft * per
	return ShapeVolumeResult{
		Volume:     vol,
		VolumeUnit: unit,
		CubicFeet:  cuft,
		TotalPrice: vol * in.PricePerUnit,
	}, nil
}

type BoardFootInput struct {
	Units UnitSystem `json:"unit_system"`
	// Imperial: thickness and width in inches, length in feet.
	// Metric: thickness and width in millimeters, length in meters.
	Thickness         float64 `json:"thickness"`
	Width             float64 `json:"width"`
	Length            float64 `json:"length"`
	Quantity          float64 `json:"quantity"`
	WastagePercent    float64 `json:"wastage_percent"`
	PricePerBoardFoot float64 `json:"price_per_board_foot"`
}

type BoardFootResult struct {
	BoardFeetPerPiece    float64 `json:"board_feet_per_piece"`
	TotalBoardFeet       float64 `json:"total_board_feet"`
	BoardFeetWithWastage float64 `json:"board_feet_with_wastage"`
	TotalCost            float64 `json:"total_cost"`
}

const boardFeetPerCubicMeter = 423.776

func BoardFoot(in BoardFootInput) BoardFootResult {
	var perPiece float64
	if in.Units == Metric {
		perPiece = (in.Thickness / 1000) * (in.Width / 1000) * in.Length * boardFeetPerCubicMeter
	} else {
		perPiece = in.Thickness * in.Width * in.Length / 12
	}
	total := perPiece * in.Quantity
	wasted := withWastage(total, in.WastagePercent)
	return BoardFootResult{
		BoardFeetPerPiece:    perPiece,
		TotalBoardFeet:       total,
		BoardFeetWithWastage: wasted,
		TotalCost:            wasted * in.PricePerBoardFoot,
	}
}

var sqFeetPer = map[string]float64{
	"sqft": 1,
	"sqm":  sqMetersToSqFeet,
	"sqin": 1.0 / 144,
	"sqyd": 9,
}

var liquidPerFt3 = map[string]float64{
	"usgal": 7.48052,
	"ukgal": 6.22884,
	"liter": 28.3168,
}

type GallonsInput struct {
	// Mode is "area-to-gallons" (default) or "gallons-to-area".
	Mode       string  `json:"mode"`
	Area       float64 `json:"area"`
	AreaUnit   string  `json:"area_unit"`
	Height     float64 `json:"height"`
	HeightUnit string  `json:"height_unit"`
	Volume     float64 `json:"volume"`
	VolumeUnit string  `json:"volume_unit"`
}

type GallonsResult struct {
	Volume         float64 `json:"volume"`
	AreaSqFt       float64 `json:"area_ft2"`
	GallonsPerSqFt float64 `json:"gallons_per_ft2"`
	HeightFt       float64 `json:"height_ft"`
}

// GallonsPerSqFt relates a liquid depth over an area to volume, in either
// direction. Unknown area or volume units are sq ft and US gallons.
func GallonsPerSqFt(in GallonsInput) GallonsResult {
	liquid, ok := liquidPerFt3[in.VolumeUnit]
	if !ok {
		liquid = liquidPerFt3["usgal"]
	}
	height := toFeet(in.Height, in.HeightUnit)

	if in.Mode == "gallons-to-area" {
		cuft := in.Volume / liquid
		return GallonsResult{
			Volume:         in.Volume,
			AreaSqFt:       div(cuft, height),
			GallonsPerSqFt: height * liquidPerFt3["usgal"],
			HeightFt:       height,
		}
	}

	factor, ok := sqFeetPer[in.AreaUnit]
	if !ok {
		factor = 1
	}
	area := in.Area * factor
	vol := area * height * liquid
	return GallonsResult{
		Volume:         vol,
		AreaSqFt:       area,
		GallonsPerSqFt: div(vol, area),
		HeightFt:       height,
	}
}
