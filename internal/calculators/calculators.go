// Package calculators holds the construction material and cost formulas.
// Every calculator is a pure function from a typed input to a typed result;
// Run adapts loosely-typed JSON inputs onto them by name.
package calculators

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownCalculator = errors.New("unknown calculator")

type adapter func(in Inputs) (any, error)

var registry = map[string]adapter{
	"brick": func(in Inputs) (any, error) {
		return Brick(BrickInput{
			Units:            parseUnitSystem(in.String("unit_system", ""), Metric),
			WallLength:       in.Float("wall_length"),
			WallHeight:       in.Float("wall_height"),
			BrickLength:      in.Float("brick_length"),
			BrickHeight:      in.Float("brick_height"),
			MortarThickness:  in.Float("mortar_thickness"),
			WastagePercent:   in.Float("wastage_percent"),
			BrickCostPer1000: in.Float("brick_cost_per_1000"),
			MortarCostPerBag: in.Float("mortar_cost_per_bag"),
		}), nil
	},
	"concrete-block": func(in Inputs) (any, error) {
		return ConcreteBlock(ConcreteBlockInput{
			Units:         parseUnitSystem(in.String("unit_system", ""), Metric),
			WallHeight:    in.Float("wall_height"),
			WallWidth:     in.Float("wall_width"),
			BlockHeight:   in.Float("block_height"),
			BlockWidth:    in.Float("block_width"),
			PricePerBlock: in.Float("price_per_block"),
			IncludeMortar: in.Bool("include_mortar"),
		}), nil
	},
	"block-fill": func(in Inputs) (any, error) {
		return BlockFill(BlockFillInput{
			Units:          parseUnitSystem(in.String("unit_system", ""), Metric),
			WallHeight:     in.Float("wall_height"),
			WallWidth:      in.Float("wall_width"),
			BlockHeight:    in.Float("block_height"),
			BlockWidth:     in.Float("block_width"),
			BlockThickness: in.Float("block_thickness"),
			ShellThickness: in.Float("shell_thickness"),
			WebThickness:   in.Float("web_thickness"),
			NumberOfWebs:   in.Float("number_of_webs"),
			WastagePercent: in.Float("wastage_percent"),
		}), nil
	},
	"cement": func(in Inputs) (any, error) {
		return Cement(CementInput{
			Units:                parseUnitSystem(in.String("unit_system", ""), Metric),
			Grade:                MixGrade(in.String("grade", "M20")),
			Volume:               in.Float("volume"),
			Length:               in.Float("length"),
			Width:                in.Float("width"),
			Thickness:            in.Float("thickness"),
			WastagePercent:       in.Float("wastage_percent"),
			DryVolumeMultiplier:  in.Float("dry_volume_multiplier"),
			WaterCementRatio:     in.Float("water_cement_ratio"),
			CementCostPerBag:     in.Float("cement_cost_per_bag"),
			SandCostPerUnit:      in.Float("sand_cost_per_unit"),
			AggregateCostPerUnit: in.Float("aggregate_cost_per_unit"),
		}), nil
	},
	"slab": func(in Inputs) (any, error) {
		return Slab(SlabInput{
			Length:       in.Float("length"),
			Width:        in.Float("width"),
			Height:       in.Float("height"),
			LengthUnit:   in.String("length_unit", "ft"),
			Quantity:     in.FloatOr("quantity", 1),
			Density:      in.FloatOr("density", 150),
			DensityUnit:  in.String("density_unit", "lb/ft3"),
			BagSize:      in.FloatOr("bag_size", 80),
			BagUnit:      in.String("bag_unit", "lb"),
			WastePercent: in.Float("waste_percent"),
			CostPerBag:   in.Float("cost_per_bag"),
		}), nil
	},
	"column": func(in Inputs) (any, error) {
		return Column(ColumnInput{
			Units:          parseUnitSystem(in.String("unit_system", ""), Metric),
			Shape:          in.String("shape", "rectangular"),
			Diameter:       in.Float("diameter"),
			Width:          in.Float("width"),
			Depth:          in.Float("depth"),
			Height:         in.Float("height"),
			Quantity:       in.FloatOr("quantity", 1),
			Density:        in.Float("density"),
			MixCement:      in.Float("mix_cement"),
			MixSand:        in.Float("mix_sand"),
			MixAggregate:   in.Float("mix_aggregate"),
			BagWeight:      in.Float("bag_weight"),
			WastagePercent: in.Float("wastage_percent"),
			CostPerBag:     in.Float("cost_per_bag"),
		}), nil
	},
	"driveway": func(in Inputs) (any, error) {
		return Driveway(DrivewayInput{
			Units:         parseUnitSystem(in.String("unit_system", ""), Metric),
			Length:        in.Float("length"),
			Width:         in.Float("width"),
			ConcreteDepth: in.Float("concrete_depth"),
			GravelDepth:   in.Float("gravel_depth"),
			Advanced:      in.Bool("advanced"),
			RebarSpacing:  in.Float("rebar_spacing"),
			RebarLength:   in.Float("rebar_length"),
			ConcretePrice: in.Float("concrete_price"),
			GravelPrice:   in.Float("gravel_price"),
			RebarPrice:    in.Float("rebar_price"),
			FormworkPrice: in.Float("formwork_price"),
		}), nil
	},
	"grout": func(in Inputs) (any, error) {
		return Grout(GroutInput{
			Units:              parseUnitSystem(in.String("unit_system", ""), Metric),
			AreaLength:         in.Float("area_length"),
			AreaWidth:          in.Float("area_width"),
			TileLength:         in.Float("tile_length"),
			TileWidth:          in.Float("tile_width"),
			GapWidth:           in.Float("gap_width"),
			GapDepth:           in.Float("gap_depth"),
			IncludeMaterial:    in.Bool("include_material"),
			Density:            in.Float("density"),
			BagSize:            in.Float("bag_size"),
			DryMaterialPercent: in.Float("dry_material_percent"),
		}), nil
	},
	"mortar": func(in Inputs) (any, error) {
		return Mortar(MortarInput{
			Units:         parseUnitSystem(in.String("unit_system", ""), Imperial),
			NumberOfUnits: in.Float("number_of_units"),
			UnitType:      MortarUnit(in.String("unit_type", string(ModularBricks))),
			BagSize:       MortarBag(in.String("bag_size", string(Bag80Lb))),
			IncludeBuffer: in.Bool("include_buffer"),
			BufferPercent: in.Float("buffer_percent"),
			PricePerBag:   in.Float("price_per_bag"),
		}), nil
	},
	"thinset": func(in Inputs) (any, error) {
		return Thinset(ThinsetInput{
			Units:              parseUnitSystem(in.String("unit_system", ""), Metric),
			AreaLength:         in.Float("area_length"),
			AreaWidth:          in.Float("area_width"),
			TileSize:           in.String("tile_size", "12x12"),
			CustomThickness:    in.Float("custom_thickness"),
			WastagePercent:     in.Float("wastage_percent"),
			Density:            in.Float("density"),
			DryMaterialPercent: in.Float("dry_material_percent"),
			BagWeight:          in.Float("bag_weight"),
			CostPerBag:         in.Float("cost_per_bag"),
		}), nil
	},
	"board-foot": func(in Inputs) (any, error) {
		return BoardFoot(BoardFootInput{
			Units:             parseUnitSystem(in.String("unit_system", ""), Imperial),
			Thickness:         in.Float("thickness"),
			Width:             in.Float("width"),
			Length:            in.Float("length"),
			Quantity:          in.FloatOr("quantity", 1),
			WastagePercent:    in.Float("wastage_percent"),
			PricePerBoardFoot: in.Float("price_per_board_foot"),
		}), nil
	},
	"stairs": func(in Inputs) (any, error) {
		return Stairs(StairsInput{
			Units:          parseUnitSystem(in.String("unit_system", ""), Metric),
			Steps:          in.Float("steps"),
			RiserRise:      in.Float("riser_rise"),
			TreadRun:       in.Float("tread_run"),
			NosingDepth:    in.Float("nosing_depth"),
			ThroatDepth:    in.Float("throat_depth"),
			StairWidth:     in.Float("stair_width"),
			AngledRisers:   in.Bool("angled_risers"),
			WastagePercent: in.Float("wastage_percent"),
			CostPerUnit:    in.Float("cost_per_unit"),
		}), nil
	},
	"concrete-type-weight": func(in Inputs) (any, error) {
		return TypeWeight(TypeWeightInput{
			Units:         parseUnitSystem(in.String("unit_system", ""), Metric),
			Type:          ConcreteType(in.String("type", "portland")),
			CustomDensity: in.Float("custom_density"),
			Volume:        in.Float("volume"),
			VolumeUnit:    in.String("volume_unit", ""),
		}), nil
	},
	"shape-volume": func(in Inputs) (any, error) {
		return ShapeVolume(ShapeVolumeInput{
			Shape:        Shape(in.String("shape", string(ShapeRectangular))),
			LengthUnit:   in.String("length_unit", "ft"),
			VolumeUnit:   in.String("volume_unit", "yd3"),
			Length:       in.Float("length"),
			Width:        in.Float("width"),
			Depth:        in.Float("depth"),
			Side:         in.Float("side"),
			Radius:       in.Float("radius"),
			Diameter:     in.Float("diameter"),
			Height:       in.Float("height"),
			OuterLength:  in.Float("outer_length"),
			OuterWidth:   in.Float("outer_width"),
			OuterHeight:  in.Float("outer_height"),
			InnerLength:  in.Float("inner_length"),
			InnerWidth:   in.Float("inner_width"),
			InnerHeight:  in.Float("inner_height"),
			OuterRadius:  in.Float("outer_radius"),
			InnerRadius:  in.Float("inner_radius"),
			BaseSide:     in.Float("base_side"),
			CustomVolume: in.Float("custom_volume"),
			PricePerUnit: in.Float("price_per_unit"),
		})
	},
	"gallons-per-sqft": func(in Inputs) (any, error) {
		return GallonsPerSqFt(GallonsInput{
			Mode:       in.String("mode", "area-to-gallons"),
			Area:       in.Float("area"),
			AreaUnit:   in.String("area_unit", "sqft"),
			Height:     in.Float("height"),
			HeightUnit: in.String("height_unit", "in"),
			Volume:     in.Float("volume"),
			VolumeUnit: in.String("volume_unit", "usgal"),
		}), nil
	},
	"hole-volume": func(in Inputs) (any, error) {
		return HoleVolume(HoleVolumeInput{
			Units:          parseUnitSystem(in.String("unit_system", ""), Imperial),
			Diameter:       in.Float("diameter"),
			Depth:          in.Float("depth"),
			Holes:          in.FloatOr("holes", 1),
			BagYield:       in.Float("bag_yield"),
			WastagePercent: in.Float("wastage_percent"),
		}), nil
	},
	"steel-weight": func(in Inputs) (any, error) {
		return SteelWeight(SteelWeightInput{
			DiameterMM: in.Float("diameter_mm"),
			LengthM:    in.Float("length_m"),
			Bars:       in.FloatOr("bars", 1),
			PricePerKg: in.Float("price_per_kg"),
		}), nil
	},
	"cement-bags": func(in Inputs) (any, error) {
		return CementBags(CementBagsInput{
			Mode:      in.String("mode", "weight"),
			Value:     in.Float("value"),
			BagWeight: in.Float("bag_weight_kg"),
			Density:   in.Float("density_kg_m3"),
		}), nil
	},
	"vastu": func(in Inputs) (any, error) {
		v := DefaultVastuInput()
		v.PropertyType = in.String("property_type", v.PropertyType)
		dirs := []struct {
			key string
			dst *Direction
		}{
			{"facing", &v.Facing},
			{"entry", &v.Entry},
			{"kitchen", &v.Kitchen},
			{"bedroom", &v.Bedroom},
			{"bathroom", &v.Bathroom},
			{"pooja", &v.Pooja},
			{"staircase", &v.Staircase},
			{"water_source", &v.WaterSource},
		}
		for _, d := range dirs {
			raw := in.String(d.key, "")
			if raw == "" {
				continue
			}
			dir, ok := ParseDirection(raw)
			if !ok {
				return nil, fmt.Errorf("%s: unknown direction %q", d.key, raw)
			}
			*d.dst = dir
		}
		return Vastu(v), nil
	},
}

// Names lists the registered calculators in lexical order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Run dispatches to the named calculator.
func Run(name string, in Inputs) (any, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCalculator, name)
	}
	if in == nil {
		in = Inputs{}
	}
	return fn(in)
}
