package calculators

// BrickInput describes a single-leaf brick wall. Metric inputs are in
// meters; imperial wall dimensions are in feet and brick/mortar in inches.
type BrickInput struct {
	Units            UnitSystem `json:"unit_system"`
	WallLength       float64    `json:"wall_length"`
	WallHeight       float64    `json:"wall_height"`
	BrickLength      float64    `json:"brick_length"`
	BrickHeight      float64    `json:"brick_height"`
	MortarThickness  float64    `json:"mortar_thickness"`
	WastagePercent   float64    `json:"wastage_percent"`
	BrickCostPer1000 float64    `json:"brick_cost_per_1000"`
	MortarCostPerBag float64    `json:"mortar_cost_per_bag"`
}

type BrickResult struct {
	// WallArea is m² for metric input and ft² for imperial input.
	WallArea          float64 `json:"wall_area"`
	BricksNeeded      int     `json:"bricks_needed"`
	BricksWithWastage int     `json:"bricks_with_wastage"`
	MortarVolume      float64 `json:"mortar_volume_m3"`
	MortarBags        int     `json:"mortar_bags"`
	BrickCost         float64 `json:"brick_cost"`
	MortarCost        float64 `json:"mortar_cost"`
	TotalCost         float64 `json:"total_cost"`
}

// Brick estimates bricks and mortar for a wall. Wastage is applied to the
// unrounded brick count, so 10 m × 2 m with 0.19 × 0.057 m bricks, 10 mm
// joints and 10 % wastage needs 1642 bricks.
func Brick(in BrickInput) BrickResult {
	wallL, wallH := in.WallLength, in.WallHeight
	brickL, brickH, mortar := in.BrickLength, in.BrickHeight, in.MortarThickness
	if in.Units == Imperial {
		wallL *= feetToMeters
		wallH *= feetToMeters
		brickL *= inchesToMeters
		brickH *= inchesToMeters
		mortar *= inchesToMeters
	}

	area := wallL * wallH
	unitArea := (brickL + mortar) * (brickH + mortar)
	raw := div(area, unitArea)

	mortarVolume := area * mortar * 1.2
	mortarBags := ceilCount(mortarVolume * 60)

	res := BrickResult{
		WallArea:          area,
		BricksNeeded:      ceilCount(raw),
		BricksWithWastage: ceilCount(withWastage(raw, in.WastagePercent)),
		MortarVolume:      mortarVolume,
		MortarBags:        mortarBags,
	}
	res.BrickCost = float64(res.BricksWithWastage) / 1000 * in.BrickCostPer1000
	res.MortarCost = float64(mortarBags) * in.MortarCostPerBag
	res.TotalCost = res.BrickCost + res.MortarCost

	if in.Units == Imperial {
		res.WallArea = area * sqMetersToSqFeet
	}
	return res
}

type ConcreteBlockInput struct {
	Units         UnitSystem `json:"unit_system"`
	WallHeight    float64    `json:"wall_height"`
	WallWidth     float64    `json:"wall_width"`
	BlockHeight   float64    `json:"block_height"`
	BlockWidth    float64    `json:"block_width"`
	PricePerBlock float64    `json:"price_per_block"`
	IncludeMortar bool       `json:"include_mortar"`
}

type ConcreteBlockResult struct {
	WallArea       float64 `json:"wall_area"`
	NumberOfBlocks int     `json:"number_of_blocks"`
	TotalBlockCost float64 `json:"total_block_cost"`
	MortarBags     int     `json:"mortar_bags"`
}

// ConcreteBlock counts face blocks for a wall. Roughly 33.3 blocks are
// laid per bag of mortar.
func ConcreteBlock(in ConcreteBlockInput) ConcreteBlockResult {
	wallH, wallW := in.WallHeight, in.WallWidth
	blockH, blockW := in.BlockHeight, in.BlockWidth
	if in.Units == Imperial {
		wallH *= feetToMeters
		wallW *= feetToMeters
		blockH *= inchesToMeters
		blockW *= inchesToMeters
	}

	area := wallH * wallW
	blocks := ceilCount(div(area, blockH*blockW))

	res := ConcreteBlockResult{
		WallArea:       area,
		NumberOfBlocks: blocks,
		TotalBlockCost: float64(blocks) * in.PricePerBlock,
	}
	if in.IncludeMortar {
		res.MortarBags = ceilCount(float64(blocks) / 33.3)
	}
	if in.Units == Imperial {
		res.WallArea = area * sqMetersToSqFeet
	}
	return res
}

type BlockFillInput struct {
	Units          UnitSystem `json:"unit_system"`
	WallHeight     float64    `json:"wall_height"`
	WallWidth      float64    `json:"wall_width"`
	BlockHeight    float64    `json:"block_height"`
	BlockWidth     float64    `json:"block_width"`
	BlockThickness float64    `json:"block_thickness"`
	ShellThickness float64    `json:"shell_thickness"`
	WebThickness   float64    `json:"web_thickness"`
	NumberOfWebs   float64    `json:"number_of_webs"`
	WastagePercent float64    `json:"wastage_percent"`
}

type BlockFillResult struct {
	WallArea              float64 `json:"wall_area"`
	NumberOfBlocks        int     `json:"number_of_blocks"`
	CoreVolumePerBlock    float64 `json:"core_volume_per_block"`
	FillVolumeBeforeWaste float64 `json:"fill_volume_before_waste"`
	FinalFillVolume       float64 `json:"final_fill_volume"`
}

// BlockFill estimates grout needed to fill hollow block cores. Volumes
// are m³ for metric input and ft³ for imperial input.
func BlockFill(in BlockFillInput) BlockFillResult {
	wallH, wallW := in.WallHeight, in.WallWidth
	bh, bw, bt := in.BlockHeight, in.BlockWidth, in.BlockThickness
	shell, web := in.ShellThickness, in.WebThickness
	if in.Units == Imperial {
		wallH *= feetToMeters
		wallW *= feetToMeters
		bh *= inchesToMeters
		bw *= inchesToMeters
		bt *= inchesToMeters
		shell *= inchesToMeters
		web *= inchesToMeters
	}

	area := wallH * wallW
	blocks := ceilCount(div(area, bh*bw))

	innerW := bw - 2*shell
	innerT := bt - 2*shell
	core := innerW*innerT*bh - in.NumberOfWebs*web*innerT*bh
	if core < 0 {
		core = 0
	}

	before := core * float64(blocks)
	res := BlockFillResult{
		WallArea:              area,
		NumberOfBlocks:        blocks,
		CoreVolumePerBlock:    core,
		FillVolumeBeforeWaste: before,
		FinalFillVolume:       withWastage(before, in.WastagePercent),
	}
	if in.Units == Imperial {
		res.WallArea *= sqMetersToSqFeet
		res.CoreVolumePerBlock *= cuMetersToCuFeet
		res.FillVolumeBeforeWaste *= cuMetersToCuFeet
		res.FinalFillVolume *= cuMetersToCuFeet
	}
	return res
}

// MortarUnit names a brick or block size in the mortar yield table.
type MortarUnit string

const (
	ModularBricks MortarUnit = "modular-bricks"
	QueenBricks   MortarUnit = "queen-bricks"
	KingBricks    MortarUnit = "king-bricks"
	UtilityBricks MortarUnit = "utility-bricks"
	Blocks4Inch   MortarUnit = "4-inch-blocks"
	Blocks6Inch   MortarUnit = "6-inch-blocks"
	Blocks8Inch   MortarUnit = "8-inch-blocks"
	Blocks10Inch  MortarUnit = "10-inch-blocks"
	Blocks12Inch  MortarUnit = "12-inch-blocks"
)

type MortarBag string

const (
	Bag80Lb   MortarBag = "80lb"
	Bag3000Lb MortarBag = "3000lb"
)

// yieldRange is how many units one bag lays.
type yieldRange struct{ Min, Max, Avg float64 }

var mortarYield = map[MortarUnit]map[MortarBag]yieldRange{
	ModularBricks: {Bag80Lb: {40, 45, 42.5}, Bag3000Lb: {1500, 1675, 1587.5}},
	QueenBricks:   {Bag80Lb: {34, 39, 36.5}, Bag3000Lb: {1275, 1450, 1362.5}},
	KingBricks:    {Bag80Lb: {28, 33, 30.5}, Bag3000Lb: {1050, 1225, 1137.5}},
	UtilityBricks: {Bag80Lb: {23, 28, 25.5}, Bag3000Lb: {850, 1050, 950}},
	Blocks4Inch:   {Bag80Lb: {15, 17, 16}, Bag3000Lb: {575, 650, 612.5}},
	Blocks6Inch:   {Bag80Lb: {12, 14, 13}, Bag3000Lb: {475, 525, 500}},
	Blocks8Inch:   {Bag80Lb: {11, 13, 12}, Bag3000Lb: {450, 500, 475}},
	Blocks10Inch:  {Bag80Lb: {11, 13, 12}, Bag3000Lb: {450, 500, 475}},
	Blocks12Inch:  {Bag80Lb: {10, 12, 11}, Bag3000Lb: {375, 425, 400}},
}

var mortarBagWeight = map[MortarBag]struct{ Lb, Kg float64 }{
	Bag80Lb:   {80, 36.29},
	Bag3000Lb: {3000, 1360.78},
}

type MortarInput struct {
	Units         UnitSystem `json:"unit_system"`
	NumberOfUnits float64    `json:"number_of_units"`
	UnitType      MortarUnit `json:"unit_type"`
	BagSize       MortarBag  `json:"bag_size"`
	IncludeBuffer bool       `json:"include_buffer"`
	BufferPercent float64    `json:"buffer_percent"`
	PricePerBag   float64    `json:"price_per_bag"`
}

type MortarResult struct {
	YieldPerBag    float64 `json:"yield_per_bag"`
	YieldMin       float64 `json:"yield_min"`
	YieldMax       float64 `json:"yield_max"`
	RawBags        float64 `json:"raw_bags"`
	RequiredBags   int     `json:"required_bags"`
	BagsWithBuffer int     `json:"bags_with_buffer"`
	BufferBags     int     `json:"buffer_bags"`
	// TotalWeight is lb for imperial and kg for metric.
	TotalWeight float64 `json:"total_weight"`
	TotalCost   float64 `json:"total_cost"`
}

// Mortar converts a unit count into premixed mortar bags. Unknown unit or
// bag types fall back to modular bricks and 80 lb bags.
func Mortar(in MortarInput) MortarResult {
	if in.NumberOfUnits <= 0 {
		return MortarResult{}
	}

	bag := in.BagSize
	if _, ok := mortarBagWeight[bag]; !ok {
		bag = Bag80Lb
	}
	table, ok := mortarYield[in.UnitType]
	if !ok {
		table = mortarYield[ModularBricks]
	}
	y := table[bag]

	buffer := in.BufferPercent
	if buffer == 0 {
		buffer = 10
	}

	raw := in.NumberOfUnits / y.Avg
	required := ceilCount(raw)
	withBuffer := required
	if in.IncludeBuffer {
		withBuffer = ceilCount(withWastage(float64(required), buffer))
	}

	w := mortarBagWeight[bag]
	weight := float64(withBuffer) * w.Lb
	if in.Units == Metric {
		weight = float64(withBuffer) * w.Kg
	}

	return MortarResult{
		YieldPerBag:    y.Avg,
		YieldMin:       y.Min,
		YieldMax:       y.Max,
		RawBags:        raw,
		RequiredBags:   required,
		BagsWithBuffer: withBuffer,
		BufferBags:     withBuffer - required,
		TotalWeight:    weight,
		TotalCost:      float64(withBuffer) * in.PricePerBag,
	}
}
