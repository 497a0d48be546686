package converters

import (
	"math"
	"strconv"
)

var categories = []Category{
	{
		Name: "length", Base: "mm",
		Units: []Unit{
			linear("mm", "Millimeter", 1),
			linear("cm", "Centimeter", 10),
			linear("m", "Meter", 1000),
			linear("km", "Kilometer", 1e6),
			linear("in", "Inch", 25.4),
			linear("ft", "Foot", 304.8),
			linear("yd", "Yard", 914.4),
			linear("mi", "Mile", 1609344),
		},
	},
	{
		Name: "area", Base: "sqm",
		Units: []Unit{
			linear("sqm", "Square meter", 1),
			linear("sqft", "Square foot", 0.092903),
			linear("sqyd", "Square yard", 0.836127),
			linear("acre", "Acre", 4046.86),
			linear("hectare", "Hectare", 10000),
			linear("cent", "Cent", 40.4686),
		},
	},
	{
		Name: "volume", Base: "cum",
		Units: []Unit{
			linear("cum", "Cubic meter", 1),
			linear("cft", "Cubic foot", 0.0283168),
			linear("cuyd", "Cubic yard", 0.764555),
			linear("liter", "Liter", 0.001),
			linear("gallon", "US gallon", 0.00378541),
		},
	},
	{
		Name: "weight", Base: "kg",
		Units: []Unit{
			linear("kg", "Kilogram", 1),
			linear("g", "Gram", 0.001),
			linear("ton", "Metric ton", 1000),
			linear("lb", "Pound", 0.453592),
			linear("quintal", "Quintal", 100),
		},
	},
	{
		Name: "pressure", Base: "pa",
		Units: []Unit{
			linear("pa", "Pascal", 1),
			linear("kpa", "Kilopascal", 1000),
			linear("mpa", "Megapascal", 1e6),
			linear("bar", "Bar", 100000),
			linear("psi", "Pound per square inch", 6894.76),
			linear("kgcm2", "Kilogram per square centimeter", 98066.5),
			linear("atm", "Atmosphere", 101325),
		},
	},
	{
		Name: "energy", Base: "j",
		Units: []Unit{
			linear("j", "Joule", 1),
			linear("kj", "Kilojoule", 1000),
			linear("kwh", "Kilowatt-hour", 3600000),
			linear("btu", "British thermal unit", 1055.06),
			linear("cal", "Calorie", 4.184),
			linear("kcal", "Kilocalorie", 4184),
		},
	},
	{
		Name: "power", Base: "w",
		Units: []Unit{
			linear("w", "Watt", 1),
			linear("kw", "Kilowatt", 1000),
			linear("hp", "Horsepower", 745.7),
			linear("btuh", "BTU per hour", 0.293071),
			linear("ton", "Ton of refrigeration", 3516.85),
		},
	},
	{
		Name: "force", Base: "n",
		Units: []Unit{
			linear("n", "Newton", 1),
			linear("kn", "Kilonewton", 1000),
			linear("kgf", "Kilogram-force", 9.80665),
			linear("lbf", "Pound-force", 4.44822),
			linear("dyne", "Dyne", 0.00001),
		},
	},
	{
		Name: "density", Base: "kg_m3",
		Units: []Unit{
			linear("kg_m3", "Kilogram per cubic meter", 1),
			linear("lb_ft3", "Pound per cubic foot", 16.0185),
			linear("g_cm3", "Gram per cubic centimeter", 1000),
		},
	},
	{
		Name: "flow-rate", Base: "lpm",
		Units: []Unit{
			linear("lpm", "Liters per minute", 1),
			linear("lps", "Liters per second", 60),
			linear("m3hr", "Cubic meters per hour", 1000.0/60),
			linear("gpm", "US gallons per minute", 3.78541),
			linear("cfs", "Cubic feet per second", 1699.01),
		},
	},
	{
		Name: "speed", Base: "mps",
		Units: []Unit{
			linear("mps", "Meters per second", 1),
			linear("kmh", "Kilometers per hour", 1/3.6),
			linear("fps", "Feet per second", 0.3048),
			linear("mph", "Miles per hour", 0.44704),
		},
	},
	{
		Name: "time", Base: "hr",
		Units: []Unit{
			linear("min", "Minute", 1.0/60),
			linear("hr", "Hour", 1),
			linear("day", "Day", 24),
			linear("week", "Week", 168),
		},
	},
	{
		Name: "temperature", Base: "c",
		Units: []Unit{
			affine("c", "Celsius", 1, 0),
			affine("f", "Fahrenheit", 5.0/9, -32),
			affine("k", "Kelvin", 1, -273.15),
		},
	},
	{
		Name: "angle", Base: "deg",
		Units: []Unit{
			linear("deg", "Degree", 1),
			linear("rad", "Radian", 180/math.Pi),
			linear("grad", "Gradian", 0.9),
		},
	},
	{
		Name: "slope", Base: "deg",
		Units: []Unit{
			linear("deg", "Degrees", 1),
			{
				Key:      "percent",
				Label:    "Percent grade",
				ToBase:   func(v float64) float64 { return math.Atan(v/100) * 180 / math.Pi },
				FromBase: func(v float64) float64 { return math.Tan(v*math.Pi/180) * 100 },
			},
			// ratio is n in a 1:n rise to run.
			{
				Key:      "ratio",
				Label:    "Ratio (1:n)",
				ToBase:   func(v float64) float64 { return math.Atan(1/v) * 180 / math.Pi },
				FromBase: func(v float64) float64 { return 1 / math.Tan(v*math.Pi/180) },
			},
		},
	},
	{
		Name: "airflow", Base: "cfm",
		Units: []Unit{
			linear("cfm", "Cubic feet per minute", 1),
			linear("m3s", "Cubic meters per second", 2118.88),
			linear("m3hr", "Cubic meters per hour", 0.588578),
			linear("lps", "Liters per second", 2.11888),
		},
	},
	{
		Name: "current", Base: "a",
		Units: []Unit{
			linear("ua", "Microampere", 1e-6),
			linear("ma", "Milliampere", 1e-3),
			linear("a", "Ampere", 1),
			linear("ka", "Kiloampere", 1e3),
		},
	},
	{
		Name: "voltage", Base: "v",
		Units: []Unit{
			linear("mv", "Millivolt", 1e-3),
			linear("v", "Volt", 1),
			linear("kv", "Kilovolt", 1e3),
			linear("megav", "Megavolt", 1e6),
		},
	},
	{
		// Heights above mean sea level; msl is meters under another name.
		Name: "elevation", Base: "m",
		Units: []Unit{
			linear("m", "Meters", 1),
			linear("ft", "Feet", 0.3048),
			linear("msl", "Meters above MSL", 1),
		},
	},
	{
		Name: "fuel-consumption", Base: "l100km",
		Units: []Unit{
			linear("l100km", "Liters per 100 km", 1),
			reciprocal("mpg_us", "Miles per US gallon", 235.214583),
			reciprocal("mpg_uk", "Miles per imperial gallon", 282.481053),
			reciprocal("kml", "Kilometers per liter", 100),
		},
	},
	{
		Name: "water-usage", Base: "liter",
		Units: []Unit{
			linear("liter", "Liter", 1),
			linear("usgal", "US gallon", 3.78541),
			linear("ukgal", "Imperial gallon", 4.54609),
			linear("cum", "Cubic meter", 1000),
			linear("cft", "Cubic foot", 28.3168),
		},
	},
	{
		Name: "energy-consumption", Base: "kwh",
		Units: []Unit{
			linear("kwh", "Kilowatt-hour", 1),
			linear("mj", "Megajoule", 1/3.6),
			linear("btu", "British thermal unit", 1/3412.14),
			linear("kcal", "Kilocalorie", 1/859.845),
		},
	},
	{
		// trees is tree-years of uptake at 21.77 kg CO2 per tree per year.
		Name: "co2-emission", Base: "kg",
		Units: []Unit{
			linear("kg", "Kilograms CO2", 1),
			linear("ton", "Metric tons CO2", 1000),
			linear("trees", "Tree-years", 21.77),
		},
	},
	{
		// A drawing measurement at 1:n is n times the real size; the base is
		// full scale.
		Name: "scale", Base: "1:1",
		Units: scaleUnits(1, 5, 10, 20, 25, 50, 75, 100, 125, 200, 250, 500),
	},
	{
		// Price per unit of area, so a larger unit costs more.
		Name: "unit-cost", Base: "per_sqft",
		Units: []Unit{
			linear("per_sqft", "Per square foot", 1),
			linear("per_sqm", "Per square meter", 1/10.7639),
			linear("per_sqyd", "Per square yard", 1.0/9),
			linear("per_cent", "Per cent", 1/435.6),
			linear("per_acre", "Per acre", 1.0/43560),
		},
	},
}

func scaleUnits(ratios ...int) []Unit {
	out := make([]Unit, 0, len(ratios))
	for _, n := range ratios {
		key := "1:" + strconv.Itoa(n)
		out = append(out, linear(key, key, float64(n)))
	}
	return out
}
