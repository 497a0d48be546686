package converters

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var approx = cmpopts.EquateApprox(1e-9, 1e-12)

func TestConvert_KnownValues(t *testing.T) {
	tests := []struct {
		category, from, to string
		in, want           float64
	}{
		{"length", "ft", "m", 1, 0.3048},
		{"length", "in", "mm", 1, 25.4},
		{"area", "hectare", "sqm", 1, 10000},
		{"volume", "cum", "liter", 1, 1000},
		{"weight", "ton", "kg", 2, 2000},
		{"pressure", "atm", "kpa", 1, 101.325},
		{"energy", "kwh", "kj", 1, 3600},
		{"power", "kw", "w", 1.5, 1500},
		{"force", "kn", "n", 1, 1000},
		{"density", "g_cm3", "kg_m3", 1, 1000},
		{"flow-rate", "lps", "lpm", 1, 60},
		{"flow-rate", "m3hr", "lpm", 6, 100},
		{"speed", "kmh", "mps", 36, 10},
		{"time", "week", "day", 1, 7},
		{"temperature", "c", "f", 100, 212},
		{"temperature", "f", "c", 32, 0},
		{"temperature", "k", "c", 0, -273.15},
		{"angle", "rad", "deg", math.Pi, 180},
		{"slope", "deg", "percent", 45, 100},
		{"slope", "percent", "ratio", 50, 2},
		{"airflow", "m3s", "cfm", 1, 2118.88},
		{"airflow", "lps", "m3s", 1000, 1},
		{"current", "ma", "a", 250, 0.25},
		{"voltage", "kv", "v", 11, 11000},
		{"elevation", "ft", "msl", 1000, 304.8},
		{"fuel-consumption", "l100km", "mpg_us", 10, 23.5214583},
		{"fuel-consumption", "mpg_uk", "l100km", 40, 7.062026325},
		{"fuel-consumption", "kml", "l100km", 20, 5},
		{"water-usage", "cum", "liter", 1, 1000},
		{"water-usage", "ukgal", "liter", 1, 4.54609},
		{"energy-consumption", "kwh", "mj", 1, 3.6},
		{"co2-emission", "ton", "trees", 1, 1000 / 21.77},
		{"scale", "1:50", "1:1", 2, 100},
		{"scale", "1:1", "1:100", 500, 5},
		{"unit-cost", "per_sqft", "per_sqm", 10, 107.639},
		{"unit-cost", "per_acre", "per_sqft", 43560, 1},
	}
	for _, tt := range tests {
		t.Run(tt.category+"/"+tt.from+"->"+tt.to, func(t *testing.T) {
			got, err := Convert(tt.category, tt.in, tt.from, tt.to)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("Convert mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	for _, c := range Categories() {
		for _, a := range c.Units {
			for _, b := range c.Units {
				const in = 37.5
				mid, err := Convert(c.Name, in, a.Key, b.Key)
				require.NoError(t, err)
				back, err := Convert(c.Name, mid, b.Key, a.Key)
				require.NoError(t, err)
				if diff := cmp.Diff(in, back, approx); diff != "" {
					t.Errorf("%s %s->%s->%s (-want +got):\n%s", c.Name, a.Key, b.Key, a.Key, diff)
				}
			}
		}
	}
}

func TestConvert_Errors(t *testing.T) {
	_, err := Convert("luminosity", 1, "lux", "lux")
	assert.True(t, errors.Is(err, ErrUnknownCategory))

	_, err = Convert("length", 1, "parsec", "m")
	assert.True(t, errors.Is(err, ErrUnknownUnit))

	_, err = Convert("length", 1, "m", "parsec")
	assert.True(t, errors.Is(err, ErrUnknownUnit))
}

func TestConvert_FlatSlopeAsRatioIsZero(t *testing.T) {
	got, err := Convert("slope", 0, "deg", "ratio")
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestConvertAll(t *testing.T) {
	all, err := ConvertAll("weight", 1, "ton")
	require.NoError(t, err)

	want := map[string]float64{
		"kg":      1000,
		"g":       1e6,
		"ton":     1,
		"lb":      1000 / 0.453592,
		"quintal": 10,
	}
	if diff := cmp.Diff(want, all, approx); diff != "" {
		t.Errorf("ConvertAll mismatch (-want +got):\n%s", diff)
	}
}

func TestCategories_SortedAndComplete(t *testing.T) {
	names := make([]string, 0)
	for _, c := range Categories() {
		names = append(names, c.Name)
		_, ok := c.unit(c.Base)
		assert.True(t, ok, "base unit of %s must be a member", c.Name)
	}
	assert.IsIncreasing(t, names)
	assert.Len(t, names, 15)
}

func TestConvert_NonFiniteResultsReadAsZero(t *testing.T) {
	// A flat slope has no 1:n ratio.
	got, err := Convert("slope", 0, "deg", "ratio")
	require.NoError(t, err)
	assert.Zero(t, got)

	// A vertical slope is a 1:0 ratio, up to float noise.
	got, err = Convert("slope", 90, "deg", "ratio")
	require.NoError(t, err)
	assert.InDelta(t, 0, got, 1e-12)

	got, err = Convert("fuel-consumption", 0, "l100km", "mpg_us")
	require.NoError(t, err)
	assert.Zero(t, got)
}
