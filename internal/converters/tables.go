package converters

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrUnknownGauge    = errors.New("unknown gauge")
	ErrUnknownPipe     = errors.New("unknown nominal bore")
	ErrInvalidSchedule = errors.New("schedule must be 40 or 80")
	ErrPowerFactor     = errors.New("power factor must be in (0, 1]")
)

// Gauge is a standard steel sheet gauge.
type Gauge struct {
	Gauge       int     `json:"gauge"`
	ThicknessMM float64 `json:"thickness_mm"`
	ThicknessIn float64 `json:"thickness_in"`
}

var gauges = []Gauge{
	{10, 3.416, 0.1345},
	{12, 2.656, 0.1046},
	{14, 1.897, 0.0747},
	{16, 1.519, 0.0598},
	{18, 1.214, 0.0478},
	{20, 0.912, 0.0359},
	{22, 0.759, 0.0299},
	{24, 0.607, 0.0239},
	{26, 0.455, 0.0179},
}

func Gauges() []Gauge {
	return append([]Gauge(nil), gauges...)
}

func GaugeThickness(gauge int) (Gauge, error) {
	for _, g := range gauges {
		if g.Gauge == gauge {
			return g, nil
		}
	}
	return Gauge{}, fmt.Errorf("%w: %d", ErrUnknownGauge, gauge)
}

// NearestGauge returns the gauge whose thickness is closest to mm. Ties go
// to the thicker sheet.
func NearestGauge(mm float64) Gauge {
	best := gauges[0]
	for _, g := range gauges[1:] {
		if math.Abs(g.ThicknessMM-mm) < math.Abs(best.ThicknessMM-mm) {
			best = g
		}
	}
	return best
}

// Pipe is the dimensions of a steel pipe at one schedule, in millimeters.
type Pipe struct {
	NominalBoreMM   int     `json:"nominal_bore_mm"`
	NominalBoreIn   string  `json:"nominal_bore_in"`
	Schedule        int     `json:"schedule"`
	OutsideDiameter float64 `json:"outside_diameter_mm"`
	WallThickness   float64 `json:"wall_thickness_mm"`
	InsideDiameter  float64 `json:"inside_diameter_mm"`
}

type pipeSize struct {
	inches       string
	od           float64
	sch40, sch80 float64
}

var pipeSizes = map[int]pipeSize{
	15:  {"1/2", 21.3, 2.77, 3.73},
	20:  {"3/4", 26.7, 2.87, 3.91},
	25:  {"1", 33.4, 3.38, 4.55},
	32:  {"1-1/4", 42.2, 3.56, 4.85},
	40:  {"1-1/2", 48.3, 3.68, 5.08},
	50:  {"2", 60.3, 3.91, 5.54},
	65:  {"2-1/2", 73.0, 5.16, 7.01},
	80:  {"3", 88.9, 5.49, 7.62},
	100: {"4", 114.3, 6.02, 8.56},
}

// PipeBores lists the nominal bores in millimeters, smallest first.
func PipeBores() []int {
	out := make([]int, 0, len(pipeSizes))
	for nb := range pipeSizes {
		out = append(out, nb)
	}
	sort.Ints(out)
	return out
}

// PipeDimensions looks up a nominal bore (mm) at schedule 40 or 80.
func PipeDimensions(nominalBoreMM, schedule int) (Pipe, error) {
	p, ok := pipeSizes[nominalBoreMM]
	if !ok {
		return Pipe{}, fmt.Errorf("%w: %d", ErrUnknownPipe, nominalBoreMM)
	}
	var wall float64
	switch schedule {
	case 40:
		wall = p.sch40
	case 80:
		wall = p.sch80
	default:
		return Pipe{}, fmt.Errorf("%w: %d", ErrInvalidSchedule, schedule)
	}
	return Pipe{
		NominalBoreMM:   nominalBoreMM,
		NominalBoreIn:   p.inches,
		Schedule:        schedule,
		OutsideDiameter: p.od,
		WallThickness:   wall,
		InsideDiameter:  p.od - 2*wall,
	}, nil
}

// PowerTriangle relates real (kW), apparent (kVA) and reactive (kVAR)
// power at a power factor.
type PowerTriangle struct {
	PowerFactor float64 `json:"power_factor"`
	KW          float64 `json:"kw"`
	KVA         float64 `json:"kva"`
	KVAR        float64 `json:"kvar"`
}

// SolvePowerTriangle fills in the triangle from one known side, named by
// from ("kw", "kva" or "kvar"). A unity power factor has no reactive side,
// so it cannot be solved from kvar.
func SolvePowerTriangle(pf, value float64, from string) (PowerTriangle, error) {
	if !(pf > 0 && pf <= 1) {
		return PowerTriangle{}, fmt.Errorf("%w: %v", ErrPowerFactor, pf)
	}
	t := PowerTriangle{PowerFactor: pf}
	switch from {
	case "kw":
		t.KW = value
		t.KVA = value / pf
	case "kva":
		t.KVA = value
		t.KW = value * pf
	case "kvar":
		if pf == 1 {
			return PowerTriangle{}, fmt.Errorf("%w: kvar at unity power factor", ErrPowerFactor)
		}
		t.KVAR = value
		t.KW = value / math.Tan(math.Acos(pf))
		t.KVA = math.Hypot(t.KW, value)
		return t, nil
	default:
		return PowerTriangle{}, fmt.Errorf("%w: power %q", ErrUnknownUnit, from)
	}
	t.KVAR = math.Sqrt(math.Max(t.KVA*t.KVA-t.KW*t.KW, 0))
	return t, nil
}
