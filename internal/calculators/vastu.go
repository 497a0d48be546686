package calculators

import (
	"fmt"
	"math"
	"strings"
)

// Direction is one of the eight compass points.
type Direction string

const (
	North     Direction = "North"
	South     Direction = "South"
	East      Direction = "East"
	West      Direction = "West"
	NorthEast Direction = "North-East"
	NorthWest Direction = "North-West"
	SouthEast Direction = "South-East"
	SouthWest Direction = "South-West"
)

// ParseDirection accepts full names ("north-east") and abbreviations ("NE").
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(s), "-", ""), " ", "")) {
	case "N", "NORTH":
		return North, true
	case "S", "SOUTH":
		return South, true
	case "E", "EAST":
		return East, true
	case "W", "WEST":
		return West, true
	case "NE", "NORTHEAST":
		return NorthEast, true
	case "NW", "NORTHWEST":
		return NorthWest, true
	case "SE", "SOUTHEAST":
		return SouthEast, true
	case "SW", "SOUTHWEST":
		return SouthWest, true
	}
	return "", false
}

type VastuInput struct {
	PropertyType string    `json:"property_type"`
	Facing       Direction `json:"facing"`
	Entry        Direction `json:"entry"`
	Kitchen      Direction `json:"kitchen"`
	Bedroom      Direction `json:"bedroom"`
	Bathroom     Direction `json:"bathroom"`
	Pooja        Direction `json:"pooja"`
	Staircase    Direction `json:"staircase"`
	WaterSource  Direction `json:"water_source"`
}

// DefaultVastuInput is the layout a blank form starts from.
func DefaultVastuInput() VastuInput {
	return VastuInput{
		PropertyType: "Home",
		Facing:       North,
		Entry:        NorthEast,
		Kitchen:      SouthEast,
		Bedroom:      SouthWest,
		Bathroom:     NorthWest,
		Pooja:        NorthEast,
		Staircase:    South,
		WaterSource:  NorthEast,
	}
}

type VastuResult struct {
	Score            int      `json:"score"`
	Label            string   `json:"label"`
	FacingScore      int      `json:"facing_score"`
	EntryScore       int      `json:"entry_score"`
	KitchenScore     int      `json:"kitchen_score"`
	BedroomScore     int      `json:"bedroom_score"`
	BathroomScore    int      `json:"bathroom_score"`
	PoojaScore       int      `json:"pooja_score"`
	StaircaseScore   int      `json:"staircase_score"`
	WaterSourceScore int      `json:"water_source_score"`
	Remedies         []string `json:"remedies"`
	Tips             []string `json:"tips"`
}

// Maximum points per placement. They sum to 100.
const (
	vastuFacingMax    = 15
	vastuEntryMax     = 20
	vastuKitchenMax   = 15
	vastuBedroomMax   = 12
	vastuBathroomMax  = 12
	vastuPoojaMax     = 10
	vastuStaircaseMax = 8
	vastuWaterMax     = 8
)

func isOneOf(d Direction, set ...Direction) bool {
	for _, s := range set {
		if d == s {
			return true
		}
	}
	return false
}

// Vastu scores a floor plan's room placements against traditional
// directional guidance and suggests remedies for weak placements.
func Vastu(in VastuInput) VastuResult {
	var res VastuResult
	res.Remedies = []string{}
	res.Tips = []string{}
	tip := func(s string) { res.Tips = append(res.Tips, s) }
	remedy := func(s string) { res.Remedies = append(res.Remedies, s) }

	switch {
	case isOneOf(in.Facing, East, North):
		res.FacingScore = 15
	case in.Facing == NorthEast:
		res.FacingScore = 14
	case in.Facing == West:
		res.FacingScore = 10
	case in.Facing == South:
		res.FacingScore = 8
	default:
		res.FacingScore = 12
	}

	switch {
	case isOneOf(in.Entry, NorthEast, North, East):
		res.EntryScore = 20
		tip("Excellent entry placement! Positive energy flows freely.")
	case in.Entry == West:
		res.EntryScore = 14
		tip("West entry is acceptable but could be improved.")
	case isOneOf(in.Entry, South, SouthWest):
		res.EntryScore = 8
		remedy(fmt.Sprintf("Entry in %s - Place a Vaastu pyramid or bright light at entrance. Use yellow/white paint.", in.Entry))
	default:
		res.EntryScore = 16
	}

	switch {
	case in.Kitchen == SouthEast:
		res.KitchenScore = 15
		tip("Kitchen in SE - Perfect placement as per Agni (fire) direction.")
	case in.Kitchen == NorthWest:
		res.KitchenScore = 10
		remedy("Kitchen in NW - Acceptable, but SE would be ideal. Use yellow/orange colors.")
	case isOneOf(in.Kitchen, North, NorthEast):
		res.KitchenScore = 3
		remedy(fmt.Sprintf("Kitchen in %s - Not ideal. Place Vaastu salt bowl, use light colors, relocate if possible.", in.Kitchen))
	default:
		res.KitchenScore = 8
		remedy(fmt.Sprintf("Kitchen in %s - Consider relocating to South-East for better energy.", in.Kitchen))
	}

	switch {
	case in.Bedroom == SouthWest:
		res.BedroomScore = 12
		tip("Master Bedroom in SW - Ideal placement for stability and rest.")
	case isOneOf(in.Bedroom, South, West):
		res.BedroomScore = 10
		tip(fmt.Sprintf("Master Bedroom in %s - Good placement.", in.Bedroom))
	case in.Bedroom == NorthEast:
		res.BedroomScore = 4
		remedy("Master Bedroom in NE - Not recommended. Use earthy colors, keep heavy furniture in SW corner.")
	default:
		res.BedroomScore = 7
	}

	switch {
	case isOneOf(in.Bathroom, NorthWest, West):
		res.BathroomScore = 12
		tip(fmt.Sprintf("Bathroom in %s - Good placement.", in.Bathroom))
	case in.Bathroom == NorthEast:
		res.BathroomScore = 2
		remedy("Bathroom in NE - Problematic. Place Vaastu salt bowl, use light yellow paint, keep well-lit and ventilated.")
	case in.Bathroom == SouthWest:
		res.BathroomScore = 4
		remedy("Bathroom in SW - Not ideal. Keep the toilet seat lid closed, use light colors.")
	default:
		res.BathroomScore = 8
	}

	switch {
	case in.Pooja == NorthEast:
		res.PoojaScore = 10
		tip("Pooja Room in NE - Perfect placement for spiritual practices.")
	case isOneOf(in.Pooja, North, East):
		res.PoojaScore = 8
		tip(fmt.Sprintf("Pooja Room in %s - Good placement.", in.Pooja))
	case isOneOf(in.Pooja, SouthWest, South):
		res.PoojaScore = 3
		remedy(fmt.Sprintf("Pooja Room in %s - Not ideal. Place idols facing East/North, use white/yellow colors.", in.Pooja))
	default:
		res.PoojaScore = 6
	}

	switch {
	case isOneOf(in.Staircase, South, West, SouthWest):
		res.StaircaseScore = 8
		tip(fmt.Sprintf("Staircase in %s - Good placement.", in.Staircase))
	case in.Staircase == NorthEast:
		res.StaircaseScore = 2
		remedy("Staircase in NE - Not recommended. Keep the area under stairs empty and well-lit.")
	default:
		res.StaircaseScore = 6
	}

	switch {
	case in.WaterSource == NorthEast:
		res.WaterSourceScore = 8
		tip("Water source in NE - Ideal placement as per Vaastu.")
	case in.WaterSource == North:
		res.WaterSourceScore = 7
		tip("Water source in North - Good placement.")
	case isOneOf(in.WaterSource, SouthWest, South):
		res.WaterSourceScore = 2
		remedy(fmt.Sprintf("Water source in %s - Not ideal. Ensure proper drainage, consider relocation.", in.WaterSource))
	default:
		res.WaterSourceScore = 5
	}

	tip("Keep your North-East area clutter-free and well-lit for positive energy flow.")
	tip("Place heavy furniture and storage in the South-West direction for stability.")

	total := res.FacingScore + res.EntryScore + res.KitchenScore + res.BedroomScore +
		res.BathroomScore + res.PoojaScore + res.StaircaseScore + res.WaterSourceScore
	max := vastuFacingMax + vastuEntryMax + vastuKitchenMax + vastuBedroomMax +
		vastuBathroomMax + vastuPoojaMax + vastuStaircaseMax + vastuWaterMax

	res.Score = int(math.Round(float64(total) / float64(max) * 100))
	res.Label = VastuLabel(res.Score)
	return res
}

// VastuLabel buckets a percentage score.
func VastuLabel(score int) string {
	switch {
	case score >= 85:
		return "Excellent - Very Good Vaastu Compliance"
	case score >= 70:
		return "Good - Minor Improvements Possible"
	case score >= 50:
		return "Average - Several Areas Need Attention"
	}
	return "Needs Improvement - Major Corrections Required"
}
