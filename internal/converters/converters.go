// Package converters converts measurements between units within a
// category. Every category routes through a base unit: a value is taken to
// the base and then out to the target unit.
package converters

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownUnit     = errors.New("unknown unit")
)

// Unit is one member of a category. ToBase and FromBase are inverses.
type Unit struct {
	Key   string `json:"key"`
	Label string `json:"label"`

	ToBase   func(float64) float64 `json:"-"`
	FromBase func(float64) float64 `json:"-"`
}

// Category groups units of the same dimension.
type Category struct {
	Name  string `json:"name"`
	Base  string `json:"base"`
	Units []Unit `json:"units"`
}

func (c Category) unit(key string) (Unit, bool) {
	for _, u := range c.Units {
		if u.Key == key {
			return u, true
		}
	}
	return Unit{}, false
}

// linear builds a unit worth factor base units.
func linear(key, label string, factor float64) Unit {
	return Unit{
		Key:      key,
		Label:    label,
		ToBase:   func(v float64) float64 { return v * factor },
		FromBase: func(v float64) float64 { return v / factor },
	}
}

// affine builds a unit where base = (v + offset) * scale.
func affine(key, label string, scale, offset float64) Unit {
	return Unit{
		Key:      key,
		Label:    label,
		ToBase:   func(v float64) float64 { return (v + offset) * scale },
		FromBase: func(v float64) float64 { return v/scale - offset },
	}
}

var byName = func() map[string]Category {
	m := make(map[string]Category, len(categories))
	for _, c := range categories {
		m[c.Name] = c
	}
	return m
}()

// Categories lists every category sorted by name.
func Categories() []Category {
	out := append([]Category(nil), categories...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func Lookup(name string) (Category, error) {
	c, ok := byName[name]
	if !ok {
		return Category{}, fmt.Errorf("%w: %s", ErrUnknownCategory, name)
	}
	return c, nil
}

// reciprocal builds a unit inversely proportional to the base, such as
// miles per gallon against liters per 100 km: base = k / v.
func reciprocal(key, label string, k float64) Unit {
	inv := func(v float64) float64 { return k / v }
	return Unit{Key: key, Label: label, ToBase: inv, FromBase: inv}
}

// Convert expresses value, measured in from, in the unit to. Results that
// are not finite (a flat slope as a 1:n ratio, or zero fuel use in mpg)
// come back as zero.
func Convert(category string, value float64, from, to string) (float64, error) {
	c, err := Lookup(category)
	if err != nil {
		return 0, err
	}
	src, ok := c.unit(from)
	if !ok {
		return 0, fmt.Errorf("%w: %s %q", ErrUnknownUnit, category, from)
	}
	dst, ok := c.unit(to)
	if !ok {
		return 0, fmt.Errorf("%w: %s %q", ErrUnknownUnit, category, to)
	}

	out := dst.FromBase(src.ToBase(value))
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, nil
	}
	return out, nil
}

// ConvertAll expresses value in every unit of the category.
func ConvertAll(category string, value float64, from string) (map[string]float64, error) {
	c, err := Lookup(category)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(c.Units))
	for _, u := range c.Units {
		v, err := Convert(category, value, from, u.Key)
		if err != nil {
			return nil, err
		}
		out[u.Key] = v
	}
	return out, nil
}
