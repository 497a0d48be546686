// Package catalog is the back-office ("Profile") CRUD over the user's
// products, properties, projects, requirements, professional profile,
// enquiries and reviews. Each table is described once by an Entity and
// served by one generic store and one set of handlers.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrValidation   = errors.New("validation failed")
	ErrNoFields     = errors.New("no fields to update")
	ErrUnknownTable = errors.New("unknown collection")
)

var validate = validator.New()

type Kind int

const (
	Text Kind = iota
	Number
	Integer
	Bool
	TextArray
	JSON
	Date
)

// placeholder renders parameter n with the cast the column needs.
func (k Kind) placeholder(n int) string {
	switch k {
	case TextArray:
		return fmt.Sprintf("$%d::text[]", n)
	case JSON:
		return fmt.Sprintf("$%d::jsonb", n)
	case Date:
		return fmt.Sprintf("$%d::text::date", n)
	}
	return fmt.Sprintf("$%d", n)
}

// Column is one client-writable column.
type Column struct {
	Name     string
	Kind     Kind
	Required bool
	// Rule is a validator tag applied to non-null values.
	Rule string
}

type Entity struct {
	Name  string
	Table string
	// Timestamped tables carry updated_at.
	Timestamped bool
	// HasStatus enables the ?status= list filter.
	HasStatus bool
	Columns   []Column
}

func (e *Entity) column(name string) (Column, bool) {
	for _, c := range e.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// prepare converts and validates a JSON object against the entity. On
// create every required column must be present.
func (e *Entity) prepare(fields map[string]any, create bool) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for name, raw := range fields {
		col, ok := e.column(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a field of %s", ErrValidation, name, e.Name)
		}
		v, err := col.convert(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %v", ErrValidation, name, err)
		}
		if col.Required && isBlank(v) {
			return nil, fmt.Errorf("%w: %s is required", ErrValidation, name)
		}
		if v != nil && col.Rule != "" {
			if err := validate.Var(v, col.Rule); err != nil {
				return nil, fmt.Errorf("%w: %s fails %q", ErrValidation, name, col.Rule)
			}
		}
		out[name] = v
	}

	if create {
		for _, col := range e.Columns {
			if _, ok := out[col.Name]; col.Required && !ok {
				return nil, fmt.Errorf("%w: %s is required", ErrValidation, col.Name)
			}
		}
	}
	return out, nil
}

func (c Column) convert(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch c.Kind {
	case Text, Date:
		s, ok := raw.(string)
		if !ok {
			return nil, errors.New("must be a string")
		}
		return strings.TrimSpace(s), nil
	case Number:
		f, ok := raw.(float64)
		if !ok {
			return nil, errors.New("must be a number")
		}
		return f, nil
	case Integer:
		f, ok := raw.(float64)
		if !ok || f != math.Trunc(f) {
			return nil, errors.New("must be a whole number")
		}
		return int64(f), nil
	case Bool:
		b, ok := raw.(bool)
		if !ok {
			return nil, errors.New("must be true or false")
		}
		return b, nil
	case TextArray:
		items, ok := raw.([]any)
		if !ok {
			return nil, errors.New("must be a list of strings")
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			s, ok := it.(string)
			if !ok {
				return nil, errors.New("must be a list of strings")
			}
			out = append(out, s)
		}
		return out, nil
	case JSON:
		b, err := json.Marshal(raw)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}
	return nil, fmt.Errorf("unsupported column kind %d", c.Kind)
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

var (
	Products = &Entity{
		Name: "products", Table: "products", Timestamped: true, HasStatus: true,
		Columns: []Column{
			{Name: "name", Kind: Text, Required: true, Rule: "max=200"},
			{Name: "category", Kind: Text, Rule: "max=100"},
			{Name: "description", Kind: Text},
			{Name: "price", Kind: Number, Rule: "gte=0"},
			{Name: "images", Kind: TextArray},
			{Name: "tags", Kind: TextArray},
			{Name: "specifications", Kind: JSON},
			{Name: "status", Kind: Text, Rule: "oneof=active draft archived"},
		},
	}

	Properties = &Entity{
		Name: "properties", Table: "properties", Timestamped: true, HasStatus: true,
		Columns: []Column{
			{Name: "title", Kind: Text, Required: true, Rule: "max=200"},
			{Name: "description", Kind: Text},
			{Name: "property_type", Kind: Text, Rule: "max=50"},
			{Name: "listing_type", Kind: Text, Rule: "max=50"},
			{Name: "location", Kind: Text},
			{Name: "price", Kind: Number, Rule: "gte=0"},
			{Name: "area_sqft", Kind: Number, Rule: "gte=0"},
			{Name: "bedrooms", Kind: Integer, Rule: "gte=0"},
			{Name: "bathrooms", Kind: Integer, Rule: "gte=0"},
			{Name: "images", Kind: TextArray},
			{Name: "tags", Kind: TextArray},
			{Name: "features", Kind: JSON},
			{Name: "status", Kind: Text, Rule: "oneof=active pending sold rented archived"},
		},
	}

	Projects = &Entity{
		Name: "projects", Table: "projects", Timestamped: true, HasStatus: true,
		Columns: []Column{
			{Name: "title", Kind: Text, Required: true, Rule: "max=200"},
			{Name: "description", Kind: Text},
			{Name: "client_name", Kind: Text},
			{Name: "location", Kind: Text},
			{Name: "project_cost", Kind: Number, Rule: "gte=0"},
			{Name: "start_date", Kind: Date, Rule: "datetime=2006-01-02"},
			{Name: "end_date", Kind: Date, Rule: "datetime=2006-01-02"},
			{Name: "images", Kind: TextArray},
			{Name: "tags", Kind: TextArray},
			{Name: "status", Kind: Text, Rule: "oneof=upcoming ongoing completed"},
		},
	}

	Requirements = &Entity{
		Name: "requirements", Table: "requirements", Timestamped: true, HasStatus: true,
		Columns: []Column{
			{Name: "item_description", Kind: Text, Required: true},
			{Name: "quantity", Kind: Number, Rule: "gte=0"},
			{Name: "location", Kind: Text},
			{Name: "specifications", Kind: Text},
			{Name: "timeline", Kind: Text},
			{Name: "status", Kind: Text, Rule: "oneof=active pending in_progress completed"},
		},
	}

	Professionals = &Entity{
		Name: "professionals", Table: "professionals", Timestamped: true,
		Columns: []Column{
			{Name: "specialization", Kind: Text, Required: true, Rule: "max=200"},
			{Name: "bio", Kind: Text},
			{Name: "rate", Kind: Number, Rule: "gte=0"},
			{Name: "pricing_type", Kind: Text, Rule: "max=50"},
			{Name: "completed_projects", Kind: Integer, Rule: "gte=0"},
			{Name: "skill_sets", Kind: TextArray},
			{Name: "portfolio_items", Kind: JSON},
			{Name: "profile_photo", Kind: Text},
			{Name: "company_logo", Kind: Text},
		},
	}

	Enquiries = &Entity{
		Name: "enquiries", Table: "enquiries", Timestamped: true, HasStatus: true,
		Columns: []Column{
			{Name: "sender_name", Kind: Text, Required: true, Rule: "max=200"},
			{Name: "sender_email", Kind: Text, Rule: "omitempty,email"},
			{Name: "sender_phone", Kind: Text, Rule: "max=50"},
			{Name: "message", Kind: Text},
			{Name: "enquiry_type", Kind: Text, Rule: "max=50"},
			{Name: "reference_id", Kind: Text},
			{Name: "status", Kind: Text, Rule: "oneof=new contacted closed"},
			{Name: "is_read", Kind: Bool},
		},
	}

	Reviews = &Entity{
		Name: "reviews", Table: "reviews",
		Columns: []Column{
			{Name: "customer_name", Kind: Text, Required: true, Rule: "max=200"},
			{Name: "rating", Kind: Integer, Rule: "min=1,max=5"},
			{Name: "comment", Kind: Text},
			{Name: "reply", Kind: Text},
			{Name: "is_featured", Kind: Bool},
			{Name: "is_verified", Kind: Bool},
		},
	}
)

var entities = map[string]*Entity{}

func init() {
	for _, e := range []*Entity{Products, Properties, Projects, Requirements, Professionals, Enquiries, Reviews} {
		entities[e.Name] = e
	}
}

// Lookup returns the entity served under name.
func Lookup(name string) (*Entity, error) {
	e, ok := entities[name]
	if !ok {
		return nil, ErrUnknownTable
	}
	return e, nil
}

// All returns every entity sorted by name.
func All() []*Entity {
	out := make([]*Entity, 0, len(entities))
	for _, e := range entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
