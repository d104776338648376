package engine

import (
	"strconv"

	"github.com/DaanHessen/humanos-tui/internal/domain"
	"google.golang.org/genai"
)

// FieldType is the JSON type of a schema field.
type FieldType int

const (
	TypeString FieldType = iota
	TypeNumber
	TypeObject
	TypeArray
)

// Field describes one node of the expected response. The same description is
// sent to the service as the response schema and used to validate the reply.
type Field struct {
	Name       string
	Type       FieldType
	Required   bool
	Min, Max   *float64
	Properties []Field
	Items      *Field
}

func bound(v float64) *float64 { return &v }

func indexField(name string) Field {
	return Field{Name: name, Type: TypeNumber, Required: true, Min: bound(0), Max: bound(100)}
}

func outcomeField(name string) Field {
	return Field{Name: name, Type: TypeObject, Required: true, Properties: []Field{
		{Name: "title", Type: TypeString, Required: true},
		indexField("skillGrowth"),
		indexField("valueAlignment"),
		indexField("futureOptionality"),
		indexField("frictionIndicator"),
		{Name: "narrativeSnapshot", Type: TypeString, Required: true},
	}}
}

// ResultSchema is the contract for domain.Result. Trade-off values are
// nominally 0-100 but not range checked.
var ResultSchema = Field{Type: TypeObject, Properties: []Field{
	outcomeField("scenarioA"),
	outcomeField("scenarioB"),
	outcomeField("scenarioC"),
	{Name: "tradeOffs", Type: TypeArray, Required: true, Items: &Field{Type: TypeObject, Properties: []Field{
		{Name: "label", Type: TypeString, Required: true},
		{Name: "pathAValue", Type: TypeNumber, Required: true},
		{Name: "pathBValue", Type: TypeNumber, Required: true},
		{Name: "pathCValue", Type: TypeNumber, Required: true},
	}}},
	{Name: "comparativeAnalysis", Type: TypeString, Required: true},
}}

// GenAI renders the field as a Gemini response schema.
func (f Field) GenAI() *genai.Schema {
	s := &genai.Schema{}
	switch f.Type {
	case TypeString:
		s.Type = genai.TypeString
	case TypeNumber:
		s.Type = genai.TypeNumber
		s.Minimum = f.Min
		s.Maximum = f.Max
	case TypeArray:
		s.Type = genai.TypeArray
		if f.Items != nil {
			s.Items = f.Items.GenAI()
		}
	case TypeObject:
		s.Type = genai.TypeObject
		s.Properties = make(map[string]*genai.Schema, len(f.Properties))
		for _, p := range f.Properties {
			s.Properties[p.Name] = p.GenAI()
			if p.Required {
				s.Required = append(s.Required, p.Name)
			}
		}
	}
	return s
}

// Validate checks a decoded JSON value (as produced by encoding/json into
// an any) against the field. The returned error is a schema SimulationError.
func (f Field) Validate(v any) error {
	return f.validate(v, "$")
}

func (f Field) validate(v any, path string) error {
	switch f.Type {
	case TypeString:
		if _, ok := v.(string); !ok {
			return domain.NewSchemaError("%s must be a string", path)
		}
	case TypeNumber:
		n, ok := v.(float64)
		if !ok {
			return domain.NewSchemaError("%s must be a number", path)
		}
		if (f.Min != nil && n < *f.Min) || (f.Max != nil && n > *f.Max) {
			return domain.NewSchemaError("%s = %v is outside [%v,%v]", path, n, deref(f.Min), deref(f.Max))
		}
	case TypeArray:
		items, ok := v.([]any)
		if !ok {
			return domain.NewSchemaError("%s must be an array", path)
		}
		if f.Items == nil {
			return nil
		}
		for i, item := range items {
			if err := f.Items.validate(item, indexPath(path, i)); err != nil {
				return err
			}
		}
	case TypeObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return domain.NewSchemaError("%s must be an object", path)
		}
		for _, p := range f.Properties {
			child, present := obj[p.Name]
			if !present || child == nil {
				if p.Required {
					return domain.NewSchemaError("%s.%s is required", path, p.Name)
				}
				continue
			}
			if err := p.validate(child, path+"."+p.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func deref(p *float64) any {
	if p == nil {
		return "-"
	}
	return *p
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
