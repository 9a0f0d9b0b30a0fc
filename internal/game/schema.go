/*
Package game
File: schema.go
Description:
    JSON Schemas for the game-definition document.
    Each object kind of a definition (the document itself, a planet, a market
    entry, a starship) has a schema listing its fields, their types, bounds and
    which of them are required. checkDocument walks a decoded document and
    reports every missing, unknown or out-of-range field as its own problem;
    the per-field checks are delegated to the schema validator.

    Cross references (duplicate items, shared coordinates, unknown item or
    planet names) cannot be expressed in the schema and live in state.go.
*/

package game

import (
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// shape is one object kind of the definition document.
type shape struct {
	schema *jsonschema.Schema
	fields map[string]*jsonschema.Resolved // One resolved schema per property
}

var (
	documentShape = newShape(&jsonschema.Schema{
		Type:     "object",
		Required: []string{"initial_credits", "game_duration", "items", "planets", "starships"},
		Properties: map[string]*jsonschema.Schema{
			"initial_credits": {Type: "integer", Minimum: jsonschema.Ptr(0.0)},
			"game_duration":   {Type: "integer", Minimum: jsonschema.Ptr(1.0)},
			"items": {
				Type:     "array",
				Items:    &jsonschema.Schema{Type: "string", MinLength: jsonschema.Ptr(1)},
				MaxItems: jsonschema.Ptr(MaxItems),
			},
			"planets":   {Type: "object"},
			"starships": {Type: "object"},
		},
	})

	planetShape = newShape(&jsonschema.Schema{
		Type:     "object",
		Required: []string{"x", "y", "available_items"},
		Properties: map[string]*jsonschema.Schema{
			"x":               {Type: "integer", Minimum: jsonschema.Ptr(0.0), Maximum: jsonschema.Ptr(float64(MapSize))},
			"y":               {Type: "integer", Minimum: jsonschema.Ptr(0.0), Maximum: jsonschema.Ptr(float64(MapSize))},
			"available_items": {Type: "object"},
		},
	})

	stockShape = newShape(&jsonschema.Schema{
		Type:     "object",
		Required: []string{"available", "buy_price", "sell_price"},
		Properties: map[string]*jsonschema.Schema{
			"available":  {Type: "integer", Minimum: jsonschema.Ptr(0.0)},
			"buy_price":  {Type: "integer", Minimum: jsonschema.Ptr(0.0)},
			"sell_price": {Type: "integer", Minimum: jsonschema.Ptr(0.0)},
		},
	})

	starshipShape = newShape(&jsonschema.Schema{
		Type:     "object",
		Required: []string{"position", "cargo_hold_size"},
		Properties: map[string]*jsonschema.Schema{
			"position":        {Type: "string", MinLength: jsonschema.Ptr(1)},
			"cargo_hold_size": {Type: "integer", Minimum: jsonschema.Ptr(0.0)},
		},
	})
)

// newShape resolves every property schema once. The schemas are static, so a
// resolution failure is a programming error.
func newShape(s *jsonschema.Schema) *shape {
	sh := &shape{schema: s, fields: make(map[string]*jsonschema.Resolved, len(s.Properties))}
	for field, fs := range s.Properties {
		rs, err := fs.Resolve(nil)
		if err != nil {
			panic(fmt.Sprintf("definition schema field %s: %v", field, err))
		}
		sh.fields[field] = rs
	}
	return sh
}

// check reports the problems of one object and returns it as a map, or nil
// when value is not an object at all.
func (sh *shape) check(where string, value any, add func(string, ...any)) map[string]any {
	obj, ok := value.(map[string]any)
	if !ok {
		add("%s must be a mapping", where)
		return nil
	}
	for _, field := range sh.schema.Required {
		if _, ok := obj[field]; !ok {
			add("%s: missing required field %s", where, field)
		}
	}
	for _, field := range sortedKeys(obj) {
		rs, ok := sh.fields[field]
		if !ok {
			add("%s: unknown field %s", where, field)
			continue
		}
		if err := rs.Validate(obj[field]); err != nil {
			add("%s: %s: %s", where, field, rootCause(err))
		}
	}
	return obj
}

// checkDocument validates the structure of a decoded definition document.
func checkDocument(doc any) []string {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	root := documentShape.check("game", doc, add)
	if root == nil {
		return problems
	}
	if planets, ok := root["planets"].(map[string]any); ok {
		for _, name := range sortedKeys(planets) {
			where := "planet " + name
			planet := planetShape.check(where, planets[name], add)
			if planet == nil {
				continue
			}
			market, ok := planet["available_items"].(map[string]any)
			if !ok {
				continue
			}
			for _, item := range sortedKeys(market) {
				stockShape.check(where+": item "+item, market[item], add)
			}
		}
	}
	if starships, ok := root["starships"].(map[string]any); ok {
		for _, name := range sortedKeys(starships) {
			starshipShape.check("starship "+name, starships[name], add)
		}
	}
	return problems
}

// rootCause strips the validator's "validating <path>:" wrappers.
func rootCause(err error) error {
	for {
		inner := errors.Unwrap(err)
		if inner == nil {
			return err
		}
		err = inner
	}
}

// normalize turns YAML mappings with non-string keys into string-keyed maps so
// every object in the document has the same Go shape.
func normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for k, e := range v {
			v[k] = normalize(e)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		for i, e := range v {
			v[i] = normalize(e)
		}
		return v
	default:
		return value
	}
}
