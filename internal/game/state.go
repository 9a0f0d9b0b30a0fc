/*
Package game
File: state.go
Description:
    Loading and validating game definitions.
    Uploaded and on-disk definitions pass through ParseDefinition, which decodes
    YAML (any JSON document is also valid YAML), checks the document against
    the definition schemas (schema.go) and then checks cross references between
    items, planets and starships. The core trusts a validated definition and
    does not re-check it.
*/

package game

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

const (
	// MaxItems caps the size of the item catalog.
	MaxItems = 20

	// MapSize is the upper bound of both planet coordinates.
	MapSize = 100
)

// LoadDefinition reads and validates a definition file.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	return ParseDefinition(data)
}

// ParseDefinition decodes a YAML or JSON document and validates it.
// Every problem found is reported at once; missing fields are never
// defaulted to zero.
func ParseDefinition(data []byte) (*Definition, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, invalidDefinition([]string{"malformed document: " + err.Error()})
	}
	problems := checkDocument(normalize(doc))

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var def Definition
	if err := dec.Decode(&def); err != nil {
		if len(problems) == 0 {
			problems = append(problems, "malformed document: "+err.Error())
		}
		return nil, invalidDefinition(problems)
	}

	problems = append(problems, def.crossCheck()...)
	if len(problems) > 0 {
		return nil, invalidDefinition(problems)
	}
	return &def, nil
}

// Validate checks a definition built in code and reports every problem found at once.
func (d *Definition) Validate() error {
	problems := checkDocument(d.document())
	problems = append(problems, d.crossCheck()...)
	if len(problems) > 0 {
		return invalidDefinition(problems)
	}
	return nil
}

// document renders d the way a decoded file looks, with nil collections empty.
func (d *Definition) document() any {
	c := *d
	if c.Items == nil {
		c.Items = []string{}
	}
	c.Planets = make(map[string]PlanetDef, len(d.Planets))
	for name, p := range d.Planets {
		if p.AvailableItems == nil {
			p.AvailableItems = map[string]StockDef{}
		}
		c.Planets[name] = p
	}
	if c.Starships == nil {
		c.Starships = map[string]StarshipDef{}
	}

	data, err := json.Marshal(c)
	if err != nil {
		return nil
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	return doc
}

// crossCheck reports problems between entities that no schema can express.
func (d *Definition) crossCheck() []string {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	items := make(map[string]bool, len(d.Items))
	for _, item := range d.Items {
		if items[item] {
			add("duplicate item %s", item)
		}
		items[item] = true
	}

	taken := make(map[[2]int]string, len(d.Planets))
	for _, name := range sortedKeys(d.Planets) {
		p := d.Planets[name]
		if name == "" {
			add("planet name cannot be empty")
		}
		pos := [2]int{p.X, p.Y}
		if other, ok := taken[pos]; ok {
			add("planets %s and %s occupy the same slot", other, name)
		} else {
			taken[pos] = name
		}
		for _, item := range sortedKeys(p.AvailableItems) {
			if !items[item] {
				add("planet %s: no such item %s", name, item)
			}
		}
	}

	for _, name := range sortedKeys(d.Starships) {
		s := d.Starships[name]
		if name == "" {
			add("starship name cannot be empty")
		}
		if s.Position == "" {
			continue // reported by the schema
		}
		if _, ok := d.Planets[s.Position]; !ok {
			add("starship %s: no such planet %s", name, s.Position)
		}
	}
	return problems
}

func invalidDefinition(problems []string) *Error {
	return &Error{
		Code:     CodeInvalidDefinition,
		Message:  ErrInvalidDefinition.Message,
		Problems: problems,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
