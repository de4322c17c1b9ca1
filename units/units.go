// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package units implements the simple units and measures system used by the
// recipe compiler and linter.
//
// The system is deliberately much less sophisticated than a full units
// library: it only knows how to convert between units explicitly declared as
// related, which makes it easy to extend with 'dubious' measures (cans,
// cloves and so on) without inheriting a whole physical dimension model.
package units

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/recipegrid/recipegrid/number"
)

// Definition defines a derived unit as a quantity of another unit in the
// same related set, e.g. 1 kg = 1000 g.
type Definition struct {
	Quantity number.Number
	Unit     string
}

// Unit is a unit of measurement with one or more names. The first name is
// the canonical one. Base units have no definition.
type Unit struct {
	Names      []string
	Definition *Definition
}

// Name returns the canonical name of the unit.
func (u Unit) Name() string { return u.Names[0] }

// Conversion is one entry enumerated by System.ConversionsFrom.
type Conversion struct {
	Unit Unit
	// Factor converts a value in the source unit into Unit.
	Factor number.Number
}

// UnknownUnitError is returned when a unit name is not known to a System.
type UnknownUnitError struct {
	Name string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("units: unknown unit %q", e.Name)
}

// NotConvertibleError is returned when two units are known but belong to
// unrelated sets.
type NotConvertibleError struct {
	From, To string
}

func (e *NotConvertibleError) Error() string {
	return fmt.Sprintf("units: cannot convert between %q and %q", e.From, e.To)
}

// System is a collection of related unit sets supporting conversion between
// units of the same set. Lookup is case-insensitive. A System is immutable
// after construction and safe for concurrent use.
type System struct {
	sets  map[string][]Unit
	names map[string]unitEntry // lower-cased unit name -> entry
}

type unitEntry struct {
	set  string
	unit Unit
	// toBase converts a value in this unit into the set's base unit.
	toBase number.Number
}

// NewSystem builds a System from named sets of units. Derived units must be
// defined, directly or transitively, in terms of a unit of the same set.
func NewSystem(sets map[string][]Unit) (*System, error) {
	s := &System{sets: sets, names: make(map[string]unitEntry)}
	for setName, units := range sets {
		byName := make(map[string]Unit)
		for _, u := range units {
			if len(u.Names) == 0 {
				return nil, fmt.Errorf("units: unit with no names in set %q", setName)
			}
			for _, name := range u.Names {
				byName[strings.ToLower(name)] = u
			}
		}
		for _, u := range units {
			toBase, err := scaleToBase(setName, u, byName, 0)
			if err != nil {
				return nil, err
			}
			for _, name := range u.Names {
				lower := strings.ToLower(name)
				if other, defined := s.names[lower]; defined && other.set != setName {
					return nil, fmt.Errorf("units: name %q defined in both %q and %q",
						name, other.set, setName)
				}
				s.names[lower] = unitEntry{set: setName, unit: u, toBase: toBase}
			}
		}
	}
	return s, nil
}

func scaleToBase(setName string, u Unit, byName map[string]Unit, depth int) (number.Number, error) {
	if u.Definition == nil {
		return number.Int(1), nil
	}
	if depth > len(byName) {
		return number.Number{}, fmt.Errorf("units: definition cycle involving %q in set %q",
			u.Name(), setName)
	}
	parent, ok := byName[strings.ToLower(u.Definition.Unit)]
	if !ok {
		return number.Number{}, fmt.Errorf("units: %q is defined in terms of unknown unit %q",
			u.Name(), u.Definition.Unit)
	}
	parentScale, err := scaleToBase(setName, parent, byName, depth+1)
	if err != nil {
		return number.Number{}, err
	}
	return u.Definition.Quantity.Mul(parentScale), nil
}

// ConvertBetween returns the multiplicative factor converting a value in
// unit from into a value in unit to. Unit names are matched
// case-insensitively. It returns an UnknownUnitError or a
// NotConvertibleError when no conversion exists.
func (s *System) ConvertBetween(from, to string) (number.Number, error) {
	fromEntry, ok := s.names[strings.ToLower(from)]
	if !ok {
		return number.Number{}, &UnknownUnitError{Name: from}
	}
	toEntry, ok := s.names[strings.ToLower(to)]
	if !ok {
		return number.Number{}, &UnknownUnitError{Name: to}
	}
	if fromEntry.set != toEntry.set {
		return number.Number{}, &NotConvertibleError{From: from, To: to}
	}
	return fromEntry.toBase.DivExact(toEntry.toBase), nil
}

// ConversionsFrom enumerates the conversions from the named unit to every
// other unit in its related set, in declaration order.
func (s *System) ConversionsFrom(unit string) ([]Conversion, error) {
	entry, ok := s.names[strings.ToLower(unit)]
	if !ok {
		return nil, &UnknownUnitError{Name: unit}
	}
	var out []Conversion
	for _, u := range s.sets[entry.set] {
		if u.Name() == entry.unit.Name() {
			continue
		}
		factor, err := s.ConvertBetween(entry.unit.Name(), u.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, Conversion{Unit: u, Factor: factor})
	}
	return out, nil
}

// Known reports whether the named unit is known to the system.
func (s *System) Known(unit string) bool {
	_, ok := s.names[strings.ToLower(unit)]
	return ok
}

// Names returns every unit name known to the system, longest first. The
// parser uses this ordering so that multi-word unit names ("table spoons")
// are matched before their prefixes.
func (s *System) Names() []string {
	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// yamlUnit is the YAML form of a Unit.
type yamlUnit struct {
	Names  []string `yaml:"names"`
	Equals *struct {
		Value string `yaml:"value"`
		Unit  string `yaml:"unit"`
	} `yaml:"equals"`
}

// LoadYAML builds a System from a YAML document mapping set names to unit
// lists. Values are written as strings so that exact fractions ("1/16")
// survive the trip.
func LoadYAML(src []byte) (*System, error) {
	var doc map[string][]yamlUnit
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("units: %w", err)
	}
	sets := make(map[string][]Unit, len(doc))
	for setName, yamlUnits := range doc {
		units := make([]Unit, 0, len(yamlUnits))
		for _, yu := range yamlUnits {
			u := Unit{Names: yu.Names}
			if yu.Equals != nil {
				value, err := number.Parse(yu.Equals.Value)
				if err != nil {
					return nil, fmt.Errorf("units: set %q: %w", setName, err)
				}
				u.Definition = &Definition{Quantity: value, Unit: yu.Equals.Unit}
			}
			units = append(units, u)
		}
		sets[setName] = units
	}
	return NewSystem(sets)
}

//go:embed units.yaml
var defaultUnitsYAML []byte

// Default is the built-in unit system.
var Default = func() *System {
	s, err := LoadYAML(defaultUnitsYAML)
	if err != nil {
		panic(err)
	}
	return s
}()
