// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package recipe

import (
	"strings"

	"github.com/recipegrid/recipegrid/number"
	"github.com/recipegrid/recipegrid/units"
)

// valueTolerance is the relative tolerance used when comparing quantity
// values which may have accumulated floating point error.
const valueTolerance = 1e-9

// Amount is the amount of a referenced sub recipe output: an absolute
// Quantity or a relative Proportion.
type Amount interface {
	// ScaleAmount multiplies the amount by factor. Proportions are
	// scale-invariant and return themselves.
	ScaleAmount(factor number.Number) Amount
	// EqualAmount reports structural equality with another amount.
	EqualAmount(other Amount) bool
}

// Quantity is an absolute quantity, e.g. "250g".
type Quantity struct {
	Value number.Number
	// Unit is the name of the unit of measurement, or "" for a unit-less
	// quantity (e.g. a count: 3 apples).
	Unit string
	// ValueUnitSpacing is the literal whitespace between the value and the
	// unit in the source, preserved for faithful re-rendering.
	ValueUnitSpacing string
	// Preposition is the trailing preposition (e.g. " of"), preserved
	// verbatim for faithful re-rendering.
	Preposition string
}

// Scale returns q with its value multiplied by factor.
func (q Quantity) Scale(factor number.Number) Quantity {
	q.Value = q.Value.Mul(factor)
	return q
}

// ScaleAmount implements Amount.
func (q Quantity) ScaleAmount(factor number.Number) Amount { return q.Scale(factor) }

// EqualAmount implements Amount.
func (q Quantity) EqualAmount(other Amount) bool {
	o, ok := other.(Quantity)
	return ok && q.Value.Equal(o.Value) && q.Unit == o.Unit &&
		q.ValueUnitSpacing == o.ValueUnitSpacing && q.Preposition == o.Preposition
}

// HasEqualValue reports whether q and other denote the same amount,
// converting between units using sys. Unit names are compared
// case-insensitively, and two quantities with the same spelled unit compare
// by value even when the unit is unknown to sys. Quantities in units which
// are distinct and not convertible (including unknown units) are never
// equal. Values are compared with a small relative tolerance.
func (q Quantity) HasEqualValue(other Quantity, sys *units.System) bool {
	if q.Unit == "" && other.Unit == "" {
		return q.Value.EqualApprox(other.Value, valueTolerance)
	}
	if q.Unit == "" || other.Unit == "" {
		return false
	}
	if strings.EqualFold(q.Unit, other.Unit) {
		return q.Value.EqualApprox(other.Value, valueTolerance)
	}
	factor, err := sys.ConvertBetween(q.Unit, other.Unit)
	if err != nil {
		return false
	}
	return q.Value.Mul(factor).EqualApprox(other.Value, valueTolerance)
}

// Proportion is a relative proportion of a sub recipe output.
type Proportion struct {
	// Value is the proportion in the range 0.0 to 1.0, or nil meaning
	// "whatever quantity remains".
	Value *number.Number
	// Percentage is true if the proportion was written as a percentage.
	// It is meaningful only when Value is non-nil.
	Percentage bool
	// RemainderWording is the word used to mean "remainder" (e.g. "rest").
	// It is meaningful only when Value is nil.
	RemainderWording string
	// Preposition is the literal text which followed the value or
	// remainder wording in the source.
	Preposition string
}

// NewProportion returns a Proportion for an explicit value.
func NewProportion(value number.Number, percentage bool, preposition string) Proportion {
	return Proportion{Value: &value, Percentage: percentage, Preposition: preposition}
}

// RemainingProportion returns a Proportion meaning "whatever remains". An
// empty wording defaults to "remaining".
func RemainingProportion(wording, preposition string) Proportion {
	if wording == "" {
		wording = "remaining"
	}
	return Proportion{RemainderWording: wording, Preposition: preposition}
}

// All is the default amount of a reference: all of the referenced output.
var All = NewProportion(number.Float(1.0), false, "")

// ScaleAmount implements Amount. Proportions are relative, so scaling is a
// no-op.
func (p Proportion) ScaleAmount(number.Number) Amount { return p }

// EqualAmount implements Amount.
func (p Proportion) EqualAmount(other Amount) bool {
	o, ok := other.(Proportion)
	if !ok {
		return false
	}
	if (p.Value == nil) != (o.Value == nil) {
		return false
	}
	if p.Value != nil && !p.Value.Equal(*o.Value) {
		return false
	}
	return p.Percentage == o.Percentage &&
		p.RemainderWording == o.RemainderWording && p.Preposition == o.Preposition
}
