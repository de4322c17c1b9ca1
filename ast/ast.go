// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ast declares the types used to represent parsed recipe source
// trees.
//
// For example, the recipe source:
//
//	fry(100g spam, 2 eggs)
//
// is represented with the tree:
//
//	ast.NewRecipe([]*ast.Stmt{
//		ast.NewStmt(nil, false, ast.NewStep(
//			ast.NewTextString(&ast.Position{Line: 1, Column: 1, Start: 0, End: 2}, "fry"),
//			[]ast.Expr{...},
//		)),
//	})
//
// Positions record where each node appears in the source and are used for
// error reporting.
package ast

import (
	"fmt"
	"strings"

	"github.com/recipegrid/recipegrid/number"
)

// Position is a position in the source.
type Position struct {
	Line   int // line starting from 1
	Column int // column in characters starting from 1
	Start  int // index of the first character
	End    int // index of the last character
}

func (p *Position) Pos() *Position { return p }

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is a node of a recipe tree.
type Node interface {
	Pos() *Position
}

// Expr is an expression: a step or a reference.
type Expr interface {
	Node
	isExpr()
}

// Recipe is the root of a parsed recipe block.
type Recipe struct {
	Stmts []*Stmt
}

func NewRecipe(stmts []*Stmt) *Recipe {
	return &Recipe{Stmts: stmts}
}

func (r *Recipe) Pos() *Position {
	if len(r.Stmts) == 0 {
		return &Position{Line: 1, Column: 1}
	}
	return r.Stmts[0].Pos()
}

// Stmt is a statement: an expression with an optional list of output names.
type Stmt struct {
	Outputs []*String // explicitly named outputs, nil if none were given
	Named   bool      // true if ":=" was used, demanding the name be kept
	Expr    Expr
}

func NewStmt(outputs []*String, named bool, expr Expr) *Stmt {
	return &Stmt{Outputs: outputs, Named: named, Expr: expr}
}

func (s *Stmt) Pos() *Position {
	if len(s.Outputs) > 0 {
		return s.Outputs[0].Pos()
	}
	return s.Expr.Pos()
}

// Step is a step expression, e.g. "mix(tomatoes, herbs)".
type Step struct {
	Name   *String // the description of the step ("mix")
	Inputs []Expr  // the inputs of the step ("tomatoes" and "herbs")
}

func NewStep(name *String, inputs []Expr) *Step {
	return &Step{Name: name, Inputs: inputs}
}

func (s *Step) Pos() *Position { return s.Name.Pos() }
func (*Step) isExpr()          {}

// Reference is a reference to an ingredient or to a sub recipe output,
// optionally prefixed by a quantity or a proportion.
type Reference struct {
	Name   *String
	Amount Amount // a *Quantity, a *Proportion or nil
}

func NewReference(name *String, amount Amount) *Reference {
	return &Reference{Name: name, Amount: amount}
}

func (r *Reference) Pos() *Position {
	if r.Amount != nil {
		return r.Amount.Pos()
	}
	return r.Name.Pos()
}

func (*Reference) isExpr() {}

// Amount is the amount of a reference: a quantity or a proportion.
type Amount interface {
	Node
	isAmount()
}

// Quantity is an absolute quantity, e.g. "250g" or "{2 sacks}".
type Quantity struct {
	*Position
	Value number.Number
	Unit  *String // nil for unit-less quantities
	// ValueUnitSpacing is the literal whitespace between the value and the
	// unit, preserved for faithful re-rendering.
	ValueUnitSpacing string
	// Preposition is the unquoted preposition following the quantity, e.g.
	// " of" in "50g of butter". Empty if absent.
	Preposition string
}

func NewQuantity(pos *Position, value number.Number, unit *String, spacing, preposition string) *Quantity {
	return &Quantity{Position: pos, Value: value, Unit: unit, ValueUnitSpacing: spacing, Preposition: preposition}
}

func (*Quantity) isAmount() {}

// Proportion is a relative proportion, e.g. "1/2 of", "25%" or "rest of".
type Proportion struct {
	*Position
	Value *number.Number // in [0, 1]; nil means "the remainder"
	// Percentage is true if the proportion was written as a percentage.
	Percentage bool
	// RemainderWording is the word used to mean "remainder" (e.g. "rest")
	// when Value is nil.
	RemainderWording string
	// Preposition is the literal text following the value or remainder
	// wording, e.g. " of the" in "rest of the sauce" or "%" in "10% spam".
	Preposition string
}

func NewProportion(pos *Position, value *number.Number, percentage bool, remainderWording, preposition string) *Proportion {
	return &Proportion{Position: pos, Value: value, Percentage: percentage, RemainderWording: remainderWording, Preposition: preposition}
}

func (*Proportion) isAmount() {}

// String is a string which may contain numeric values to be interpolated,
// and rescaled, when the recipe is rendered.
type String struct {
	Parts []StringPart // never empty
}

func NewString(parts []StringPart) *String {
	return &String{Parts: parts}
}

// NewTextString returns a String holding a single literal text part.
func NewTextString(pos *Position, text string) *String {
	return &String{Parts: []StringPart{NewSubstring(pos, text)}}
}

func (s *String) Pos() *Position { return s.Parts[0].Pos() }

// Text returns the literal text of the string with interpolated values
// formatted with number.Format.
func (s *String) Text() string {
	var b strings.Builder
	for _, part := range s.Parts {
		switch part := part.(type) {
		case *Substring:
			b.WriteString(part.Text)
		case *InterpolatedValue:
			b.WriteString(number.Format(part.Value))
		}
	}
	return b.String()
}

// StringPart is a part of a String: a literal substring or an interpolated
// numeric value.
type StringPart interface {
	Node
	isStringPart()
}

// Substring is a literal fragment of a String.
type Substring struct {
	*Position
	Text string
}

func NewSubstring(pos *Position, text string) *Substring {
	return &Substring{Position: pos, Text: text}
}

func (*Substring) isStringPart() {}

// InterpolatedValue is a numeric fragment of a String which is rescaled
// with the recipe.
type InterpolatedValue struct {
	*Position
	Value number.Number
}

func NewInterpolatedValue(pos *Position, value number.Number) *InterpolatedValue {
	return &InterpolatedValue{Position: pos, Value: value}
}

func (*InterpolatedValue) isStringPart() {}

// EscapeChars maps the character following a backslash to its escaped
// value in quoted and bracketed strings. Any character not in this table
// is passed through unchanged.
var EscapeChars = map[byte]string{
	'\\': "\\",
	'\'': "'",
	'"':  "\"",
	'a':  "\a",
	'b':  "\b",
	'f':  "\f",
	'n':  "\n",
	'r':  "\r",
	't':  "\t",
	'v':  "\v",
}
