// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package recipe defines the data model a recipe is compiled into: an
// immutable Directed Acyclic Graph (DAG) of ingredients, steps, sub recipes
// and references, plus the scalable strings and amounts they carry.
//
// All node types are immutable value types with structural equality:
// "modifying" a tree always means building a new one with Substitute or
// Scale, sharing the unaffected subtrees. A single node instance may be
// linked from several places; no correctness property in this package
// depends on pointer identity.
package recipe

import (
	"github.com/recipegrid/recipegrid/number"
)

// Node is a node of a recipe tree: an *Ingredient, a *Step, a *SubRecipe
// or a *Reference.
type Node interface {
	// Children returns the direct children of the node. The children of a
	// Reference are the referenced SubRecipe itself, not its contents.
	Children() []Node
	// Substitute returns a copy of the tree rooted at this node with every
	// occurrence of old replaced by new. It returns the node itself when
	// old does not occur. If the node equals old, it returns new.
	Substitute(old, new Node) Node
	// Scale returns a copy of the tree with every quantity and scalable
	// string multiplied by factor.
	Scale(factor number.Number) Node
	// Equal reports structural equality with another node.
	Equal(other Node) bool

	// canBeChild returns a non-nil error if linking the node as the child
	// of another node would violate a data model invariant.
	canBeChild() error
}

// Ingredient is a leaf node describing an ingredient to be used.
type Ingredient struct {
	Description ScaledValueString
	Quantity    *Quantity // nil for quantity-less ingredients
}

// NewIngredient returns an Ingredient with the given description and
// optional quantity.
func NewIngredient(description ScaledValueString, quantity *Quantity) *Ingredient {
	return &Ingredient{Description: description, Quantity: quantity}
}

func (ing *Ingredient) Children() []Node { return nil }

func (ing *Ingredient) Substitute(old, new Node) Node {
	if ing.Equal(old) {
		return new
	}
	return ing
}

func (ing *Ingredient) Scale(factor number.Number) Node {
	scaled := &Ingredient{Description: ing.Description.Scale(factor)}
	if ing.Quantity != nil {
		q := ing.Quantity.Scale(factor)
		scaled.Quantity = &q
	}
	return scaled
}

func (ing *Ingredient) Equal(other Node) bool {
	o, ok := other.(*Ingredient)
	if !ok {
		return false
	}
	if (ing.Quantity == nil) != (o.Quantity == nil) {
		return false
	}
	if ing.Quantity != nil && !ing.Quantity.EqualAmount(*o.Quantity) {
		return false
	}
	return ing.Description.Equal(o.Description)
}

func (ing *Ingredient) canBeChild() error { return nil }

// Step is a node representing a step in a recipe (e.g. 'mix'); its inputs
// are the children of the node.
type Step struct {
	Description ScaledValueString
	Inputs      []Node
}

// NewStep returns a Step with the given description and inputs. It returns
// an InvariantError if any input is a multi-output SubRecipe.
func NewStep(description ScaledValueString, inputs []Node) (*Step, error) {
	for _, input := range inputs {
		if err := input.canBeChild(); err != nil {
			return nil, err
		}
	}
	return &Step{Description: description, Inputs: inputs}, nil
}

func (s *Step) Children() []Node { return s.Inputs }

func (s *Step) Substitute(old, new Node) Node {
	if s.Equal(old) {
		return new
	}
	changed := false
	inputs := make([]Node, len(s.Inputs))
	for i, input := range s.Inputs {
		inputs[i] = input.Substitute(old, new)
		if inputs[i] != input {
			changed = true
		}
	}
	if !changed {
		return s
	}
	substituted, err := NewStep(s.Description, inputs)
	if err != nil {
		panic(err)
	}
	return substituted
}

func (s *Step) Scale(factor number.Number) Node {
	inputs := make([]Node, len(s.Inputs))
	for i, input := range s.Inputs {
		inputs[i] = input.Scale(factor)
	}
	return &Step{Description: s.Description.Scale(factor), Inputs: inputs}
}

func (s *Step) Equal(other Node) bool {
	o, ok := other.(*Step)
	if !ok || len(s.Inputs) != len(o.Inputs) || !s.Description.Equal(o.Description) {
		return false
	}
	for i, input := range s.Inputs {
		if !input.Equal(o.Inputs[i]) {
			return false
		}
	}
	return true
}

func (s *Step) canBeChild() error { return nil }

// SubRecipe is a node representing a logical division of a recipe with some
// semantic significance: for example a pie recipe may have one sub recipe
// for the filling and another for the pastry.
//
// A sub recipe with a single output name may appear anywhere in a recipe
// tree; one with several output names (e.g. "boiled vegetables" and
// "vegetable water") may only be the root of a tree.
type SubRecipe struct {
	SubTree     Node
	OutputNames []ScaledValueString // never empty
	// ShowOutputNames is false when the output name was inferred (e.g. an
	// ingredient name) and would only be a distraction if rendered.
	ShowOutputNames bool
}

// NewSubRecipe returns a SubRecipe wrapping subTree. It returns an
// InvariantError if outputNames is empty or subTree cannot be a child node.
func NewSubRecipe(subTree Node, outputNames []ScaledValueString, showOutputNames bool) (*SubRecipe, error) {
	if err := subTree.canBeChild(); err != nil {
		return nil, err
	}
	if len(outputNames) == 0 {
		return nil, &ZeroOutputSubRecipeError{}
	}
	return &SubRecipe{SubTree: subTree, OutputNames: outputNames, ShowOutputNames: showOutputNames}, nil
}

func (sr *SubRecipe) Children() []Node { return []Node{sr.SubTree} }

func (sr *SubRecipe) Substitute(old, new Node) Node {
	if sr.Equal(old) {
		return new
	}
	subTree := sr.SubTree.Substitute(old, new)
	if subTree == sr.SubTree {
		return sr
	}
	substituted, err := NewSubRecipe(subTree, sr.OutputNames, sr.ShowOutputNames)
	if err != nil {
		panic(err)
	}
	return substituted
}

func (sr *SubRecipe) Scale(factor number.Number) Node {
	names := make([]ScaledValueString, len(sr.OutputNames))
	for i, name := range sr.OutputNames {
		names[i] = name.Scale(factor)
	}
	return &SubRecipe{
		SubTree:         sr.SubTree.Scale(factor),
		OutputNames:     names,
		ShowOutputNames: sr.ShowOutputNames,
	}
}

func (sr *SubRecipe) Equal(other Node) bool {
	o, ok := other.(*SubRecipe)
	if !ok || len(sr.OutputNames) != len(o.OutputNames) ||
		sr.ShowOutputNames != o.ShowOutputNames {
		return false
	}
	for i, name := range sr.OutputNames {
		if !name.Equal(o.OutputNames[i]) {
			return false
		}
	}
	return sr.SubTree.Equal(o.SubTree)
}

func (sr *SubRecipe) canBeChild() error {
	if len(sr.OutputNames) > 1 {
		return &MultiOutputSubRecipeUsedAsNonRootError{SubRecipe: sr}
	}
	return nil
}

// Reference is a node denoting "consume (some amount of) a named sub recipe
// output here". Only sub recipes forming the root of a preceding recipe
// tree may be referenced.
type Reference struct {
	SubRecipe   *SubRecipe
	OutputIndex int
	Amount      Amount
}

// NewReference returns a Reference to the given output of sub. A nil
// amount means "all of it". It returns an OutputIndexError if outputIndex
// is out of range.
func NewReference(sub *SubRecipe, outputIndex int, amount Amount) (*Reference, error) {
	if outputIndex < 0 || outputIndex >= len(sub.OutputNames) {
		return nil, &OutputIndexError{SubRecipe: sub, OutputIndex: outputIndex}
	}
	if amount == nil {
		amount = All
	}
	return &Reference{SubRecipe: sub, OutputIndex: outputIndex, Amount: amount}, nil
}

// Children returns the referenced SubRecipe itself. Its contents are not
// re-traversed at the reference site: this is what prevents a sub recipe
// from being rendered again everywhere it is consumed.
func (r *Reference) Children() []Node { return []Node{r.SubRecipe} }

func (r *Reference) Substitute(old, new Node) Node {
	if r.Equal(old) {
		return new
	}
	return r
}

func (r *Reference) Scale(factor number.Number) Node {
	return &Reference{
		SubRecipe:   r.SubRecipe.Scale(factor).(*SubRecipe),
		OutputIndex: r.OutputIndex,
		Amount:      r.Amount.ScaleAmount(factor),
	}
}

func (r *Reference) Equal(other Node) bool {
	o, ok := other.(*Reference)
	return ok && r.OutputIndex == o.OutputIndex &&
		r.Amount.EqualAmount(o.Amount) && r.SubRecipe.Equal(o.SubRecipe)
}

func (r *Reference) canBeChild() error { return nil }

// Name returns the name of the referenced output.
func (r *Reference) Name() ScaledValueString {
	return r.SubRecipe.OutputNames[r.OutputIndex]
}
