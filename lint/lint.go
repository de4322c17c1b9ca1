// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lint implements sanity checks for compiled recipes.
package lint

import (
	"fmt"
	"math"
	"sort"

	"github.com/recipegrid/recipegrid/number"
	"github.com/recipegrid/recipegrid/recipe"
	"github.com/recipegrid/recipegrid/units"
)

// Kind identifies a category of lint. Further detail is only given as a
// human readable description.
type Kind int

const (
	UnusedIngredient Kind = iota
	SubRecipeQuantityUnknown
	IncompatibleUnits
	NonPositiveRemainder
	SubRecipeNotUsedUp
	SubRecipeUsedTooMuch
)

var kindNames = [...]string{
	UnusedIngredient:         "unused_ingredient",
	SubRecipeQuantityUnknown: "sub_recipe_quantity_unknown",
	IncompatibleUnits:        "sub_recipe_reference_incompatible_units",
	NonPositiveRemainder:     "sub_recipe_reference_non_positive_remainder",
	SubRecipeNotUsedUp:       "sub_recipe_not_used_up",
	SubRecipeUsedTooMuch:     "sub_recipe_used_too_much",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Lint describes one piece of lint found in a recipe.
type Lint struct {
	Kind        Kind
	Description string
}

// relativeTolerance is how far the total consumption of a sub recipe may
// stray from 100% before CheckReferencesSumToWhole complains.
const relativeTolerance = 0.02

// Check runs every lint check against the given recipe blocks. It never
// fails: invalid recipes cannot be constructed in the first place.
func Check(blocks []*recipe.Recipe, sys *units.System) []Lint {
	return append(
		CheckUnusedIngredients(blocks),
		CheckReferencesSumToWhole(blocks, sys)...)
}

// CheckUnusedIngredients reports ingredients which are defined but never
// used. In
//
//	1 can of spam
//	1 egg, boiled, shelled
//
//	slice(spam, eggs)
//
// the ingredient "egg" is defined but then referenced as "eggs", which is
// almost certainly a mistake. An intentionally unused ingredient can be
// given an explicit name ("egg = 1 egg") to suppress the warning.
func CheckUnusedIngredients(blocks []*recipe.Recipe) []Lint {
	var implicit, referenced []*recipe.SubRecipe

	var visit func(node recipe.Node)
	visit = func(node recipe.Node) {
		switch n := node.(type) {
		case *recipe.Reference:
			// Don't recurse into references.
			referenced = addSubRecipe(referenced, n.SubRecipe)
			return
		case *recipe.SubRecipe:
			if len(n.OutputNames) == 1 && !n.ShowOutputNames {
				implicit = addSubRecipe(implicit, n)
			}
		}
		for _, child := range node.Children() {
			visit(child)
		}
	}
	for _, block := range blocks {
		for _, tree := range block.Trees {
			visit(tree)
		}
	}

	var unused []*recipe.SubRecipe
	for _, sub := range implicit {
		if !containsSubRecipe(referenced, sub) {
			unused = append(unused, sub)
		}
	}
	sort.Slice(unused, func(i, j int) bool {
		return unused[i].OutputNames[0].String() < unused[j].OutputNames[0].String()
	})

	var lint []Lint
	for _, sub := range unused {
		lint = append(lint, Lint{
			Kind: UnusedIngredient,
			Description: fmt.Sprintf(
				"Ingredient '%s' was defined but never used.",
				sub.OutputNames[0]),
		})
	}
	return lint
}

// addSubRecipe adds sub to set unless a structurally equal sub recipe is
// already present.
func addSubRecipe(set []*recipe.SubRecipe, sub *recipe.SubRecipe) []*recipe.SubRecipe {
	if containsSubRecipe(set, sub) {
		return set
	}
	return append(set, sub)
}

func containsSubRecipe(set []*recipe.SubRecipe, sub *recipe.SubRecipe) bool {
	for _, s := range set {
		if s.Equal(sub) {
			return true
		}
	}
	return false
}

// outputReferences collects the references consuming one output of one sub
// recipe.
type outputReferences struct {
	index      int
	references []*recipe.Reference
}

type subReferences struct {
	sub     *recipe.SubRecipe
	outputs []*outputReferences
}

// CheckReferencesSumToWhole reports sub recipes which are referenced in
// several places without their referenced amounts adding up to the whole.
// In
//
//	tomato sauce = 1 can of chopped tomatoes, boiled down
//
//	pour over(
//	    cook(mix(1/2 of tomato sauce, chicken)),
//	    1/3 of tomato sauce,
//	)
//
// the tomato sauce is not completely used up. Sub recipe outputs which are
// never referenced at all are not reported since leaving a component
// unconsumed (e.g. the final dish) is usually intentional.
func CheckReferencesSumToWhole(blocks []*recipe.Recipe, sys *units.System) []Lint {
	var collected []*subReferences

	var visit func(node recipe.Node)
	visit = func(node recipe.Node) {
		ref, ok := node.(*recipe.Reference)
		if !ok {
			for _, child := range node.Children() {
				visit(child)
			}
			return
		}
		var entry *subReferences
		for _, e := range collected {
			if e.sub.Equal(ref.SubRecipe) {
				entry = e
				break
			}
		}
		if entry == nil {
			entry = &subReferences{sub: ref.SubRecipe}
			collected = append(collected, entry)
		}
		var output *outputReferences
		for _, o := range entry.outputs {
			if o.index == ref.OutputIndex {
				output = o
				break
			}
		}
		if output == nil {
			output = &outputReferences{index: ref.OutputIndex}
			entry.outputs = append(entry.outputs, output)
		}
		output.references = append(output.references, ref)
	}
	for _, block := range blocks {
		for _, tree := range block.Trees {
			visit(tree)
		}
	}

	var lint []Lint
	for _, entry := range collected {
		for _, output := range entry.outputs {
			lint = append(lint, checkOutputUsage(entry.sub, output, sys)...)
		}
	}
	return lint
}

func checkOutputUsage(sub *recipe.SubRecipe, output *outputReferences, sys *units.System) []Lint {
	name := sub.OutputNames[output.index].String()

	// If the sub recipe boils down to a single ingredient its total
	// quantity is known.
	node := sub.SubTree
	for {
		step, ok := node.(*recipe.Step)
		if !ok || len(step.Inputs) != 1 {
			break
		}
		node = step.Inputs[0]
	}
	var total *recipe.Quantity
	if ing, ok := node.(*recipe.Ingredient); ok && len(sub.OutputNames) == 1 {
		total = ing.Quantity
	}

	var lint []Lint
	problem := false
	used := 0.0
	for _, ref := range output.references {
		switch amount := ref.Amount.(type) {
		case recipe.Quantity:
			if total == nil {
				problem = true
				lint = append(lint, Lint{
					Kind: SubRecipeQuantityUnknown,
					Description: fmt.Sprintf(
						"A quantity (%s) of %s was referenced but the total "+
							"amount is not known so cannot be checked.",
						formatQuantity(amount), name),
				})
				continue
			}
			factor, err := conversionFactor(amount.Unit, total.Unit, sys)
			if err != nil {
				problem = true
				lint = append(lint, Lint{
					Kind: IncompatibleUnits,
					Description: fmt.Sprintf(
						"A reference to sub recipe %s is given using "+
							"incompatible units: %s",
						name, amount.Unit),
				})
				continue
			}
			used += amount.Value.Mul(factor).DivExact(total.Value).Float64()
		case recipe.Proportion:
			if amount.Value == nil {
				if used >= 1.0 {
					problem = true
					lint = append(lint, Lint{
						Kind: NonPositiveRemainder,
						Description: fmt.Sprintf(
							"A reference to the remainder of recipe %s was "+
								"made while none remains unused.",
							name),
					})
				}
				used = math.Max(1.0, used)
			} else {
				used += amount.Value.Float64()
			}
		}
	}
	if problem {
		return lint
	}

	perc := int(used * 100)
	switch {
	case math.Abs(used-1.0) <= relativeTolerance*math.Max(math.Abs(used), 1.0):
		// Used up (almost) exactly.
	case used < 1.0:
		lint = append(lint, Lint{
			Kind: SubRecipeNotUsedUp,
			Description: fmt.Sprintf(
				"Not all of %s was used (about %d%% remains unused).",
				name, 100-perc),
		})
	default:
		lint = append(lint, Lint{
			Kind: SubRecipeUsedTooMuch,
			Description: fmt.Sprintf(
				"More of %s was used than is available (about %d%% of the "+
					"total amount used).",
				name, perc),
		})
	}
	return lint
}

// conversionFactor returns the factor converting a value in unit from into
// unit to, treating two unit-less quantities as directly comparable.
func conversionFactor(from, to string, sys *units.System) (number.Number, error) {
	if from == "" && to == "" {
		return number.Int(1), nil
	}
	if from == "" || to == "" {
		return number.Number{}, &units.NotConvertibleError{From: from, To: to}
	}
	if sys == nil {
		return number.Number{}, &units.UnknownUnitError{Name: from}
	}
	return sys.ConvertBetween(from, to)
}

func formatQuantity(q recipe.Quantity) string {
	if q.Unit == "" {
		return q.Value.String()
	}
	return q.Value.String() + " " + q.Unit
}
