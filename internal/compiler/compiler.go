// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/recipegrid/recipegrid/ast"
	"github.com/recipegrid/recipegrid/number"
	"github.com/recipegrid/recipegrid/recipe"
	"github.com/recipegrid/recipegrid/units"
)

// Compile compiles recipe source blocks into one recipe.Recipe per block.
// Later blocks may reference sub recipe outputs defined in earlier blocks.
// Unit names are recognised and compared against sys; a nil sys means
// units.Default.
//
// All source blocks are assumed to originate from a single document. To
// make error messages report useful line numbers, pad the start of each
// source block with empty lines according to its position in the document.
//
// Compile returns a *SyntaxError if a block cannot be parsed and a
// CompileError if the parsed blocks are inconsistent.
func Compile(sources []string, sys *units.System) (compiled []*recipe.Recipe, err error) {
	if sys == nil {
		sys = units.Default
	}
	parsed := make([]*ast.Recipe, len(sources))
	for i, source := range sources {
		tree, err := ParseRecipe(source, sys)
		if err != nil {
			return nil, err
		}
		parsed[i] = tree
	}

	c := &compiler{
		sources:      sources,
		sys:          sys,
		namedOutputs: make(map[string]*namedOutput),
	}
	defer func() {
		if r := recover(); r != nil {
			cerr, ok := r.(CompileError)
			if !ok {
				panic(r)
			}
			compiled, err = nil, cerr
		}
	}()

	blocks := make([][]recipe.Node, len(parsed))
	for i, tree := range parsed {
		c.block = i
		for _, stmt := range tree.Stmts {
			blocks[i] = append(blocks[i], c.compileStmt(stmt))
		}
	}

	c.inline(blocks)

	var previous *recipe.Recipe
	for _, trees := range blocks {
		r, err := recipe.NewRecipe(trees, previous)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, r)
		previous = r
	}
	return compiled, nil
}

// namedOutput tracks a sub recipe output name defined so far, the
// SubRecipe defining it and every Reference consuming it.
type namedOutput struct {
	name recipe.ScaledValueString

	// definitionBlock is the index of the block defining the name. A
	// reference from a different block never causes inlining.
	definitionBlock int

	subRecipe   *recipe.SubRecipe
	outputIndex int

	references []blockReference

	// unwrapWhenInlined is true if, when the sole use of this output is
	// folded into its point of use, the SubRecipe wrapper should be
	// dropped rather than kept as a visible grouping. It is false for
	// outputs named with ":=".
	unwrapWhenInlined bool
}

type blockReference struct {
	ref   *recipe.Reference
	block int
}

// substitute applies a tree substitution to the tracked definition and
// references, keeping them in step with the compiled trees.
func (out *namedOutput) substitute(old, new recipe.Node) {
	out.subRecipe = out.subRecipe.Substitute(old, new).(*recipe.SubRecipe)
	for i, br := range out.references {
		// When br.ref is itself the reference being replaced, the
		// substitution would yield the inlined tree, not a Reference.
		// Keep the stale Reference instead: once its output has been
		// inlined this namedOutput is never consulted again.
		if br.ref.Equal(old) {
			continue
		}
		out.references[i].ref = br.ref.Substitute(old, new).(*recipe.Reference)
	}
}

type compiler struct {
	sources []string
	sys     *units.System

	// namedOutputs maps normalised output names to their definitions,
	// with order recording the definition order.
	namedOutputs map[string]*namedOutput
	order        []string

	// block is the index of the block being compiled.
	block int
}

func (c *compiler) compileStmt(stmt *ast.Stmt) recipe.Node {
	tree := c.compileExpr(stmt.Expr)

	var names []recipe.ScaledValueString
	inferred := false
	if len(stmt.Outputs) > 0 {
		names = make([]recipe.ScaledValueString, len(stmt.Outputs))
		for i, out := range stmt.Outputs {
			names[i] = compileString(out)
		}
	} else if name, ok := inferOutputName(tree); ok {
		names = []recipe.ScaledValueString{name}
		inferred = true
	}
	if len(names) == 0 {
		return tree
	}

	sub, err := recipe.NewSubRecipe(tree, names, !inferred)
	if err != nil {
		panic(err)
	}
	for i, name := range names {
		key := normalizeOutputName(name)
		if _, defined := c.namedOutputs[key]; defined {
			// An inferred name can never clash: had the name been
			// defined, the expression would have compiled to a
			// Reference, and no name is inferred for those.
			panic(c.nameRedefinedError(stmt.Outputs[i]))
		}
		c.namedOutputs[key] = &namedOutput{
			name:              name,
			definitionBlock:   c.block,
			subRecipe:         sub,
			outputIndex:       i,
			unwrapWhenInlined: !stmt.Named,
		}
		c.order = append(c.order, key)
	}
	return sub
}

func (c *compiler) compileExpr(expr ast.Expr) recipe.Node {
	switch expr := expr.(type) {
	case *ast.Step:
		inputs := make([]recipe.Node, len(expr.Inputs))
		for i, in := range expr.Inputs {
			inputs[i] = c.compileExpr(in)
		}
		step, err := recipe.NewStep(compileString(expr.Name), inputs)
		if err != nil {
			panic(err)
		}
		return step
	case *ast.Reference:
		return c.compileReference(expr)
	}
	panic(fmt.Sprintf("unexpected expression type %T", expr))
}

// compileReference compiles a name, with its optional amount, into a
// Reference if the name is a defined sub recipe output and an Ingredient
// otherwise.
func (c *compiler) compileReference(ref *ast.Reference) recipe.Node {
	name := compileString(ref.Name)
	if out, ok := c.namedOutputs[normalizeOutputName(name)]; ok {
		r, err := recipe.NewReference(out.subRecipe, out.outputIndex, c.compileAmount(ref.Amount))
		if err != nil {
			panic(err)
		}
		out.references = append(out.references, blockReference{ref: r, block: c.block})
		return r
	}
	if _, ok := ref.Amount.(*ast.Proportion); ok {
		panic(c.proportionForIngredientError(ref))
	}
	var quantity *recipe.Quantity
	if amount, ok := ref.Amount.(*ast.Quantity); ok {
		q := c.compileQuantity(amount)
		quantity = &q
	}
	return recipe.NewIngredient(name, quantity)
}

func (c *compiler) compileAmount(amount ast.Amount) recipe.Amount {
	switch amount := amount.(type) {
	case *ast.Quantity:
		return c.compileQuantity(amount)
	case *ast.Proportion:
		return compileProportion(amount)
	}
	return recipe.All
}

func (c *compiler) compileQuantity(q *ast.Quantity) recipe.Quantity {
	unit := ""
	if q.Unit != nil {
		unit = compileString(q.Unit).String()
	}
	return recipe.Quantity{
		Value:            q.Value,
		Unit:             unit,
		ValueUnitSpacing: q.ValueUnitSpacing,
		Preposition:      q.Preposition,
	}
}

func compileProportion(p *ast.Proportion) recipe.Proportion {
	if p.Value == nil {
		return recipe.RemainingProportion(p.RemainderWording, p.Preposition)
	}
	prop := recipe.NewProportion(*p.Value, p.Percentage, p.Preposition)
	return prop
}

// compileString converts a parsed string into a ScaledValueString.
func compileString(s *ast.String) recipe.ScaledValueString {
	parts := make([]recipe.StringPart, 0, len(s.Parts))
	for _, part := range s.Parts {
		switch part := part.(type) {
		case *ast.Substring:
			parts = append(parts, recipe.StringPart{Text: part.Text})
		case *ast.InterpolatedValue:
			parts = append(parts, recipe.StringPart{Value: part.Value, IsValue: true})
		}
	}
	return recipe.FromParts(parts)
}

// normalizeOutputName normalises an output name for definition and lookup,
// ignoring case and surrounding whitespace.
func normalizeOutputName(name recipe.ScaledValueString) string {
	return cases.Fold().String(strings.TrimSpace(name.String()))
}

// inferOutputName returns the name of the single ingredient of a recipe
// tree: the ingredient's description if the tree is an ingredient,
// possibly processed by steps, but never combined with another ingredient.
func inferOutputName(tree recipe.Node) (recipe.ScaledValueString, bool) {
	switch tree := tree.(type) {
	case *recipe.Ingredient:
		return tree.Description, true
	case *recipe.Step:
		if len(tree.Inputs) == 1 {
			return inferOutputName(tree.Inputs[0])
		}
	}
	return recipe.ScaledValueString{}, false
}

// inferQuantity returns the quantity of the single ingredient of a recipe
// tree, like inferOutputName, or nil if the tree combines ingredients.
func inferQuantity(tree recipe.Node) *recipe.Quantity {
	switch tree := tree.(type) {
	case *recipe.Ingredient:
		return tree.Quantity
	case *recipe.Step:
		if len(tree.Inputs) == 1 {
			return inferQuantity(tree.Inputs[0])
		}
	case *recipe.SubRecipe:
		if len(tree.OutputNames) == 1 {
			return inferQuantity(tree.SubTree)
		}
	}
	return nil
}

// canBeInlined reports whether the definition of out can be folded into
// its point of use: it must have a single output, be consumed by exactly
// one reference in the block which defines it, and that reference must
// consume the full amount.
func (c *compiler) canBeInlined(out *namedOutput) bool {
	if len(out.subRecipe.OutputNames) != 1 || len(out.references) != 1 ||
		out.references[0].block != out.definitionBlock {
		return false
	}
	switch amount := out.references[0].ref.Amount.(type) {
	case recipe.Proportion:
		return amount.Value == nil || amount.Value.Equal(number.Float(1.0))
	case recipe.Quantity:
		inferred := inferQuantity(out.subRecipe)
		return inferred != nil && amount.HasEqualValue(*inferred, c.sys)
	}
	return false
}

// inline folds every sub recipe which is consumed whole, exactly once and
// in its own block into its point of use, removing the standalone
// definition. For example in
//
//	sauce = boil(tomatoes, water)
//	pour over(pasta, sauce)
//
// the boiled sauce is shown at the point it is poured rather than as a
// separate sub recipe.
func (c *compiler) inline(blocks [][]recipe.Node) {
	for _, key := range c.order {
		out := c.namedOutputs[key]
		if !c.canBeInlined(out) {
			continue
		}

		var inlined recipe.Node = out.subRecipe
		if out.unwrapWhenInlined {
			inlined = out.subRecipe.SubTree
		}
		definition := out.subRecipe
		ref := out.references[0].ref

		// Remove the standalone definition from its block.
		trees := blocks[out.definitionBlock]
		for i, tree := range trees {
			if tree.Equal(definition) {
				blocks[out.definitionBlock] = append(trees[:i:i], trees[i+1:]...)
				break
			}
		}

		// Replace the reference with the definition everywhere, in the
		// compiled trees and in the tracked outputs alike: inlining
		// decisions for later outputs must be made against the
		// up-to-date trees.
		for b, trees := range blocks {
			for i, tree := range trees {
				blocks[b][i] = tree.Substitute(ref, inlined)
			}
		}
		for _, otherKey := range c.order {
			c.namedOutputs[otherKey].substitute(ref, inlined)
		}
	}
}

func (c *compiler) nameRedefinedError(name *ast.String) *NameRedefinedError {
	source := c.sources[c.block]
	line, column := lineColumnAt(source, name.Pos().Start)
	return &NameRedefinedError{
		Line:    line,
		Column:  column,
		Snippet: extractLine(source, line),
		Name:    compileString(name),
	}
}

func (c *compiler) proportionForIngredientError(ref *ast.Reference) *ProportionGivenForIngredientError {
	source := c.sources[c.block]
	line, column := lineColumnAt(source, ref.Pos().Start)
	return &ProportionGivenForIngredientError{
		Line:    line,
		Column:  column,
		Snippet: extractLine(source, line),
		Name:    compileString(ref.Name),
	}
}
