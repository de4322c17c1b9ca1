// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package recipegrid compiles recipe descriptions written in the recipe
// grid language into recipe trees and renders them as tables.
//
// A recipe is compiled from one or more source blocks. Each block is a
// sequence of statements and every statement describes an ingredient, a
// processing step or a sub recipe definition. Compile returns one
// *recipe.Recipe per block; later blocks may refer to sub recipes
// defined in earlier blocks.
package recipegrid

import (
	"github.com/recipegrid/recipegrid/ast"
	"github.com/recipegrid/recipegrid/internal/compiler"
	"github.com/recipegrid/recipegrid/recipe"
	"github.com/recipegrid/recipegrid/units"
)

// SyntaxError represents a syntax error in a recipe source.
type SyntaxError = compiler.SyntaxError

// CompileError represents an error found while compiling a
// syntactically valid recipe.
type CompileError = compiler.CompileError

// NameRedefinedError is returned when a sub recipe output name is
// defined twice.
type NameRedefinedError = compiler.NameRedefinedError

// ProportionGivenForIngredientError is returned when a proportion is
// given for a name which is not a sub recipe output.
type ProportionGivenForIngredientError = compiler.ProportionGivenForIngredientError

// Compile compiles the given recipe sources into recipes, one per
// source. Sources are compiled in order and a source may refer to sub
// recipes defined in the sources before it.
//
// Units are resolved against the built in unit system. If a source
// contains a syntax error, Compile returns a *SyntaxError; other
// compilation failures are returned as a CompileError.
func Compile(sources []string) ([]*recipe.Recipe, error) {
	return compiler.Compile(sources, units.Default)
}

// CompileWith is like Compile but uses the given unit system. A nil
// system falls back to the built in one.
func CompileWith(sources []string, sys *units.System) ([]*recipe.Recipe, error) {
	return compiler.Compile(sources, sys)
}

// Parse parses a recipe source and returns its syntax tree without
// compiling it. If the source is not syntactically valid, Parse returns
// a *SyntaxError.
func Parse(source string) (*ast.Recipe, error) {
	return compiler.ParseRecipe(source, units.Default)
}
