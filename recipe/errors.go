// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package recipe

import "fmt"

// InvariantError is implemented by the errors returned when a constructor
// would violate an invariant of the recipe data structure. Compiled recipes
// never trigger these: they exist as a safety net for direct programmatic
// construction.
type InvariantError interface {
	error
	invariantError()
}

// MultiOutputSubRecipeUsedAsNonRootError is returned when a SubRecipe with
// more than one named output is added as a non-root node of a recipe tree.
type MultiOutputSubRecipeUsedAsNonRootError struct {
	SubRecipe *SubRecipe
}

func (e *MultiOutputSubRecipeUsedAsNonRootError) Error() string {
	return "recipe: a sub recipe with multiple outputs may only be the root of a recipe tree"
}

func (*MultiOutputSubRecipeUsedAsNonRootError) invariantError() {}

// ZeroOutputSubRecipeError is returned when a SubRecipe is defined with no
// named outputs.
type ZeroOutputSubRecipeError struct{}

func (e *ZeroOutputSubRecipeError) Error() string {
	return "recipe: a sub recipe must have at least one output name"
}

func (*ZeroOutputSubRecipeError) invariantError() {}

// OutputIndexError is returned when a Reference refers to an output which
// does not exist in the referenced SubRecipe.
type OutputIndexError struct {
	SubRecipe   *SubRecipe
	OutputIndex int
}

func (e *OutputIndexError) Error() string {
	return fmt.Sprintf("recipe: output index %d out of range (sub recipe has %d outputs)",
		e.OutputIndex, len(e.SubRecipe.OutputNames))
}

func (*OutputIndexError) invariantError() {}

// ReferenceToInvalidSubRecipeError is returned when a Reference refers to a
// SubRecipe which is not the root of a preceding recipe tree in the same
// Recipe or its follows chain.
type ReferenceToInvalidSubRecipeError struct {
	Reference *Reference
}

func (e *ReferenceToInvalidSubRecipeError) Error() string {
	name := e.Reference.SubRecipe.OutputNames[e.Reference.OutputIndex]
	return fmt.Sprintf("recipe: reference to %q does not refer to the root of a preceding recipe tree",
		name.String())
}

func (*ReferenceToInvalidSubRecipeError) invariantError() {}
