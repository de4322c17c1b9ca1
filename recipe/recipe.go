// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package recipe

import (
	"github.com/recipegrid/recipegrid/number"
)

// Recipe is a compiled recipe block: an ordered series of recipe trees.
// Later trees may reference the outputs of earlier trees, giving the whole
// a DAG structure. A Recipe may follow another, in which case its trees may
// also reference sub recipes rooted in any block of the follows chain.
type Recipe struct {
	Trees   []Node
	Follows *Recipe // nil for the first block
}

// NewRecipe returns a Recipe holding the given trees. It returns a
// ReferenceToInvalidSubRecipeError if any Reference in the trees does not
// point to a SubRecipe which is the root of a preceding tree in this Recipe
// or in the follows chain.
func NewRecipe(trees []Node, follows *Recipe) (*Recipe, error) {
	var previousRoots []*SubRecipe
	for prior := follows; prior != nil; prior = prior.Follows {
		for _, tree := range prior.Trees {
			if sr, ok := tree.(*SubRecipe); ok {
				previousRoots = append(previousRoots, sr)
			}
		}
	}

	for _, root := range trees {
		if err := checkReferences(root, previousRoots); err != nil {
			return nil, err
		}
		if sr, ok := root.(*SubRecipe); ok {
			previousRoots = append(previousRoots, sr)
		}
	}

	return &Recipe{Trees: trees, Follows: follows}, nil
}

// checkReferences walks the tree rooted at node, without descending through
// the children of References, and checks every Reference found against the
// given sub recipe roots.
func checkReferences(node Node, roots []*SubRecipe) error {
	if ref, ok := node.(*Reference); ok {
		for _, root := range roots {
			if ref.SubRecipe.Equal(root) {
				return nil
			}
		}
		return &ReferenceToInvalidSubRecipeError{Reference: ref}
	}
	for _, child := range node.Children() {
		if err := checkReferences(child, roots); err != nil {
			return err
		}
	}
	return nil
}

// Scale returns a copy of the recipe, and of its whole follows chain, with
// every quantity and scalable string multiplied by factor.
func (r *Recipe) Scale(factor number.Number) *Recipe {
	if r == nil {
		return nil
	}
	trees := make([]Node, len(r.Trees))
	for i, tree := range r.Trees {
		trees[i] = tree.Scale(factor)
	}
	return &Recipe{Trees: trees, Follows: r.Follows.Scale(factor)}
}

// Equal reports structural equality of r and other, including their
// follows chains.
func (r *Recipe) Equal(other *Recipe) bool {
	if r == nil || other == nil {
		return r == other
	}
	if len(r.Trees) != len(other.Trees) {
		return false
	}
	for i, tree := range r.Trees {
		if !tree.Equal(other.Trees[i]) {
			return false
		}
	}
	return r.Follows.Equal(other.Follows)
}
