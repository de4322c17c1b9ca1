// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package site

import (
	"html/template"
	"path/filepath"

	"github.com/recipegrid/recipegrid/number"
)

// StandaloneOptions control the rendering of a single-file recipe page.
type StandaloneOptions struct {
	// Scale multiplies all quantities in the recipe. When nil, the
	// scale is derived from Servings, or defaults to one.
	Scale *number.Number

	// Servings scales the recipe to the given serving count. It
	// requires the recipe to declare its native serving count, and is
	// ignored when Scale is set.
	Servings int

	// EmbedLocalLinks replaces links to local files with data URLs so
	// the page remains self-contained.
	EmbedLocalLinks bool
}

// GenerateStandalonePage renders the recipe markdown file at inputFile
// as a complete, self-contained HTML page.
func GenerateStandalonePage(inputFile string, opts StandaloneOptions) (string, error) {
	requireServings := opts.Scale == nil && opts.Servings > 0
	compiled, err := CompileRecipeFile(inputFile, false, requireServings)
	if err != nil {
		return "", err
	}

	scale := number.Int(1)
	switch {
	case opts.Scale != nil:
		scale = *opts.Scale
	case opts.Servings > 0:
		scale = number.Int(int64(opts.Servings)).DivExact(number.Int(int64(compiled.Servings)))
	}

	body := compiled.Render(scale)
	if opts.EmbedLocalLinks {
		body, err = postprocess(body,
			embedLocalLinksAsDataURLs(inputFile, filepath.Dir(inputFile)))
		if err != nil {
			return "", err
		}
	}

	title := compiled.Title
	if title == "" {
		title = "Recipe"
	}
	return executeTemplate("standalone_recipe.html", map[string]any{
		"Title": title,
		"CSS":   template.CSS(TablesCSS),
		"Body":  template.HTML(body),
	})
}
