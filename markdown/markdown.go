// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package markdown compiles recipes embedded in markdown documents.
//
// A recipe grid markdown document is an ordinary markdown document whose
// code blocks contain recipe sources. Indented code blocks, and fenced
// code blocks annotated with "recipe" or "new-recipe", compile together
// into a chain of recipe blocks sharing a namespace; a "new-recipe"
// fenced block starts a fresh, independent chain. Outside code blocks,
// curly-bracket expressions such as "a {20cm} tin" mark values that scale
// along with the recipe, and a serving count in the document's first
// heading, such as "Lasagne for 4", lets the document be rescaled to a
// different number of servings.
//
// Compile parses and compiles a document once; the resulting Recipe then
// renders at any number of scales.
package markdown

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	gmrenderer "github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/recipegrid/recipegrid/internal/compiler"
	"github.com/recipegrid/recipegrid/number"
	"github.com/recipegrid/recipegrid/recipe"
	"github.com/recipegrid/recipegrid/renderer"
	"github.com/recipegrid/recipegrid/units"
)

// A Recipe is a compiled recipe grid markdown document, ready to render
// at any scale.
type Recipe struct {
	// HTML is the rendered document with placeholder strings standing in
	// for the recipe tables, the scaled values and the title markers.
	// Render substitutes them.
	HTML string

	// Title is the unescaped text of the document's first heading, when
	// that heading is an H1 containing no markup. Otherwise empty.
	Title string

	// Servings is the serving count found in the title, or 0 when the
	// title does not state one.
	Servings int

	sys *units.System

	preTitle  string
	postTitle string

	scaledValues []scaledValuePlaceholder
	recipeBlocks []recipePlaceholder
}

type scaledValuePlaceholder struct {
	placeholder string
	value       recipe.ScaledValueString
}

type recipePlaceholder struct {
	placeholder string
	block       *recipe.Recipe
}

// Compile compiles the recipes embedded in a markdown document using the
// default unit system.
func Compile(source string) (*Recipe, error) {
	return CompileWith(source, units.Default)
}

// CompileWith is like Compile but converts quantities with sys. A nil sys
// falls back to the built in unit system.
func CompileWith(source string, sys *units.System) (*Recipe, error) {
	if sys == nil {
		sys = units.Default
	}
	out := &Recipe{sys: sys}
	b := &builder{out: out}
	md := goldmark.New(
		goldmark.WithParserOptions(
			parser.WithInlineParsers(util.Prioritized(&scaledValueParser{}, 150)),
		),
		goldmark.WithRendererOptions(
			gmrenderer.WithNodeRenderers(util.Prioritized(b, 100)),
			gmhtml.WithUnsafe(),
		),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return nil, err
	}
	out.HTML = buf.String()
	b.extractTitle()

	for _, group := range b.groups {
		sources := make([]string, len(group))
		for i, block := range group {
			sources[i] = block.lineCorrectedSource()
		}
		compiled, err := compiler.Compile(sources, sys)
		if err != nil {
			return nil, err
		}
		for i, block := range group {
			out.recipeBlocks = append(out.recipeBlocks,
				recipePlaceholder{block.placeholder, compiled[i]})
		}
	}
	return out, nil
}

// Recipes returns the compiled recipe blocks of the document, grouped
// into independent recipes. Blocks within a group share a namespace, in
// document order.
func (r *Recipe) Recipes() [][]*recipe.Recipe {
	var groups [][]*recipe.Recipe
	for _, rb := range r.recipeBlocks {
		if rb.block.Follows == nil {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], rb.block)
	}
	return groups
}

// Render renders the document as HTML with every recipe and scaled value
// multiplied by scale. A scale of one renders the document as written.
func (r *Recipe) Render(scale number.Number) string {
	out := r.HTML
	for _, sv := range r.scaledValues {
		out = strings.Replace(out, sv.placeholder,
			renderer.RenderString(sv.value.Scale(scale)), 1)
	}

	recipeIndex := 0
	for _, rb := range r.recipeBlocks {
		if rb.block.Follows == nil {
			recipeIndex++
		}
		prefix := "recipe-"
		if recipeIndex > 1 {
			prefix = "recipe" + strconv.Itoa(recipeIndex) + "-"
		}
		h := &renderer.HTML{Units: r.sys, IDPrefix: prefix}
		var tables strings.Builder
		for _, tree := range rb.block.Scale(scale).Trees {
			tables.WriteString(h.RenderTree(tree))
		}
		out = strings.Replace(out, rb.placeholder,
			recipeBlockDiv(tables.String()), 1)
	}

	if r.preTitle != "" {
		out = strings.Replace(out, r.preTitle, "<header>", 1)
		post := "</header>"
		if !scale.Equal(number.Int(1)) {
			post = r.renderScaledNotice(scale) + post
		}
		out = strings.Replace(out, r.postTitle, post, 1)
	}
	return out
}

// renderScaledNotice renders the note shown under a rescaled title.
func (r *Recipe) renderScaledNotice(scale number.Number) string {
	if r.Servings > 0 {
		plural := "s"
		if r.Servings == 1 {
			plural = ""
		}
		return `<p>Rescaled from <span class="rg-original-servings">` +
			strconv.Itoa(r.Servings) + ` serving` + plural + `</span>.</p>`
	}
	return `<p>Scaled <span class="rg-scaling-factor">` +
		renderer.RenderNumber(scale) + `&times;</span></p>`
}

func recipeBlockDiv(body string) string {
	body = strings.TrimRight(body, " \t\n")
	if body == "" {
		return `<div class="rg-recipe-block"></div>`
	}
	var out strings.Builder
	out.WriteString(`<div class="rg-recipe-block">` + "\n")
	for _, line := range strings.Split(body, "\n") {
		if line != "" {
			out.WriteString("  ")
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	out.WriteString("</div>")
	return out.String()
}

