// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

import (
	"bytes"
	"html"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	gmrenderer "github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/recipegrid/recipegrid/number"
	"github.com/recipegrid/recipegrid/recipe"
)

// newPlaceholder returns a long random string to temporarily insert into
// the rendered HTML and later substitute for a compiled recipe table or a
// rescaled value.
func newPlaceholder() string {
	var b [32]byte
	for i := range b {
		b[i] = 'A' + byte(rand.IntN(26))
	}
	return "%" + string(b[:]) + "%"
}

// Scaled value expressions are curly-bracket enclosed strings whose
// decimal and fraction literals are scaled along with the recipe, e.g.
// "bake in a {20cm} by {30cm} tin".
var (
	scaledValueExprPattern = regexp.MustCompile(
		`^\{(?:(?:[0-9]+[ \t]+)?[0-9]+[ \t]*/[ \t]*[0-9]+` +
			`|[0-9]+(?:\.[0-9]*)?` +
			`|\\.` +
			`|[^0-9{}])*\}`)
	scaledValuePartPattern = regexp.MustCompile(
		`(?:([0-9]+)[ \t]+)?([0-9]+)[ \t]*/[ \t]*([0-9]+)` +
			`|([0-9]+(?:\.[0-9]*)?)` +
			`|\\(.)` +
			`|([^0-9{}])`)
)

// parseScaledValue parses the body of a curly-bracket scaled value
// expression. Fractions and decimals become scaled values; everything
// else, including backslash escaped characters, passes through as text.
func parseScaledValue(body string) recipe.ScaledValueString {
	var parts []recipe.StringPart
	var pending strings.Builder
	flush := func() {
		if pending.Len() > 0 {
			parts = append(parts, recipe.StringPart{Text: pending.String()})
			pending.Reset()
		}
	}
	for _, m := range scaledValuePartPattern.FindAllStringSubmatch(body, -1) {
		switch {
		case m[2] != "":
			num, _ := strconv.ParseInt(m[2], 10, 64)
			den, _ := strconv.ParseInt(m[3], 10, 64)
			if den == 0 {
				pending.WriteString(m[0])
				continue
			}
			value := number.Frac(num, den)
			if m[1] != "" {
				whole, _ := strconv.ParseInt(m[1], 10, 64)
				value = value.Add(number.Int(whole))
			}
			flush()
			parts = append(parts, recipe.StringPart{Value: value, IsValue: true})
		case m[4] != "":
			var value number.Number
			if strings.Contains(m[4], ".") {
				f, _ := strconv.ParseFloat(m[4], 64)
				value = number.Float(f)
			} else {
				i, _ := strconv.ParseInt(m[4], 10, 64)
				value = number.Int(i)
			}
			flush()
			parts = append(parts, recipe.StringPart{Value: value, IsValue: true})
		case m[5] != "":
			pending.WriteString(m[5])
		default:
			pending.WriteString(m[6])
		}
	}
	flush()
	return recipe.FromParts(parts)
}

var scaledValueKind = gast.NewNodeKind("ScaledValue")

// scaledValueNode is the inline AST node for a curly-bracket scaled value
// expression.
type scaledValueNode struct {
	gast.BaseInline
	value recipe.ScaledValueString
}

func (n *scaledValueNode) Kind() gast.NodeKind { return scaledValueKind }

func (n *scaledValueNode) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{
		"Value": n.value.String(),
	}, nil)
}

// scaledValueParser parses curly-bracket scaled value expressions.
type scaledValueParser struct{}

func (p *scaledValueParser) Trigger() []byte { return []byte{'{'} }

func (p *scaledValueParser) Parse(parent gast.Node, block text.Reader, pc parser.Context) gast.Node {
	line, _ := block.PeekLine()
	m := scaledValueExprPattern.Find(line)
	if m == nil {
		return nil
	}
	block.Advance(len(m))
	return &scaledValueNode{value: parseScaledValue(string(m[1 : len(m)-1]))}
}

// sourceBlock is one recipe-containing code block found in a document.
type sourceBlock struct {
	placeholder string
	source      string
	// line is the 1-based line number of the first code line, or 0 when
	// the block is empty.
	line int
	// newRecipe marks a block which starts a new, independent recipe
	// with its own namespace.
	newRecipe bool
}

// lineCorrectedSource returns the block's source with newlines prepended
// so that line numbers in compiler errors match the markdown document.
func (b *sourceBlock) lineCorrectedSource() string {
	if b.line <= 1 {
		return b.source
	}
	return strings.Repeat("\n", b.line-1) + b.source
}

// builder renders a parsed markdown document, capturing recipe code
// blocks, scaled value expressions and the title as it goes. Recipe code
// blocks and scaled value expressions render as placeholder strings which
// Recipe.Render later substitutes.
type builder struct {
	out *Recipe
	// groups collects the captured recipe source blocks into consecutive
	// runs, each starting with a "new-recipe" block (or the first block
	// in the document).
	groups [][]*sourceBlock
}

func (b *builder) RegisterFuncs(reg gmrenderer.NodeRendererFuncRegisterer) {
	reg.Register(scaledValueKind, b.renderScaledValue)
	reg.Register(gast.KindFencedCodeBlock, b.renderFencedCode)
	reg.Register(gast.KindCodeBlock, b.renderCodeBlock)
}

func (b *builder) renderScaledValue(w util.BufWriter, source []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	if entering {
		placeholder := newPlaceholder()
		n := node.(*scaledValueNode)
		b.out.scaledValues = append(b.out.scaledValues,
			scaledValuePlaceholder{placeholder, n.value})
		w.WriteString(placeholder)
	}
	return gast.WalkContinue, nil
}

// renderFencedCode captures fenced code blocks annotated with "recipe" or
// "new-recipe" as recipe sources. Other fenced blocks render as ordinary
// code.
func (b *builder) renderFencedCode(w util.BufWriter, source []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	n := node.(*gast.FencedCodeBlock)
	language := string(n.Language(source))
	if language == "recipe" || language == "new-recipe" {
		if entering {
			b.captureSourceBlock(w, source, n, language == "new-recipe")
		}
		return gast.WalkContinue, nil
	}
	if entering {
		w.WriteString("<pre><code")
		if language != "" {
			w.WriteString(` class="language-`)
			gmhtml.DefaultWriter.Write(w, n.Language(source))
			w.WriteString(`"`)
		}
		w.WriteByte('>')
		writeRawLines(w, source, n)
	} else {
		w.WriteString("</code></pre>\n")
	}
	return gast.WalkContinue, nil
}

// renderCodeBlock captures indented code blocks, which are always treated
// as recipe sources.
func (b *builder) renderCodeBlock(w util.BufWriter, source []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	if entering {
		b.captureSourceBlock(w, source, node, false)
	}
	return gast.WalkContinue, nil
}

func (b *builder) captureSourceBlock(w util.BufWriter, source []byte, node gast.Node, newRecipe bool) {
	var code bytes.Buffer
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		code.Write(segment.Value(source))
	}
	line := 0
	if lines.Len() > 0 {
		line = bytes.Count(source[:lines.At(0).Start], []byte("\n")) + 1
	}
	block := &sourceBlock{
		placeholder: newPlaceholder(),
		source:      code.String(),
		line:        line,
		newRecipe:   newRecipe,
	}
	if newRecipe || len(b.groups) == 0 {
		b.groups = append(b.groups, nil)
	}
	b.groups[len(b.groups)-1] = append(b.groups[len(b.groups)-1], block)
	w.WriteString(block.placeholder)
}

func writeRawLines(w util.BufWriter, source []byte, node gast.Node) {
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		gmhtml.DefaultWriter.RawWrite(w, segment.Value(source))
	}
}

var (
	headingPattern = regexp.MustCompile(`(?s)<h([1-6])[^>]*>(.*?)</h[1-6]>`)

	// servingCountPattern finds a trailing preposition and serving count
	// in a title, e.g. in "Spam for 2" it finds "for " and "2".
	servingCountPattern = regexp.MustCompile(
		`(?i)((?:(?:to\s+)?serves?|for|makes|serving)\s+)([0-9]+)\s*$`)
)

// extractTitle captures the document's first heading as the recipe title
// when it is an H1 containing neither markup nor scaled values. A serving
// count in the title is replaced by a scaled value placeholder so that
// rescaled renderings update it.
func (b *builder) extractTitle() {
	out := b.out
	loc := headingPattern.FindStringSubmatchIndex(out.HTML)
	if loc == nil || out.HTML[loc[2]:loc[3]] != "1" {
		return
	}
	title := out.HTML[loc[4]:loc[5]]
	if strings.ContainsAny(title, "<%") {
		return
	}

	class := "rg-title-unscalable"
	heading := title
	if m := servingCountPattern.FindStringSubmatchIndex(title); m == nil {
		out.Title = html.UnescapeString(strings.TrimSpace(title))
	} else {
		out.Title = html.UnescapeString(strings.TrimSpace(title[:m[0]]))
		out.Servings, _ = strconv.Atoi(title[m[4]:m[5]])
		placeholder := newPlaceholder()
		out.scaledValues = append(out.scaledValues, scaledValuePlaceholder{
			placeholder, recipe.Value(number.Int(int64(out.Servings))),
		})
		heading = title[:m[0]] + `<span class="rg-serving-count">` +
			title[m[2]:m[3]] + placeholder + `</span>`
		class = "rg-title-scalable"
	}

	out.preTitle = newPlaceholder()
	out.postTitle = newPlaceholder()
	out.HTML = out.HTML[:loc[0]] +
		out.preTitle +
		`<h1 class="` + class + `">` + heading + `</h1>` +
		out.postTitle +
		out.HTML[loc[1]:]
}
