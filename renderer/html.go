// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package renderer

import (
	"html"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/recipegrid/recipegrid/number"
	"github.com/recipegrid/recipegrid/recipe"
	"github.com/recipegrid/recipegrid/table"
	"github.com/recipegrid/recipegrid/units"
)

// DefaultIDPrefix is the prefix added to sub recipe anchor ids when HTML
// does not specify one.
const DefaultIDPrefix = "sub-recipe-"

// HTML renders recipe tree tables as HTML.
//
// The generated markup carries "rg-" prefixed CSS classes which a
// stylesheet should style: "rg-table" on every table, semantic cell
// classes ("rg-ingredient", "rg-reference", "rg-step",
// "rg-sub-recipe-header", "rg-sub-recipe-outputs"), border classes
// ("rg-border-<edge>-none", "rg-border-<edge>-sub-recipe" on both sides
// of every non-default border) and inline span classes for quantities,
// proportions and scaled values. Quantities in known units carry a
// nested <ul class="rg-quantity-conversions"> listing the value in the
// alternative units, which a stylesheet may show as a hint or hide.
type HTML struct {
	// Units supplies the unit conversions listed against quantities.
	// If nil, no conversion lists are generated.
	Units *units.System

	// IDPrefix is prepended to every sub recipe anchor id. When a page
	// contains several independent recipes, give each a distinct prefix
	// so that their anchors do not collide. Empty means DefaultIDPrefix.
	IDPrefix string
}

// RenderTree renders a recipe tree as an HTML table.
func (h *HTML) RenderTree(tree recipe.Node) string {
	id := ""
	if sub, ok := tree.(*recipe.SubRecipe); ok && len(sub.OutputNames) == 1 {
		id = h.outputID(sub, 0)
	}
	return h.RenderTable(RecipeTreeToTable(tree), id)
}

// RenderTable renders a laid out recipe table as HTML. A non-empty id is
// set verbatim as the id attribute of the <table> element.
func (h *HTML) RenderTable(t *table.Table[recipe.Node], id string) string {
	rows := make([]string, t.Rows())
	for r := range rows {
		var cells []string
		for c := 0; c < t.Columns(); c++ {
			if cell, ok := t.At(r, c).(*table.Cell[recipe.Node]); ok {
				cells = append(cells, h.renderCell(cell))
			}
		}
		rows[r] = element("tr", strings.Join(cells, "\n"))
	}
	attrs := []attribute{{"class", "rg-table"}}
	if id != "" {
		attrs = append(attrs, attribute{"id", id})
	}
	return element("table", strings.Join(rows, "\n"), attrs...)
}

func (h *HTML) renderCell(cell *table.Cell[recipe.Node]) string {
	var class []string
	var body string
	switch n := cell.Value.(type) {
	case *recipe.Ingredient:
		class = append(class, "rg-ingredient")
		body = h.renderIngredient(n)
	case *recipe.Reference:
		class = append(class, "rg-reference")
		body = h.renderReference(n)
	case *recipe.Step:
		class = append(class, "rg-step")
		body = RenderString(n.Description)
	case *recipe.SubRecipe:
		if len(n.OutputNames) == 1 {
			class = append(class, "rg-sub-recipe-header")
			body = RenderString(n.OutputNames[0])
		} else {
			class = append(class, "rg-sub-recipe-outputs")
			body = h.renderOutputList(n)
		}
	}

	for _, edge := range [...]struct {
		name   string
		border table.BorderType
	}{
		{"left", cell.BorderLeft},
		{"right", cell.BorderRight},
		{"top", cell.BorderTop},
		{"bottom", cell.BorderBottom},
	} {
		switch edge.border {
		case table.BorderNone:
			class = append(class, "rg-border-"+edge.name+"-none")
		case table.BorderSubRecipe:
			class = append(class, "rg-border-"+edge.name+"-sub-recipe")
		}
	}

	attrs := []attribute{{"class", strings.Join(class, " ")}}
	if cell.Columns != 1 {
		attrs = append(attrs, attribute{"colspan", strconv.Itoa(cell.Columns)})
	}
	if cell.Rows != 1 {
		attrs = append(attrs, attribute{"rowspan", strconv.Itoa(cell.Rows)})
	}
	return element("td", body, attrs...)
}

func (h *HTML) renderIngredient(ing *recipe.Ingredient) string {
	quantity := ""
	if ing.Quantity != nil {
		quantity = h.renderQuantity(*ing.Quantity) + " "
	}
	return quantity + RenderString(ing.Description)
}

func (h *HTML) renderReference(ref *recipe.Reference) string {
	amount := ""
	switch a := ref.Amount.(type) {
	case recipe.Quantity:
		amount = h.renderQuantity(a) + " "
	case recipe.Proportion:
		if a.Value == nil || !a.Value.Equal(number.Int(1)) {
			amount = renderProportion(a) + " "
		}
	}
	return element("a", amount+RenderString(ref.Name()),
		attribute{"href", "#" + h.outputID(ref.SubRecipe, ref.OutputIndex)})
}

func (h *HTML) renderOutputList(sub *recipe.SubRecipe) string {
	items := make([]string, len(sub.OutputNames))
	for i, name := range sub.OutputNames {
		items[i] = element("li", RenderString(name),
			attribute{"id", h.outputID(sub, i)})
	}
	return element("ul", strings.Join(items, "\n"),
		attribute{"class", "rg-sub-recipe-output-list"})
}

// renderQuantity renders a quantity together with, for known units, the
// list of its values in the other units of the same set. The unit the
// quantity was written in always comes first, in its source spelling,
// followed by the units reachable by a whole-number conversion and then
// the rest, each group in name order.
func (h *HTML) renderQuantity(q recipe.Quantity) string {
	if q.Unit == "" {
		return element("span", RenderNumber(q.Value),
			attribute{"class", "rg-quantity-unitless rg-scaled-value"}) +
			html.EscapeString(q.Preposition)
	}

	forms := []string{
		RenderNumber(q.Value) +
			html.EscapeString(q.ValueUnitSpacing) +
			html.EscapeString(q.Unit),
	}
	if h.Units != nil {
		if conversions, err := h.Units.ConversionsFrom(q.Unit); err == nil {
			one := number.Int(1)
			sort.Slice(conversions, func(i, j int) bool {
				ci, cj := conversions[i], conversions[j]
				if a, b := !ci.Factor.Equal(one), !cj.Factor.Equal(one); a != b {
					return !a
				}
				a := ci.Factor.Kind() == number.KindFloat
				b := cj.Factor.Kind() == number.KindFloat
				if a != b {
					return !a
				}
				return ci.Unit.Name() < cj.Unit.Name()
			})
			for _, c := range conversions {
				forms = append(forms,
					RenderNumber(q.Value.Mul(c.Factor))+
						html.EscapeString(q.ValueUnitSpacing)+
						html.EscapeString(c.Unit.Name()))
			}
		}
	}

	if len(forms) == 1 {
		return element("span", forms[0],
			attribute{"class", "rg-quantity-without-conversions rg-scaled-value"}) +
			html.EscapeString(q.Preposition)
	}
	items := make([]string, len(forms)-1)
	for i, form := range forms[1:] {
		items[i] = element("li", form)
	}
	return element("span",
		forms[0]+element("ul", strings.Join(items, "\n"),
			attribute{"class", "rg-quantity-conversions"}),
		attribute{"class", "rg-quantity-with-conversions rg-scaled-value"},
		attribute{"tabindex", "0"},
	) + html.EscapeString(q.Preposition)
}

func renderProportion(p recipe.Proportion) string {
	if p.Value == nil {
		return element("span",
			html.EscapeString(p.RemainderWording+p.Preposition),
			attribute{"class", "rg-proportion-remainder"})
	}
	value := *p.Value
	if p.Percentage {
		value = value.Mul(number.Int(100))
	}
	preposition := strings.ReplaceAll(
		html.EscapeString(p.Preposition), "*", "&times;")
	return element("span", RenderNumber(value)+preposition,
		attribute{"class", "rg-proportion"})
}

// RenderString renders a scaled value string as HTML, wrapping every
// scaled value in a span carrying the rg-scaled-value class.
func RenderString(s recipe.ScaledValueString) string {
	return s.Render(
		func(n number.Number) string {
			return element("span", RenderNumber(n),
				attribute{"class", "rg-scaled-value"})
		},
		html.EscapeString,
	)
}

var fractionPattern = regexp.MustCompile(`^((?:\d+ )?)(\d+)/(\d+)$`)

// RenderNumber formats a number, typesetting fractions with superscript
// and subscript markup ("1 3/4" becomes "1 <sup>3</sup>&frasl;<sub>4</sub>").
func RenderNumber(n number.Number) string {
	s := number.Format(n)
	m := fractionPattern.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	return m[1] + element("sup", m[2]) + "&frasl;" + element("sub", m[3])
}

var idUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// outputID returns the anchor id identifying one output of a sub recipe.
func (h *HTML) outputID(sub *recipe.SubRecipe, index int) string {
	prefix := h.IDPrefix
	if prefix == "" {
		prefix = DefaultIDPrefix
	}
	name := sub.OutputNames[index].String()
	return prefix + strings.Trim(idUnsafe.ReplaceAllString(name, "-"), "-")
}

type attribute struct {
	name  string
	value string
}

// element generates an HTML element. Multi line bodies are indented on
// lines of their own so that nested tables stay readable.
func element(tag, body string, attrs ...attribute) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(tag)
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.name)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.value))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	if strings.Contains(body, "\n") {
		body = "\n" + indent(body, "  ") + "\n"
	}
	b.WriteString(body)
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
	return b.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.TrimRight(strings.Join(lines, "\n"), " \t\n")
}
