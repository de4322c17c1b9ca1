// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compiler implements parsing of recipe sources into trees of the
// ast package and compilation of those trees into the recipe data model.
package compiler

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/recipegrid/recipegrid/ast"
	"github.com/recipegrid/recipegrid/number"
	"github.com/recipegrid/recipegrid/units"
)

// Expectation descriptions shared by several productions. A statement and
// an expression can start with the same tokens, so they share a composite
// description.
const (
	expectedStmt = "<action> or <ingredient> or <quantity>"
	expectedLtr  = "<ingredient> or <quantity>"
)

// remainderWords are the words which denote "whatever is left" of a sub
// recipe output, longest first.
var remainderWords = []string{"left over", "remaining", "remainder", "rest"}

// ParseRecipe parses a recipe source into an AST. Unit names in implicit
// quantities (e.g. the "g" of "250g flour") are recognised against sys;
// a nil sys means units.Default.
func ParseRecipe(src string, sys *units.System) (*ast.Recipe, error) {
	if sys == nil {
		sys = units.Default
	}
	p := &parser{
		src:        src,
		line:       1,
		col:        1,
		unitNames:  sys.Names(),
		failOff:    -1,
		expected:   make(map[string]bool),
		lastResort: make(map[string]bool),
	}
	p.skipSp()
	var stmts []*ast.Stmt
	for {
		stmt, ok := p.parseStmt()
		if !ok {
			return nil, p.syntaxError()
		}
		stmts = append(stmts, stmt)
		p.skipSp()
		if p.eof() {
			break
		}
	}
	return ast.NewRecipe(stmts), nil
}

type parser struct {
	src  string
	off  int
	line int
	col  int

	unitNames []string // known unit names, longest first

	// The furthest failure reached so far and the descriptions of what was
	// expected there. Expectations recorded behind the frontier are
	// dropped: only the deepest failures explain what went wrong.
	failOff    int
	failLine   int
	failCol    int
	expected   map[string]bool
	lastResort map[string]bool
}

// state is a savepoint of the reading position.
type state struct {
	off, line, col int
}

func (p *parser) save() state { return state{p.off, p.line, p.col} }

func (p *parser) restore(s state) { p.off, p.line, p.col = s.off, s.line, s.col }

func (p *parser) eof() bool { return p.off >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.off]
}

// advance moves the reading position n bytes forward, tracking line and
// column. Columns count characters, so UTF-8 continuation bytes do not
// advance the column.
func (p *parser) advance(n int) {
	for i := 0; i < n; i++ {
		b := p.src[p.off]
		p.off++
		if b == '\n' {
			p.line++
			p.col = 1
		} else if b&0xc0 != 0x80 {
			p.col++
		}
	}
}

// span returns the position of the text between from and the current
// reading position.
func (p *parser) span(from state) *ast.Position {
	return &ast.Position{Line: from.line, Column: from.col, Start: from.off, End: p.off - 1}
}

func (p *parser) record(label string, lastResort bool) {
	if p.off < p.failOff {
		return
	}
	if p.off > p.failOff {
		p.failOff, p.failLine, p.failCol = p.off, p.line, p.col
		p.expected = make(map[string]bool)
		p.lastResort = make(map[string]bool)
	}
	if lastResort {
		p.lastResort[label] = true
	} else {
		p.expected[label] = true
	}
}

// expect records that label would have been valid at the current position.
func (p *parser) expect(label string) { p.record(label, false) }

// expectLastResort records an expectation only reported when nothing else
// was expected at the failure position, such as a line ending.
func (p *parser) expectLastResort(label string) { p.record(label, true) }

// labelled parses with fn, identified to the user as label. If fn fails
// without consuming anything, the expectations its parts recorded are
// collapsed into the single label: "<ingredient>" reads better than the
// char classes an ingredient name is made of. Expectations recorded past
// the starting position are kept, as they explain a partial parse.
func (p *parser) labelled(label string, fn func() bool) bool {
	startOff := p.off
	var before map[string]bool
	if p.failOff == startOff {
		before = make(map[string]bool, len(p.expected))
		for k := range p.expected {
			before[k] = true
		}
	}
	ok := fn()
	if !ok && p.failOff == startOff {
		if before == nil {
			before = make(map[string]bool)
		}
		before[label] = true
		p.expected = before
	}
	return ok
}

func (p *parser) syntaxError() *SyntaxError {
	labels := p.expected
	if len(labels) == 0 {
		labels = p.lastResort
	}
	expected := make([]string, 0, len(labels))
	for label := range labels {
		expected = append(expected, label)
	}
	sort.Strings(expected)
	line, col := p.failLine, p.failCol
	if p.failOff < 0 {
		line, col = p.line, p.col
	}
	return &SyntaxError{
		Line:     line,
		Column:   col,
		Snippet:  extractLine(p.src, line),
		Expected: expected,
	}
}

// literal consumes the byte c. On failure it records label, if not empty,
// and consumes nothing.
func (p *parser) literal(c byte, label string) bool {
	if !p.eof() && p.peek() == c {
		p.advance(1)
		return true
	}
	if label != "" {
		p.expect(label)
	}
	return false
}

// scanHsp consumes horizontal whitespace and returns its literal text.
func (p *parser) scanHsp() string {
	start := p.off
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t') {
		p.advance(1)
	}
	return p.src[start:p.off]
}

// skipSp consumes whitespace including line endings.
func (p *parser) skipSp() {
	for !p.eof() {
		switch p.peek() {
		case ' ', '\t', '\n', '\r':
			p.advance(1)
		default:
			return
		}
	}
}

// matchWord consumes word at the current position, comparing
// case-insensitively and only matching whole words: "of" does not match
// the start of "often".
func (p *parser) matchWord(word string) bool {
	end := p.off + len(word)
	if end > len(p.src) || !strings.EqualFold(p.src[p.off:end], word) {
		return false
	}
	if end < len(p.src) && isNameChar(p.src[end], true) {
		return false
	}
	p.advance(len(word))
	return true
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }

// isStructural reports whether b can never appear in an unquoted string.
func isStructural(b byte) bool {
	switch b {
	case '{', '}', '(', ')', ',', '=', ':', '*', '%', '/', '\'', '"', '\\', '\n', '\r':
		return true
	}
	return false
}

// isNameChar reports whether b may appear in an unquoted string. Digits
// are only allowed in action and output names; in ingredient names they
// would be ambiguous with quantities.
func isNameChar(b byte, digits bool) bool {
	if b == ' ' || b == '\t' || isStructural(b) {
		return false
	}
	if !digits && isDigit(b) {
		return false
	}
	return true
}

// stmt

func (p *parser) parseStmt() (stmt *ast.Stmt, ok bool) {
	p.labelled(expectedStmt, func() bool {
		start := p.save()
		outputs, named := p.tryOutputTarget()
		expr, eok := p.parseLtr()
		if !eok || !p.parseEol() {
			p.restore(start)
			return false
		}
		stmt, ok = ast.NewStmt(outputs, named, expr), true
		return true
	})
	return stmt, ok
}

// tryOutputTarget parses the "a, b =" or "a, b :=" prefix of a statement,
// if present.
func (p *parser) tryOutputTarget() (outputs []*ast.String, named bool) {
	start := p.save()
	first, ok := p.parseOutput()
	if !ok {
		p.restore(start)
		return nil, false
	}
	outputs = []*ast.String{first}
	for {
		save := p.save()
		p.scanHsp()
		if !p.literal(',', "','") {
			p.restore(save)
			break
		}
		p.scanHsp()
		out, ok := p.parseOutput()
		if !ok {
			p.restore(save)
			break
		}
		outputs = append(outputs, out)
	}
	p.scanHsp()
	switch {
	case strings.HasPrefix(p.src[p.off:], ":="):
		p.advance(2)
		named = true
	case p.peek() == '=':
		p.advance(1)
	default:
		p.expect("'=' or ':='")
		p.restore(start)
		return nil, false
	}
	p.scanHsp()
	return outputs, named
}

func (p *parser) parseOutput() (s *ast.String, ok bool) {
	p.labelled("<output>", func() bool {
		s, ok = p.parseString(true)
		return ok
	})
	return s, ok
}

func (p *parser) parseEol() bool {
	p.scanHsp()
	if p.eof() {
		return true
	}
	switch p.peek() {
	case '\n':
		p.advance(1)
		return true
	case '\r':
		p.advance(1)
		if p.peek() == '\n' {
			p.advance(1)
		}
		return true
	}
	p.expectLastResort("<newline>")
	return false
}

// expressions

// parseLtr parses an expression optionally followed by a left-to-right
// chain of steps: "spam, slice, cook" is cook(slice(spam)).
func (p *parser) parseLtr() (expr ast.Expr, ok bool) {
	p.labelled(expectedLtr, func() bool {
		expr, ok = p.parseExpr()
		if !ok {
			return false
		}
		for {
			save := p.save()
			p.scanHsp()
			if !p.literal(',', "','") {
				p.restore(save)
				break
			}
			p.skipSp()
			name, nok := p.parseAction()
			if !nok {
				p.restore(save)
				break
			}
			expr = ast.NewStep(name, []ast.Expr{expr})
		}
		return true
	})
	return expr, ok
}

func (p *parser) parseExpr() (expr ast.Expr, ok bool) {
	p.labelled(expectedStmt, func() bool {
		if step, sok := p.parseStep(); sok {
			expr, ok = step, true
		} else if ref, rok := p.parseReference(); rok {
			expr, ok = ref, true
		} else if par, pok := p.parseParenLtr(); pok {
			expr, ok = par, true
		}
		return ok
	})
	return expr, ok
}

func (p *parser) parseParenLtr() (ast.Expr, bool) {
	start := p.save()
	if !p.literal('(', "'('") {
		return nil, false
	}
	p.skipSp()
	expr, ok := p.parseLtr()
	if !ok {
		p.restore(start)
		return nil, false
	}
	p.skipSp()
	if !p.literal(')', "')'") {
		p.restore(start)
		return nil, false
	}
	return expr, true
}

func (p *parser) parseStep() (*ast.Step, bool) {
	start := p.save()
	name, ok := p.parseAction()
	if !ok {
		return nil, false
	}
	p.scanHsp()
	if !p.literal('(', "'('") {
		p.restore(start)
		return nil, false
	}
	p.skipSp()
	first, ok := p.parseExpr()
	if !ok {
		p.restore(start)
		return nil, false
	}
	inputs := []ast.Expr{first}
	for {
		save := p.save()
		p.skipSp()
		if !p.literal(',', "','") {
			p.restore(save)
			break
		}
		p.skipSp()
		in, ok := p.parseExpr()
		if !ok {
			p.restore(save)
			break
		}
		inputs = append(inputs, in)
	}
	// trailing comma
	save := p.save()
	p.skipSp()
	if !p.literal(',', "") {
		p.restore(save)
	}
	p.skipSp()
	if !p.literal(')', "')'") {
		p.restore(start)
		return nil, false
	}
	return ast.NewStep(name, inputs), true
}

func (p *parser) parseAction() (s *ast.String, ok bool) {
	p.labelled("<action>", func() bool {
		s, ok = p.parseString(true)
		return ok
	})
	return s, ok
}

func (p *parser) parseReference() (*ast.Reference, bool) {
	start := p.save()
	var amount ast.Amount
	if prop, ok := p.parseProportion(); ok {
		amount = prop
	} else if q, ok := p.parseQuantity(); ok {
		amount = q
	}
	if amount != nil {
		p.scanHsp()
	}
	name, ok := p.parseIngredientName()
	if !ok && amount != nil {
		// "remaining" on its own is an ingredient name, not a proportion.
		p.restore(start)
		amount = nil
		name, ok = p.parseIngredientName()
	}
	if !ok {
		p.restore(start)
		return nil, false
	}
	return ast.NewReference(name, amount), true
}

func (p *parser) parseIngredientName() (s *ast.String, ok bool) {
	p.labelled("<ingredient>", func() bool {
		s, ok = p.parseString(false)
		return ok
	})
	return s, ok
}

// amounts

func (p *parser) parseProportion() (*ast.Proportion, bool) {
	start := p.save()
	for _, w := range remainderWords {
		if p.matchWord(w) {
			wording := p.src[start.off:p.off]
			prep := p.tryPreposition()
			return ast.NewProportion(p.span(start), nil, false, wording, prep), true
		}
	}
	value, _, ok := p.parseNumber()
	if !ok {
		return nil, false
	}
	// a preposition, a percent sign or a star must follow, otherwise this
	// is an absolute quantity
	if prep := p.tryPreposition(); prep != "" {
		return ast.NewProportion(p.span(start), &value, false, "", prep), true
	}
	sp := p.scanHsp()
	if p.literal('%', "") {
		pct := value.Div(number.Int(100))
		prep := sp + "%" + p.tryPreposition()
		return ast.NewProportion(p.span(start), &pct, true, "", prep), true
	}
	if p.literal('*', "") {
		return ast.NewProportion(p.span(start), &value, false, "", sp+"*"), true
	}
	p.restore(start)
	return nil, false
}

func (p *parser) parseQuantity() (*ast.Quantity, bool) {
	if p.peek() == '{' {
		return p.parseExplicitQuantity()
	}
	return p.parseImplicitQuantity()
}

// parseImplicitQuantity parses a quantity written without braces, e.g.
// "250g" or "1 2/3 kg". Only known unit names are recognised, and only as
// whole words, so that "2 cloves garlic" is not read as "2 clove" of
// "s garlic".
func (p *parser) parseImplicitQuantity() (*ast.Quantity, bool) {
	start := p.save()
	value, _, ok := p.parseNumber()
	if !ok {
		return nil, false
	}
	var unit *ast.String
	spacing, preposition := "", ""
	save := p.save()
	sp := p.scanHsp()
	if text, unitStart, ok := p.matchKnownUnit(); ok {
		unit = ast.NewTextString(p.span(unitStart), text)
		spacing = sp
		preposition = p.tryPreposition()
	} else {
		p.restore(save)
	}
	return ast.NewQuantity(p.span(start), value, unit, spacing, preposition), true
}

// parseExplicitQuantity parses a braced quantity, e.g. "{2 sacks}". The
// unit may be any text at all: the braces make the intent unambiguous.
func (p *parser) parseExplicitQuantity() (*ast.Quantity, bool) {
	start := p.save()
	p.advance(1) // '{'
	p.scanHsp()
	value, _, ok := p.parseNumber()
	if !ok {
		// not a quantity: possibly a bracketed string
		p.restore(start)
		return nil, false
	}
	var unit *ast.String
	spacing := ""
	save := p.save()
	sp := p.scanHsp()
	if u, uok := p.parseString(true); uok {
		unit = u
		spacing = sp
	} else {
		p.restore(save)
	}
	p.scanHsp()
	if !p.literal('}', "'}'") {
		p.restore(start)
		return nil, false
	}
	preposition := p.tryPreposition()
	return ast.NewQuantity(p.span(start), value, unit, spacing, preposition), true
}

// matchKnownUnit consumes a known unit name at the current position and
// returns its source spelling. Names are matched case-insensitively,
// longest first, and only as whole words.
func (p *parser) matchKnownUnit() (string, state, bool) {
	start := p.save()
	rest := p.src[p.off:]
	for _, name := range p.unitNames {
		if len(rest) < len(name) || !strings.EqualFold(rest[:len(name)], name) {
			continue
		}
		if len(rest) > len(name) && isNameChar(rest[len(name)], true) {
			continue
		}
		text := rest[:len(name)]
		p.advance(len(name))
		return text, start, true
	}
	return "", start, false
}

// tryPreposition returns the literal text of an "of" or "of the"
// preposition at the current position, or "" if there is none.
func (p *parser) tryPreposition() string {
	save := p.save()
	sp := p.scanHsp()
	if !p.matchWord("of") {
		p.restore(save)
		return ""
	}
	text := sp + p.src[save.off+len(sp):p.off]
	after := p.save()
	sp2 := p.scanHsp()
	theStart := p.off
	if p.matchWord("the") {
		return text + sp2 + p.src[theStart:p.off]
	}
	p.restore(after)
	return text
}

// numbers

// parseNumber parses a decimal ("2", "1.5") or a fraction, possibly with
// a whole part ("2/3", "1 2/3").
func (p *parser) parseNumber() (number.Number, state, bool) {
	start := p.save()
	// fraction
	if first, ok := p.scanInt(); ok {
		whole, numerator := "", first
		afterFirst := p.save()
		p.scanHsp()
		if second, ok := p.scanInt(); ok {
			whole, numerator = first, second
		} else {
			p.restore(afterFirst)
		}
		p.scanHsp()
		if p.literal('/', "'/'") {
			p.scanHsp()
			if den, ok := p.scanInt(); !ok {
				p.expect("<number>")
			} else if d, _ := strconv.ParseInt(den, 10, 64); d != 0 {
				n, _ := strconv.ParseInt(numerator, 10, 64)
				value := number.Frac(n, d)
				if whole != "" {
					w, _ := strconv.ParseInt(whole, 10, 64)
					value = number.Int(w).Add(value)
				}
				return value, start, true
			}
		}
	}
	p.restore(start)
	// decimal
	intText, ok := p.scanInt()
	if !ok {
		return number.Number{}, start, false
	}
	afterInt := p.save()
	if p.literal('.', "") {
		if fracText, ok := p.scanInt(); ok {
			f, _ := strconv.ParseFloat(intText+"."+fracText, 64)
			return number.Float(f), start, true
		}
		p.restore(afterInt)
	}
	if i, err := strconv.ParseInt(intText, 10, 64); err == nil {
		return number.Int(i), start, true
	}
	f, _ := strconv.ParseFloat(intText, 64)
	return number.Float(f), start, true
}

// scanInt consumes a run of digits.
func (p *parser) scanInt() (string, bool) {
	start := p.off
	for !p.eof() && isDigit(p.peek()) {
		p.advance(1)
	}
	if p.off == start {
		return "", false
	}
	return p.src[start:p.off], true
}

// strings

// parseString parses a string: a concatenation of naked words, quoted
// text and bracketed text, with the whitespace between the parts kept as
// literal substrings.
func (p *parser) parseString(digits bool) (*ast.String, bool) {
	parts, ok := p.parseStringPart(digits)
	if !ok {
		return nil, false
	}
	for {
		save := p.save()
		spStart := p.save()
		sp := p.scanHsp()
		more, ok := p.parseStringPart(digits)
		if !ok {
			p.restore(save)
			break
		}
		if sp != "" {
			pos := &ast.Position{Line: spStart.line, Column: spStart.col, Start: spStart.off, End: spStart.off + len(sp) - 1}
			parts = append(parts, ast.NewSubstring(pos, sp))
		}
		parts = append(parts, more...)
	}
	return ast.NewString(parts), true
}

func (p *parser) parseStringPart(digits bool) ([]ast.StringPart, bool) {
	switch b := p.peek(); {
	case b == '\'' || b == '"':
		return p.parseQuotedString(b)
	case b == '{':
		return p.parseBracketedString()
	default:
		return p.parseNakedString(digits)
	}
}

// parseNakedString parses a run of unquoted words. The run may contain
// internal whitespace but never ends with it.
func (p *parser) parseNakedString(digits bool) ([]ast.StringPart, bool) {
	start := p.save()
	if p.eof() || !isNameChar(p.peek(), digits) {
		p.expect("<text>")
		return nil, false
	}
	for !p.eof() && isNameChar(p.peek(), digits) {
		p.advance(1)
	}
	for {
		save := p.save()
		if p.scanHsp() == "" {
			break
		}
		if p.eof() || !isNameChar(p.peek(), digits) {
			p.restore(save)
			break
		}
		for !p.eof() && isNameChar(p.peek(), digits) {
			p.advance(1)
		}
	}
	return []ast.StringPart{ast.NewSubstring(p.span(start), p.src[start.off:p.off])}, true
}

func (p *parser) parseQuotedString(quote byte) ([]ast.StringPart, bool) {
	start := p.save()
	p.advance(1)
	var text strings.Builder
	for !p.eof() {
		b := p.peek()
		if b == quote || b == '\n' || b == '\r' {
			break
		}
		if b == '\\' {
			r, size := utf8.DecodeRuneInString(p.src[p.off+1:])
			if size == 0 {
				break
			}
			if esc, ok := ast.EscapeChars[byte(r)]; ok && r < utf8.RuneSelf {
				text.WriteString(esc)
			} else {
				text.WriteRune(r)
			}
			p.advance(1 + size)
			continue
		}
		text.WriteByte(b)
		p.advance(1)
	}
	p.expect("<text>")
	label := `"'"`
	if quote == '"' {
		label = `'"'`
	}
	if !p.literal(quote, label) {
		p.restore(start)
		return nil, false
	}
	return []ast.StringPart{ast.NewSubstring(p.span(start), text.String())}, true
}

// parseBracketedString parses "{...}" text in which numbers become
// interpolated values, rescaled with the recipe: "{1 15ml tin}".
func (p *parser) parseBracketedString() ([]ast.StringPart, bool) {
	start := p.save()
	p.advance(1) // '{'
	var parts []ast.StringPart
	var buf strings.Builder
	segStart := start // the first segment is positioned at the '{'
	segActive := true
	flush := func() {
		pos := &ast.Position{Line: segStart.line, Column: segStart.col, Start: segStart.off, End: p.off - 1}
		parts = append(parts, ast.NewSubstring(pos, buf.String()))
		buf.Reset()
	}
	for !p.eof() {
		b := p.peek()
		if b == '}' || b == '\n' || b == '\r' {
			break
		}
		if b == '\\' {
			r, size := utf8.DecodeRuneInString(p.src[p.off+1:])
			if size == 0 {
				break
			}
			if !segActive {
				segActive, segStart = true, p.save()
			}
			if esc, ok := ast.EscapeChars[byte(r)]; ok && r < utf8.RuneSelf {
				buf.WriteString(esc)
			} else {
				buf.WriteRune(r)
			}
			p.advance(1 + size)
			continue
		}
		if isDigit(b) {
			if buf.Len() > 0 {
				flush()
			}
			segActive = false
			value, numStart, _ := p.parseNumber()
			parts = append(parts, ast.NewInterpolatedValue(p.span(numStart), value))
			continue
		}
		if !segActive {
			segActive, segStart = true, p.save()
		}
		buf.WriteByte(b)
		p.advance(1)
	}
	p.expect("<text>")
	if segActive {
		flush()
	}
	if !p.literal('}', "'}'") {
		p.restore(start)
		return nil, false
	}
	return parts, true
}
