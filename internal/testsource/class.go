// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package testsource

import (
	"fillmore-labs.com/rxguard/internal/source"
)

// parseClasses reads the class declarations of a source file. Other
// top-level statements such as imports are skipped.
func parseClasses(file, src string) ([]source.Component, error) {
	toks, err := lex(src, newPositions(src), 0, len(src))
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}

	var classes []source.Component

	for p.tok().kind != eof && p.err == nil {
		start := p.pos
		comments := p.tok().comments
		decorators := p.decorators()

		for p.acceptKeyword("export") || p.acceptKeyword("default") || p.acceptKeyword("abstract") {
			// declaration modifiers
		}

		if !p.tok().keyword("class") {
			p.pos = start
			p.skipStatement()

			continue
		}

		if p.pos != start {
			comments = append(comments, p.tok().comments...)
		}

		c := p.class(file, decorators)
		c.Comments = comments
		classes = append(classes, c)
	}

	return classes, p.err
}

// skipStatement advances past the next semicolon at bracket depth zero.
func (p *parser) skipStatement() {
	depth := 0

	for t := p.next(); t.kind != eof; t = p.next() {
		switch {
		case t.is("("), t.is("["), t.is("{"):
			depth++

		case t.is(")"), t.is("]"), t.is("}"):
			depth--

		case t.is(";") && depth <= 0:
			return
		}
	}
}

func (p *parser) decorators() []source.Decorator {
	var out []source.Decorator

	for p.tok().is("@") {
		p.next()

		name := p.expectIdent().text
		for p.accept(".") {
			name = p.expectIdent().text
		}

		d := source.Decorator{Name: name}
		if p.tok().is("(") {
			d.Args = p.args()
		}

		out = append(out, d)
	}

	return out
}

func (p *parser) class(file string, decorators []source.Decorator) source.Component {
	t := p.next() // class

	c := source.Component{
		Name:       p.expectIdent().text,
		File:       file,
		Line:       t.line,
		Column:     t.column,
		Decorators: decorators,
	}

	p.skipGenerics()

	if p.acceptKeyword("extends") {
		c.Extends = p.expectIdent().text
		for p.accept(".") {
			c.Extends = p.expectIdent().text
		}

		p.skipGenerics()
	}

	if p.acceptKeyword("implements") {
		for !p.tok().is("{") && p.tok().kind != eof {
			p.next()
		}
	}

	p.expect("{")

	for !p.tok().is("}") && p.tok().kind != eof && p.err == nil {
		if p.accept(";") {
			continue
		}

		c.Members = append(c.Members, p.member())
	}

	p.expect("}")

	return c
}

func (p *parser) skipGenerics() {
	if !p.tok().is("<") {
		return
	}

	p.next()
	p.typeText(">")
	p.expect(">")
}

var memberModifiers = map[string]bool{
	"private": true, "protected": true, "public": true, "readonly": true, "static": true,
	"override": true, "abstract": true, "declare": true, "async": true, "accessor": true,
}

// modifier reports whether the current token is a modifier rather than the member name.
func (p *parser) modifier() bool {
	t := p.tok()
	if t.kind != ident || !memberModifiers[t.text] {
		return false
	}

	switch n := p.peek(1); {
	case n.is("("), n.is(":"), n.is("="), n.is(";"), n.is("?"), n.is("!"), n.is("<"), n.is("}"):
		return false

	default:
		return true
	}
}

func (p *parser) member() source.Member {
	start := p.tok()

	m := source.Member{
		Comments:   start.comments,
		Decorators: p.decorators(),
	}

	for p.modifier() {
		m.Modifiers = append(m.Modifiers, p.next().text)
	}

	t := p.tok()
	m.Line, m.Column = t.line, t.column

	switch {
	case t.keyword("constructor") && p.peek(1).is("("):
		p.next()

		m.Kind = "constructor"
		m.Params = p.paramList()
		m.Body = p.block()

	case (t.keyword("get") || t.keyword("set")) && p.peek(1).kind == ident && p.peek(2).is("("):
		p.next()

		m.Kind = t.text
		m.Name = p.next().text
		m.Line, m.Column = p.toks[p.pos-1].line, p.toks[p.pos-1].column
		p.method(&m)

	default:
		name := p.next()
		m.Name = unquote(name.text)

		p.accept("?")
		p.accept("!")

		if p.tok().is("(") || p.tok().is("<") {
			m.Kind = "method"
			p.skipGenerics()
			p.method(&m)

			break
		}

		m.Kind = "field"

		if p.accept(":") {
			m.Type = p.typeText("=", ";", "}")
		}

		if p.accept("=") {
			m.Init = p.expr()
		}

		p.accept(";")
	}

	m.EndLine = p.toks[max(p.pos-1, 0)].line

	return m
}

func (p *parser) method(m *source.Member) {
	m.Params = p.paramList()

	if p.accept(":") {
		m.Type = p.typeText("{", ";")
	}

	if p.tok().is("{") {
		m.Body = p.block()
	} else {
		p.accept(";")
	}
}

func (p *parser) paramList() []source.Param {
	p.expect("(")

	var params []source.Param

	for !p.tok().is(")") && p.tok().kind != eof && p.err == nil {
		decorators := p.decorators()

		var mods []string
		for p.modifier() {
			mods = append(mods, p.next().text)
		}

		t := p.tok()
		param := source.Param{Modifiers: mods, Decorators: decorators, Line: t.line, Column: t.column}

		switch {
		case t.is("{"), t.is("["):
			end := p.matching(p.pos)
			if end < 0 {
				p.fail(t, "unbalanced pattern")
				return params
			}

			p.pos = end + 1

		default:
			p.accept("...")
			param.Name = p.expectIdent().text
		}

		p.accept("?")

		if p.accept(":") {
			param.Type = p.typeText(",", ")", "=")
		}

		if p.accept("=") {
			p.assignment()
		}

		params = append(params, param)

		if !p.accept(",") {
			break
		}
	}

	p.expect(")")

	return params
}
