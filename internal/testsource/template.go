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
	"fmt"
	"strings"

	"fillmore-labs.com/rxguard/internal/source"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true, "img": true,
	"input": true, "link": true, "meta": true, "source": true, "track": true, "wbr": true,
}

// binding is a template binding under construction.
type binding struct {
	b        source.Binding
	children []*binding
}

type frame struct {
	tag       string
	container *[]*binding
}

type templateReader struct {
	src      string
	pos      positions
	elements []source.Element
	roots    []*binding
	stack    []frame
}

// parseTemplate reads an HTML template. Bindings on and inside an element
// carrying a structural directive become children of that directive.
func parseTemplate(file, src string) (*source.Template, error) {
	r := &templateReader{src: src, pos: newPositions(src)}
	r.stack = []frame{{container: &r.roots}}

	if err := r.read(); err != nil {
		return nil, err
	}

	return &source.Template{File: file, Bindings: flatten(r.roots), Elements: r.elements}, nil
}

func flatten(nodes []*binding) []source.Binding {
	if len(nodes) == 0 {
		return nil
	}

	out := make([]source.Binding, 0, len(nodes))
	for _, n := range nodes {
		b := n.b
		b.Children = flatten(n.children)
		out = append(out, b)
	}

	return out
}

func (r *templateReader) top() frame { return r.stack[len(r.stack)-1] }

func (r *templateReader) read() error {
	i := 0
	for i < len(r.src) {
		switch {
		case strings.HasPrefix(r.src[i:], "<!--"):
			j := strings.Index(r.src[i:], "-->")
			if j < 0 {
				return errorAt(r.pos, i, "unterminated comment")
			}

			i += j + 3

		case strings.HasPrefix(r.src[i:], "</"):
			j := strings.IndexByte(r.src[i:], '>')
			if j < 0 {
				return errorAt(r.pos, i, "unterminated closing tag")
			}

			r.close(strings.TrimSpace(r.src[i+2 : i+j]))
			i += j + 1

		case r.src[i] == '<' && i+1 < len(r.src) && isTagStart(r.src[i+1]):
			next, err := r.open(i)
			if err != nil {
				return err
			}

			i = next

		case strings.HasPrefix(r.src[i:], "{{"):
			next, err := r.interpolation(i)
			if err != nil {
				return err
			}

			i = next

		default:
			i++
		}
	}

	return nil
}

func isTagStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func (r *templateReader) close(tag string) {
	for k := len(r.stack) - 1; k > 0; k-- {
		if r.stack[k].tag == tag {
			r.stack = r.stack[:k]
			return
		}
	}
}

type attribute struct {
	name       string
	nameOffset int
	value      string
	valueStart int
}

// open reads a start tag at offset i and returns the offset after it.
func (r *templateReader) open(i int) (int, error) {
	j := i + 1
	for j < len(r.src) && !isSpace(r.src[j]) && r.src[j] != '>' && r.src[j] != '/' {
		j++
	}

	tag := r.src[i+1 : j]
	line, column := r.pos.at(i + 1)
	r.elements = append(r.elements, source.Element{Tag: tag, Line: line, Column: column})

	var (
		attrs       []attribute
		selfClosing bool
	)

	for {
		for j < len(r.src) && isSpace(r.src[j]) {
			j++
		}

		if j >= len(r.src) {
			return j, errorAt(r.pos, i, "unterminated tag "+tag)
		}

		if r.src[j] == '>' {
			j++
			break
		}

		if strings.HasPrefix(r.src[j:], "/>") {
			selfClosing = true
			j += 2

			break
		}

		a := attribute{nameOffset: j}
		for j < len(r.src) && !isSpace(r.src[j]) && r.src[j] != '=' && r.src[j] != '>' && !strings.HasPrefix(r.src[j:], "/>") {
			j++
		}

		a.name = r.src[a.nameOffset:j]

		if j < len(r.src) && r.src[j] == '=' {
			j++
			if j >= len(r.src) {
				return j, errorAt(r.pos, a.nameOffset, "missing attribute value")
			}

			quote := r.src[j]
			if quote == '"' || quote == '\'' {
				end := strings.IndexByte(r.src[j+1:], quote)
				if end < 0 {
					return j, errorAt(r.pos, j, "unterminated attribute value")
				}

				a.valueStart, a.value = j+1, r.src[j+1:j+1+end]
				j += end + 2
			} else {
				a.valueStart = j
				for j < len(r.src) && !isSpace(r.src[j]) && r.src[j] != '>' {
					j++
				}

				a.value = r.src[a.valueStart:j]
			}
		}

		attrs = append(attrs, a)
	}

	if err := r.element(tag, attrs, selfClosing || voidElements[strings.ToLower(tag)]); err != nil {
		return j, err
	}

	return j, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// element records the bindings of an element and opens its scope.
func (r *templateReader) element(tag string, attrs []attribute, closed bool) error {
	container := r.top().container

	for _, a := range attrs {
		if !strings.HasPrefix(a.name, "*") {
			continue
		}

		s, err := r.structural(tag, a)
		if err != nil {
			return err
		}

		*container = append(*container, s)
		container = &s.children

		break
	}

	for _, a := range attrs {
		b, err := r.attribute(tag, a)
		if err != nil {
			return err
		}

		if b != nil {
			*container = append(*container, b)
		}
	}

	if !closed {
		r.stack = append(r.stack, frame{tag: tag, container: container})
	}

	return nil
}

func (r *templateReader) attribute(tag string, a attribute) (*binding, error) {
	var kind, target string

	switch n := a.name; {
	case strings.HasPrefix(n, "*"):
		return nil, nil

	case strings.HasPrefix(n, "[(") && strings.HasSuffix(n, ")]"):
		kind, target = "two-way", n[2:len(n)-2]

	case strings.HasPrefix(n, "[") && strings.HasSuffix(n, "]"):
		kind, target = "property", n[1:len(n)-1]

	case strings.HasPrefix(n, "(") && strings.HasSuffix(n, ")"):
		kind, target = "event", n[1:len(n)-1]

	case strings.HasPrefix(n, "bindon-"):
		kind, target = "two-way", n[len("bindon-"):]

	case strings.HasPrefix(n, "bind-"):
		kind, target = "property", n[len("bind-"):]

	case strings.HasPrefix(n, "on-"):
		kind, target = "event", n[len("on-"):]

	case strings.Contains(a.value, "{{"):
		return r.interpolated(tag, n, a)

	default:
		return nil, nil
	}

	expr, err := r.expression(a.valueStart, a.valueStart+len(a.value))
	if err != nil {
		return nil, err
	}

	line, column := r.pos.at(a.nameOffset)

	return &binding{b: source.Binding{
		Kind: kind, Element: tag, Target: target, Expr: expr, Line: line, Column: column,
	}}, nil
}

// interpolated reads an attribute value with a single interpolation as a property binding.
func (r *templateReader) interpolated(tag, target string, a attribute) (*binding, error) {
	open := strings.Index(a.value, "{{")

	end := strings.Index(a.value[open:], "}}")
	if end < 0 {
		return nil, errorAt(r.pos, a.valueStart+open, "unterminated interpolation")
	}

	start := a.valueStart + open + 2

	expr, err := r.expression(start, start+end-2)
	if err != nil {
		return nil, err
	}

	line, column := r.pos.at(a.nameOffset)

	return &binding{b: source.Binding{
		Kind: "property", Element: tag, Target: target, Expr: expr, Line: line, Column: column,
	}}, nil
}

// structural reads the micro-syntax of a structural directive:
//
//	*ngIf="expr as alias; else other"
//	*ngFor="let item of expr; trackBy: fn; let i = index"
func (r *templateReader) structural(tag string, a attribute) (*binding, error) {
	line, column := r.pos.at(a.nameOffset)
	b := &binding{b: source.Binding{Kind: "structural", Element: tag, Target: a.name[1:], Line: line, Column: column}}

	for k, seg := range segments(a.value, a.valueStart) {
		toks, err := lex(r.src, r.pos, seg.start, seg.end)
		if err != nil {
			return nil, err
		}

		p := &parser{toks: toks, template: true}

		switch {
		case p.tok().keyword("let"):
			p.next()
			name := p.expectIdent().text

			if p.acceptKeyword("of") || p.acceptKeyword("in") {
				b.b.Alias = name
				b.b.Expr = p.expr()
			}

		case k == 0:
			b.b.Expr = p.expr()
			if p.acceptKeyword("as") {
				b.b.Alias = p.expectIdent().text
			}

		default:
			key := p.expectIdent().text
			p.accept(":")

			if b.b.Options == nil {
				b.b.Options = make(map[string]*source.Node)
			}

			b.b.Options[key] = p.expr()
		}

		if p.err != nil {
			return nil, p.err
		}
	}

	return b, nil
}

type segment struct{ start, end int }

// segments splits a micro-syntax value at top-level semicolons.
func segments(value string, offset int) []segment {
	var (
		out   []segment
		depth int
		quote byte
		start int
	)

	for i := range len(value) {
		c := value[i]

		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}

		case c == '\'' || c == '"' || c == '`':
			quote = c

		case c == '(' || c == '[' || c == '{':
			depth++

		case c == ')' || c == ']' || c == '}':
			depth--

		case c == ';' && depth == 0:
			out = append(out, segment{offset + start, offset + i})
			start = i + 1
		}
	}

	if strings.TrimSpace(value[start:]) != "" {
		out = append(out, segment{offset + start, offset + len(value)})
	}

	return out
}

// interpolation records the text interpolation at offset open and returns the offset after it.
func (r *templateReader) interpolation(open int) (int, error) {
	end := strings.Index(r.src[open:], "}}")
	if end < 0 {
		return open, errorAt(r.pos, open, "unterminated interpolation")
	}

	end += open

	expr, err := r.expression(open+2, end)
	if err != nil {
		return end, err
	}

	line, column := r.pos.at(open)
	b := &binding{b: source.Binding{Kind: "interpolation", Element: r.top().tag, Expr: expr, Line: line, Column: column}}

	c := r.top().container
	*c = append(*c, b)

	return end + 2, nil
}

// expression parses the template expression in src[start:end].
func (r *templateReader) expression(start, end int) (*source.Node, error) {
	toks, err := lex(r.src, r.pos, start, end)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks, template: true}
	expr := p.expr()

	if p.err == nil && p.tok().kind != eof {
		t := p.tok()
		p.err = &SyntaxError{Line: t.line, Column: t.column, Msg: fmt.Sprintf("unexpected %q", t.text)}
	}

	return expr, p.err
}
