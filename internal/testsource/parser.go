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

// parser reads expressions and statements of a TypeScript subset.
// In template mode "|" applies a pipe instead of a bitwise or.
type parser struct {
	toks     []token
	pos      int
	template bool
	err      error
}

func (p *parser) tok() token { return p.toks[p.pos] }

func (p *parser) peek(n int) token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}

	return p.toks[len(p.toks)-1]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != eof {
		p.pos++
	}

	return t
}

func (p *parser) accept(text string) bool {
	if p.tok().is(text) {
		p.pos++
		return true
	}

	return false
}

func (p *parser) acceptKeyword(text string) bool {
	if p.tok().keyword(text) {
		p.pos++
		return true
	}

	return false
}

func (p *parser) expect(text string) token {
	t := p.tok()
	if !t.is(text) {
		p.fail(t, fmt.Sprintf("expected %q, found %q", text, t.text))
		return t
	}

	p.pos++

	return t
}

func (p *parser) expectIdent() token {
	t := p.tok()
	if t.kind != ident {
		p.fail(t, fmt.Sprintf("expected identifier, found %q", t.text))
		return t
	}

	p.pos++

	return t
}

// fail records the first error and skips to the end of input.
func (p *parser) fail(t token, msg string) {
	if p.err == nil {
		p.err = &SyntaxError{Line: t.line, Column: t.column, Msg: msg}
	}

	p.pos = len(p.toks) - 1
}

func node(kind string, t token) *source.Node {
	return &source.Node{Kind: kind, Line: t.line, Column: t.column}
}

// expr parses an expression including assignments and, in template mode, pipes.
func (p *parser) expr() *source.Node {
	if !p.template {
		return p.assignment()
	}

	x := p.assignment()

	for p.tok().is("|") {
		t := p.next()
		n := node("pipe", t)
		n.Expr, n.Name = x, p.expectIdent().text

		for p.accept(":") {
			n.Args = append(n.Args, p.conditional())
		}

		x = n
	}

	return x
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true, "??=": true, "||=": true, "&&=": true,
}

func (p *parser) assignment() *source.Node {
	if arrow := p.arrow(); arrow != nil {
		return arrow
	}

	x := p.conditional()

	if t := p.tok(); t.kind == punct && assignOps[t.text] {
		p.next()

		n := node("assign", t)
		n.Op, n.Left, n.Right = t.text, x, p.assignment()

		return n
	}

	return x
}

// arrow parses an arrow function when one starts at the current token.
func (p *parser) arrow() *source.Node {
	start := p.tok()
	save := p.pos

	if start.keyword("async") && (p.peek(1).kind == ident || p.peek(1).is("(")) {
		p.next()
	}

	var params []string

	switch t := p.tok(); {
	case t.kind == ident && p.peek(1).is("=>"):
		params = []string{t.text}
		p.pos += 2

	case t.is("("):
		end := p.matching(p.pos)
		if end < 0 {
			p.pos = save
			return nil
		}

		after := end + 1
		if p.toks[after].is(":") {
			after = p.skipTypeFrom(after+1, "=>")
		}

		if !p.toks[after].is("=>") {
			p.pos = save
			return nil
		}

		params = paramNames(p.toks[p.pos+1 : end])
		p.pos = after + 1

	default:
		p.pos = save
		return nil
	}

	n := node("arrow", start)
	n.Params = params

	if p.tok().is("{") {
		n.Body = p.block()
	} else {
		n.Expr = p.assignment()
	}

	return n
}

// matching returns the index of the token closing the bracket at open, or -1.
func (p *parser) matching(open int) int {
	depth := 0

	for i := open; i < len(p.toks); i++ {
		switch t := p.toks[i]; {
		case t.is("("), t.is("["), t.is("{"):
			depth++

		case t.is(")"), t.is("]"), t.is("}"):
			depth--
			if depth == 0 {
				return i
			}

		case t.kind == eof:
			return -1
		}
	}

	return -1
}

// skipTypeFrom returns the index of the first token at bracket depth zero matching one of stops.
func (p *parser) skipTypeFrom(i int, stops ...string) int {
	depth := 0

	for ; i < len(p.toks); i++ {
		t := p.toks[i]
		if t.kind == eof {
			return i
		}

		if depth == 0 && t.kind == punct {
			for _, s := range stops {
				if t.text == s {
					return i
				}
			}
		}

		switch {
		case t.is("("), t.is("["), t.is("{"), t.is("<"):
			depth++

		case t.is(")"), t.is("]"), t.is("}"), t.is(">"):
			if depth == 0 {
				return i
			}

			depth--
		}
	}

	return len(p.toks) - 1
}

// typeText consumes a type annotation up to one of stops and renders it.
func (p *parser) typeText(stops ...string) string {
	end := p.skipTypeFrom(p.pos, stops...)

	var b strings.Builder
	for _, t := range p.toks[p.pos:end] {
		b.WriteString(t.text)
	}

	p.pos = end

	return b.String()
}

// paramNames extracts the bound names of a parameter list, ignoring types and defaults.
func paramNames(toks []token) []string {
	var (
		names []string
		depth int
		fresh = true
	)

	for i, t := range toks {
		switch {
		case t.is("("), t.is("["), t.is("{"), t.is("<"):
			if t.is("{") || t.is("[") {
				if depth == 0 && fresh {
					names = append(names, destructured(toks[i:])...)
					fresh = false
				}
			}
			depth++

		case t.is(")"), t.is("]"), t.is("}"), t.is(">"):
			depth--

		case t.is(",") && depth == 0:
			fresh = true

		case t.kind == ident && depth == 0 && fresh:
			switch t.text {
			case "private", "protected", "public", "readonly":
				continue
			}

			names = append(names, t.text)
			fresh = false
		}
	}

	return names
}

// destructured returns the names bound by a destructuring pattern starting at toks[0].
func destructured(toks []token) []string {
	var names []string

	depth := 0

	for i, t := range toks {
		switch {
		case t.is("{"), t.is("["):
			depth++

		case t.is("}"), t.is("]"):
			depth--
			if depth == 0 {
				return names
			}

		case t.kind == ident && depth == 1:
			if i+1 < len(toks) && toks[i+1].is(":") {
				continue // renamed key
			}

			names = append(names, t.text)
		}
	}

	return names
}

func (p *parser) conditional() *source.Node {
	x := p.binary(0)

	if t := p.tok(); t.is("?") {
		p.next()

		n := node("conditional", t)
		n.Test = x
		n.Then = p.assignment()
		p.expect(":")
		n.Else = p.assignment()

		return n
	}

	return x
}

var precedence = [][]string{
	{"??"},
	{"||"},
	{"&&"},
	{"|"},
	{"^"},
	{"&"},
	{"==", "!=", "===", "!=="},
	{"<", ">", "<=", ">=", "instanceof", "in"},
	{"+", "-"},
	{"*", "/", "%"},
	{"**"},
}

func (p *parser) binaryOp(level int) (string, bool) {
	t := p.tok()
	if t.kind != punct && !(t.kind == ident && (t.text == "instanceof" || t.text == "in")) {
		return "", false
	}

	if p.template && t.text == "|" {
		return "", false
	}

	for _, op := range precedence[level] {
		if t.text == op {
			return op, true
		}
	}

	return "", false
}

func (p *parser) binary(level int) *source.Node {
	if level == len(precedence) {
		return p.unary()
	}

	x := p.binary(level + 1)

	for {
		op, ok := p.binaryOp(level)
		if !ok {
			return x
		}

		t := p.next()

		kind := "binary"
		if op == "&&" || op == "||" || op == "??" {
			kind = "logical"
		}

		n := node(kind, t)
		n.Op, n.Left, n.Right = op, x, p.binary(level+1)
		x = n
	}
}

func (p *parser) unary() *source.Node {
	t := p.tok()

	switch {
	case t.is("!"), t.is("-"), t.is("+"), t.is("~"), t.is("++"), t.is("--"):
		p.next()

		n := node("unary", t)
		n.Op, n.Expr = t.text, p.unary()

		return n

	case t.keyword("typeof"), t.keyword("void"), t.keyword("delete"):
		p.next()

		n := node("unary", t)
		n.Op, n.Expr = t.text, p.unary()

		return n

	case t.keyword("await"):
		p.next()

		n := node("await", t)
		n.Expr = p.unary()

		return n

	case t.is("..."):
		p.next()

		n := node("spread", t)
		n.Expr = p.assignment()

		return n
	}

	return p.postfix(p.primary())
}

func (p *parser) postfix(x *source.Node) *source.Node {
	for {
		t := p.tok()

		switch {
		case t.is("."), t.is("?."):
			p.next()

			if t.is("?.") && p.tok().is("(") {
				call := node("call", t)
				call.Callee, call.Args = x, p.args()
				x = call

				continue
			}

			if t.is("?.") && p.tok().is("[") {
				x = p.index(x, t)
				continue
			}

			name := p.memberName()
			n := node("member", name)
			n.Object, n.Name, n.Optional = x, name.text, t.is("?.")
			x = n

		case t.is("["):
			x = p.index(x, t)

		case t.is("("):
			n := node("call", t)
			n.Callee, n.Args = x, p.args()
			x = n

		case t.is("<") && p.typeArguments():

		case t.is("!") && nonNullFollower(p.peek(1)):
			p.next()

			n := node("nonnull", t)
			n.Expr = x
			x = n

		case t.is("++"), t.is("--"):
			p.next()

			n := node("unary", t)
			n.Op, n.Expr = t.text, x
			x = n

		case t.keyword("as") && !p.template:
			p.next()
			p.typeText(")", ";", ",", "]", "}", "=", "?", ":", "|", "&&", "||")

		default:
			return x
		}
	}
}

func (p *parser) memberName() token {
	t := p.tok()
	if t.kind == ident {
		p.pos++
		return t
	}

	return p.expectIdent()
}

func (p *parser) index(x *source.Node, t token) *source.Node {
	p.expect("[")

	n := node("index", t)
	n.Object, n.Index = x, p.expr()
	p.expect("]")

	return n
}

// typeArguments skips explicit type arguments of a call, f<T>(x).
func (p *parser) typeArguments() bool {
	depth := 0

	for i := p.pos; i < len(p.toks); i++ {
		t := p.toks[i]

		switch {
		case t.is("<"):
			depth++

		case t.is(">"):
			depth--
			if depth == 0 {
				if !p.toks[i+1].is("(") {
					return false
				}

				p.pos = i + 1

				return true
			}

		case t.kind == ident, t.is("["), t.is("]"), t.is(","), t.is("."), t.is("|"), t.is("&"), t.kind == str:

		default:
			return false
		}
	}

	return false
}

func nonNullFollower(t token) bool {
	switch {
	case t.kind == eof:
		return true

	case t.kind == punct:
		switch t.text {
		case ".", "?.", ")", ";", ",", "]", "}", "[", "=", "(":
			return true
		}
	}

	return false
}

func (p *parser) args() []*source.Node {
	p.expect("(")

	var args []*source.Node

	for !p.tok().is(")") && p.tok().kind != eof {
		args = append(args, p.expr())

		if !p.accept(",") {
			break
		}
	}

	p.expect(")")

	return args
}

func (p *parser) primary() *source.Node {
	t := p.tok()

	switch t.kind {
	case number:
		p.next()

		n := node("number", t)
		n.Value = t.text

		return n

	case str:
		p.next()

		kind := "string"
		if strings.HasPrefix(t.text, "`") {
			kind = "template-literal"
		}

		n := node(kind, t)
		n.Value = t.text

		return n

	case ident:
		switch t.text {
		case "this":
			p.next()
			return node("this", t)

		case "true", "false":
			p.next()

			n := node("boolean", t)
			n.Value = t.text

			return n

		case "null", "undefined":
			p.next()
			return node(t.text, t)

		case "new":
			return p.newExpr()

		case "function":
			return p.function()
		}

		p.next()

		n := node("ident", t)
		n.Name = t.text

		return n
	}

	switch {
	case t.is("("):
		p.next()

		n := node("paren", t)
		n.Expr = p.expr()
		p.expect(")")

		return n

	case t.is("["):
		p.next()

		n := node("array", t)
		for !p.tok().is("]") && p.tok().kind != eof {
			n.Elements = append(n.Elements, p.assignment())

			if !p.accept(",") {
				break
			}
		}

		p.expect("]")

		return n

	case t.is("{"):
		return p.object()

	case t.is("<") && !p.template: // type assertion <T>x
		p.next()
		p.typeText(">")
		p.expect(">")

		return p.unary()
	}

	p.fail(t, fmt.Sprintf("unexpected %q", t.text))

	return node("undefined", t)
}

func (p *parser) newExpr() *source.Node {
	t := p.next()
	n := node("new", t)

	name := p.expectIdent().text
	for p.tok().is(".") {
		p.next()
		name = p.expectIdent().text
	}

	n.Name = name

	if p.tok().is("<") {
		p.next()
		p.typeText(">")
		p.expect(">")
	}

	if p.tok().is("(") {
		n.Args = p.args()
	}

	return n
}

func (p *parser) function() *source.Node {
	t := p.next()
	p.acceptKeyword("async")

	if p.tok().kind == ident {
		p.next()
	}

	n := node("function", t)
	n.Params = p.params()

	if p.accept(":") {
		p.typeText("{")
	}

	n.Body = p.block()

	return n
}

// params parses a parenthesized parameter list into its names.
func (p *parser) params() []string {
	open := p.pos

	end := p.matching(open)
	if end < 0 {
		p.fail(p.tok(), "unbalanced parameter list")
		return nil
	}

	p.pos = end + 1

	return paramNames(p.toks[open+1 : end])
}

func (p *parser) object() *source.Node {
	t := p.expect("{")
	n := node("object", t)

	for !p.tok().is("}") && p.tok().kind != eof {
		key := p.tok()

		switch {
		case key.is("..."):
			p.next()
			n.Props = append(n.Props, source.Prop{Key: "...", Value: p.assignment()})

		case key.is("["):
			p.next()
			k := p.expr()
			p.expect("]")
			p.expect(":")
			n.Props = append(n.Props, source.Prop{Key: "[" + k.Name + "]", Value: p.assignment()})

		default:
			p.next()
			name := unquote(key.text)

			switch {
			case p.accept(":"):
				n.Props = append(n.Props, source.Prop{Key: name, Value: p.assignment()})

			case p.tok().is("("): // method shorthand
				f := node("function", key)
				f.Params = p.params()

				if p.accept(":") {
					p.typeText("{")
				}

				f.Body = p.block()
				n.Props = append(n.Props, source.Prop{Key: name, Value: f})

			default: // shorthand
				v := node("ident", key)
				v.Name = name
				n.Props = append(n.Props, source.Prop{Key: name, Value: v})
			}
		}

		if !p.accept(",") {
			break
		}
	}

	p.expect("}")

	return n
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"' || s[0] == '`') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}

	return s
}

// block parses a braced statement list.
func (p *parser) block() []*source.Node {
	p.expect("{")

	var list []*source.Node

	for !p.tok().is("}") && p.tok().kind != eof {
		if s := p.stmt(); s != nil {
			list = append(list, s)
		}
	}

	p.expect("}")

	return list
}

// body parses a braced block or a single statement.
func (p *parser) body() []*source.Node {
	if p.tok().is("{") {
		return p.block()
	}

	if s := p.stmt(); s != nil {
		return []*source.Node{s}
	}

	return nil
}

func (p *parser) stmt() *source.Node {
	t := p.tok()

	switch {
	case t.is(";"):
		p.next()
		return nil

	case t.is("{"):
		n := node("block", t)
		n.Body = p.block()

		return n

	case t.keyword("return"):
		p.next()

		n := node("return", t)
		if !p.tok().is(";") && !p.tok().is("}") {
			n.Expr = p.expr()
		}

		p.accept(";")

		return n

	case t.keyword("const"), t.keyword("let"), t.keyword("var"):
		return p.varDecl()

	case t.keyword("if"):
		p.next()
		p.expect("(")

		n := node("if", t)
		n.Test = p.expr()
		p.expect(")")
		n.Body = p.body()

		if p.acceptKeyword("else") {
			n.Alternate = p.body()
		}

		return n

	case t.keyword("for"):
		return p.forStmt()

	case t.keyword("while"):
		p.next()
		p.expect("(")

		n := node("while", t)
		n.Expr = p.expr()
		p.expect(")")
		n.Body = p.body()

		return n

	case t.keyword("try"):
		p.next()

		n := node("try", t)
		n.Body = p.block()

		if p.acceptKeyword("catch") {
			if p.tok().is("(") {
				p.params()
			}

			n.Alternate = p.block()
		}

		if p.acceptKeyword("finally") {
			n.Alternate = append(n.Alternate, p.block()...)
		}

		return n
	}

	n := node("expr", t)
	n.Expr = p.expr()
	p.accept(";")

	return n
}

func (p *parser) varDecl() *source.Node {
	t := p.next()
	n := node(t.text, t)

	switch {
	case p.tok().is("{"), p.tok().is("["):
		end := p.matching(p.pos)
		if end < 0 {
			p.fail(p.tok(), "unbalanced pattern")
			return n
		}

		if names := destructured(p.toks[p.pos : end+1]); len(names) > 0 {
			n.Name = names[0]
		}

		p.pos = end + 1

	default:
		n.Name = p.expectIdent().text
	}

	if p.accept(":") {
		p.typeText("=", ";", "}")
	}

	if p.accept("=") {
		n.Expr = p.expr()
	}

	p.accept(";")

	return n
}

func (p *parser) forStmt() *source.Node {
	t := p.next()
	p.expect("(")

	n := node("for", t)

	if decl := p.tok(); decl.keyword("const") || decl.keyword("let") || decl.keyword("var") {
		if p.peek(2).keyword("of") || p.peek(2).keyword("in") {
			p.next()
			n.Name = p.expectIdent().text
			n.Kind = "for" + strings.ToUpper(p.tok().text[:1]) + p.tok().text[1:]
			p.next()
			n.Expr = p.expr()
			p.expect(")")
			n.Body = p.body()

			return n
		}
	}

	// classic three-clause loop: only the condition is kept
	if !p.tok().is(";") {
		if t := p.tok(); t.keyword("const") || t.keyword("let") || t.keyword("var") {
			p.varDecl()
		} else {
			p.expr()
			p.accept(";")
		}
	} else {
		p.next()
	}

	if !p.tok().is(";") {
		n.Expr = p.expr()
	}

	p.expect(";")

	if !p.tok().is(")") {
		p.expr()
	}

	p.expect(")")
	n.Body = p.body()

	return n
}
