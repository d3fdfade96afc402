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

package streams

import (
	"strings"

	"fillmore-labs.com/rxguard/internal/astutil"
	"fillmore-labs.com/rxguard/internal/model"
	"fillmore-labs.com/rxguard/internal/vocab"
)

// definition is a candidate named stream: a member and the expression defining its value.
type definition struct {
	member *model.Member
	expr   model.Expr
}

type builder struct {
	component *model.Component
	vocab     *vocab.Vocabulary
	graph     *Graph

	defs     map[string]definition
	resolved map[string]bool
}

// Build constructs the stream graph of a component.
func Build(c *model.Component, v *vocab.Vocabulary) *Graph {
	b := &builder{
		component: c,
		vocab:     v,
		graph: &Graph{
			Component: c,
			byName:    make(map[string]*Stream),
			byCall:    make(map[*model.Call]*Site),
		},
		defs:     make(map[string]definition),
		resolved: make(map[string]bool),
	}

	b.collectDefinitions()

	// seed named streams in declaration order
	for _, m := range c.Members {
		if _, ok := b.defs[m.Name]; ok {
			b.named(m.Name)
		}
	}

	for _, m := range c.Members {
		switch {
		case m.Kind == model.FieldMember && m.Init != nil:
			b.walk(m.Init, Scope{Member: m, FieldInit: true}, nil)

		case m.Callable():
			b.walk(m.Body, Scope{Member: m, Hook: m.Hook}, nil)
		}
	}

	if c.Template != nil {
		b.template(c.Template)
	}

	return b.graph
}

// collectDefinitions finds the defining expression of every member that may denote a stream.
func (b *builder) collectDefinitions() {
	for _, m := range b.component.Members {
		switch m.Kind {
		case model.FieldMember:
			b.defs[m.Name] = definition{member: m, expr: m.Init}

		case model.GetterMember:
			b.defs[m.Name] = definition{member: m, expr: firstReturn(m.Body)}

		case model.MethodMember:
			if m.Hook != model.NoHook {
				continue
			}

			if r := firstReturn(m.Body); r != nil {
				b.defs[m.Name] = definition{member: m, expr: r}
			}
		}
	}

	// fields declared without initializer and assigned later, e.g. in ngOnInit
	for _, m := range b.component.Members {
		if !m.Callable() {
			continue
		}

		for a := range astutil.AllAssigns(m.Body) {
			name, ok := model.ThisField(a.Target)
			if !ok || a.Op != "=" {
				continue
			}

			if d, ok := b.defs[name]; ok && d.expr == nil && d.member.Kind == model.FieldMember {
				b.defs[name] = definition{member: d.member, expr: a.Value}
			}
		}
	}
}

func firstReturn(body []model.Stmt) model.Expr {
	if r := returnValues(body); len(r) > 0 {
		return r[0]
	}

	return nil
}

// streamName reports whether the member under name denotes a stream.
func (b *builder) streamName(name string) bool {
	return b.named(name) != nil || strings.HasSuffix(name, "$")
}

// named resolves the named stream declared under name, or nil.
func (b *builder) named(name string) *Stream {
	if s, ok := b.graph.byName[name]; ok {
		return s
	}

	if b.resolved[name] {
		return nil // not a stream, or in progress
	}

	b.resolved[name] = true

	d, ok := b.defs[name]
	if !ok {
		return nil
	}

	s := b.define(name, d)
	if s != nil {
		b.graph.byName[name] = s
	}

	return s
}

func (b *builder) define(name string, d definition) *Stream {
	c := chain{producer: OtherProducer}
	if d.expr != nil {
		c = b.decompose(d.expr)
	}

	declared := b.vocab.StreamType(d.member.Type) ||
		(d.member.Kind != model.MethodMember && strings.HasSuffix(name, "$"))

	if !c.stream && !declared {
		return nil
	}

	s := &Stream{
		Name:      name,
		Member:    d.member,
		Loc:       d.member.Loc,
		Expr:      d.expr,
		Producer:  c.producer,
		Operators: c.ops,
		Implicit:  d.expr == nil,
	}

	if d.member.Callable() {
		s.Producer = ComputedProducer
	}

	if c.upstream != "" && c.upstream != name {
		s.Upstream = b.named(c.upstream)
	}

	s.Sharing = b.sharing(c, s.Upstream)
	s.singleShot = b.chainSingleShot(c, s.Upstream)

	b.add(s)

	return s
}

// sharing reports whether a chain multicasts. A subject, or a stream passing
// a multicast upstream through without operators, shares by itself.
func (b *builder) sharing(c chain, upstream *Stream) bool {
	if c.sharing || b.sharingOps(c.ops) {
		return true
	}

	if len(c.ops) > 0 {
		return false
	}

	return c.producer == SubjectProducer || (upstream != nil && upstream.Sharing)
}

func (b *builder) add(s *Stream) {
	s.ID = len(b.graph.Streams)
	b.graph.Streams = append(b.graph.Streams, s)
}

// implicit returns a named stream for a reference without visible definition,
// e.g. an inherited field or a collaborator's stream.
func (b *builder) implicit(name string, loc model.Location) *Stream {
	if s, ok := b.graph.byName[name]; ok {
		return s
	}

	s := &Stream{Name: name, Loc: loc, Producer: OtherProducer, Implicit: true}
	if m := b.component.Symbols().Field(name); m != nil {
		s.Member, s.Loc = m, m.Loc
	}

	b.graph.byName[name] = s
	b.add(s)

	return s
}

// resolve returns the stream a consumed chain denotes and the operators applied locally.
// Callable members yield a fresh stream per invocation.
func (b *builder) resolve(c chain, expr model.Expr) (*Stream, []OperatorRef) {
	if c.upstream != "" {
		s := b.named(c.upstream)
		if s == nil && !c.method {
			s = b.implicit(c.upstream, expr.Pos())
		}

		if s != nil && (s.Member == nil || !s.Member.Callable()) {
			return s, c.ops
		}

		if s != nil {
			return b.inline(c, expr, s), nil
		}
	}

	return b.inline(c, expr, nil), nil
}

func (b *builder) inline(c chain, expr model.Expr, upstream *Stream) *Stream {
	s := &Stream{
		Loc:       expr.Pos(),
		Expr:      expr,
		Producer:  c.producer,
		Operators: c.ops,
		Upstream:  upstream,
	}

	s.Sharing = b.sharing(c, upstream)
	s.singleShot = b.chainSingleShot(c, upstream)

	b.add(s)

	return s
}

// walk records the manual subscribe-equivalent calls under node.
// Calls inside the callbacks of a site get that site as parent.
func (b *builder) walk(node any, scope Scope, parent *Site) {
	astutil.Inspect(node, func(n any) bool {
		recv, name, call, ok := model.MethodCall(asExpr(n))
		if !ok {
			return true
		}

		if _, ok := recv.(*model.This); ok {
			return true
		}

		c := b.decompose(recv)
		if !b.vocab.SubscribeCall(name, call.Args, c.stream) {
			return true
		}

		s, ops := b.resolve(c, recv)

		loc := call.Pos()
		if sel, ok := call.Fun.(*model.Selector); ok && sel.Pos().Valid() {
			loc = sel.Pos() // the method name
		}

		site := &Site{
			Kind:      ManualSubscribe,
			Stream:    s,
			Loc:       loc,
			Scope:     scope,
			Call:      call,
			Receiver:  recv,
			Operators: ops,
			Parent:    parent,

			singleShot: b.opsSingleShot(s.singleShot, ops),
		}
		b.addSite(site)

		b.walk(recv, scope, parent)

		for _, arg := range call.Args {
			b.walk(arg, scope, site)
		}

		return false
	})
}

func asExpr(n any) model.Expr {
	e, _ := n.(model.Expr)
	return e
}

func (b *builder) addSite(s *Site) {
	s.ID = len(b.graph.Sites)
	b.graph.Sites = append(b.graph.Sites, s)

	if s.Call != nil {
		b.graph.byCall[s.Call] = s
	}
}

// template records the async renderings, alias reads and stream inputs of the bindings.
func (b *builder) template(t *model.Template) {
	aliases := make(map[*model.Binding]*Stream)

	for _, bd := range t.Bindings {
		if bd.Kind == model.EventBinding {
			continue
		}

		b.aliasReads(t, bd, aliases)

		rendered := false

		astutil.Inspect(bd.Expr, func(n any) bool {
			pipe, ok := n.(*model.PipeExpr)
			if !ok || !b.vocab.AsyncPipes.Has(pipe.Name) {
				return true
			}

			s := b.templateStream(pipe.X)
			if s == nil {
				return true
			}

			loc := pipe.Pos()
			if !loc.Valid() {
				loc = bd.Loc
			}

			b.addSite(&Site{Kind: TemplateAsync, Stream: s, Loc: loc, Binding: bd})

			if bd.Alias != "" && aliases[bd] == nil {
				aliases[bd] = s
			}

			rendered = true

			return true
		})

		if rendered || !model.CustomElement(bd.Element) {
			continue
		}

		if bd.Kind != model.PropertyBinding && bd.Kind != model.TwoWayBinding {
			continue
		}

		switch bd.Expr.(type) {
		case *model.Ident, *model.Selector:
			if s := b.templateStream(bd.Expr); s != nil {
				b.addSite(&Site{Kind: TemplateInput, Stream: s, Loc: bd.Loc, Binding: bd})
			}
		}
	}
}

// aliasReads records a site for every alias of an async rendering read by bd.
func (b *builder) aliasReads(t *model.Template, bd *model.Binding, aliases map[*model.Binding]*Stream) {
	if bd.Parent == model.NoParent {
		return
	}

	seen := make(map[string]bool)

	for id := range astutil.AllIdents(bd.Expr) {
		if seen[id.Name] {
			continue
		}

		seen[id.Name] = true

		for _, i := range t.Ancestors(bd) {
			anc := t.Bindings[i]
			if anc.Alias != id.Name {
				continue
			}

			if s := aliases[anc]; s != nil {
				b.addSite(&Site{Kind: TemplateAsync, Stream: s, Loc: bd.Loc, Binding: bd, AliasRoot: anc})
			}

			break // innermost alias shadows outer ones
		}
	}
}

// templateStream resolves a template expression to the stream it denotes.
func (b *builder) templateStream(e model.Expr) *Stream {
	switch x := e.(type) {
	case *model.Call:
		name, ok := templateName(x.Fun)
		if !ok {
			return nil
		}

		if s := b.named(name); s != nil {
			return b.inline(chain{root: x, producer: ComputedProducer, upstream: name, method: true}, x, s)
		}

		return nil

	case *model.Ident, *model.Selector:
		name, ok := templateName(x)
		if !ok {
			return nil
		}

		s := b.named(name)
		switch {
		case s == nil && strings.HasSuffix(name, "$"):
			return b.implicit(name, x.Pos())

		case s != nil && s.Member != nil && s.Member.Callable():
			return b.inline(chain{root: x, producer: ComputedProducer, upstream: name}, x, s)

		default:
			return s
		}

	case *model.Unary:
		return b.templateStream(x.X)

	default:
		return nil
	}
}

// templateName returns the member path an expression refers to in template scope.
func templateName(e model.Expr) (string, bool) {
	if name, ok := model.ThisField(e); ok {
		return name, true
	}

	return path(e)
}
