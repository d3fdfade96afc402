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

package adapt

import (
	"slices"
	"strings"

	"fillmore-labs.com/rxguard/internal/model"
	"fillmore-labs.com/rxguard/internal/source"
)

// projector converts the nodes of one file, collecting unsupported constructs.
type projector struct {
	file      string
	component string
	errs      []error
}

func (p *projector) loc(line, column int) model.Location {
	return model.Location{File: p.file, Line: line, Column: column}
}

func (p *projector) at(n *source.Node) model.Node {
	return model.Node{Loc: p.loc(n.Line, n.Column)}
}

func (p *projector) unsupported(loc model.Location, construct string) {
	p.errs = append(p.errs, &UnsupportedConstruct{Component: p.component, Construct: construct, Loc: loc})
}

// expr projects an expression node. A nil node yields a nil expression.
func (p *projector) expr(n *source.Node) model.Expr {
	if n == nil {
		return nil
	}

	at := p.at(n)

	switch n.Kind {
	case "ident", "identifier":
		return &model.Ident{Node: at, Name: n.Name}

	case "this":
		return &model.This{Node: at}

	case "member", "selector", "property":
		x := p.expr(n.Object)
		if x == nil {
			// a template member access with implicit receiver
			return &model.Ident{Node: at, Name: n.Name}
		}

		return &model.Selector{Node: at, X: x, Name: n.Name, Optional: n.Optional}

	case "index", "element":
		return &model.Index{Node: at, X: p.expr(n.Object), Index: p.expr(n.Index)}

	case "call":
		return &model.Call{Node: at, Fun: p.expr(n.Callee), Args: p.exprs(n.Args)}

	case "new":
		class := n.Name
		if class == "" && n.Callee != nil {
			class = n.Callee.Name
		}

		return &model.New{Node: at, Class: class, Args: p.exprs(n.Args)}

	case "arrow", "function":
		return &model.Arrow{Node: at, Params: slices.Clone(n.Params), Body: p.arrowBody(n)}

	case "literal", "string", "number", "boolean", "null", "undefined", "template-literal":
		value := n.Value
		if value == "" && (n.Kind == "null" || n.Kind == "undefined") {
			value = n.Kind
		}

		return &model.Literal{Node: at, Value: value}

	case "binary", "logical":
		return &model.Binary{Node: at, Op: n.Op, X: p.expr(n.Left), Y: p.expr(n.Right)}

	case "unary", "nonnull", "await", "spread", "typeof":
		op := n.Op
		if op == "" {
			op = n.Kind
		}

		x := n.Expr
		if x == nil {
			x = n.Object
		}

		return &model.Unary{Node: at, Op: op, X: p.expr(x)}

	case "conditional", "ternary":
		return &model.Conditional{Node: at, Cond: p.expr(n.Test), Then: p.expr(n.Then), Else: p.expr(n.Else)}

	case "assign", "assignment":
		op := n.Op
		if op == "" {
			op = "="
		}

		return &model.Assign{Node: at, Target: p.expr(n.Left), Op: op, Value: p.expr(n.Right)}

	case "pipe":
		x := n.Expr
		if x == nil {
			x = n.Object
		}

		return &model.PipeExpr{Node: at, X: p.expr(x), Name: n.Name, Args: p.exprs(n.Args)}

	case "object":
		props := make([]model.Property, 0, len(n.Props))
		for _, prop := range n.Props {
			props = append(props, model.Property{Key: prop.Key, Value: p.expr(prop.Value)})
		}

		return &model.ObjectLit{Node: at, Props: props}

	case "array":
		return &model.ArrayLit{Node: at, Elems: p.exprs(n.Elements)}

	case "paren", "cast", "as":
		if n.Expr == nil {
			break
		}

		return p.expr(n.Expr)
	}

	p.unsupported(at.Loc, "expression "+quote(n.Kind))

	return &model.Opaque{Node: at, Reason: n.Kind}
}

func (p *projector) exprs(nodes []*source.Node) []model.Expr {
	if len(nodes) == 0 {
		return nil
	}

	out := make([]model.Expr, 0, len(nodes))
	for _, n := range nodes {
		if e := p.expr(n); e != nil {
			out = append(out, e)
		}
	}

	return out
}

func (p *projector) arrowBody(n *source.Node) []model.Stmt {
	if n.Expr != nil && len(n.Body) == 0 {
		x := p.expr(n.Expr)
		return []model.Stmt{&model.ReturnStmt{Node: model.Node{Loc: x.Pos()}, X: x}}
	}

	return p.stmts(n.Body)
}

func (p *projector) stmts(nodes []*source.Node) []model.Stmt {
	if len(nodes) == 0 {
		return nil
	}

	out := make([]model.Stmt, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}

		out = append(out, p.stmt(n))
	}

	return out
}

func (p *projector) stmt(n *source.Node) model.Stmt {
	at := p.at(n)

	switch n.Kind {
	case "expr", "expression":
		return &model.ExprStmt{Node: at, X: p.expr(n.Expr)}

	case "return":
		return &model.ReturnStmt{Node: at, X: p.expr(n.Expr)}

	case "var", "let", "const":
		return &model.VarStmt{Node: at, Name: n.Name, Init: p.expr(n.Expr)}

	case "if":
		return &model.IfStmt{Node: at, Cond: p.expr(n.Test), Then: p.stmts(n.Body), Else: p.stmts(n.Alternate)}

	case "block":
		return &model.BlockStmt{Node: at, List: p.stmts(n.Body)}

	case "try":
		return &model.BlockStmt{Node: at, List: append(p.stmts(n.Body), p.stmts(n.Alternate)...)}

	case "loop", "for", "forOf", "forIn", "while", "do":
		return &model.LoopStmt{Node: at, Var: n.Name, Iter: p.expr(n.Expr), Body: p.stmts(n.Body)}
	}

	if exprKind(n.Kind) {
		// expression used as a statement without an explicit wrapper
		return &model.ExprStmt{Node: at, X: p.expr(n)}
	}

	p.unsupported(at.Loc, "statement "+quote(n.Kind))

	return &model.OpaqueStmt{Node: at, Reason: n.Kind}
}

func exprKind(kind string) bool {
	switch kind {
	case "call", "assign", "assignment", "new", "member", "ident", "unary", "await":
		return true

	default:
		return false
	}
}

func (p *projector) params(src []source.Param) []model.Param {
	if len(src) == 0 {
		return nil
	}

	out := make([]model.Param, 0, len(src))
	for _, s := range src {
		visibility, _ := modifiers(s.Name, s.Modifiers)

		out = append(out, model.Param{
			Name:       s.Name,
			Type:       s.Type,
			Property:   parameterProperty(s.Modifiers),
			Visibility: visibility,
			Loc:        p.loc(s.Line, s.Column),
		})
	}

	return out
}

// parameterProperty reports whether the modifiers turn a constructor parameter into a field.
func parameterProperty(mods []string) bool {
	for _, mod := range mods {
		switch strings.ToLower(mod) {
		case "private", "protected", "public", "readonly":
			return true
		}
	}

	return false
}

// classMetadata resolves the class decorator into the closed option set.
func (p *projector) classMetadata(decorators []source.Decorator) (model.ClassKind, model.ClassMetadata) {
	var meta model.ClassMetadata

	for _, d := range decorators {
		var kind model.ClassKind

		switch d.Name {
		case "Component":
			kind = model.ComponentClass

		case "Directive":
			kind = model.DirectiveClass

		case "Injectable":
			return model.InjectableClass, meta

		case "Pipe":
			return model.PipeClass, meta

		default:
			continue
		}

		if len(d.Args) > 0 {
			if obj, ok := p.expr(d.Args[0]).(*model.ObjectLit); ok {
				meta = metadata(obj)
			}
		}

		return kind, meta
	}

	return model.PlainClass, meta
}

func metadata(obj *model.ObjectLit) model.ClassMetadata {
	var meta model.ClassMetadata

	if sel, ok := obj.Prop("selector").(*model.Literal); ok {
		meta.Selector = unquote(sel.Value)
	}

	if st, ok := obj.Prop("standalone").(*model.Literal); ok {
		meta.Standalone = st.Value == "true"
	}

	if cd := obj.Prop("changeDetection"); cd != nil {
		meta.ChangeDetection, meta.Explicit = changeDetection(cd)
	}

	return meta
}

// changeDetection recognizes the strategy regardless of its spelling:
// ChangeDetectionStrategy.OnPush, OnPush, "onPush", or the enum value 0.
func changeDetection(e model.Expr) (model.ChangeDetection, bool) {
	var name string

	switch e := e.(type) {
	case *model.Selector:
		name = e.Name

	case *model.Ident:
		name = e.Name

	case *model.Literal:
		name = unquote(e.Value)

	default:
		return model.DefaultDetection, false
	}

	switch strings.ToLower(name) {
	case "onpush", "0":
		return model.OnPushDetection, true

	case "default", "1":
		return model.DefaultDetection, true

	default:
		return model.DefaultDetection, false
	}
}

// template flattens nested bindings into document order with parent indices.
func (p *projector) template(src *source.Template) *model.Template {
	file := src.File
	if file == "" {
		file = p.file
	}

	tp := &projector{file: file, component: p.component}
	t := &model.Template{File: file}

	var walk func(bindings []source.Binding, parent int)
	walk = func(bindings []source.Binding, parent int) {
		for i := range bindings {
			b := &bindings[i]

			mb := &model.Binding{
				Index:   len(t.Bindings),
				Parent:  parent,
				Kind:    tp.bindingKind(b),
				Element: b.Element,
				Target:  b.Target,
				Expr:    tp.expr(b.Expr),
				Alias:   b.Alias,
				Options: tp.options(b.Options),
				Loc:     tp.loc(b.Line, b.Column),
			}
			t.Bindings = append(t.Bindings, mb)

			walk(b.Children, mb.Index)
		}
	}
	walk(src.Bindings, model.NoParent)

	for _, e := range src.Elements {
		t.Elements = append(t.Elements, model.Element{Tag: e.Tag, Loc: tp.loc(e.Line, e.Column)})
	}

	p.errs = append(p.errs, tp.errs...)

	return t
}

func (p *projector) bindingKind(b *source.Binding) model.BindingKind {
	switch strings.ToLower(b.Kind) {
	case "interpolation", "text":
		return model.InterpolationBinding

	case "property", "attribute", "input":
		return model.PropertyBinding

	case "event", "output":
		return model.EventBinding

	case "structural", "template":
		return model.StructuralBinding

	case "two-way", "twoway", "banana":
		return model.TwoWayBinding

	default:
		p.unsupported(p.loc(b.Line, b.Column), "binding kind "+quote(b.Kind))
		return model.PropertyBinding
	}
}

func (p *projector) options(src map[string]*source.Node) []model.Property {
	if len(src) == 0 {
		return nil
	}

	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	out := make([]model.Property, 0, len(keys))
	for _, k := range keys {
		out = append(out, model.Property{Key: k, Value: p.expr(src[k])})
	}

	return out
}
