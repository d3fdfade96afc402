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

package detect

import (
	"fillmore-labs.com/rxguard/analyzer/level"
	"fillmore-labs.com/rxguard/internal/astutil"
	"fillmore-labs.com/rxguard/internal/model"
)

// LogicInTemplate reports template expressions carrying logic.
var LogicInTemplate = &Detector{
	Name:         "logic-in-template",
	Doc:          "a template expression calls a component method or combines more operators than the threshold",
	Severity:     level.Warning,
	Threshold:    3,
	HasThreshold: true,
	Run:          runLogicInTemplate,
}

func runLogicInTemplate(p *Pass) error {
	t := p.Component.Template
	if t == nil {
		return nil
	}

	syms := p.Component.Symbols()

	for _, b := range t.Bindings {
		if b.Kind == model.EventBinding || b.Expr == nil {
			continue
		}

		if name, ok := methodCall(syms, b.Expr); ok {
			p.Reportf(b.Loc, "template calls method %s(), which runs on every change detection; precompute the value in a field or a pipe", name)
			continue
		}

		count, depth := operators(b.Expr)
		if float64(count) > p.Threshold || float64(depth) > p.Threshold {
			p.Reportf(b.Loc, "template expression has %d operators nested %d deep (max %g); move the logic into the component",
				count, depth, p.Threshold)
		}
	}

	return nil
}

// methodCall returns the first component method invoked by a template expression.
// Calls of fields, such as signal reads, are not method invocations.
func methodCall(syms *model.SymbolTable, e model.Expr) (string, bool) {
	for call := range astutil.AllCalls(e) {
		var name string

		switch fun := call.Fun.(type) {
		case *model.Ident:
			name = fun.Name

		case *model.Selector:
			n, ok := model.ThisField(fun)
			if !ok {
				continue
			}

			name = n

		default:
			continue
		}

		if m := syms.Method(name); m != nil && m.Kind == model.MethodMember {
			return name, true
		}
	}

	return "", false
}

// operators counts the logical, arithmetic and conditional operators of an
// expression and their deepest nesting.
func operators(e model.Expr) (count, depth int) {
	var visit func(e model.Expr) int

	visit = func(e model.Expr) int {
		inner := 0

		for _, child := range children(e) {
			inner = max(inner, visit(child))
		}

		if operator(e) {
			count++
			inner++
		}

		return inner
	}

	return count, visit(e)
}

func operator(e model.Expr) bool {
	switch x := e.(type) {
	case *model.Binary, *model.Conditional:
		return true

	case *model.Unary:
		switch x.Op {
		case "!", "-", "+", "~", "typeof":
			return true
		}
	}

	return false
}

// children returns the direct subexpressions of e.
func children(e model.Expr) []model.Expr {
	switch x := e.(type) {
	case *model.Selector:
		return []model.Expr{x.X}

	case *model.Index:
		return []model.Expr{x.X, x.Index}

	case *model.Call:
		return append([]model.Expr{x.Fun}, x.Args...)

	case *model.Binary:
		return []model.Expr{x.X, x.Y}

	case *model.Unary:
		return []model.Expr{x.X}

	case *model.Conditional:
		return []model.Expr{x.Cond, x.Then, x.Else}

	case *model.PipeExpr:
		return append([]model.Expr{x.X}, x.Args...)

	case *model.Assign:
		return []model.Expr{x.Target, x.Value}

	case *model.ArrayLit:
		return x.Elems

	case *model.ObjectLit:
		out := make([]model.Expr, 0, len(x.Props))
		for _, p := range x.Props {
			out = append(out, p.Value)
		}

		return out

	default:
		return nil
	}
}

// MissingTrackBy reports repeaters without track-by function.
var MissingTrackBy = &Detector{
	Name:     "missing-trackby",
	Doc:      "a repeater without trackBy re-creates every element when the collection changes",
	Severity: level.Info,
	Run:      runMissingTrackBy,
}

func runMissingTrackBy(p *Pass) error {
	t := p.Component.Template
	if t == nil {
		return nil
	}

	for _, b := range t.Bindings {
		if b.Kind != model.StructuralBinding || !p.Vocab.Repeaters.Has(b.Target) || b.Option("trackBy") != nil {
			continue
		}

		p.Reportf(b.Loc, "*%s without trackBy re-creates every element when the collection changes; add a trackBy function", b.Target)
	}

	return nil
}
