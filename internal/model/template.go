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

package model

import "strings"

// BindingKind is the syntactic form of a template binding.
type BindingKind uint8

const (
	InterpolationBinding BindingKind = iota // interpolation
	PropertyBinding                         // property
	EventBinding                            // event
	StructuralBinding                       // structural
	TwoWayBinding                           // two-way
)

// NoParent is the parent index of top-level bindings.
const NoParent = -1

// Binding is one binding site of a template.
type Binding struct {
	// Index is the position of the binding in document order.
	Index int
	// Parent is the index of the enclosing structural binding, or [NoParent].
	Parent  int
	Kind    BindingKind
	Element string
	// Target is the bound property, event, or directive (e.g. "ngIf", "data", "click").
	Target string
	Expr   Expr
	// Alias is the local template variable introduced by the binding ("as x", "let x").
	Alias string
	// Options are the structural micro-syntax keys such as trackBy.
	Options []Property
	Loc     Location
}

// Option returns the structural option with the given key.
func (b *Binding) Option(key string) Expr {
	for _, p := range b.Options {
		if strings.EqualFold(p.Key, key) {
			return p.Value
		}
	}

	return nil
}

// Element is an element rendered by a template.
type Element struct {
	Tag string
	Loc Location
}

// Template is the view of a component: its bindings in document order and the elements it renders.
type Template struct {
	File     string
	Bindings []*Binding
	Elements []Element
}

// Ancestors yields the indices of all structural bindings enclosing b, innermost first.
func (t *Template) Ancestors(b *Binding) []int {
	var out []int

	for p := b.Parent; p != NoParent && p >= 0 && p < len(t.Bindings); p = t.Bindings[p].Parent {
		if len(out) > len(t.Bindings) {
			break // malformed parent chain
		}

		out = append(out, p)
	}

	return out
}

// CustomElement reports whether tag names a custom element rather than a native one.
func CustomElement(tag string) bool {
	return strings.Contains(tag, "-")
}
