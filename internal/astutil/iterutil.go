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

package astutil

import (
	"iter"

	"fillmore-labs.com/rxguard/internal/model"
)

// AllCalls yields all calls in the tree rooted at node, in source order.
func AllCalls(node any) iter.Seq[*model.Call] {
	return allOf[*model.Call](node)
}

// AllAssigns yields all assignments in the tree rooted at node.
func AllAssigns(node any) iter.Seq[*model.Assign] {
	return allOf[*model.Assign](node)
}

// AllIdents yields all bare identifiers in the tree rooted at node.
func AllIdents(node any) iter.Seq[*model.Ident] {
	return allOf[*model.Ident](node)
}

// AllThisFields yields the names of all this.name accesses in the tree rooted at node.
func AllThisFields(node any) iter.Seq[string] {
	return func(yield func(string) bool) {
		for sel := range allOf[*model.Selector](node) {
			name, ok := model.ThisField(sel)
			if !ok {
				continue
			}

			if !yield(name) {
				return
			}
		}
	}
}

// AssignedThisFields yields the fields written by assignments in the tree rooted at node.
func AssignedThisFields(node any) iter.Seq[*model.Assign] {
	return func(yield func(*model.Assign) bool) {
		for a := range AllAssigns(node) {
			if _, ok := AssignedField(a); !ok {
				continue
			}

			if !yield(a) {
				return
			}
		}
	}
}

// AssignedField returns the field written by an assignment this.name = value,
// or this.name.x = value.
func AssignedField(a *model.Assign) (string, bool) {
	target := a.Target
	for {
		if name, ok := model.ThisField(target); ok {
			return name, true
		}

		switch t := target.(type) {
		case *model.Selector:
			target = t.X

		case *model.Index:
			target = t.X

		default:
			return "", false
		}
	}
}

func allOf[T any](node any) iter.Seq[T] {
	return func(yield func(T) bool) {
		done := false

		Inspect(node, func(n any) bool {
			if done {
				return false
			}

			if t, ok := n.(T); ok && !yield(t) {
				done = true
				return false
			}

			return true
		})
	}
}

// Root returns the innermost receiver of a member, index, call or pipe chain.
// For "user?.address.street" it returns the identifier user, for
// "this.items$.pipe(map(f))" it returns this.items$.
func Root(e model.Expr) model.Expr {
	for {
		switch x := e.(type) {
		case *model.Selector:
			if _, ok := x.X.(*model.This); ok {
				return x
			}

			e = x.X

		case *model.Index:
			e = x.X

		case *model.Call:
			sel, ok := x.Fun.(*model.Selector)
			if !ok {
				return x
			}

			if _, ok := sel.X.(*model.This); ok {
				return x // this.method()
			}

			e = sel.X

		case *model.PipeExpr:
			e = x.X

		case *model.Unary:
			e = x.X

		default:
			return e
		}
	}
}

// RootName returns the identifier or this-field a chain starts with.
func RootName(e model.Expr) (string, bool) {
	switch r := Root(e).(type) {
	case *model.Ident:
		return r.Name, true

	case *model.Selector:
		return model.ThisField(r)

	case *model.Call:
		if id, ok := r.Fun.(*model.Ident); ok {
			return id.Name, true
		}

		if sel, ok := r.Fun.(*model.Selector); ok {
			return model.ThisField(sel)
		}
	}

	return "", false
}
