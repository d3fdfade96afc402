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
	"fillmore-labs.com/rxguard/internal/model"
)

// Inspect traverses the tree rooted at node in depth-first order, calling f
// for every [model.Expr] and [model.Stmt]. If f returns false, the children
// of that node are skipped. node may be an expression, a statement, or a statement list.
func Inspect(node any, f func(n any) bool) {
	switch n := node.(type) {
	case nil:
		return

	case []model.Stmt:
		for _, s := range n {
			Inspect(s, f)
		}

		return

	case model.Expr:
		if !f(n) {
			return
		}

		inspectExpr(n, f)

	case model.Stmt:
		if !f(n) {
			return
		}

		inspectStmt(n, f)
	}
}

func inspectExpr(e model.Expr, f func(any) bool) {
	switch e := e.(type) {
	case *model.Selector:
		Inspect(e.X, f)

	case *model.Index:
		Inspect(e.X, f)
		Inspect(e.Index, f)

	case *model.Call:
		Inspect(e.Fun, f)
		inspectList(e.Args, f)

	case *model.New:
		inspectList(e.Args, f)

	case *model.Arrow:
		Inspect(e.Body, f)

	case *model.Binary:
		Inspect(e.X, f)
		Inspect(e.Y, f)

	case *model.Unary:
		Inspect(e.X, f)

	case *model.Conditional:
		Inspect(e.Cond, f)
		Inspect(e.Then, f)
		Inspect(e.Else, f)

	case *model.Assign:
		Inspect(e.Target, f)
		Inspect(e.Value, f)

	case *model.PipeExpr:
		Inspect(e.X, f)
		inspectList(e.Args, f)

	case *model.ObjectLit:
		for _, p := range e.Props {
			Inspect(p.Value, f)
		}

	case *model.ArrayLit:
		inspectList(e.Elems, f)
	}
}

func inspectStmt(s model.Stmt, f func(any) bool) {
	switch s := s.(type) {
	case *model.ExprStmt:
		Inspect(s.X, f)

	case *model.ReturnStmt:
		Inspect(s.X, f)

	case *model.VarStmt:
		Inspect(s.Init, f)

	case *model.IfStmt:
		Inspect(s.Cond, f)
		Inspect(s.Then, f)
		Inspect(s.Else, f)

	case *model.BlockStmt:
		Inspect(s.List, f)

	case *model.LoopStmt:
		Inspect(s.Iter, f)
		Inspect(s.Body, f)
	}
}

func inspectList(list []model.Expr, f func(any) bool) {
	for _, e := range list {
		Inspect(e, f)
	}
}

// ContainsOpaque reports whether the tree rooted at node contains a node the adapter could not project.
func ContainsOpaque(node any) bool {
	found := false

	Inspect(node, func(n any) bool {
		switch n.(type) {
		case *model.Opaque, *model.OpaqueStmt:
			found = true
		}

		return !found
	})

	return found
}
