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

// Expr is a node of a class or template expression tree.
type Expr interface {
	Pos() Location
	exprNode()
}

// Stmt is a statement of a method, constructor, or callback body.
type Stmt interface {
	Pos() Location
	stmtNode()
}

// Node is embedded in every expression and statement to carry its location.
type Node struct {
	Loc Location
}

// Pos returns the source location of the node.
func (n Node) Pos() Location { return n.Loc }

type (
	// Ident is a bare identifier: a local, a parameter, a global or a template variable.
	Ident struct {
		Node
		Name string
	}

	// This is the receiver keyword of class code. Template expressions
	// reference class members through implicit receivers and use [Ident] instead.
	This struct {
		Node
	}

	// Selector is a member access X.Name, optionally null-safe (X?.Name).
	Selector struct {
		Node
		X        Expr
		Name     string
		Optional bool
	}

	// Index is an element access X[Index].
	Index struct {
		Node
		X, Index Expr
	}

	// Call is a function or method invocation.
	Call struct {
		Node
		Fun  Expr
		Args []Expr
	}

	// New is a construction expression new Class(Args).
	New struct {
		Node
		Class string
		Args  []Expr
	}

	// Arrow is a function literal. Expression-bodied arrows have a single [ReturnStmt] body.
	Arrow struct {
		Node
		Params []string
		Body   []Stmt
	}

	// Literal is a constant; Value is its source spelling.
	Literal struct {
		Node
		Value string
	}

	// Binary is a binary operation X Op Y.
	Binary struct {
		Node
		Op   string
		X, Y Expr
	}

	// Unary is a prefix operation Op X, including the non-null assertion.
	Unary struct {
		Node
		Op string
		X  Expr
	}

	// Conditional is Cond ? Then : Else.
	Conditional struct {
		Node
		Cond, Then, Else Expr
	}

	// Assign is Target Op Value, where Op is "=" or a compound operator.
	Assign struct {
		Node
		Target Expr
		Op     string
		Value  Expr
	}

	// PipeExpr is a template transform X | Name:Args.
	PipeExpr struct {
		Node
		X    Expr
		Name string
		Args []Expr
	}

	// Property is a key of an [ObjectLit].
	Property struct {
		Key   string
		Value Expr
	}

	// ObjectLit is an object literal.
	ObjectLit struct {
		Node
		Props []Property
	}

	// ArrayLit is an array literal.
	ArrayLit struct {
		Node
		Elems []Expr
	}

	// Opaque stands for an expression the adapter could not project.
	Opaque struct {
		Node
		Reason string
	}
)

func (*Ident) exprNode()       {}
func (*This) exprNode()        {}
func (*Selector) exprNode()    {}
func (*Index) exprNode()       {}
func (*Call) exprNode()        {}
func (*New) exprNode()         {}
func (*Arrow) exprNode()       {}
func (*Literal) exprNode()     {}
func (*Binary) exprNode()      {}
func (*Unary) exprNode()       {}
func (*Conditional) exprNode() {}
func (*Assign) exprNode()      {}
func (*PipeExpr) exprNode()    {}
func (*ObjectLit) exprNode()   {}
func (*ArrayLit) exprNode()    {}
func (*Opaque) exprNode()      {}

// Prop returns the value of the given key, or nil.
func (o *ObjectLit) Prop(key string) Expr {
	for _, p := range o.Props {
		if p.Key == key {
			return p.Value
		}
	}

	return nil
}

type (
	// ExprStmt is an expression evaluated for its effect.
	ExprStmt struct {
		Node
		X Expr
	}

	// ReturnStmt returns X, which may be nil.
	ReturnStmt struct {
		Node
		X Expr
	}

	// VarStmt declares a local variable with an optional initializer.
	VarStmt struct {
		Node
		Name string
		Init Expr
	}

	// IfStmt is a conditional statement.
	IfStmt struct {
		Node
		Cond       Expr
		Then, Else []Stmt
	}

	// BlockStmt is a nested statement list.
	BlockStmt struct {
		Node
		List []Stmt
	}

	// LoopStmt is any loop. Var is bound to each element of Iter when known.
	LoopStmt struct {
		Node
		Var  string
		Iter Expr
		Body []Stmt
	}

	// OpaqueStmt stands for a statement the adapter could not project.
	OpaqueStmt struct {
		Node
		Reason string
	}
)

func (*ExprStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode() {}
func (*VarStmt) stmtNode()    {}
func (*IfStmt) stmtNode()     {}
func (*BlockStmt) stmtNode()  {}
func (*LoopStmt) stmtNode()   {}
func (*OpaqueStmt) stmtNode() {}

// ThisField returns the field name when e is this.name, possibly null-safe.
func ThisField(e Expr) (string, bool) {
	sel, ok := e.(*Selector)
	if !ok {
		return "", false
	}

	if _, ok := sel.X.(*This); !ok {
		return "", false
	}

	return sel.Name, true
}

// MethodCall decomposes a call of the shape X.Name(Args).
func MethodCall(e Expr) (recv Expr, name string, call *Call, ok bool) {
	call, ok = e.(*Call)
	if !ok {
		return nil, "", nil, false
	}

	sel, ok := call.Fun.(*Selector)
	if !ok {
		return nil, "", nil, false
	}

	return sel.X, sel.Name, call, true
}

// FuncCall decomposes a call of a bare identifier Name(Args).
func FuncCall(e Expr) (name string, call *Call, ok bool) {
	call, ok = e.(*Call)
	if !ok {
		return "", nil, false
	}

	id, ok := call.Fun.(*Ident)
	if !ok {
		return "", nil, false
	}

	return id.Name, call, true
}
