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
	"slices"
	"strconv"
	"strings"

	"fillmore-labs.com/rxguard/internal/model"
)

// chain is a stream expression decomposed into its root and the operators applied to it.
type chain struct {
	root     model.Expr
	ops      []OperatorRef
	producer ProducerKind
	// upstream is the this-field, method or collaborator path the chain starts from.
	upstream string
	method   bool
	// stream is set when the shape of the expression proves a stream.
	stream bool
	// sharing is set for roots that multicast by themselves.
	sharing    bool
	singleShot bool
}

// decompose strips pipe, prototype operator and asObservable calls off e.
func (b *builder) decompose(e model.Expr) chain {
	var (
		segments [][]OperatorRef
		piped    bool
	)

loop:
	for {
		switch x := e.(type) {
		case *model.Unary:
			e = x.X

		case *model.Call:
			recv, name, call, ok := model.MethodCall(x)
			if !ok {
				break loop
			}

			if _, ok := recv.(*model.This); ok {
				break loop
			}

			switch {
			case name == "pipe":
				segments = append(segments, b.operators(call.Args))
				piped = true

			case name == "asObservable":

			case b.vocab.Operators.Has(name):
				segments = append(segments, []OperatorRef{{Name: name, Args: call.Args, Loc: call.Pos()}})

			default:
				break loop
			}

			e = recv

		default:
			break loop
		}
	}

	c := b.classifyRoot(e)

	for _, seg := range slices.Backward(segments) {
		c.ops = append(c.ops, seg...)
	}

	if piped {
		c.stream = true
	}

	return c
}

// operators resolves the arguments of a pipe call. Arguments that are not
// operator applications keep an empty name.
func (b *builder) operators(args []model.Expr) []OperatorRef {
	ops := make([]OperatorRef, 0, len(args))

	for _, arg := range args {
		op := OperatorRef{Loc: arg.Pos()}

		if call, ok := arg.(*model.Call); ok {
			op.Args = call.Args

			switch fun := call.Fun.(type) {
			case *model.Ident:
				op.Name = fun.Name

			case *model.Selector: // namespaced, e.g. operators.map
				op.Name = fun.Name
			}
		}

		ops = append(ops, op)
	}

	return ops
}

func (b *builder) classifyRoot(e model.Expr) chain {
	c := chain{root: e, producer: OtherProducer}

	switch x := e.(type) {
	case *model.New:
		if b.vocab.Subjects.Has(x.Class) {
			c.producer, c.stream = SubjectProducer, true
		}

	case *model.Ident:
		c.stream = strings.HasSuffix(x.Name, "$")

	case *model.Selector:
		if name, ok := model.ThisField(x); ok {
			c.producer, c.upstream = FieldProducer, name
			c.stream = b.streamName(name)

			break
		}

		if p, ok := path(x); ok && strings.HasSuffix(x.Name, "$") {
			c.upstream, c.stream = p, true
		}

	case *model.Call:
		if name, call, ok := model.FuncCall(x); ok {
			switch {
			case b.vocab.Sharing.Has(name):
				c.producer, c.stream, c.sharing = ComputedProducer, true, true

			case b.vocab.Creation.Has(name):
				c.producer, c.stream = ComputedProducer, true
				c.singleShot = b.singleShotCreation(name, call)
			}

			break
		}

		recv, name, _, ok := model.MethodCall(x)
		if !ok {
			break
		}

		if _, ok := recv.(*model.This); ok {
			c.producer, c.upstream, c.method = ComputedProducer, name, true
			c.stream = b.streamName(name)

			break
		}

		if field, ok := model.ThisField(recv); ok && b.httpClient(field) && b.vocab.HTTPMethods.Has(name) {
			c.producer, c.stream, c.singleShot = HTTPProducer, true, true
		}
	}

	return c
}

// httpClient reports whether the collaborator stored under field performs network requests.
func (b *builder) httpClient(field string) bool {
	in := b.component.Symbols().Injection(field)

	return in != nil && in.Field && b.vocab.HTTPTypes.Has(in.Type)
}

func (b *builder) singleShotCreation(name string, call *model.Call) bool {
	switch {
	case b.vocab.SingleShotCreation.Has(name):
		return true

	case name == "timer":
		return len(call.Args) == 1

	case name == "forkJoin":
		inputs := call.Args
		if len(inputs) == 1 {
			switch arg := inputs[0].(type) {
			case *model.ArrayLit:
				inputs = arg.Elems

			case *model.ObjectLit:
				inputs = nil
				for _, p := range arg.Props {
					inputs = append(inputs, p.Value)
				}
			}
		}

		if len(inputs) == 0 {
			return false
		}

		for _, in := range inputs {
			if !b.chainSingleShot(b.decompose(in), nil) {
				return false
			}
		}

		return true

	default:
		return false
	}
}

// chainSingleShot evaluates whether the chain completes after at most one emission.
func (b *builder) chainSingleShot(c chain, upstream *Stream) bool {
	base := c.singleShot
	if upstream != nil {
		base = upstream.singleShot
	} else if c.upstream != "" {
		if s := b.named(c.upstream); s != nil {
			base = s.singleShot
		}
	}

	return b.opsSingleShot(base, c.ops)
}

// opsSingleShot applies the operators to the single-shot property of their source.
func (b *builder) opsSingleShot(base bool, ops []OperatorRef) bool {
	for _, op := range ops {
		switch {
		case b.bounding(op):
			base = true

		case flattening[op.Name]:
			base = base && b.projectionSingleShot(op)

		case expanding[op.Name]:
			base = false
		}
	}

	return base
}

func (b *builder) bounding(op OperatorRef) bool {
	if !b.vocab.Bounding.Has(op.Name) {
		return false
	}

	if op.Name != "take" {
		return true
	}

	if len(op.Args) != 1 {
		return false
	}

	lit, ok := op.Args[0].(*model.Literal)
	if !ok {
		return false
	}

	n, err := strconv.Atoi(lit.Value)

	return err == nil && n > 0
}

var (
	flattening = map[string]bool{
		"switchMap": true, "mergeMap": true, "concatMap": true, "exhaustMap": true, "flatMap": true,
		"switchMapTo": true, "mergeMapTo": true, "concatMapTo": true,
	}

	expanding = map[string]bool{
		"repeat": true, "repeatWhen": true, "expand": true, "mergeWith": true, "concatWith": true,
		"combineLatestWith": true, "zipWith": true, "switchScan": true, "mergeScan": true,
	}
)

// projectionSingleShot reports whether every stream a flattening operator maps to is single-shot.
func (b *builder) projectionSingleShot(op OperatorRef) bool {
	if len(op.Args) == 0 {
		return false
	}

	f, ok := op.Args[0].(*model.Arrow)
	if !ok {
		return b.chainSingleShot(b.decompose(op.Args[0]), nil) // *MapTo variants
	}

	returns := returnValues(f.Body)
	if len(returns) == 0 {
		return false
	}

	for _, r := range returns {
		if !b.chainSingleShot(b.decompose(r), nil) {
			return false
		}
	}

	return true
}

// returnValues collects the values returned by a function body, not descending into nested functions.
func returnValues(body []model.Stmt) []model.Expr {
	var out []model.Expr

	var walk func(list []model.Stmt)
	walk = func(list []model.Stmt) {
		for _, s := range list {
			switch s := s.(type) {
			case *model.ReturnStmt:
				if s.X != nil {
					out = append(out, s.X)
				}

			case *model.IfStmt:
				walk(s.Then)
				walk(s.Else)

			case *model.BlockStmt:
				walk(s.List)

			case *model.LoopStmt:
				walk(s.Body)
			}
		}
	}
	walk(body)

	return out
}

// sharingOps reports whether the operators multicast the stream: a sharing
// operator, or a multicast operator followed by a reference counting one.
func (b *builder) sharingOps(ops []OperatorRef) bool {
	multicast := false

	for _, op := range ops {
		switch {
		case b.vocab.Sharing.Has(op.Name):
			return true

		case b.vocab.Multicast.Has(op.Name):
			multicast = true

		case multicast && b.vocab.RefCount.Has(op.Name):
			return true
		}
	}

	return false
}

// path renders a member access chain rooted at this or an identifier as a dotted path,
// omitting this: this.facade.items$ becomes "facade.items$".
func path(e model.Expr) (string, bool) {
	var parts []string

	for {
		switch x := e.(type) {
		case *model.Selector:
			parts = append(parts, x.Name)
			e = x.X

		case *model.This:
			if len(parts) == 0 {
				return "", false
			}

			slices.Reverse(parts)

			return strings.Join(parts, "."), true

		case *model.Ident:
			parts = append(parts, x.Name)
			slices.Reverse(parts)

			return strings.Join(parts, "."), true

		default:
			return "", false
		}
	}
}
