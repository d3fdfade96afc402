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
	"fillmore-labs.com/rxguard/internal/model"
)

// ProducerKind classifies what produces the values of a stream.
type ProducerKind uint8

//go:generate go tool stringer -type ProducerKind,SiteKind -linecomment
const (
	FieldProducer    ProducerKind = iota // field
	ComputedProducer                     // computed
	HTTPProducer                         // httpCall
	SubjectProducer                      // subjectLike
	OtherProducer                        // other
)

// SiteKind classifies how a stream is consumed.
type SiteKind uint8

const (
	// ManualSubscribe is a subscribe-equivalent call in class code.
	ManualSubscribe SiteKind = iota // manualSubscribe
	// TemplateAsync is a template binding rendering the stream through an async transform.
	TemplateAsync // templateAsync
	// TemplateInput is a template property binding handing the raw stream to a child component.
	TemplateInput // templateInput
)

// OperatorRef is one operator applied to a stream.
type OperatorRef struct {
	Name string
	Args []model.Expr
	Loc  model.Location
}

// Stream is an expression denoting a stream value: a field initializer, a
// getter or method return, or an inline expression consumed in place.
type Stream struct {
	ID int
	// Name is the declaring field, getter or method; empty for inline streams.
	Name string
	// Member is the declaring member, nil for inline and implicit streams.
	Member *model.Member
	Loc    model.Location
	// Expr is the defining expression, nil for implicit streams.
	Expr      model.Expr
	Producer  ProducerKind
	Operators []OperatorRef
	// Sharing is set when an operator multicasts the stream.
	Sharing bool
	// Upstream is the named stream this one is derived from.
	Upstream *Stream
	// Implicit is set for streams referenced but not declared in the class, e.g. inherited.
	Implicit bool

	singleShot bool
}

// Inline reports whether the stream is consumed where it is defined.
func (s *Stream) Inline() bool { return s.Name == "" }

// SingleShot reports whether the stream is proven to complete after at most one emission.
func (s *Stream) SingleShot() bool { return s.singleShot }

// Label names the stream for diagnostics.
func (s *Stream) Label() string {
	if s.Name != "" {
		return s.Name
	}

	return "inline stream"
}

// Scope is the lifecycle scope enclosing a consumption site.
type Scope struct {
	Member *model.Member
	Hook   model.Hook
	// FieldInit is set for sites inside a field initializer.
	FieldInit bool
}

// ConstructorEquivalent reports whether the scope runs during construction.
func (s Scope) ConstructorEquivalent() bool {
	return s.Hook == model.ConstructorHook || s.FieldInit
}

// Name describes the scope for diagnostics.
func (s Scope) Name() string {
	switch {
	case s.FieldInit && s.Member != nil:
		return "initializer of " + s.Member.Name

	case s.Hook != model.NoHook:
		return s.Hook.String()

	case s.Member != nil:
		return s.Member.Name

	default:
		return "template"
	}
}

// Site is a point where a stream is consumed.
type Site struct {
	ID     int
	Kind   SiteKind
	Stream *Stream
	Loc    model.Location
	Scope  Scope

	// Call is the subscribe-equivalent call of a manual site.
	Call *model.Call
	// Receiver is the subscribed expression of a manual site.
	Receiver model.Expr
	// Operators are applied between the stream reference and the subscription.
	Operators []OperatorRef
	// Parent is the manual site whose callbacks contain this one.
	Parent *Site

	// Binding is the template binding of a template site.
	Binding *model.Binding
	// AliasRoot is the binding introducing the template alias read at this site.
	AliasRoot *model.Binding

	singleShot bool
}

// SingleShot reports whether the consumed pipeline completes after at most one emission.
func (s *Site) SingleShot() bool { return s.singleShot }

// Pipeline returns the operators between the stream's producer and this site.
func (s *Site) Pipeline() []OperatorRef {
	if len(s.Operators) == 0 {
		return s.Stream.Operators
	}

	ops := make([]OperatorRef, 0, len(s.Stream.Operators)+len(s.Operators))
	ops = append(ops, s.Stream.Operators...)

	return append(ops, s.Operators...)
}

// Callbacks returns the function arguments of a manual site.
// An observer object contributes its next, error and complete handlers.
func (s *Site) Callbacks() []*model.Arrow {
	if s.Call == nil {
		return nil
	}

	var out []*model.Arrow

	for _, arg := range s.Call.Args {
		switch arg := arg.(type) {
		case *model.Arrow:
			out = append(out, arg)

		case *model.ObjectLit:
			for _, p := range arg.Props {
				if f, ok := p.Value.(*model.Arrow); ok {
					out = append(out, f)
				}
			}
		}
	}

	return out
}

// root identifies the subtree a site belongs to: alias reads and the alias
// binding they read share one root.
func (s *Site) root() any {
	if s.AliasRoot != nil {
		return s.AliasRoot
	}

	if s.Binding != nil && s.Binding.Alias != "" && s.Kind == TemplateAsync {
		return s.Binding
	}

	return s
}
