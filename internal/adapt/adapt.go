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

// Package adapt projects parsed component documents into the canonical analysis model.
//
// Constructs without a projection are degraded to opaque nodes and reported
// as [*UnsupportedConstruct] errors; the component is still returned so that
// detectors not depending on the construct can run.
package adapt

import (
	"context"
	"errors"
	"fmt"
	"runtime/trace"
	"strings"

	"fillmore-labs.com/rxguard/internal/astutil"
	"fillmore-labs.com/rxguard/internal/model"
	"fillmore-labs.com/rxguard/internal/source"
	"fillmore-labs.com/rxguard/internal/vocab"
)

// UnsupportedConstruct is reported for a construct the model has no projection for.
type UnsupportedConstruct struct {
	Component string
	Construct string
	Loc       model.Location
}

func (e *UnsupportedConstruct) Error() string {
	return fmt.Sprintf("%s: unsupported construct %s in %s", e.Loc, e.Construct, e.Component)
}

// Adapter projects parsed components using a vocabulary for hook names.
type Adapter struct {
	vocab *vocab.Vocabulary
}

// New creates an [Adapter].
func New(v *vocab.Vocabulary) *Adapter {
	if v == nil {
		v = vocab.Default()
	}

	return &Adapter{vocab: v}
}

// Batch projects all components of a document. The returned error, if not
// nil, joins the [*UnsupportedConstruct] errors of all components; the batch
// is complete nevertheless.
func (a *Adapter) Batch(ctx context.Context, doc *source.Document) (*model.Batch, error) {
	defer trace.StartRegion(ctx, "Adapt").End()

	components := make([]*model.Component, 0, len(doc.Components))

	var errs []error

	seen := make(map[string]int, len(doc.Components))

	for i := range doc.Components {
		src := &doc.Components[i]

		// component IDs must be unique within a batch
		id := componentID(src)
		if n := seen[id]; n > 0 {
			seen[id]++
			id = fmt.Sprintf("%s#%d", id, n+1)
		}
		seen[id]++

		c, err := a.component(src, id)
		if err != nil {
			errs = append(errs, err)
		}

		components = append(components, c)
	}

	return model.NewBatch(components), errors.Join(errs...)
}

// Component projects one parsed component.
func (a *Adapter) Component(src *source.Component) (*model.Component, error) {
	return a.component(src, componentID(src))
}

func (a *Adapter) component(src *source.Component, id string) (*model.Component, error) {
	p := projector{file: src.File, component: id}

	c := model.Component{
		ID:     id,
		Name:   src.Name,
		File:   src.File,
		Loc:    p.loc(src.Line, src.Column),
		NoLint: astutil.NoLintDirectives(src.Comments),
	}

	if src.Extends != "" {
		c.Base = model.Extends(vocab.TypeName(src.Extends))
	}

	c.Kind, c.Metadata = p.classMetadata(src.Decorators)

	for i := range src.Members {
		m := a.member(&p, &src.Members[i])
		c.Members = append(c.Members, m)
		c.Injected = append(c.Injected, injections(&p, m, &src.Members[i])...)
	}

	if src.Template != nil {
		c.Template = p.template(src.Template)
	}

	c.Unsupported = len(p.errs)

	return model.NewComponent(c), errors.Join(p.errs...)
}

func componentID(src *source.Component) string {
	if src.File == "" {
		return src.Name
	}

	return src.File + "#" + src.Name
}

func (a *Adapter) member(p *projector, src *source.Member) *model.Member {
	m := &model.Member{
		Name:    src.Name,
		Type:    src.Type,
		Loc:     p.loc(src.Line, src.Column),
		EndLine: src.EndLine,
		NoLint:  astutil.NoLintDirectives(src.Comments),
	}

	switch strings.ToLower(src.Kind) {
	case "field", "property":
		m.Kind = model.FieldMember
		m.Init = p.expr(src.Init)

	case "method":
		m.Kind = model.MethodMember

	case "get", "getter":
		m.Kind = model.GetterMember

	case "set", "setter":
		m.Kind = model.SetterMember

	case "constructor":
		m.Kind = model.ConstructorMember
		m.Hook = model.ConstructorHook

	default:
		m.Kind = model.OpaqueMember
		p.unsupported(m.Loc, "member kind "+quote(src.Kind))

		return m
	}

	if m.Callable() {
		m.Params = p.params(src.Params)
		m.Body = p.stmts(src.Body)
	}

	if m.Kind == model.MethodMember {
		m.Hook = a.hook(src.Name)
	}

	m.Visibility, m.Flags = modifiers(src.Name, src.Modifiers)
	m.Flags |= memberDecorators(src.Decorators) | signalFlags(m.Init)

	return m
}

var hooks = map[string]model.Hook{
	"ngOnInit":              model.InitHook,
	"ngOnChanges":           model.ChangesHook,
	"ngDoCheck":             model.DoCheckHook,
	"ngAfterContentInit":    model.AfterContentInitHook,
	"ngAfterContentChecked": model.AfterContentCheckedHook,
	"ngAfterViewInit":       model.AfterViewInitHook,
	"ngAfterViewChecked":    model.AfterViewCheckedHook,
}

func (a *Adapter) hook(name string) model.Hook {
	if a.vocab.DestroyHooks.Has(name) {
		return model.DestroyHook
	}

	return hooks[name]
}

func modifiers(name string, mods []string) (model.Visibility, model.MemberFlags) {
	var (
		visibility model.Visibility
		flags      model.MemberFlags
	)

	if strings.HasPrefix(name, "#") {
		visibility = model.Private
	}

	for _, mod := range mods {
		switch strings.ToLower(mod) {
		case "private":
			visibility = model.Private

		case "protected":
			visibility = model.Protected

		case "static":
			flags |= model.StaticFlag

		case "readonly":
			flags |= model.ReadonlyFlag
		}
	}

	return visibility, flags
}

func memberDecorators(decorators []source.Decorator) model.MemberFlags {
	var flags model.MemberFlags

	for _, d := range decorators {
		switch d.Name {
		case "Input":
			flags |= model.InputFlag

		case "Output":
			flags |= model.OutputFlag

		case "ViewChild", "ViewChildren", "ContentChild", "ContentChildren":
			flags |= model.ViewQueryFlag

		case "HostListener":
			flags |= model.HostListenerFlag

		case "HostBinding":
			flags |= model.HostBindingFlag
		}
	}

	return flags
}

// signalFlags recognizes function-based inputs, outputs and queries: input(), input.required(), output(), viewChild().
func signalFlags(init model.Expr) model.MemberFlags {
	call, ok := init.(*model.Call)
	if !ok {
		return 0
	}

	var name string
	switch fun := call.Fun.(type) {
	case *model.Ident:
		name = fun.Name

	case *model.Selector:
		if id, ok := fun.X.(*model.Ident); ok && fun.Name == "required" {
			name = id.Name
		}
	}

	switch name {
	case "input", "model":
		return model.InputFlag

	case "output", "outputFromObservable":
		return model.OutputFlag

	case "viewChild", "viewChildren", "contentChild", "contentChildren":
		return model.ViewQueryFlag

	default:
		return 0
	}
}

// injections derives the collaborators a member receives by dependency injection.
func injections(p *projector, m *model.Member, src *source.Member) []*model.Injection {
	switch m.Kind {
	case model.ConstructorMember:
		var out []*model.Injection

		for i, param := range m.Params {
			typ := injectToken(src.Params[i].Decorators)
			if typ == "" {
				typ = vocab.TypeName(param.Type)
			}

			if typ == "" {
				continue
			}

			out = append(out, &model.Injection{Name: param.Name, Type: typ, Field: param.Property, Loc: param.Loc})
		}

		return out

	case model.FieldMember:
		name, call, ok := model.FuncCall(m.Init)
		if !ok || name != "inject" || len(call.Args) == 0 {
			return nil
		}

		typ := typeOf(call.Args[0])
		if typ == "" {
			p.unsupported(m.Loc, "inject() token")
			return nil
		}

		return []*model.Injection{{Name: m.Name, Type: typ, Field: true, Loc: m.Loc}}

	default:
		return nil
	}
}

func injectToken(decorators []source.Decorator) string {
	for _, d := range decorators {
		if d.Name != "Inject" || len(d.Args) == 0 || d.Args[0] == nil {
			continue
		}

		if d.Args[0].Name != "" {
			return d.Args[0].Name
		}

		return unquote(d.Args[0].Value)
	}

	return ""
}

func typeOf(e model.Expr) string {
	switch e := e.(type) {
	case *model.Ident:
		return e.Name

	case *model.Selector:
		return e.Name

	case *model.Literal:
		return unquote(e.Value)

	default:
		return ""
	}
}

func quote(s string) string {
	if s == "" {
		return `""`
	}

	return `"` + s + `"`
}

func unquote(s string) string {
	if len(s) >= 2 {
		switch s[0] {
		case '\'', '"', '`':
			if s[len(s)-1] == s[0] {
				return s[1 : len(s)-1]
			}
		}
	}

	return s
}
