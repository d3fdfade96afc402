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
	"fillmore-labs.com/rxguard/internal/lifecycle"
	"fillmore-labs.com/rxguard/internal/model"
	"fillmore-labs.com/rxguard/internal/streams"
)

// MultipleSubscriptions reports streams subscribed more than once without multicasting.
var MultipleSubscriptions = &Detector{
	Name:     "multiple-subscriptions",
	Doc:      "a stream without sharing operator is subscribed at several independent sites, repeating its work",
	Severity: level.Warning,
	Run:      runMultipleSubscriptions,
}

func runMultipleSubscriptions(p *Pass) error {
	for _, gr := range p.Streams.Groups() {
		if !gr.Duplicated() {
			continue
		}

		evidence := make([]model.Location, 0, len(gr.Sites))
		for _, s := range gr.Sites {
			evidence = append(evidence, s.Loc)
		}

		p.ReportEvidence(gr.Stream.Loc, evidence,
			"stream %s is subscribed %d times without a sharing operator; share it or subscribe once",
			gr.Stream.Label(), gr.Roots())
	}

	return nil
}

// NotUnsubscribing reports manual subscriptions outliving their component.
var NotUnsubscribing = &Detector{
	Name:     "not-unsubscribing",
	Doc:      "a manual subscription is neither released on destruction nor completed by a cancellation operator",
	Severity: level.Error,
	Run:      runNotUnsubscribing,
}

func runNotUnsubscribing(p *Pass) error {
	if p.Component.Kind == model.InjectableClass && p.Lifecycle.Destroy == nil {
		return nil // application-wide services live as long as the application
	}

	for _, site := range p.Streams.Manual() {
		if p.Lifecycle.Status(site) != lifecycle.Leaked {
			continue
		}

		p.Reportf(site.Loc,
			"subscription to %s in %s is never released; store and release the handle on destruction, or add a cancellation operator",
			site.Stream.Label(), site.Scope.Name())
	}

	return nil
}

// SubscribeInConstructor reports subscriptions made while the component is constructed.
var SubscribeInConstructor = &Detector{
	Name:     "subscribe-in-constructor",
	Doc:      "a manual subscription runs in the constructor or a field initializer instead of an initialization hook",
	Severity: level.Warning,
	Run:      runSubscribeInConstructor,
}

func runSubscribeInConstructor(p *Pass) error {
	for _, site := range p.Streams.Manual() {
		if !site.Scope.ConstructorEquivalent() {
			continue
		}

		p.Reportf(site.Loc, "subscription to %s in the %s runs during construction; move it to ngOnInit",
			site.Stream.Label(), site.Scope.Name())
	}

	return nil
}

// NestedSubscriptions reports subscriptions inside subscription callbacks depending on the delivered value.
var NestedSubscriptions = &Detector{
	Name:     "nested-subscriptions",
	Doc:      "a subscription inside another subscription's callback depends on its value; use a flattening operator",
	Severity: level.Warning,
	Run:      runNestedSubscriptions,
}

func runNestedSubscriptions(p *Pass) error {
	for _, site := range p.Streams.Nested() {
		p.ReportEvidence(site.Loc, []model.Location{site.Parent.Loc},
			"subscription to %s is nested in the callback of the subscription to %s; combine them with switchMap or a similar operator",
			site.Stream.Label(), site.Parent.Stream.Label())
	}

	return nil
}

// SubscribeToRender reports subscriptions that only copy values into template state.
var SubscribeToRender = &Detector{
	Name:     "subscribe-to-render",
	Doc:      "a manual subscription only copies values into fields the template renders; bind the stream with the async pipe",
	Severity: level.Info,
	Run:      runSubscribeToRender,
}

func runSubscribeToRender(p *Pass) error {
	if p.Component.Template == nil {
		return nil
	}

	rendered := templateNames(p.Component.Template)

	for _, site := range p.Streams.Manual() {
		fields, ok := copiesOnly(site)
		if !ok {
			continue
		}

		all := true
		for _, f := range fields {
			if !rendered[f] {
				all = false
				break
			}
		}

		if all {
			p.Reportf(site.Loc, "subscription to %s only copies values into %s for rendering; bind the stream with the async pipe instead",
				site.Stream.Label(), quoteList(fields))
		}
	}

	return nil
}

// copiesOnly returns the fields written by the value callback of site when
// assigning callback values to fields is all it does.
func copiesOnly(site *streams.Site) ([]string, bool) {
	if site.Call == nil || len(site.Call.Args) == 0 {
		return nil, false
	}

	var next *model.Arrow

	switch arg := site.Call.Args[0].(type) {
	case *model.Arrow:
		next = arg

	case *model.ObjectLit:
		next, _ = arg.Prop("next").(*model.Arrow)
	}

	if next == nil || len(next.Params) == 0 || len(next.Body) == 0 {
		return nil, false
	}

	var fields []string

	for _, stmt := range next.Body {
		var x model.Expr

		switch s := stmt.(type) {
		case *model.ExprStmt:
			x = s.X

		case *model.ReturnStmt:
			x = s.X // expression-bodied arrow
		}

		a, ok := x.(*model.Assign)
		if !ok || a.Op != "=" {
			return nil, false
		}

		field, ok := model.ThisField(a.Target)
		if !ok || !readsAny(a.Value, next.Params) {
			return nil, false
		}

		fields = append(fields, field)
	}

	return fields, true
}

func readsAny(e model.Expr, names []string) bool {
	for id := range astutil.AllIdents(e) {
		for _, n := range names {
			if id.Name == n {
				return true
			}
		}
	}

	return false
}

// DestroySignalNotEmitted reports cancellation notifiers never emitted on destruction.
var DestroySignalNotEmitted = &Detector{
	Name:     "destroy-signal-not-emitted",
	Doc:      "a cancellation operator waits for a notifier the destruction hook never emits",
	Severity: level.Error,
	Run:      runDestroySignalNotEmitted,
}

func runDestroySignalNotEmitted(p *Pass) error {
	lg := p.Lifecycle
	if lg.Opaque {
		return nil
	}

	if _, ok := p.Component.Base.Base(); ok && lg.Destroy == nil {
		return nil // a base class may emit in its own destruction hook
	}

	var (
		order []string
		uses  = make(map[string][]model.Location)
	)

	for _, site := range p.Streams.Manual() {
		op, ok := lg.Cancellation(site)
		if !ok {
			continue
		}

		field, ok := lg.Notifier(op)
		if !ok || p.Component.Symbols().Field(field) == nil || len(lg.Signals(field)) > 0 {
			continue
		}

		if _, seen := uses[field]; !seen {
			order = append(order, field)
		}

		uses[field] = append(uses[field], op.Loc)
	}

	for _, field := range order {
		m := p.Component.Symbols().Field(field)
		p.ReportEvidence(m.Loc, uses[field],
			"cancellation notifier %s is never emitted on destruction; call this.%s.next() in ngOnDestroy",
			field, field)
	}

	return nil
}

// TakeUntilLeak reports operators after the cancellation operator that can keep a subscription alive.
var TakeUntilLeak = &Detector{
	Name:     "takeuntil-leak",
	Doc:      "operators following the cancellation operator may subscribe to new sources that outlive the component",
	Severity: level.Error,
	Run:      runTakeUntilLeak,
}

func runTakeUntilLeak(p *Pass) error {
	for _, site := range p.Streams.Manual() {
		ops := site.Pipeline()

		last := -1
		for i, op := range ops {
			if p.Vocab.Cancellation.Has(op.Name) {
				last = i
			}
		}

		if last < 0 {
			continue
		}

		for _, op := range ops[last+1:] {
			if p.Vocab.SafeAfterCancellation.Has(op.Name) || p.Vocab.Cancellation.Has(op.Name) {
				continue
			}

			p.ReportEvidence(ops[last].Loc, []model.Location{op.Loc},
				"%s is followed by %s, which can keep the subscription alive; make %s the last operator",
				ops[last].Name, op.Name, ops[last].Name)

			break
		}
	}

	return nil
}
