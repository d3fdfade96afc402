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
	"fillmore-labs.com/rxguard/internal/vocab"
)

// GodComponent reports components fetching data, causing side effects and holding much view state at once.
var GodComponent = &Detector{
	Name:         "god-component",
	Doc:          "a component performs network calls, navigation or side effects, and owns many template-bound state fields",
	Severity:     level.Warning,
	Threshold:    5,
	HasThreshold: true,
	Run:          runGodComponent,
}

func runGodComponent(p *Pass) error {
	c := p.Component
	if c.Kind != model.ComponentClass || c.Template == nil {
		return nil
	}

	network, effect, ok := responsibilities(c, p.Vocab)
	if !ok {
		return nil
	}

	rendered := templateNames(c.Template)

	var state []model.Location

	for _, m := range c.Members {
		if rendered[m.Name] && stateField(p, m) {
			state = append(state, m.Loc)
		}
	}

	if float64(len(state)) <= p.Threshold {
		return nil
	}

	evidence := append([]model.Location{network, effect}, state...)
	p.ReportEvidence(c.Loc, evidence,
		"%s performs network calls, causes side effects, and owns %d template-bound state fields (max %g); delegate to services and child components",
		c.Name, len(state), p.Threshold)

	return nil
}

// responsibilities returns the first network call and the first navigation or side effect of a class.
func responsibilities(c *model.Component, v *vocab.Vocabulary) (network, effect model.Location, ok bool) {
	var foundNetwork, foundEffect bool

	for _, body := range bodies(c) {
		for call := range astutil.AllCalls(body) {
			switch {
			case !foundNetwork && networkCall(c, v, call):
				network, foundNetwork = call.Pos(), true

			case !foundEffect && sideEffectCall(c, v, call):
				effect, foundEffect = call.Pos(), true
			}
		}
	}

	return network, effect, foundNetwork && foundEffect
}

// collaborator returns the type of the injected collaborator a call is made on, as in this.http.get().
func collaborator(c *model.Component, call *model.Call) (string, bool) {
	recv, _, _, ok := model.MethodCall(call)
	if !ok {
		return "", false
	}

	name, ok := model.ThisField(recv)
	if !ok {
		return "", false
	}

	in := c.Symbols().Injection(name)
	if in == nil {
		return "", false
	}

	return vocab.TypeName(in.Type), true
}

func networkCall(c *model.Component, v *vocab.Vocabulary, call *model.Call) bool {
	if typ, ok := collaborator(c, call); ok {
		return v.HTTPTypes.Has(typ)
	}

	name, _, ok := model.FuncCall(call)

	return ok && name == "fetch"
}

func sideEffectCall(c *model.Component, v *vocab.Vocabulary, call *model.Call) bool {
	if typ, ok := collaborator(c, call); ok {
		return v.NavigationTypes.Has(typ)
	}

	if name, _, ok := model.FuncCall(call); ok {
		return v.SideEffectGlobals.Has(name)
	}

	recv, _, _, ok := model.MethodCall(call)
	if !ok {
		return false
	}

	if name, ok := astutil.RootName(recv); ok {
		if _, isThis := model.ThisField(astutil.Root(recv)); !isThis {
			return v.SideEffectGlobals.Has(name)
		}
	}

	return false
}

// stateField reports whether a member is view state owned by the class itself.
func stateField(p *Pass, m *model.Member) bool {
	if m.Kind != model.FieldMember || m.Flags&(model.InputFlag|model.OutputFlag|model.ViewQueryFlag|model.StaticFlag) != 0 {
		return false
	}

	if p.Component.Symbols().Injection(m.Name) != nil || p.Streams.Stream(m.Name) != nil || p.Vocab.StreamType(m.Type) {
		return false
	}

	return true
}

// MixingSmartDumb reports components acting as container and as presentational leaf at once.
var MixingSmartDumb = &Detector{
	Name:         "mixing-smart-dumb",
	Doc:          "a component injects data collaborators, emits many outputs, and renders nothing received through inputs",
	Severity:     level.Info,
	Threshold:    2,
	HasThreshold: true,
	Run:          runMixingSmartDumb,
}

func runMixingSmartDumb(p *Pass) error {
	c := p.Component
	if c.Kind != model.ComponentClass || c.Template == nil {
		return nil
	}

	var data []string

	for _, in := range c.Injected {
		if typ := vocab.TypeName(in.Type); !p.Vocab.FrameworkTypes.Has(typ) && !p.Vocab.NavigationTypes.Has(typ) {
			data = append(data, in.Name)
		}
	}

	if len(data) == 0 {
		return nil
	}

	var outputs []model.Location

	for _, m := range c.Members {
		if m.Flags.Has(model.OutputFlag) {
			outputs = append(outputs, m.Loc)
		}
	}

	if float64(len(outputs)) <= p.Threshold {
		return nil
	}

	rendered := templateNames(c.Template)
	for name := range rendered {
		if c.Symbols().IsInput(name) {
			return nil
		}
	}

	p.ReportEvidence(c.Loc, outputs,
		"%s injects data collaborators %s and emits %d outputs (max %g) without rendering any input; split it into a container and a presentational component",
		c.Name, quoteList(data), len(outputs), p.Threshold)

	return nil
}

// ModifyDOMDirectly reports direct platform access outside sanctioned wrappers.
var ModifyDOMDirectly = &Detector{
	Name:     "modify-dom-directly",
	Doc:      "class code accesses the DOM directly instead of using the renderer or bindings",
	Severity: level.Warning,
	Run:      runModifyDOMDirectly,
}

func runModifyDOMDirectly(p *Pass) error {
	c := p.Component
	if p.Vocab.SanctionedWrappers.Has(c.Name) {
		return nil
	}

	if base, ok := c.Base.Base(); ok && p.Vocab.SanctionedWrappers.Has(base) {
		return nil
	}

	for _, body := range bodies(c) {
		astutil.Inspect(body, func(n any) bool {
			sel, ok := n.(*model.Selector)
			if !ok {
				return true
			}

			id, isIdent := sel.X.(*model.Ident)

			switch {
			case isIdent && p.Vocab.DOMGlobals.Has(id.Name):
				p.Reportf(sel.Pos(), "direct access to %s.%s; use Renderer2 or template bindings", id.Name, sel.Name)

			case p.Vocab.DOMMembers.Has(sel.Name):
				p.Reportf(sel.Pos(), "direct DOM access through %s; use Renderer2 or template bindings", sel.Name)

			default:
				return true
			}

			return false // one finding per access chain
		})
	}

	return nil
}

// DefaultChangeDetection reports components using default change detection.
var DefaultChangeDetection = &Detector{
	Name:     "default-change-detection",
	Doc:      "a component uses the default change detection strategy instead of OnPush",
	Severity: level.Info,
	Run:      runDefaultChangeDetection,
}

func runDefaultChangeDetection(p *Pass) error {
	c := p.Component
	if c.Kind != model.ComponentClass || c.Metadata.ChangeDetection != model.DefaultDetection {
		return nil
	}

	p.Reportf(c.Loc, "%s uses default change detection; set changeDetection: ChangeDetectionStrategy.OnPush", c.Name)

	return nil
}

// MutateInput reports writes to data inputs.
var MutateInput = &Detector{
	Name:     "mutate-input",
	Doc:      "class code reassigns or mutates a value received through an input",
	Severity: level.Warning,
	Run:      runMutateInput,
}

func runMutateInput(p *Pass) error {
	syms := p.Component.Symbols()

	for _, m := range p.Component.Members {
		if !m.Callable() || m.Kind == model.SetterMember {
			continue
		}

		astutil.Inspect(m.Body, func(n any) bool {
			switch n := n.(type) {
			case *model.Assign:
				field, ok := astutil.AssignedField(n)
				if !ok || !syms.IsInput(field) {
					break
				}

				if _, direct := model.ThisField(n.Target); direct {
					p.Reportf(n.Pos(), "input %s is reassigned inside the component; keep inputs read-only and copy into local state", field)
				} else {
					p.Reportf(n.Pos(), "input %s is mutated inside the component; the parent's value changes behind its back", field)
				}

			case *model.Call:
				recv, name, _, ok := model.MethodCall(n)
				if !ok || !p.Vocab.MutatingMethods.Has(name) {
					break
				}

				root := astutil.Root(recv)
				if call, ok := root.(*model.Call); ok {
					root = call.Fun // signal input read, this.items()
				}

				field, ok := model.ThisField(root)
				if ok && syms.IsInput(field) {
					p.Reportf(n.Pos(), "input %s is mutated by %s; the parent's value changes behind its back", field, name)
				}
			}

			return true
		})
	}

	return nil
}
