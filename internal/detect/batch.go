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
	"path"
	"strings"

	"fillmore-labs.com/rxguard/analyzer/level"
	"fillmore-labs.com/rxguard/internal/model"
	"fillmore-labs.com/rxguard/internal/vocab"
)

// InheritanceOverComposition reports base classes shared by several components through inheritance.
var InheritanceOverComposition = &Detector{
	Name:         "inheritance-over-composition",
	Doc:          "several components extend the same base class owning injected collaborators; compose a service instead",
	Severity:     level.Info,
	Threshold:    2,
	HasThreshold: true,
	RunBatch:     runInheritanceOverComposition,
}

func runInheritanceOverComposition(p *BatchPass) error {
	var (
		order []string
		subs  = make(map[string][]*model.Component)
	)

	for _, u := range p.Units {
		c := u.Component
		if !c.Kind.Viewable() {
			continue
		}

		base, ok := c.Base.Base()
		if !ok || p.Vocab.FrameworkBases.Has(base) {
			continue
		}

		if _, seen := subs[base]; !seen {
			order = append(order, base)
		}

		subs[base] = append(subs[base], c)
	}

	for _, base := range order {
		derived := subs[base]
		if float64(len(derived)) < p.Threshold {
			continue
		}

		b := p.Batch.Lookup(base)
		if b == nil || len(b.Injected) == 0 {
			continue // unknown base, or one without collaborators
		}

		evidence := make([]model.Location, 0, len(derived))
		names := make([]string, 0, len(derived))

		for _, c := range derived {
			evidence = append(evidence, c.Loc)
			names = append(names, c.Name)
		}

		p.Reportf(b, b.Loc, evidence,
			"%d components (%s) extend %s, which owns injected collaborators; inject a shared service instead",
			len(derived), strings.Join(names, ", "), base)
	}

	return nil
}

// DuplicateState reports sibling components owning the same entity state independently.
var DuplicateState = &Detector{
	Name:     "duplicate-state",
	Doc:      "sibling components each own an independently initialized field of the same entity shape",
	Severity: level.Info,
	RunBatch: runDuplicateState,
}

// entity is a field holding domain entity state.
type entity struct {
	member *model.Member
	shape  string
}

func runDuplicateState(p *BatchPass) error {
	var comps []*model.Component

	for _, u := range p.Units {
		if u.Component.Kind == model.ComponentClass {
			comps = append(comps, u.Component)
		}
	}

	parents := renderedBy(p.Batch)

	fields := make(map[*model.Component]map[string]entity, len(comps))
	for _, c := range comps {
		fields[c] = entities(c, p.Vocab)
	}

	for i, a := range comps {
		for _, b := range comps[i+1:] {
			if !siblings(a, b, parents) || sharedCollaborator(a, b, p.Vocab) {
				continue
			}

			var (
				names    []string
				owned    []model.Location
				repeated []model.Location
			)

			for _, m := range b.Members {
				fb, ok := fields[b][m.Name]
				if !ok {
					continue
				}

				fa, ok := fields[a][m.Name]
				if !ok || fa.shape != fb.shape {
					continue
				}

				names = append(names, m.Name)
				owned = append(owned, fa.member.Loc)
				repeated = append(repeated, fb.member.Loc)
			}

			if len(names) == 0 {
				continue
			}

			// one finding per pair, at the first duplicated field
			p.Reportf(b, repeated[0], append(owned, repeated[1:]...),
				"state in %s %s of %s duplicates state owned by sibling %s; move it into a shared service or pass it down as an input",
				plural(len(names), "field", "fields"), strings.Join(names, ", "), b.Name, a.Name)
		}
	}

	return nil
}

// renderedBy maps each component to the components whose templates render it.
func renderedBy(batch *model.Batch) map[*model.Component]map[*model.Component]bool {
	out := make(map[*model.Component]map[*model.Component]bool)

	for _, parent := range batch.Components {
		if parent.Template == nil {
			continue
		}

		for _, el := range parent.Template.Elements {
			child := batch.BySelector(el.Tag)
			if child == nil || child == parent {
				continue
			}

			if out[child] == nil {
				out[child] = make(map[*model.Component]bool)
			}

			out[child][parent] = true
		}
	}

	return out
}

// siblings reports whether two components are rendered by a common parent, or live in the same directory.
func siblings(a, b *model.Component, parents map[*model.Component]map[*model.Component]bool) bool {
	for parent := range parents[a] {
		if parents[b][parent] {
			return true
		}
	}

	return path.Dir(a.File) == path.Dir(b.File)
}

// sharedCollaborator reports whether both components inject a common data collaborator type.
func sharedCollaborator(a, b *model.Component, v *vocab.Vocabulary) bool {
	types := make(map[string]bool, len(a.Injected))

	for _, in := range a.Injected {
		types[vocab.TypeName(in.Type)] = true
	}

	for _, in := range b.Injected {
		if typ := vocab.TypeName(in.Type); types[typ] && !v.FrameworkTypes.Has(typ) {
			return true
		}
	}

	return false
}

// entities returns the fields of c holding independently initialized entity state, by name.
func entities(c *model.Component, v *vocab.Vocabulary) map[string]entity {
	syms := c.Symbols()
	out := make(map[string]entity)

	for _, m := range c.Members {
		if m.Kind != model.FieldMember || m.Flags&(model.InputFlag|model.OutputFlag|model.ViewQueryFlag|model.StaticFlag) != 0 {
			continue
		}

		if syms.Injection(m.Name) != nil || v.StreamType(m.Type) || strings.HasSuffix(m.Name, "$") {
			continue
		}

		shape := entityShape(m, v)
		if shape == "" || !initialized(c, m) {
			continue
		}

		out[m.Name] = entity{member: m, shape: shape}
	}

	return out
}

var primitives = vocab.NewSet("string", "number", "boolean", "any", "unknown", "object", "Date", "Function", "Map", "Set")

// entityShape describes the shape of a field holding entity state, or returns "" for other fields.
func entityShape(m *model.Member, v *vocab.Vocabulary) string {
	if typ := strings.TrimSpace(m.Type); typ != "" {
		name := vocab.TypeName(typ)
		if name == "" || primitives.Has(name) || v.FrameworkTypes.Has(name) || v.Subjects.Has(name) ||
			name[0] < 'A' || name[0] > 'Z' {
			return ""
		}

		return strings.ReplaceAll(typ, " ", "")
	}

	switch init := m.Init.(type) {
	case *model.New:
		if v.Subjects.Has(init.Class) || primitives.Has(init.Class) {
			return ""
		}

		return init.Class

	case *model.ObjectLit:
		keys := make([]string, 0, len(init.Props))
		for _, p := range init.Props {
			keys = append(keys, p.Key)
		}

		return "{" + strings.Join(keys, ",") + "}"

	default:
		return ""
	}
}

// initialized reports whether the class itself initializes the field.
func initialized(c *model.Component, m *model.Member) bool {
	if m.Init != nil {
		return true
	}

	for _, body := range bodies(c) {
		if assigns(body, m.Name) {
			return true
		}
	}

	return false
}
