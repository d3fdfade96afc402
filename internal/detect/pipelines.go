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
	"fillmore-labs.com/rxguard/internal/streams"
	"fillmore-labs.com/rxguard/internal/vocab"
)

// StreamInput reports streams handed to child component inputs.
var StreamInput = &Detector{
	Name:     "stream-input",
	Doc:      "a stream is passed to a child component input; pass the rendered value instead",
	Severity: level.Info,
	Run:      runStreamInput,
}

func runStreamInput(p *Pass) error {
	for _, site := range p.Streams.Sites {
		if site.Kind != streams.TemplateInput {
			continue
		}

		p.Reportf(site.Loc, "stream %s is passed to input %s of <%s>; render it with the async pipe and pass the value",
			site.Stream.Label(), site.Binding.Target, site.Binding.Element)
	}

	for _, m := range p.Component.Members {
		if !m.Flags.Has(model.InputFlag) || !p.Vocab.StreamType(m.Type) {
			continue
		}

		p.Reportf(m.Loc, "input %s receives a stream; accept plain values and let the parent subscribe", m.Name)
	}

	return nil
}

// pipelines returns every operator sequence of the component once: the
// operators of each stream, and the full pipeline of sites adding their own.
func pipelines(g *streams.Graph) [][]streams.OperatorRef {
	var out [][]streams.OperatorRef

	for _, s := range g.Streams {
		if len(s.Operators) > 0 {
			out = append(out, s.Operators)
		}
	}

	for _, site := range g.Sites {
		if len(site.Operators) > 0 {
			out = append(out, site.Pipeline())
		}
	}

	return out
}

// StatefulStreams reports pipelines passing values through class fields.
var StatefulStreams = &Detector{
	Name:     "stateful-streams",
	Doc:      "a pipeline step writes a field that a later step of the same pipeline reads; carry the value in the emission",
	Severity: level.Warning,
	Run:      runStatefulStreams,
}

func runStatefulStreams(p *Pass) error {
	for _, ops := range pipelines(p.Streams) {
		for i, op := range ops {
			written := writes(op.Args)
			if len(written) == 0 {
				continue
			}

		later:
			for _, next := range ops[i+1:] {
				for _, field := range reads(next.Args) {
					if !written[field] {
						continue
					}

					p.ReportEvidence(op.Loc, []model.Location{next.Loc},
						"%s writes field %s, which %s reads later in the same pipeline; carry the value in the emitted payload",
						op.Name, field, next.Name)

					break later
				}
			}
		}
	}

	return nil
}

// writes returns the fields assigned in args.
func writes(args []model.Expr) map[string]bool {
	var out map[string]bool

	for _, arg := range args {
		for a := range astutil.AssignedThisFields(arg) {
			field, _ := astutil.AssignedField(a)
			if out == nil {
				out = make(map[string]bool)
			}

			out[field] = true
		}
	}

	return out
}

// reads returns the fields read in args, in source order, ignoring assignment targets.
func reads(args []model.Expr) []string {
	var out []string

	var visit func(n any) bool

	visit = func(n any) bool {
		if a, ok := n.(*model.Assign); ok {
			astutil.Inspect(a.Value, visit)
			return false
		}

		if e, ok := n.(model.Expr); ok {
			if field, ok := model.ThisField(e); ok {
				out = append(out, field)
			}
		}

		return true
	}

	for _, arg := range args {
		astutil.Inspect(arg, visit)
	}

	return out
}

// UnboundedShareReplay reports replaying operators without buffer size.
var UnboundedShareReplay = &Detector{
	Name:     "unbounded-share-replay",
	Doc:      "a replaying sharing operator without buffer size keeps every emitted value",
	Severity: level.Warning,
	Run:      runUnboundedShareReplay,
}

func runUnboundedShareReplay(p *Pass) error {
	for _, ops := range pipelines(p.Streams) {
		for _, op := range ops {
			if !p.Vocab.Replaying.Has(op.Name) || bounded(op) {
				continue
			}

			p.Reportf(op.Loc, "%s without buffer size replays every value to late subscribers; pass a buffer size such as %s(1)",
				op.Name, op.Name)
		}
	}

	return nil
}

// bounded reports whether a replaying operator sets a buffer size.
func bounded(op streams.OperatorRef) bool {
	if len(op.Args) == 0 {
		return false
	}

	if cfg, ok := op.Args[0].(*model.ObjectLit); ok {
		return cfg.Prop("bufferSize") != nil
	}

	return true
}

// ExposedSubject reports public subject-like fields.
var ExposedSubject = &Detector{
	Name:     "exposed-subject",
	Doc:      "a public subject lets any caller emit; keep it private and expose asObservable()",
	Severity: level.Info,
	Run:      runExposedSubject,
}

func runExposedSubject(p *Pass) error {
	for _, m := range p.Component.Members {
		if m.Kind != model.FieldMember || m.Visibility != model.Public || m.Flags.Has(model.OutputFlag) {
			continue
		}

		if !subjectField(m, p.Vocab) {
			continue
		}

		p.Reportf(m.Loc, "subject %s is public, so any caller can emit on it; make it private and expose asObservable()", m.Name)
	}

	return nil
}

func subjectField(m *model.Member, v *vocab.Vocabulary) bool {
	if n, ok := m.Init.(*model.New); ok && v.Subjects.Has(vocab.TypeName(n.Class)) {
		return true
	}

	return m.Type != "" && v.Subjects.Has(vocab.TypeName(m.Type))
}

// DeprecatedToPromise reports deprecated stream-to-promise conversions.
var DeprecatedToPromise = &Detector{
	Name:     "deprecated-to-promise",
	Doc:      "toPromise is deprecated; use firstValueFrom or lastValueFrom",
	Severity: level.Info,
	Run:      runDeprecatedToPromise,
}

func runDeprecatedToPromise(p *Pass) error {
	for _, body := range bodies(p.Component) {
		for call := range astutil.AllCalls(body) {
			_, name, c, ok := model.MethodCall(call)
			if !ok || !p.Vocab.PromiseConversions.Has(name) || len(c.Args) != 0 {
				continue
			}

			loc := c.Pos()
			if sel, ok := c.Fun.(*model.Selector); ok && sel.Pos().Valid() {
				loc = sel.Pos()
			}

			p.Reportf(loc, "%s is deprecated; use firstValueFrom or lastValueFrom", name)
		}
	}

	return nil
}
