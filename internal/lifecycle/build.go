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

package lifecycle

import (
	"fillmore-labs.com/rxguard/internal/astutil"
	"fillmore-labs.com/rxguard/internal/model"
	"fillmore-labs.com/rxguard/internal/reachability"
	"fillmore-labs.com/rxguard/internal/streams"
	"fillmore-labs.com/rxguard/internal/vocab"
)

// Build constructs the lifecycle graph of a component from its stream graph.
func Build(c *model.Component, sg *streams.Graph, v *vocab.Vocabulary) *Graph {
	g := &Graph{
		Component: c,
		Streams:   sg,
		Destroy:   c.Hook(model.DestroyHook),
		Opaque:    c.HasOpaque(),
		vocab:     v,
		handles:   make(map[*streams.Site][]Handle),
		signals:   make(map[string][]model.Location),
		assigns:   make(map[string][]model.Location),
	}

	for _, m := range c.Members {
		switch {
		case m.Kind == model.FieldMember && m.Init != nil:
			g.stored(m.Name, m.Init, m.Loc, nil)

		case m.Callable():
			g.collectHandles(m.Body)
			g.collectAssignments(m.Body)
		}
	}

	if g.Destroy != nil {
		g.destruction(reachability.NewGraph(c))
	}

	return g
}

// collectHandles finds where subscription handles are stored, directly or through a local variable.
func (g *Graph) collectHandles(body []model.Stmt) {
	locals := make(map[string]*streams.Site)

	astutil.Inspect(body, func(n any) bool {
		switch n := n.(type) {
		case *model.VarStmt:
			if s := g.site(n.Init, nil); s != nil {
				locals[n.Name] = s
			}

		case *model.Assign:
			if n.Op != "=" {
				break
			}

			if field, ok := model.ThisField(n.Target); ok {
				g.stored(field, n.Value, n.Pos(), locals)
				break
			}

			if ix, ok := n.Target.(*model.Index); ok {
				if field, ok := model.ThisField(ix.X); ok {
					g.add(g.site(n.Value, locals), Handle{Field: field, Kind: ContainerHandle, Loc: n.Pos()})
				}
			}

		case *model.Call:
			recv, name, call, ok := model.MethodCall(n)
			if !ok || !g.vocab.Containers.Has(name) {
				break
			}

			field, ok := model.ThisField(recv)
			if !ok {
				break
			}

			for _, arg := range call.Args {
				g.add(g.site(arg, locals), Handle{Field: field, Kind: ContainerHandle, Loc: call.Pos()})
			}
		}

		return true
	})
}

// stored records the handles a value written to field carries.
func (g *Graph) stored(field string, value model.Expr, loc model.Location, locals map[string]*streams.Site) {
	if arr, ok := value.(*model.ArrayLit); ok {
		for _, e := range arr.Elems {
			g.add(g.site(e, locals), Handle{Field: field, Kind: ContainerHandle, Loc: loc})
		}

		return
	}

	g.add(g.site(value, locals), Handle{Field: field, Kind: SingleHandle, Loc: loc})
}

func (g *Graph) add(site *streams.Site, h Handle) {
	if site == nil {
		return
	}

	g.handles[site] = append(g.handles[site], h)
}

// site returns the manual site whose handle e evaluates to.
func (g *Graph) site(e model.Expr, locals map[string]*streams.Site) *streams.Site {
	switch x := e.(type) {
	case *model.Call:
		return g.Streams.SiteOf(x)

	case *model.Ident:
		return locals[x.Name]

	case *model.Unary:
		return g.site(x.X, locals)

	default:
		return nil
	}
}

func (g *Graph) collectAssignments(body []model.Stmt) {
	for a := range astutil.AssignedThisFields(body) {
		field, _ := astutil.AssignedField(a)
		g.assigns[field] = append(g.assigns[field], a.Pos())
	}
}

// destruction collects the teardowns and signal emissions reachable from the destruction hook.
func (g *Graph) destruction(rg *reachability.Graph) {
	paths := rg.Paths(g.Destroy)

	for _, m := range g.Component.Members {
		path, ok := paths[m]
		if !ok {
			continue
		}

		if astutil.ContainsOpaque(m.Body) || callsSuper(m.Body) {
			g.Opaque = true
		}

		astutil.Inspect(m.Body, func(n any) bool {
			switch n := n.(type) {
			case *model.Call:
				g.call(n, m, path)

			case *model.LoopStmt:
				if field, ok := g.iterated(n.Iter); ok && g.releases(n.Body, n.Var) {
					g.teardown(field, m, path, n.Pos())
				}
			}

			return true
		})
	}
}

// call records a release or signal emission performed by a call in member m.
func (g *Graph) call(n *model.Call, m *model.Member, path []*model.Member) {
	recv, name, call, ok := model.MethodCall(n)
	if !ok {
		return
	}

	if name == "forEach" && len(call.Args) > 0 {
		field, ok := g.iterated(recv)
		f, isFunc := call.Args[0].(*model.Arrow)

		if ok && isFunc && len(f.Params) > 0 && g.releases(f.Body, f.Params[0]) {
			g.teardown(field, m, path, call.Pos())
		}

		return
	}

	field, ok := model.ThisField(recv)
	if !ok {
		return
	}

	if g.vocab.Emit.Has(name) {
		g.signals[field] = append(g.signals[field], call.Pos())
		return
	}

	if g.vocab.ReleaseCall(name, call.Args, g.handleField(field)) {
		g.teardown(field, m, path, call.Pos())
	}
}

// handleField reports whether field stores a single subscription handle.
func (g *Graph) handleField(field string) bool {
	for _, hs := range g.handles {
		for _, h := range hs {
			if h.Field == field && h.Kind == SingleHandle {
				return true
			}
		}
	}

	return false
}

// iterated returns the container field of this.f or Object.values(this.f).
func (g *Graph) iterated(e model.Expr) (string, bool) {
	if field, ok := model.ThisField(e); ok {
		return field, true
	}

	recv, name, call, ok := model.MethodCall(e)
	if !ok || name != "values" || len(call.Args) != 1 {
		return "", false
	}

	if id, ok := recv.(*model.Ident); !ok || id.Name != "Object" {
		return "", false
	}

	return model.ThisField(call.Args[0])
}

// releases reports whether body releases the element bound to name.
func (g *Graph) releases(body []model.Stmt, name string) bool {
	if name == "" {
		return false
	}

	found := false

	astutil.Inspect(body, func(n any) bool {
		recv, method, call, ok := model.MethodCall(asExpr(n))
		if !ok {
			return !found
		}

		if id, ok := recv.(*model.Ident); ok && id.Name == name && g.vocab.ReleaseCall(method, call.Args, true) {
			found = true
		}

		return !found
	})

	return found
}

func (g *Graph) teardown(field string, m *model.Member, path []*model.Member, loc model.Location) {
	g.Teardowns = append(g.Teardowns, Teardown{
		Field:  field,
		Hook:   g.Destroy.Hook,
		Member: m,
		Path:   path,
		Loc:    loc,
	})
}

// callsSuper reports whether body delegates to the base class.
func callsSuper(body []model.Stmt) bool {
	for call := range astutil.AllCalls(body) {
		recv, _, _, ok := model.MethodCall(call)
		if !ok {
			continue
		}

		if id, ok := recv.(*model.Ident); ok && id.Name == "super" {
			return true
		}
	}

	return false
}

func asExpr(n any) model.Expr {
	e, _ := n.(model.Expr)
	return e
}
