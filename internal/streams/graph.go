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

// Package streams builds the stream graph of a component: the stream
// expressions it defines and every site consuming them, in class code and in
// its template.
package streams

import (
	"fillmore-labs.com/rxguard/internal/astutil"
	"fillmore-labs.com/rxguard/internal/model"
)

// Graph is the stream graph of one component. It is read-only once built.
type Graph struct {
	Component *model.Component
	// Streams are in discovery order: named streams first, in declaration order.
	Streams []*Stream
	// Sites are in discovery order: class code first, then the template.
	Sites []*Site

	byName map[string]*Stream
	byCall map[*model.Call]*Site
}

// Stream returns the named stream declared or referenced under name.
func (g *Graph) Stream(name string) *Stream {
	return g.byName[name]
}

// SiteOf returns the manual site of a subscribe-equivalent call.
func (g *Graph) SiteOf(call *model.Call) *Site {
	return g.byCall[call]
}

// Manual returns the manual subscribe sites.
func (g *Graph) Manual() []*Site {
	var out []*Site

	for _, s := range g.Sites {
		if s.Kind == ManualSubscribe {
			out = append(out, s)
		}
	}

	return out
}

// Group is a stream with its consumption sites.
type Group struct {
	Stream *Stream
	Sites  []*Site
}

// Groups returns the consumed streams with their sites, in stream order.
func (g *Graph) Groups() []Group {
	sites := make(map[*Stream][]*Site)
	for _, s := range g.Sites {
		sites[s.Stream] = append(sites[s.Stream], s)
	}

	var out []Group

	for _, s := range g.Streams {
		if len(sites[s]) > 0 {
			out = append(out, Group{Stream: s, Sites: sites[s]})
		}
	}

	return out
}

// Roots counts the independent subscriptions of the group. Alias reads
// share the root of the rendering introducing the alias.
func (gr Group) Roots() int {
	roots := make(map[any]struct{}, len(gr.Sites))
	for _, s := range gr.Sites {
		roots[s.root()] = struct{}{}
	}

	return len(roots)
}

// Duplicated reports whether the stream is subscribed independently more than
// once without being multicast.
func (gr Group) Duplicated() bool {
	return len(gr.Sites) >= 2 && !gr.Stream.Sharing && gr.Roots() > 1
}

// Nested returns the manual sites subscribed inside the callback of another
// site whose receiver depends on the values delivered to that callback.
func (g *Graph) Nested() []*Site {
	var out []*Site

	for _, s := range g.Sites {
		if s.Kind != ManualSubscribe || s.Parent == nil {
			continue
		}

		if dependent(s) {
			out = append(out, s)
		}
	}

	return out
}

// dependent reports whether the receiver of site references a parameter of
// its parent's callbacks or a local derived from one.
func dependent(site *Site) bool {
	for _, f := range site.Parent.Callbacks() {
		deps := make(map[string]bool, len(f.Params))
		for _, p := range f.Params {
			deps[p] = true
		}

		if len(deps) == 0 {
			continue
		}

		derive(f.Body, deps)

		if references(site.Receiver, deps) {
			return true
		}
	}

	return false
}

// derive adds the locals initialized from any name in deps, in statement order.
func derive(body []model.Stmt, deps map[string]bool) {
	astutil.Inspect(body, func(n any) bool {
		switch n := n.(type) {
		case *model.Arrow:
			return false

		case *model.VarStmt:
			if n.Init != nil && references(n.Init, deps) {
				deps[n.Name] = true
			}
		}

		return true
	})
}

// references reports whether node reads any of names, honoring shadowing by function parameters.
func references(node any, names map[string]bool) bool {
	found := false

	astutil.Inspect(node, func(n any) bool {
		if found {
			return false
		}

		switch n := n.(type) {
		case *model.Ident:
			found = names[n.Name]

		case *model.Arrow:
			inner := names
			for _, p := range n.Params {
				if names[p] {
					inner = without(names, n.Params)
					break
				}
			}

			found = references(n.Body, inner)

			return false
		}

		return !found
	})

	return found
}

func without(names map[string]bool, drop []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for n, v := range names {
		out[n] = v
	}

	for _, d := range drop {
		delete(out, d)
	}

	return out
}
