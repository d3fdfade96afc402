// Copyright 2025-2026 Oliver Eikemeier. All Rights Reserved.
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

// Package reachability determines which members of a class run as a
// consequence of calling another member.
package reachability

import (
	"slices"

	"golang.org/x/tools/container/intsets"

	"fillmore-labs.com/rxguard/internal/astutil"
	"fillmore-labs.com/rxguard/internal/model"
)

// Graph is the intra-class call graph of a component. Edges are calls
// this.m() and references this.m to callable members.
type Graph struct {
	members []*model.Member
	index   map[*model.Member]int

	// Lazy evaluation: edges are collected on first use
	successors [][]int

	// Reusable BFS state to avoid allocations on each traversal
	seen   intsets.Sparse // Visited set
	queue  []int          // Ring buffer
	parent []int          // BFS predecessor per member
}

// NewGraph creates the call graph of the callable members of c.
func NewGraph(c *model.Component) *Graph {
	g := &Graph{index: make(map[*model.Member]int)}

	for _, m := range c.Members {
		if !m.Callable() {
			continue
		}

		g.index[m] = len(g.members)
		g.members = append(g.members, m)
	}

	return g
}

func (g *Graph) init() {
	byName := make(map[string]int, len(g.members))
	for i, m := range g.members {
		if _, ok := byName[m.Name]; !ok && m.Kind != model.ConstructorMember {
			byName[m.Name] = i
		}
	}

	g.successors = make([][]int, len(g.members))

	for i, m := range g.members {
		var seen intsets.Sparse

		for name := range astutil.AllThisFields(m.Body) {
			succ, ok := byName[name]
			if !ok || !seen.Insert(succ) {
				continue
			}

			g.successors[i] = append(g.successors[i], succ)
		}
	}

	g.queue = make([]int, len(g.members))
	g.parent = make([]int, len(g.members))
}

// From returns the members reachable from the given member, itself first,
// in breadth-first order. It returns nil for members not in the graph.
func (g *Graph) From(from *model.Member) []*model.Member {
	source, ok := g.index[from]
	if !ok {
		return nil
	}

	if g.successors == nil {
		g.init()
	}

	g.seen.Clear() // Reset visited set from previous traversals
	g.seen.Insert(source)

	g.queue[0] = source
	g.parent[source] = -1
	qTail := 1

	for qHead := 0; qHead < qTail; qHead++ {
		qTail = g.enqueueSuccessors(g.queue[qHead], qTail)
	}

	out := make([]*model.Member, qTail)
	for i, n := range g.queue[:qTail] {
		out[i] = g.members[n]
	}

	return out
}

// Paths returns, for every member reachable from the given member, a
// shortest call path starting at from and ending at that member.
func (g *Graph) Paths(from *model.Member) map[*model.Member][]*model.Member {
	reached := g.From(from)
	if reached == nil {
		return nil
	}

	paths := make(map[*model.Member][]*model.Member, len(reached))

	for _, m := range reached {
		var rev []*model.Member
		for n := g.index[m]; n >= 0; n = g.parent[n] {
			rev = append(rev, g.members[n])
		}

		slices.Reverse(rev)
		paths[m] = rev
	}

	return paths
}

// Reachable reports whether calling from may run to.
func (g *Graph) Reachable(from, to *model.Member) bool {
	target, ok := g.index[to]
	if !ok {
		return false
	}

	for _, m := range g.From(from) {
		if g.index[m] == target {
			return true
		}
	}

	return false
}

// enqueueSuccessors adds unseen successors of member s to the queue.
func (g *Graph) enqueueSuccessors(s, qTail int) int {
	for _, succ := range g.successors[s] {
		if !g.seen.Insert(succ) {
			continue
		}

		g.queue[qTail] = succ
		g.parent[succ] = s
		qTail++
	}

	return qTail
}
