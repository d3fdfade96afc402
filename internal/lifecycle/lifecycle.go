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

// Package lifecycle decides for every manual subscription of a component
// whether it ends with the component: through a released handle, a
// cancellation operator, or a stream completing by itself.
package lifecycle

import (
	"fillmore-labs.com/rxguard/internal/model"
	"fillmore-labs.com/rxguard/internal/streams"
	"fillmore-labs.com/rxguard/internal/vocab"
)

// Status is the lifetime verdict of a consumption site.
type Status uint8

//go:generate go tool stringer -type Status,HandleKind -linecomment
const (
	// Leaked subscriptions outlive the component.
	Leaked Status = iota // leaked
	// Released subscriptions have their handle released on destruction.
	Released // released
	// Cancelled subscriptions complete through a cancellation operator bound to the destruction of the component.
	Cancelled // cancelled
	// SingleShot subscriptions complete after at most one emission.
	SingleShot // singleShot
	// Managed subscriptions are owned by the framework, e.g. template renderings.
	Managed // managed
	// Unknown subscriptions depend on code the analysis cannot see.
	Unknown // unknown
)

// HandleKind is how a subscription handle is stored.
type HandleKind uint8

const (
	// SingleHandle is a handle stored directly in a field.
	SingleHandle HandleKind = iota // single
	// ContainerHandle is a handle added to a collection or composite subscription field.
	ContainerHandle // container
)

// Handle is the field a subscription handle is stored in.
type Handle struct {
	Field string
	Kind  HandleKind
	Loc   model.Location
}

// Teardown is a release of the handles stored in a field, reachable from the destruction hook.
type Teardown struct {
	Field string
	// Hook is the destruction hook the release is reachable from.
	Hook model.Hook
	// Member contains the release.
	Member *model.Member
	// Path is the call path from the destruction hook to Member.
	Path []*model.Member
	Loc  model.Location
}

// Graph is the lifecycle graph of one component. It is read-only once built.
type Graph struct {
	Component *model.Component
	Streams   *streams.Graph
	// Destroy is the destruction hook, nil when the class has none.
	Destroy *model.Member
	// Teardowns are in member declaration order.
	Teardowns []Teardown
	// Opaque is set when the destruction path runs code the analysis cannot see.
	Opaque bool

	vocab   *vocab.Vocabulary
	handles map[*streams.Site][]Handle
	signals map[string][]model.Location
	assigns map[string][]model.Location
}

// Handles returns the fields the handle of a manual site is stored in.
func (g *Graph) Handles(site *streams.Site) []Handle {
	return g.handles[site]
}

// Released reports whether a teardown of field is reachable from the destruction hook.
func (g *Graph) Released(field string) bool {
	for _, t := range g.Teardowns {
		if t.Field == field {
			return true
		}
	}

	return false
}

// Signals returns the locations emitting on field on the destruction path.
func (g *Graph) Signals(field string) []model.Location {
	return g.signals[field]
}

// Assignments returns the locations writing field anywhere in class code.
func (g *Graph) Assignments(field string) []model.Location {
	return g.assigns[field]
}

// Cancellation returns the cancellation operator of a site's pipeline.
func (g *Graph) Cancellation(site *streams.Site) (streams.OperatorRef, bool) {
	ops := site.Pipeline()
	for i := len(ops) - 1; i >= 0; i-- {
		if g.vocab.Cancellation.Has(ops[i].Name) {
			return ops[i], true
		}
	}

	return streams.OperatorRef{}, false
}

// Notifier returns the field a cancellation operator waits for, as in takeUntil(this.destroy$).
// Self-cancelling operators have no notifier field.
func (g *Graph) Notifier(op streams.OperatorRef) (string, bool) {
	if g.vocab.SelfCancelling.Has(op.Name) || len(op.Args) == 0 {
		return "", false
	}

	return model.ThisField(op.Args[0])
}

// cancelledOnDestroy reports whether a cancellation operator of the site's pipeline
// ends with the component: it is self-cancelling, or it waits for a notifier field
// of the class. Whether the notifier is emitted is checked separately.
func (g *Graph) cancelledOnDestroy(site *streams.Site) bool {
	for _, op := range site.Pipeline() {
		if !g.vocab.Cancellation.Has(op.Name) {
			continue
		}

		if g.vocab.SelfCancelling.Has(op.Name) {
			return true
		}

		if _, ok := g.Notifier(op); ok {
			return true
		}
	}

	return false
}

// Status returns the lifetime verdict of a site.
func (g *Graph) Status(site *streams.Site) Status {
	if site.Kind != streams.ManualSubscribe {
		return Managed
	}

	if g.cancelledOnDestroy(site) {
		return Cancelled
	}

	if site.SingleShot() {
		return SingleShot
	}

	handles := g.handles[site]
	for _, h := range handles {
		if g.Released(h.Field) {
			return Released
		}
	}

	if g.Opaque {
		return Unknown
	}

	if _, ok := g.Component.Base.Base(); ok {
		// a base class may release handles in fields it declares, or in its own destruction hook
		if g.Destroy == nil && len(handles) > 0 {
			return Unknown
		}

		for _, h := range handles {
			if g.Component.Symbols().Field(h.Field) == nil {
				return Unknown
			}
		}
	}

	return Leaked
}
