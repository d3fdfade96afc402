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

// Package analyzer implements the rxguard static analysis engine.
//
// # Overview
//
// rxguard detects reactive-programming and component-architecture
// anti-patterns in Angular-style components: streams subscribed more than
// once, subscriptions never released, subscriptions in constructors, nested
// subscriptions, components doing too much, logic in templates and more.
//
// The analyzer starts at parsed components, as produced by a front-end parser
// in the JSON wire format read by [Decode]. It never executes or type-checks
// code; detectors are heuristic and abstain when they meet code they cannot
// see through.
//
// # Example
//
// A stream consumed twice without a sharing operator:
//
//	export class JourneyComponent {
//	  journey$ = this.route.params.pipe(switchMap(p => this.api.load(p.id)));
//	}
//
//	<h1>{{ (journey$ | async)?.title }}</h1>
//	<p>{{ (journey$ | async)?.summary }}</p>
//
// is reported by the multiple-subscriptions detector with both template
// locations as evidence. Piping the stream through shareReplay silences it.
//
// # Suppression
//
// A "nolint:rxguard", "nolint:all" or "nolint:<detector>" comment on a class
// or member suppresses findings located there.
package analyzer
