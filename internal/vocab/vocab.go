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

// Package vocab holds the vocabularies the graph builders and detectors use
// to recognize framework and stream library constructs.
//
// A [Vocabulary] is built once per analyzer and read-only afterwards.
package vocab

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Set is a set of names.
type Set map[string]struct{}

// NewSet creates a set of the given names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	s.Add(names...)

	return s
}

// Add inserts names into the set.
func (s Set) Add(names ...string) {
	for _, n := range names {
		s[n] = struct{}{}
	}
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the names in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}

	slices.Sort(out)

	return out
}

func (s Set) clone() Set {
	c := make(Set, len(s))
	for n := range s {
		c[n] = struct{}{}
	}

	return c
}

// Vocabulary is the recognized surface of the stream library and the component framework.
type Vocabulary struct {
	// Operators are pipeable operator names.
	Operators Set
	// Creation are stream creation functions.
	Creation Set
	// SingleShotCreation are creation functions producing streams that complete after at most one emission.
	SingleShotCreation Set
	// Subjects are subject-like classes, constructible and multicast.
	Subjects Set
	// Sharing are operators that multicast on their own.
	Sharing Set
	// Multicast are operators that multicast once connected, sharing only when followed by a [Vocabulary.RefCount] operator.
	Multicast Set
	// RefCount are operators that connect a multicasting stream automatically.
	RefCount Set
	// Replaying are sharing or multicast operators that replay past values.
	Replaying Set
	// Cancellation are operators completing a stream when a notifier emits.
	Cancellation Set
	// SelfCancelling are cancellation operators bound to the destruction of the enclosing component by themselves.
	SelfCancelling Set
	// Bounding are operators limiting a stream to a bounded number of emissions.
	Bounding Set
	// SafeAfterCancellation are operators that may follow a cancellation operator without re-subscribing upstream.
	SafeAfterCancellation Set
	// Subscribe are subscribe-equivalent method names.
	Subscribe Set
	// Release are release-equivalent method names on subscription handles.
	Release Set
	// Containers are methods adding a handle to a container.
	Containers Set
	// Emit are methods emitting a value on a subject-like stream.
	Emit Set
	// DestroyHooks are the conventional names of destruction hooks.
	DestroyHooks Set
	// HTTPTypes are collaborator types performing network requests.
	HTTPTypes Set
	// HTTPMethods are request methods of [Vocabulary.HTTPTypes].
	HTTPMethods Set
	// NavigationTypes are collaborator types performing navigation or cross-cutting side effects.
	NavigationTypes Set
	// SideEffectGlobals are global objects used for cross-cutting side effects.
	SideEffectGlobals Set
	// DOMGlobals are global objects granting direct platform access.
	DOMGlobals Set
	// DOMMembers are members granting or performing direct platform access.
	DOMMembers Set
	// SanctionedWrappers are classes permitted to access the platform directly.
	SanctionedWrappers Set
	// AsyncPipes are template transforms subscribing to a stream.
	AsyncPipes Set
	// FrameworkTypes are injected utilities that are not data collaborators.
	FrameworkTypes Set
	// FrameworkBases are framework base classes, exempt from inheritance checks.
	FrameworkBases Set
	// MutatingMethods are methods that mutate their receiver in place.
	MutatingMethods Set
	// PromiseConversions are deprecated stream-to-promise conversions.
	PromiseConversions Set
	// Repeaters are structural directives rendering a collection.
	Repeaters Set
	// StreamTypes are type names denoting a stream.
	StreamTypes Set
}

// Default returns the built-in vocabulary.
func Default() *Vocabulary {
	return &Vocabulary{
		Operators: NewSet(
			"audit", "auditTime", "buffer", "bufferCount", "bufferTime", "bufferToggle", "bufferWhen",
			"catchError", "combineLatestAll", "combineLatestWith", "concatAll", "concatMap", "concatMapTo", "concatWith",
			"count", "debounce", "debounceTime", "defaultIfEmpty", "delay", "delayWhen", "dematerialize",
			"distinct", "distinctUntilChanged", "distinctUntilKeyChanged", "do", "elementAt", "endWith", "every",
			"exhaust", "exhaustAll", "exhaustMap", "expand", "filter", "finalize", "find", "findIndex", "first",
			"groupBy", "ignoreElements", "isEmpty", "last", "map", "mapTo", "materialize", "max", "mergeAll",
			"mergeMap", "mergeMapTo", "mergeScan", "mergeWith", "min", "multicast", "observeOn", "pairwise",
			"pluck", "publish", "publishBehavior", "publishLast", "publishReplay", "reduce", "refCount",
			"repeat", "repeatWhen", "retry", "retryWhen", "sample", "sampleTime", "scan", "share", "shareReplay",
			"single", "skip", "skipLast", "skipUntil", "skipWhile", "startWith", "subscribeOn", "switchAll",
			"switchMap", "switchMapTo", "switchScan", "take", "takeLast", "takeUntil", "takeUntilDestroyed",
			"takeWhile", "tap", "throttle", "throttleTime", "throwIfEmpty", "timeInterval", "timeout",
			"timeoutWith", "timestamp", "toArray", "window", "windowCount", "windowTime", "windowToggle",
			"windowWhen", "withLatestFrom", "zipAll", "zipWith",
		),
		Creation: NewSet(
			"of", "from", "interval", "timer", "fromEvent", "fromEventPattern", "combineLatest", "merge",
			"zip", "forkJoin", "defer", "concat", "race", "iif", "throwError", "range", "generate",
			"ajax", "webSocket", "toObservable", "partition", "onErrorResumeNext",
		),
		SingleShotCreation: NewSet("of", "ajax", "throwError"),
		Subjects:           NewSet("Subject", "BehaviorSubject", "ReplaySubject", "AsyncSubject", "EventEmitter"),
		Sharing:            NewSet("share", "shareReplay", "connectable"),
		Multicast:          NewSet("publish", "publishReplay", "publishLast", "publishBehavior", "multicast"),
		RefCount:           NewSet("refCount"),
		Replaying:          NewSet("shareReplay", "publishReplay"),
		Cancellation:       NewSet("takeUntil", "takeUntilDestroyed"),
		SelfCancelling:     NewSet("takeUntilDestroyed"),
		Bounding:           NewSet("first", "take", "single", "elementAt", "find", "findIndex"),
		SafeAfterCancellation: NewSet(
			"count", "defaultIfEmpty", "endWith", "every", "finalize", "finally", "isEmpty", "last", "max",
			"min", "publish", "publishBehavior", "publishLast", "publishReplay", "reduce", "share",
			"shareReplay", "skipLast", "takeLast", "throwIfEmpty", "toArray",
		),
		Subscribe:       NewSet("subscribe"),
		Release:         NewSet("unsubscribe", "dispose", "cancel"),
		Containers:      NewSet("add", "push", "set"),
		Emit:            NewSet("next", "emit"),
		DestroyHooks:    NewSet("ngOnDestroy"),
		HTTPTypes:       NewSet("HttpClient", "Http", "HttpBackend"),
		HTTPMethods:     NewSet("get", "post", "put", "patch", "delete", "head", "options", "request", "jsonp"),
		NavigationTypes: NewSet("Router", "Location", "MatDialog", "MatSnackBar", "Title", "Meta", "Dialog", "ToastrService"),
		SideEffectGlobals: NewSet(
			"localStorage", "sessionStorage", "alert", "confirm", "prompt", "location", "history",
		),
		DOMGlobals: NewSet("document"),
		DOMMembers: NewSet(
			"nativeElement", "innerHTML", "outerHTML", "innerText", "insertAdjacentHTML", "querySelector",
			"querySelectorAll", "getElementById", "getElementsByClassName", "getElementsByTagName",
			"appendChild", "removeChild", "createElement", "classList",
		),
		SanctionedWrappers: NewSet(),
		AsyncPipes:         NewSet("async", "push", "ngrxPush"),
		FrameworkTypes: NewSet(
			"ElementRef", "ChangeDetectorRef", "Renderer2", "Injector", "NgZone", "DestroyRef",
			"ViewContainerRef", "TemplateRef", "DomSanitizer", "ApplicationRef", "DOCUMENT",
		),
		FrameworkBases:     NewSet(),
		MutatingMethods:    NewSet("push", "pop", "shift", "unshift", "splice", "sort", "reverse", "fill", "copyWithin"),
		PromiseConversions: NewSet("toPromise"),
		Repeaters:          NewSet("ngFor", "ngForOf"),
		StreamTypes:        NewSet("Observable", "Subject", "BehaviorSubject", "ReplaySubject", "AsyncSubject", "EventEmitter"),
	}
}

// ErrUnknownCategory is returned when extending a category that does not exist.
var ErrUnknownCategory = errors.New("unknown vocabulary category")

// Categories returns the names of all extensible categories.
func Categories() []string {
	v := &Vocabulary{}

	names := make([]string, 0, 32)
	for name := range v.categories() {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Extend returns a copy of the vocabulary with additional names per category.
func (v *Vocabulary) Extend(additions map[string][]string) (*Vocabulary, error) {
	c := v.Clone()
	cats := c.categories()

	for _, key := range sortedKeys(additions) {
		set, ok := cats[key]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownCategory, key)
		}

		(*set).Add(additions[key]...)
	}

	return c, nil
}

// Clone returns a deep copy of the vocabulary.
func (v *Vocabulary) Clone() *Vocabulary {
	c := &Vocabulary{}

	src := v.categories()
	for name, dst := range c.categories() {
		if s := *src[name]; s != nil {
			*dst = s.clone()
		} else {
			*dst = NewSet()
		}
	}

	return c
}

func (v *Vocabulary) categories() map[string]*Set {
	return map[string]*Set{
		"operators":             &v.Operators,
		"creation":              &v.Creation,
		"singleShotCreation":    &v.SingleShotCreation,
		"subjects":              &v.Subjects,
		"sharing":               &v.Sharing,
		"multicast":             &v.Multicast,
		"refCount":              &v.RefCount,
		"replaying":             &v.Replaying,
		"cancellation":          &v.Cancellation,
		"selfCancelling":        &v.SelfCancelling,
		"bounding":              &v.Bounding,
		"safeAfterCancellation": &v.SafeAfterCancellation,
		"subscribe":             &v.Subscribe,
		"release":               &v.Release,
		"containers":            &v.Containers,
		"emit":                  &v.Emit,
		"destroyHooks":          &v.DestroyHooks,
		"httpTypes":             &v.HTTPTypes,
		"httpMethods":           &v.HTTPMethods,
		"navigationTypes":       &v.NavigationTypes,
		"sideEffectGlobals":     &v.SideEffectGlobals,
		"domGlobals":            &v.DOMGlobals,
		"domMembers":            &v.DOMMembers,
		"sanctionedWrappers":    &v.SanctionedWrappers,
		"asyncPipes":            &v.AsyncPipes,
		"frameworkTypes":        &v.FrameworkTypes,
		"frameworkBases":        &v.FrameworkBases,
		"mutatingMethods":       &v.MutatingMethods,
		"promiseConversions":    &v.PromiseConversions,
		"repeaters":             &v.Repeaters,
		"streamTypes":           &v.StreamTypes,
	}
}

// StreamType reports whether a type annotation denotes a stream, e.g. "Observable<User[]>".
func (v *Vocabulary) StreamType(typ string) bool {
	name, _, _ := strings.Cut(strings.TrimSpace(typ), "<")

	return v.StreamTypes.Has(strings.TrimSpace(name))
}

// TypeName strips generic arguments, array suffixes and nullability from a type annotation.
func TypeName(typ string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(typ), "<")
	name, _, _ = strings.Cut(name, "|")
	name = strings.TrimSuffix(strings.TrimSpace(name), "[]")

	return strings.TrimSpace(name)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
