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
	"slices"

	"fillmore-labs.com/rxguard/analyzer/level"
)

// Flag is the configuration bit of a detector, assigned by registry ordinal.
type Flag uint32

// Names of the engine diagnostics.
const (
	DetectorFault        = "detector-fault"
	UnsupportedConstruct = "unsupported-construct"
)

// DetectorFaultDetector reports detectors that failed on a component.
var DetectorFaultDetector = &Detector{
	Name:     DetectorFault,
	Doc:      "a detector failed on a component; other detectors are unaffected",
	Severity: level.Warning,
}

// UnsupportedConstructDetector reports constructs the model has no projection for.
var UnsupportedConstructDetector = &Detector{
	Name:     UnsupportedConstruct,
	Doc:      "a construct could not be analyzed; detectors depending on it abstain",
	Severity: level.Info,
}

// registry is ordered and read-only after initialization.
var registry = []*Detector{
	MultipleSubscriptions,
	NotUnsubscribing,
	SubscribeInConstructor,
	NestedSubscriptions,
	StreamInput,
	GodComponent,
	MixingSmartDumb,
	ModifyDOMDirectly,
	InheritanceOverComposition,
	LogicInTemplate,
	StatefulStreams,
	DuplicateState,
	DefaultChangeDetection,
	ExposedSubject,
	SubscribeToRender,
	UnboundedShareReplay,
	TakeUntilLeak,
	DeprecatedToPromise,
	MissingTrackBy,
	DestroySignalNotEmitted,
	MutateInput,
	DetectorFaultDetector,
	UnsupportedConstructDetector,
}

var byName = make(map[string]*Detector, len(registry))

func init() {
	for i, d := range registry {
		d.flag = 1 << i
		byName[d.Name] = d
	}
}

// All returns the registered detectors in registry order.
func All() []*Detector { return slices.Clone(registry) }

// Lookup returns the detector registered under name.
func Lookup(name string) (*Detector, bool) {
	d, ok := byName[name]

	return d, ok
}

// AllFlags returns the flags of all registered detectors.
func AllFlags() Flag {
	var f Flag
	for _, d := range registry {
		f |= d.flag
	}

	return f
}
