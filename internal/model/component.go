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

package model

// ClassKind is the framework role of a class, derived from its class decorator.
type ClassKind uint8

//go:generate go tool stringer -type ClassKind,MemberKind,Visibility,Hook,ChangeDetection,BindingKind -linecomment
const (
	PlainClass ClassKind = iota // class
	ComponentClass              // component
	DirectiveClass              // directive
	InjectableClass             // injectable
	PipeClass                   // pipe
)

// Viewable reports whether classes of this kind own a view and bindings.
func (k ClassKind) Viewable() bool {
	return k == ComponentClass || k == DirectiveClass
}

// MemberKind distinguishes the members of a class.
type MemberKind uint8

const (
	FieldMember       MemberKind = iota // field
	MethodMember                        // method
	GetterMember                        // getter
	SetterMember                        // setter
	ConstructorMember                   // constructor
	OpaqueMember                        // opaque
)

// Visibility is the access modifier of a member.
type Visibility uint8

const (
	Public    Visibility = iota // public
	Protected                   // protected
	Private                     // private
)

// Hook is a recognized framework lifecycle method.
type Hook uint8

const (
	NoHook              Hook = iota // none
	ConstructorHook                 // constructor
	InitHook                        // ngOnInit
	ChangesHook                     // ngOnChanges
	DoCheckHook                     // ngDoCheck
	AfterContentInitHook            // ngAfterContentInit
	AfterContentCheckedHook         // ngAfterContentChecked
	AfterViewInitHook               // ngAfterViewInit
	AfterViewCheckedHook            // ngAfterViewChecked
	DestroyHook                     // ngOnDestroy
)

// ChangeDetection is the change detection strategy of a component.
type ChangeDetection uint8

const (
	DefaultDetection ChangeDetection = iota // Default
	OnPushDetection                         // OnPush
)

// MemberFlags are the recognized member decorators.
type MemberFlags uint8

const (
	// InputFlag marks a data input (@Input or input()).
	InputFlag MemberFlags = 1 << iota
	// OutputFlag marks an event emitter (@Output or output()).
	OutputFlag
	// ViewQueryFlag marks view and content queries (@ViewChild and friends).
	ViewQueryFlag
	// HostListenerFlag marks host event handlers.
	HostListenerFlag
	// HostBindingFlag marks host property bindings.
	HostBindingFlag
	// StaticFlag marks static members.
	StaticFlag
	// ReadonlyFlag marks readonly members.
	ReadonlyFlag
)

// Has reports whether all given flags are set.
func (f MemberFlags) Has(flags MemberFlags) bool { return f&flags == flags }

// ClassMetadata is the class decorator reduced to the closed option set consumed by detectors.
type ClassMetadata struct {
	Selector        string
	ChangeDetection ChangeDetection
	Standalone      bool
	// Explicit is set when the decorator spelled out a change detection strategy.
	Explicit bool
}

// BaseRelation is the tagged relation of a class to its base class.
// The zero value is "none".
type BaseRelation struct {
	class string
}

// Extends returns the relation "extends(class)".
func Extends(class string) BaseRelation { return BaseRelation{class: class} }

// Base returns the extended class, if any.
func (b BaseRelation) Base() (string, bool) { return b.class, b.class != "" }

// None reports whether the class extends nothing.
func (b BaseRelation) None() bool { return b.class == "" }

// Param is a constructor or method parameter.
type Param struct {
	Name string
	Type string
	// Property is set for constructor parameter properties, which also declare a field.
	Property   bool
	Visibility Visibility
	Loc        Location
}

// Member is a field, method, accessor, or constructor of a class.
type Member struct {
	Name       string
	Kind       MemberKind
	Visibility Visibility
	Flags      MemberFlags
	Hook       Hook
	// Type is the declared type annotation or return type, as written.
	Type   string
	Init   Expr
	Params []Param
	Body   []Stmt
	Loc    Location
	// EndLine is the last line of the member declaration.
	EndLine int
	// NoLint holds the linters named in a nolint directive on this member.
	NoLint []string
}

// Opaque reports whether the member could not be projected.
func (m *Member) Opaque() bool { return m.Kind == OpaqueMember }

// Callable reports whether the member has a body.
func (m *Member) Callable() bool {
	switch m.Kind {
	case MethodMember, GetterMember, SetterMember, ConstructorMember:
		return true

	default:
		return false
	}
}

// Contains reports whether the location lies within the member declaration.
func (m *Member) Contains(loc Location) bool {
	if loc.File != m.Loc.File || loc.Line < m.Loc.Line {
		return false
	}

	end := m.EndLine
	if end < m.Loc.Line {
		end = m.Loc.Line
	}

	return loc.Line <= end
}

// Injection is a collaborator provided by dependency injection, either as a
// constructor parameter or through an inject() field initializer.
type Injection struct {
	// Name is the name the collaborator is reachable under.
	Name string
	Type string
	// Field is set when the collaborator is stored as a class field.
	Field bool
	Loc   Location
}

// Component is the canonical analysis model of one class.
// It is immutable once built by the adapter.
type Component struct {
	ID       string
	Name     string
	File     string
	Loc      Location
	Kind     ClassKind
	Metadata ClassMetadata
	Base     BaseRelation
	Members  []*Member
	Injected []*Injection
	Template *Template
	// NoLint holds the linters named in a nolint directive on the class.
	NoLint []string
	// Unsupported counts the constructs the adapter degraded to opaque nodes.
	Unsupported int

	symbols *SymbolTable
}

// NewComponent assembles a component and indexes its symbols.
func NewComponent(c Component) *Component {
	c.symbols = newSymbolTable(c.Members, c.Injected)

	return &c
}

// Symbols returns the component-scoped symbol table.
func (c *Component) Symbols() *SymbolTable {
	if c.symbols == nil {
		return newSymbolTable(nil, nil)
	}

	return c.symbols
}

// Hook returns the member implementing the given lifecycle hook.
func (c *Component) Hook(h Hook) *Member {
	for _, m := range c.Members {
		if m.Hook == h {
			return m
		}
	}

	return nil
}

// HasOpaque reports whether any member could not be projected.
func (c *Component) HasOpaque() bool {
	for _, m := range c.Members {
		if m.Opaque() {
			return true
		}
	}

	return false
}

// MemberAt returns the member whose declaration contains loc.
func (c *Component) MemberAt(loc Location) *Member {
	for _, m := range c.Members {
		if m.Contains(loc) {
			return m
		}
	}

	return nil
}

// Batch is the set of components analyzed together.
type Batch struct {
	Components []*Component

	byName map[string]*Component
}

// NewBatch indexes the given components by class name.
func NewBatch(components []*Component) *Batch {
	byName := make(map[string]*Component, len(components))
	for _, c := range components {
		if _, ok := byName[c.Name]; !ok {
			byName[c.Name] = c
		}
	}

	return &Batch{Components: components, byName: byName}
}

// Lookup returns the class with the given name.
func (b *Batch) Lookup(name string) *Component {
	return b.byName[name]
}

// BySelector returns the viewable class with the given element selector.
func (b *Batch) BySelector(selector string) *Component {
	if selector == "" {
		return nil
	}

	for _, c := range b.Components {
		if c.Kind.Viewable() && c.Metadata.Selector == selector {
			return c
		}
	}

	return nil
}
