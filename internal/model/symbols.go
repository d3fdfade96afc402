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

// SymbolTable resolves names used in class code and template bindings to the
// members and collaborators of exactly one component.
type SymbolTable struct {
	members  map[string]*Member
	injected map[string]*Injection
}

func newSymbolTable(members []*Member, injected []*Injection) *SymbolTable {
	s := &SymbolTable{
		members:  make(map[string]*Member, len(members)),
		injected: make(map[string]*Injection, len(injected)),
	}

	for _, m := range members {
		if m.Kind == ConstructorMember || m.Name == "" {
			continue
		}

		if _, ok := s.members[m.Name]; !ok {
			s.members[m.Name] = m
		}
	}

	for _, in := range injected {
		if _, ok := s.injected[in.Name]; !ok {
			s.injected[in.Name] = in
		}
	}

	return s
}

// Member returns the member declared under name.
func (s *SymbolTable) Member(name string) *Member {
	return s.members[name]
}

// Field returns the field declared under name.
func (s *SymbolTable) Field(name string) *Member {
	if m := s.members[name]; m != nil && m.Kind == FieldMember {
		return m
	}

	return nil
}

// Method returns the method or accessor declared under name.
func (s *SymbolTable) Method(name string) *Member {
	if m := s.members[name]; m != nil && m.Callable() {
		return m
	}

	return nil
}

// Injection returns the collaborator stored under name.
func (s *SymbolTable) Injection(name string) *Injection {
	return s.injected[name]
}

// IsInput reports whether name is a data input.
func (s *SymbolTable) IsInput(name string) bool {
	m := s.members[name]

	return m != nil && m.Flags.Has(InputFlag)
}
