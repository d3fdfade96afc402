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

// Package source defines the parsed component document, the contract a
// front-end parser satisfies to feed the analyzer.
//
// A document is a JSON object with a "components" array. Class members carry
// their decorators, type annotations, initializer and body as node trees;
// templates carry their bindings, nested beneath structural bindings.
// Nodes are tagged by "kind":
//
//	expressions: ident this member index call new arrow literal binary unary
//	             conditional assign pipe object array
//	statements:  expr return var if block loop
//
// Unknown kinds are kept and become opaque nodes in the analysis model.
package source

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Document is a sequence of parsed components.
type Document struct {
	Components []Component `json:"components"`
}

// Component is a parsed class declaration with its optional template.
type Component struct {
	Name       string      `json:"name"`
	File       string      `json:"file"`
	Line       int         `json:"line,omitempty"`
	Column     int         `json:"column,omitempty"`
	Decorators []Decorator `json:"decorators,omitempty"`
	Extends    string      `json:"extends,omitempty"`
	Members    []Member    `json:"members,omitempty"`
	Template   *Template   `json:"template,omitempty"`
	Comments   []string    `json:"comments,omitempty"`
}

// Decorator is a class or member decorator and its call arguments.
type Decorator struct {
	Name string  `json:"name"`
	Args []*Node `json:"args,omitempty"`
}

// Member is a parsed class member.
type Member struct {
	// Kind is one of field, method, get, set, constructor.
	Kind       string      `json:"kind"`
	Name       string      `json:"name,omitempty"`
	Line       int         `json:"line,omitempty"`
	Column     int         `json:"column,omitempty"`
	EndLine    int         `json:"endLine,omitempty"`
	Modifiers  []string    `json:"modifiers,omitempty"`
	Decorators []Decorator `json:"decorators,omitempty"`
	Type       string      `json:"type,omitempty"`
	Init       *Node       `json:"init,omitempty"`
	Params     []Param     `json:"params,omitempty"`
	Body       []*Node     `json:"body,omitempty"`
	Comments   []string    `json:"comments,omitempty"`
}

// Param is a parsed parameter. Modifiers such as "private" on a constructor
// parameter turn it into a parameter property.
type Param struct {
	Name       string      `json:"name"`
	Type       string      `json:"type,omitempty"`
	Modifiers  []string    `json:"modifiers,omitempty"`
	Decorators []Decorator `json:"decorators,omitempty"`
	Line       int         `json:"line,omitempty"`
	Column     int         `json:"column,omitempty"`
}

// Template is a parsed view template.
type Template struct {
	File     string    `json:"file,omitempty"`
	Bindings []Binding `json:"bindings,omitempty"`
	Elements []Element `json:"elements,omitempty"`
}

// Binding is a parsed template binding. Bindings inside a structural
// directive's host element are listed as its children.
type Binding struct {
	// Kind is one of interpolation, property, event, structural, two-way.
	Kind     string           `json:"kind"`
	Element  string           `json:"element,omitempty"`
	Target   string           `json:"target,omitempty"`
	Expr     *Node            `json:"expr,omitempty"`
	Alias    string           `json:"alias,omitempty"`
	Options  map[string]*Node `json:"options,omitempty"`
	Line     int              `json:"line,omitempty"`
	Column   int              `json:"column,omitempty"`
	Children []Binding        `json:"children,omitempty"`
}

// Element is an element rendered by a template.
type Element struct {
	Tag    string `json:"tag"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// Node is an expression or statement node.
type Node struct {
	Kind   string `json:"kind"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`

	// Name is the identifier, member name, pipe name, declared variable or constructed class.
	Name     string `json:"name,omitempty"`
	Value    string `json:"value,omitempty"`
	Op       string `json:"op,omitempty"`
	Optional bool   `json:"optional,omitempty"`

	Object *Node   `json:"object,omitempty"`
	Index  *Node   `json:"index,omitempty"`
	Callee *Node   `json:"callee,omitempty"`
	Args   []*Node `json:"args,omitempty"`

	Params []string `json:"params,omitempty"`
	Body   []*Node  `json:"body,omitempty"`
	Expr   *Node    `json:"expr,omitempty"`

	Left  *Node `json:"left,omitempty"`
	Right *Node `json:"right,omitempty"`

	Test      *Node   `json:"test,omitempty"`
	Then      *Node   `json:"then,omitempty"`
	Else      *Node   `json:"else,omitempty"`
	Alternate []*Node `json:"alternate,omitempty"`

	Props    []Prop  `json:"props,omitempty"`
	Elements []*Node `json:"elements,omitempty"`
}

// Prop is a key of an object literal node.
type Prop struct {
	Key   string `json:"key"`
	Value *Node  `json:"value"`
}

// Decode reads one document.
func Decode(r io.Reader) (*Document, error) {
	var doc Document

	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("can't decode component document: %w", err)
	}

	return &doc, nil
}

// ReadFiles reads and concatenates the documents in the given files.
func ReadFiles(paths ...string) (*Document, error) {
	var all Document

	for _, path := range paths {
		doc, err := readFile(path)
		if err != nil {
			return nil, err
		}

		all.Components = append(all.Components, doc.Components...)
	}

	return &all, nil
}

func readFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}
