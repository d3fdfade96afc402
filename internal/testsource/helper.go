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

// Package testsource reads component fixtures written in a TypeScript and
// HTML subset into parsed component documents.
//
// It is designed to simplify testing of the rxguard engine by standing in for
// the front-end parser: fixtures read like the components they model, and
// reported locations point into the fixture text.
//
// Class files (*.ts) hold class declarations with decorators, members and
// method bodies. Template files (*.html) attach to the first decorated class
// of the class file sharing their stem, so "user.component.html" belongs to
// "user.component.ts".
package testsource

import (
	"context"
	"path"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"fillmore-labs.com/rxguard/internal/adapt"
	"fillmore-labs.com/rxguard/internal/model"
	"fillmore-labs.com/rxguard/internal/source"
	"fillmore-labs.com/rxguard/internal/vocab"
)

// DefaultFile is the file name of single-class fixtures.
const DefaultFile = "app.component.ts"

// Parse reads the classes of a class file fixture.
func Parse(tb testing.TB, file, src string) []source.Component {
	tb.Helper()

	classes, err := parseClasses(file, src)
	if err != nil {
		tb.Fatalf("Failed to parse %s: %v", file, err)
	}

	return classes
}

// Template reads a template fixture.
func Template(tb testing.TB, file, src string) *source.Template {
	tb.Helper()

	t, err := parseTemplate(file, src)
	if err != nil {
		tb.Fatalf("Failed to parse template %s: %v", file, err)
	}

	return t
}

// Document reads all class and template files of an archive.
func Document(tb testing.TB, ar *txtar.Archive) *source.Document {
	tb.Helper()

	var doc source.Document

	templates := make(map[string]*source.Template)

	for _, f := range ar.Files {
		switch path.Ext(f.Name) {
		case ".ts":
			doc.Components = append(doc.Components, Parse(tb, f.Name, string(f.Data))...)

		case ".html":
			templates[stem(f.Name)] = Template(tb, f.Name, string(f.Data))
		}
	}

	for s, t := range templates {
		if !attach(&doc, s, t) {
			tb.Fatalf("No class for template %s", t.File)
		}
	}

	return &doc
}

func stem(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

func attach(doc *source.Document, s string, t *source.Template) bool {
	for i := range doc.Components {
		c := &doc.Components[i]
		if stem(c.File) != s || len(c.Decorators) == 0 || c.Template != nil {
			continue
		}

		c.Template = t

		return true
	}

	return false
}

// Read reads a fixture archive, e.g. "testdata/scenario.txtar".
func Read(tb testing.TB, filename string) *txtar.Archive {
	tb.Helper()

	ar, err := txtar.ParseFile(filename)
	if err != nil {
		tb.Fatalf("Failed to read archive %s: %v", filename, err)
	}

	return ar
}

// Archive parses an inline fixture archive.
func Archive(src string) *txtar.Archive {
	return txtar.Parse([]byte(src))
}

// Batch adapts all components of an archive with the default vocabulary.
// Unsupported constructs fail the test.
func Batch(tb testing.TB, ar *txtar.Archive) *model.Batch {
	tb.Helper()

	batch, err := adapt.New(vocab.Default()).Batch(context.Background(), Document(tb, ar))
	if err != nil {
		tb.Fatalf("Failed to adapt fixture: %v", err)
	}

	return batch
}

// Component adapts the single class of src with an optional template.
func Component(tb testing.TB, src, template string) *model.Component {
	tb.Helper()

	classes := Parse(tb, DefaultFile, src)
	if len(classes) != 1 {
		tb.Fatalf("Expected one class, got %d", len(classes))
	}

	if template != "" {
		classes[0].Template = Template(tb, stem(DefaultFile)+".html", template)
	}

	c, err := adapt.New(vocab.Default()).Component(&classes[0])
	if err != nil {
		tb.Fatalf("Failed to adapt %s: %v", classes[0].Name, err)
	}

	return c
}
