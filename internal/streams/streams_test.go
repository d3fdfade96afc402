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


package streams_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	. "fillmore-labs.com/rxguard/internal/streams"
	"fillmore-labs.com/rxguard/internal/testsource"
	"fillmore-labs.com/rxguard/internal/vocab"
)

func build(t *testing.T, src, template string) *Graph {
	t.Helper()

	c := testsource.Component(t, src, template)

	return Build(c, vocab.Default())
}

func TestGroups(t *testing.T) {
	t.Parallel()

	const journey = `class Journey {
  journey$ = this.api.journey().pipe(map(j => j.value));
  constructor(private api: JourneyApi) {}
}`

	tests := []struct {
		name     string
		src      string
		template string
		want     []string
	}{
		{
			name:     "rendered twice",
			src:      journey,
			template: `<h1>{{ (journey$ | async)?.title }}</h1><p>{{ (journey$ | async)?.summary }}</p>`,
			want:     []string{"journey$ sites=2 roots=2 duplicated=true"},
		},
		{
			name: "shared",
			src: `class Journey {
  journey$ = this.api.journey().pipe(map(j => j.value), shareReplay({ bufferSize: 1, refCount: true }));
  constructor(private api: JourneyApi) {}
}`,
			template: `<h1>{{ (journey$ | async)?.title }}</h1><p>{{ (journey$ | async)?.summary }}</p>`,
			want:     []string{"journey$ sites=2 roots=2 duplicated=false"},
		},
		{
			name:     "rendered once",
			src:      journey,
			template: `<h1>{{ (journey$ | async)?.title }}</h1>`,
			want:     []string{"journey$ sites=1 roots=1 duplicated=false"},
		},
		{
			name: "shared and rendered once",
			src: `class Journey {
  journey$ = this.api.journey().pipe(shareReplay(1));
  constructor(private api: JourneyApi) {}
}`,
			template: `<h1>{{ (journey$ | async)?.title }}</h1>`,
			want:     []string{"journey$ sites=1 roots=1 duplicated=false"},
		},
		{
			name: "subscribed once",
			src: `class Journey {
  journey$ = this.api.journey().pipe(map(j => j.value));
  constructor(private api: JourneyApi) {}
  ngOnInit() { this.journey$.subscribe(handler); }
}`,
			want: []string{"journey$ sites=1 roots=1 duplicated=false"},
		},
		{
			name:     "alias",
			src:      journey,
			template: `<div *ngIf="journey$ | async as j"><h1>{{ j.title }}</h1><p>{{ j.summary }}</p></div>`,
			want:     []string{"journey$ sites=3 roots=1 duplicated=false"},
		},
		{
			name: "subject",
			src: `class Items {
  items$ = new BehaviorSubject([]);
}`,
			template: `<p>{{ (items$ | async)?.length }}</p><span>{{ (items$ | async)?.length }}</span>`,
			want:     []string{"items$ sites=2 roots=2 duplicated=false"},
		},
		{
			name: "template and manual",
			src: `class Journey {
  journey$ = this.api.journey().pipe(map(j => j.value));
  constructor(private api: JourneyApi) {}
  ngOnInit() { this.journey$.subscribe(j => console.log(j)); }
}`,
			template: `<h1>{{ (journey$ | async)?.title }}</h1>`,
			want:     []string{"journey$ sites=2 roots=2 duplicated=true"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := build(t, tt.src, tt.template)

			var got []string
			for _, gr := range g.Groups() {
				if gr.Stream.Inline() {
					continue
				}

				got = append(got, fmt.Sprintf("%s sites=%d roots=%d duplicated=%t",
					gr.Stream.Name, len(gr.Sites), gr.Roots(), gr.Duplicated()))
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Groups() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSites(t *testing.T) {
	t.Parallel()

	g := build(t, `class Sites {
  ready$ = this.api.ready();
  constructor(private api: Api) {
    this.api.ping$.subscribe(x => console.log(x));
  }
  ngOnInit() {
    this.ready$.subscribe(x => console.log(x));
  }
  poll() {
    this.ready$.pipe(take(1)).subscribe(x => console.log(x));
  }
}`, "")

	var got []string
	for _, s := range g.Manual() {
		got = append(got, fmt.Sprintf("%s in %s ctor=%t once=%t",
			s.Stream.Label(), s.Scope.Name(), s.Scope.ConstructorEquivalent(), s.SingleShot()))
	}

	want := []string{
		"api.ping$ in constructor ctor=true once=false",
		"ready$ in ngOnInit ctor=false once=false",
		"ready$ in poll ctor=false once=true",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Manual() mismatch (-want +got):\n%s", diff)
	}
}

func TestSingleShot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"of", "of(1)", true},
		{"timer once", "timer(100)", true},
		{"timer interval", "timer(0, 100)", false},
		{"interval", "interval(100)", false},
		{"first", "interval(100).pipe(first())", true},
		{"take zero", "interval(100).pipe(take(0))", false},
		{"take one", "interval(100).pipe(take(1))", true},
		{"repeat", "of(1).pipe(repeat())", false},
		{"switchMap single", "of(1).pipe(switchMap(x => of(x)))", true},
		{"switchMap endless", "of(1).pipe(switchMap(x => interval(x)))", false},
		{"forkJoin", "forkJoin([of(1), of(2)])", true},
		{"http", "this.http.get('/api')", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := build(t, `class Once {
  constructor(private http: HttpClient) {}
  ngOnInit() { `+tt.expr+`.subscribe(x => console.log(x)); }
}`, "")

			sites := g.Manual()
			if len(sites) != 1 {
				t.Fatalf("Expected one manual site, got %d", len(sites))
			}

			if got := sites[0].SingleShot(); got != tt.want {
				t.Errorf("Expected single shot %t, got %t", tt.want, got)
			}
		})
	}
}

func TestNested(t *testing.T) {
	t.Parallel()

	g := build(t, `class Nested {
  constructor(private route: ActivatedRoute, private api: Api) {}
  ngOnInit() {
    this.route.params$.subscribe(p => {
      const id = p.id;
      this.api.load(id).subscribe(x => console.log(x));
      this.api.all().subscribe(x => console.log(x));
    });
  }
}`, "")

	nested := g.Nested()
	if len(nested) != 1 {
		t.Fatalf("Expected one nested site, got %d", len(nested))
	}

	if got := nested[0].Loc.Line; got != 6 {
		t.Errorf("Expected nested site on line 6, got %d", got)
	}

	if nested[0].Parent == nil || nested[0].Parent.Stream.Label() != "route.params$" {
		t.Errorf("Unexpected parent of nested site")
	}
}
