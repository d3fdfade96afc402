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


package lifecycle_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	. "fillmore-labs.com/rxguard/internal/lifecycle"
	"fillmore-labs.com/rxguard/internal/streams"
	"fillmore-labs.com/rxguard/internal/testsource"
	"fillmore-labs.com/rxguard/internal/vocab"
)

func build(t *testing.T, src string) (*Graph, []*streams.Site) {
	t.Helper()

	c := testsource.Component(t, src, "")
	v := vocab.Default()
	sg := streams.Build(c, v)

	return Build(c, sg, v), sg.Manual()
}

func TestStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []Status
	}{
		{
			name: "leaked",
			src: `class Leak {
  constructor(private feed: FeedService) {}
  ngOnInit() { this.feed.items$.subscribe(x => console.log(x)); }
}`,
			want: []Status{Leaked},
		},
		{
			name: "released",
			src: `class Release {
  sub: Subscription;
  constructor(private feed: FeedService) {}
  ngOnInit() { this.sub = this.feed.items$.subscribe(x => console.log(x)); }
  ngOnDestroy() { this.sub.unsubscribe(); }
}`,
			want: []Status{Released},
		},
		{
			name: "released through local",
			src: `class Local {
  sub: Subscription;
  constructor(private feed: FeedService) {}
  ngOnInit() {
    const s = this.feed.items$.subscribe(x => console.log(x));
    this.sub = s;
  }
  ngOnDestroy() { this.sub.unsubscribe(); }
}`,
			want: []Status{Released},
		},
		{
			name: "released by helper",
			src: `class Helper {
  sub: Subscription;
  constructor(private feed: FeedService) {}
  ngOnInit() { this.sub = this.feed.items$.subscribe(x => console.log(x)); }
  ngOnDestroy() { this.cleanup(); }
  cleanup() { this.sub.unsubscribe(); }
}`,
			want: []Status{Released},
		},
		{
			name: "container forEach",
			src: `class Container {
  subs: Subscription[] = [];
  constructor(private feed: FeedService) {}
  ngOnInit() { this.subs.push(this.feed.items$.subscribe(x => console.log(x))); }
  ngOnDestroy() { this.subs.forEach(s => s.unsubscribe()); }
}`,
			want: []Status{Released},
		},
		{
			name: "container loop",
			src: `class Loop {
  subs = [];
  constructor(private feed: FeedService) {}
  ngOnInit() { this.subs.push(this.feed.items$.subscribe(x => console.log(x))); }
  ngOnDestroy() {
    for (const s of this.subs) {
      s.unsubscribe();
    }
  }
}`,
			want: []Status{Released},
		},
		{
			name: "released elsewhere",
			src: `class Elsewhere {
  sub: Subscription;
  constructor(private feed: FeedService) {}
  ngOnInit() { this.sub = this.feed.items$.subscribe(x => console.log(x)); }
  ngOnDestroy() {}
  stop() { this.sub.unsubscribe(); }
}`,
			want: []Status{Leaked},
		},
		{
			name: "cancelled",
			src: `class Cancel {
  destroy$ = new Subject<void>();
  constructor(private feed: FeedService) {}
  ngOnInit() { this.feed.items$.pipe(takeUntil(this.destroy$)).subscribe(x => console.log(x)); }
  ngOnDestroy() { this.destroy$.next(); this.destroy$.complete(); }
}`,
			want: []Status{Cancelled},
		},
		{
			name: "cancelled with the component",
			src: `class Destroyed {
  constructor(private feed: FeedService, private destroyRef: DestroyRef) {}
  ngOnInit() { this.feed.items$.pipe(takeUntilDestroyed(this.destroyRef)).subscribe(x => console.log(x)); }
}`,
			want: []Status{Cancelled},
		},
		{
			name: "cancelled by collaborator stream",
			src: `class Refresh {
  constructor(private feed: FeedService) {}
  ngOnInit() { this.feed.items$.pipe(takeUntil(this.feed.refresh$)).subscribe(x => console.log(x)); }
}`,
			want: []Status{Leaked},
		},
		{
			name: "cancelled by timer",
			src: `class Timed {
  constructor(private feed: FeedService) {}
  ngOnInit() { this.feed.items$.pipe(takeUntil(timer(1000))).subscribe(x => console.log(x)); }
}`,
			want: []Status{Leaked},
		},
		{
			name: "single shot",
			src: `class Once {
  constructor(private feed: FeedService) {}
  ngOnInit() {
    this.feed.items$.pipe(first()).subscribe(x => console.log(x));
    of(1).subscribe(x => console.log(x));
  }
}`,
			want: []Status{SingleShot, SingleShot},
		},
		{
			name: "opaque destruction",
			src: `class Derived extends Base {
  sub: Subscription;
  constructor(private feed: FeedService) { super(); }
  ngOnInit() { this.sub = this.feed.items$.subscribe(x => console.log(x)); }
  ngOnDestroy() { super.ngOnDestroy(); }
}`,
			want: []Status{Unknown},
		},
		{
			name: "base without hook",
			src: `class Inherited extends Base {
  constructor(private feed: FeedService) { super(); }
  ngOnInit() { this.sub = this.feed.items$.subscribe(x => console.log(x)); }
}`,
			want: []Status{Unknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g, sites := build(t, tt.src)

			got := make([]Status, 0, len(sites))
			for _, s := range sites {
				got = append(got, g.Status(s))
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Status() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHandles(t *testing.T) {
	t.Parallel()

	g, sites := build(t, `class Handles {
  sub: Subscription;
  subs = new Subscription();
  constructor(private feed: FeedService) {}
  ngOnInit() {
    this.sub = this.feed.items$.subscribe(x => console.log(x));
    this.subs.add(this.feed.items$.subscribe(x => console.log(x)));
  }
  ngOnDestroy() { this.subs.unsubscribe(); }
}`)

	if len(sites) != 2 {
		t.Fatalf("Expected 2 manual sites, got %d", len(sites))
	}

	var fields []string
	for _, h := range g.Handles(sites[0]) {
		fields = append(fields, h.Field+" "+h.Kind.String())
	}

	if diff := cmp.Diff([]string{"sub single"}, fields); diff != "" {
		t.Errorf("Handles() mismatch (-want +got):\n%s", diff)
	}

	if g.Released("sub") {
		t.Error("Expected sub not to be released")
	}

	if !g.Released("subs") {
		t.Error("Expected subs to be released")
	}

	if got := g.Status(sites[0]); got != Leaked {
		t.Errorf("Expected first site %v, got %v", Leaked, got)
	}
}

func TestTeardownPath(t *testing.T) {
	t.Parallel()

	g, _ := build(t, `class Path {
  sub: Subscription;
  constructor(private feed: FeedService) {}
  ngOnInit() { this.sub = this.feed.items$.subscribe(x => console.log(x)); }
  ngOnDestroy() { this.cleanup(); }
  cleanup() { this.sub.unsubscribe(); }
}`)

	if len(g.Teardowns) != 1 {
		t.Fatalf("Expected one teardown, got %d", len(g.Teardowns))
	}

	td := g.Teardowns[0]

	var path []string
	for _, m := range td.Path {
		path = append(path, m.Name)
	}

	if diff := cmp.Diff([]string{"ngOnDestroy", "cleanup"}, path); diff != "" {
		t.Errorf("Teardown path mismatch (-want +got):\n%s", diff)
	}

	if td.Field != "sub" || td.Member.Name != "cleanup" {
		t.Errorf("Unexpected teardown %s in %s", td.Field, td.Member.Name)
	}
}

func TestSignals(t *testing.T) {
	t.Parallel()

	g, sites := build(t, `class Signals {
  destroy$ = new Subject<void>();
  constructor(private feed: FeedService) {}
  ngOnInit() { this.feed.items$.pipe(takeUntil(this.destroy$)).subscribe(x => console.log(x)); }
  ngOnDestroy() { this.destroy$.next(); this.destroy$.complete(); }
}`)

	if got := len(g.Signals("destroy$")); got != 1 {
		t.Errorf("Expected one signal on destroy$, got %d", got)
	}

	if len(sites) != 1 {
		t.Fatalf("Expected one manual site, got %d", len(sites))
	}

	op, ok := g.Cancellation(sites[0])
	if !ok || op.Name != "takeUntil" {
		t.Fatalf("Expected takeUntil cancellation, got %q", op.Name)
	}

	if notifier, ok := g.Notifier(op); !ok || notifier != "destroy$" {
		t.Errorf("Expected notifier destroy$, got %q", notifier)
	}
}
