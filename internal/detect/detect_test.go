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

package detect_test

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	. "fillmore-labs.com/rxguard/internal/detect"
	"fillmore-labs.com/rxguard/internal/testsource"
	"fillmore-labs.com/rxguard/internal/vocab"
)

// findings runs d on the class of src and returns the lines of its findings.
// Findings on the class itself are reported as "class".
func findings(t *testing.T, d *Detector, src, template string) []string {
	t.Helper()

	c := testsource.Component(t, src, template)
	v := vocab.Default()

	var got []string

	p := &Pass{
		Unit:      NewUnit(c, v),
		Detector:  d,
		Vocab:     v,
		Severity:  d.Severity,
		Threshold: d.Threshold,
		Report: func(diag Diagnostic) {
			if diag.Detector != d.Name || diag.Component != c.ID {
				t.Errorf("Unexpected finding %s on %s", diag.Detector, diag.Component)
			}

			if diag.Loc == c.Loc {
				got = append(got, "class")
				return
			}

			got = append(got, strconv.Itoa(diag.Loc.Line))
		},
	}

	if err := d.Run(p); err != nil {
		t.Fatalf("Detector %s failed: %v", d.Name, err)
	}

	return got
}

func TestDetectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		detector *Detector
		src      string
		template string
		want     []string
	}{
		{
			name:     "rendered twice",
			detector: MultipleSubscriptions,
			src: `@Component({ selector: 'app-j', template: '' })
export class JourneyComponent {
  journey$ = this.api.journey().pipe(map(j => j.value));
  constructor(private api: JourneyApi) {}
}`,
			template: `<h1>{{ (journey$ | async)?.title }}</h1>
<p>{{ (journey$ | async)?.summary }}</p>`,
			want: []string{"3"},
		},
		{
			name:     "rendered once through alias",
			detector: MultipleSubscriptions,
			src: `@Component({ selector: 'app-j', template: '' })
export class JourneyComponent {
  journey$ = this.api.journey().pipe(map(j => j.value));
  constructor(private api: JourneyApi) {}
}`,
			template: `<div *ngIf="journey$ | async as j">
  <h1>{{ j.title }}</h1>
  <p>{{ j.summary }}</p>
</div>`,
		},
		{
			name:     "rendered once",
			detector: MultipleSubscriptions,
			src: `@Component({ selector: 'app-j', template: '' })
export class JourneyComponent {
  journey$ = this.api.journey().pipe(map(j => j.value));
  constructor(private api: JourneyApi) {}
}`,
			template: `<h1>{{ (journey$ | async)?.title }}</h1>`,
		},
		{
			name:     "shared and rendered once",
			detector: MultipleSubscriptions,
			src: `@Component({ selector: 'app-j', template: '' })
export class JourneyComponent {
  journey$ = this.api.journey().pipe(shareReplay({ bufferSize: 1, refCount: true }));
  constructor(private api: JourneyApi) {}
}`,
			template: `<h1>{{ (journey$ | async)?.title }}</h1>`,
		},
		{
			name:     "subscribed once",
			detector: MultipleSubscriptions,
			src: `@Component({ selector: 'app-j', template: '' })
export class JourneyComponent {
  journey$ = this.api.journey().pipe(map(j => j.value));
  constructor(private api: JourneyApi) {}
  ngOnInit() {
    this.journey$.subscribe(j => console.log(j));
  }
}`,
		},
		{
			name:     "shared and subscribed once",
			detector: MultipleSubscriptions,
			src: `@Component({ selector: 'app-j', template: '' })
export class JourneyComponent {
  journey$ = this.api.journey().pipe(share());
  constructor(private api: JourneyApi) {}
  ngOnInit() {
    this.journey$.subscribe(j => console.log(j));
  }
}`,
		},
		{
			name:     "leak",
			detector: NotUnsubscribing,
			src: `@Component({ selector: 'app-f', template: '' })
export class FeedComponent {
  constructor(private feed: FeedService) {}
  ngOnInit() {
    this.feed.items$.subscribe(x => console.log(x));
  }
}`,
			want: []string{"5"},
		},
		{
			name:     "leak through function reference",
			detector: NotUnsubscribing,
			src: `@Component({ selector: 'app-f', template: '' })
export class FeedComponent {
  constructor(private feed: FeedService) {}
  ngOnInit() {
    this.feed.items$.subscribe(handler);
  }
}`,
			want: []string{"5"},
		},
		{
			name:     "leak through property reference",
			detector: NotUnsubscribing,
			src: `@Component({ selector: 'app-f', template: '' })
export class FeedComponent {
  constructor(private feed: FeedService) {}
  ngOnInit() {
    this.feed.items$.subscribe(console.log);
  }
}`,
			want: []string{"5"},
		},
		{
			name:     "cancelled by collaborator stream",
			detector: NotUnsubscribing,
			src: `@Component({ selector: 'app-f', template: '' })
export class FeedComponent {
  constructor(private feed: FeedService) {}
  ngOnInit() {
    this.feed.items$.pipe(takeUntil(this.feed.refresh$)).subscribe(x => console.log(x));
  }
}`,
			want: []string{"5"},
		},
		{
			name:     "root service",
			detector: NotUnsubscribing,
			src: `@Injectable({ providedIn: 'root' })
export class FeedStore {
  constructor(private feed: FeedService) {
    this.feed.items$.subscribe(x => console.log(x));
  }
}`,
		},
		{
			name:     "construction",
			detector: SubscribeInConstructor,
			src: `@Component({ selector: 'app-c', template: '' })
export class ClockComponent {
  tick$ = interval(1000);
  handle = this.tick$.subscribe(x => console.log(x));
  constructor(private feed: FeedService) {
    this.feed.items$.subscribe(x => console.log(x));
  }
  ngOnInit() {
    this.feed.items$.subscribe(x => console.log(x));
  }
}`,
			want: []string{"4", "6"},
		},
		{
			name:     "nested",
			detector: NestedSubscriptions,
			src: `@Component({ selector: 'app-n', template: '' })
export class NestedComponent {
  constructor(private route: ActivatedRoute, private api: Api) {}
  ngOnInit() {
    this.route.params$.subscribe(p => {
      this.api.load(p.id).subscribe(x => console.log(x));
      this.api.all().subscribe(x => console.log(x));
    });
  }
}`,
			want: []string{"6"},
		},
		{
			name:     "copy to render",
			detector: SubscribeToRender,
			src: `@Component({ selector: 'app-r', template: '' })
export class ProfileComponent {
  user;
  constructor(private users: UserService) {}
  ngOnInit() {
    this.users.current$.subscribe(u => this.user = u);
    this.users.current$.subscribe(u => {
      this.user = u;
      console.log(u);
    });
  }
}`,
			template: `<p>{{ user.name }}</p>`,
			want:     []string{"6"},
		},
		{
			name:     "notifier completed only",
			detector: DestroySignalNotEmitted,
			src: `@Component({ selector: 'app-d', template: '' })
export class DestroyComponent {
  destroy$ = new Subject<void>();
  constructor(private feed: FeedService) {}
  ngOnInit() {
    this.feed.items$.pipe(takeUntil(this.destroy$)).subscribe(x => console.log(x));
  }
  ngOnDestroy() {
    this.destroy$.complete();
  }
}`,
			want: []string{"3"},
		},
		{
			name:     "notifier emitted",
			detector: DestroySignalNotEmitted,
			src: `@Component({ selector: 'app-d', template: '' })
export class DestroyComponent {
  destroy$ = new Subject<void>();
  constructor(private feed: FeedService) {}
  ngOnInit() {
    this.feed.items$.pipe(takeUntil(this.destroy$)).subscribe(x => console.log(x));
  }
  ngOnDestroy() {
    this.destroy$.next();
    this.destroy$.complete();
  }
}`,
		},
		{
			name:     "operator after cancellation",
			detector: TakeUntilLeak,
			src: `@Component({ selector: 'app-t', template: '' })
export class SearchComponent {
  destroy$ = new Subject<void>();
  constructor(private feed: FeedService, private api: Api) {}
  ngOnInit() {
    this.feed.items$.pipe(takeUntil(this.destroy$), switchMap(x => this.api.load(x))).subscribe(x => console.log(x));
    this.feed.items$.pipe(switchMap(x => this.api.load(x)), takeUntil(this.destroy$), finalize(() => console.log('done'))).subscribe();
  }
  ngOnDestroy() {
    this.destroy$.next();
  }
}`,
			want: []string{"6"},
		},
		{
			name:     "stream inputs",
			detector: StreamInput,
			src: `@Component({ selector: 'app-s', template: '' })
export class ShellComponent {
  @Input() source$: Observable<number>;
  items$ = this.api.items();
  constructor(private api: Api) {}
}`,
			template: `<app-child [items]="items$"></app-child>`,
			want:     []string{"1", "3"},
		},
		{
			name:     "state carried in field",
			detector: StatefulStreams,
			src: `@Component({ selector: 'app-s', template: '' })
export class StatefulComponent {
  last = 0;
  constructor(private feed: FeedService) {}
  ngOnInit() {
    this.feed.items$.pipe(
      tap(x => this.last = x),
      map(x => this.last + 1)
    ).subscribe(x => console.log(x));
  }
}`,
			want: []string{"7"},
		},
		{
			name:     "replay buffers",
			detector: UnboundedShareReplay,
			src: `@Component({ selector: 'app-u', template: '' })
export class ReplayComponent {
  a$ = this.api.a().pipe(shareReplay());
  b$ = this.api.b().pipe(shareReplay({ refCount: true }));
  c$ = this.api.c().pipe(shareReplay(1));
  d$ = this.api.d().pipe(shareReplay({ bufferSize: 1, refCount: true }));
  constructor(private api: Api) {}
}`,
			want: []string{"3", "4"},
		},
		{
			name:     "public subjects",
			detector: ExposedSubject,
			src: `@Component({ selector: 'app-e', template: '' })
export class ExposedComponent {
  events = new Subject<string>();
  private state = new BehaviorSubject(0);
  @Output() changed = new EventEmitter<string>();
  readonly done$: ReplaySubject<void>;
}`,
			want: []string{"3", "6"},
		},
		{
			name:     "promise conversion",
			detector: DeprecatedToPromise,
			src: `@Component({ selector: 'app-p', template: '' })
export class PromiseComponent {
  constructor(private api: Api) {}
  load() {
    return this.api.items$.toPromise();
  }
  first() {
    return firstValueFrom(this.api.items$);
  }
}`,
			want: []string{"5"},
		},
		{
			name:     "god component",
			detector: GodComponent,
			src: `@Component({ selector: 'app-g', template: '' })
export class GodComponent {
  a = 0;
  b = 0;
  c = 0;
  d = 0;
  e = 0;
  f = 0;
  constructor(private http: HttpClient, private router: Router) {}
  save() {
    this.http.post('/api', this.a).subscribe(() => this.router.navigate(['/done']));
  }
}`,
			template: `<p>{{ a }} {{ b }} {{ c }} {{ d }} {{ e }} {{ f }}</p>`,
			want:     []string{"class"},
		},
		{
			name:     "focused component",
			detector: GodComponent,
			src: `@Component({ selector: 'app-g', template: '' })
export class FocusedComponent {
  a = 0;
  b = 0;
  c = 0;
  d = 0;
  e = 0;
  f = 0;
  constructor(private http: HttpClient) {}
  save() {
    this.http.post('/api', this.a).subscribe();
  }
}`,
			template: `<p>{{ a }} {{ b }} {{ c }} {{ d }} {{ e }} {{ f }}</p>`,
		},
		{
			name:     "smart and dumb",
			detector: MixingSmartDumb,
			src: `@Component({ selector: 'app-m', template: '' })
export class MixedComponent {
  @Output() a = new EventEmitter<void>();
  @Output() b = new EventEmitter<void>();
  @Output() c = new EventEmitter<void>();
  constructor(private store: Store) {}
}`,
			template: `<button (click)="a.emit()">go</button>`,
			want:     []string{"class"},
		},
		{
			name:     "renders input",
			detector: MixingSmartDumb,
			src: `@Component({ selector: 'app-m', template: '' })
export class MixedComponent {
  @Input() title = '';
  @Output() a = new EventEmitter<void>();
  @Output() b = new EventEmitter<void>();
  @Output() c = new EventEmitter<void>();
  constructor(private store: Store) {}
}`,
			template: `<h1>{{ title }}</h1>`,
		},
		{
			name:     "dom access",
			detector: ModifyDOMDirectly,
			src: `@Component({ selector: 'app-d', template: '' })
export class FocusComponent {
  constructor(private el: ElementRef) {}
  ngAfterViewInit() {
    this.el.nativeElement.focus();
    document.title = 'ready';
  }
}`,
			want: []string{"5", "6"},
		},
		{
			name:     "default change detection",
			detector: DefaultChangeDetection,
			src: `@Component({ selector: 'app-d', template: '' })
export class PlainComponent {}`,
			want: []string{"class"},
		},
		{
			name:     "on push",
			detector: DefaultChangeDetection,
			src: `@Component({ selector: 'app-d', template: '', changeDetection: ChangeDetectionStrategy.OnPush })
export class PlainComponent {}`,
		},
		{
			name:     "input writes",
			detector: MutateInput,
			src: `@Component({ selector: 'app-i', template: '' })
export class EditorComponent {
  @Input() items: string[] = [];
  @Input() user: User;
  add() {
    this.items.push('x');
    this.user = null;
    this.user.name = 'y';
  }
}`,
			want: []string{"6", "7", "8"},
		},
		{
			name:     "template logic",
			detector: LogicInTemplate,
			src: `@Component({ selector: 'app-l', template: '' })
export class TotalComponent {
  a = true;
  b = true;
  c = true;
  d = true;
  e = true;
  count = signal(0);
  total() { return 1; }
}`,
			template: `<p>{{ total() }}</p>
<p>{{ a && b || c && d || e }}</p>
<p>{{ count() }}</p>
<p>{{ a && b }}</p>`,
			want: []string{"1", "2"},
		},
		{
			name:     "repeater",
			detector: MissingTrackBy,
			src: `@Component({ selector: 'app-r', template: '' })
export class ListComponent {
  items = [];
  byId(i, item) { return item.id; }
}`,
			template: `<li *ngFor="let i of items">{{ i }}</li>
<li *ngFor="let i of items; trackBy: byId">{{ i }}</li>`,
			want: []string{"1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := findings(t, tt.detector, tt.src, tt.template)

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("%s findings mismatch (-want +got):\n%s", tt.detector.Name, diff)
			}
		})
	}
}

// batchFindings runs d on the batch of archive and returns the components
// reported on, with the number of supporting locations.
func batchFindings(t *testing.T, d *Detector, archive string) []string {
	t.Helper()

	batch := testsource.Batch(t, testsource.Archive(archive))
	v := vocab.Default()

	units := make([]*Unit, 0, len(batch.Components))
	for _, c := range batch.Components {
		units = append(units, NewUnit(c, v))
	}

	var got []string

	p := &BatchPass{
		Units:     units,
		Batch:     batch,
		Detector:  d,
		Vocab:     v,
		Severity:  d.Severity,
		Threshold: d.Threshold,
		Report: func(diag Diagnostic) {
			got = append(got, diag.Component+" evidence="+strconv.Itoa(len(diag.Evidence)))
		},
	}

	if err := d.RunBatch(p); err != nil {
		t.Fatalf("Detector %s failed: %v", d.Name, err)
	}

	return got
}

func TestBatchDetectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		detector *Detector
		archive  string
		want     []string
	}{
		{
			name:     "shared base",
			detector: InheritanceOverComposition,
			archive: `-- base.ts --
export class Base {
  constructor(protected api: Api) {}
}
-- a/a.component.ts --
@Component({ selector: 'app-a', template: '' })
export class AComponent extends Base {}
-- b/b.component.ts --
@Component({ selector: 'app-b', template: '' })
export class BComponent extends Base {}
`,
			want: []string{"base.ts#Base evidence=2"},
		},
		{
			name:     "single subclass",
			detector: InheritanceOverComposition,
			archive: `-- base.ts --
export class Base {
  constructor(protected api: Api) {}
}
-- a/a.component.ts --
@Component({ selector: 'app-a', template: '' })
export class AComponent extends Base {}
`,
		},
		{
			name:     "duplicated entity",
			detector: DuplicateState,
			archive: `-- list/a.component.ts --
@Component({ selector: 'app-a', template: '' })
export class AComponent {
  user: User = { id: 0, name: '' };
}
-- list/b.component.ts --
@Component({ selector: 'app-b', template: '' })
export class BComponent {
  user: User = { id: 0, name: '' };
}
`,
			want: []string{"list/b.component.ts#BComponent evidence=1"},
		},
		{
			name:     "several duplicated entities",
			detector: DuplicateState,
			archive: `-- shop/a.component.ts --
@Component({ selector: 'app-a', template: '' })
export class AComponent {
  user: User = { id: 0, name: '' };
  account: Account = { id: 0 };
  cart = new Cart();
}
-- shop/b.component.ts --
@Component({ selector: 'app-b', template: '' })
export class BComponent {
  user: User = { id: 0, name: '' };
  account: Account = { id: 0 };
  cart = new Cart();
}
`,
			want: []string{"shop/b.component.ts#BComponent evidence=5"},
		},
		{
			name:     "shared store",
			detector: DuplicateState,
			archive: `-- list/a.component.ts --
@Component({ selector: 'app-a', template: '' })
export class AComponent {
  user: User = { id: 0, name: '' };
  constructor(private users: UserStore) {}
}
-- list/b.component.ts --
@Component({ selector: 'app-b', template: '' })
export class BComponent {
  user: User = { id: 0, name: '' };
  constructor(private users: UserStore) {}
}
`,
		},
		{
			name:     "unrelated directories",
			detector: DuplicateState,
			archive: `-- list/a.component.ts --
@Component({ selector: 'app-a', template: '' })
export class AComponent {
  user: User = { id: 0, name: '' };
}
-- detail/b.component.ts --
@Component({ selector: 'app-b', template: '' })
export class BComponent {
  user: User = { id: 0, name: '' };
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := batchFindings(t, tt.detector, tt.archive)

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("%s findings mismatch (-want +got):\n%s", tt.detector.Name, diff)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	all := All()
	if got := len(all); got != 23 {
		t.Errorf("Expected 23 registered detectors, got %d", got)
	}

	var flags Flag

	for _, d := range all {
		if flags&d.Flag() != 0 {
			t.Errorf("Detector %s shares flag %#x", d.Name, d.Flag())
		}

		flags |= d.Flag()

		if got, ok := Lookup(d.Name); !ok || got != d {
			t.Errorf("Lookup(%q) did not return the registered detector", d.Name)
		}

		if d.Engine() != (d.Name == DetectorFault || d.Name == UnsupportedConstruct) {
			t.Errorf("Detector %s: unexpected engine diagnostic %t", d.Name, d.Engine())
		}
	}

	if flags != AllFlags() {
		t.Errorf("Expected flags %#x, got %#x", AllFlags(), flags)
	}

	if _, ok := Lookup("no-such-detector"); ok {
		t.Error("Expected unknown detector lookup to fail")
	}
}
