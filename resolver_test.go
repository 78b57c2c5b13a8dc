package modplan

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"sync"
	"testing"
)

func mustRegistry(t *testing.T, descs ...ModuleDescriptor) *MemoryRegistry {
	t.Helper()
	reg, err := NewRegistry(descs...)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return reg
}

func mustResolve(t *testing.T, root string, descs ...ModuleDescriptor) *BuildPlan {
	t.Helper()
	r, err := NewResolver(mustRegistry(t, descs...))
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	plan, err := r.Resolve(root)
	if err != nil {
		t.Fatalf("Resolve(%s) error = %v", root, err)
	}
	return plan
}

// mapRegistry is an unvalidated Registry for exercising the resolver
// against inputs a MemoryRegistry would reject.
type mapRegistry map[string]ModuleDescriptor

func (m mapRegistry) Lookup(name string) (ModuleDescriptor, bool) {
	d, ok := m[name]
	return d, ok
}

func TestNewResolver(t *testing.T) {
	if _, err := NewResolver(nil); !errors.Is(err, ErrNoRegistry) {
		t.Errorf("NewResolver(nil) error = %v, want ErrNoRegistry", err)
	}
	if _, err := NewResolver(mapRegistry{}, WithConcurrency(-1)); err == nil {
		t.Error("expected error for negative concurrency")
	}
	r, err := NewResolver(mapRegistry{}, WithConcurrency(0))
	if err != nil {
		t.Fatal(err)
	}
	if r.config.maxConcurrency != defaultMaxConcurrency {
		t.Errorf("maxConcurrency = %d, want default %d", r.config.maxConcurrency, defaultMaxConcurrency)
	}
}

func TestResolver_ZeroValue(t *testing.T) {
	var r Resolver
	if plan, err := r.Resolve("A"); !errors.Is(err, ErrNoRegistry) || plan != nil {
		t.Errorf("Resolve() = %v, %v; want nil, ErrNoRegistry", plan, err)
	}
	if plans, err := r.ResolveAll(context.Background(), "A"); !errors.Is(err, ErrNoRegistry) || plans != nil {
		t.Errorf("ResolveAll() = %v, %v; want nil, ErrNoRegistry", plans, err)
	}

	// A resolver with a registry but no config falls back to defaults.
	r = Resolver{registry: mustRegistry(t, ModuleDescriptor{Name: "A"})}
	plans, err := r.ResolveAll(context.Background(), "A")
	if err != nil {
		t.Fatalf("ResolveAll() error = %v", err)
	}
	if !slices.Equal(plans["A"].Order, []string{"A"}) {
		t.Errorf("Order = %v, want [A]", plans["A"].Order)
	}
}

func TestResolve_Order(t *testing.T) {
	tests := []struct {
		name  string
		root  string
		descs []ModuleDescriptor
		want  []string
	}{
		{
			name: "linear chain",
			root: "A",
			descs: []ModuleDescriptor{
				{Name: "A", PublicDependencies: []string{"B"}},
				{Name: "B", PublicDependencies: []string{"C"}},
				{Name: "C"},
			},
			want: []string{"C", "B", "A"},
		},
		{
			name:  "single module",
			root:  "A",
			descs: []ModuleDescriptor{{Name: "A"}},
			want:  []string{"A"},
		},
		{
			name: "diamond appears once",
			root: "A",
			descs: []ModuleDescriptor{
				{Name: "A", PublicDependencies: []string{"B", "C"}},
				{Name: "B", PublicDependencies: []string{"D"}},
				{Name: "C", PublicDependencies: []string{"D"}},
				{Name: "D"},
			},
			want: []string{"D", "B", "C", "A"},
		},
		{
			name: "public before private",
			root: "A",
			descs: []ModuleDescriptor{
				{Name: "A", PublicDependencies: []string{"Pub"}, PrivateDependencies: []string{"Priv"}},
				{Name: "Pub"},
				{Name: "Priv"},
			},
			want: []string{"Pub", "Priv", "A"},
		},
		{
			name: "declaration order kept",
			root: "A",
			descs: []ModuleDescriptor{
				{Name: "A", PublicDependencies: []string{"Z", "M", "B"}},
				{Name: "Z"},
				{Name: "M"},
				{Name: "B"},
			},
			want: []string{"Z", "M", "B", "A"},
		},
		{
			name: "unreachable modules excluded",
			root: "A",
			descs: []ModuleDescriptor{
				{Name: "A", PublicDependencies: []string{"B"}},
				{Name: "B"},
				{Name: "Unrelated", PublicDependencies: []string{"Missing"}},
			},
			want: []string{"B", "A"},
		},
		{
			name: "disabled dependency not resolved",
			root: "A",
			descs: []ModuleDescriptor{
				{Name: "A", PublicDependencies: []string{"B"}, DisabledDependencies: []string{"Missing"}},
				{Name: "B"},
			},
			want: []string{"B", "A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := mustResolve(t, tt.root, tt.descs...)
			if !slices.Equal(plan.Order, tt.want) {
				t.Errorf("Order = %v, want %v", plan.Order, tt.want)
			}
			if plan.Root != tt.root {
				t.Errorf("Root = %q, want %q", plan.Root, tt.root)
			}
			assertTopological(t, plan)
		})
	}
}

// assertTopological checks that every edge points backwards in Order and
// that every module in Order has a descriptor.
func assertTopological(t *testing.T, plan *BuildPlan) {
	t.Helper()
	for _, e := range slices.Concat(plan.PublicEdges, plan.PrivateEdges) {
		if plan.Position(e.To) >= plan.Position(e.From) {
			t.Errorf("edge %s -> %s: dependency does not precede dependent in %v", e.From, e.To, plan.Order)
		}
	}
	if len(plan.Modules) != len(plan.Order) {
		t.Errorf("plan has %d descriptors for %d modules", len(plan.Modules), len(plan.Order))
	}
}

func TestResolve_Edges(t *testing.T) {
	plan := mustResolve(t, "Game",
		ModuleDescriptor{Name: "Game", PublicDependencies: []string{"Engine"}, PrivateDependencies: []string{"Audio"}},
		ModuleDescriptor{Name: "Engine", PublicDependencies: []string{"Core"}},
		ModuleDescriptor{Name: "Audio", PrivateDependencies: []string{"Core"}},
		ModuleDescriptor{Name: "Core"},
	)

	wantPublic := []Edge{{"Game", "Engine"}, {"Engine", "Core"}}
	wantPrivate := []Edge{{"Game", "Audio"}, {"Audio", "Core"}}
	if !reflect.DeepEqual(plan.PublicEdges, wantPublic) {
		t.Errorf("PublicEdges = %v, want %v", plan.PublicEdges, wantPublic)
	}
	if !reflect.DeepEqual(plan.PrivateEdges, wantPrivate) {
		t.Errorf("PrivateEdges = %v, want %v", plan.PrivateEdges, wantPrivate)
	}
	if got := plan.Modules["Game"].PCHMode; got != PCHExplicitOrShared {
		t.Errorf("descriptor in plan not normalized: PCHMode = %q", got)
	}
}

func TestResolve_Disabled(t *testing.T) {
	plan := mustResolve(t, "A",
		ModuleDescriptor{Name: "A", PublicDependencies: []string{"B"}, DisabledDependencies: []string{"C", "Missing"}},
		ModuleDescriptor{Name: "B", DisabledDependencies: []string{"A"}},
		ModuleDescriptor{Name: "C"},
	)

	if plan.Contains("C") {
		t.Error("disabled dependency C should not be in the plan")
	}
	want := []DisabledDependency{
		{Module: "B", Name: "A", Available: true},
		{Module: "A", Name: "C", Available: true},
		{Module: "A", Name: "Missing", Available: false},
	}
	if !reflect.DeepEqual(plan.Disabled, want) {
		t.Errorf("Disabled = %+v, want %+v", plan.Disabled, want)
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name    string
		root    string
		reg     Registry
		wantErr error
	}{
		{
			name: "two-module cycle",
			root: "A",
			reg: mapRegistry{
				"A": {Name: "A", PublicDependencies: []string{"B"}},
				"B": {Name: "B", PublicDependencies: []string{"A"}},
			},
			wantErr: &CyclicDependencyError{Path: []string{"A", "B", "A"}},
		},
		{
			name: "cycle through private edge below the root",
			root: "Root",
			reg: mapRegistry{
				"Root": {Name: "Root", PublicDependencies: []string{"A"}},
				"A":    {Name: "A", PrivateDependencies: []string{"B"}},
				"B":    {Name: "B", PublicDependencies: []string{"C"}},
				"C":    {Name: "C", PrivateDependencies: []string{"A"}},
			},
			wantErr: &CyclicDependencyError{Path: []string{"A", "B", "C", "A"}},
		},
		{
			name: "self dependency in unvalidated registry",
			root: "A",
			reg: mapRegistry{
				"A": {Name: "A", PublicDependencies: []string{"A"}},
			},
			wantErr: &CyclicDependencyError{Path: []string{"A", "A"}},
		},
		{
			name: "missing dependency",
			root: "A",
			reg: mapRegistry{
				"A": {Name: "A", PublicDependencies: []string{"Z"}},
			},
			wantErr: &MissingModuleError{Name: "Z", RequestedBy: "A"},
		},
		{
			name:    "missing root",
			root:    "Nope",
			reg:     mapRegistry{},
			wantErr: &MissingModuleError{Name: "Nope"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewResolver(tt.reg)
			if err != nil {
				t.Fatal(err)
			}
			plan, err := r.Resolve(tt.root)
			if plan != nil {
				t.Errorf("Resolve() returned a partial plan: %+v", plan)
			}
			if !errors.Is(err, ErrResolve) {
				t.Errorf("error should match ErrResolve: %v", err)
			}
			if !reflect.DeepEqual(err, tt.wantErr) {
				t.Errorf("error = %#v, want %#v", err, tt.wantErr)
			}
		})
	}
}

func TestCyclicDependencyError_Message(t *testing.T) {
	err := &CyclicDependencyError{Path: []string{"A", "B", "A"}}
	if got, want := err.Error(), "dependency cycle detected: A -> B -> A"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	descs := []ModuleDescriptor{
		{Name: "Game", PublicDependencies: []string{"Engine", "UI"}, PrivateDependencies: []string{"Net", "Audio"}},
		{Name: "Engine", PublicDependencies: []string{"Core", "Math"}},
		{Name: "UI", PublicDependencies: []string{"Core"}, PrivateDependencies: []string{"Fonts"}},
		{Name: "Net", PublicDependencies: []string{"Core"}},
		{Name: "Audio", PrivateDependencies: []string{"Math"}},
		{Name: "Core"},
		{Name: "Math", PublicDependencies: []string{"Core"}},
		{Name: "Fonts"},
	}

	first := mustResolve(t, "Game", descs...)
	for range 20 {
		// Registration order must not matter either.
		shuffled := slices.Clone(descs)
		slices.Reverse(shuffled)
		again := mustResolve(t, "Game", shuffled...)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("plans differ:\n%+v\n%+v", first, again)
		}
	}
}

func TestResolve_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r, err := NewResolver(mustRegistry(t, ModuleDescriptor{Name: "A"}), WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Resolve("A"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"module resolved", "resolution complete", "root=A"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestResolve_Progress(t *testing.T) {
	var events []ProgressEvent
	reg := mustRegistry(t,
		ModuleDescriptor{Name: "A", PublicDependencies: []string{"B"}},
		ModuleDescriptor{Name: "B"},
	)
	r, err := NewResolver(reg, WithProgress(func(ev ProgressEvent) {
		events = append(events, ev)
	}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Resolve("A"); err != nil {
		t.Fatal(err)
	}

	want := []ProgressEvent{
		{Type: ProgressResolveStart, Root: "A"},
		{Type: ProgressModuleResolved, Root: "A", Module: "B", Depth: 1},
		{Type: ProgressModuleResolved, Root: "A", Module: "A", Depth: 0},
		{Type: ProgressResolveEnd, Root: "A"},
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %+v, want %+v", events, want)
	}
}

func TestResolveAll(t *testing.T) {
	reg := mustRegistry(t,
		ModuleDescriptor{Name: "Game", PublicDependencies: []string{"Core"}},
		ModuleDescriptor{Name: "Editor", PublicDependencies: []string{"Core"}, PrivateDependencies: []string{"Game"}},
		ModuleDescriptor{Name: "Core"},
		ModuleDescriptor{Name: "Broken", PublicDependencies: []string{"Missing"}},
	)

	var mu sync.Mutex
	resolved := 0
	r, err := NewResolver(reg, WithConcurrency(2), WithProgress(func(ev ProgressEvent) {
		if ev.Type == ProgressResolveEnd {
			mu.Lock()
			resolved++
			mu.Unlock()
		}
	}))
	if err != nil {
		t.Fatal(err)
	}

	plans, err := r.ResolveAll(context.Background(), "Game", "Editor", "Core")
	if err != nil {
		t.Fatalf("ResolveAll() error = %v", err)
	}
	if len(plans) != 3 || resolved != 3 {
		t.Fatalf("got %d plans from %d resolutions, want 3", len(plans), resolved)
	}
	if got := plans["Editor"].Order; !slices.Equal(got, []string{"Core", "Game", "Editor"}) {
		t.Errorf("Editor order = %v", got)
	}

	_, err = r.ResolveAll(context.Background(), "Game", "Broken")
	var missing *MissingModuleError
	if !errors.As(err, &missing) || missing.Name != "Missing" {
		t.Errorf("error = %v, want missing module Missing", err)
	}
	if !strings.Contains(err.Error(), "resolve Broken") {
		t.Errorf("error should name the failing root: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.ResolveAll(ctx, "Game"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
