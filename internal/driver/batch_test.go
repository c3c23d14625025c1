package driver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"recoil/internal/decompile"
	"recoil/internal/diag"
	"recoil/internal/ir"
	"recoil/internal/metadata"
	"recoil/internal/stmt"
	"recoil/internal/typesys"
)

func moduleClosure(m *metadata.StaticModule) *typesys.Closure {
	return &typesys.Closure{Root: m}
}

type scriptedReader struct {
	fail map[metadata.MethodHandle]error
}

func (r scriptedReader) Read(ctx context.Context, handle metadata.MethodHandle, settings ir.Settings) (*ir.Function, error) {
	if err := r.fail[handle]; err != nil {
		return nil, err
	}
	return &ir.Function{Handle: handle}, nil
}

type emptyBuilder struct{}

func (emptyBuilder) BuildBlock(body any) (*stmt.Block, []stmt.Warning, error) {
	return &stmt.Block{}, nil, nil
}

func batchModule(n int) *metadata.StaticModule {
	m := &metadata.StaticModule{ModName: "App"}
	for i := 1; i <= n; i++ {
		m.AddMethod(&metadata.MethodDef{
			Handle:  metadata.MethodHandle(0x06000000 + i),
			Name:    fmt.Sprintf("M%d", i),
			HasBody: true,
			Return:  metadata.PlainTypeRef(metadata.TypeName{Namespace: "System", Name: "Void"}),
		})
	}
	return m
}

func TestDecompileModuleIsolatesFailures(t *testing.T) {
	module := batchModule(4)
	bad := metadata.MethodHandle(0x06000002)
	orch := &decompile.Orchestrator{
		TypeSystem: moduleClosure(module),
		Reader: scriptedReader{fail: map[metadata.MethodHandle]error{
			bad: errors.New("bad header"),
		}},
		Builder: emptyBuilder{},
	}

	results, bag, err := DecompileModule(context.Background(), orch, module, 100, 2, nil)
	if err != nil {
		t.Fatalf("per-method failures must not fail the batch: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected a slot per method, got %d", len(results))
	}
	for i, r := range results {
		want := module.MethodHandles()[i]
		if r.Handle != want {
			t.Fatalf("results must keep module method order: slot %d has 0x%08x", i, uint32(r.Handle))
		}
		if r.Handle == bad {
			if r.Err == nil {
				t.Fatalf("failed method should record its error")
			}
			continue
		}
		if r.Err != nil || r.Result == nil {
			t.Fatalf("sibling 0x%08x should succeed, got %v", uint32(r.Handle), r.Err)
		}
	}

	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.DecMethodFailed || d.Method != bad || d.Module != "App" {
		t.Fatalf("diagnostic should tag the failing method, got %+v", d)
	}
}

func TestDecompileModuleCancellation(t *testing.T) {
	module := batchModule(3)
	orch := &decompile.Orchestrator{
		TypeSystem: moduleClosure(module),
		Reader:     scriptedReader{},
		Builder:    emptyBuilder{},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, bag, err := DecompileModule(ctx, orch, module, 100, 2, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("cancellation should surface from the batch, got %v", err)
	}
	for _, d := range bag.Items() {
		if d.Code != diag.DecCancelled {
			t.Fatalf("cancelled methods should report DecCancelled, got %+v", d)
		}
	}
}

func TestDecompileModuleEmpty(t *testing.T) {
	module := &metadata.StaticModule{ModName: "Empty"}
	results, bag, err := DecompileModule(context.Background(), nil, module, 100, 4, nil)
	if err != nil || len(results) != 0 || bag.Len() != 0 {
		t.Fatalf("empty module should short-circuit, got %d results, %d diags, %v", len(results), bag.Len(), err)
	}
}

func TestDecompileModuleEvents(t *testing.T) {
	module := batchModule(2)
	orch := &decompile.Orchestrator{
		TypeSystem: moduleClosure(module),
		Reader:     scriptedReader{},
		Builder:    emptyBuilder{},
	}

	events := make(chan Event, 16)
	_, _, err := DecompileModule(context.Background(), orch, module, 100, 1, events)
	if err != nil {
		t.Fatalf("DecompileModule: %v", err)
	}
	close(events)

	perMethod := make(map[string][]Status)
	for ev := range events {
		perMethod[ev.Method] = append(perMethod[ev.Method], ev.Status)
	}
	if len(perMethod) != 2 {
		t.Fatalf("expected events for both methods, got %v", perMethod)
	}
	for name, statuses := range perMethod {
		if len(statuses) != 2 || statuses[0] != StatusWorking || statuses[1] != StatusDone {
			t.Fatalf("%s: expected working then done, got %v", name, statuses)
		}
	}
}

func TestDecompileModuleSurvivesDepartedObserver(t *testing.T) {
	module := batchModule(8)
	orch := &decompile.Orchestrator{
		TypeSystem: moduleClosure(module),
		Reader:     scriptedReader{},
		Builder:    emptyBuilder{},
	}

	// Nobody ever reads this channel, as when the progress view exits
	// before the batch does. The batch must still run to completion.
	events := make(chan Event)
	results, _, err := DecompileModule(context.Background(), orch, module, 100, 2, events)
	if err != nil {
		t.Fatalf("DecompileModule: %v", err)
	}
	if len(results) != 8 {
		t.Fatalf("expected a slot per method, got %d", len(results))
	}
	for _, r := range results {
		if r.Err != nil || r.Result == nil {
			t.Fatalf("0x%08x should finish despite the dropped events, got %v", uint32(r.Handle), r.Err)
		}
	}
}

func TestMethodLabel(t *testing.T) {
	owner := &metadata.TypeDef{Name: metadata.TypeName{Namespace: "App", Name: "C"}}
	module := &metadata.StaticModule{ModName: "App"}
	module.AddMethod(&metadata.MethodDef{Handle: 0x06000001, Name: "Run", DeclaringType: owner})

	if got := methodLabel(module, 0x06000001); got != "App.C.Run" {
		t.Fatalf("methodLabel = %q", got)
	}
	if got := methodLabel(module, 0x060000FF); got != "0x060000ff" {
		t.Fatalf("unknown handle should render as a token, got %q", got)
	}
}
