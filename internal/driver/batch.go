// Package driver runs the front end over whole modules: it fans the
// per-method orchestrator out across worker goroutines and gathers
// results and diagnostics without letting one broken method abort its
// siblings.
package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"recoil/internal/decompile"
	"recoil/internal/diag"
	"recoil/internal/metadata"
)

// Status is the lifecycle of one method in the batch.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event reports one method's status change to an observer (the TUI).
type Event struct {
	Method string
	Status Status
}

// MethodResult is one method's outcome within a batch.
type MethodResult struct {
	Handle metadata.MethodHandle
	Name   string
	Result *decompile.Result
	Err    error
}

// methodLabel renders a stable display name for events and diagnostics.
func methodLabel(module metadata.Module, h metadata.MethodHandle) string {
	if def := module.MethodByHandle(h); def != nil {
		if def.DeclaringType != nil {
			return def.DeclaringType.Name.String() + "." + def.Name
		}
		return def.Name
	}
	return fmt.Sprintf("0x%08x", uint32(h))
}

// DecompileModule translates every method of module in parallel.
// Results keep the module's method order regardless of completion
// order. Per-method failures land in the result slice and the bag;
// only cancellation stops the batch early and is returned as an error.
func DecompileModule(ctx context.Context, orch *decompile.Orchestrator, module metadata.Module, maxDiagnostics, jobs int, events chan<- Event) ([]MethodResult, *diag.Bag, error) {
	handles := module.MethodHandles()
	results := make([]MethodResult, len(handles))
	bag := diag.NewBag(maxDiagnostics)
	if len(handles) == 0 {
		return results, bag, nil
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Events are best-effort: a stalled or departed observer loses
	// updates rather than stalling the workers.
	emit := func(ev Event) {
		if events == nil {
			return
		}
		select {
		case events <- ev:
		default:
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(handles)))

	for i, handle := range handles {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			label := methodLabel(module, handle)
			emit(Event{Method: label, Status: StatusWorking})

			res, err := orch.Decompile(gctx, handle)
			// Index i is unique per goroutine, no mutex needed.
			results[i] = MethodResult{Handle: handle, Name: label, Result: res, Err: err}

			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					emit(Event{Method: label, Status: StatusError})
					return err
				}
				emit(Event{Method: label, Status: StatusError})
				return nil
			}
			emit(Event{Method: label, Status: StatusDone})
			return nil
		})
	}

	err := g.Wait()

	for _, r := range results {
		if r.Err == nil {
			continue
		}
		code := diag.DecMethodFailed
		if errors.Is(r.Err, context.Canceled) || errors.Is(r.Err, context.DeadlineExceeded) {
			code = diag.DecCancelled
		}
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     code,
			Message:  r.Err.Error(),
			Module:   module.Name(),
			Method:   r.Handle,
		})
	}
	bag.Sort()
	return results, bag, err
}
