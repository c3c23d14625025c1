// Package decompile sequences the per-method translation pipeline:
// read the instruction representation, annotate the declaration, run
// the ordered transform list, build the statement tree, and derive
// debug info. Methods without a translatable body get a synthesized
// minimal stub instead.
package decompile

import (
	"context"
	"errors"
	"fmt"

	"recoil/internal/metadata"
)

// Error wraps any non-cancellation failure during one method's
// translation, tagged with the originating method. Cancellation is
// never wrapped so callers can tell "aborted" from "broken input".
type Error struct {
	Method metadata.MethodHandle
	Cause  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("error decompiling method 0x%08x: %v", uint32(e.Method), e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// isCancellation reports whether err is cooperative cancellation and
// must propagate verbatim.
func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// wrap applies the propagation policy for one method.
func wrap(method metadata.MethodHandle, err error) error {
	if err == nil || isCancellation(err) {
		return err
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Method: method, Cause: err}
}
