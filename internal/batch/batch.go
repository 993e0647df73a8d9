// Package batch runs a conversion over many inputs on a bounded number of
// goroutines and returns the results in input order.
package batch

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/openenc/internal/debug"
	encerrors "github.com/standardbeagle/openenc/internal/errors"
)

// Options controls a Map call.
type Options struct {
	// Limit caps concurrent calls to fn. <= 0 means runtime.NumCPU().
	Limit int
	// KeepGoing runs every input even after failures and reports them all
	// in a *errors.MultiError. Otherwise the first failure cancels the rest.
	KeepGoing bool
}

// Func converts a single input.
type Func[In, Out any] func(ctx context.Context, in In) (Out, error)

// Map applies fn to every input. out[i] always corresponds to inputs[i];
// entries whose call failed or never ran hold the zero value. A failing call
// is reported as an *errors.ItemError naming its index; cancelling ctx ends
// the run with ctx.Err().
func Map[In, Out any](ctx context.Context, inputs []In, opts Options, fn Func[In, Out]) ([]Out, error) {
	out := make([]Out, len(inputs))
	if len(inputs) == 0 {
		return out, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	debug.LogBatch("mapping %d inputs with %d workers (keep going: %v)\n", len(inputs), limit, opts.KeepGoing)

	if opts.KeepGoing {
		return out, mapAll(ctx, inputs, out, limit, fn)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range inputs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := fn(gctx, inputs[i])
			if err != nil {
				return encerrors.NewItemError(i, describe(inputs[i]), err)
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	// the parent may have been cancelled before any worker noticed
	return out, ctx.Err()
}

func mapAll[In, Out any](ctx context.Context, inputs []In, out []Out, limit int, fn Func[In, Out]) error {
	errs := make([]error, len(inputs))

	var g errgroup.Group
	g.SetLimit(limit)
	for i := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = encerrors.NewItemError(i, describe(inputs[i]), err)
				return nil
			}
			v, err := fn(ctx, inputs[i])
			if err != nil {
				errs[i] = encerrors.NewItemError(i, describe(inputs[i]), err)
				return nil
			}
			out[i] = v
			return nil
		})
	}
	_ = g.Wait()

	return encerrors.NewMultiError(errs).ErrorOrNil()
}

// describe renders an input for error messages, cut to a readable length.
func describe(in any) string {
	const maxLen = 64
	s := fmt.Sprint(in)
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
