// Package async runs bounded fan-outs that report every failure instead of the first.
package async

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

type Errors struct {
	E []error
}

var _ error = (*Errors)(nil)

func (e Errors) Wrapped() error {
	if len(e.E) == 0 {
		return nil
	}
	return e
}

func (e Errors) Unwrap() []error {
	return e.E
}

func (e Errors) Error() string {
	var sb strings.Builder
	l := len(e.E)
	for i, err := range e.E {
		sb.WriteString(err.Error())
		if i < l-1 {
			sb.WriteString(", ")
		}
	}
	return sb.String()
}

// Map applies f to every element of src with at most concurrencyLimit calls in flight.
// Results keep the order of src. Failed elements leave a zero value behind and their
// errors are returned together as Errors. A non-positive limit means no limit.
func Map[T any, D any](ctx context.Context, src []T, concurrencyLimit int, f func(context.Context, T) (D, error)) ([]D, error) {
	results := make([]D, len(src))
	if len(src) == 0 {
		return results, nil
	}

	if concurrencyLimit <= 0 {
		concurrencyLimit = len(src)
	}

	var (
		mu   sync.Mutex
		errs Errors
	)

	g := errgroup.Group{}
	g.SetLimit(concurrencyLimit)
	for i, element := range src {
		i, element := i, element
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				mu.Lock()
				errs.E = append(errs.E, err)
				mu.Unlock()
				return nil
			}

			r, err := f(ctx, element)
			if err != nil {
				mu.Lock()
				errs.E = append(errs.E, err)
				mu.Unlock()
				return nil
			}
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()

	return results, errs.Wrapped()
}

// Each is Map for functions without a result.
func Each[T any](ctx context.Context, src []T, concurrencyLimit int, f func(context.Context, T) error) error {
	_, err := Map(ctx, src, concurrencyLimit, func(ctx context.Context, el T) (struct{}, error) {
		return struct{}{}, f(ctx, el)
	})
	return err
}
