package registry

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/thoreinstein/attest/internal/errors"
	"github.com/thoreinstein/attest/internal/logging"
	"github.com/thoreinstein/attest/internal/validator"
)

// Input is one record for ValidateAll.
type Input struct {
	// Source labels the record in issues, e.g. a file path.
	Source string
	// Type selects the bindings. Empty means the record's Go type.
	Type  string
	Value any
}

// ValidateAll validates inputs concurrently and merges their issues in input
// order. The first error cancels the remaining work and is returned, wrapped
// with the failing input's source.
func (r *Registry) ValidateAll(ctx context.Context, inputs []Input) (*validator.Result, error) {
	results := make([]*validator.Result, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, in := range inputs {
		g.Go(func() error {
			var (
				res *validator.Result
				err error
			)
			if in.Type != "" {
				res, err = r.ValidateAs(gctx, in.Type, in.Value)
			} else {
				res, err = r.Validate(gctx, in.Value)
			}
			if err != nil {
				return errors.Wrapf(err, "validating %s", label(in, i))
			}
			for j := range res.Issues {
				res.Issues[j].Source = in.Source
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &validator.Result{}
	for _, res := range results {
		merged.Merge(res)
	}
	logging.FromContext(ctx).Debug("validated records",
		"records", len(inputs), "errors", len(merged.Errors()), "warnings", len(merged.Warnings()))
	return merged, nil
}

func label(in Input, i int) string {
	if in.Source != "" {
		return in.Source
	}
	return fmt.Sprintf("record %d", i)
}
