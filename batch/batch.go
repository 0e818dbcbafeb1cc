// Package batch interleaves many independent geometry containers
// concurrently.
//
// Each container still has a single writer: a container must appear at
// most once per call, and callers must not touch the containers until the
// call returns.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/meshbuf"
	"github.com/gogpu/meshbuf/layout"
)

// ErrDuplicate is returned when the same container appears twice, which
// would give it two concurrent writers.
var ErrDuplicate = errors.New("batch: container listed twice")

// ErrNil is returned for nil containers.
var ErrNil = errors.New("batch: nil container")

// Each runs fn on every container with at most limit goroutines
// (GOMAXPROCS if limit <= 0). The first error cancels the context passed
// to the remaining calls and is returned with the container's position.
func Each(ctx context.Context, geoms []*meshbuf.Geometry, limit int, fn func(context.Context, *meshbuf.Geometry) error) error {
	seen := make(map[*meshbuf.Geometry]int, len(geoms))
	for i, g := range geoms {
		if g == nil {
			return fmt.Errorf("%w at %d", ErrNil, i)
		}
		if j, ok := seen[g]; ok {
			return fmt.Errorf("%w: positions %d and %d", ErrDuplicate, j, i)
		}
		seen[g] = i
	}
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, g := range geoms {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			if err := fn(egCtx, g); err != nil {
				return fmt.Errorf("container %d (%s): %w", i, g.Label(), err)
			}
			return nil
		})
	}
	return eg.Wait()
}

// Interleave packs every container with the same request.
func Interleave(ctx context.Context, geoms []*meshbuf.Geometry, r layout.Request, limit int) error {
	err := Each(ctx, geoms, limit, func(_ context.Context, g *meshbuf.Geometry) error {
		return g.InterleaveWith(r)
	})
	meshbuf.Logger().Debug("batch: interleave",
		slog.Int("containers", len(geoms)),
		slog.Int("limit", limit),
		slog.Bool("ok", err == nil))
	return err
}
