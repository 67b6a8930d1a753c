package importer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/cosmogony-cities/internal/domain"
)

// renderChunk is swapped in tests to simulate a failing worker.
var renderChunk = Render

// Dispatch renders every chunk on at most workers goroutines. Batches come back
// ordered by chunk position whatever the completion order; empty chunks are dropped.
// A panicking worker aborts the whole dispatch with a *RenderError.
func Dispatch(ctx context.Context, table string, chunks [][]domain.AdministrativeRegion, workers int) ([]domain.InsertBatch, error) {
	if workers < 1 {
		workers = 1
	}

	rendered := make([]domain.InsertBatch, len(chunks))
	present := make([]bool, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for seq, chunk := range chunks {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &RenderError{Seq: seq, Rows: len(chunk), Cause: r}
				}
			}()

			if err := ctx.Err(); err != nil {
				return err
			}
			rendered[seq], present[seq] = renderChunk(table, seq, chunk)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	batches := make([]domain.InsertBatch, 0, len(chunks))
	for seq, batch := range rendered {
		if present[seq] {
			batches = append(batches, batch)
		}
	}
	return batches, nil
}
