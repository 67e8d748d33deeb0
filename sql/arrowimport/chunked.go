package arrowimport

import (
	"golang.org/x/sync/errgroup"

	"github.com/apache/arrow/go/v14/arrow"

	"github.com/heavyql/qkernel/sql/types"
)

// ReplaceNullValuesChunked runs ReplaceNullValues over every chunk of an
// Arrow chunked array concurrently, one goroutine per chunk. Grounded on sql/codegen's
// BuildInBitmap, which fans out over disjoint slices with
// golang.org/x/sync/errgroup rather than a native work-stealing pool.
func ReplaceNullValuesChunked(chunks []arrow.Array, target types.Type) [][]any {
	out := make([][]any, len(chunks))
	var g errgroup.Group
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			out[i] = ReplaceNullValues(chunk, target)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
