// Package arrowimport implements the Arrow-import shims: the glue that
// turns an incoming Arrow chunked array into this module's own
// in-band-null columnar representation, reading an arrow.Array's values
// and validity bitmap directly; the per-chunk fan-out runs one goroutine
// per chunk through golang.org/x/sync/errgroup, with no limit on how many
// run at once.
package arrowimport
