// Package quantbin provides a quantized spatial index for metagenomic binning.
//
// Bins (contigs or partial clusters) are placed on an integer grid derived
// from their composition (GC, HH, CAGA) and per-sample coverage depth. The
// index answers approximate nearest-neighbour queries by probing every grid
// cell of a small search window and letting an external Oracle score the
// clusters found there.
//
// # Quick Start
//
//	cfg := grid.DefaultConfig()
//	idx, err := quantbin.NewSlicedIndex(cfg, quantbin.WithDataScale(samples, len(contigs)))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer idx.Close()
//
//	// Load phase
//	if err := idx.InsertAll(ctx, contigs, 2000); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Query phase
//	m, err := idx.Query(q, idx.Quantizer().Key(q), 2000, 1, oracle)
//	if m.Found() {
//	    fmt.Println(m.Cluster.ID(), m.Score)
//	}
//
// # Layouts
//
// Two physical layouts implement the same Index contract:
//
//   - HashIndex: one 64-way sharded hash map over full keys.
//   - SlicedIndex: a fixed array indexed by GC level, each slot owning the
//     buckets of that level. Empty GC levels are skipped with one atomic load.
//
// Given the same inserts and the same Oracle scores both return the same
// matches; Stats exposes probe and hit counts for comparing them.
//
// # Ordering Invariant
//
// Every bucket keeps its clusters in descending size order. A query stops
// scanning a bucket at the first cluster below its minimum size, so the order
// is maintained on every insert and every merge.
//
// # Concurrency
//
// Inserts, merges and queries may run concurrently. Bucket creation is an
// atomic insert-if-absent; buckets guard their cluster lists with an RWMutex.
// InsertAll and QueryAll fan out over a bounded worker pool. Clear must not
// run concurrently with other operations.
package quantbin
