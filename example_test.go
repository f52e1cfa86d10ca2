package quantbin_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/quantbin"
	"github.com/hupe1980/quantbin/grid"
	"github.com/hupe1980/quantbin/testutil"
)

// Example_query demonstrates loading contigs and querying the neighbourhood
// of a new bin.
func Example_query() {
	idx, err := quantbin.Sliced().KeyType(grid.KeyGCDepth).Build()
	if err != nil {
		log.Fatal(err)
	}
	defer idx.Close()

	bins := []quantbin.Bin{
		&quantbin.Contig{ContigID: 1, GCContent: 0.50, Coverage: []float64{10}, Length: 5000},
		&quantbin.Contig{ContigID: 2, GCContent: 0.51, Coverage: []float64{10}, Length: 4000},
		&quantbin.Contig{ContigID: 3, GCContent: 0.90, Coverage: []float64{10}, Length: 6000},
	}
	if err := idx.InsertAll(context.Background(), bins, 1000); err != nil {
		log.Fatal(err)
	}

	oracle := &testutil.ConstantOracle{Score: 1, Tol: grid.Tolerance{GCDif: 0.05, DepthRatio: 2}}
	q := &quantbin.Contig{ContigID: 100, GCContent: 0.505, Coverage: []float64{10}, Length: 5000}

	m, err := idx.Query(q, idx.Quantizer().Key(q), 1000, 1, oracle)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(m.Cluster.ID(), m.Score)
	// Output: 1 1
}

// Example_addOrMerge demonstrates greedy clustering.
func Example_addOrMerge() {
	idx, err := quantbin.Hash().KeyType(grid.KeyGCHH).Build()
	if err != nil {
		log.Fatal(err)
	}
	defer idx.Close()

	th := quantbin.Thresholds{MinSizeToCompare: 500, MinSizeToMerge: 1000, MinSizeToAdd: 2000}
	oracle := &testutil.ConstantOracle{Score: 1, Tol: grid.Tolerance{GCDif: 0.02, DepthRatio: 1}}

	for _, c := range []*quantbin.Contig{
		{ContigID: 1, GCContent: 0.40, HHRatio: 0.5, Length: 8000},
		{ContigID: 2, GCContent: 0.40, HHRatio: 0.5, Length: 900},
		{ContigID: 3, GCContent: 0.70, HHRatio: 0.5, Length: 3000},
		{ContigID: 4, GCContent: 0.10, HHRatio: 0.5, Length: 200},
	} {
		p, _, err := idx.AddOrMerge(c, th, oracle, 1)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(c.ContigID, p)
	}

	for _, c := range idx.Materialize(true) {
		fmt.Println(c.ID(), c.Len(), c.Size())
	}
	// Output:
	// 1 added
	// 2 merged
	// 3 added
	// 4 residual
	// 1 2 8900
	// 3 1 3000
	// 4 1 200
}

// Example_autoKeyType shows how the key type follows the data scale.
func Example_autoKeyType() {
	for _, scale := range [][2]int{{0, 1000}, {1, 1000}, {3, 50_000}, {3, 500_000}} {
		fmt.Println(grid.SelectKeyType(scale[0], scale[1]))
	}
	// Output:
	// gchhcaga
	// gchhdepth
	// gchhdepth2
	// gchhdepth3
}
