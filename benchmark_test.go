package quantbin_test

import (
	"fmt"
	"testing"

	"github.com/hupe1980/quantbin"
	"github.com/hupe1980/quantbin/grid"
	"github.com/hupe1980/quantbin/testutil"
)

func benchCommunity(n int) []quantbin.Bin {
	rng := testutil.NewRNG(99)
	return testutil.Bins(rng.Community(testutil.CommunityConfig{
		Genomes:          n / 200,
		ContigsPerGenome: 200,
		Samples:          3,
		Noise:            0.01,
	}))
}

func BenchmarkInsertAll(b *testing.B) {
	bins := benchCommunity(20_000)

	for _, layout := range layouts {
		b.Run(string(layout), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				b.StopTimer()
				idx, err := quantbin.New(layout, withKeyType(grid.KeyGCHHDepth2))
				if err != nil {
					b.Fatal(err)
				}
				b.StartTimer()
				if err := idx.InsertAll(b.Context(), bins, 0); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkQuery compares both layouts across key types and radii.
func BenchmarkQuery(b *testing.B) {
	bins := benchCommunity(20_000)
	oracle := testutil.NewDistanceOracle(grid.Tolerance{GCDif: 0.03, DepthRatio: 1.8})

	for _, kt := range []grid.KeyType{grid.KeyGCHHCAGA, grid.KeyGCHHDepth, grid.KeyGCHHDepth3} {
		for _, radius := range []int{1, 3} {
			for _, layout := range layouts {
				b.Run(fmt.Sprintf("%s/r%d/%s", kt, radius, layout), func(b *testing.B) {
					idx, err := quantbin.New(layout, withKeyType(kt))
					if err != nil {
						b.Fatal(err)
					}
					if err := idx.InsertAll(b.Context(), bins, 0); err != nil {
						b.Fatal(err)
					}

					b.ReportAllocs()
					b.ResetTimer()
					i := 0
					for b.Loop() {
						q := bins[i%len(bins)]
						if _, err := idx.Query(q, idx.Quantizer().Key(q), 1000, radius, oracle); err != nil {
							b.Fatal(err)
						}
						i++
					}
					s := idx.Stats()
					b.ReportMetric(float64(s.Probes)/float64(max(s.Queries, 1)), "probes/op")
					b.ReportMetric(s.HitRatio(), "hit-ratio")
				})
			}
		}
	}
}

func withKeyType(kt grid.KeyType) grid.Config {
	cfg := grid.DefaultConfig()
	cfg.KeyType = kt
	return cfg
}
