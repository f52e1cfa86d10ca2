package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/quantbin"
	"github.com/hupe1980/quantbin/grid"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns, as an int, a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// CommunityConfig describes a synthetic community.
type CommunityConfig struct {
	Genomes          int
	ContigsPerGenome int
	Samples          int
	// MinLength and MaxLength bound contig lengths (log-uniform).
	MinLength, MaxLength int64
	// Noise is the standard deviation of composition features around the
	// genome centroid. Coverage varies by the same relative amount.
	Noise float64
	// FirstID is the ID of the first contig.
	FirstID uint32
}

func (c CommunityConfig) withDefaults() CommunityConfig {
	if c.Genomes <= 0 {
		c.Genomes = 10
	}
	if c.ContigsPerGenome <= 0 {
		c.ContigsPerGenome = 20
	}
	if c.MinLength <= 0 {
		c.MinLength = 500
	}
	if c.MaxLength < c.MinLength {
		c.MaxLength = 200_000
	}
	if c.Noise <= 0 {
		c.Noise = 0.005
	}
	return c
}

// Community generates contigs drawn from Genomes distinct genomes. Each
// genome has its own GC, HH, CAGA and per-sample abundance; contigs scatter
// around it. Contigs of genome g carry IDs in
// [FirstID + g*ContigsPerGenome, FirstID + (g+1)*ContigsPerGenome).
func (r *RNG) Community(cfg CommunityConfig) []*quantbin.Contig {
	cfg = cfg.withDefaults()

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*quantbin.Contig, 0, cfg.Genomes*cfg.ContigsPerGenome)
	id := cfg.FirstID
	for range cfg.Genomes {
		gc := 0.25 + r.rand.Float64()*0.5
		hh := 0.2 + r.rand.Float64()*0.6
		caga := 0.2 + r.rand.Float64()*0.6
		abundance := make([]float64, cfg.Samples)
		for s := range abundance {
			abundance[s] = math.Exp(r.rand.Float64() * 7)
		}

		for range cfg.ContigsPerGenome {
			cov := make([]float64, cfg.Samples)
			for s := range cov {
				cov[s] = math.Max(0, abundance[s]*(1+r.rand.NormFloat64()*cfg.Noise*4))
			}
			out = append(out, &quantbin.Contig{
				ContigID:  id,
				GCContent: clamp01(gc + r.rand.NormFloat64()*cfg.Noise),
				HHRatio:   clamp01(hh + r.rand.NormFloat64()*cfg.Noise),
				CAGARatio: clamp01(caga + r.rand.NormFloat64()*cfg.Noise),
				Coverage:  cov,
				Length:    r.logUniform(cfg.MinLength, cfg.MaxLength),
			})
			id++
		}
	}
	r.rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func (r *RNG) logUniform(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	a, b := math.Log(float64(lo)), math.Log(float64(hi))
	return int64(math.Round(math.Exp(a + r.rand.Float64()*(b-a))))
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

// Bins converts contigs to the Bin interface.
func Bins(contigs []*quantbin.Contig) []quantbin.Bin {
	out := make([]quantbin.Bin, len(contigs))
	for i, c := range contigs {
		out[i] = c
	}
	return out
}

// ConstantOracle scores every pair with the same value.
type ConstantOracle struct {
	Score float64
	Tol   grid.Tolerance
	// Calls counts Similarity calls since the last Clear.
	Calls int
}

var _ quantbin.Oracle = (*ConstantOracle)(nil)

func (o *ConstantOracle) Clear() { o.Calls = 0 }

func (o *ConstantOracle) Similarity(quantbin.Bin, *quantbin.Cluster, float64) float64 {
	o.Calls++
	return o.Score
}

func (o *ConstantOracle) Tolerances() grid.Tolerance { return o.Tol }

// DistanceOracle scores candidates by closeness in composition and log
// coverage: 1 / (1 + d). Distinct feature vectors rarely tie.
type DistanceOracle struct {
	Tol grid.Tolerance
}

var _ quantbin.Oracle = (*DistanceOracle)(nil)

// NewDistanceOracle returns a DistanceOracle with the given tolerances.
func NewDistanceOracle(tol grid.Tolerance) *DistanceOracle {
	return &DistanceOracle{Tol: tol}
}

func (o *DistanceOracle) Clear() {}

func (o *DistanceOracle) Similarity(q quantbin.Bin, c *quantbin.Cluster, _ float64) float64 {
	d := math.Abs(q.GC()-c.GC())*10 + math.Abs(q.HH()-c.HH())*5 + math.Abs(q.CAGA()-c.CAGA())*5
	n := min(q.NumDepths(), c.NumDepths())
	for i := range n {
		d += math.Abs(math.Log2(q.Depth(i)+1) - math.Log2(c.Depth(i)+1))
	}
	return 1 / (1 + d)
}

func (o *DistanceOracle) Tolerances() grid.Tolerance { return o.Tol }
