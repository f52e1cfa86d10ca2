package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hupe1980/quantbin"
	"github.com/hupe1980/quantbin/grid"
	"github.com/hupe1980/quantbin/prom"
	"github.com/hupe1980/quantbin/testutil"
)

type runOptions struct {
	genomes     int
	perGenome   int
	samples     int
	noise       float64
	seed        int64
	keyType     string
	layouts     []string
	minSize     int64
	compareSize int64
	radius      int
	queries     int
	workers     int
	gcDif       float64
	depthRatio  float64
	metricsFile string
}

// LayoutReport holds the results of one layout.
type LayoutReport struct {
	Layout    quantbin.Layout `yaml:"layout"`
	Workers   int             `yaml:"workers"`
	LoadTime  time.Duration   `yaml:"load_time"`
	QueryTime time.Duration   `yaml:"query_time"`
	Buckets   int             `yaml:"buckets"`
	Clusters  int             `yaml:"clusters"`
	Residual  int             `yaml:"residual"`
	Strata    int             `yaml:"strata"`
	Probes    int64           `yaml:"probes"`
	Hits      int64           `yaml:"hits"`
	HitRatio  float64         `yaml:"hit_ratio"`
	Found     int             `yaml:"found"`

	matches []quantbin.Match
}

// Report is the YAML output of the run command.
type Report struct {
	KeyType   grid.KeyType   `yaml:"key_type"`
	Contigs   int            `yaml:"contigs"`
	Queries   int            `yaml:"queries"`
	Layouts   []LayoutReport `yaml:"layouts"`
	Agreement *float64       `yaml:"agreement,omitempty"`
}

func newRunCmd(g *globalFlags) *cobra.Command {
	o := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load a synthetic community and compare the layouts",
		Example: `  quantbin-bench run --genomes 50 --contigs-per-genome 400 --samples 3
  quantbin-bench run --layout sliced --key-type gchhdepth2 --radius 2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd.Context(), cmd, g, o)
		},
	}

	f := cmd.Flags()
	f.IntVar(&o.genomes, "genomes", 20, "Number of genomes in the community")
	f.IntVar(&o.perGenome, "contigs-per-genome", 200, "Contigs per genome")
	f.IntVar(&o.samples, "samples", 2, "Number of coverage samples")
	f.Float64Var(&o.noise, "noise", 0.01, "Feature noise around each genome")
	f.Int64Var(&o.seed, "seed", 42, "Random seed")
	f.StringVar(&o.keyType, "key-type", "", "Override the configured key type")
	f.StringSliceVar(&o.layouts, "layout", []string{string(quantbin.LayoutHash), string(quantbin.LayoutSliced)}, "Layouts to run")
	f.Int64Var(&o.minSize, "min-size", 1000, "Smallest contig to index; smaller ones go to the residual list")
	f.Int64Var(&o.compareSize, "min-size-to-compare", 1000, "Smallest cluster a query scores")
	f.IntVar(&o.radius, "radius", 1, "Search radius in grid levels")
	f.IntVar(&o.queries, "queries", 0, "Number of queries (0 = every contig)")
	f.IntVar(&o.workers, "workers", 0, "Batch workers (0 = GOMAXPROCS)")
	f.Float64Var(&o.gcDif, "gc-dif", 0.03, "Oracle GC tolerance")
	f.Float64Var(&o.depthRatio, "depth-ratio", 1.8, "Oracle depth ratio tolerance")
	f.StringVar(&o.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")

	return cmd
}

func runBench(ctx context.Context, cmd *cobra.Command, g *globalFlags, o *runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if o.keyType != "" {
		kt, err := grid.ParseKeyType(o.keyType)
		if err != nil {
			return err
		}
		cfg.KeyType = kt
	}
	logger, err := g.logger()
	if err != nil {
		return err
	}

	rng := testutil.NewRNG(o.seed)
	contigs := rng.Community(testutil.CommunityConfig{
		Genomes:          o.genomes,
		ContigsPerGenome: o.perGenome,
		Samples:          o.samples,
		Noise:            o.noise,
	})
	bins := testutil.Bins(contigs)
	queries := bins
	if o.queries > 0 && o.queries < len(bins) {
		queries = bins[:o.queries]
	}
	tol := grid.Tolerance{GCDif: o.gcDif, DepthRatio: o.depthRatio}

	reg := prometheus.NewRegistry()
	collector := prom.NewCollector(reg, "quantbin")

	report := Report{Contigs: len(bins), Queries: len(queries)}
	for _, name := range o.layouts {
		idx, err := quantbin.New(quantbin.Layout(name), cfg,
			quantbin.WithDataScale(o.samples, len(bins)),
			quantbin.WithWorkers(o.workers),
			quantbin.WithLogger(logger),
			quantbin.WithMetricsCollector(collector),
		)
		if err != nil {
			return err
		}
		lr, err := benchLayout(ctx, idx, bins, queries, o, tol)
		_ = idx.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		report.KeyType = idx.Quantizer().KeyType()
		report.Layouts = append(report.Layouts, lr)
	}

	if len(report.Layouts) == 2 {
		a := agreement(report.Layouts[0].matches, report.Layouts[1].matches)
		report.Agreement = &a
	}

	if o.metricsFile != "" {
		if err := prometheus.WriteToTextfile(o.metricsFile, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	return writeYAML(cmd, report)
}

func benchLayout(ctx context.Context, idx quantbin.Index, bins, queries []quantbin.Bin, o *runOptions, tol grid.Tolerance) (LayoutReport, error) {
	start := time.Now()
	if err := idx.InsertAll(ctx, bins, o.minSize); err != nil {
		return LayoutReport{}, err
	}
	loadTime := time.Since(start)

	start = time.Now()
	matches, err := idx.QueryAll(ctx, queries, o.compareSize, o.radius, func() quantbin.Oracle {
		return testutil.NewDistanceOracle(tol)
	})
	if err != nil {
		return LayoutReport{}, err
	}
	queryTime := time.Since(start)

	s := idx.Stats()
	lr := LayoutReport{
		Layout:    s.Layout,
		Workers:   s.Workers,
		LoadTime:  loadTime,
		QueryTime: queryTime,
		Buckets:   s.Buckets,
		Clusters:  s.Clusters,
		Residual:  s.Residual,
		Strata:    s.Strata,
		Probes:    s.Probes,
		Hits:      s.Hits,
		HitRatio:  s.HitRatio(),
		matches:   matches,
	}
	for _, m := range matches {
		if m.Found() {
			lr.Found++
		}
	}
	return lr, nil
}

// agreement returns the fraction of queries for which both layouts returned
// the same cluster ID (or both returned nothing).
func agreement(a, b []quantbin.Match) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	same := 0
	for i := range a {
		switch {
		case a[i].Found() != b[i].Found():
		case !a[i].Found() || a[i].Cluster.ID() == b[i].Cluster.ID():
			same++
		}
	}
	return float64(same) / float64(len(a))
}
