// Package testutil provides testing utilities for quantbin.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded generator of synthetic microbial communities and
// reference Oracles.
//
// # Synthetic Communities
//
//	rng := testutil.NewRNG(seed)
//	bins := rng.Community(testutil.CommunityConfig{
//	    Genomes: 20, ContigsPerGenome: 50, Samples: 3,
//	})
//
// # Oracles
//
//	testutil.ConstantOracle{Score: 1, Tol: tol}   // every pair matches
//	testutil.NewDistanceOracle(tol)               // closer features score higher
package testutil
