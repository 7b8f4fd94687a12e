// Package testutil provides testing utilities for descgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random descriptor vectors and keys.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	vec := make([]float32, 64)
//	rng.FillUniform(vec)           // uniform [0, 1)
//	vecs := rng.UniformVectors(5, 64)
//
// # Random Keys
//
//	key := testutil.RandomKey()
package testutil
