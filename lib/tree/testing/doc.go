// Package testing provides standardised tests and benchmarks for
// tree store implementations that satisfy the tree.ITree interface.
//
// The package contains:
//   - tree_testing: A test suite for validating conformance to the ITree contract
//   - tree_benchmarks: Performance tests for the operations used by the YCSB harness
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func() tree.ITree {
//		return NewMyTree()
//	}
//
//	// Running the standard test suite
//	treetesting.RunTreeTests(t, "MyTree", factory)
//
//	// Running performance benchmarks
//	treetesting.RunTreeBenchmarks(b, "MyTree", factory)
package testing
