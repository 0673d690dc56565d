// Package benchmarks compares tokendi with go.uber.org/dig and
// github.com/samber/do/v2 on equivalent object graphs.
//
// Run benchmarks with: go test -bench=. -benchmem ./benchmarks/
package benchmarks
