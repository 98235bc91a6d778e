// Package statsview is an optional package that is only functional when
// built with the statsview tag.
//
// It serves live runtime charts (heap, goroutines, GC pauses) over HTTP
// using github.com/go-echarts/statsview, by default at:
//
//	localhost:12600/debug/statsview
//
// The standard pprof handlers are available under /debug/pprof/ on the
// same address.
package statsview

// DefaultAddress is used when no address is configured.
const DefaultAddress = "localhost:12600"

const path = "/debug/statsview"
