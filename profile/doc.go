// Package profile provides optional runtime profiling for reo.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// pprof build tag:
//
//	go build -tags pprof .
//	reo --pprof-mode=cpu --pprof-dir=/tmp/reo script.reo
//
// Without the tag, [Modes] is empty and [Config.Start] returns a no-op.
package profile
