// Package harness runs conformance scenarios against the rewriting
// engine.
//
// A scenario is a YAML file naming an ordered list of rule statements,
// an input context, an optional step budget, and assertions over the
// outcome. Scenarios execute through the real compile/ruleset/engine
// path and their traces can be pinned with golden files
// (testdata/golden/<name>.golden, regenerated with `go test -update`).
package harness
