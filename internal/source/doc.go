// Package source defines the per-site adapters that feed the aggregator.
//
// One generic BracketSource, parameterized by a Definition, replaces the
// per-state parsing code that heterogeneous sources would otherwise each
// need: round terminology, division URLs, sectionals, and score bounds are
// declared in the registry (built-in defaults plus an optional YAML file),
// and the shared bracket parser does the rest.
package source
