// Package game defines the common schema that every source adapter emits into.
//
// The game package handles game representation, identification, and change
// detection through snapshot-based diffing. Each game carries a deterministic
// ID synthesized from its tournament year, division, sectional, and canonical
// team IDs, enabling reliable tracking across runs, plus a composite
// deduplication key used within a single parse to drop twice-rendered games.
package game
