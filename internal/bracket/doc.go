// Package bracket parses flattened tournament-bracket text into game records.
//
// The bracket package implements a single-pass, line-oriented scanner over
// text extracted upstream from an HTML or PDF bracket page. It tracks the
// current sectional, round, date, time, and location from interleaved header
// lines, pairs each score line with the two most recently seen seed+team
// lines, and guards emission against self-games, out-of-range scores, and
// twice-rendered games. One parameterized parser serves every source;
// per-source variation lives entirely in the Config.
package bracket
