// Package cli implements the command-line interface for prephoops.
//
// The cli package provides the Cobra-based CLI with three commands: check
// (scrape sources, diff against stored snapshots, report new games), serve
// (expose stored games over HTTP), and parse (run the bracket parser over a
// local HTML/PDF/text file without fetching). It coordinates the source,
// scraper, storage, and game packages.
package cli
