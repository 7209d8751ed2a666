// Package scraper provides HTTP fetching and text extraction for bracket pages.
//
// The scraper package fetches public bracket pages with retry and flattens
// their HTML (or PDF text layer) into the trimmed, non-empty lines that the
// bracket parser's input contract requires: block-level elements become line
// breaks, inline markup is folded into its line. The parser never touches
// HTML; this package is the only place markup exists.
package scraper
