// Package quotes loads broker spreadsheet exports of CEDEAR quotes into
// normalized records. It owns the locale-aware price parsing, the ticker
// identity rules shared between peso and dollar listings, and the header
// discovery needed to read exports whose preamble rows vary by broker.
package quotes
