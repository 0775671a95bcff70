// Package core provides the store directory domain logic.
//
// This package contains everything that operates on store data, independent
// of any UI or transport layer. It is used by the web server, the CLI
// inspector and tests without modification.
//
// # Parsing
//
// [Parse] turns CSV text into [Record] values keyed by header name. Quoted
// fields may contain commas, doubled quotes and line breaks. Rows whose field
// count differs from the header are skipped; [ParseReport] lists them.
//
//	records := core.Parse("Name,City\n\"Doe, Jane\",Boston\n")
//	// records[0]["Name"] == "Doe, Jane"
//
// # Filtering
//
// [Search] matches a query against six store attributes (OR), [FilterBy]
// applies per-field constraints (AND). Both are case-insensitive substring
// tests, keep input order and return everything for an empty query.
// Column names come from a [Schema]; [DefaultSchema] matches the store
// directory export.
//
// # Master and Display Sets
//
// A loaded [Dataset] is the master set and is never modified. A [View] is a
// value holding the master and a display set recomputed from it on every
// Search or Filter call. Statistics are always computed from the master.
//
// # Loading
//
// [Service] performs load attempts through a [Fetcher] and publishes the
// parsed dataset atomically. A failed attempt produces no dataset and is not
// retried.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages with [MapError]:
//
//   - FILE001-FILE002: dataset file errors
//   - LOAD001-LOAD005: fetch errors per source
//   - DIR001-DIR002: directory state errors
//   - CFG001: schema file errors
package core
