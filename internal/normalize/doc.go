// Package normalize turns the flat, loosely-typed field submissions of an
// editable data grid into typed documents for a document database.
//
// Values are resolved in two tiers: a declared type from the Schema when the
// field path has one, otherwise a fixed heuristic chain (JSON container, then
// date, then the value as submitted). Nothing in this package returns an
// error or panics for any row shape; unparseable values fall through
// unchanged.
package normalize
