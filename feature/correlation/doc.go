// Package correlation computes the assertion that a catalog record and a
// group of tracked units describe the same equipment.
//
// The engine is a full-batch recompute: item keys from both systems are
// canonicalized, units are grouped by tracking class, and each catalog
// record is matched by key first, then by normalized or fuzzy name. Rows
// are superseded rather than deleted, one transaction per item, so readers
// always see either the old correlation or the new one. Equal-scored name
// candidates are refused and reported unmatched instead of guessed.
package correlation
