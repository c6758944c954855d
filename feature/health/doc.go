// Package health detects inventory anomalies and keeps the alert table
// deduplicated. Each detection run refreshes persisting conditions in
// place, auto-resolves cleared ones, and escalates stale units to Missing
// through the ledger so the status write path stays single.
package health
