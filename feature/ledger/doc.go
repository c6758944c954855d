// Package ledger tracks individually scanned physical units and the
// append-only scan event stream that drives their lifecycle.
//
// A unit is created on first scan discovery and persists through every
// status change until it is sold. Status moves only through the state
// machine: events apply in causal order per tag, older events are discarded
// rather than allowed to regress state, and surprising transitions are
// applied (physical reality wins) but recorded as anomalies in the audit
// log.
package ledger
