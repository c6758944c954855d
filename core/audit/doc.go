// Package audit records every correlation and mapping mutation.
//
// Each changed field yields one append-only Entry. The Recorder is
// transaction-aware: bind it to the same transaction as the mutation so the
// trail can never disagree with the data.
package audit
