// Package inventory derives the combined per-item availability view from
// the catalog, the correlation set and the unit ledger. The projection is
// pure and fully rebuildable; corrections never need a migration, only a
// recomputation.
package inventory
