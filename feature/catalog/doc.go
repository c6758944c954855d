// Package catalog holds the canonical catalog records for rentable items.
//
// The catalog is the system of record for item definitions and aggregate
// quantities. Records arrive from the importer collaborator as idempotent
// batch upserts keyed by item number; this package never parses import
// files itself.
package catalog
