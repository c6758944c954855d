// Package stores is the store correlation registry: the sole source of
// cross-system store identity.
//
// The catalog system and the tracking system each have their own store
// codes. Every cross-system join resolves through this registry, so new
// stores are added by registering a mapping, never by touching ledger data.
// While a mapping is active it is bijective in both directions.
package stores
