// Package utils provides common utility functions for the inventory core.
// It includes helper functions for type conversion and identifier
// canonicalization shared across the catalog and tracking features.
package utils
