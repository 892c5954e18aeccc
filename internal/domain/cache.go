package domain

import "context"

// NameCache stores resolved item names between runs so repeated reports do
// not rehit the name-resolution endpoint.
type NameCache interface {
	// GetNames returns the cached names for the given type IDs. IDs without
	// a cached entry are simply absent from the result.
	GetNames(ctx context.Context, typeIDs []int64) (map[int64]string, error)
	// SetNames stores the given names.
	SetNames(ctx context.Context, names map[int64]string) error
}
