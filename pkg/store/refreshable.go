package store

// Refreshable is the externally observed state of one resource for one vehicle. Value and Err are
// not mutually exclusive: after a failed refresh, consumers see the stale last-known value
// alongside the error so views can keep rendering data with an error indicator. The zero value
// (no value, no error) means the resource has not been loaded yet.
type Refreshable[T any] struct {
	Value *T
	Err   error
}

// Loading reports whether the resource has never produced a value or an error.
func (r Refreshable[T]) Loading() bool {
	return r.Value == nil && r.Err == nil
}
