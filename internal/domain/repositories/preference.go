package repositories

import "context"

// PreferenceStore persists small string preferences, in particular the
// selected engine capability. The value is treated as already available;
// this layer does not manage its lifecycle.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
}
