package location

import (
	"context"
)

// FavoriteRepository stores saved checkout destinations.
type FavoriteRepository interface {
	Create(ctx context.Context, fav Favorite) (Favorite, error)

	// List returns favorites most-used first.
	List(ctx context.Context) ([]Favorite, error)

	Delete(ctx context.Context, id string) error

	// RecordUse bumps the use counter when a checkout picked this favorite.
	// Best effort: callers ignore failures, checkout is never blocked by it.
	RecordUse(ctx context.Context, id string) error
}
