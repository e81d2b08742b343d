package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-core-go/internal/domain/location"
)

// FavoriteRepository is an in-memory favorite location store for development
// and tests.
type FavoriteRepository struct {
	mu        sync.RWMutex
	favorites map[string]location.Favorite
}

func NewFavoriteRepository() *FavoriteRepository {
	return &FavoriteRepository{
		favorites: make(map[string]location.Favorite),
	}
}

// Create implements location.FavoriteRepository.
func (r *FavoriteRepository) Create(_ context.Context, fav location.Favorite) (location.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fav.CreatedAt = time.Now().UTC()
	r.favorites[fav.ID] = fav

	return fav, nil
}

// List implements location.FavoriteRepository.
func (r *FavoriteRepository) List(_ context.Context) ([]location.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	favorites := make([]location.Favorite, 0, len(r.favorites))
	for _, fav := range r.favorites {
		favorites = append(favorites, fav)
	}

	sort.Slice(favorites, func(i, j int) bool {
		if favorites[i].UseCount != favorites[j].UseCount {
			return favorites[i].UseCount > favorites[j].UseCount
		}
		return favorites[i].Name < favorites[j].Name
	})

	return favorites, nil
}

// Delete implements location.FavoriteRepository.
func (r *FavoriteRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.favorites[id]; !ok {
		return location.ErrFavoriteNotFound
	}
	delete(r.favorites, id)

	return nil
}

// RecordUse implements location.FavoriteRepository.
func (r *FavoriteRepository) RecordUse(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fav, ok := r.favorites[id]
	if !ok {
		return location.ErrFavoriteNotFound
	}

	now := time.Now().UTC()
	fav.UseCount++
	fav.LastUsedAt = &now
	r.favorites[id] = fav

	return nil
}
