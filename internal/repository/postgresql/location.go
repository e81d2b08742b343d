package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-core-go/internal/domain/location"
	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/database"
)

type favoriteRepository struct {
	db *database.DB
}

func NewFavoriteRepository(db *database.DB) location.FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Create implements location.FavoriteRepository.
func (r *favoriteRepository) Create(ctx context.Context, fav location.Favorite) (location.Favorite, error) {
	query := `
		INSERT INTO location_favorites (id, name, address, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		fav.ID,
		fav.Name,
		fav.Address,
		fav.Latitude,
		fav.Longitude,
	).Scan(&fav.CreatedAt)

	if err != nil {
		return location.Favorite{}, fmt.Errorf("failed to create favorite location: %w", err)
	}

	return fav, nil
}

// List implements location.FavoriteRepository.
func (r *favoriteRepository) List(ctx context.Context) ([]location.Favorite, error) {
	query := `
		SELECT id, name, address, latitude, longitude, use_count, last_used_at, created_at
		FROM location_favorites
		ORDER BY use_count DESC, name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorite locations: %w", err)
	}
	defer rows.Close()

	var favorites []location.Favorite
	for rows.Next() {
		var fav location.Favorite
		err := rows.Scan(
			&fav.ID, &fav.Name, &fav.Address, &fav.Latitude, &fav.Longitude,
			&fav.UseCount, &fav.LastUsedAt, &fav.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite location: %w", err)
		}
		favorites = append(favorites, fav)
	}

	return favorites, nil
}

// Delete implements location.FavoriteRepository.
func (r *favoriteRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM location_favorites WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete favorite location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return location.ErrFavoriteNotFound
	}

	return nil
}

// RecordUse implements location.FavoriteRepository.
func (r *favoriteRepository) RecordUse(ctx context.Context, id string) error {
	query := `
		UPDATE location_favorites
		SET use_count = use_count + 1, last_used_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to record favorite location use: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return location.ErrFavoriteNotFound
	}

	return nil
}
