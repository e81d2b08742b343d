package location

import (
	"context"

	"github.com/cmlabs-hris/attendance-core-go/internal/domain/location"
	"github.com/google/uuid"
)

type LocationServiceImpl struct {
	favorites location.FavoriteRepository
}

func NewLocationService(favorites location.FavoriteRepository) location.LocationService {
	return &LocationServiceImpl{favorites: favorites}
}

// Create implements location.LocationService.
func (s *LocationServiceImpl) Create(ctx context.Context, req location.CreateFavoriteRequest) (location.FavoriteResponse, error) {
	if err := req.Validate(); err != nil {
		return location.FavoriteResponse{}, err
	}

	fav, err := s.favorites.Create(ctx, location.Favorite{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		return location.FavoriteResponse{}, err
	}

	return location.NewFavoriteResponse(fav), nil
}

// List implements location.LocationService.
func (s *LocationServiceImpl) List(ctx context.Context) ([]location.FavoriteResponse, error) {
	favorites, err := s.favorites.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]location.FavoriteResponse, 0, len(favorites))
	for _, fav := range favorites {
		responses = append(responses, location.NewFavoriteResponse(fav))
	}

	return responses, nil
}

// Delete implements location.LocationService.
func (s *LocationServiceImpl) Delete(ctx context.Context, id string) error {
	return s.favorites.Delete(ctx, id)
}
