package location

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/validator"
)

type LocationService interface {
	Create(ctx context.Context, req CreateFavoriteRequest) (FavoriteResponse, error)
	List(ctx context.Context) ([]FavoriteResponse, error)
	Delete(ctx context.Context, id string) error
}

type CreateFavoriteRequest struct {
	Name      string  `json:"name"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (r *CreateFavoriteRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if r.Latitude < -90 || r.Latitude > 90 {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude < -180 || r.Longitude > 180 {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type FavoriteResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Address    string  `json:"address,omitempty"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	UseCount   int     `json:"use_count"`
	LastUsedAt *string `json:"last_used_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

func NewFavoriteResponse(fav Favorite) FavoriteResponse {
	resp := FavoriteResponse{
		ID:        fav.ID,
		Name:      fav.Name,
		Address:   fav.Address,
		Latitude:  fav.Latitude,
		Longitude: fav.Longitude,
		UseCount:  fav.UseCount,
		CreatedAt: fav.CreatedAt.Format(time.RFC3339),
	}
	if fav.LastUsedAt != nil {
		lastUsed := fav.LastUsedAt.Format(time.RFC3339)
		resp.LastUsedAt = &lastUsed
	}
	return resp
}
