package location

import "errors"

var (
	ErrFavoriteNotFound = errors.New("favorite location not found")
)
