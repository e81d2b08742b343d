package location

import (
	"time"
)

// Favorite is a saved checkout destination offered by the location selector
// during CHECK-mode checkout. Picking one is always optional.
type Favorite struct {
	ID         string
	Name       string
	Address    string
	Latitude   float64
	Longitude  float64
	UseCount   int
	LastUsedAt *time.Time
	CreatedAt  time.Time
}
