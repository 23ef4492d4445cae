package shared

import (
	"fmt"
	"os"

	"stayhub/internal/app"
	"stayhub/internal/domain"
)

// LoadSeed reads a JSON array of listings with their windows and images.
func LoadSeed(path string) ([]app.SeedListing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []app.SeedListing
	if err := domain.DecodeJSON(f, &out); err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return out, nil
}
