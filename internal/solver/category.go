package solver

import (
	"context"

	"swimpipe/internal/store"
)

// CategoryCache resolves individual category types from a swimmer's age
// within the season. Ages are finite and repeat across hundreds of swimmers
// per file, so the season's category table is loaded once and resolutions
// are memoized. The cache is run-scoped and dependency-injected; it is
// never shared between pipeline runs.
type CategoryCache struct {
	season store.Season
	reader store.Reader

	loaded bool
	types  []store.CategoryType
	byAge  map[int]store.CategoryType
}

// NewCategoryCache builds an empty cache for one run.
func NewCategoryCache(season store.Season, reader store.Reader) *CategoryCache {
	return &CategoryCache{
		season: season,
		reader: reader,
		byAge:  map[int]store.CategoryType{},
	}
}

func (c *CategoryCache) load(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	types, err := c.reader.CategoryTypes(ctx, c.season.ID)
	if err != nil {
		return err
	}
	c.types = types
	c.loaded = true
	return nil
}

// ForYearOfBirth resolves the individual category for a swimmer born in the
// given year. The bool result is false when no bracket contains the age.
func (c *CategoryCache) ForYearOfBirth(ctx context.Context, yearOfBirth int) (store.CategoryType, bool, error) {
	age := c.season.Age(yearOfBirth)
	if age <= 0 {
		return store.CategoryType{}, false, nil
	}
	if ct, ok := c.byAge[age]; ok {
		return ct, true, nil
	}
	if err := c.load(ctx); err != nil {
		return store.CategoryType{}, false, err
	}
	for _, ct := range c.types {
		if !ct.Relay && ct.Contains(age) {
			c.byAge[age] = ct
			return ct, true, nil
		}
	}
	return store.CategoryType{}, false, nil
}
