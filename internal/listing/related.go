package listing

import (
	"context"
	"errors"

	"github.com/AyishaBeevi/ab-backend/internal/apperr"
	"github.com/AyishaBeevi/ab-backend/internal/models"
	"github.com/AyishaBeevi/ab-backend/internal/store"
)

const (
	relatedLimit    = 6
	relatedPriceMin = 0.8
	relatedPriceMax = 1.2
	relatedBedBand  = 1
)

// RelatedFilter selects listings similar to source: same city (a missing city
// only matches other listings without one) and type,
// price within 20% and bedrooms within one of the source, approved, and never
// the source itself.
func RelatedFilter(source *models.Property) models.PropertyFilter {
	yes := true
	minPrice := source.Price * relatedPriceMin
	maxPrice := source.Price * relatedPriceMax
	minBeds := source.Bedrooms - relatedBedBand
	maxBeds := source.Bedrooms + relatedBedBand
	id := source.ID
	return models.PropertyFilter{
		ExcludeID:   &id,
		Approved:    &yes,
		City:        source.Location.City,
		CityExact:   true,
		Type:        source.Type,
		MinPrice:    &minPrice,
		MaxPrice:    &maxPrice,
		MinBedrooms: &minBeds,
		MaxBedrooms: &maxBeds,
	}
}

// Related returns up to six listings similar to the approved listing with
// the given slug, newest first. An empty result is not an error.
func (s *Service) Related(ctx context.Context, slug string) ([]models.Property, error) {
	yes := true
	source, err := s.props.FindOne(ctx, models.PropertyFilter{Slug: slug, Approved: &yes})
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	related, err := s.props.Find(ctx, RelatedFilter(source), models.SortNewest, 0, relatedLimit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return related, nil
}
