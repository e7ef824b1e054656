package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// PropertyFilter describes a property predicate independent of the store.
// Nil pointers and empty strings mean "no constraint".
type PropertyFilter struct {
	ID          *primitive.ObjectID
	IDs         []primitive.ObjectID
	ExcludeID   *primitive.ObjectID
	Slug        string
	Agent       *primitive.ObjectID
	Approved    *bool
	Active      *bool
	ListingType string
	Search      string
	MinPrice    *float64
	MaxPrice    *float64
	MinBedrooms *int
	MaxBedrooms *int
	Bathrooms   *int
	City        string
	// CityExact makes City a constraint even when empty, matching listings
	// with no city.
	CityExact bool
	Type      string
	Furnished *bool
	Status    string
}

// PublicFilter returns the base predicate of every public read path.
func PublicFilter() PropertyFilter {
	yes := true
	return PropertyFilter{Approved: &yes, Active: &yes}
}

type PropertySort string

const (
	SortNewest    PropertySort = "newest"
	SortOldest    PropertySort = "oldest"
	SortLowPrice  PropertySort = "lowprice"
	SortHighPrice PropertySort = "highprice"
)

// ParsePropertySort falls back to newest for unknown values.
func ParsePropertySort(raw string) PropertySort {
	switch s := PropertySort(raw); s {
	case SortNewest, SortOldest, SortLowPrice, SortHighPrice:
		return s
	default:
		return SortNewest
	}
}
