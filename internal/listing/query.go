package listing

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/AyishaBeevi/ab-backend/internal/access"
	"github.com/AyishaBeevi/ab-backend/internal/apperr"
	"github.com/AyishaBeevi/ab-backend/internal/models"
	"github.com/AyishaBeevi/ab-backend/internal/pagination"
)

const DefaultPageSize = 12

// SearchParams are the raw public search query parameters.
type SearchParams struct {
	ListingType string `form:"listingType"`
	Search      string `form:"search"`
	MinPrice    string `form:"minPrice"`
	MaxPrice    string `form:"maxPrice"`
	Bedrooms    string `form:"bedrooms"`
	Bathrooms   string `form:"bathrooms"`
	City        string `form:"city"`
	Type        string `form:"type"`
	Furnished   string `form:"furnished"`
	Sort        string `form:"sort"`
	Page        string `form:"page"`
	Limit       string `form:"limit"`
}

type Query struct {
	Filter models.PropertyFilter
	Sort   models.PropertySort
	Page   pagination.Query
}

type Page struct {
	Properties []models.Property
	Total      int64
	Page       int64
	TotalPages int64
}

// ParseSearch turns raw parameters into a query over publicly visible
// listings. Malformed numbers and out-of-enum values are validation errors.
func ParseSearch(p SearchParams) (Query, error) {
	page, err := pagination.Parse(p.Page, p.Limit, DefaultPageSize)
	if err != nil {
		return Query{}, err
	}

	f := models.PublicFilter()
	f.Search = strings.TrimSpace(p.Search)

	if lt := normalize(p.ListingType); lt != "" && lt != "all" {
		if !models.Contains(models.ListingTypes, lt) {
			return Query{}, apperr.Validation("Invalid listingType")
		}
		f.ListingType = lt
	}

	if f.MinPrice, err = parseFloatParam("minPrice", p.MinPrice); err != nil {
		return Query{}, err
	}
	if f.MaxPrice, err = parseFloatParam("maxPrice", p.MaxPrice); err != nil {
		return Query{}, err
	}

	bedrooms, err := parseIntParam("bedrooms", p.Bedrooms)
	if err != nil {
		return Query{}, err
	}
	f.MinBedrooms, f.MaxBedrooms = bedrooms, bedrooms

	if f.Bathrooms, err = parseIntParam("bathrooms", p.Bathrooms); err != nil {
		return Query{}, err
	}

	f.City = normalize(p.City)
	if t := normalize(p.Type); t != "all" {
		f.Type = t
	}

	if raw := strings.TrimSpace(p.Furnished); raw != "" {
		furnished, err := parseBool(raw)
		if err != nil {
			return Query{}, apperr.Validation("furnished must be true or false")
		}
		f.Furnished = &furnished
	}

	return Query{
		Filter: f,
		Sort:   models.ParsePropertySort(strings.ToLower(strings.TrimSpace(p.Sort))),
		Page:   page,
	}, nil
}

// Search runs q: one count and one page fetch over the same predicate.
func (s *Service) Search(ctx context.Context, q Query) (Page, error) {
	total, err := s.props.Count(ctx, q.Filter)
	if err != nil {
		return Page{}, apperr.Internal(err)
	}
	properties, err := s.props.Find(ctx, q.Filter, q.Sort, q.Page.Skip(), q.Page.Limit)
	if err != nil {
		return Page{}, apperr.Internal(err)
	}
	return Page{
		Properties: properties,
		Total:      total,
		Page:       q.Page.Page,
		TotalPages: pagination.TotalPages(total, q.Page.Limit),
	}, nil
}

// AgentQuery filters the caller's own listings.
type AgentQuery struct {
	Approval     string `form:"approval"`
	Availability string `form:"availability"`
	Sort         string `form:"sort"`
}

func (s *Service) AgentListings(ctx context.Context, caller *access.Caller, q AgentQuery) ([]models.Property, error) {
	if err := access.Require(caller, models.RoleAgent, models.RoleAdmin); err != nil {
		return nil, err
	}

	f := models.PropertyFilter{Agent: &caller.ID}
	switch strings.TrimSpace(q.Approval) {
	case "approved":
		yes := true
		f.Approved = &yes
	case "pending":
		no := false
		f.Approved = &no
	}
	if status := normalize(q.Availability); status != "" {
		if !models.Contains(models.Availabilities, status) {
			return nil, apperr.Validation("Invalid status")
		}
		f.Status = status
	}

	properties, err := s.props.Find(ctx, f, models.ParsePropertySort(q.Sort), 0, 0)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return properties, nil
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func parseFloatParam(name, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, apperr.Validationf("%s must be a number", name)
	}
	return &v, nil
}

func parseIntParam(name, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.Validationf("%s must be an integer", name)
	}
	return &v, nil
}

func parseBool(raw string) (bool, error) {
	switch normalize(raw) {
	case "true", "on":
		return true, nil
	case "false":
		return false, nil
	}
	return strconv.ParseBool(raw)
}
