package listing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/AyishaBeevi/ab-backend/internal/access"
	"github.com/AyishaBeevi/ab-backend/internal/apperr"
	"github.com/AyishaBeevi/ab-backend/internal/models"
	"github.com/AyishaBeevi/ab-backend/internal/storage"
	"github.com/AyishaBeevi/ab-backend/internal/store"
)

const (
	MaxCreateImages = 6
	MaxUpdateImages = 10

	maxTitleLen       = 150
	maxDescriptionLen = 5000
	slugAttempts      = 3
)

// CreateInput is a new listing as submitted by an agent. Nil numeric fields
// were not supplied; an explicit zero is a real value.
type CreateInput struct {
	Title         string
	Description   string
	ListingType   string
	Price         *float64
	Currency      string
	RentFrequency string
	Deposit       *float64
	Bedrooms      *int
	Bathrooms     *int
	Area          *float64
	Address       string
	City          string
	State         string
	Country       string
	Type          string
	Furnished     bool
	Amenities     []string
	Images        []storage.File
}

func (s *Service) Create(ctx context.Context, caller *access.Caller, in CreateInput) (*models.Property, error) {
	if err := access.Require(caller, models.RoleAgent, models.RoleAdmin); err != nil {
		return nil, err
	}
	if len(in.Images) == 0 {
		return nil, apperr.Validation("Images required")
	}
	if len(in.Images) > MaxCreateImages {
		return nil, apperr.Validationf("Too many files (max %d)", MaxCreateImages)
	}
	if strings.TrimSpace(in.ListingType) == "" {
		return nil, apperr.Validation("Listing type is required")
	}
	if in.Price == nil {
		return nil, apperr.Validation("price is required")
	}
	if in.Area == nil {
		return nil, apperr.Validation("area is required")
	}

	now := s.now()
	property := &models.Property{
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		ListingType:   normalize(in.ListingType),
		Price:         *in.Price,
		Currency:      strings.TrimSpace(in.Currency),
		RentFrequency: normalize(in.RentFrequency),
		Deposit:       in.Deposit,
		Bedrooms:      derefInt(in.Bedrooms),
		Bathrooms:     derefInt(in.Bathrooms),
		Area:          *in.Area,
		Amenities:     models.NewStringList(in.Amenities),
		Type:          normalize(in.Type),
		Furnished:     in.Furnished,
		Location: models.Location{
			Type:    "Point",
			Address: strings.TrimSpace(in.Address),
			City:    normalize(in.City),
			State:   strings.TrimSpace(in.State),
			Country: strings.TrimSpace(in.Country),
		},
		Agent:      caller.ID,
		Status:     models.StatusAvailable,
		IsApproved: false,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	applyDefaults(property)
	if err := validate(property); err != nil {
		return nil, err
	}

	images, err := storage.UploadAll(ctx, s.uploader, in.Images)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	property.Images = images

	if err := s.insertWithSlug(ctx, property); err != nil {
		return nil, err
	}
	s.log.Info("listing created",
		zap.String("id", property.ID.Hex()),
		zap.String("slug", property.Slug),
		zap.String("agent", caller.ID.Hex()),
	)
	return property, nil
}

// insertWithSlug assigns a fresh slug and inserts, retrying on collision.
func (s *Service) insertWithSlug(ctx context.Context, property *models.Property) error {
	for attempt := 0; attempt < slugAttempts; attempt++ {
		property.Slug = makeSlug(property.Title, s.suffix())
		err := s.props.Insert(ctx, property)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return apperr.Internal(err)
		}
		s.log.Warn("slug collision", zap.String("slug", property.Slug), zap.Int("attempt", attempt+1))
	}
	return apperr.Internal(errors.New("could not allocate a unique slug"))
}

// UpdateInput carries the whitelisted editable fields. Nil means "leave as is".
type UpdateInput struct {
	Title       *string
	Description *string
	ListingType *string
	Price       *float64
	Bedrooms    *int
	Bathrooms   *int
	Area        *float64
	Address     *string
	City        *string
	State       *string
	Country     *string
	Type        *string
	Furnished   *bool

	// ExistingImages is the raw JSON array of image URLs to keep, in order.
	ExistingImages *string
	NewImages      []storage.File
}

// Update edits a listing. Only the owning agent may edit; the admin role
// alone is not enough.
func (s *Service) Update(ctx context.Context, caller *access.Caller, id primitive.ObjectID, in UpdateInput) (*models.Property, error) {
	if err := access.Require(caller, models.RoleAgent, models.RoleAdmin); err != nil {
		return nil, err
	}
	if len(in.NewImages) > MaxUpdateImages {
		return nil, apperr.Validationf("Too many files (max %d)", MaxUpdateImages)
	}

	property, err := s.loadByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.IsOwner(caller, property.Agent) {
		return nil, apperr.Forbidden("Unauthorized")
	}

	if in.ListingType != nil && strings.TrimSpace(*in.ListingType) != "" {
		property.ListingType = normalize(*in.ListingType)
	}
	if in.Title != nil {
		property.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		property.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		property.Price = *in.Price
	}
	if in.Bedrooms != nil {
		property.Bedrooms = *in.Bedrooms
	}
	if in.Bathrooms != nil {
		property.Bathrooms = *in.Bathrooms
	}
	if in.Area != nil {
		property.Area = *in.Area
	}
	if in.Address != nil {
		property.Location.Address = strings.TrimSpace(*in.Address)
	}
	if in.City != nil {
		property.Location.City = normalize(*in.City)
	}
	if in.State != nil {
		property.Location.State = strings.TrimSpace(*in.State)
	}
	if in.Country != nil {
		property.Location.Country = strings.TrimSpace(*in.Country)
	}
	if in.Type != nil {
		property.Type = normalize(*in.Type)
	}
	if in.Furnished != nil {
		property.Furnished = *in.Furnished
	}
	applyDefaults(property)
	if err := validate(property); err != nil {
		return nil, err
	}

	// Without existingImages and newImages the stored images stay as they are.
	if in.ExistingImages != nil || len(in.NewImages) > 0 {
		kept := s.keptImages(in.ExistingImages)
		uploaded, err := storage.UploadAll(ctx, s.uploader, in.NewImages)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		property.Images = append(kept, uploaded...)
	}

	property.UpdatedAt = s.now()
	if err := s.props.Replace(ctx, property); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Property not found")
		}
		return nil, apperr.Internal(err)
	}
	return property, nil
}

// keptImages parses the existingImages field. A malformed value is logged
// and treated as an empty list.
func (s *Service) keptImages(raw *string) []models.Image {
	images := make([]models.Image, 0)
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return images
	}

	var urls []string
	if err := json.Unmarshal([]byte(*raw), &urls); err != nil {
		s.log.Warn("failed to parse existingImages", zap.Error(err))
		return images
	}
	for _, u := range urls {
		if u = strings.TrimSpace(u); u == "" {
			continue
		}
		images = append(images, models.Image{URL: u, PublicID: storage.PublicIDFromURL(u)})
	}
	return images
}

// Delete removes a listing for good. Owner or admin; enquiries that point at
// the listing are kept.
func (s *Service) Delete(ctx context.Context, caller *access.Caller, id primitive.ObjectID) error {
	if err := access.Require(caller, models.RoleAgent, models.RoleAdmin); err != nil {
		return err
	}
	property, err := s.loadByID(ctx, id)
	if err != nil {
		return err
	}
	if !access.OwnerOrAdmin(caller, property.Agent) {
		return apperr.Forbidden("Unauthorized")
	}
	if err := s.props.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Not found")
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *Service) SetAvailability(ctx context.Context, caller *access.Caller, id primitive.ObjectID, status string) (string, error) {
	if err := access.Require(caller, models.RoleAgent, models.RoleAdmin); err != nil {
		return "", err
	}
	property, err := s.loadByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !access.OwnerOrAdmin(caller, property.Agent) {
		return "", apperr.Forbidden("Unauthorized")
	}
	if !models.Contains(models.Availabilities, status) {
		return "", apperr.Validation("Invalid status")
	}

	property.Status = status
	property.UpdatedAt = s.now()
	if err := s.props.Replace(ctx, property); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", apperr.NotFound("Property not found")
		}
		return "", apperr.Internal(err)
	}
	return status, nil
}

// GetBySlug returns an approved listing with its agent's name and email.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.PropertyWithAgent, error) {
	yes := true
	property, err := s.props.FindOne(ctx, models.PropertyFilter{Slug: slug, Approved: &yes})
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	out, err := s.withAgents(ctx, []models.Property{*property}, false)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func applyDefaults(p *models.Property) {
	if p.Currency == "" {
		p.Currency = models.DefaultCurrency
	}
	if p.Location.Type == "" {
		p.Location.Type = "Point"
	}
	if p.Status == "" {
		p.Status = models.StatusAvailable
	}
	if p.ListingType == models.ListingRent && p.RentFrequency == "" {
		p.RentFrequency = models.RentMonthly
	}
	if p.ListingType == models.ListingSale {
		p.RentFrequency = ""
	}
	if p.Images == nil {
		p.Images = []models.Image{}
	}
	if p.Amenities == nil {
		p.Amenities = models.StringList{}
	}
}

// validate enforces the listing schema.
func validate(p *models.Property) error {
	switch {
	case p.Title == "":
		return apperr.Validation("title is required")
	case utf8.RuneCountInString(p.Title) > maxTitleLen:
		return apperr.Validationf("title must be at most %d characters", maxTitleLen)
	case p.Description == "":
		return apperr.Validation("description is required")
	case utf8.RuneCountInString(p.Description) > maxDescriptionLen:
		return apperr.Validationf("description must be at most %d characters", maxDescriptionLen)
	case !models.Contains(models.ListingTypes, p.ListingType):
		return apperr.Validation("listingType must be rent or sale")
	case p.Price < 0:
		return apperr.Validation("price must be zero or more")
	case p.Area <= 0:
		return apperr.Validation("area must be greater than zero")
	case !models.Contains(models.PropertyTypes, p.Type):
		return apperr.Validation("type must be one of apartment, villa, plot, commercial")
	case p.Location.Address == "":
		return apperr.Validation("address is required")
	case p.Bedrooms < 0 || p.Bathrooms < 0:
		return apperr.Validation("bedrooms and bathrooms must be zero or more")
	case p.Deposit != nil && *p.Deposit < 0:
		return apperr.Validation("deposit must be zero or more")
	case p.RentFrequency != "" && !models.Contains(models.RentFrequency, p.RentFrequency):
		return apperr.Validation("rentFrequency must be monthly or yearly")
	case !models.Contains(models.Availabilities, p.Status):
		return apperr.Validation("Invalid status")
	}
	for _, img := range p.Images {
		if img.URL == "" || img.PublicID == "" {
			return apperr.Validation("every image needs a url and publicId")
		}
	}
	return nil
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
