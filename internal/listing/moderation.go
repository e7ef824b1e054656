package listing

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AyishaBeevi/ab-backend/internal/access"
	"github.com/AyishaBeevi/ab-backend/internal/apperr"
	"github.com/AyishaBeevi/ab-backend/internal/models"
	"github.com/AyishaBeevi/ab-backend/internal/pagination"
	"github.com/AyishaBeevi/ab-backend/internal/storage"
	"github.com/AyishaBeevi/ab-backend/internal/store"
)

const AdminPageSize = 30

// AdminList returns every listing, approved or not, with the agent resolved.
func (s *Service) AdminList(ctx context.Context, caller *access.Caller, page pagination.Query) ([]models.PropertyWithAgent, int64, error) {
	if err := access.Require(caller, models.RoleAdmin); err != nil {
		return nil, 0, err
	}

	all := models.PropertyFilter{}
	total, err := s.props.Count(ctx, all)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	properties, err := s.props.Find(ctx, all, models.SortNewest, page.Skip(), page.Limit)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	out, err := s.withAgents(ctx, properties, true)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// AdminCreateInput is the JSON body of an admin-created listing.
type AdminCreateInput struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	ListingType   string          `json:"listingType"`
	Price         *float64        `json:"price"`
	Currency      string          `json:"currency"`
	RentFrequency string          `json:"rentFrequency"`
	Deposit       *float64        `json:"deposit"`
	Images        []models.Image  `json:"images"`
	Location      models.Location `json:"location"`
	Bedrooms      *int            `json:"bedrooms"`
	Bathrooms     *int            `json:"bathrooms"`
	Area          *float64        `json:"area"`
	Amenities     []string        `json:"amenities"`
	Type          string          `json:"type"`
	Furnished     bool            `json:"furnished"`
	Status        string          `json:"status"`
	AgentID       string          `json:"agentId"`
}

// AdminCreate inserts an approved listing, owned by AgentID when given and
// by the calling admin otherwise.
func (s *Service) AdminCreate(ctx context.Context, caller *access.Caller, in AdminCreateInput) (*models.Property, error) {
	if err := access.Require(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	if in.Price == nil {
		return nil, apperr.Validation("price is required")
	}
	if in.Area == nil {
		return nil, apperr.Validation("area is required")
	}

	agent := caller.ID
	if raw := strings.TrimSpace(in.AgentID); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, apperr.Validation("Invalid agentId")
		}
		if _, err := s.users.FindByID(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, apperr.Validation("agentId does not match a user")
			}
			return nil, apperr.Internal(err)
		}
		agent = id
	}

	images := make([]models.Image, 0, len(in.Images))
	for _, img := range in.Images {
		if img.PublicID == "" {
			img.PublicID = storage.PublicIDFromURL(img.URL)
		}
		images = append(images, img)
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
		Images:        images,
		Location: models.Location{
			Type:    in.Location.Type,
			Address: strings.TrimSpace(in.Location.Address),
			City:    normalize(in.Location.City),
			State:   strings.TrimSpace(in.Location.State),
			Country: strings.TrimSpace(in.Location.Country),
		},
		Bedrooms:   derefInt(in.Bedrooms),
		Bathrooms:  derefInt(in.Bathrooms),
		Area:       *in.Area,
		Amenities:  models.NewStringList(in.Amenities),
		Type:       normalize(in.Type),
		Furnished:  in.Furnished,
		Agent:      agent,
		Status:     normalize(in.Status),
		IsApproved: true,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	applyDefaults(property)
	if err := validate(property); err != nil {
		return nil, err
	}
	if err := s.insertWithSlug(ctx, property); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, caller.ID, models.AuditPropertyCreated, models.TargetProperty, property.ID,
		map[string]any{"title": property.Title})
	return property, nil
}

// Approve sets the approval flag and records PROPERTY_APPROVED or
// PROPERTY_REJECTED.
func (s *Service) Approve(ctx context.Context, caller *access.Caller, id primitive.ObjectID, approved bool) (*models.Property, error) {
	if err := access.Require(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	property, err := s.props.SetApproved(ctx, id, approved)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Property not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	action := models.AuditPropertyRejected
	if approved {
		action = models.AuditPropertyApproved
	}
	s.audit.Record(ctx, caller.ID, action, models.TargetProperty, property.ID,
		map[string]any{"title": property.Title})
	return property, nil
}

func (s *Service) AdminDelete(ctx context.Context, caller *access.Caller, id primitive.ObjectID) error {
	if err := access.Require(caller, models.RoleAdmin); err != nil {
		return err
	}
	property, err := s.loadByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.props.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Property not found")
		}
		return apperr.Internal(err)
	}

	s.audit.Record(ctx, caller.ID, models.AuditPropertyDeleted, models.TargetProperty, property.ID,
		map[string]any{"title": property.Title})
	return nil
}

func (s *Service) ToggleFeatured(ctx context.Context, caller *access.Caller, id primitive.ObjectID) (bool, error) {
	return s.toggle(ctx, caller, id, "isFeatured")
}

func (s *Service) ToggleTopPick(ctx context.Context, caller *access.Caller, id primitive.ObjectID) (bool, error) {
	return s.toggle(ctx, caller, id, "isTopPick")
}

func (s *Service) toggle(ctx context.Context, caller *access.Caller, id primitive.ObjectID, field string) (bool, error) {
	if err := access.Require(caller, models.RoleAdmin); err != nil {
		return false, err
	}
	value, err := s.props.ToggleFlag(ctx, id, field)
	if errors.Is(err, store.ErrNotFound) {
		return false, apperr.NotFound("Property not found")
	}
	if err != nil {
		return false, apperr.Internal(err)
	}
	return value, nil
}
