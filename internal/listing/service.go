// Package listing implements property search, the listing lifecycle, the
// related-listings selector and admin moderation of listings.
package listing

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/AyishaBeevi/ab-backend/internal/apperr"
	"github.com/AyishaBeevi/ab-backend/internal/models"
	"github.com/AyishaBeevi/ab-backend/internal/storage"
	"github.com/AyishaBeevi/ab-backend/internal/store"
)

type Store interface {
	Find(ctx context.Context, f models.PropertyFilter, sort models.PropertySort, skip, limit int64) ([]models.Property, error)
	Count(ctx context.Context, f models.PropertyFilter) (int64, error)
	FindOne(ctx context.Context, f models.PropertyFilter) (*models.Property, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	Insert(ctx context.Context, property *models.Property) error
	Replace(ctx context.Context, property *models.Property) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ToggleFlag(ctx context.Context, id primitive.ObjectID, field string) (bool, error)
	SetApproved(ctx context.Context, id primitive.ObjectID, approved bool) (*models.Property, error)
}

type UserLookup interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

type Auditor interface {
	Record(ctx context.Context, admin primitive.ObjectID, action, targetType string, target primitive.ObjectID, meta map[string]any)
}

type Service struct {
	props    Store
	users    UserLookup
	uploader storage.Uploader
	audit    Auditor
	log      *zap.Logger
	now      func() time.Time
	suffix   func() string
}

func NewService(props Store, users UserLookup, uploader storage.Uploader, audit Auditor, log *zap.Logger) *Service {
	return &Service{
		props:    props,
		users:    users,
		uploader: uploader,
		audit:    audit,
		log:      log.Named("listing"),
		now:      time.Now,
		suffix:   randomSuffix,
	}
}

// loadByID fetches a listing for a mutating operation.
func (s *Service) loadByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	property, err := s.props.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Property not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return property, nil
}

// withAgents resolves the owning agent of each listing. Listings whose
// agent no longer exists get a nil agent.
func (s *Service) withAgents(ctx context.Context, properties []models.Property, keepRole bool) ([]models.PropertyWithAgent, error) {
	seen := make(map[primitive.ObjectID]struct{}, len(properties))
	ids := make([]primitive.ObjectID, 0, len(properties))
	for _, p := range properties {
		if _, ok := seen[p.Agent]; ok {
			continue
		}
		seen[p.Agent] = struct{}{}
		ids = append(ids, p.Agent)
	}

	agents, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	byID := make(map[primitive.ObjectID]*models.AgentSummary, len(agents))
	for i := range agents {
		summary := agents[i].Summary()
		if !keepRole {
			summary.Role = ""
		}
		byID[agents[i].ID] = summary
	}

	out := make([]models.PropertyWithAgent, 0, len(properties))
	for _, p := range properties {
		out = append(out, models.PropertyWithAgent{Property: p, Agent: byID[p.Agent]})
	}
	return out, nil
}
