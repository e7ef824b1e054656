// Package enquiry handles buyer enquiries about listings and notifies the
// listing agent and the admins.
package enquiry

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/AyishaBeevi/ab-backend/internal/access"
	"github.com/AyishaBeevi/ab-backend/internal/apperr"
	"github.com/AyishaBeevi/ab-backend/internal/mail"
	"github.com/AyishaBeevi/ab-backend/internal/models"
	"github.com/AyishaBeevi/ab-backend/internal/store"
)

const notifyTimeout = 30 * time.Second

type Store interface {
	Insert(ctx context.Context, enquiry *models.Enquiry) error
	Find(ctx context.Context, agent *primitive.ObjectID) ([]models.Enquiry, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Enquiry, error)
}

type Properties interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
}

type Users interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	FindByRole(ctx context.Context, role string) ([]models.User, error)
}

type Notifier interface {
	Send(msg mail.Message) error
}

type Service struct {
	enquiries   Store
	props       Properties
	users       Users
	notifier    Notifier
	frontendURL string
	log         *zap.Logger
	now         func() time.Time
	dispatch    func(func())
}

func NewService(enquiries Store, props Properties, users Users, notifier Notifier, frontendURL string, log *zap.Logger) *Service {
	return &Service{
		enquiries:   enquiries,
		props:       props,
		users:       users,
		notifier:    notifier,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		log:         log.Named("enquiry"),
		now:         time.Now,
		dispatch:    func(fn func()) { go fn() },
	}
}

type CreateInput struct {
	PropertyID       string `json:"propertyId" binding:"required"`
	Name             string `json:"name" binding:"required"`
	Contact          string `json:"contact" binding:"required"`
	Message          string `json:"message"`
	PreferredContact string `json:"preferredContact"`
}

// Create stores the enquiry with a snapshot of the listing title and
// queues the email notification. Notification failures never fail Create.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Enquiry, error) {
	propertyID, err := primitive.ObjectIDFromHex(strings.TrimSpace(in.PropertyID))
	if err != nil {
		return nil, apperr.Validation("Invalid property id")
	}
	name := strings.TrimSpace(in.Name)
	contact := strings.TrimSpace(in.Contact)
	if name == "" || contact == "" {
		return nil, apperr.Validation("name and contact are required")
	}
	preferred := strings.ToLower(strings.TrimSpace(in.PreferredContact))
	if preferred == "" {
		preferred = models.PreferCall
	}
	if !models.Contains(models.ContactPrefs, preferred) {
		return nil, apperr.Validation("preferredContact must be call or message")
	}

	property, err := s.props.FindByID(ctx, propertyID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Property not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	now := s.now()
	agent := property.Agent
	enquiry := &models.Enquiry{
		Property:         property.ID,
		PropertyTitle:    property.Title,
		Agent:            &agent,
		Name:             name,
		Contact:          contact,
		Message:          strings.TrimSpace(in.Message),
		PreferredContact: preferred,
		Status:           models.EnquiryNew,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.enquiries.Insert(ctx, enquiry); err != nil {
		return nil, apperr.Internal(err)
	}

	snapshot := *property
	stored := *enquiry
	s.dispatch(func() { s.notify(&snapshot, &stored) })
	return enquiry, nil
}

// notify emails the listing agent and every admin.
func (s *Service) notify(property *models.Property, enquiry *models.Enquiry) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	log := s.log.With(zap.String("enquiry", enquiry.ID.Hex()))

	recipients := make([]string, 0)
	seen := map[string]struct{}{}
	add := func(email string) {
		email = strings.TrimSpace(email)
		if email == "" {
			return
		}
		if _, ok := seen[email]; ok {
			return
		}
		seen[email] = struct{}{}
		recipients = append(recipients, email)
	}

	if agent, err := s.users.FindByID(ctx, property.Agent); err == nil {
		add(agent.Email)
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Warn("agent lookup failed", zap.Error(err))
	}
	admins, err := s.users.FindByRole(ctx, models.RoleAdmin)
	if err != nil {
		log.Warn("admin lookup failed", zap.Error(err))
	}
	for _, a := range admins {
		add(a.Email)
	}
	if len(recipients) == 0 {
		return
	}

	msg, err := mail.EnquiryMessage(recipients, mail.EnquiryData{
		PropertyTitle:    property.Title,
		PropertyURL:      s.frontendURL + "/properties/" + property.Slug,
		Name:             enquiry.Name,
		Contact:          enquiry.Contact,
		Message:          enquiry.Message,
		PreferredContact: enquiry.PreferredContact,
	})
	if err != nil {
		log.Error("render enquiry email", zap.Error(err))
		return
	}
	if err := s.notifier.Send(msg); err != nil {
		log.Error("email failed", zap.Error(err))
	}
}

// ForAgent lists the enquiries on the caller's listings, newest first.
func (s *Service) ForAgent(ctx context.Context, caller *access.Caller) ([]models.Enquiry, error) {
	if err := access.Require(caller, models.RoleAgent); err != nil {
		return nil, err
	}
	enquiries, err := s.enquiries.Find(ctx, &caller.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return enquiries, nil
}

// All lists every enquiry with the agent's name and email.
func (s *Service) All(ctx context.Context, caller *access.Caller) ([]models.EnquiryWithAgent, error) {
	if err := access.Require(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	enquiries, err := s.enquiries.Find(ctx, nil)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	ids := make([]primitive.ObjectID, 0, len(enquiries))
	for _, e := range enquiries {
		if e.Agent != nil {
			ids = append(ids, *e.Agent)
		}
	}
	agents, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	byID := make(map[primitive.ObjectID]*models.AgentSummary, len(agents))
	for i := range agents {
		summary := agents[i].Summary()
		summary.Role = ""
		byID[agents[i].ID] = summary
	}

	out := make([]models.EnquiryWithAgent, 0, len(enquiries))
	for _, e := range enquiries {
		item := models.EnquiryWithAgent{Enquiry: e}
		if e.Agent != nil {
			item.Agent = byID[*e.Agent]
		}
		out = append(out, item)
	}
	return out, nil
}

// SetStatus moves an enquiry to any of the three statuses.
func (s *Service) SetStatus(ctx context.Context, caller *access.Caller, rawID, status string) (*models.Enquiry, error) {
	if err := access.Require(caller, models.RoleAgent, models.RoleAdmin); err != nil {
		return nil, err
	}
	if !models.Contains(models.EnquiryStatuses, status) {
		return nil, apperr.Validation("Invalid status")
	}
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, apperr.Validation("Invalid enquiry id")
	}

	enquiry, err := s.enquiries.SetStatus(ctx, id, status)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Enquiry not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return enquiry, nil
}
