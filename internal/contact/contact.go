// Package contact handles general contact messages and their admin inbox.
package contact

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AyishaBeevi/ab-backend/internal/access"
	"github.com/AyishaBeevi/ab-backend/internal/apperr"
	"github.com/AyishaBeevi/ab-backend/internal/models"
	"github.com/AyishaBeevi/ab-backend/internal/store"
)

type Store interface {
	Insert(ctx context.Context, contact *models.Contact) error
	Find(ctx context.Context, f models.ContactFilter, sort models.ContactSort) ([]models.Contact, error)
	SetFlag(ctx context.Context, id primitive.ObjectID, field string, value bool, handledBy primitive.ObjectID) (*models.Contact, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Service struct {
	contacts Store
	now      func() time.Time
}

func NewService(contacts Store) *Service {
	return &Service{contacts: contacts, now: time.Now}
}

type SubmitInput struct {
	Name     string `json:"name" binding:"required"`
	Contact  string `json:"contact" binding:"required"`
	Message  string `json:"message" binding:"required"`
	Method   string `json:"method"`
	Priority string `json:"priority"`
}

// DetectType classifies a contact value: anything with an "@" is an email,
// everything else a phone number.
func DetectType(contact string) string {
	if strings.Contains(contact, "@") {
		return models.ContactTypeEmail
	}
	return models.ContactTypePhone
}

func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.Contact, error) {
	name := strings.TrimSpace(in.Name)
	contact := strings.TrimSpace(in.Contact)
	message := strings.TrimSpace(in.Message)
	if name == "" || contact == "" || message == "" {
		return nil, apperr.Validation("name, contact and message are required")
	}

	method := strings.ToLower(strings.TrimSpace(in.Method))
	if method == "" {
		method = models.PreferCall
	}
	if !models.Contains(models.ContactPrefs, method) {
		return nil, apperr.Validation("method must be call or message")
	}
	priority := strings.ToLower(strings.TrimSpace(in.Priority))
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.Contains(models.Priorities, priority) {
		return nil, apperr.Validation("priority must be low, medium or high")
	}

	now := s.now()
	msg := &models.Contact{
		Name:        name,
		Contact:     contact,
		Message:     message,
		Method:      method,
		ContactType: DetectType(contact),
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.contacts.Insert(ctx, msg); err != nil {
		return nil, apperr.Internal(err)
	}
	return msg, nil
}

type InboxQuery struct {
	Unread   string `form:"unread"`
	Archived string `form:"archived"`
	Search   string `form:"search"`
	Sort     string `form:"sort"`
}

func (s *Service) Inbox(ctx context.Context, caller *access.Caller, q InboxQuery) ([]models.Contact, error) {
	if err := access.Require(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	f := models.ContactFilter{
		UnreadOnly:   q.Unread == "true",
		ArchivedOnly: q.Archived == "true",
		Search:       strings.TrimSpace(q.Search),
	}
	var sort models.ContactSort
	switch models.ContactSort(q.Sort) {
	case models.ContactSortNewest, models.ContactSortOldest:
		sort = models.ContactSort(q.Sort)
	default:
		sort = models.ContactSortUnreadFirst
	}

	msgs, err := s.contacts.Find(ctx, f, sort)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return msgs, nil
}

func (s *Service) MarkRead(ctx context.Context, caller *access.Caller, rawID string) (*models.Contact, error) {
	return s.setFlag(ctx, caller, rawID, "isRead")
}

func (s *Service) Archive(ctx context.Context, caller *access.Caller, rawID string) (*models.Contact, error) {
	return s.setFlag(ctx, caller, rawID, "archived")
}

func (s *Service) setFlag(ctx context.Context, caller *access.Caller, rawID, field string) (*models.Contact, error) {
	if err := access.Require(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, apperr.Validation("Invalid message id")
	}
	msg, err := s.contacts.SetFlag(ctx, id, field, true, caller.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Message not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return msg, nil
}

func (s *Service) Delete(ctx context.Context, caller *access.Caller, rawID string) error {
	if err := access.Require(caller, models.RoleAdmin); err != nil {
		return err
	}
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return apperr.Validation("Invalid message id")
	}
	if err := s.contacts.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Message not found")
		}
		return apperr.Internal(err)
	}
	return nil
}
