// Package account manages user registration, login and admin user
// management.
package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/AyishaBeevi/ab-backend/internal/access"
	"github.com/AyishaBeevi/ab-backend/internal/apperr"
	"github.com/AyishaBeevi/ab-backend/internal/models"
	"github.com/AyishaBeevi/ab-backend/internal/store"
)

type Users interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role string) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Tokens interface {
	Sign(userID primitive.ObjectID) (string, error)
}

type Auditor interface {
	Record(ctx context.Context, admin primitive.ObjectID, action, targetType string, target primitive.ObjectID, meta map[string]any)
}

type Service struct {
	users  Users
	tokens Tokens
	audit  Auditor
	log    *zap.Logger
	now    func() time.Time
	cost   int
}

func NewService(users Users, tokens Tokens, audit Auditor, log *zap.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		audit:  audit,
		log:    log.Named("account"),
		now:    time.Now,
		cost:   bcrypt.DefaultCost,
	}
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a plain user account. A taken email is a conflict.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, apperr.Validation("Name, email and password are required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("Email already registered")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	now := s.now()
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Favorites:    []primitive.ObjectID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("Email already registered")
		}
		return nil, apperr.Internal(err)
	}
	s.log.Info("user registered", zap.String("id", user.ID.Hex()))
	return user, nil
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks the credentials and issues an access token. Unknown emails
// and wrong passwords produce the same error.
func (s *Service) Login(ctx context.Context, in LoginInput) (string, *models.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return "", nil, apperr.Validation("Email and password required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil, apperr.Validation("Invalid credentials")
	}
	if err != nil {
		return "", nil, apperr.Internal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return "", nil, apperr.Validation("Invalid credentials")
	}

	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return "", nil, apperr.Internal(err)
	}
	return token, user, nil
}

func (s *Service) Me(ctx context.Context, caller *access.Caller) (*models.User, error) {
	if err := access.Require(caller); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, caller.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Unauthenticated("Not authorized, user not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (s *Service) List(ctx context.Context, caller *access.Caller) ([]models.User, error) {
	if err := access.Require(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

// SetRole changes a user's role and records ROLE_CHANGED.
func (s *Service) SetRole(ctx context.Context, caller *access.Caller, rawID, role string) (*models.User, error) {
	if err := access.Require(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	if !models.Contains(models.Roles, role) {
		return nil, apperr.Validation("Invalid role")
	}
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, apperr.Validation("Invalid user id")
	}

	user, err := s.users.SetRole(ctx, id, role)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.audit.Record(ctx, caller.ID, models.AuditRoleChanged, models.TargetUser, user.ID,
		map[string]any{"newRole": role})
	return user, nil
}

// Delete removes a user. Admins cannot delete themselves.
func (s *Service) Delete(ctx context.Context, caller *access.Caller, rawID string) error {
	if err := access.Require(caller, models.RoleAdmin); err != nil {
		return err
	}
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return apperr.Validation("Invalid user id")
	}
	if id == caller.ID {
		return apperr.Validation("Admin cannot delete self")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal(err)
	}
	return nil
}
