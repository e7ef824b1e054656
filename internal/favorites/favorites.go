// Package favorites keeps each user's set of saved listings.
package favorites

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AyishaBeevi/ab-backend/internal/access"
	"github.com/AyishaBeevi/ab-backend/internal/apperr"
	"github.com/AyishaBeevi/ab-backend/internal/models"
	"github.com/AyishaBeevi/ab-backend/internal/store"
)

type Users interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	AddFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) ([]primitive.ObjectID, error)
	RemoveFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) ([]primitive.ObjectID, error)
}

type Properties interface {
	Find(ctx context.Context, f models.PropertyFilter, sort models.PropertySort, skip, limit int64) ([]models.Property, error)
}

type Ledger struct {
	users Users
	props Properties
}

func NewLedger(users Users, props Properties) *Ledger {
	return &Ledger{users: users, props: props}
}

type ToggleResult struct {
	IsFavorited bool
	Favorites   []primitive.ObjectID
}

// Toggle removes the listing from the caller's favorites when present and
// adds it otherwise. The set is changed with a single $addToSet or $pull so
// concurrent toggles never produce duplicates.
func (l *Ledger) Toggle(ctx context.Context, caller *access.Caller, rawID string) (ToggleResult, error) {
	if err := access.Require(caller); err != nil {
		return ToggleResult{}, err
	}
	propertyID, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return ToggleResult{}, apperr.Validation("Invalid property id")
	}

	user, err := l.user(ctx, caller.ID)
	if err != nil {
		return ToggleResult{}, err
	}

	mutate, favorited := l.users.AddFavorite, true
	for _, id := range user.Favorites {
		if id == propertyID {
			mutate, favorited = l.users.RemoveFavorite, false
			break
		}
	}

	favorites, err := mutate(ctx, caller.ID, propertyID)
	if errors.Is(err, store.ErrNotFound) {
		return ToggleResult{}, apperr.NotFound("User not found")
	}
	if err != nil {
		return ToggleResult{}, apperr.Internal(err)
	}
	if favorites == nil {
		favorites = []primitive.ObjectID{}
	}
	return ToggleResult{IsFavorited: favorited, Favorites: favorites}, nil
}

// List returns the caller's favorited listings that are currently public.
// Hidden or deleted listings stay in the set but are not returned.
func (l *Ledger) List(ctx context.Context, caller *access.Caller) ([]models.Property, error) {
	if err := access.Require(caller); err != nil {
		return nil, err
	}
	user, err := l.user(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if len(user.Favorites) == 0 {
		return []models.Property{}, nil
	}

	f := models.PublicFilter()
	f.IDs = user.Favorites
	properties, err := l.props.Find(ctx, f, models.SortNewest, 0, 0)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return properties, nil
}

func (l *Ledger) user(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := l.users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}
