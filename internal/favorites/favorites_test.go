package favorites

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AyishaBeevi/ab-backend/internal/access"
	"github.com/AyishaBeevi/ab-backend/internal/apperr"
	"github.com/AyishaBeevi/ab-backend/internal/models"
	"github.com/AyishaBeevi/ab-backend/internal/store"
)

type fakeUsers struct {
	users map[primitive.ObjectID]*models.User
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	cp.Favorites = append([]primitive.ObjectID{}, u.Favorites...)
	return &cp, nil
}

func (f *fakeUsers) AddFavorite(_ context.Context, userID, propertyID primitive.ObjectID) ([]primitive.ObjectID, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	for _, id := range u.Favorites {
		if id == propertyID {
			return u.Favorites, nil
		}
	}
	u.Favorites = append(u.Favorites, propertyID)
	return u.Favorites, nil
}

func (f *fakeUsers) RemoveFavorite(_ context.Context, userID, propertyID primitive.ObjectID) ([]primitive.ObjectID, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := []primitive.ObjectID{}
	for _, id := range u.Favorites {
		if id != propertyID {
			out = append(out, id)
		}
	}
	u.Favorites = out
	return out, nil
}

type fakeProps []models.Property

func (f fakeProps) Find(_ context.Context, filter models.PropertyFilter, _ models.PropertySort, _, _ int64) ([]models.Property, error) {
	out := []models.Property{}
	for _, p := range f {
		in := false
		for _, id := range filter.IDs {
			if id == p.ID {
				in = true
			}
		}
		if in && p.IsApproved == *filter.Approved && p.IsActive == *filter.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func setup(props fakeProps) (*Ledger, *access.Caller, *fakeUsers) {
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser, Favorites: []primitive.ObjectID{}}
	users := &fakeUsers{users: map[primitive.ObjectID]*models.User{user.ID: user}}
	return NewLedger(users, props), &access.Caller{ID: user.ID, Role: user.Role}, users
}

func TestToggleTwiceIsIdentity(t *testing.T) {
	ledger, caller, users := setup(nil)
	propertyID := primitive.NewObjectID()
	before := append([]primitive.ObjectID{}, users.users[caller.ID].Favorites...)

	res, err := ledger.Toggle(context.Background(), caller, propertyID.Hex())
	require.NoError(t, err)
	require.True(t, res.IsFavorited)
	require.Equal(t, []primitive.ObjectID{propertyID}, res.Favorites)

	res, err = ledger.Toggle(context.Background(), caller, propertyID.Hex())
	require.NoError(t, err)
	require.False(t, res.IsFavorited)
	require.ElementsMatch(t, before, res.Favorites)
}

func TestToggleRejectsInvalidID(t *testing.T) {
	ledger, caller, _ := setup(nil)
	_, err := ledger.Toggle(context.Background(), caller, "not-an-id")
	require.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = ledger.Toggle(context.Background(), nil, primitive.NewObjectID().Hex())
	require.True(t, apperr.Is(err, apperr.KindAuthentication))
}

func TestListFiltersHiddenListings(t *testing.T) {
	visible := models.Property{ID: primitive.NewObjectID(), IsApproved: true, IsActive: true}
	pending := models.Property{ID: primitive.NewObjectID(), IsApproved: false, IsActive: true}
	inactive := models.Property{ID: primitive.NewObjectID(), IsApproved: true, IsActive: false}
	ledger, caller, _ := setup(fakeProps{visible, pending, inactive})

	for _, p := range []models.Property{visible, pending, inactive} {
		_, err := ledger.Toggle(context.Background(), caller, p.ID.Hex())
		require.NoError(t, err)
	}

	list, err := ledger.List(context.Background(), caller)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, visible.ID, list[0].ID)
}
