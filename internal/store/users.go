package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AyishaBeevi/ab-backend/internal/models"
)

type Users struct {
	coll *mongo.Collection
}

func NewUsers(db *mongo.Database) *Users {
	return &Users{coll: db.Collection(UsersCollection)}
}

func (u *Users) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var user models.User
	if err := u.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translate(err)
	}
	if user.Favorites == nil {
		user.Favorites = []primitive.ObjectID{}
	}
	return &user, nil
}

func (u *Users) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return u.findOne(ctx, bson.M{"_id": id})
}

func (u *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return u.findOne(ctx, bson.M{"email": email})
}

func (u *Users) find(ctx context.Context, filter bson.M) ([]models.User, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := u.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.User](ctx, cursor)
}

func (u *Users) List(ctx context.Context) ([]models.User, error) {
	return u.find(ctx, bson.M{})
}

func (u *Users) FindByRole(ctx context.Context, role string) ([]models.User, error) {
	return u.find(ctx, bson.M{"role": role})
}

func (u *Users) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return u.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// Insert stores user and fills in its id. A taken email yields ErrDuplicate.
func (u *Users) Insert(ctx context.Context, user *models.User) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Favorites == nil {
		user.Favorites = []primitive.ObjectID{}
	}
	_, err := u.coll.InsertOne(ctx, user)
	return translate(err)
}

func (u *Users) update(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.User, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	if err := u.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user); err != nil {
		return nil, translate(err)
	}
	if user.Favorites == nil {
		user.Favorites = []primitive.ObjectID{}
	}
	return &user, nil
}

func (u *Users) SetRole(ctx context.Context, id primitive.ObjectID, role string) (*models.User, error) {
	return u.update(ctx, id, bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now()}})
}

// AddFavorite adds propertyID to the set and returns the updated set.
func (u *Users) AddFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) ([]primitive.ObjectID, error) {
	user, err := u.update(ctx, userID, bson.M{
		"$addToSet": bson.M{"favorites": propertyID},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return nil, err
	}
	return user.Favorites, nil
}

// RemoveFavorite removes propertyID from the set and returns the updated set.
func (u *Users) RemoveFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) ([]primitive.ObjectID, error) {
	user, err := u.update(ctx, userID, bson.M{
		"$pull": bson.M{"favorites": propertyID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return nil, err
	}
	return user.Favorites, nil
}

func (u *Users) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	res, err := u.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
