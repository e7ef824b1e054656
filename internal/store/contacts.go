package store

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AyishaBeevi/ab-backend/internal/models"
)

type Contacts struct {
	coll *mongo.Collection
}

func NewContacts(db *mongo.Database) *Contacts {
	return &Contacts{coll: db.Collection(ContactsCollection)}
}

// ContactFilterDoc translates f. The search term is matched literally and
// case-insensitively against name, contact and message.
func ContactFilterDoc(f models.ContactFilter) bson.M {
	doc := bson.M{}
	if f.UnreadOnly {
		doc["isRead"] = false
	}
	if f.ArchivedOnly {
		doc["archived"] = true
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		doc["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"contact": pattern},
			bson.M{"message": pattern},
		}
	}
	return doc
}

func ContactSortDoc(s models.ContactSort) bson.D {
	switch s {
	case models.ContactSortNewest:
		return bson.D{{Key: "createdAt", Value: -1}}
	case models.ContactSortOldest:
		return bson.D{{Key: "createdAt", Value: 1}}
	default:
		return bson.D{{Key: "isRead", Value: 1}, {Key: "createdAt", Value: -1}}
	}
}

func (c *Contacts) Insert(ctx context.Context, contact *models.Contact) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	if contact.ID.IsZero() {
		contact.ID = primitive.NewObjectID()
	}
	_, err := c.coll.InsertOne(ctx, contact)
	return translate(err)
}

func (c *Contacts) Find(ctx context.Context, f models.ContactFilter, sort models.ContactSort) ([]models.Contact, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	cursor, err := c.coll.Find(ctx, ContactFilterDoc(f), options.Find().SetSort(ContactSortDoc(sort)))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Contact](ctx, cursor)
}

// SetFlag sets one of the isRead/archived booleans, records the admin who
// handled the message and returns the document.
func (c *Contacts) SetFlag(ctx context.Context, id primitive.ObjectID, field string, value bool, handledBy primitive.ObjectID) (*models.Contact, error) {
	if field != "isRead" && field != "archived" {
		return nil, fmt.Errorf("contact flag %q cannot be set", field)
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	set := bson.M{field: value, "updatedAt": time.Now()}
	if !handledBy.IsZero() {
		set["handledBy"] = handledBy
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var contact models.Contact
	err := c.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&contact)
	if err != nil {
		return nil, translate(err)
	}
	return &contact, nil
}

func (c *Contacts) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
