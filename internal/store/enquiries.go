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

type Enquiries struct {
	coll *mongo.Collection
}

func NewEnquiries(db *mongo.Database) *Enquiries {
	return &Enquiries{coll: db.Collection(EnquiriesCollection)}
}

func (e *Enquiries) Insert(ctx context.Context, enquiry *models.Enquiry) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	if enquiry.ID.IsZero() {
		enquiry.ID = primitive.NewObjectID()
	}
	_, err := e.coll.InsertOne(ctx, enquiry)
	return translate(err)
}

// Find lists enquiries newest first, restricted to agent when it is set.
func (e *Enquiries) Find(ctx context.Context, agent *primitive.ObjectID) ([]models.Enquiry, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	filter := bson.M{}
	if agent != nil {
		filter["agent"] = *agent
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := e.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Enquiry](ctx, cursor)
}

func (e *Enquiries) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Enquiry, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var enquiry models.Enquiry
	err := e.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
		opts,
	).Decode(&enquiry)
	if err != nil {
		return nil, translate(err)
	}
	return &enquiry, nil
}
