package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AyishaBeevi/ab-backend/internal/models"
)

// AuditLogs exposes only append and read; entries are never modified.
type AuditLogs struct {
	coll *mongo.Collection
}

func NewAuditLogs(db *mongo.Database) *AuditLogs {
	return &AuditLogs{coll: db.Collection(AuditLogsCollection)}
}

func (a *AuditLogs) Insert(ctx context.Context, entry *models.AuditLog) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Meta == nil {
		entry.Meta = map[string]any{}
	}
	_, err := a.coll.InsertOne(ctx, entry)
	return err
}

func (a *AuditLogs) List(ctx context.Context, skip, limit int64) ([]models.AuditLog, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := a.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.AuditLog](ctx, cursor)
}

func (a *AuditLogs) Count(ctx context.Context) (int64, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	return a.coll.CountDocuments(ctx, bson.M{})
}
