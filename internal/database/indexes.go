package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/AyishaBeevi/ab-backend/internal/store"
)

func ensure(db *mongo.Database, log *zap.Logger, collection string, models []mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
	if err != nil {
		log.Warn("index creation failed", zap.String("collection", collection), zap.Error(err))
		return err
	}
	log.Info("indexes ensured", zap.String("collection", collection), zap.Strings("indexes", names))
	return nil
}

func EnsurePropertyIndexes(db *mongo.Database, log *zap.Logger) error {
	asc := func(key, name string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: key, Value: 1}}, Options: options.Index().SetName(name)}
	}
	return ensure(db, log, store.PropertiesCollection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName("slug_unique").SetUnique(true),
		},
		asc("listingType", "listingType_index"),
		asc("price", "price_index"),
		asc("bedrooms", "bedrooms_index"),
		asc("location.city", "city_index"),
		asc("agent", "agent_index"),
		asc("isApproved", "isApproved_index"),
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_desc"),
		},
		{
			Keys:    bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().SetName("title_description_text"),
		},
	})
}

func EnsureUserIndexes(db *mongo.Database, log *zap.Logger) error {
	return ensure(db, log, store.UsersCollection, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email_unique").SetUnique(true),
	}})
}

func EnsureEnquiryIndexes(db *mongo.Database, log *zap.Logger) error {
	return ensure(db, log, store.EnquiriesCollection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "agent", Value: 1}}, Options: options.Index().SetName("agent_index")},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("createdAt_desc")},
	})
}

func EnsureContactIndexes(db *mongo.Database, log *zap.Logger) error {
	return ensure(db, log, store.ContactsCollection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("createdAt_desc")},
	})
}

func EnsureAuditLogIndexes(db *mongo.Database, log *zap.Logger) error {
	return ensure(db, log, store.AuditLogsCollection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("createdAt_desc")},
	})
}

// EnsureAll creates every index. Failures are logged and the first one is
// returned; the remaining collections are still attempted.
func EnsureAll(db *mongo.Database, log *zap.Logger) error {
	var first error
	for _, fn := range []func(*mongo.Database, *zap.Logger) error{
		EnsurePropertyIndexes,
		EnsureUserIndexes,
		EnsureEnquiryIndexes,
		EnsureContactIndexes,
		EnsureAuditLogIndexes,
	} {
		if err := fn(db, log); err != nil && first == nil {
			first = err
		}
	}
	return first
}
