package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AyishaBeevi/ab-backend/internal/models"
)

type Properties struct {
	coll *mongo.Collection
}

func NewProperties(db *mongo.Database) *Properties {
	return &Properties{coll: db.Collection(PropertiesCollection)}
}

// PropertyFilterDoc translates f into a MongoDB query document.
func PropertyFilterDoc(f models.PropertyFilter) bson.M {
	doc := bson.M{}

	idCond := bson.M{}
	if f.ID != nil {
		idCond["$eq"] = *f.ID
	}
	if f.IDs != nil {
		idCond["$in"] = f.IDs
	}
	if f.ExcludeID != nil {
		idCond["$ne"] = *f.ExcludeID
	}
	if len(idCond) > 0 {
		doc["_id"] = idCond
	}

	if f.Slug != "" {
		doc["slug"] = f.Slug
	}
	if f.Agent != nil {
		doc["agent"] = *f.Agent
	}
	if f.Approved != nil {
		doc["isApproved"] = *f.Approved
	}
	if f.Active != nil {
		doc["isActive"] = *f.Active
	}
	if f.Search != "" {
		doc["$text"] = bson.M{"$search": f.Search}
	}
	if f.ListingType != "" {
		doc["listingType"] = f.ListingType
	}

	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		doc["price"] = price
	}

	switch {
	case f.MinBedrooms != nil && f.MaxBedrooms != nil && *f.MinBedrooms == *f.MaxBedrooms:
		doc["bedrooms"] = *f.MinBedrooms
	case f.MinBedrooms != nil || f.MaxBedrooms != nil:
		bedrooms := bson.M{}
		if f.MinBedrooms != nil {
			bedrooms["$gte"] = *f.MinBedrooms
		}
		if f.MaxBedrooms != nil {
			bedrooms["$lte"] = *f.MaxBedrooms
		}
		doc["bedrooms"] = bedrooms
	}

	if f.Bathrooms != nil {
		doc["bathrooms"] = *f.Bathrooms
	}
	switch {
	case f.City != "":
		doc["location.city"] = f.City
	case f.CityExact:
		doc["location.city"] = bson.M{"$in": bson.A{nil, ""}}
	}
	if f.Type != "" {
		doc["type"] = f.Type
	}
	if f.Furnished != nil {
		doc["furnished"] = *f.Furnished
	}
	if f.Status != "" {
		doc["status"] = f.Status
	}
	return doc
}

// PropertySortDoc returns the sort document for s. _id breaks ties so offset
// pagination never repeats or skips documents with equal keys.
func PropertySortDoc(s models.PropertySort) bson.D {
	switch s {
	case models.SortOldest:
		return bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	case models.SortLowPrice:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case models.SortHighPrice:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	}
}

// Find returns the matching listings. A zero limit means no limit.
func (p *Properties) Find(ctx context.Context, f models.PropertyFilter, sort models.PropertySort, skip, limit int64) ([]models.Property, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	opts := options.Find().SetSort(PropertySortDoc(sort))
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := p.coll.Find(ctx, PropertyFilterDoc(f), opts)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Property](ctx, cursor)
}

func (p *Properties) Count(ctx context.Context, f models.PropertyFilter) (int64, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	return p.coll.CountDocuments(ctx, PropertyFilterDoc(f))
}

func (p *Properties) FindOne(ctx context.Context, f models.PropertyFilter) (*models.Property, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var property models.Property
	if err := p.coll.FindOne(ctx, PropertyFilterDoc(f)).Decode(&property); err != nil {
		return nil, translate(err)
	}
	return &property, nil
}

func (p *Properties) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	return p.FindOne(ctx, models.PropertyFilter{ID: &id})
}

// Insert stores property and fills in its id.
func (p *Properties) Insert(ctx context.Context, property *models.Property) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	if property.ID.IsZero() {
		property.ID = primitive.NewObjectID()
	}
	_, err := p.coll.InsertOne(ctx, property)
	return translate(err)
}

// Replace overwrites the whole stored document with property.
func (p *Properties) Replace(ctx context.Context, property *models.Property) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	res, err := p.coll.ReplaceOne(ctx, bson.M{"_id": property.ID}, property)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Properties) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	res, err := p.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleFlag flips a boolean moderation flag in a single update and returns
// the new value.
func (p *Properties) ToggleFlag(ctx context.Context, id primitive.ObjectID, field string) (bool, error) {
	if field != "isFeatured" && field != "isTopPick" {
		return false, fmt.Errorf("flag %q cannot be toggled", field)
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: field, Value: bson.D{{Key: "$not", Value: bson.A{"$" + field}}}},
			{Key: "updatedAt", Value: time.Now()},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Property
	if err := p.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline, opts).Decode(&updated); err != nil {
		return false, translate(err)
	}
	if field == "isFeatured" {
		return updated.IsFeatured, nil
	}
	return updated.IsTopPick, nil
}

// SetApproved writes the approval flag and returns the updated listing.
func (p *Properties) SetApproved(ctx context.Context, id primitive.ObjectID, approved bool) (*models.Property, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Property
	err := p.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isApproved": approved, "updatedAt": time.Now()}},
		opts,
	).Decode(&updated)
	if err != nil {
		return nil, translate(err)
	}
	return &updated, nil
}
