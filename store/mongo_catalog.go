package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tessera/db"
	"tessera/models"
)

type MongoCategoryStore struct {
	coll *mongo.Collection
}

func (s *MongoCategoryStore) Insert(ctx context.Context, c *models.Category) error {
	_, err := s.coll.InsertOne(ctx, c)
	if db.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (s *MongoCategoryStore) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	err := s.coll.FindOne(ctx, bson.M{"categoryid": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MongoCategoryStore) GetByName(ctx context.Context, name string) (*models.Category, error) {
	var c models.Category
	err := s.coll.FindOne(ctx, bson.M{"name": name}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MongoCategoryStore) List(ctx context.Context) ([]models.Category, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *MongoCategoryStore) Update(ctx context.Context, c *models.Category) error {
	c.UpdatedAt = time.Now().UTC()
	res, err := s.coll.ReplaceOne(ctx, bson.M{"categoryid": c.CategoryID}, c)
	if db.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoCategoryStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"categoryid": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoCategoryStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

type MongoVenueStore struct {
	coll *mongo.Collection
}

func (s *MongoVenueStore) Insert(ctx context.Context, v *models.Venue) error {
	_, err := s.coll.InsertOne(ctx, v)
	return err
}

func (s *MongoVenueStore) GetByID(ctx context.Context, id string) (*models.Venue, error) {
	var v models.Venue
	err := s.coll.FindOne(ctx, bson.M{"venueid": id}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *MongoVenueStore) List(ctx context.Context) ([]models.Venue, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var venues []models.Venue
	if err := cursor.All(ctx, &venues); err != nil {
		return nil, err
	}
	return venues, nil
}

func (s *MongoVenueStore) Update(ctx context.Context, v *models.Venue) error {
	v.UpdatedAt = time.Now().UTC()
	res, err := s.coll.ReplaceOne(ctx, bson.M{"venueid": v.VenueID}, v)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoVenueStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"venueid": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoVenueStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

type MongoSupplierStore struct {
	coll *mongo.Collection
}

func (s *MongoSupplierStore) Insert(ctx context.Context, sup *models.Supplier) error {
	_, err := s.coll.InsertOne(ctx, sup)
	return err
}

func (s *MongoSupplierStore) GetByID(ctx context.Context, id string) (*models.Supplier, error) {
	var sup models.Supplier
	err := s.coll.FindOne(ctx, bson.M{"supplierid": id}).Decode(&sup)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sup, nil
}

func (s *MongoSupplierStore) ListActive(ctx context.Context, f SupplierFilter) ([]models.Supplier, error) {
	filter := bson.M{"isactive": true}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.PopularOnly {
		filter["ispopular"] = true
	}
	if f.TrendingOnly {
		filter["istrending"] = true
	}
	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var suppliers []models.Supplier
	if err := cursor.All(ctx, &suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (s *MongoSupplierStore) Update(ctx context.Context, sup *models.Supplier) error {
	sup.UpdatedAt = time.Now().UTC()
	res, err := s.coll.ReplaceOne(ctx, bson.M{"supplierid": sup.SupplierID}, sup)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoSupplierStore) SoftDelete(ctx context.Context, id string) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"supplierid": id}, bson.M{
		"$set": bson.M{"isactive": false, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type MongoMediaStore struct {
	coll *mongo.Collection
}

func (s *MongoMediaStore) Insert(ctx context.Context, m *models.Media) error {
	_, err := s.coll.InsertOne(ctx, m)
	return err
}

func (s *MongoMediaStore) List(ctx context.Context) ([]models.Media, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var media []models.Media
	if err := cursor.All(ctx, &media); err != nil {
		return nil, err
	}
	return media, nil
}

func (s *MongoMediaStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"mediaid": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
