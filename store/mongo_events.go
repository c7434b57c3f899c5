package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tessera/models"
)

type MongoEventStore struct {
	coll *mongo.Collection
}

func (s *MongoEventStore) Insert(ctx context.Context, e *models.Event) error {
	_, err := s.coll.InsertOne(ctx, e)
	return err
}

func (s *MongoEventStore) GetByID(ctx context.Context, id string) (*models.Event, error) {
	var e models.Event
	err := s.coll.FindOne(ctx, bson.M{"eventid": id}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *MongoEventStore) List(ctx context.Context, onlyPublished bool) ([]models.Event, error) {
	filter := bson.M{}
	if onlyPublished {
		filter["ispublished"] = true
	}
	return s.find(ctx, filter)
}

// Category and venue listings are public surfaces, so drafts stay hidden.
func (s *MongoEventStore) ListByCategory(ctx context.Context, categoryID string) ([]models.Event, error) {
	return s.find(ctx, bson.M{"categoryid": categoryID, "ispublished": true})
}

func (s *MongoEventStore) ListByVenue(ctx context.Context, venueID string) ([]models.Event, error) {
	return s.find(ctx, bson.M{"venueid": venueID, "ispublished": true})
}

func (s *MongoEventStore) find(ctx context.Context, filter bson.M) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *MongoEventStore) Update(ctx context.Context, e *models.Event) error {
	e.UpdatedAt = time.Now().UTC()
	res, err := s.coll.ReplaceOne(ctx, bson.M{"eventid": e.EventID}, e)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoEventStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"eventid": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoEventStore) SetPublished(ctx context.Context, id string, published bool) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"eventid": id}, bson.M{
		"$set": bson.M{"ispublished": published, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoEventStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

func (s *MongoEventStore) CountPublished(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{"ispublished": true})
}

func (s *MongoEventStore) Recent(ctx context.Context, n int) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(int64(n))
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
