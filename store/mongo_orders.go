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

type MongoOrderStore struct {
	coll *mongo.Collection
}

func (s *MongoOrderStore) Insert(ctx context.Context, o *models.Order) error {
	_, err := s.coll.InsertOne(ctx, o)
	return err
}

func (s *MongoOrderStore) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := s.coll.FindOne(ctx, bson.M{"orderid": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *MongoOrderStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.find(ctx, bson.M{"userid": userID}, 0)
}

func (s *MongoOrderStore) List(ctx context.Context) ([]models.Order, error) {
	return s.find(ctx, bson.M{}, 0)
}

func (s *MongoOrderStore) Recent(ctx context.Context, n int) ([]models.Order, error) {
	return s.find(ctx, bson.M{}, int64(n))
}

func (s *MongoOrderStore) find(ctx context.Context, filter bson.M, limit int64) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *MongoOrderStore) SetPaymentStatus(ctx context.Context, id, status string) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"orderid": id}, bson.M{
		"$set": bson.M{"payment_status": status, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoOrderStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"orderid": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoOrderStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

func (s *MongoOrderStore) CountByStatus(ctx context.Context, status string) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{"payment_status": status})
}

func (s *MongoOrderStore) PaidRevenue(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"payment_status": models.OrderPaid}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$total_amount"}}}},
	}
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

type MongoTicketStore struct {
	coll *mongo.Collection
}

func (s *MongoTicketStore) Insert(ctx context.Context, t *models.Ticket) error {
	_, err := s.coll.InsertOne(ctx, t)
	return err
}

func (s *MongoTicketStore) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	var t models.Ticket
	err := s.coll.FindOne(ctx, bson.M{"ticketid": id}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *MongoTicketStore) ListByOrder(ctx context.Context, orderID string) ([]models.Ticket, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"orderid": orderID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []models.Ticket
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (s *MongoTicketStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

type MongoPaymentStore struct {
	coll *mongo.Collection
}

func (s *MongoPaymentStore) Insert(ctx context.Context, p *models.Payment) error {
	_, err := s.coll.InsertOne(ctx, p)
	if db.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (s *MongoPaymentStore) GetByTxRef(ctx context.Context, txRef string) (*models.Payment, error) {
	var p models.Payment
	err := s.coll.FindOne(ctx, bson.M{"tx_ref": txRef}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkSuccess is a compare-and-swap on the payment status: the filter
// matches only while the status is not yet SUCCESS, so concurrent
// settlement attempts collapse to a single transition.
func (s *MongoPaymentStore) MarkSuccess(ctx context.Context, txRef, gatewayRef string, amount float64, currency string) (bool, error) {
	set := bson.M{
		"status":     models.PaymentSuccess,
		"updated_at": time.Now().UTC(),
	}
	if gatewayRef != "" {
		set["gateway_ref"] = gatewayRef
	}
	if amount > 0 {
		set["amount"] = amount
	}
	if currency != "" {
		set["currency"] = currency
	}
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"tx_ref": txRef, "status": bson.M{"$ne": models.PaymentSuccess}},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}
