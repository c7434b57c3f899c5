package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo holds the client and one handle per collection. It is connected
// once at startup and passed to the mongo-backed stores.
type Mongo struct {
	Client *mongo.Client

	Users      *mongo.Collection
	Events     *mongo.Collection
	Categories *mongo.Collection
	Venues     *mongo.Collection
	Orders     *mongo.Collection
	Tickets    *mongo.Collection
	Payments   *mongo.Collection
	Media      *mongo.Collection
	Suppliers  *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	database := client.Database(dbName)
	return &Mongo{
		Client:     client,
		Users:      database.Collection("users"),
		Events:     database.Collection("events"),
		Categories: database.Collection("categories"),
		Venues:     database.Collection("venues"),
		Orders:     database.Collection("orders"),
		Tickets:    database.Collection("tickets"),
		Payments:   database.Collection("payments"),
		Media:      database.Collection("media"),
		Suppliers:  database.Collection("suppliers"),
	}, nil
}

// EnsureIndexes creates the unique indexes the data model relies on:
// user email, category name and payment tx_ref.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	if _, err := m.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.M{"email": 1}, Options: unique,
	}); err != nil {
		return err
	}
	if _, err := m.Categories.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.M{"name": 1}, Options: unique,
	}); err != nil {
		return err
	}
	_, err := m.Payments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.M{"tx_ref": 1}, Options: unique,
	})
	return err
}

// IsDuplicateKeyError detects Mongo unique-index violations (code 11000).
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if we, ok := err.(mongo.WriteException); ok {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return mongo.IsDuplicateKeyError(err)
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
