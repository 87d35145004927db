// Package mongostore implements the store interfaces on MongoDB.
package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const opTimeout = 5 * time.Second

type Store struct {
	Users    *UserStore
	Courses  *CourseStore
	Requests *RequestStore
}

func New(client *mongo.Client, dbName string) *Store {
	db := client.Database(dbName)
	return &Store{
		Users:    &UserStore{collection: db.Collection("users")},
		Courses:  &CourseStore{collection: db.Collection("courses")},
		Requests: &RequestStore{collection: db.Collection("course_requests")},
	}
}

// EnsureIndexes creates the indexes the stores rely on. Called once at
// startup; safe to call repeatedly.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.Users.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = s.Requests.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "course", Value: 1}, {Key: "status", Value: 1}},
	})
	return err
}

func opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}
