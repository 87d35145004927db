package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Shoys/wd-lab/internal/models"
	"github.com/Shoys/wd-lab/internal/store"
)

type RequestStore struct {
	collection *mongo.Collection
}

func (s *RequestStore) Create(ctx context.Context, req *models.CourseRequest) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	now := time.Now()
	req.ID = primitive.NewObjectID()
	req.Status = models.StatusPending
	req.CreatedAt = now
	req.UpdatedAt = now

	_, err := s.collection.InsertOne(ctx, req)
	return err
}

func (s *RequestStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.CourseRequest, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *RequestStore) FindByStudentAndCourse(ctx context.Context, student, course primitive.ObjectID) (*models.CourseRequest, error) {
	return s.findOne(ctx, bson.M{"student": student, "course": course})
}

func (s *RequestStore) findOne(ctx context.Context, filter bson.M) (*models.CourseRequest, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var req models.CourseRequest
	err := s.collection.FindOne(ctx, filter).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *RequestStore) ListPendingByCourse(ctx context.Context, course primitive.ObjectID) ([]models.CourseRequest, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	cursor, err := s.collection.Find(ctx, bson.M{"course": course, "status": models.StatusPending})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	requests := []models.CourseRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *RequestStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.RequestStatus) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
