package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Shoys/wd-lab/internal/models"
	"github.com/Shoys/wd-lab/internal/store"
)

type CourseStore struct {
	collection *mongo.Collection
}

func (s *CourseStore) Create(ctx context.Context, course *models.Course) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	now := time.Now()
	course.ID = primitive.NewObjectID()
	course.CreatedAt = now
	course.UpdatedAt = now
	if course.Students == nil {
		course.Students = []primitive.ObjectID{}
	}

	_, err := s.collection.InsertOne(ctx, course)
	return err
}

func (s *CourseStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *CourseStore) FindByIDAndCreator(ctx context.Context, id, creator primitive.ObjectID) (*models.Course, error) {
	return s.findOne(ctx, bson.M{"_id": id, "creator": creator})
}

func (s *CourseStore) findOne(ctx context.Context, filter bson.M) (*models.Course, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var course models.Course
	err := s.collection.FindOne(ctx, filter).Decode(&course)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *CourseStore) Update(ctx context.Context, id primitive.ObjectID, name, description string) (*models.Course, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":        name,
		"description": description,
		"updated_at":  time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var course models.Course
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&course)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *CourseStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *CourseStore) ListAll(ctx context.Context) ([]models.Course, error) {
	return s.list(ctx, bson.M{})
}

func (s *CourseStore) ListByCreator(ctx context.Context, creator primitive.ObjectID) ([]models.Course, error) {
	return s.list(ctx, bson.M{"creator": creator})
}

func (s *CourseStore) ListByStudent(ctx context.Context, student primitive.ObjectID) ([]models.Course, error) {
	return s.list(ctx, bson.M{"students": student})
}

func (s *CourseStore) list(ctx context.Context, filter bson.M) ([]models.Course, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	courses := []models.Course{}
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// AddStudent uses $addToSet so concurrent acceptances for the same student
// cannot produce duplicate roster entries.
func (s *CourseStore) AddStudent(ctx context.Context, courseID, studentID primitive.ObjectID) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	update := bson.M{
		"$addToSet": bson.M{"students": studentID},
		"$set":      bson.M{"updated_at": time.Now()},
	}
	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": courseID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
