// Package store defines the persistence interfaces the HTTP handlers depend
// on. The production implementation lives in store/mongostore; tests supply
// in-memory fakes.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Shoys/wd-lab/internal/models"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a write violates a uniqueness
	// constraint (username, roster membership).
	ErrDuplicate = errors.New("duplicate")
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error)
	// FindByIDAndCreator resolves a course only when creator owns it.
	// A course owned by someone else yields ErrNotFound, same as a
	// missing course.
	FindByIDAndCreator(ctx context.Context, id, creator primitive.ObjectID) (*models.Course, error)
	Update(ctx context.Context, id primitive.ObjectID, name, description string) (*models.Course, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListAll(ctx context.Context) ([]models.Course, error)
	ListByCreator(ctx context.Context, creator primitive.ObjectID) ([]models.Course, error)
	ListByStudent(ctx context.Context, student primitive.ObjectID) ([]models.Course, error)
	// AddStudent appends student to the roster with set semantics: adding
	// an existing member is a no-op, never an error.
	AddStudent(ctx context.Context, courseID, studentID primitive.ObjectID) error
}

type RequestStore interface {
	Create(ctx context.Context, req *models.CourseRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.CourseRequest, error)
	// FindByStudentAndCourse matches on the pair regardless of status.
	FindByStudentAndCourse(ctx context.Context, student, course primitive.ObjectID) (*models.CourseRequest, error)
	ListPendingByCourse(ctx context.Context, course primitive.ObjectID) ([]models.CourseRequest, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.RequestStatus) error
}
