package handlers_test

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Shoys/wd-lab/internal/models"
	"github.com/Shoys/wd-lab/internal/store"
)

// In-memory store fakes backing the handler tests.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[primitive.ObjectID]models.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return store.ErrDuplicate
		}
	}
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *fakeUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *fakeUserStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.User{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeCourseStore struct {
	mu      sync.Mutex
	courses map[primitive.ObjectID]models.Course
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: map[primitive.ObjectID]models.Course{}}
}

func (s *fakeCourseStore) Create(_ context.Context, course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	course.ID = primitive.NewObjectID()
	course.CreatedAt = now
	course.UpdatedAt = now
	if course.Students == nil {
		course.Students = []primitive.ObjectID{}
	}
	s.courses[course.ID] = *course
	return nil
}

func (s *fakeCourseStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *fakeCourseStore) FindByIDAndCreator(_ context.Context, id, creator primitive.ObjectID) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok || c.Creator != creator {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *fakeCourseStore) Update(_ context.Context, id primitive.ObjectID, name, description string) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c.Name = name
	c.Description = description
	c.UpdatedAt = time.Now()
	s.courses[id] = c
	return &c, nil
}

func (s *fakeCourseStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.courses, id)
	return nil
}

func (s *fakeCourseStore) ListAll(_ context.Context) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Course{}
	for _, c := range s.courses {
		out = append(out, c)
	}
	return out, nil
}

func (s *fakeCourseStore) ListByCreator(_ context.Context, creator primitive.ObjectID) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Course{}
	for _, c := range s.courses {
		if c.Creator == creator {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeCourseStore) ListByStudent(_ context.Context, student primitive.ObjectID) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Course{}
	for _, c := range s.courses {
		if c.HasStudent(student) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeCourseStore) AddStudent(_ context.Context, courseID, studentID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[courseID]
	if !ok {
		return store.ErrNotFound
	}
	if !c.HasStudent(studentID) {
		c.Students = append(c.Students, studentID)
		c.UpdatedAt = time.Now()
		s.courses[courseID] = c
	}
	return nil
}

type fakeRequestStore struct {
	mu       sync.Mutex
	requests map[primitive.ObjectID]models.CourseRequest
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: map[primitive.ObjectID]models.CourseRequest{}}
}

func (s *fakeRequestStore) Create(_ context.Context, req *models.CourseRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	req.ID = primitive.NewObjectID()
	req.Status = models.StatusPending
	req.CreatedAt = now
	req.UpdatedAt = now
	s.requests[req.ID] = *req
	return nil
}

func (s *fakeRequestStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.CourseRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (s *fakeRequestStore) FindByStudentAndCourse(_ context.Context, student, course primitive.ObjectID) (*models.CourseRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.Student == student && r.Course == course {
			r := r
			return &r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeRequestStore) ListPendingByCourse(_ context.Context, course primitive.ObjectID) ([]models.CourseRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.CourseRequest{}
	for _, r := range s.requests {
		if r.Course == course && r.Status == models.StatusPending {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeRequestStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.RequestStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return store.ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = time.Now()
	s.requests[id] = r
	return nil
}
