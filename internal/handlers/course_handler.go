package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Shoys/wd-lab/internal/middleware"
	"github.com/Shoys/wd-lab/internal/models"
	"github.com/Shoys/wd-lab/internal/store"
)

type CourseHandler struct {
	courses store.CourseStore
	users   store.UserStore
	logger  *zap.Logger
}

func NewCourseHandler(courses store.CourseStore, users store.UserStore, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{courses: courses, users: users, logger: logger}
}

type coursePayload struct {
	Name        string `json:"name" validate:"required,min=1"`
	Description string `json:"description"`
}

// courseResponse is a course with the creator's public record attached.
type courseResponse struct {
	ID          primitive.ObjectID   `json:"_id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Creator     models.UserRef       `json:"creator"`
	Students    []primitive.ObjectID `json:"students"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// courseDetailResponse additionally resolves the roster to public records.
type courseDetailResponse struct {
	ID          primitive.ObjectID `json:"_id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Creator     models.UserRef     `json:"creator"`
	Students    []models.UserRef   `json:"students"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// GetAllCourses lists every course with its creator's name. Public.
func (h *CourseHandler) GetAllCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list courses", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	creatorIDs := make([]primitive.ObjectID, 0, len(courses))
	seen := map[primitive.ObjectID]bool{}
	for _, c := range courses {
		if !seen[c.Creator] {
			seen[c.Creator] = true
			creatorIDs = append(creatorIDs, c.Creator)
		}
	}
	creators, err := h.users.FindByIDs(r.Context(), creatorIDs)
	if err != nil {
		h.logger.Error("failed to resolve creators", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	names := map[primitive.ObjectID]string{}
	for _, u := range creators {
		names[u.ID] = u.Name
	}

	out := make([]courseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, courseResponse{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Creator:     models.UserRef{ID: c.Creator, Name: names[c.Creator]},
			Students:    c.Students,
			CreatedAt:   c.CreatedAt,
			UpdatedAt:   c.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateCourse persists a new course owned by the caller.
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req coursePayload
	if !decodeAndValidate(w, r, &req) {
		return
	}

	course := models.Course{
		Name:        req.Name,
		Description: req.Description,
		Creator:     middleware.CallerID(r),
	}
	if err := h.courses.Create(r.Context(), &course); err != nil {
		h.logger.Error("failed to create course", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to create course")
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

// EditCourse replaces a course's name and description. Creator only.
func (h *CourseHandler) EditCourse(w http.ResponseWriter, r *http.Request) {
	course, ok := h.ownedCourse(w, r)
	if !ok {
		return
	}

	var req coursePayload
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.courses.Update(r.Context(), course.ID, req.Name, req.Description)
	if err != nil {
		h.logger.Error("failed to update course", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to edit course")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteCourse removes a course permanently. Creator only. Enrollment
// requests referencing the course are left in place.
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	course, ok := h.ownedCourse(w, r)
	if !ok {
		return
	}

	if err := h.courses.Delete(r.Context(), course.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		h.logger.Error("failed to delete course", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete course")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCreatedCourses lists the caller's own courses.
func (h *CourseHandler) ListCreatedCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.ListByCreator(r.Context(), middleware.CallerID(r))
	if err != nil {
		h.logger.Error("failed to list created courses", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

// ListStudentCourses lists courses whose roster contains the caller.
func (h *CourseHandler) ListStudentCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.ListByStudent(r.Context(), middleware.CallerID(r))
	if err != nil {
		h.logger.Error("failed to list enrolled courses", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

type addStudentRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// AddStudent appends a student to the roster. Creator only; duplicate adds
// are rejected.
func (h *CourseHandler) AddStudent(w http.ResponseWriter, r *http.Request) {
	course, ok := h.ownedCourse(w, r)
	if !ok {
		return
	}

	var req addStudentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	studentID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if course.HasStudent(studentID) {
		writeError(w, http.StatusBadRequest, "Student already added to the course")
		return
	}
	if err := h.courses.AddStudent(r.Context(), course.ID, studentID); err != nil {
		h.logger.Error("failed to add student", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to add student to course")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Student added successfully"})
}

// ListStudents returns the roster with display names. Creator only.
func (h *CourseHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	course, ok := h.ownedCourse(w, r)
	if !ok {
		return
	}

	students, err := h.users.FindByIDs(r.Context(), course.Students)
	if err != nil {
		h.logger.Error("failed to resolve roster", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	out := make([]models.UserRef, 0, len(students))
	for i := range students {
		out = append(out, students[i].Ref())
	}
	writeJSON(w, http.StatusOK, out)
}

// GetCourseDetail returns a course with creator and roster names resolved.
// Visible to the creator and enrolled students only.
func (h *CourseHandler) GetCourseDetail(w http.ResponseWriter, r *http.Request) {
	courseID, err := primitive.ObjectIDFromHex(mux.Vars(r)["courseId"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Course not found")
		return
	}

	course, err := h.courses.FindByID(r.Context(), courseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Course not found")
			return
		}
		h.logger.Error("failed to fetch course", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	caller := middleware.CallerID(r)
	if course.Creator != caller && !course.HasStudent(caller) {
		writeError(w, http.StatusForbidden, "Not authorized to view this course")
		return
	}

	ids := append([]primitive.ObjectID{course.Creator}, course.Students...)
	users, err := h.users.FindByIDs(r.Context(), ids)
	if err != nil {
		h.logger.Error("failed to resolve course users", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	byID := map[primitive.ObjectID]models.User{}
	for _, u := range users {
		byID[u.ID] = u
	}

	detail := courseDetailResponse{
		ID:          course.ID,
		Name:        course.Name,
		Description: course.Description,
		Creator:     models.UserRef{ID: course.Creator, Name: byID[course.Creator].Name},
		Students:    make([]models.UserRef, 0, len(course.Students)),
		CreatedAt:   course.CreatedAt,
		UpdatedAt:   course.UpdatedAt,
	}
	for _, id := range course.Students {
		detail.Students = append(detail.Students, models.UserRef{ID: id, Name: byID[id].Name})
	}
	writeJSON(w, http.StatusOK, detail)
}

// ownedCourse resolves the courseId path variable and enforces that the
// caller created it. Missing course is 404, foreign course is 403.
func (h *CourseHandler) ownedCourse(w http.ResponseWriter, r *http.Request) (*models.Course, bool) {
	courseID, err := primitive.ObjectIDFromHex(mux.Vars(r)["courseId"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Course not found")
		return nil, false
	}

	course, err := h.courses.FindByID(r.Context(), courseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Course not found")
			return nil, false
		}
		h.logger.Error("failed to fetch course", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return nil, false
	}
	if course.Creator != middleware.CallerID(r) {
		writeError(w, http.StatusForbidden, "Not authorized to manage this course")
		return nil, false
	}
	return course, true
}
