package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Shoys/wd-lab/internal/mailer"
	"github.com/Shoys/wd-lab/internal/middleware"
	"github.com/Shoys/wd-lab/internal/models"
	"github.com/Shoys/wd-lab/internal/store"
)

const courseNotOwnedMessage = "Course not found or you do not have permission"

type RequestHandler struct {
	requests store.RequestStore
	courses  store.CourseStore
	users    store.UserStore
	mail     *mailer.Mailer
	logger   *zap.Logger
}

func NewRequestHandler(requests store.RequestStore, courses store.CourseStore, users store.UserStore, mail *mailer.Mailer, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{requests: requests, courses: courses, users: users, mail: mail, logger: logger}
}

// requestResponse is a pending request with the sender's public record
// attached.
type requestResponse struct {
	ID        primitive.ObjectID   `json:"_id"`
	Student   models.UserRef       `json:"student"`
	Course    primitive.ObjectID   `json:"course"`
	Status    models.RequestStatus `json:"status"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// SendCourseRequest creates a pending enrollment request for the caller.
// A prior request for the same course blocks a new one regardless of its
// status, so a rejected student cannot re-apply.
func (h *RequestHandler) SendCourseRequest(w http.ResponseWriter, r *http.Request) {
	courseID, err := primitive.ObjectIDFromHex(mux.Vars(r)["courseId"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Course not found")
		return
	}

	if _, err := h.courses.FindByID(r.Context(), courseID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Course not found")
			return
		}
		h.logger.Error("failed to fetch course", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	student := middleware.CallerID(r)
	if _, err := h.requests.FindByStudentAndCourse(r.Context(), student, courseID); err == nil {
		writeError(w, http.StatusBadRequest, "Request already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.logger.Error("failed to check existing request", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	req := models.CourseRequest{Student: student, Course: courseID}
	if err := h.requests.Create(r.Context(), &req); err != nil {
		h.logger.Error("failed to create request", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// GetCourseRequests lists pending requests for a course the caller owns.
// A course owned by someone else is reported exactly like a missing one.
func (h *RequestHandler) GetCourseRequests(w http.ResponseWriter, r *http.Request) {
	course, ok := h.ownedCourse(w, r)
	if !ok {
		return
	}

	requests, err := h.requests.ListPendingByCourse(r.Context(), course.ID)
	if err != nil {
		h.logger.Error("failed to list requests", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	studentIDs := make([]primitive.ObjectID, 0, len(requests))
	for _, req := range requests {
		studentIDs = append(studentIDs, req.Student)
	}
	students, err := h.users.FindByIDs(r.Context(), studentIDs)
	if err != nil {
		h.logger.Error("failed to resolve request senders", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	refs := map[primitive.ObjectID]models.UserRef{}
	for i := range students {
		refs[students[i].ID] = students[i].Ref()
	}

	out := make([]requestResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, requestResponse{
			ID:        req.ID,
			Student:   refs[req.Student],
			Course:    req.Course,
			Status:    req.Status,
			CreatedAt: req.CreatedAt,
			UpdatedAt: req.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type respondRequest struct {
	Allow bool `json:"allow"`
}

// RespondToCourseRequest accepts or rejects a pending request. Accepting
// adds the student to the roster; the add is a set operation, so repeating
// it cannot duplicate the entry.
func (h *RequestHandler) RespondToCourseRequest(w http.ResponseWriter, r *http.Request) {
	course, ok := h.ownedCourse(w, r)
	if !ok {
		return
	}

	requestID, err := primitive.ObjectIDFromHex(mux.Vars(r)["requestId"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Request not found")
		return
	}
	courseRequest, err := h.requests.FindByID(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Request not found")
			return
		}
		h.logger.Error("failed to fetch request", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	var body respondRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	status := models.StatusRejected
	verdict := "rejected"
	if body.Allow {
		status = models.StatusAccepted
		verdict = "accepted"
	}
	if err := h.requests.UpdateStatus(r.Context(), courseRequest.ID, status); err != nil {
		h.logger.Error("failed to update request status", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if body.Allow {
		if err := h.courses.AddStudent(r.Context(), course.ID, courseRequest.Student); err != nil {
			h.logger.Error("failed to add student to roster", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}
		h.notifyAccepted(r, courseRequest.Student, course)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Request has been " + verdict + "."})
}

// notifyAccepted emails the student when the mailer is configured and the
// account has an address on file.
func (h *RequestHandler) notifyAccepted(r *http.Request, studentID primitive.ObjectID, course *models.Course) {
	if !h.mail.Enabled() {
		return
	}
	student, err := h.users.FindByID(r.Context(), studentID)
	if err != nil || student.Email == "" {
		return
	}
	go h.mail.Send(student.Email, "Enrollment accepted",
		"<p>Hi "+student.Name+",</p><p>Your request to join <b>"+course.Name+"</b> has been accepted.</p>")
}

func (h *RequestHandler) ownedCourse(w http.ResponseWriter, r *http.Request) (*models.Course, bool) {
	courseID, err := primitive.ObjectIDFromHex(mux.Vars(r)["courseId"])
	if err != nil {
		writeError(w, http.StatusNotFound, courseNotOwnedMessage)
		return nil, false
	}

	course, err := h.courses.FindByIDAndCreator(r.Context(), courseID, middleware.CallerID(r))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, courseNotOwnedMessage)
			return nil, false
		}
		h.logger.Error("failed to fetch course", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return nil, false
	}
	return course, true
}
