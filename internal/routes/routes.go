package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Shoys/wd-lab/internal/auth"
	"github.com/Shoys/wd-lab/internal/handlers"
	"github.com/Shoys/wd-lab/internal/mailer"
	"github.com/Shoys/wd-lab/internal/middleware"
	"github.com/Shoys/wd-lab/internal/models"
	"github.com/Shoys/wd-lab/internal/store"
)

type Deps struct {
	Users     store.UserStore
	Courses   store.CourseStore
	Requests  store.RequestStore
	Tokens    *auth.Manager
	Mailer    *mailer.Mailer
	Logger    *zap.Logger
	StaticDir string
}

func SetupRouter(deps Deps) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(deps.Logger))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Server is healthy"))
	}).Methods("GET")

	authHandler := handlers.NewAuthHandler(deps.Users, deps.Tokens, deps.Logger)
	courseHandler := handlers.NewCourseHandler(deps.Courses, deps.Users, deps.Logger)
	requestHandler := handlers.NewRequestHandler(deps.Requests, deps.Courses, deps.Users, deps.Mailer, deps.Logger)
	userHandler := handlers.NewUserHandler(deps.Users, deps.Logger)

	// Public routes
	router.HandleFunc("/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/courses", courseHandler.GetAllCourses).Methods("GET")
	router.HandleFunc("/profile", userHandler.GetProfile).Methods("GET")

	// Teacher routes
	teacher := router.PathPrefix("/teacher").Subrouter()
	teacher.Use(middleware.Authenticate(deps.Tokens))
	teacher.Use(middleware.RequireRole(models.RoleTeacher))
	teacher.HandleFunc("/courses/create", courseHandler.CreateCourse).Methods("POST")
	teacher.HandleFunc("/courses/created", courseHandler.ListCreatedCourses).Methods("GET")
	teacher.HandleFunc("/courses/delete/{courseId}", courseHandler.DeleteCourse).Methods("DELETE")
	teacher.HandleFunc("/courses/edit/{courseId}", courseHandler.EditCourse).Methods("POST")
	teacher.HandleFunc("/courses/{courseId}/add-student", courseHandler.AddStudent).Methods("POST")
	teacher.HandleFunc("/courses/{courseId}/students", courseHandler.ListStudents).Methods("GET")
	teacher.HandleFunc("/courses/{courseId}/requests", requestHandler.GetCourseRequests).Methods("GET")
	teacher.HandleFunc("/courses/{courseId}/requests/{requestId}", requestHandler.RespondToCourseRequest).Methods("POST")
	teacher.HandleFunc("/courses/{courseId}", courseHandler.GetCourseDetail).Methods("GET")

	// Student routes
	student := router.PathPrefix("/student").Subrouter()
	student.Use(middleware.Authenticate(deps.Tokens))
	student.Use(middleware.RequireRole(models.RoleStudent))
	student.HandleFunc("/courses/my", courseHandler.ListStudentCourses).Methods("GET")
	student.HandleFunc("/courses/{courseId}/request", requestHandler.SendCourseRequest).Methods("POST")
	student.HandleFunc("/courses/{courseId}", courseHandler.GetCourseDetail).Methods("GET")

	// Static frontend (login/registration pages)
	if deps.StaticDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(deps.StaticDir)))
	}

	return router
}
