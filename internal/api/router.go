package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/api/handler"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/api/middleware"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/app/ai"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/app/sandbox"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/app/service"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common/security"
)

func NewRouter(
	authService *service.AuthService,
	studentService *service.StudentService,
	teacherService *service.TeacherService,
	taskService *service.TaskService,
	submissionService *service.SubmissionService,
	notificationService *service.NotificationService,
	progressService *service.ProgressService,
	referenceService *service.ReferenceService,
	runner sandbox.Runner,
	aiClient *ai.Client,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authenticated := middleware.Authenticator(authService)

	r.Route("/api/v1", func(v1 chi.Router) {
		// Public auth routes
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(public chi.Router) {
			authHandler.RegisterRoutes(public)
		})

		// Everything below requires a valid token and a resolved scope.
		v1.Group(func(private chi.Router) {
			private.Use(authenticated)

			private.Route("/students", handler.NewStudentHandler(studentService).RegisterRoutes)
			private.Route("/teachers", handler.NewTeacherHandler(teacherService).RegisterRoutes)
			private.Route("/tasks", handler.NewTaskHandler(taskService, submissionService).RegisterRoutes)
			private.Route("/submissions", handler.NewSubmissionHandler(submissionService).RegisterRoutes)
			private.Route("/notifications", handler.NewNotificationHandler(notificationService).RegisterRoutes)
			private.Route("/progress", handler.NewProgressHandler(progressService).RegisterRoutes)
			private.Route("/run", handler.NewRunnerHandler(runner).RegisterRoutes)
			private.Route("/ai", handler.NewAIHandler(aiClient).RegisterRoutes)
			private.Route("/reference", handler.NewReferenceHandler(referenceService).RegisterRoutes)
		})
	})

	return r
}
