package rest

import (
	"net/http"
	"os"

	"encuesta/internal/service"
	"encuesta/internal/transport/rest/handler"
	"encuesta/internal/transport/rest/middleware"
	"encuesta/internal/transport/ws"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Container holds all dependencies for the wizard router
type Container struct {
	AuthService   *service.AuthService
	WizardService *service.WizardService
	WSHub         *ws.Hub
	Logger        *zap.Logger
}

// APIContainer holds the dependencies of the reference survey API
type APIContainer struct {
	AuthService        *service.AuthService
	SurveyService      *service.SurveyService
	ParticipantService *service.ParticipantService
	ProgressService    *service.ProgressService
}

// NewRouter creates the wizard router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	wizardHandler := handler.NewWizardHandler(c.WizardService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	r.HandleFunc("/health", health).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/sessions", wizardHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/choices", wizardHandler.Choices).Methods("GET", "OPTIONS")

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws/session", wsHandler.SessionWS).Methods("GET")

	// Session routes (require session token)
	session := v1.PathPrefix("/session").Subrouter()
	session.Use(authMW.RequireSession)

	session.HandleFunc("", wizardHandler.View).Methods("GET", "OPTIONS")
	session.HandleFunc("", wizardHandler.End).Methods("DELETE")
	session.HandleFunc("/answers", wizardHandler.Answer).Methods("PUT", "OPTIONS")
	session.HandleFunc("/invitation-code", wizardHandler.SetInvitationCode).Methods("PUT", "OPTIONS")
	session.HandleFunc("/invitation-code/check", wizardHandler.CheckInvitationCode).Methods("POST", "OPTIONS")
	session.HandleFunc("/profile", wizardHandler.UpdateProfile).Methods("PUT", "OPTIONS")
	session.HandleFunc("/email/check", wizardHandler.CheckEmail).Methods("POST", "OPTIONS")
	session.HandleFunc("/resume", wizardHandler.ResolveResume).Methods("POST", "OPTIONS")
	session.HandleFunc("/next", wizardHandler.Next).Methods("POST", "OPTIONS")
	session.HandleFunc("/back", wizardHandler.Back).Methods("POST", "OPTIONS")
	session.HandleFunc("/reset", wizardHandler.Reset).Methods("POST", "OPTIONS")
	session.HandleFunc("/submit", wizardHandler.Submit).Methods("POST", "OPTIONS")

	return r
}

// NewAPIRouter creates the reference survey API router. Every route but
// /health requires "Authorization: Token <key>".
func NewAPIRouter(c *APIContainer) http.Handler {
	r := mux.NewRouter()

	surveyHandler := handler.NewSurveyHandler(c.SurveyService)
	participantHandler := handler.NewParticipantHandler(c.ParticipantService)
	progressHandler := handler.NewProgressHandler(c.ProgressService)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(corsMiddleware)
	r.HandleFunc("/health", health).Methods("GET")

	api := r.NewRoute().Subrouter()
	api.Use(authMW.RequireAPIKey)

	api.HandleFunc("/surveys/", surveyHandler.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/surveys/{surveyId}/", surveyHandler.Get).Methods("GET", "OPTIONS")
	api.HandleFunc("/surveys/{surveyId}/", surveyHandler.Put).Methods("PUT")
	api.HandleFunc("/surveys/{surveyId}/", surveyHandler.Delete).Methods("DELETE")

	api.HandleFunc("/invitation-code/", participantHandler.CheckInvitation).Methods("POST", "OPTIONS")
	api.HandleFunc("/participant/has-answer/", participantHandler.HasAnswer).Methods("POST", "OPTIONS")
	api.HandleFunc("/response/", participantHandler.Submit).Methods("POST", "OPTIONS")

	api.HandleFunc("/progress/", progressHandler.Save).Methods("POST", "OPTIONS")
	api.HandleFunc("/progress/", progressHandler.Get).Methods("GET")
	api.HandleFunc("/progress/", progressHandler.Delete).Methods("DELETE")

	return r
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
