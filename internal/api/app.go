package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/npezzotti/chatrooms/internal/config"
	"github.com/npezzotti/chatrooms/internal/database"
	"github.com/npezzotti/chatrooms/internal/stats"
)

type ChatroomsApp struct {
	log        *log.Logger
	db         database.ChatroomsRepository
	mux        *http.Server
	stats      stats.StatsProvider
	signingKey []byte
}

func NewChatroomsApp(mux *http.ServeMux, logger *log.Logger, db database.ChatroomsRepository, sp stats.StatsProvider, cfg *config.Config) *ChatroomsApp {
	s := &ChatroomsApp{
		log:        logger,
		db:         db,
		stats:      sp,
		signingKey: cfg.SigningKey,
	}

	mux.HandleFunc("GET /{$}", s.home)
	mux.HandleFunc("GET /topics/{$}", s.topics)
	mux.HandleFunc("GET /create-room/{$}", s.requireAuth(s.createRoomForm))
	mux.HandleFunc("POST /create-room/{$}", s.requireAuth(s.createRoom))
	mux.HandleFunc("GET /rooms/{id}/edit", s.withSession(s.updateRoomForm))
	mux.HandleFunc("POST /rooms/{id}/edit", s.withSession(s.updateRoom))
	mux.HandleFunc("GET /rooms/{id}/{$}", s.roomDetail)
	mux.HandleFunc("POST /rooms/{id}/{$}", s.requireAuth(s.postMessage))
	mux.HandleFunc("GET /rooms/{id}/remove", s.withSession(s.deleteRoomConfirm))
	mux.HandleFunc("POST /rooms/{id}/remove", s.withSession(s.deleteRoom))
	mux.HandleFunc("GET /messages/{id}/remove", s.withSession(s.deleteMessageConfirm))
	mux.HandleFunc("POST /messages/{id}/remove", s.withSession(s.deleteMessage))
	mux.HandleFunc("GET /profile/{id}", s.profile)
	mux.HandleFunc("GET /login/{$}", s.withSession(s.loginForm))
	mux.HandleFunc("POST /login/{$}", s.login)
	mux.HandleFunc("GET /register/{$}", s.withSession(s.registerForm))
	mux.HandleFunc("POST /register/{$}", s.register)
	mux.HandleFunc("GET /logout/{$}", s.withSession(s.logout))
	mux.HandleFunc("GET /healthz", s.healthCheck)

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
		handlers.AllowCredentials(),
	)(mux)

	h = handlers.LoggingHandler(os.Stdout, h)
	h = s.errorHandler(h)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	s.mux = srv
	return s
}

func (s *ChatroomsApp) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *ChatroomsApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}

func (s *ChatroomsApp) healthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		s.log.Println("health check:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
