// internal/handlers/router.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"word_wizard/internal/config"
	"word_wizard/internal/middleware"
	"word_wizard/internal/session"
	"word_wizard/internal/view"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// requestTimeoutMargin は問題取得のタイムアウトに上乗せするリクエスト全体の余裕です。
const requestTimeoutMargin = 10 * time.Second

// NewRouter はHTML画面・JSON API・ヘルスチェックのルーティングを組み立てます。
func NewRouter(cfg *config.Config, store *session.Store, renderer *view.Renderer, logger *slog.Logger) http.Handler {
	pageHandler := NewPageHandler(renderer, logger)
	quizHandler := NewQuizHandler(logger)

	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewStructuredLogger(logger)) // slogを使うカスタムロガーミドルウェア

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
		Debug:            false,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.LLM.Timeout + requestTimeoutMargin))

	cookieOpts := session.CookieOptions{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
	}
	sessionMiddleware := session.Middleware(store, cookieOpts)
	// セッションはクイズ開始時にだけ発行する
	persistSession := session.Persist(store, cookieOpts)

	// HTML screens
	r.Group(func(r chi.Router) {
		r.Use(sessionMiddleware)
		r.Get("/", pageHandler.Show)
		r.With(persistSession).Post("/start", pageHandler.Start)
		r.Post("/select", pageHandler.Select)
		r.Post("/next", pageHandler.Next)
		r.Post("/restart", pageHandler.Restart)
	})

	// API Routes
	r.Route("/api/v1/quiz", func(r chi.Router) {
		r.Use(sessionMiddleware)
		r.Use(middleware.DetailLoggingMiddleware(logger))
		r.Get("/", quizHandler.GetState)
		r.With(persistSession).Post("/start", quizHandler.PostStart)
		r.Post("/select", quizHandler.PostSelect)
		r.Post("/advance", quizHandler.PostAdvance)
		r.Post("/restart", quizHandler.PostRestart)
	})

	// Health Check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-App-Version", config.AppVersion)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
