package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kislikjeka/warungku/internal/transport/httpapi/handler"
	"github.com/kislikjeka/warungku/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/warungku/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger         *logger.Logger
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int

	AuthHandler        *handler.AuthHandler
	UserHandler        *handler.UserHandler
	WalletHandler      *handler.WalletHandler
	CategoryHandler    *handler.CategoryHandler
	SessionHandler     *handler.SessionHandler
	TransactionHandler *handler.TransactionHandler
	ReportHandler      *handler.ReportHandler
	HealthHandler      *handler.HealthHandler
	JWTMiddleware      func(http.Handler) http.Handler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5, "application/json"))
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.AuthHandler != nil {
			r.Post("/auth/login", cfg.AuthHandler.Login)
		}

		if cfg.JWTMiddleware == nil {
			return
		}

		r.Group(func(r chi.Router) {
			r.Use(cfg.JWTMiddleware)

			if cfg.AuthHandler != nil {
				r.Get("/auth/verify", cfg.AuthHandler.Verify)
			}

			if cfg.WalletHandler != nil {
				r.Get("/wallets", cfg.WalletHandler.GetWallets)
				r.Get("/wallets/{id}", cfg.WalletHandler.GetWallet)
			}

			if cfg.CategoryHandler != nil {
				r.Get("/categories", cfg.CategoryHandler.GetCategories)
			}

			if cfg.SessionHandler != nil {
				r.Post("/sessions/open", cfg.SessionHandler.OpenSession)
				r.Get("/sessions/current", cfg.SessionHandler.GetCurrentSession)
				r.Get("/sessions/last-closed", cfg.SessionHandler.GetLastClosedSession)
				r.Get("/sessions", cfg.SessionHandler.ListSessions)
				r.Get("/sessions/{id}", cfg.SessionHandler.GetSession)
				r.Post("/sessions/{id}/close", cfg.SessionHandler.CloseSession)
			}

			if cfg.TransactionHandler != nil {
				r.Post("/transactions", cfg.TransactionHandler.CreateTransaction)
				r.Get("/transactions", cfg.TransactionHandler.GetTransactions)
			}

			if cfg.ReportHandler != nil {
				r.Get("/reports/monthly", cfg.ReportHandler.GetMonthly)
				r.Get("/reports/monthly/pdf", cfg.ReportHandler.GetMonthlyPDF)
			}

			// Admin routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				if cfg.AuthHandler != nil {
					r.Post("/auth/register", cfg.AuthHandler.Register)
				}

				if cfg.UserHandler != nil {
					r.Get("/users", cfg.UserHandler.ListUsers)
					r.Delete("/users/{id}", cfg.UserHandler.DeleteUser)
				}

				if cfg.WalletHandler != nil {
					r.Post("/wallets", cfg.WalletHandler.CreateWallet)
					r.Put("/wallets/{id}", cfg.WalletHandler.UpdateWallet)
					r.Delete("/wallets/{id}", cfg.WalletHandler.DeleteWallet)
				}

				if cfg.CategoryHandler != nil {
					r.Post("/categories", cfg.CategoryHandler.CreateCategory)
					r.Delete("/categories/{id}", cfg.CategoryHandler.DeleteCategory)
				}

				if cfg.SessionHandler != nil {
					r.Put("/sessions/{id}", cfg.SessionHandler.UpdateSession)
				}
			})
		})
	})

	return r
}
