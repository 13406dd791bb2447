package httpserver

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"weddingmarket/internal/config"
	"weddingmarket/internal/domain"
	"weddingmarket/internal/security"
	"weddingmarket/internal/service"
	"weddingmarket/internal/session"
	"weddingmarket/internal/store/postgres"
	"weddingmarket/internal/store/sqlite"
)

// NewRouter constructs the main HTTP router and wires routes, services, and middleware.
func NewRouter(cfg *config.Config, db *sql.DB, sessions *session.Store, tokenSvc *security.TokenService, passwordHasher *security.PasswordHasher, encryptor *security.Encryptor) http.Handler {
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Repositories
	var (
		partyRepo domain.PartyRepository
		convRepo  domain.ConversationRepository
		msgRepo   domain.MessageRepository
		offerRepo domain.OfferRepository
		remRepo   domain.ReminderRepository
	)
	switch cfg.DBDriver {
	case config.DriverPostgres:
		partyRepo = postgres.NewPartyRepo(db)
		convRepo = postgres.NewConversationRepo(db)
		msgRepo = postgres.NewMessageRepo(db)
		offerRepo = postgres.NewOfferRepo(db)
		remRepo = postgres.NewReminderRepo(db)
	default:
		partyRepo = sqlite.NewPartyRepo(db)
		convRepo = sqlite.NewConversationRepo(db)
		msgRepo = sqlite.NewMessageRepo(db)
		offerRepo = sqlite.NewOfferRepo(db)
		remRepo = sqlite.NewReminderRepo(db)
	}

	// Services
	authSvc := service.NewAuthService(partyRepo, sessions, tokenSvc, passwordHasher)
	convSvc := service.NewConversationService(convRepo, msgRepo, partyRepo, encryptor)
	msgSvc := service.NewMessageService(convRepo, msgRepo, partyRepo, encryptor)
	offerSvc := service.NewOfferService(offerRepo, convRepo, partyRepo, encryptor)
	remSvc := service.NewReminderService(remRepo, convRepo)

	resolver := session.NewResolver(tokenSvc, sessions)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": cfg.AppName + " API",
			"version": "1.0.0",
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Auth routes (no auth required)
		r.Post("/auth/login", handleLogin(authSvc))

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(resolver))

			r.Post("/auth/logout", handleLogout(authSvc))
			r.Get("/auth/me", handleMe(authSvc))

			// Conversations, messages, reminders
			r.Route("/conversations", func(r chi.Router) {
				r.Get("/", handleListConversations(convSvc))
				r.Get("/{conversationID}", handleGetConversation(convSvc))
				r.Delete("/{conversationID}", handleDeleteConversation(convSvc))
				r.Post("/{conversationID}/mark-read", handleMarkConversationRead(convSvc))
				r.Get("/{conversationID}/messages", handleListMessages(msgSvc))
				r.Post("/{conversationID}/reminders", handleScheduleReminder(remSvc))
			})

			r.Route("/messages", func(r chi.Router) {
				r.Post("/", handleSendMessage(msgSvc))
				r.Delete("/{messageID}", handleDeleteMessage(msgSvc))
			})

			r.Route("/offers", func(r chi.Router) {
				r.Post("/", handleCreateOffer(offerSvc))
				r.Get("/", handleListOffers(offerSvc))
				r.Post("/{offerID}/respond", handleRespondOffer(offerSvc))
			})

			r.Route("/reminders", func(r chi.Router) {
				r.Get("/", handleListReminders(remSvc))
				r.Delete("/{reminderID}", handleCancelReminder(remSvc))
			})
		})
	})

	return r
}
