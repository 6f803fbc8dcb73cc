package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/fintrack/internal/handler"
	"github.com/dukerupert/fintrack/internal/middleware"
	"github.com/dukerupert/fintrack/internal/notify"
	"github.com/dukerupert/fintrack/internal/storage"
	"github.com/dukerupert/fintrack/internal/store"
)

type Server struct {
	db            *sql.DB
	reminderH     *handler.ReminderHandler
	subscriptionH *handler.SubscriptionHandler
	expenseH      *handler.ExpenseHandler
	documentH     *handler.DocumentHandler
	notificationH *handler.NotificationHandler
	userH         *handler.UserHandler
	userStore     *store.UserStore
	dispatcher    *notify.Dispatcher
	rateLimiter   *middleware.RateLimiter
	logger        *slog.Logger
}

func New(db *sql.DB, sender notify.Sender, docStorage *storage.DocumentStorage, logger *slog.Logger) *Server {
	reminderStore := store.NewReminderStore(db)
	subscriptionStore := store.NewSubscriptionStore(db)
	expenseStore := store.NewExpenseStore(db)
	documentStore := store.NewDocumentStore(db)
	notificationStore := store.NewNotificationStore(db)
	userStore := store.NewUserStore(db)

	dispatcher := notify.NewDispatcher(reminderStore, subscriptionStore, notificationStore, userStore, sender, logger)

	return &Server{
		db:            db,
		reminderH:     handler.NewReminderHandler(reminderStore, dispatcher, logger.With("component", "reminder")),
		subscriptionH: handler.NewSubscriptionHandler(subscriptionStore, dispatcher, logger.With("component", "subscription")),
		expenseH:      handler.NewExpenseHandler(expenseStore, logger.With("component", "expense")),
		documentH:     handler.NewDocumentHandler(documentStore, subscriptionStore, docStorage, logger.With("component", "document")),
		notificationH: handler.NewNotificationHandler(notificationStore, dispatcher, logger.With("component", "notification")),
		userH:         handler.NewUserHandler(userStore, logger.With("component", "user")),
		userStore:     userStore,
		dispatcher:    dispatcher,
		rateLimiter:   middleware.NewRateLimiter(),
		logger:        logger,
	}
}

// Dispatcher exposes the notification dispatcher so main can hang the cron
// scheduler off it.
func (s *Server) Dispatcher() *notify.Dispatcher {
	return s.dispatcher
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no identity required)
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("POST /api/users", s.rateLimitedHandler(s.userH.Create))
	outerMux.HandleFunc("POST /api/notifications/run", s.rateLimitedHandler(s.notificationH.Run))

	// Owner-scoped routes behind the identity middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	identity := middleware.RequireUser(s.userStore)
	outerMux.Handle("/", identity(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/users/me", s.userH.Me)

	// Reminder API routes
	mux.HandleFunc("POST /api/reminders", s.reminderH.Create)
	mux.HandleFunc("GET /api/reminders", s.reminderH.List)
	mux.HandleFunc("POST /api/reminders/{id}/pay", s.reminderH.Pay)
	mux.HandleFunc("POST /api/reminders/{id}/snooze", s.reminderH.Snooze)
	mux.HandleFunc("POST /api/reminders/{id}/notify", s.reminderH.Notify)

	// Subscription API routes
	mux.HandleFunc("POST /api/subscriptions", s.subscriptionH.Create)
	mux.HandleFunc("GET /api/subscriptions", s.subscriptionH.List)
	mux.HandleFunc("GET /api/subscriptions/monthly-cost", s.subscriptionH.MonthlyCost)
	mux.HandleFunc("POST /api/subscriptions/{id}/cancel", s.subscriptionH.Cancel)
	mux.HandleFunc("POST /api/subscriptions/{id}/notify", s.subscriptionH.Notify)

	// Expense API routes
	mux.HandleFunc("POST /api/expenses", s.expenseH.Create)
	mux.HandleFunc("GET /api/expenses", s.expenseH.List)
	mux.HandleFunc("GET /api/expenses/summary", s.expenseH.Summary)
	mux.HandleFunc("PUT /api/expenses/{id}", s.expenseH.Update)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.expenseH.Delete)

	// Document API routes
	mux.HandleFunc("POST /api/documents", s.documentH.Upload)
	mux.HandleFunc("GET /api/documents", s.documentH.List)
	mux.HandleFunc("GET /api/documents/{id}/download", s.documentH.Download)
	mux.HandleFunc("DELETE /api/documents/{id}", s.documentH.Delete)

	// Notification log
	mux.HandleFunc("GET /api/notifications", s.notificationH.List)
}
