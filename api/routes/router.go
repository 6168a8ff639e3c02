package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/educart-ph/educart-backend/api/controllers"
	webhookcontrollers "github.com/educart-ph/educart-backend/api/controllers/webhooks"
	"github.com/educart-ph/educart-backend/api/middleware"
	"github.com/educart-ph/educart-backend/internal/analytics"
	"github.com/educart-ph/educart-backend/internal/auth"
	"github.com/educart-ph/educart-backend/internal/categories"
	"github.com/educart-ph/educart-backend/internal/chat"
	"github.com/educart-ph/educart-backend/internal/delivery"
	"github.com/educart-ph/educart-backend/internal/media"
	"github.com/educart-ph/educart-backend/internal/notifications"
	"github.com/educart-ph/educart-backend/internal/payments"
	"github.com/educart-ph/educart-backend/internal/posts"
	"github.com/educart-ph/educart-backend/internal/requests"
	"github.com/educart-ph/educart-backend/internal/schools"
	"github.com/educart-ph/educart-backend/internal/transactions"
	"github.com/educart-ph/educart-backend/internal/wallet"
	"github.com/educart-ph/educart-backend/pkg/auth/session"
	"github.com/educart-ph/educart-backend/pkg/config"
	"github.com/educart-ph/educart-backend/pkg/enums"
	"github.com/educart-ph/educart-backend/pkg/logger"
	"github.com/educart-ph/educart-backend/pkg/metrics"
	pkgredis "github.com/educart-ph/educart-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. cmd/api builds one of
// these after wiring services.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	Redis   *pkgredis.Client
	Session session.AccessSessionChecker

	HealthDeps  map[string]controllers.Pinger
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry

	Auth          auth.Service
	Posts         posts.Service
	Transactions  transactions.Service
	Wallet        wallet.Service
	Payments      payments.Service
	Delivery      delivery.Service
	Chat          chat.Service
	Notifications notifications.Service
	Requests      requests.Service
	Schools       schools.Service
	Categories    categories.Service
	Media         media.Service
	Analytics     analytics.Service
}

// NewRouter assembles the full route tree with the middleware chain.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if d.HTTPMetrics != nil {
		r.Use(middleware.Metrics(d.HTTPMetrics))
	}
	r.Use(middleware.CORS())

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.HealthDeps))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/gcash", webhookcontrollers.GCashWebhook(d.Payments, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.AuthRegister(d.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(d.Auth, cfg.JWT, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AdminAuthLogin(d.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Session, logg))
		r.Use(middleware.Idempotency(d.Redis, logg))

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", controllers.PostList(d.Posts, logg))
			r.Post("/", controllers.PostCreate(d.Posts, logg))
			r.Get("/me", controllers.PostListMine(d.Posts, logg))
			r.Get("/{postId}", controllers.PostDetail(d.Posts, logg))
			r.Patch("/{postId}", controllers.PostUpdate(d.Posts, logg))
			r.Post("/{postId}/status", controllers.PostSetStatus(d.Posts, logg))
			r.Delete("/{postId}", controllers.PostDelete(d.Posts, logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", controllers.TransactionList(d.Transactions, logg))
			r.Post("/", controllers.TransactionCreate(d.Transactions, logg))
			r.Get("/{transactionId}", controllers.TransactionDetail(d.Transactions, logg))
			r.Post("/{transactionId}/decision", controllers.TransactionDecision(d.Transactions, logg))
			r.Post("/{transactionId}/action", controllers.TransactionAction(d.Transactions, logg))
			r.Post("/{transactionId}/cancel", controllers.TransactionCancel(d.Transactions, logg))
			r.Post("/{transactionId}/pay", controllers.TransactionPay(d.Payments, logg))
			r.Post("/{transactionId}/checkout", controllers.TransactionCheckout(d.Payments, logg))
		})

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/", controllers.WalletFetch(d.Wallet, logg))
			r.Get("/entries", controllers.WalletEntries(d.Wallet, logg))
			r.Post("/topup/checkout", controllers.WalletTopUpCheckout(d.Payments, logg))
		})

		r.Post("/delivery/quote", controllers.DeliveryQuote(d.Delivery, logg))

		r.Route("/chat", func(r chi.Router) {
			r.Post("/conversations", controllers.ConversationOpen(d.Chat, logg))
			r.Get("/conversations", controllers.ConversationList(d.Chat, logg))
			r.Get("/conversations/{conversationId}", controllers.ConversationDetail(d.Chat, logg))
			r.Get("/conversations/{conversationId}/messages", controllers.MessageList(d.Chat, logg))
			r.Post("/conversations/{conversationId}/messages", controllers.MessageSend(d.Chat, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationList(d.Notifications, logg))
			r.Get("/unread-count", controllers.NotificationUnreadCount(d.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.NotificationMarkRead(d.Notifications, logg))
			r.Post("/read-all", controllers.NotificationMarkAllRead(d.Notifications, logg))
		})

		r.Route("/verification", func(r chi.Router) {
			r.Post("/", controllers.VerificationSubmit(d.Requests, logg))
			r.Get("/me", controllers.VerificationListMine(d.Requests, logg))
		})

		r.Post("/media/presign", controllers.MediaPresign(d.Media, logg))

		r.Get("/schools", controllers.SchoolList(d.Schools, logg))
		r.Get("/categories", controllers.CategoryList(d.Categories, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Session, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
		r.Use(middleware.Idempotency(d.Redis, logg))

		r.Route("/schools", func(r chi.Router) {
			r.Get("/", controllers.AdminSchoolList(d.Schools, logg))
			r.Post("/", controllers.AdminSchoolCreate(d.Schools, logg))
			r.Get("/{schoolId}", controllers.AdminSchoolDetail(d.Schools, logg))
			r.Patch("/{schoolId}", controllers.AdminSchoolUpdate(d.Schools, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.AdminCategoryList(d.Categories, logg))
			r.Post("/", controllers.AdminCategoryCreate(d.Categories, logg))
			r.Patch("/{categoryId}", controllers.AdminCategoryUpdate(d.Categories, logg))
		})

		r.Route("/requests", func(r chi.Router) {
			r.Get("/", controllers.AdminRequestList(d.Requests, logg))
			r.Post("/{requestId}/review", controllers.AdminRequestReview(d.Requests, logg))
		})

		r.Get("/dashboard", controllers.AdminDashboard(d.Analytics, logg))
	})

	return r
}
