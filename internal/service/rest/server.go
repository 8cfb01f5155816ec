package rest

import (
	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ims/internal/auth"
	"github.com/vladislavdragonenkov/ims/internal/metrics"
	"github.com/vladislavdragonenkov/ims/internal/service/catalog"
	"github.com/vladislavdragonenkov/ims/internal/service/invoices"
	"github.com/vladislavdragonenkov/ims/internal/service/orders"
)

// sessionCookie — имя cookie с сессионным токеном.
const sessionCookie = "ims_session"

// Server реализует HTTP/JSON API поверх сервисов ядра.
// Identity резолвится middleware из cookie и передаётся в сервисы
// явным аргументом.
type Server struct {
	catalog  *catalog.Service
	orders   *orders.Service
	invoices *invoices.Service
	creds    auth.CredentialStore
	tokens   *auth.TokenManager
	metrics  *metrics.Metrics
	logger   *log.Entry
}

// NewServer конструирует HTTP-слой с зависимостями.
func NewServer(
	catalogSvc *catalog.Service,
	ordersSvc *orders.Service,
	invoicesSvc *invoices.Service,
	creds auth.CredentialStore,
	tokens *auth.TokenManager,
	m *metrics.Metrics,
	logger *log.Entry,
) *Server {
	if logger == nil {
		logger = log.WithField("component", "rest")
	}
	return &Server{
		catalog:  catalogSvc,
		orders:   ordersSvc,
		invoices: invoicesSvc,
		creds:    creds,
		tokens:   tokens,
		metrics:  m,
		logger:   logger,
	}
}

// Router собирает chi-маршрутизатор со всеми эндпоинтами сервиса.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(s.withIdentity)
	r.Use(s.withObservability)

	r.Get("/", s.handleIndex)
	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Get("/products", s.handleListProducts)
	r.Post("/products", s.handleCreateProducts)
	r.Put("/products/{id}", s.handleUpdateProduct)
	r.Patch("/products/{id}", s.handlePatchProduct)
	r.Delete("/products/{id}", s.handleDeleteProduct)

	r.Get("/orders", s.handleListOrders)
	r.Post("/orders", s.handlePlaceOrder)
	r.Get("/orders/find", s.handleFindOrders)
	r.Post("/orders/accept", s.handleAcceptOrder)
	r.Post("/orders/invoice", s.handleCreateInvoice)
	r.Patch("/orders/{id}", s.handleEditOrderStatus)

	r.Get("/invoices", s.handleListInvoices)
	r.Delete("/delete", s.handleWipeAll)

	return r
}
