package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"pharmacy/m/internal/auth"
	"pharmacy/m/internal/service"
	"pharmacy/m/internal/store"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	auth      *auth.Service
	medicines *service.Medicines
	customers *service.Customers
	suppliers *service.Suppliers
	sales     *service.Sales
	dashboard *service.Dashboard

	corsOrigins []string
	now         func() time.Time
	log         *zap.Logger
}

// New constructs a Handler.
func New(st *store.Store, authSvc *auth.Service, corsOrigins []string, log *zap.Logger) *Handler {
	return &Handler{
		auth:        authSvc,
		medicines:   service.NewMedicines(st, log),
		customers:   service.NewCustomers(st, log),
		suppliers:   service.NewSuppliers(st, log),
		sales:       service.NewSales(st, log),
		dashboard:   service.NewDashboard(st),
		corsOrigins: corsOrigins,
		now:         time.Now,
		log:         log,
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/root", h.root)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signin", h.signin)
			r.Post("/login", h.signin)
			r.Post("/signup", h.signup)
			r.Post("/register", h.signup)
			r.With(h.authMiddleware).Get("/me", h.me)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.authMiddleware)

			pr.Route("/medicines", func(r chi.Router) {
				r.Post("/", addRecord(h, h.medicines))
				r.Get("/", listRecords(h, h.medicines))
				r.Get("/{id}", getRecord(h, h.medicines))
				r.Put("/{id}", updateRecord(h, h.medicines))
				r.Patch("/{id}", patchRecord[service.MedicinePatch](h, h.medicines))
				r.Delete("/{id}", deleteRecord(h, h.medicines, "Medicine"))
			})

			pr.Route("/customers", func(r chi.Router) {
				r.Post("/", addRecord(h, h.customers))
				r.Get("/", listRecords(h, h.customers))
				r.Get("/{id}", getRecord(h, h.customers))
				r.Put("/{id}", updateRecord(h, h.customers))
				r.Patch("/{id}", patchRecord[service.CustomerPatch](h, h.customers))
				r.Delete("/{id}", deleteRecord(h, h.customers, "Customer"))
			})

			pr.Route("/suppliers", func(r chi.Router) {
				r.Post("/", addRecord(h, h.suppliers))
				r.Get("/", listRecords(h, h.suppliers))
				r.Get("/{id}", getRecord(h, h.suppliers))
				r.Put("/{id}", updateRecord(h, h.suppliers))
				r.Patch("/{id}", patchRecord[service.SupplierPatch](h, h.suppliers))
				r.Delete("/{id}", deleteRecord(h, h.suppliers, "Supplier"))
			})

			pr.Route("/sales", func(r chi.Router) {
				r.Post("/", h.createSale)
				r.Get("/", h.listSales)
				r.Get("/export", h.exportSales)
				r.Get("/{id}/items", h.saleItems)
			})

			pr.Route("/dashboard", func(r chi.Router) {
				r.Get("/total-medicines", h.totalMedicines)
				r.Get("/total-sales", h.totalSales)
				r.Get("/low-stock", h.lowStock)
				r.Get("/recent-sales", h.recentSales)
				r.Get("/summary", h.summary)
				r.Get("/expiry", h.expiryReport)
			})
		})
	})

	return r
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		username, err := h.auth.Tokens().Subject(strings.TrimSpace(header[len("Bearer "):]))
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUsername(r.Context(), username)))
	})
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			h.log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

// respondServiceError maps service failures to a status code. Unexpected
// errors are logged and hidden behind a 500.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrInsufficientStock):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func decodeJSON(r *http.Request, dest interface{}) error {
	return json.NewDecoder(r.Body).Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}
