package services

import (
	"log"
	"model_inventory/inventory/auth"
	"model_inventory/inventory/store"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Inventory bundles the listing and purchase services behind a single router.
// Route protection is per endpoint, the public catalog routes skip token
// verification entirely.
type Inventory struct {
	models    ModelService
	purchases PurchaseService

	verifier auth.Verifier
	auditLog auth.AuditLogger
}

func NewInventory(listings store.ListingStore, purchases store.PurchaseStore, verifier auth.Verifier, auditLog auth.AuditLogger) *Inventory {
	return &Inventory{
		models:    ModelService{listings: listings},
		purchases: PurchaseService{purchases: purchases, listings: listings},
		verifier:  verifier,
		auditLog:  auditLog,
	}
}

func (s *Inventory) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger: log.New(os.Stderr, "", log.LstdFlags),
	}))

	protect := chi.Middlewares{auth.RequireToken(s.verifier), s.auditLog.Middleware}

	r.Get("/", s.Liveness)

	r.Get("/models", s.models.List)
	r.With(protect...).Get("/models/{id}", s.models.Get)
	r.Post("/models", s.models.Create)
	r.Put("/models/{id}", s.models.Update)
	r.Delete("/models/{id}", s.models.Delete)

	r.Get("/latest-models", s.models.Latest)
	r.With(protect...).Get("/my-models", s.models.Mine)
	r.Get("/search", s.models.Search)

	r.Post("/purchased-model/{id}", s.purchases.Create)
	r.With(protect...).Get("/model-purchase-page", s.purchases.Page)

	return r
}

func (s *Inventory) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Ai Model Inventory Server is running"))
}
