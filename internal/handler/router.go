package handler

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	mid "github.com/hwalton/wildtubs-configurator/internal/middleware"
	"github.com/hwalton/wildtubs-configurator/internal/service"
	authpkg "github.com/hwalton/wildtubs-configurator/pkg/auth"
)

// Handler groups dependencies for route handlers.
type Handler struct {
	auth        authpkg.Authenticator // nil leaves the API open
	catalogs    map[string]*service.Catalog
	kinds       []string
	defaultKind string
	templates   *template.Template
	sessions    *sessionStore
}

// Options configures NewRouter.
type Options struct {
	Catalogs    map[string]*service.Catalog
	Kinds       []string // navigation order
	DefaultKind string
	Auth        authpkg.Authenticator
	Templates   *template.Template
}

// NewRouter mounts the configurator page, offer exports and the JSON API.
func NewRouter(opts Options) http.Handler {
	h := &Handler{
		auth:        opts.Auth,
		catalogs:    opts.Catalogs,
		kinds:       opts.Kinds,
		defaultKind: opts.DefaultKind,
		templates:   opts.Templates,
		sessions:    newSessionStore(opts.Catalogs),
	}
	r := chi.NewRouter()

	r.Get("/health", h.health)
	r.Get("/", h.homeHandler)

	r.Route("/configurator/{kind}", func(r chi.Router) {
		r.Get("/", h.configuratorHandler)
		r.Post("/", h.configuratorSubmitHandler)
		r.Post("/reset", h.resetHandler)
		r.Get("/offer.xlsx", h.offerExcelHandler)
		r.Get("/offer.pdf", h.offerPDFHandler)
	})

	r.Route("/api", func(r chi.Router) {
		if h.auth != nil {
			r.Use(mid.RequireAuth(h.auth))
		}
		r.Get("/kinds", h.apiKinds)
		r.Get("/{kind}/sections", h.apiSections)
		r.Post("/{kind}/recompute", h.apiRecompute)
		r.Get("/{kind}/state", h.apiGetState)
		r.Put("/{kind}/state", h.apiPutState)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) homeHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/configurator/"+h.defaultKind, http.StatusFound)
}

func (h *Handler) catalog(kind string) (*service.Catalog, bool) {
	c, ok := h.catalogs[kind]
	return c, ok
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
