package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docqa/internal/handlers"
	"docqa/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	QAService        service.QAService
	KnowledgeService service.KnowledgeService
	UploadMaxBytes   int64
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	askHandler := handlers.NewAskHandler(deps.QAService)
	documentHandler := handlers.NewDocumentHandler(deps.KnowledgeService, deps.UploadMaxBytes)
	knowledgeHandler := handlers.NewKnowledgeHandler(deps.KnowledgeService)
	healthHandler := handlers.NewHealthHandler(deps.KnowledgeService)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/ask", askHandler)
		r.Method(http.MethodPost, "/documents", documentHandler)
		r.Method(http.MethodGet, "/knowledge", knowledgeHandler)
		r.Method(http.MethodDelete, "/knowledge", knowledgeHandler)
		r.Get("/knowledge/faqs", knowledgeHandler.FAQs)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
