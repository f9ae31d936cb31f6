package handlers

import (
	"net/http"

	"docqa/internal/contextutil"
	"docqa/internal/knowledge"
	"docqa/internal/service"
)

// KnowledgeHandler reports and resets the current knowledge base.
type KnowledgeHandler struct {
	knowledgeService service.KnowledgeService
}

// NewKnowledgeHandler creates a new KnowledgeHandler.
func NewKnowledgeHandler(knowledgeService service.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{knowledgeService: knowledgeService}
}

// FAQListResponse represents the stored pairs of the current session.
//
// swagger:model FAQListResponse
type FAQListResponse struct {
	Count int              `json:"count"`
	FAQs  []knowledge.Pair `json:"faqs"`
}

// ServeHTTP dispatches on method.
//
// swagger:route GET /api/knowledge knowledgeStatus
//
// Reports whether a knowledge base is loaded, its session, and pair count.
//
// responses:
//
//	'200':
//	  description: Current status
//
// swagger:route DELETE /api/knowledge resetKnowledge
//
// Destroys the current session and drops its vector collection.
//
// responses:
//
//	'204':
//	  description: Session removed
//	'404':
//	  description: No active session
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *KnowledgeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	switch r.Method {
	case http.MethodGet:
		status, err := h.knowledgeService.Status(ctx)
		if err != nil {
			handleServiceError(w, ctx, err, "Failed to read knowledge base status")
			return
		}
		writeJSON(w, http.StatusOK, status)

	case http.MethodDelete:
		if err := h.knowledgeService.Reset(ctx); err != nil {
			handleServiceError(w, ctx, err, "Failed to reset knowledge base")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// FAQs lists the stored pairs of the current session.
//
// swagger:route GET /api/knowledge/faqs listFAQs
//
// responses:
//
//	'200':
//	  description: Stored pairs in insertion order
//	  schema:
//	    "$ref": "#/definitions/FAQListResponse"
func (h *KnowledgeHandler) FAQs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	faqs, err := h.knowledgeService.FAQs(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list FAQs")
		return
	}
	if faqs == nil {
		faqs = []knowledge.Pair{}
	}

	writeJSON(w, http.StatusOK, FAQListResponse{Count: len(faqs), FAQs: faqs})
}
