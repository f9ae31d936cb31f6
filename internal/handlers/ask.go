package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"docqa/internal/contextutil"
	"docqa/internal/rag"
	"docqa/internal/service"
)

// AskHandler handles HTTP requests for questions.
type AskHandler struct {
	qaService service.QAService
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(qaService service.QAService) *AskHandler {
	return &AskHandler{qaService: qaService}
}

// AskRequest represents the HTTP request payload for questions.
//
// swagger:model AskRequest
type AskRequest struct {
	// The user's input; greetings and arithmetic are accepted too
	Question string `json:"question"`
}

// AskResponse represents the HTTP response payload for questions.
//
// swagger:model AskResponse
type AskResponse struct {
	// The reply shown to the user
	Answer string `json:"answer"`

	// The pipeline stage that produced the answer
	Branch string `json:"branch"`

	// Stored pairs the answer was synthesized from
	References []rag.Reference `json:"references,omitempty"`

	// Debug contains stage details when debug mode is enabled (via ?debug=true query parameter).
	Debug *rag.DebugInfo `json:"debug,omitempty"`
}

// ServeHTTP handles HTTP requests for questions.
//
// Ask a question against the current knowledge base.
//
// swagger:route POST /api/ask askQuestion
//
// # Ask a question
//
// Greetings get a conversational reply, arithmetic is evaluated, and other
// questions are answered from the uploaded documents' question/answer pairs.
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// parameters:
//   - in: body
//     name: body
//     required: true
//     schema:
//     "$ref": "#/definitions/AskRequest"
//   - in: query
//     name: debug
//     type: boolean
//     required: false
//
// responses:
//
//	'200':
//	  description: Answer, including fixed replies for an empty or unreachable knowledge base
//	  schema:
//	    "$ref": "#/definitions/AskResponse"
//	'400':
//	  description: Empty or oversized question
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	debug := false
	if debugParam := r.URL.Query().Get("debug"); debugParam != "" {
		debug = strings.ToLower(debugParam) == "true" || debugParam == "1"
	}

	result, err := h.qaService.Ask(ctx, service.AskRequest{
		Question: req.Question,
		Debug:    debug,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to answer question")
		return
	}

	writeJSON(w, http.StatusOK, AskResponse{
		Answer:     result.Answer,
		Branch:     string(result.Branch),
		References: result.References,
		Debug:      result.Debug,
	})
}
