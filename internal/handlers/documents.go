package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"docqa/internal/contextutil"
	"docqa/internal/indexer"
	"docqa/internal/loader"
	"docqa/internal/service"
)

// multipartMemory is the part of an upload kept in memory before spilling to disk.
const multipartMemory = 8 << 20

// DocumentHandler handles document uploads.
type DocumentHandler struct {
	knowledgeService service.KnowledgeService
	maxBytes         int64
}

// NewDocumentHandler creates a new DocumentHandler. maxBytes bounds the request body.
func NewDocumentHandler(knowledgeService service.KnowledgeService, maxBytes int64) *DocumentHandler {
	return &DocumentHandler{
		knowledgeService: knowledgeService,
		maxBytes:         maxBytes,
	}
}

// UploadResponse represents the HTTP response payload for an upload.
//
// swagger:model UploadResponse
type UploadResponse struct {
	// Session the document was added to
	SessionID string `json:"session_id"`

	// Whether this upload created the session
	NewSession bool `json:"new_session"`

	// Uploaded file name and detected kind
	Filename string `json:"filename"`
	Kind     string `json:"kind"`

	// Pairs in the knowledge base after this upload
	TotalPairs int `json:"total_pairs"`

	// Extraction statistics for this document
	Stats *indexer.IngestStats `json:"stats"`
}

// ServeHTTP handles document uploads.
//
// swagger:route POST /api/documents uploadDocument
//
// # Upload a document
//
// Extracts question/answer pairs from a txt, pdf, or md file and adds them to
// the current knowledge base. The first successful upload creates the session.
//
// ---
// consumes:
// - multipart/form-data
// produces:
// - application/json
// parameters:
//   - in: formData
//     name: file
//     type: file
//     required: true
//
// responses:
//
//	'200':
//	  description: Document ingested
//	  schema:
//	    "$ref": "#/definitions/UploadResponse"
//	'400':
//	  description: Missing file, unsupported kind, or unreadable document
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'413':
//	  description: Upload too large
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'422':
//	  description: No question/answer pairs could be extracted
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'502':
//	  description: Completion, embedding, or vector service error
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *DocumentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.WarnContext(ctx, "upload too large", "limit", tooLarge.Limit)
			writeError(w, http.StatusRequestEntityTooLarge, "Upload too large")
			return
		}
		logger.WarnContext(ctx, "invalid multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		logger.WarnContext(ctx, "missing file field", "error", err)
		writeError(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	filename := filepath.Base(header.Filename)
	kind, err := loader.KindFromFilename(filename)
	if kindParam := r.FormValue("kind"); kindParam != "" {
		kind, err = loader.ParseKind(kindParam)
	}
	if err != nil {
		handleServiceError(w, ctx, err, "Unsupported document kind")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read upload", "filename", filename, "error", err)
		writeError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	text, err := loader.Parse(ctx, data, kind)
	if err != nil {
		if errors.Is(err, loader.ErrEmptyDocument) || errors.Is(err, loader.ErrUnsupportedKind) {
			handleServiceError(w, ctx, err, "Failed to read document")
			return
		}
		logger.WarnContext(ctx, "failed to parse document", "filename", filename, "kind", kind, "error", err)
		writeError(w, http.StatusBadRequest, "Failed to read document")
		return
	}

	result, err := h.knowledgeService.Ingest(ctx, service.IngestRequest{
		Filename: filename,
		Kind:     string(kind),
		Text:     text,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to ingest document")
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		SessionID:  result.SessionID,
		NewSession: result.NewSession,
		Filename:   result.Filename,
		Kind:       result.Kind,
		TotalPairs: result.TotalPairs,
		Stats:      result.Stats,
	})
}
