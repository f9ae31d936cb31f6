package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"docqa/internal/indexer"
	"docqa/internal/service"
	"docqa/internal/service/mocks"
)

// newUploadRequest builds a multipart request with a single file part.
func newUploadRequest(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestDocumentHandler_ServeHTTP(t *testing.T) {
	const doc = "Q: 运费怎么算？\nA: 满99元包邮。"

	tests := []struct {
		name          string
		request       func(*testing.T) *http.Request
		mockSetup     func(*mocks.MockKnowledgeService)
		wantStatus    int
		checkResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "txt upload creates session",
			request: func(t *testing.T) *http.Request {
				return newUploadRequest(t, "faq.txt", []byte(doc), nil)
			},
			mockSetup: func(m *mocks.MockKnowledgeService) {
				m.EXPECT().
					Ingest(gomock.Any(), service.IngestRequest{Filename: "faq.txt", Kind: "txt", Text: doc}).
					Return(service.IngestResult{
						SessionID:  "s-1",
						NewSession: true,
						Filename:   "faq.txt",
						Kind:       "txt",
						TotalPairs: 1,
						Stats:      &indexer.IngestStats{Windows: 1, PairsExtracted: 1, PairsStored: 1},
					}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp UploadResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.SessionID != "s-1" || !resp.NewSession || resp.TotalPairs != 1 {
					t.Errorf("unexpected response: %+v", resp)
				}
				if resp.Stats == nil || resp.Stats.PairsStored != 1 {
					t.Errorf("unexpected stats: %+v", resp.Stats)
				}
			},
		},
		{
			name: "markdown text is extracted before ingest",
			request: func(t *testing.T) *http.Request {
				return newUploadRequest(t, "guide.md", []byte("# 发票\n\n可以开具电子发票。\n"), nil)
			},
			mockSetup: func(m *mocks.MockKnowledgeService) {
				m.EXPECT().
					Ingest(gomock.Any(), service.IngestRequest{Filename: "guide.md", Kind: "md", Text: "发票\n可以开具电子发票。"}).
					Return(service.IngestResult{SessionID: "s-1", Filename: "guide.md", Kind: "md", TotalPairs: 3}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "kind field overrides extension",
			request: func(t *testing.T) *http.Request {
				return newUploadRequest(t, "faq.data", []byte(doc), map[string]string{"kind": "txt"})
			},
			mockSetup: func(m *mocks.MockKnowledgeService) {
				m.EXPECT().
					Ingest(gomock.Any(), gomock.Any()).
					Return(service.IngestResult{SessionID: "s-1", Kind: "txt"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "unsupported kind",
			request: func(t *testing.T) *http.Request {
				return newUploadRequest(t, "faq.docx", []byte(doc), nil)
			},
			mockSetup:  func(m *mocks.MockKnowledgeService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing file",
			request: func(t *testing.T) *http.Request {
				return newUploadRequest(t, "", nil, map[string]string{"note": "x"})
			},
			mockSetup:  func(m *mocks.MockKnowledgeService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "not multipart",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/documents", strings.NewReader(doc))
				req.Header.Set("Content-Type", "text/plain")
				return req
			},
			mockSetup:  func(m *mocks.MockKnowledgeService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "blank document",
			request: func(t *testing.T) *http.Request {
				return newUploadRequest(t, "blank.txt", []byte(" \n "), nil)
			},
			mockSetup:  func(m *mocks.MockKnowledgeService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "corrupt pdf",
			request: func(t *testing.T) *http.Request {
				return newUploadRequest(t, "manual.pdf", []byte("not a pdf"), nil)
			},
			mockSetup:  func(m *mocks.MockKnowledgeService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "no pairs extracted",
			request: func(t *testing.T) *http.Request {
				return newUploadRequest(t, "notes.txt", []byte("今天天气不错。"), nil)
			},
			mockSetup: func(m *mocks.MockKnowledgeService) {
				m.EXPECT().
					Ingest(gomock.Any(), gomock.Any()).
					Return(service.IngestResult{}, service.WrapError(service.ErrNoPairs, "notes.txt"))
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "backend failure",
			request: func(t *testing.T) *http.Request {
				return newUploadRequest(t, "faq.txt", []byte(doc), nil)
			},
			mockSetup: func(m *mocks.MockKnowledgeService) {
				m.EXPECT().
					Ingest(gomock.Any(), gomock.Any()).
					Return(service.IngestResult{}, fmt.Errorf("%w: embeddings down", service.ErrExternalService))
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name: "method not allowed",
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/documents", nil)
			},
			mockSetup:  func(m *mocks.MockKnowledgeService) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := mocks.NewMockKnowledgeService(ctrl)
			tt.mockSetup(mockService)

			handler := NewDocumentHandler(mockService, 1<<20)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, tt.request(t))

			if w.Code != tt.wantStatus {
				t.Errorf("ServeHTTP() status = %v, want %v (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestDocumentHandler_UploadTooLarge(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockKnowledgeService(ctrl)

	handler := NewDocumentHandler(mockService, 512)
	req := newUploadRequest(t, "big.txt", bytes.Repeat([]byte("问"), 1024), nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code == http.StatusOK {
		t.Errorf("ServeHTTP() should reject oversized upload, got %v", w.Code)
	}
}
