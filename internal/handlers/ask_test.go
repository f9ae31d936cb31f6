package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"docqa/internal/rag"
	"docqa/internal/service"
	"docqa/internal/service/mocks"
)

func TestNewAskHandler(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockQAService := mocks.NewMockQAService(ctrl)
	handler := NewAskHandler(mockQAService)

	if handler == nil {
		t.Fatal("NewAskHandler() returned nil")
	}
	if handler.qaService != mockQAService {
		t.Error("NewAskHandler() qaService not set correctly")
	}
}

func TestAskHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		target        string
		body          any
		mockSetup     func(*mocks.MockQAService)
		wantStatus    int
		checkResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:   "answer with references",
			method: http.MethodPost,
			target: "/api/ask",
			body:   AskRequest{Question: "退货政策是什么？"},
			mockSetup: func(m *mocks.MockQAService) {
				m.EXPECT().
					Ask(gomock.Any(), service.AskRequest{Question: "退货政策是什么？"}).
					Return(rag.Result{
						Answer:     "七天无理由退货。",
						Branch:     rag.BranchAnswer,
						References: []rag.Reference{{ID: "1", Question: "如何退货？", RelevanceScore: 0.91}},
					}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp AskResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.Answer != "七天无理由退货。" || resp.Branch != "answer" {
					t.Errorf("unexpected response: %+v", resp)
				}
				if len(resp.References) != 1 || resp.References[0].ID != "1" {
					t.Errorf("unexpected references: %+v", resp.References)
				}
				if resp.Debug != nil {
					t.Error("debug should be omitted")
				}
			},
		},
		{
			name:   "debug query parameter",
			method: http.MethodPost,
			target: "/api/ask?debug=true",
			body:   AskRequest{Question: "你好"},
			mockSetup: func(m *mocks.MockQAService) {
				isQuestion := false
				m.EXPECT().
					Ask(gomock.Any(), service.AskRequest{Question: "你好", Debug: true}).
					Return(rag.Result{
						Answer: "你好！",
						Branch: rag.BranchChitchat,
						Debug:  &rag.DebugInfo{IsQuestion: &isQuestion},
					}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp AskResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.Debug == nil || resp.Debug.IsQuestion == nil || *resp.Debug.IsQuestion {
					t.Errorf("expected debug info with is_question=false, got %+v", resp.Debug)
				}
			},
		},
		{
			name:       "method not allowed",
			method:     http.MethodGet,
			target:     "/api/ask",
			mockSetup:  func(m *mocks.MockQAService) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "invalid JSON body",
			method:     http.MethodPost,
			target:     "/api/ask",
			body:       "invalid json",
			mockSetup:  func(m *mocks.MockQAService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "validation error",
			method: http.MethodPost,
			target: "/api/ask",
			body:   AskRequest{Question: "  "},
			mockSetup: func(m *mocks.MockQAService) {
				m.EXPECT().
					Ask(gomock.Any(), gomock.Any()).
					Return(rag.Result{}, &service.ValidationError{Field: "question", Message: "cannot be empty"})
			},
			wantStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.Error == "" {
					t.Error("expected error message")
				}
			},
		},
		{
			name:   "unexpected service error",
			method: http.MethodPost,
			target: "/api/ask",
			body:   AskRequest{Question: "运费多少？"},
			mockSetup: func(m *mocks.MockQAService) {
				m.EXPECT().
					Ask(gomock.Any(), gomock.Any()).
					Return(rag.Result{}, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockQAService := mocks.NewMockQAService(ctrl)
			tt.mockSetup(mockQAService)

			handler := NewAskHandler(mockQAService)

			var body []byte
			if tt.body != nil {
				if s, ok := tt.body.(string); ok {
					body = []byte(s)
				} else {
					body, _ = json.Marshal(tt.body)
				}
			}

			req := httptest.NewRequest(tt.method, tt.target, bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}
