package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_asker.go -package=mocks docqa/internal/service Asker
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_qa_service.go -package=mocks -mock_names=QAService=MockQAService docqa/internal/service QAService

import (
	"context"
	"strings"
	"unicode/utf8"

	"docqa/internal/contextutil"
	"docqa/internal/rag"
)

// MaxQuestionRunes bounds the length of a question.
const MaxQuestionRunes = 2000

// Asker answers questions. rag.Engine implements it.
// This interface is defined from the service layer's perspective (consumer-first).
type Asker interface {
	Ask(ctx context.Context, req rag.AskRequest) rag.Result
}

// AskRequest represents a question in the domain layer.
type AskRequest struct {
	Question string
	Debug    bool
}

// QAService answers user questions against the current knowledge base.
type QAService interface {
	// Ask validates the question and runs it through the pipeline.
	// Pipeline failures are reported in the result, not as errors.
	Ask(ctx context.Context, req AskRequest) (rag.Result, error)
}

// qaService implements QAService.
type qaService struct {
	asker Asker
}

// NewQAService creates a new QAService.
func NewQAService(asker Asker) QAService {
	return &qaService{asker: asker}
}

// Ask processes a question.
func (s *qaService) Ask(ctx context.Context, req AskRequest) (rag.Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	question := strings.TrimSpace(req.Question)
	if question == "" {
		logger.WarnContext(ctx, "empty question in ask request")
		return rag.Result{}, &ValidationError{
			Field:   "question",
			Message: "cannot be empty",
		}
	}
	if utf8.RuneCountInString(question) > MaxQuestionRunes {
		logger.WarnContext(ctx, "question too long", "runes", utf8.RuneCountInString(question))
		return rag.Result{}, &ValidationError{
			Field:   "question",
			Message: "is too long",
		}
	}

	res := s.asker.Ask(ctx, rag.AskRequest{Question: question, Debug: req.Debug})
	logger.InfoContext(ctx, "ask request processed", "question_length", len(question), "branch", res.Branch)
	return res, nil
}
