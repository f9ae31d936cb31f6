//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_completer.go -package=mocks docqa/internal/rag Completer
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_knowledge_base.go -package=mocks docqa/internal/rag KnowledgeBase

package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"docqa/internal/calc"
	"docqa/internal/contextutil"
	"docqa/internal/knowledge"
	"docqa/internal/prompts"
)

// Completer sends a prompt to a text completion service and returns the reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// KnowledgeBase is the searchable pair store a pipeline answers from.
type KnowledgeBase interface {
	Len() int
	Search(ctx context.Context, query string, topK int) ([]knowledge.ScoredPair, error)
}

// Engine turns one question into one answer.
type Engine interface {
	// Ask runs the question through the pipeline. It never fails: every error
	// path ends in a fixed reply with BranchError or BranchNotReady.
	Ask(ctx context.Context, req AskRequest) Result
	// SetKnowledge replaces the knowledge base. nil detaches it.
	SetKnowledge(kb KnowledgeBase)
}

// ragEngine implements the Engine interface.
type ragEngine struct {
	completer Completer
	prompts   *prompts.Set
	topK      int
	timeout   time.Duration

	mu sync.RWMutex
	kb KnowledgeBase
}

// Option configures an engine.
type Option func(*ragEngine)

// WithTopK sets how many pairs are retrieved per question.
func WithTopK(k int) Option {
	return func(e *ragEngine) {
		if k > 0 {
			e.topK = k
		}
	}
}

// WithTimeout bounds each completion call.
func WithTimeout(d time.Duration) Option {
	return func(e *ragEngine) {
		e.timeout = d
	}
}

// WithPrompts replaces the default prompt templates.
func WithPrompts(set *prompts.Set) Option {
	return func(e *ragEngine) {
		if set != nil {
			e.prompts = set
		}
	}
}

// NewEngine creates a new pipeline without a knowledge base.
func NewEngine(completer Completer, opts ...Option) Engine {
	e := &ragEngine{
		completer: completer,
		prompts:   prompts.Default(),
		topK:      DefaultTopK,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetKnowledge replaces the knowledge base used by later questions.
func (e *ragEngine) SetKnowledge(kb KnowledgeBase) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.kb = kb
}

func (e *ragEngine) knowledgeBase() KnowledgeBase {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.kb
}

// askState carries one question through the stages.
type askState struct {
	req    AskRequest
	logger *slog.Logger
	debug  *DebugInfo
	start  time.Time
}

func (s *askState) mark(stage string, since time.Time) {
	if s.debug != nil {
		s.debug.Timing[stage] = time.Since(since).Milliseconds()
	}
}

func (s *askState) finish(ctx context.Context, res Result) Result {
	if s.debug != nil {
		s.mark("total", s.start)
		res.Debug = s.debug
	}
	s.logger.InfoContext(ctx, "question answered", "branch", res.Branch, "answer_length", len(res.Answer), "duration_ms", time.Since(s.start).Milliseconds())
	return res
}

// fail logs err and returns the fixed apology.
func (s *askState) fail(ctx context.Context, stage string, err error) Result {
	s.logger.ErrorContext(ctx, "pipeline stage failed", "stage", stage, "error", err)
	return s.finish(ctx, Result{Answer: MsgError, Branch: BranchError})
}

// Ask answers a question. Stages run sequentially and the first terminal stage wins.
func (e *ragEngine) Ask(ctx context.Context, req AskRequest) Result {
	st := &askState{
		req:    req,
		logger: contextutil.LoggerFromContext(ctx),
		start:  time.Now(),
	}
	if req.Debug {
		st.debug = &DebugInfo{Timing: make(map[string]int64)}
	}

	st.logger.InfoContext(ctx, "question received", "question_length", len(req.Question))

	// Stage 1: question or chitchat
	stageStart := time.Now()
	isQuestion, err := e.classify(ctx, e.prompts.IsQuestion, req.Question)
	if err != nil {
		return st.fail(ctx, "is_question", err)
	}
	st.mark("is_question", stageStart)
	if st.debug != nil {
		st.debug.IsQuestion = &isQuestion
	}
	if !isQuestion {
		return e.chitchat(ctx, st)
	}

	// Stage 2: calculation
	stageStart = time.Now()
	isCalculation, err := e.classify(ctx, e.prompts.IsCalculation, req.Question)
	if err != nil {
		return st.fail(ctx, "is_calculation", err)
	}
	st.mark("is_calculation", stageStart)
	if st.debug != nil {
		st.debug.IsCalculation = &isCalculation
	}
	if isCalculation {
		return e.calculate(ctx, st)
	}

	// Stage 3: readiness
	kb := e.knowledgeBase()
	if kb == nil || kb.Len() == 0 {
		st.logger.WarnContext(ctx, "knowledge base not ready")
		return st.finish(ctx, Result{Answer: MsgNotReady, Branch: BranchNotReady})
	}

	// Stage 4: retrieval
	stageStart = time.Now()
	retrieved, err := kb.Search(ctx, req.Question, e.topK)
	if err != nil {
		if errors.Is(err, knowledge.ErrUnavailable) {
			st.logger.WarnContext(ctx, "knowledge base unavailable", "error", err)
			return st.finish(ctx, Result{Answer: MsgNotReady, Branch: BranchNotReady})
		}
		return st.fail(ctx, "retrieval", err)
	}
	st.mark("retrieval", stageStart)
	st.logger.DebugContext(ctx, "retrieved pairs", "count", len(retrieved), "top_k", e.topK)
	if len(retrieved) == 0 {
		return st.finish(ctx, Result{Answer: MsgNoMatch, Branch: BranchNoMatch})
	}

	// Stage 5: relevance filter
	stageStart = time.Now()
	relevant := e.filter(ctx, st, retrieved)
	st.mark("relevance", stageStart)
	st.logger.DebugContext(ctx, "relevance filter", "retrieved", len(retrieved), "relevant", len(relevant))
	if len(relevant) == 0 {
		return st.finish(ctx, Result{Answer: MsgNoMatch, Branch: BranchNoMatch})
	}

	// Stage 6: synthesis
	stageStart = time.Now()
	prompt, err := e.prompts.Answer(req.Question, BuildContext(relevant))
	if err != nil {
		return st.fail(ctx, "answer", err)
	}
	answer, err := e.complete(ctx, prompt)
	if err != nil {
		return st.fail(ctx, "answer", err)
	}
	st.mark("answer", stageStart)

	references := make([]Reference, len(relevant))
	for i, p := range relevant {
		references[i] = Reference{ID: p.ID, Question: p.Question, RelevanceScore: p.RelevanceScore}
	}
	return st.finish(ctx, Result{Answer: answer, Branch: BranchAnswer, References: references})
}

func (e *ragEngine) chitchat(ctx context.Context, st *askState) Result {
	prompt, err := e.prompts.Chitchat(st.req.Question)
	if err != nil {
		return st.fail(ctx, "chitchat", err)
	}
	reply, err := e.complete(ctx, prompt)
	if err != nil {
		return st.fail(ctx, "chitchat", err)
	}
	return st.finish(ctx, Result{Answer: reply, Branch: BranchChitchat})
}

func (e *ragEngine) calculate(ctx context.Context, st *askState) Result {
	if expr, value, ok := calc.Solve(st.req.Question); ok {
		if st.debug != nil {
			st.debug.Expression = expr
		}
		st.logger.DebugContext(ctx, "evaluated expression", "expression", expr, "value", value)
		return st.finish(ctx, Result{Answer: calculationPrefix + calc.Format(value), Branch: BranchCalculation})
	}

	st.logger.DebugContext(ctx, "no evaluable expression, asking the model")
	prompt, err := e.prompts.CalculationFallback(st.req.Question)
	if err != nil {
		return st.fail(ctx, "calculation_fallback", err)
	}
	reply, err := e.complete(ctx, prompt)
	if err != nil {
		return st.fail(ctx, "calculation_fallback", err)
	}
	return st.finish(ctx, Result{Answer: reply, Branch: BranchCalculationFallback})
}

// filter keeps the pairs the model judges relevant, in retrieved order.
// A failed check drops only that pair.
func (e *ragEngine) filter(ctx context.Context, st *askState, retrieved []knowledge.ScoredPair) []knowledge.ScoredPair {
	relevant := make([]knowledge.ScoredPair, 0, len(retrieved))
	for i, pair := range retrieved {
		ok, err := e.classify(ctx, func(q string) (string, error) {
			return e.prompts.Relevance(q, pair.Question)
		}, st.req.Question)
		if err != nil {
			st.logger.WarnContext(ctx, "relevance check failed", "pair_id", pair.ID, "error", err)
		}
		if st.debug != nil {
			st.debug.Retrieved = append(st.debug.Retrieved, RetrievedPair{
				ScoredPair:  pair,
				Rank:        i + 1,
				Relevant:    ok,
				CheckFailed: err != nil,
			})
		}
		if ok {
			relevant = append(relevant, pair)
		}
	}
	return relevant
}

// classify renders a yes/no prompt and reports whether the reply is affirmative.
func (e *ragEngine) classify(ctx context.Context, render func(string) (string, error), question string) (bool, error) {
	prompt, err := render(question)
	if err != nil {
		return false, err
	}
	reply, err := e.complete(ctx, prompt)
	if err != nil {
		return false, err
	}
	return prompts.IsAffirmative(reply), nil
}

func (e *ragEngine) complete(ctx context.Context, prompt string) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	reply, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	return reply, nil
}

// BuildContext formats pairs as "Q: ...\nA: ..." entries separated by blank lines.
func BuildContext(pairs []knowledge.ScoredPair) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = fmt.Sprintf("Q: %s\nA: %s", p.Question, p.Answer)
	}
	return strings.Join(parts, "\n\n")
}
